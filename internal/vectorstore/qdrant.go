// Package vectorstore persists chunk embeddings to Qdrant when the
// service is configured with a QdrantURL. It is an optional sink for
// the C7 embedding stage's output: the extraction pipeline itself
// never depends on it, only whatever wires chunk embeddings into a
// searchable index does.
package vectorstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	qdrant "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Store handles vector storage and similarity search against a single
// Qdrant collection sized for one embedding model's output dimension.
type Store struct {
	points      qdrant.PointsClient
	collections qdrant.CollectionsClient
	conn        *grpc.ClientConn
	collection  string
	dimensions  int
}

// ChunkVector is one chunk's embedding plus enough metadata to trace
// it back to its source document and position.
type ChunkVector struct {
	ID         string
	Vector     []float32
	DocumentID string
	ChunkIndex int
	Content    string
	Metadata   map[string]interface{}
}

// New connects to address and ensures collection exists, sized for
// dimensions (the resolved embedder's output size — see
// pipeline.Embedder.Dimensions — not a fixed model-specific constant,
// since the pipeline supports preset/fastembed/custom embedding
// models of varying width).
func New(address, collection string, dimensions int) (*Store, error) {
	if address == "" {
		return nil, fmt.Errorf("vectorstore: qdrant address is required")
	}
	if collection == "" {
		return nil, fmt.Errorf("vectorstore: collection name is required")
	}
	if dimensions <= 0 {
		return nil, fmt.Errorf("vectorstore: dimensions must be positive, got %d", dimensions)
	}

	conn, err := grpc.Dial(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("vectorstore: connecting to qdrant: %w", err)
	}

	s := &Store{
		points:      qdrant.NewPointsClient(conn),
		collections: qdrant.NewCollectionsClient(conn),
		conn:        conn,
		collection:  collection,
		dimensions:  dimensions,
	}

	if err := s.ensureCollection(context.Background()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("vectorstore: ensuring collection: %w", err)
	}
	return s, nil
}

func (s *Store) ensureCollection(ctx context.Context) error {
	listResp, err := s.collections.List(ctx, &qdrant.ListCollectionsRequest{})
	if err != nil {
		return fmt.Errorf("listing collections: %w", err)
	}
	for _, col := range listResp.Collections {
		if col.Name == s.collection {
			return nil
		}
	}

	_, err = s.collections.Create(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: &qdrant.VectorsConfig{
			Config: &qdrant.VectorsConfig_Params{
				Params: &qdrant.VectorParams{
					Size:     uint64(s.dimensions),
					Distance: qdrant.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("creating collection: %w", err)
	}
	return nil
}

// Dimensions reports the vector width this store's collection expects.
func (s *Store) Dimensions() int { return s.dimensions }

// Upsert stores or updates one chunk's vector. Generates a UUID for
// cv.ID when empty.
func (s *Store) Upsert(ctx context.Context, cv *ChunkVector) error {
	if cv == nil {
		return fmt.Errorf("vectorstore: chunk vector is required")
	}
	if len(cv.Vector) != s.dimensions {
		return fmt.Errorf("vectorstore: invalid vector dimensions: expected %d, got %d", s.dimensions, len(cv.Vector))
	}
	if cv.ID == "" {
		cv.ID = uuid.New().String()
	}

	payload := map[string]*qdrant.Value{
		"document_id": {Kind: &qdrant.Value_StringValue{StringValue: cv.DocumentID}},
		"chunk_index": {Kind: &qdrant.Value_IntegerValue{IntegerValue: int64(cv.ChunkIndex)}},
		"content":     {Kind: &qdrant.Value_StringValue{StringValue: cv.Content}},
	}
	for k, v := range cv.Metadata {
		payload[k] = toQdrantValue(v)
	}

	pointStruct := &qdrant.PointStruct{
		Id: &qdrant.PointId{PointIdOptions: &qdrant.PointId_Uuid{Uuid: cv.ID}},
		Vectors: &qdrant.Vectors{
			VectorsOptions: &qdrant.Vectors_Vector{Vector: &qdrant.Vector{Data: cv.Vector}},
		},
		Payload: payload,
	}

	_, err := s.points.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Points:         []*qdrant.PointStruct{pointStruct},
	})
	if err != nil {
		return fmt.Errorf("vectorstore: upserting vector: %w", err)
	}
	return nil
}

// UpsertBatch stores multiple chunk vectors in one round trip, used by
// the batch-extraction path so a whole document's chunks land together.
func (s *Store) UpsertBatch(ctx context.Context, cvs []*ChunkVector) error {
	points := make([]*qdrant.PointStruct, len(cvs))
	for i, cv := range cvs {
		if len(cv.Vector) != s.dimensions {
			return fmt.Errorf("vectorstore: invalid vector dimensions at index %d: expected %d, got %d", i, s.dimensions, len(cv.Vector))
		}
		if cv.ID == "" {
			cv.ID = uuid.New().String()
		}
		payload := map[string]*qdrant.Value{
			"document_id": {Kind: &qdrant.Value_StringValue{StringValue: cv.DocumentID}},
			"chunk_index": {Kind: &qdrant.Value_IntegerValue{IntegerValue: int64(cv.ChunkIndex)}},
			"content":     {Kind: &qdrant.Value_StringValue{StringValue: cv.Content}},
		}
		for k, v := range cv.Metadata {
			payload[k] = toQdrantValue(v)
		}
		points[i] = &qdrant.PointStruct{
			Id: &qdrant.PointId{PointIdOptions: &qdrant.PointId_Uuid{Uuid: cv.ID}},
			Vectors: &qdrant.Vectors{
				VectorsOptions: &qdrant.Vectors_Vector{Vector: &qdrant.Vector{Data: cv.Vector}},
			},
			Payload: payload,
		}
	}

	_, err := s.points.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("vectorstore: upserting batch: %w", err)
	}
	return nil
}

// Search performs a similarity search against the collection.
func (s *Store) Search(ctx context.Context, queryVector []float32, limit int) ([]*ChunkVector, error) {
	if len(queryVector) != s.dimensions {
		return nil, fmt.Errorf("vectorstore: invalid query vector dimensions: expected %d, got %d", s.dimensions, len(queryVector))
	}
	if limit <= 0 {
		limit = 10
	}

	results, err := s.points.Search(ctx, &qdrant.SearchPoints{
		CollectionName: s.collection,
		Vector:         queryVector,
		Limit:          uint64(limit),
		WithPayload: &qdrant.WithPayloadSelector{
			SelectorOptions: &qdrant.WithPayloadSelector_Enable{Enable: true},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("vectorstore: searching: %w", err)
	}

	out := make([]*ChunkVector, 0, len(results.Result))
	for _, r := range results.Result {
		cv := &ChunkVector{Metadata: make(map[string]interface{})}
		if r.Id != nil {
			cv.ID = r.Id.GetUuid()
		}
		if r.Payload != nil {
			for k, v := range r.Payload {
				switch val := v.Kind.(type) {
				case *qdrant.Value_StringValue:
					if k == "document_id" {
						cv.DocumentID = val.StringValue
					} else if k == "content" {
						cv.Content = val.StringValue
					} else {
						cv.Metadata[k] = val.StringValue
					}
				case *qdrant.Value_IntegerValue:
					if k == "chunk_index" {
						cv.ChunkIndex = int(val.IntegerValue)
					} else {
						cv.Metadata[k] = val.IntegerValue
					}
				case *qdrant.Value_DoubleValue:
					cv.Metadata[k] = val.DoubleValue
				case *qdrant.Value_BoolValue:
					cv.Metadata[k] = val.BoolValue
				}
			}
		}
		cv.Metadata["score"] = r.Score
		out = append(out, cv)
	}
	return out, nil
}

// Delete removes a vector by ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("vectorstore: point ID is required")
	}
	_, err := s.points.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: s.collection,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Points{
				Points: &qdrant.PointsIdsList{
					Ids: []*qdrant.PointId{{PointIdOptions: &qdrant.PointId_Uuid{Uuid: id}}},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("vectorstore: deleting vector: %w", err)
	}
	return nil
}

// CollectionInfo returns collection statistics for observability.
func (s *Store) CollectionInfo(ctx context.Context) (map[string]interface{}, error) {
	info, err := s.collections.Get(ctx, &qdrant.GetCollectionInfoRequest{CollectionName: s.collection})
	if err != nil {
		return nil, fmt.Errorf("vectorstore: getting collection info: %w", err)
	}
	return map[string]interface{}{
		"collection_name": s.collection,
		"dimensions":      s.dimensions,
		"vectors_count":   info.Result.GetVectorsCount(),
		"points_count":    info.Result.GetPointsCount(),
		"status":          info.Result.GetStatus().String(),
	}, nil
}

// Close closes the underlying gRPC connection.
func (s *Store) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

func toQdrantValue(v interface{}) *qdrant.Value {
	switch val := v.(type) {
	case string:
		return &qdrant.Value{Kind: &qdrant.Value_StringValue{StringValue: val}}
	case int64:
		return &qdrant.Value{Kind: &qdrant.Value_IntegerValue{IntegerValue: val}}
	case int:
		return &qdrant.Value{Kind: &qdrant.Value_IntegerValue{IntegerValue: int64(val)}}
	case float64:
		return &qdrant.Value{Kind: &qdrant.Value_DoubleValue{DoubleValue: val}}
	case bool:
		return &qdrant.Value{Kind: &qdrant.Value_BoolValue{BoolValue: val}}
	default:
		return &qdrant.Value{Kind: &qdrant.Value_StringValue{StringValue: fmt.Sprintf("%v", val)}}
	}
}
