package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/adverant/docintel/internal/logging"
	"github.com/adverant/docintel/internal/model"
)

// HTTPEmbedder calls an HTTP embedding service (a local fastembed
// sidecar, a hosted preset model endpoint, or a custom HuggingFace
// model server) with a fixed request/response shape: POST {input,
// model} -> {data: [{embedding, index}], usage: {total_tokens}}.
type HTTPEmbedder struct {
	baseURL    string
	model      string
	dimensions int
	httpClient *http.Client
	logger     *logging.Logger
}

// NewHTTPEmbedder resolves an EmbeddingConfig's model selector (preset,
// fastembed, or custom) against baseURL. Preset dimensions come from
// model.EmbeddingPresets; fastembed/custom configs declare their own.
func NewHTTPEmbedder(baseURL string, m model.EmbeddingModelType) *HTTPEmbedder {
	dims := m.Dimensions
	modelName := m.Model
	switch m.Kind {
	case "preset":
		modelName = m.Name
		if d, ok := model.EmbeddingPresets[m.Name]; ok {
			dims = d
		}
	case "fastembed":
		modelName = m.Model
	case "custom":
		modelName = m.Model
	}
	return &HTTPEmbedder{
		baseURL:    baseURL,
		model:      modelName,
		dimensions: dims,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logging.NewLogger("embedder"),
	}
}

func (e *HTTPEmbedder) Dimensions() int { return e.dimensions }

type embedRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
}

type embedResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

// EmbedBatch posts texts in a single request and returns vectors in
// input order, re-sorting by the response's declared index.
func (e *HTTPEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	body, err := json.Marshal(embedRequest{Input: texts, Model: e.model})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/embed", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedding response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding service returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed embedResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse embedding response: %w", err)
	}
	if len(parsed.Data) != len(texts) {
		return nil, fmt.Errorf("embedding service returned %d vectors for %d inputs", len(parsed.Data), len(texts))
	}

	vectors := make([][]float32, len(texts))
	for _, d := range parsed.Data {
		if d.Index < 0 || d.Index >= len(texts) {
			return nil, fmt.Errorf("embedding service returned out-of-range index %d", d.Index)
		}
		vectors[d.Index] = d.Embedding
	}

	e.logger.Debug("embedded batch", "model", e.model, "count", len(texts),
		"tokens", parsed.Usage.TotalTokens, "duration", time.Since(start))
	return vectors, nil
}
