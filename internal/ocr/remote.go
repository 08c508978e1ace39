package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/adverant/docintel/internal/kerrors"
	"github.com/adverant/docintel/internal/logging"
)

// RemoteBackend delegates recognition to an HTTP vision/OCR service,
// in the shape of the teacher's MageAgent client: base64-encode the
// image, POST it to a configured endpoint, and parse a JSON response
// carrying text and confidence. baseURL is supplied at construction;
// the endpoint path (/api/internal/vision/extract-text) and the
// request/response field names are fixed.
type RemoteBackend struct {
	name       string
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewRemoteBackend creates a RemoteBackend registered under name,
// POSTing recognition requests to baseURL.
func NewRemoteBackend(name, baseURL string) *RemoteBackend {
	return &RemoteBackend{
		name:    name,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: logging.NewLogger("ocr-remote-" + name),
	}
}

func (b *RemoteBackend) Name() string { return b.name }

func (b *RemoteBackend) BackendName() string { return b.name }

func (b *RemoteBackend) Initialize(ctx context.Context) error { return nil }

func (b *RemoteBackend) Shutdown(ctx context.Context) error { return nil }

func (b *RemoteBackend) ConcurrentSafe() bool { return true }

type remoteRecognizeRequest struct {
	Image    string `json:"image"`
	Format   string `json:"format"`
	Language string `json:"language"`
}

type remoteRecognizeResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Text       string  `json:"text"`
		Confidence float64 `json:"confidence"`
	} `json:"data"`
	Message string `json:"message"`
}

func (b *RemoteBackend) Recognize(ctx context.Context, image []byte, language string) (string, error) {
	result, err := b.RecognizeDetailed(ctx, image, language)
	if err != nil {
		return "", err
	}
	return result.Text, nil
}

func (b *RemoteBackend) RecognizeDetailed(ctx context.Context, image []byte, language string) (Result, error) {
	reqBody, err := json.Marshal(remoteRecognizeRequest{
		Image:    base64.StdEncoding.EncodeToString(image),
		Format:   "base64",
		Language: language,
	})
	if err != nil {
		return Result{}, kerrors.NewOcrError(b.name, err)
	}

	endpoint := fmt.Sprintf("%s/api/internal/vision/extract-text", b.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return Result{}, kerrors.NewOcrError(b.name, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	b.logger.Info("requesting remote OCR recognition", "backend", b.name, "image_bytes", len(image))

	resp, err := b.httpClient.Do(httpReq)
	if err != nil {
		return Result{}, kerrors.NewOcrError(b.name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, kerrors.NewOcrError(b.name, err)
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, kerrors.NewOcrError(b.name, fmt.Errorf("remote OCR returned status %d: %s", resp.StatusCode, string(body)))
	}

	var parsed remoteRecognizeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Result{}, kerrors.NewOcrError(b.name, err)
	}
	if !parsed.Success {
		return Result{}, kerrors.NewOcrError(b.name, fmt.Errorf("remote OCR reported failure: %s", parsed.Message))
	}

	return Result{Text: parsed.Data.Text, Confidence: parsed.Data.Confidence}, nil
}
