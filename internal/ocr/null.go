package ocr

import (
	"context"

	"github.com/adverant/docintel/internal/kerrors"
)

// NullBackend satisfies the OCR backend registry slot for a document
// whose config names an OCR backend ("paddle", "easy", or a custom
// id) that has no concrete implementation registered. Rather than
// letting image-OCR augmentation panic on a missing registry entry,
// callers can register NullBackend under the expected name so
// augmentation fails closed with a clear Ocr error instead of a
// registry lookup miss.
type NullBackend struct {
	name string
}

func NewNullBackend(name string) *NullBackend {
	return &NullBackend{name: name}
}

func (b *NullBackend) Name() string { return b.name }

func (b *NullBackend) BackendName() string { return b.name }

func (b *NullBackend) Initialize(ctx context.Context) error { return nil }

func (b *NullBackend) Shutdown(ctx context.Context) error { return nil }

func (b *NullBackend) ConcurrentSafe() bool { return true }

func (b *NullBackend) Recognize(ctx context.Context, image []byte, language string) (string, error) {
	return "", kerrors.NewOcrError(b.name, errNotConfigured)
}

func (b *NullBackend) RecognizeDetailed(ctx context.Context, image []byte, language string) (Result, error) {
	return Result{}, kerrors.NewOcrError(b.name, errNotConfigured)
}

var errNotConfigured = notConfiguredError{}

type notConfiguredError struct{}

func (notConfiguredError) Error() string {
	return "no concrete OCR backend implementation is registered under this name"
}
