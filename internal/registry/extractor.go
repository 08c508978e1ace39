package registry

import (
	"context"
	"sync"

	"github.com/adverant/docintel/internal/kerrors"
	"github.com/adverant/docintel/internal/plugin"
)

// Built-in extractor priorities (C3's defined startup order). Custom
// extractors preempt a built-in only by declaring a higher priority.
const (
	PriorityCSV       = 60
	PriorityMarkup    = 55
	PriorityPlainText = 50
	PriorityPPTX      = 50
	PriorityDOCX      = 50
	PriorityXLSX      = 50
	PriorityPDF       = 50
	PriorityArchive   = 40
	PriorityEmail     = 40
	PriorityImage     = 30
)

// ExtractorRegistry maps a MIME tag to the extractors that claim it,
// selecting the highest-priority Active registration (ties broken by
// registration order) on lookup.
type ExtractorRegistry struct {
	mu      sync.RWMutex
	byName  map[string]*entry[plugin.Extractor]
	byMime  map[string][]*entry[plugin.Extractor]
	nextOrd int
}

// NewExtractorRegistry creates an empty ExtractorRegistry.
func NewExtractorRegistry() *ExtractorRegistry {
	return &ExtractorRegistry{
		byName: make(map[string]*entry[plugin.Extractor]),
		byMime: make(map[string][]*entry[plugin.Extractor]),
	}
}

// Register initializes e and indexes it under every MIME it declares
// support for, at priority.
func (r *ExtractorRegistry) Register(ctx context.Context, e plugin.Extractor, priority int) error {
	name := e.Name()

	r.mu.Lock()
	if existing, ok := r.byName[name]; ok && existing.state == Active {
		r.mu.Unlock()
		return kerrors.NewPluginError(name, "an extractor with this name is already actively registered", nil)
	}
	r.mu.Unlock()

	if err := e.Initialize(ctx); err != nil {
		return kerrors.NewPluginError(name, "initialize failed", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	ent := &entry[plugin.Extractor]{value: e, priority: priority, order: r.nextOrd, state: Active}
	r.nextOrd++
	r.byName[name] = ent
	for _, mime := range e.SupportedMimeTypes() {
		r.byMime[mime] = append(r.byMime[mime], ent)
	}
	return nil
}

// Remove shuts down and removes the extractor registered under name.
func (r *ExtractorRegistry) Remove(ctx context.Context, name string) error {
	r.mu.Lock()
	ent, ok := r.byName[name]
	if !ok {
		r.mu.Unlock()
		return kerrors.NewPluginError(name, "no extractor registered under this name", nil)
	}
	ent.state = Shutting
	r.mu.Unlock()

	err := ent.value.Shutdown(ctx)

	r.mu.Lock()
	ent.state = Released
	delete(r.byName, name)
	for _, mime := range ent.value.SupportedMimeTypes() {
		r.byMime[mime] = removeEntry(r.byMime[mime], ent)
	}
	r.mu.Unlock()

	if err != nil {
		return kerrors.NewPluginError(name, "shutdown failed", err)
	}
	return nil
}

// GetFor returns the highest-priority Active extractor registered for
// mime. Fails with UnsupportedFormat if none is registered.
func (r *ExtractorRegistry) GetFor(mime string) (plugin.Extractor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	candidates := r.byMime[mime]
	var best *entry[plugin.Extractor]
	for _, ent := range candidates {
		if ent.state != Active {
			continue
		}
		if best == nil || less(ent, best) {
			best = ent
		}
	}
	if best == nil {
		var zero plugin.Extractor
		return zero, kerrors.NewUnsupportedFormatError(mime)
	}
	return best.value, nil
}

// List returns every Active extractor, ordered by descending priority
// (ties broken by ascending registration order).
func (r *ExtractorRegistry) List() []plugin.Extractor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]*entry[plugin.Extractor], 0, len(r.byName))
	for _, e := range r.byName {
		if e.state == Active {
			entries = append(entries, e)
		}
	}
	sortEntries(entries)

	out := make([]plugin.Extractor, len(entries))
	for i, e := range entries {
		out[i] = e.value
	}
	return out
}

// ShutdownAll shuts down every registration in reverse registration
// order.
func (r *ExtractorRegistry) ShutdownAll(ctx context.Context) error {
	r.mu.Lock()
	entries := make([]*entry[plugin.Extractor], 0, len(r.byName))
	for _, e := range r.byName {
		entries = append(entries, e)
	}
	sortByDescendingOrder(entries)
	r.mu.Unlock()

	var firstErr error
	for _, e := range entries {
		if err := r.Remove(ctx, e.value.Name()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func removeEntry(entries []*entry[plugin.Extractor], target *entry[plugin.Extractor]) []*entry[plugin.Extractor] {
	out := entries[:0]
	for _, e := range entries {
		if e != target {
			out = append(out, e)
		}
	}
	return out
}
