// Package registry implements the plugin registries of C3/C8: an
// ordered-by-priority named registry (used for post-processors,
// validators, and OCR backends) and a MIME-keyed extractor registry,
// both built on the same Unregistered -> Registered -> Active ->
// Shutting -> Released lifecycle state machine.
package registry

import (
	"context"
	"sync"

	"github.com/adverant/docintel/internal/kerrors"
	"github.com/adverant/docintel/internal/plugin"
)

// State is a single plugin registration's position in its lifecycle.
type State int

const (
	Unregistered State = iota
	Registered
	Active
	Shutting
	Released
)

func (s State) String() string {
	switch s {
	case Unregistered:
		return "unregistered"
	case Registered:
		return "registered"
	case Active:
		return "active"
	case Shutting:
		return "shutting"
	case Released:
		return "released"
	default:
		return "unknown"
	}
}

// entry wraps a registered plugin with its priority, lifecycle state,
// and insertion order (for priority-tie resolution).
type entry[T plugin.Plugin] struct {
	value    T
	priority int
	order    int
	state    State
	mu       sync.Mutex // serializes calls when value is not plugin.ThreadSafe
}

func (e *entry[T]) concurrentSafe() bool {
	ts, ok := any(e.value).(plugin.ThreadSafe)
	return ok && ts.ConcurrentSafe()
}

// Registry is a named registry ordered by priority (ties broken by
// registration order), generic over any plugin.Plugin implementation.
// It backs the post-processor, validator, and OCR-backend registries
// of C8.
type Registry[T plugin.Plugin] struct {
	mu      sync.RWMutex
	byName  map[string]*entry[T]
	nextOrd int
}

// New creates an empty Registry.
func New[T plugin.Plugin]() *Registry[T] {
	return &Registry[T]{byName: make(map[string]*entry[T])}
}

// Register initializes p and inserts it at priority. Higher priority
// values win when multiple plugins are applicable; ties favor the
// earlier registration. Fails with a Plugin error if name is already
// registered and Active.
func (r *Registry[T]) Register(ctx context.Context, p T, priority int) error {
	name := p.Name()

	r.mu.Lock()
	if existing, ok := r.byName[name]; ok && existing.state == Active {
		r.mu.Unlock()
		return kerrors.NewPluginError(name, "a plugin with this name is already actively registered", nil)
	}
	r.mu.Unlock()

	if err := p.Initialize(ctx); err != nil {
		return kerrors.NewPluginError(name, "initialize failed", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	e := &entry[T]{value: p, priority: priority, order: r.nextOrd, state: Active}
	r.nextOrd++
	r.byName[name] = e
	return nil
}

// Remove shuts down and removes the plugin registered under name.
func (r *Registry[T]) Remove(ctx context.Context, name string) error {
	r.mu.Lock()
	e, ok := r.byName[name]
	if !ok {
		r.mu.Unlock()
		return kerrors.NewPluginError(name, "no plugin registered under this name", nil)
	}
	e.state = Shutting
	r.mu.Unlock()

	err := e.value.Shutdown(ctx)

	r.mu.Lock()
	e.state = Released
	delete(r.byName, name)
	r.mu.Unlock()

	if err != nil {
		return kerrors.NewPluginError(name, "shutdown failed", err)
	}
	return nil
}

// List returns every Active plugin, ordered by descending priority
// (ties broken by ascending registration order).
func (r *Registry[T]) List() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]*entry[T], 0, len(r.byName))
	for _, e := range r.byName {
		if e.state == Active {
			entries = append(entries, e)
		}
	}
	sortEntries(entries)

	out := make([]T, len(entries))
	for i, e := range entries {
		out[i] = e.value
	}
	return out
}

// Get returns the highest-priority Active plugin registered under name,
// or false if none is registered.
func (r *Registry[T]) Get(name string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byName[name]
	if !ok || e.state != Active {
		var zero T
		return zero, false
	}
	return e.value, true
}

// WithSerialization calls fn with p, serializing the call if p does not
// declare itself thread-safe. Registries hand plugin invocations
// through this so a single-threaded plugin is never entered reentrantly.
func (r *Registry[T]) WithSerialization(name string, fn func(p T) error) error {
	r.mu.RLock()
	e, ok := r.byName[name]
	r.mu.RUnlock()
	if !ok {
		return kerrors.NewPluginError(name, "no plugin registered under this name", nil)
	}

	if e.concurrentSafe() {
		return fn(e.value)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.value)
}

// ShutdownAll shuts down every registration in reverse registration
// order, collecting (not short-circuiting on) the first error.
func (r *Registry[T]) ShutdownAll(ctx context.Context) error {
	r.mu.Lock()
	entries := make([]*entry[T], 0, len(r.byName))
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

func sortEntries[T plugin.Plugin](entries []*entry[T]) {
	// insertion sort: registries stay small (single-digit plugin
	// counts in practice), so this avoids importing sort for a
	// two-field comparator.
	for i := 1; i < len(entries); i++ {
		j := i
		for j > 0 && less(entries[j], entries[j-1]) {
			entries[j], entries[j-1] = entries[j-1], entries[j]
			j--
		}
	}
}

func less[T plugin.Plugin](a, b *entry[T]) bool {
	if a.priority != b.priority {
		return a.priority > b.priority
	}
	return a.order < b.order
}

func sortByDescendingOrder[T plugin.Plugin](entries []*entry[T]) {
	for i := 1; i < len(entries); i++ {
		j := i
		for j > 0 && entries[j].order > entries[j-1].order {
			entries[j], entries[j-1] = entries[j-1], entries[j]
			j--
		}
	}
}
