package events

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/Babidiii/webhoogz/internal/domain"
)

// ErrUnknownEvent is returned when a payload is requested for an event kind
// that was never registered. Requesting an unregistered kind is a
// programming error; delivery call sites log it and skip that dispatch.
var ErrUnknownEvent = errors.New("unknown event kind")

// EventContext carries every host row a payload builder might need. Each
// builder reads only the fields relevant to its kind and rejects a context
// missing them.
type EventContext struct {
	Challenge *domain.Challenge
	Solve     *domain.Solve
	Team      *domain.Team
}

// BuilderFunc turns host rows into a JSON-serializable payload for one
// event kind.
type BuilderFunc func(ctx context.Context, ec EventContext) (any, error)

// Definition describes one registered event kind: identity, admin-facing
// metadata, a sample payload shape for documentation, and the builder.
type Definition struct {
	Kind        string
	DisplayName string
	Description string
	SampleData  any
	Build       BuilderFunc
}

// Registry maps event kinds to their definitions. It is populated once at
// process start and read-mostly afterwards; registration of an existing
// kind silently overwrites it.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]Definition
}

func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]Definition)}
}

// Register stores a definition under its kind. Last write wins.
func (r *Registry) Register(def Definition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defs[def.Kind] = def
}

// Definitions returns all registered definitions sorted by kind, so the
// admin listing is stable across calls.
func (r *Registry) Definitions() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]Definition, 0, len(r.defs))
	for _, def := range r.defs {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Kind < defs[j].Kind })
	return defs
}

// BuildPayload invokes the builder registered for kind with the given
// context. Returns ErrUnknownEvent if the kind is unregistered or has no
// builder.
func (r *Registry) BuildPayload(ctx context.Context, kind string, ec EventContext) (any, error) {
	r.mu.RLock()
	def, ok := r.defs[kind]
	r.mu.RUnlock()

	if !ok || def.Build == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEvent, kind)
	}
	return def.Build(ctx, ec)
}
