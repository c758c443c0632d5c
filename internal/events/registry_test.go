package events

import (
	"context"
	"errors"
	"testing"
)

func TestRegistry_BuildPayload(t *testing.T) {
	r := NewRegistry()
	r.Register(Definition{
		Kind: "test_event",
		Build: func(ctx context.Context, ec EventContext) (any, error) {
			return map[string]string{"hello": "world"}, nil
		},
	})

	payload, err := r.BuildPayload(context.Background(), "test_event", EventContext{})
	if err != nil {
		t.Fatalf("BuildPayload failed: %v", err)
	}

	m, ok := payload.(map[string]string)
	if !ok || m["hello"] != "world" {
		t.Errorf("unexpected payload: %v", payload)
	}
}

func TestRegistry_UnknownKind(t *testing.T) {
	r := NewRegistry()

	_, err := r.BuildPayload(context.Background(), "nonexistent_kind", EventContext{})
	if !errors.Is(err, ErrUnknownEvent) {
		t.Errorf("expected ErrUnknownEvent, got %v", err)
	}
}

func TestRegistry_NilBuilder(t *testing.T) {
	r := NewRegistry()
	r.Register(Definition{Kind: "no_builder"})

	_, err := r.BuildPayload(context.Background(), "no_builder", EventContext{})
	if !errors.Is(err, ErrUnknownEvent) {
		t.Errorf("kind without builder should yield ErrUnknownEvent, got %v", err)
	}
}

func TestRegistry_ReregisterOverwrites(t *testing.T) {
	r := NewRegistry()
	r.Register(Definition{
		Kind: "dup",
		Build: func(ctx context.Context, ec EventContext) (any, error) {
			return "old", nil
		},
	})
	r.Register(Definition{
		Kind: "dup",
		Build: func(ctx context.Context, ec EventContext) (any, error) {
			return "new", nil
		},
	})

	payload, err := r.BuildPayload(context.Background(), "dup", EventContext{})
	if err != nil {
		t.Fatalf("BuildPayload failed: %v", err)
	}
	if payload != "new" {
		t.Errorf("re-registration should overwrite, got %v", payload)
	}

	if n := len(r.Definitions()); n != 1 {
		t.Errorf("expected 1 definition after overwrite, got %d", n)
	}
}

func TestRegistry_DefinitionsSortedByKind(t *testing.T) {
	r := NewRegistry()
	for _, kind := range []string{"zebra", "alpha", "middle"} {
		r.Register(Definition{Kind: kind})
	}

	defs := r.Definitions()
	want := []string{"alpha", "middle", "zebra"}
	for i, def := range defs {
		if def.Kind != want[i] {
			t.Errorf("Definitions()[%d].Kind = %q, want %q", i, def.Kind, want[i])
		}
	}
}
