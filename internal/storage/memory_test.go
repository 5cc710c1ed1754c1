package storage

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryGetSetDelete(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()

	if _, err := kv.Get(ctx, "products"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	value := []byte(`[{"id":"1"}]`)
	if err := kv.Set(ctx, "products", value); err != nil {
		t.Fatalf("set returned error: %v", err)
	}
	value[0] = 'x'

	got, err := kv.Get(ctx, "products")
	if err != nil {
		t.Fatalf("get returned error: %v", err)
	}
	if string(got) != `[{"id":"1"}]` {
		t.Fatalf("stored value was aliased or changed: %s", got)
	}

	if err := kv.Delete(ctx, "products"); err != nil {
		t.Fatalf("delete returned error: %v", err)
	}
	if _, err := kv.Get(ctx, "products"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
