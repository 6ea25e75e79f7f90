package memory

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"breedlab/internal/blob/core"
)

func TestStoreLifecycle(t *testing.T) {
	store := New()
	ctx := context.Background()
	if store.Driver() != core.DriverMemory {
		t.Fatalf("expected memory driver")
	}
	if _, err := store.Head(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from head, got %v", err)
	}
	if _, _, err := store.Get(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from get, got %v", err)
	}
	if ok, err := store.Delete(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected delete false, got %v %v", ok, err)
	}

	meta := map[string]string{"source": "test"}
	info, err := store.Put(ctx, "tables/v1.yaml", bytes.NewReader([]byte("species: {}")), core.PutOptions{ContentType: "application/yaml", Metadata: meta})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	meta["source"] = "mutated"
	if info.Size != 11 || info.ETag == "" || info.Metadata["source"] != "test" {
		t.Fatalf("unexpected info %+v", info)
	}
	if _, err := store.Put(ctx, "tables/v1.yaml", bytes.NewReader(nil), core.PutOptions{}); !errors.Is(err, core.ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	if _, err := store.Put(ctx, " ", bytes.NewReader(nil), core.PutOptions{}); err == nil {
		t.Fatalf("expected empty key error")
	}

	got, rc, err := store.Get(ctx, "tables/v1.yaml")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(body) != "species: {}" || got.ContentType != "application/yaml" {
		t.Fatalf("unexpected get %+v %q", got, body)
	}

	if _, err := store.Put(ctx, "tables/v2.yaml", bytes.NewReader([]byte("x")), core.PutOptions{}); err != nil {
		t.Fatalf("put v2: %v", err)
	}
	if _, err := store.Put(ctx, "other", bytes.NewReader([]byte("x")), core.PutOptions{}); err != nil {
		t.Fatalf("put other: %v", err)
	}
	list, err := store.List(ctx, "tables/")
	if err != nil || len(list) != 2 || list[0].Key != "tables/v1.yaml" || list[1].Key != "tables/v2.yaml" {
		t.Fatalf("unexpected list %+v %v", list, err)
	}
	if ok, err := store.Delete(ctx, "tables/v1.yaml"); err != nil || !ok {
		t.Fatalf("expected delete true, got %v %v", ok, err)
	}
	if all, _ := store.List(ctx, ""); len(all) != 2 {
		t.Fatalf("expected 2 blobs after delete, got %d", len(all))
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, fmt.Errorf("fail") }

func TestStorePutReadError(t *testing.T) {
	if _, err := New().Put(context.Background(), "bad", failingReader{}, core.PutOptions{}); err == nil {
		t.Fatalf("expected read error")
	}
}
