package publish

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestPublish_WritesVersionedAndLatest(t *testing.T) {
	store := NewMemoryStore()
	pub := NewPublisher(store, "/api-docs/")

	keys, err := pub.Publish(context.Background(), "1.2.0", []byte(`{"openapi":"3.0.3"}`), []byte("openapi: 3.0.3\n"))
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	want := []string{
		"api-docs/1.2.0/openapi.json",
		"api-docs/1.2.0/openapi.yaml",
		"api-docs/latest/openapi.json",
		"api-docs/latest/openapi.yaml",
	}
	if !reflect.DeepEqual(keys, want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}

	obj, err := store.Get(context.Background(), "api-docs/1.2.0/openapi.json")
	if err != nil {
		t.Fatal(err)
	}
	if obj.ContentType != "application/json" || obj.CacheControl != immutableCache {
		t.Errorf("unexpected headers %q %q", obj.ContentType, obj.CacheControl)
	}
	latest, _ := store.Get(context.Background(), "api-docs/latest/openapi.yaml")
	if latest.CacheControl != latestCache || string(latest.Data) != "openapi: 3.0.3\n" {
		t.Errorf("unexpected latest object %+v", latest)
	}
}

func TestPublish_SkipsEmptyYAML(t *testing.T) {
	pub := NewPublisher(NewMemoryStore(), "")
	keys, err := pub.Publish(context.Background(), "v1", []byte(`{}`), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(keys, []string{"v1/openapi.json", "latest/openapi.json"}) {
		t.Errorf("unexpected keys %v", keys)
	}
}

func TestPublish_RejectsBadVersion(t *testing.T) {
	pub := NewPublisher(NewMemoryStore(), "docs")
	for _, v := range []string{"", "latest", "../etc", "a/b", "1.0 beta"} {
		if _, err := pub.Publish(context.Background(), v, []byte(`{}`), nil); err == nil {
			t.Errorf("expected error for version %q", v)
		}
	}
	if _, err := pub.Publish(context.Background(), "1.0.0", nil, nil); err == nil {
		t.Error("expected error for empty document")
	}
}

type failingStore struct{ *MemoryStore }

func (failingStore) Put(context.Context, string, []byte, PutOptions) error {
	return errors.New("bucket unavailable")
}

func TestPublish_StoreFailure(t *testing.T) {
	pub := NewPublisher(failingStore{NewMemoryStore()}, "docs")
	keys, err := pub.Publish(context.Background(), "1.0.0", []byte(`{}`), nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if len(keys) != 0 {
		t.Errorf("expected no keys written, got %v", keys)
	}
}

func TestVersions(t *testing.T) {
	pub := NewPublisher(NewMemoryStore(), "docs")
	ctx := context.Background()
	for _, v := range []string{"1.1.0", "1.0.0"} {
		if _, err := pub.Publish(ctx, v, []byte(`{}`), []byte("x: 1\n")); err != nil {
			t.Fatal(err)
		}
	}
	got, err := pub.Versions(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []string{"1.0.0", "1.1.0"}) {
		t.Errorf("Versions = %v", got)
	}
}

func TestMemoryStore_NotFound(t *testing.T) {
	if _, err := NewMemoryStore().Get(context.Background(), "missing"); !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("expected ErrObjectNotFound, got %v", err)
	}
}
