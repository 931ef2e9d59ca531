// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package openalex

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"
)

func TestCacheRoundTrip(t *testing.T) {
	cache, err := OpenCache(filepath.Join(t.TempDir(), "nested", "lookups.db"), 0)
	if err != nil {
		t.Fatalf("OpenCache: %v", err)
	}
	defer cache.Close()

	if _, ok, err := cache.Get("title", "title.search:x"); err != nil || ok {
		t.Fatalf("Get on empty cache = ok=%v err=%v", ok, err)
	}

	payload := []byte(`[{"id": "https://openalex.org/W1"}]`)
	if err := cache.Put("title", "title.search:x", payload); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok, err := cache.Get("title", "title.search:x")
	if err != nil || !ok {
		t.Fatalf("Get = ok=%v err=%v", ok, err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("Get = %s, want %s", got, payload)
	}

	// Same term under a different op is a distinct entry.
	if _, ok, _ := cache.Get("title_year", "title.search:x"); ok {
		t.Error("entry leaked across ops")
	}
}

func TestCachePutReplaces(t *testing.T) {
	cache, err := OpenCache(filepath.Join(t.TempDir(), "lookups.db"), 0)
	if err != nil {
		t.Fatalf("OpenCache: %v", err)
	}
	defer cache.Close()

	if err := cache.Put("doi", "doi:10.1/x", []byte(`[]`)); err != nil {
		t.Fatal(err)
	}
	updated := []byte(`[{"id": "https://openalex.org/W2"}]`)
	if err := cache.Put("doi", "doi:10.1/x", updated); err != nil {
		t.Fatal(err)
	}

	got, ok, err := cache.Get("doi", "doi:10.1/x")
	if err != nil || !ok {
		t.Fatalf("Get = ok=%v err=%v", ok, err)
	}
	if !bytes.Equal(got, updated) {
		t.Errorf("Get = %s, want replacement to win", got)
	}
}

func TestCacheExpiresEntries(t *testing.T) {
	cache, err := OpenCache(filepath.Join(t.TempDir(), "lookups.db"), 10*time.Millisecond)
	if err != nil {
		t.Fatalf("OpenCache: %v", err)
	}
	defer cache.Close()

	if err := cache.Put("title", "title.search:y", []byte(`[]`)); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := cache.Get("title", "title.search:y"); err != nil || !ok {
		t.Fatalf("fresh entry should hit: ok=%v err=%v", ok, err)
	}

	time.Sleep(20 * time.Millisecond)
	if _, ok, _ := cache.Get("title", "title.search:y"); ok {
		t.Error("expired entry should miss")
	}
	// The expired row is removed; a re-put makes it live again.
	if err := cache.Put("title", "title.search:y", []byte(`[]`)); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := cache.Get("title", "title.search:y"); !ok {
		t.Error("re-put entry should hit")
	}
}

func TestCachePersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lookups.db")

	cache, err := OpenCache(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := cache.Put("pmid", "pmid:123", []byte(`[]`)); err != nil {
		t.Fatal(err)
	}
	if err := cache.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := OpenCache(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	if _, ok, err := reopened.Get("pmid", "pmid:123"); err != nil || !ok {
		t.Errorf("entry lost across reopen: ok=%v err=%v", ok, err)
	}
}
