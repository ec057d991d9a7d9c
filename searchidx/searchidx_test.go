package searchidx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRunIndexer(t *testing.T) {
	var gotPath, gotKey, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("api-key")
		gotMethod = r.Method
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := New(srv.URL, "secret")
	if err := c.RunIndexer(context.Background(), "tax-indexer"); err != nil {
		t.Fatal(err)
	}
	if gotMethod != http.MethodPost {
		t.Errorf("method = %s", gotMethod)
	}
	if gotPath != "/indexers/tax-indexer/run" {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "secret" {
		t.Errorf("api-key = %q", gotKey)
	}
}

func TestRunIndexerConflictIsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	c := New(srv.URL, "k")
	if err := c.RunIndexer(context.Background(), "tax-indexer"); err != nil {
		t.Errorf("409 should not be an error: %v", err)
	}
}

func TestRunIndexerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusForbidden)
	}))
	defer srv.Close()

	c := New(srv.URL, "wrong")
	if err := c.RunIndexer(context.Background(), "tax-indexer"); err == nil {
		t.Fatal("expected error")
	}
}
