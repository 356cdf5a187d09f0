package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tbourn/go-auction-backend/internal/domain"
)

func TestLookup_Success(t *testing.T) {
	var gotPath, gotNS string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotNS = r.URL.Query().Get("namespace")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"Thunderfury","quality":5,"level":80,"type":"Weapon","sub_type":"Sword","min_level":60,"guid":"g-19019"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	meta, err := c.Lookup(context.Background(), 19019, domain.NamespaceEra)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if gotPath != "/items/19019" || gotNS != "era" {
		t.Fatalf("request = %s?namespace=%s", gotPath, gotNS)
	}
	if meta.Name != "Thunderfury" || meta.Quality != 5 || meta.Level != 80 ||
		meta.SubType != "Sword" || meta.MinLevel != 60 || meta.GUID != "g-19019" {
		t.Fatalf("unexpected metadata: %+v", meta)
	}
}

func TestLookup_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).Lookup(context.Background(), 42, domain.NamespaceRetail)
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestLookup_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).Lookup(context.Background(), 1, domain.NamespaceEra)
	if err == nil || !strings.Contains(err.Error(), "500") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestLookup_EmptyMetadataRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).Lookup(context.Background(), 1, domain.NamespaceEra)
	if err == nil || !strings.Contains(err.Error(), "empty metadata") {
		t.Fatalf("expected empty-metadata error, got %v", err)
	}
}

func TestLookup_Timeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	c := New(srv.URL, 20*time.Millisecond)
	start := time.Now()
	_, err := c.Lookup(context.Background(), 1, domain.NamespaceEra)
	if err == nil {
		t.Fatalf("expected timeout error")
	}
	if time.Since(start) > 2*time.Second {
		t.Fatalf("timeout not enforced")
	}
}

func TestLookup_ContextCancellation(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(srv.URL, time.Minute).Lookup(ctx, 1, domain.NamespaceEra); err == nil {
		t.Fatalf("expected cancellation error")
	}
}
