package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTranslateChunk(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("Failed to parse form: %v", err)
		}
		if got := r.PostForm.Get("q"); got != "Pisten offen. Ab morgen." {
			t.Errorf("Unexpected query text: %q", got)
		}
		if r.PostForm.Get("sl") != "de" || r.PostForm.Get("tl") != "en" {
			t.Errorf("Unexpected language pair: %s -> %s", r.PostForm.Get("sl"), r.PostForm.Get("tl"))
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[[["Slopes open. ","Pisten offen. ",null,null,10],["Starting tomorrow.","Ab morgen.",null,null,10]],null,"de"]`))
	}))
	defer server.Close()

	repo := NewTranslateRepository(server.URL)
	got, err := repo.TranslateChunk(context.Background(), "Pisten offen. Ab morgen.", "de", "en")
	if err != nil {
		t.Fatalf("TranslateChunk failed: %v", err)
	}

	if got != "Slopes open. Starting tomorrow." {
		t.Errorf("Expected joined segments, got %q", got)
	}
}

func TestTranslateChunkServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	repo := NewTranslateRepository(server.URL)
	if _, err := repo.TranslateChunk(context.Background(), "Hallo", "de", "en"); err == nil {
		t.Fatal("Expected error for non-200 response")
	}
}

func TestTranslateChunkMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"unexpected":"shape"}`))
	}))
	defer server.Close()

	repo := NewTranslateRepository(server.URL)
	if _, err := repo.TranslateChunk(context.Background(), "Hallo", "de", "en"); err == nil {
		t.Fatal("Expected error for malformed response")
	}
}

func TestParseTranslateResponseSkipsEmptySegments(t *testing.T) {
	got, err := parseTranslateResponse([]byte(`[[["Hello","Hallo"],[]],null,"de"]`))
	if err != nil {
		t.Fatalf("parseTranslateResponse failed: %v", err)
	}
	if got != "Hello" {
		t.Errorf("Expected 'Hello', got %q", got)
	}
}
