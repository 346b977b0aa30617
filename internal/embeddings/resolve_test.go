package embeddings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResolveOpenAIModels(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")

	tests := []struct {
		model    string
		wantDims int
	}{
		{"text-embedding-3-small", 1536},
		{"text-embedding-3-large", 3072},
		{"text-embedding-ada-002", 1536},
	}

	for _, tt := range tests {
		embedder, err := Resolve(tt.model)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", tt.model, err)
		}
		if embedder.Name() != tt.model {
			t.Errorf("Name() = %q, want %q", embedder.Name(), tt.model)
		}
		if embedder.Dimensions() != tt.wantDims {
			t.Errorf("Dimensions() for %q = %d, want %d", tt.model, embedder.Dimensions(), tt.wantDims)
		}
	}
}

func TestResolveRequiresOpenAIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	_, err := Resolve("text-embedding-3-small")
	if err == nil {
		t.Error("expected error for OpenAI model with missing API key")
	}
}

func TestResolveOllamaWithoutAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OLLAMA_HOST", "")

	embedder, err := Resolve("ollama/nomic-embed-text")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if embedder.Name() != "ollama/nomic-embed-text" {
		t.Errorf("Name() = %q, want ollama/nomic-embed-text", embedder.Name())
	}
	if embedder.Dimensions() != 768 {
		t.Errorf("Dimensions() = %d, want 768", embedder.Dimensions())
	}

	ollamaE, ok := embedder.(*OllamaEmbedder)
	if !ok {
		t.Fatal("expected *OllamaEmbedder")
	}
	if ollamaE.host != defaultOllamaHost {
		t.Errorf("expected default host, got %q", ollamaE.host)
	}
}

func TestResolveUnknownModels(t *testing.T) {
	if _, err := Resolve("embedding-model-that-does-not-exist"); err == nil {
		t.Error("expected error for unknown model")
	}
	if _, err := Resolve("ollama/model-that-does-not-exist"); err == nil {
		t.Error("expected error for unknown ollama model")
	}
}

func TestSupported(t *testing.T) {
	tests := []struct {
		model string
		want  bool
	}{
		{"text-embedding-3-small", true},
		{"text-embedding-3-large", true},
		{"text-embedding-ada-002", true},
		{"ollama/nomic-embed-text", true},
		{"ollama/mxbai-embed-large", true},
		{"ollama/all-minilm", true},
		{"ollama/unknown", false},
		{"gpt-4o", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := Supported(tt.model); got != tt.want {
			t.Errorf("Supported(%q) = %v, want %v", tt.model, got, tt.want)
		}
	}
}

func TestOllamaEmbedderBatchesRequest(t *testing.T) {
	var gotReq ollamaEmbedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embed" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		resp := ollamaEmbedResponse{
			Embeddings: [][]float32{{0.1, 0.2}, {0.3, 0.4}},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	embedder := NewOllamaEmbedder("nomic-embed-text", 2, server.URL)
	vecs, err := embedder.Embed(context.Background(), []string{"first text", "second text"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}

	if gotReq.Model != "nomic-embed-text" {
		t.Errorf("request model = %q, want nomic-embed-text", gotReq.Model)
	}
	if len(gotReq.Input) != 2 {
		t.Fatalf("request carried %d inputs, want 2 in one call", len(gotReq.Input))
	}
	if len(vecs) != 2 {
		t.Fatalf("Embed returned %d vectors, want 2", len(vecs))
	}
	if vecs[1][1] != 0.4 {
		t.Errorf("vectors decoded out of order: %v", vecs)
	}
}

func TestOllamaEmbedderCountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(ollamaEmbedResponse{
			Embeddings: [][]float32{{0.1, 0.2}},
		})
	}))
	defer server.Close()

	embedder := NewOllamaEmbedder("nomic-embed-text", 2, server.URL)
	_, err := embedder.Embed(context.Background(), []string{"one", "two"})
	if err == nil {
		t.Error("expected error when embedding count does not match input count")
	}
}

func TestOllamaEmbedderServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	embedder := NewOllamaEmbedder("missing-model", 2, server.URL)
	_, err := embedder.Embed(context.Background(), []string{"text"})
	if err == nil {
		t.Error("expected error for non-200 response")
	}
}
