package mcp

import (
	"context"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/phuslu/log"

	"github.com/raglab/docqa/internal/config"
	"github.com/raglab/docqa/internal/engine"
	"github.com/raglab/docqa/internal/index"
	"github.com/raglab/docqa/internal/llm"
)

const handbookMD = "# Handbook\n\nEmployees receive twenty vacation days each year. Unused leave carries over once. Expense reports must be filed within thirty days.\n"

type fakeEmbedder struct {
	dims int
}

func (m *fakeEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vecs := make([][]float32, len(texts))
	for i, t := range texts {
		vecs[i] = deterministicVector(t, m.dims)
	}
	return vecs, nil
}

func (m *fakeEmbedder) Dimensions() int { return m.dims }
func (m *fakeEmbedder) Name() string    { return "fake" }

func deterministicVector(text string, dims int) []float32 {
	vec := make([]float32, dims)
	for i, ch := range text {
		vec[(int(ch)+i)%dims]++
	}
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		vec[0] = 1
		return vec
	}
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec
}

type fakeProvider struct {
	content string
}

func (p *fakeProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	return &llm.CompletionResponse{
		Content:      p.content,
		InputTokens:  10,
		OutputTokens: 5,
		Model:        req.Model,
	}, nil
}

func (p *fakeProvider) Name() string { return "fake" }

// newTestServer wires an MCP server around an engine with fake
// embedding and completion backends.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := config.DefaultConfig()
	factories := engine.Factories{
		Store: func(model string) (index.Store, error) {
			return index.NewFlatStore(&fakeEmbedder{dims: 64}, cfg.EmbedBatchSize), nil
		},
		Provider: func() (llm.Provider, error) {
			return &fakeProvider{content: "Twenty vacation days per year."}, nil
		},
	}
	logger := log.Logger{Writer: &log.IOWriter{Writer: io.Discard}}
	eng := engine.New(cfg, factories, logger)
	return NewServer(eng, cfg)
}

// ingestHandbook loads the handbook fixture straight through the engine.
func ingestHandbook(t *testing.T, srv *Server) {
	t.Helper()
	batch, err := srv.engine.Ingest(context.Background(), []engine.FileInput{
		{Name: "handbook.md", Data: []byte(handbookMD)},
	})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if batch.Processed != 1 {
		t.Fatalf("fixture ingestion tallies: %+v", batch)
	}
}

// extractText gets the text content from a CallToolResult.
func extractText(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestToolDefinitions(t *testing.T) {
	// Verify tool names and required properties.
	tests := []struct {
		name     string
		tool     mcp.Tool
		wantName string
	}{
		{"ask_documents", askDocumentsTool, "ask_documents"},
		{"search_documents", searchDocumentsTool, "search_documents"},
		{"ingest_path", ingestPathTool, "ingest_path"},
		{"index_status", indexStatusTool, "index_status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	srv := newTestServer(t)

	if srv == nil {
		t.Fatal("NewServer returned nil")
	}
	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
	if srv.engine == nil {
		t.Fatal("engine not set")
	}
}

func TestHandleAskDocuments(t *testing.T) {
	ctx := context.Background()

	t.Run("answered question", func(t *testing.T) {
		srv := newTestServer(t)
		ingestHandbook(t, srv)

		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"question": "How many vacation days do employees get?",
		}

		result, err := srv.handleAskDocuments(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		text := extractText(result)
		if !strings.Contains(text, "Twenty vacation days per year.") {
			t.Errorf("answer missing: %q", text)
		}
		if !strings.Contains(text, "Sources:") || !strings.Contains(text, "handbook.md") {
			t.Errorf("citations missing: %q", text)
		}
	})

	t.Run("empty index", func(t *testing.T) {
		srv := newTestServer(t)
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"question": "anything",
		}

		result, err := srv.handleAskDocuments(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("empty index should not be a tool error: %v", result.Content)
		}
		if text := extractText(result); !strings.Contains(text, "No relevant documents found") {
			t.Errorf("expected the no-results notice, got %q", text)
		}
	})

	t.Run("missing question", func(t *testing.T) {
		srv := newTestServer(t)
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := srv.handleAskDocuments(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing question")
		}
	})

	t.Run("blank question", func(t *testing.T) {
		srv := newTestServer(t)
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"question": "   ",
		}

		result, err := srv.handleAskDocuments(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for blank question")
		}
	})
}

func TestHandleSearchDocuments(t *testing.T) {
	ctx := context.Background()

	t.Run("basic search", func(t *testing.T) {
		srv := newTestServer(t)
		ingestHandbook(t, srv)

		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"query": "vacation days",
			"top_k": 3,
		}

		result, err := srv.handleSearchDocuments(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		text := extractText(result)
		if !strings.Contains(text, "handbook.md") {
			t.Errorf("results missing source: %q", text)
		}
		if !strings.Contains(text, "score:") {
			t.Errorf("results missing scores: %q", text)
		}
	})

	t.Run("empty index", func(t *testing.T) {
		srv := newTestServer(t)
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"query": "anything",
		}

		result, err := srv.handleSearchDocuments(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Error("empty results should not be an error")
		}
		if text := extractText(result); !strings.Contains(text, "No results found") {
			t.Errorf("expected the empty-index notice, got %q", text)
		}
	})

	t.Run("missing query", func(t *testing.T) {
		srv := newTestServer(t)
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := srv.handleSearchDocuments(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing query")
		}
	})
}

func TestHandleIngestPath(t *testing.T) {
	ctx := context.Background()

	t.Run("directory", func(t *testing.T) {
		srv := newTestServer(t)
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "handbook.md"), []byte(handbookMD), 0644); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("plain text"), 0644); err != nil {
			t.Fatal(err)
		}

		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"path": dir,
		}

		result, err := srv.handleIngestPath(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		if text := extractText(result); !strings.Contains(text, "Processed 1") {
			t.Errorf("report = %q, want one processed file", text)
		}

		st := srv.engine.Status()
		if st.DocumentsLoaded != 1 || st.ChunksIndexed == 0 {
			t.Errorf("status after ingestion: %+v", st)
		}
	})

	t.Run("single file", func(t *testing.T) {
		srv := newTestServer(t)
		path := filepath.Join(t.TempDir(), "handbook.md")
		if err := os.WriteFile(path, []byte(handbookMD), 0644); err != nil {
			t.Fatal(err)
		}

		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"path": path,
		}

		result, err := srv.handleIngestPath(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}

		sources := srv.engine.Status().LoadedSources
		if len(sources) != 1 || sources[0] != "handbook.md" {
			t.Errorf("loaded sources = %v", sources)
		}
	})

	t.Run("unsupported single file reports failure", func(t *testing.T) {
		srv := newTestServer(t)
		path := filepath.Join(t.TempDir(), "notes.txt")
		if err := os.WriteFile(path, []byte("plain text"), 0644); err != nil {
			t.Fatal(err)
		}

		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"path": path,
		}

		result, err := srv.handleIngestPath(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("per-file failures are reported in the text, not as tool errors: %v", result.Content)
		}
		text := extractText(result)
		if !strings.Contains(text, "failed 1") || !strings.Contains(text, "notes.txt") {
			t.Errorf("report = %q, want the failed file named", text)
		}
	})

	t.Run("empty directory", func(t *testing.T) {
		srv := newTestServer(t)
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"path": t.TempDir(),
		}

		result, err := srv.handleIngestPath(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		if text := extractText(result); !strings.Contains(text, "No supported documents found") {
			t.Errorf("report = %q", text)
		}
	})

	t.Run("missing path param", func(t *testing.T) {
		srv := newTestServer(t)
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := srv.handleIngestPath(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing path")
		}
	})

	t.Run("nonexistent path", func(t *testing.T) {
		srv := newTestServer(t)
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"path": filepath.Join(t.TempDir(), "nope"),
		}

		result, err := srv.handleIngestPath(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for nonexistent path")
		}
	})
}

func TestHandleIndexStatus(t *testing.T) {
	ctx := context.Background()
	srv := newTestServer(t)
	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{}

	result, err := srv.handleIndexStatus(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %v", result.Content)
	}
	text := extractText(result)
	if !strings.Contains(text, "LLM: online") {
		t.Errorf("status missing LLM line: %q", text)
	}
	if !strings.Contains(text, "Documents: 0 (no_docs)") {
		t.Errorf("status missing document tally: %q", text)
	}

	ingestHandbook(t, srv)

	result, err = srv.handleIndexStatus(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text = extractText(result)
	if !strings.Contains(text, "Documents: 1 (ready)") {
		t.Errorf("status after ingestion: %q", text)
	}
	if !strings.Contains(text, "Sources: handbook.md") {
		t.Errorf("status missing sources line: %q", text)
	}
}
