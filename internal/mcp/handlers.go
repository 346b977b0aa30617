package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/raglab/docqa/internal/engine"
	"github.com/raglab/docqa/internal/index"
	"github.com/raglab/docqa/internal/walker"
)

// handleAskDocuments answers a question from the indexed documents.
func (s *Server) handleAskDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: question"), nil
	}

	topK := request.GetInt("top_k", 0)

	ans, err := s.engine.Query(ctx, question, engine.ModeDocuments, topK)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
	}

	var sb strings.Builder
	sb.WriteString(ans.DocumentsAnswer)
	if len(ans.Sources) > 0 {
		sb.WriteString("\n\nSources:\n")
		for i, src := range ans.Sources {
			sb.WriteString(fmt.Sprintf("%d. [%.1f%%] %s\n", i+1, src.Relevance*100, src.Meta.Citation()))
		}
	}

	return mcp.NewToolResultText(strings.TrimRight(sb.String(), "\n")), nil
}

// handleSearchDocuments performs semantic search without answer generation.
func (s *Server) handleSearchDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	topK := request.GetInt("top_k", 0)

	results, err := s.engine.Search(ctx, query, topK)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	if len(results) == 0 {
		return mcp.NewToolResultText("No results found. The index may be empty; ingest documents with ingest_path first."), nil
	}

	return mcp.NewToolResultText(index.FormatResults(results)), nil
}

// handleIngestPath indexes a document file or a directory of documents.
func (s *Server) handleIngestPath(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: path"), nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot access %s: %v", path, err)), nil
	}

	var inputs []engine.FileInput
	if info.IsDir() {
		files, err := walker.Walk(walker.WalkerConfig{
			RootDir:     path,
			Include:     s.cfg.Include,
			Exclude:     s.cfg.Exclude,
			MaxFileSize: int64(s.cfg.MaxFileSizeMB) << 20,
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("scanning %s: %v", path, err)), nil
		}
		for _, f := range files {
			data, err := os.ReadFile(f.Path)
			if err != nil {
				continue
			}
			inputs = append(inputs, engine.FileInput{Name: f.RelPath, Data: data})
		}
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("reading %s: %v", path, err)), nil
		}
		inputs = append(inputs, engine.FileInput{Name: filepath.Base(path), Data: data})
	}

	if len(inputs) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No supported documents found under %s.", path)), nil
	}

	batch, err := s.engine.Ingest(ctx, inputs)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("ingestion failed: %v", err)), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Processed %d, skipped %d, failed %d. %d new chunks indexed.\n",
		batch.Processed, batch.Skipped, batch.Failed, batch.NewChunks))
	for _, f := range batch.Files {
		if f.Status == engine.StatusFailed && f.Err != nil {
			sb.WriteString(fmt.Sprintf("failed %s: %v\n", f.Name, f.Err))
		}
	}

	return mcp.NewToolResultText(strings.TrimRight(sb.String(), "\n")), nil
}

// handleIndexStatus reports the index fill level and loaded sources.
func (s *Server) handleIndexStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st := s.engine.Status()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("LLM: %s\n", st.LLMStatus))
	sb.WriteString(fmt.Sprintf("Documents: %d (%s)\n", st.DocumentsLoaded, st.DocumentsStatus))
	sb.WriteString(fmt.Sprintf("Chunks indexed: %d", st.ChunksIndexed))
	if len(st.LoadedSources) > 0 {
		sb.WriteString("\nSources: " + strings.Join(st.LoadedSources, ", "))
	}

	return mcp.NewToolResultText(sb.String()), nil
}
