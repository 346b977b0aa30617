package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/raglab/docqa/internal/engine"
	"github.com/raglab/docqa/internal/index"
)

// maxUploadMemory bounds how much of a multipart body is held in RAM
// before spilling to temp files.
const maxUploadMemory = 64 << 20

// statusResponse is the JSON response for the status endpoint.
type statusResponse struct {
	LLMStatus       string   `json:"llm_status"`
	DocumentsStatus string   `json:"documents_status"`
	DocumentsLoaded int      `json:"documents_loaded"`
	ChunksIndexed   int      `json:"chunks_indexed"`
	LoadedSources   []string `json:"loaded_sources"`
}

// fileReport describes one file's outcome in an upload response.
type fileReport struct {
	Name   string `json:"name"`
	Chunks int    `json:"chunks,omitempty"`
	Error  string `json:"error,omitempty"`
}

// uploadResponse is the JSON response for the upload endpoint.
type uploadResponse struct {
	Message        string       `json:"message"`
	ProcessedFiles []fileReport `json:"processed_files"`
	SkippedFiles   []fileReport `json:"skipped_files"`
	FailedFiles    []fileReport `json:"failed_files"`
	NewChunks      int          `json:"new_chunks"`
	TotalFiles     int          `json:"total_files"`
	TotalChunks    int          `json:"total_chunks"`
}

// queryRequest is the JSON body accepted by the query endpoint.
type queryRequest struct {
	Question string `json:"question"`
	Mode     string `json:"mode"`
	TopK     int    `json:"top_k"`
}

// sourceReport is one cited passage in a query response.
type sourceReport struct {
	Source    string  `json:"source"`
	Page      int     `json:"page,omitempty"`
	Type      string  `json:"type"`
	Preview   string  `json:"preview"`
	Relevance float32 `json:"relevance"`
}

// queryResponse is the JSON response for the query endpoint. Which
// answer fields are present depends on the mode.
type queryResponse struct {
	Question        string         `json:"question"`
	Mode            string         `json:"mode"`
	DocumentsAnswer string         `json:"documents_answer,omitempty"`
	ChatGPTAnswer   string         `json:"chatgpt_answer,omitempty"`
	Sources         []sourceReport `json:"sources,omitempty"`
}

// configureRequest is the JSON body accepted by the configure endpoint.
// Absent fields stay unchanged.
type configureRequest struct {
	ChunkSize      *int    `json:"chunk_size"`
	OverlapTokens  *int    `json:"overlap_tokens"`
	TopK           *int    `json:"top_k"`
	EmbeddingModel *string `json:"embedding_model"`
	APIKey         *string `json:"api_key"`
}

// currentConfig is the effective runtime configuration echoed back by
// the configure endpoint.
type currentConfig struct {
	ChunkTokens    int    `json:"chunk_tokens"`
	OverlapTokens  int    `json:"overlap_tokens"`
	TopK           int    `json:"top_k"`
	EmbeddingModel string `json:"embedding_model"`
}

// configureResponse is the JSON response for the configure endpoint.
type configureResponse struct {
	Message       string        `json:"message"`
	UpdatedFields []string      `json:"updated_fields"`
	CurrentConfig currentConfig `json:"current_config"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st := s.engine.Status()

	sources := st.LoadedSources
	if sources == nil {
		sources = []string{}
	}

	writeJSON(w, http.StatusOK, statusResponse{
		LLMStatus:       st.LLMStatus,
		DocumentsStatus: st.DocumentsStatus,
		DocumentsLoaded: st.DocumentsLoaded,
		ChunksIndexed:   st.ChunksIndexed,
		LoadedSources:   sources,
	})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		writeError(w, http.StatusBadRequest, "no files uploaded")
		return
	}

	inputs := make([]engine.FileInput, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("reading %s: %v", fh.Filename, err))
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("reading %s: %v", fh.Filename, err))
			return
		}
		inputs = append(inputs, engine.FileInput{Name: fh.Filename, Data: data})
	}

	batch, err := s.engine.Ingest(r.Context(), inputs)
	if err != nil {
		// Batch-level failures mean the vector store could not be
		// initialized.
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	resp := uploadResponse{
		Message:        fmt.Sprintf("Successfully processed %d files", batch.Processed),
		ProcessedFiles: []fileReport{},
		SkippedFiles:   []fileReport{},
		FailedFiles:    []fileReport{},
		NewChunks:      batch.NewChunks,
		TotalFiles:     len(batch.Files),
		TotalChunks:    s.engine.Status().ChunksIndexed,
	}
	for _, f := range batch.Files {
		switch f.Status {
		case engine.StatusProcessed:
			resp.ProcessedFiles = append(resp.ProcessedFiles, fileReport{Name: f.Name, Chunks: f.NewChunks})
		case engine.StatusSkipped:
			resp.SkippedFiles = append(resp.SkippedFiles, fileReport{Name: f.Name})
		case engine.StatusFailed:
			report := fileReport{Name: f.Name}
			if f.Err != nil {
				report.Error = f.Err.Error()
			}
			resp.FailedFiles = append(resp.FailedFiles, report)
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	mode := engine.Mode(req.Mode)
	switch mode {
	case "", engine.ModeDocuments, engine.ModeChatGPT, engine.ModeCompare:
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown query mode %q", req.Mode))
		return
	}

	ans, err := s.engine.Query(r.Context(), req.Question, mode, req.TopK)
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrEmptyQuestion):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, engine.ErrNotReady):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	resp := queryResponse{
		Question:        ans.Question,
		Mode:            string(ans.Mode),
		DocumentsAnswer: ans.DocumentsAnswer,
		ChatGPTAnswer:   ans.ChatGPTAnswer,
	}
	for _, src := range ans.Sources {
		resp.Sources = append(resp.Sources, sourceReportFrom(src))
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleConfigure(w http.ResponseWriter, r *http.Request) {
	var req configureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	applied, err := s.engine.Configure(r.Context(), engine.Patch{
		ChunkTokens:    req.ChunkSize,
		OverlapTokens:  req.OverlapTokens,
		TopK:           req.TopK,
		EmbeddingModel: req.EmbeddingModel,
		APIKey:         req.APIKey,
	})
	if err != nil {
		// The engine keeps its prior bindings on failure.
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated := applied.Updated
	if updated == nil {
		updated = []string{}
	}

	writeJSON(w, http.StatusOK, configureResponse{
		Message:       "Configuration updated successfully",
		UpdatedFields: updated,
		CurrentConfig: currentConfig{
			ChunkTokens:    applied.Settings.ChunkTokens,
			OverlapTokens:  applied.Settings.OverlapTokens,
			TopK:           applied.Settings.TopK,
			EmbeddingModel: applied.Settings.EmbeddingModel,
		},
	})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.Clear(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Index cleared successfully"})
}

// sourceReportFrom renders one engine source for the wire. Page is only
// present for paginated documents.
func sourceReportFrom(src engine.Source) sourceReport {
	rep := sourceReport{
		Source:    src.Meta.SourceName(),
		Type:      string(src.Meta.Kind()),
		Preview:   src.Preview,
		Relevance: src.Relevance,
	}
	if pm, ok := src.Meta.(index.PageMeta); ok {
		rep.Page = pm.Page
	}
	return rep
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
