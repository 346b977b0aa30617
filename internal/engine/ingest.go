package engine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/raglab/docqa/internal/chunker"
	"github.com/raglab/docqa/internal/index"
	"github.com/raglab/docqa/internal/parse"
)

// FileInput is one named document handed to Ingest.
type FileInput struct {
	Name string
	Data []byte
}

// FileStatus classifies the outcome of one file in a batch.
type FileStatus string

const (
	StatusProcessed FileStatus = "processed"
	StatusSkipped   FileStatus = "skipped"
	StatusFailed    FileStatus = "failed"
)

// FileResult reports the outcome of one file in an ingestion batch.
type FileResult struct {
	Name      string
	Status    FileStatus
	NewChunks int
	Err       error
}

// BatchResult aggregates per-file outcomes of one ingestion batch.
type BatchResult struct {
	Files     []FileResult
	Processed int
	Skipped   int
	Failed    int
	NewChunks int
}

// Ingest parses, chunks, embeds and indexes a batch of files. Files are
// parsed and chunked concurrently; the index append is serialized. A
// source name already in the registry is skipped, and one bad file
// never aborts the batch. The returned error covers batch-level
// failures only (the store could not be initialized); everything
// per-file lands in the result.
func (e *Engine) Ingest(ctx context.Context, files []FileInput) (*BatchResult, error) {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	result := &BatchResult{}
	if len(files) == 0 {
		return result, nil
	}

	store, err := e.ensureStore()
	if err != nil {
		return nil, err
	}

	e.mu.RLock()
	cfg := e.cfg
	onProgress := e.onProgress
	e.mu.RUnlock()

	maxBytes := int64(cfg.MaxFileSizeMB) << 20
	total := len(files)

	var done int64
	report := func(name string) {
		n := atomic.AddInt64(&done, 1)
		if onProgress != nil {
			onProgress(int(n), total, name)
		}
	}

	// Parse and chunk concurrently. Each goroutine owns its slot, so
	// no mutex is needed around the two slices.
	results := make([]FileResult, total)
	chunked := make([][]index.Chunk, total)

	workers := cfg.IngestWorkers
	if workers < 1 {
		workers = 1
	}
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, f := range files {
		results[i] = FileResult{Name: f.Name}

		if e.isRegistered(f.Name) {
			results[i].Status = StatusSkipped
			report(f.Name)
			continue
		}
		if int64(len(f.Data)) > maxBytes {
			results[i].Status = StatusFailed
			results[i].Err = fmt.Errorf("%w: %s exceeds %d MB", ErrFileTooLarge, f.Name, cfg.MaxFileSizeMB)
			report(f.Name)
			continue
		}

		select {
		case <-ctx.Done():
			results[i].Status = StatusFailed
			results[i].Err = ctx.Err()
			report(f.Name)
			continue
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(i int, f FileInput) {
			defer wg.Done()
			defer func() { <-sem }()

			chunks, err := chunkFile(f, cfg)
			if err != nil {
				results[i].Status = StatusFailed
				results[i].Err = err
			} else {
				chunked[i] = chunks
			}
			report(f.Name)
		}(i, f)
	}
	wg.Wait()

	// Append to the shared index one file at a time, registering each
	// source only after its chunks are in.
	for i := range files {
		if results[i].Status != "" {
			continue
		}
		chunks := chunked[i]
		if len(chunks) == 0 {
			results[i].Status = StatusFailed
			results[i].Err = fmt.Errorf("%s: %w", files[i].Name, ErrNoContent)
			continue
		}

		added, err := store.AddChunks(ctx, chunks)
		if err != nil {
			results[i].Status = StatusFailed
			results[i].Err = fmt.Errorf("indexing %s: %w", files[i].Name, err)
			e.log.Warn().Err(err).Str("file", files[i].Name).Msg("indexing failed")
			continue
		}
		if !added {
			results[i].Status = StatusFailed
			results[i].Err = fmt.Errorf("%s: %w", files[i].Name, ErrNoContent)
			continue
		}

		e.register(files[i].Name)
		results[i].Status = StatusProcessed
		results[i].NewChunks = len(chunks)
	}

	result.Files = results
	for _, r := range results {
		switch r.Status {
		case StatusProcessed:
			result.Processed++
			result.NewChunks += r.NewChunks
		case StatusSkipped:
			result.Skipped++
		default:
			result.Failed++
		}
	}

	e.log.Info().
		Int("processed", result.Processed).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Int("new_chunks", result.NewChunks).
		Msg("ingestion batch finished")

	return result, nil
}

// chunkFile parses one file and cuts it into metadata-tagged chunks
// using the given chunking settings.
func chunkFile(f FileInput, cfg Settings) ([]index.Chunk, error) {
	sections, err := parse.File(f.Name, f.Data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", f.Name, err)
	}

	var chunks []index.Chunk
	for _, sec := range sections {
		text := chunker.Normalize(sec.Text)
		if text == "" {
			continue
		}
		for _, piece := range chunker.Split(text, cfg.ChunkTokens, cfg.OverlapTokens) {
			chunks = append(chunks, index.NewChunk(piece, sec.Meta))
		}
	}
	return chunks, nil
}
