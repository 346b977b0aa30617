package engine

import (
	"errors"

	"github.com/raglab/docqa/internal/parse"
)

var (
	// ErrNotReady means no vector store is bound yet, usually because
	// the embedding model could not be initialized.
	ErrNotReady = errors.New("vector index is not ready")

	// ErrEmptyQuestion rejects blank queries before any work happens.
	ErrEmptyQuestion = errors.New("question must not be empty")

	// ErrFileTooLarge rejects a file before it is parsed.
	ErrFileTooLarge = errors.New("file exceeds the size limit")

	// ErrNoContent marks a file that parsed to nothing indexable.
	ErrNoContent = errors.New("no indexable content")

	// ErrUnsupportedType mirrors the parser's sentinel so callers can
	// check ingestion failures without importing the parse package.
	ErrUnsupportedType = parse.ErrUnsupported
)
