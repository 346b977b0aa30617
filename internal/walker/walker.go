// Package walker discovers parseable documents under a directory tree,
// applying glob include/exclude filters, a root .gitignore and a file
// size cap.
package walker

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/raglab/docqa/internal/parse"
)

// DefaultMaxFileSize caps how large a document may be (200 MB).
const DefaultMaxFileSize int64 = 200 << 20

// FileInfo describes one discovered document.
type FileInfo struct {
	Path    string // absolute path on disk
	RelPath string // slash-separated path relative to the root
	Size    int64
}

// WalkerConfig controls Walk.
type WalkerConfig struct {
	RootDir     string
	Include     []string // globs; empty means include everything
	Exclude     []string // globs; matching files are dropped
	MaxFileSize int64    // 0 means DefaultMaxFileSize
}

// Walk returns metadata for every supported document under
// config.RootDir. Unreadable entries are skipped rather than failing
// the whole traversal; a missing root yields an empty result.
func Walk(config WalkerConfig) ([]FileInfo, error) {
	root, err := filepath.Abs(config.RootDir)
	if err != nil {
		return nil, fmt.Errorf("walker: resolve root: %w", err)
	}

	f := filter{
		include: config.Include,
		exclude: config.Exclude,
		ignore:  readGitignore(filepath.Join(root, ".gitignore")),
		maxSize: config.MaxFileSize,
	}
	if f.maxSize <= 0 {
		f.maxSize = DefaultMaxFileSize
	}

	var files []FileInfo
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if d.IsDir() {
			if skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !parse.Supported(d.Name()) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		info, err := d.Info()
		if err != nil {
			return nil
		}
		if !f.admit(rel, info.Size()) {
			return nil
		}

		files = append(files, FileInfo{Path: path, RelPath: rel, Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walker: traversal: %w", err)
	}
	return files, nil
}
