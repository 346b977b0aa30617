package walker

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// skipDirs are directory names whose subtrees are never traversed.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	"__pycache__":  true,
	"dist":         true,
	"build":        true,
	".next":        true,
	"target":       true,
	".venv":        true,
	".idea":        true,
	".vscode":      true,
	".ds_store":    true,
}

func skipDir(name string) bool {
	return skipDirs[strings.ToLower(name)]
}

// filter bundles the per-walk admission rules.
type filter struct {
	include []string
	exclude []string
	ignore  []string
	maxSize int64
}

func (f filter) admit(rel string, size int64) bool {
	if size > f.maxSize {
		return false
	}
	if gitignored(rel, f.ignore) {
		return false
	}
	return MatchesInclude(rel, f.include) && !MatchesExclude(rel, f.exclude)
}

// MatchesInclude reports whether rel matches any include pattern.
// Empty patterns include everything.
func MatchesInclude(rel string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	return matchesAny(rel, patterns)
}

// MatchesExclude reports whether rel matches any exclude pattern.
// Empty patterns exclude nothing.
func MatchesExclude(rel string, patterns []string) bool {
	return len(patterns) > 0 && matchesAny(rel, patterns)
}

// matchesAny tries each glob against the full relative path and, so
// that bare patterns like "*.md" work at any depth, against the base
// name. doublestar provides ** support.
func matchesAny(rel string, patterns []string) bool {
	rel = filepath.ToSlash(rel)
	base := filepath.Base(rel)
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		if ok, err := doublestar.PathMatch(pattern, rel); err == nil && ok {
			return true
		}
		if ok, err := doublestar.PathMatch(pattern, base); err == nil && ok {
			return true
		}
	}
	return false
}

// readGitignore returns the pattern lines of a .gitignore file, or nil
// if the file does not exist.
func readGitignore(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var patterns []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns
}

// gitignored applies a minimal subset of gitignore semantics: patterns
// without a slash match any path component, patterns with a slash
// match the whole relative path, and a trailing slash restricts the
// pattern to directories.
func gitignored(rel string, patterns []string) bool {
	for _, pattern := range patterns {
		dirOnly := strings.HasSuffix(pattern, "/")
		pattern = strings.TrimSuffix(pattern, "/")

		if strings.Contains(pattern, "/") {
			if ok, _ := filepath.Match(pattern, rel); ok {
				return true
			}
			continue
		}

		// Component-wise match. Any matching parent directory
		// component ignores the file; the final component only
		// counts for file patterns.
		parts := strings.Split(rel, "/")
		for i, part := range parts {
			ok, _ := filepath.Match(pattern, part)
			if !ok {
				continue
			}
			if i < len(parts)-1 || !dirOnly {
				return true
			}
		}
	}
	return false
}
