package walker

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// docTree writes a set of rel-path → content files under a temp root.
func docTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("mkdir %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	return root
}

func relPaths(files []FileInfo) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.RelPath
	}
	return out
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

func TestWalk(t *testing.T) {
	corpus := map[string]string{
		"handbook.md":                "# Handbook\n\nVacation policy.\n",
		"benefits.html":              "<html><body><p>Benefits</p></body></html>",
		"guides/onboarding.markdown": "# Onboarding\n",
		"guides/faq.htm":             "<p>FAQ</p>",
	}

	t.Run("finds supported documents recursively", func(t *testing.T) {
		files, err := Walk(WalkerConfig{RootDir: docTree(t, corpus)})
		if err != nil {
			t.Fatalf("Walk: %v", err)
		}
		got := relPaths(files)
		for want := range corpus {
			if !contains(got, want) {
				t.Errorf("missing %q in %v", want, got)
			}
		}
		for _, f := range files {
			if !filepath.IsAbs(f.Path) {
				t.Errorf("Path %q is not absolute", f.Path)
			}
			if f.Size <= 0 {
				t.Errorf("Size for %s is %d", f.RelPath, f.Size)
			}
			if strings.Contains(f.RelPath, "\\") {
				t.Errorf("RelPath %q is not slash-separated", f.RelPath)
			}
		}
	})

	t.Run("skips unparseable file types", func(t *testing.T) {
		root := docTree(t, map[string]string{
			"guide.md":  "# guide",
			"notes.txt": "plain text",
			"main.go":   "package main",
			"logo.png":  "\x89PNG",
		})
		files, err := Walk(WalkerConfig{RootDir: root})
		if err != nil {
			t.Fatalf("Walk: %v", err)
		}
		if got := relPaths(files); len(got) != 1 || got[0] != "guide.md" {
			t.Errorf("got %v, want only guide.md", got)
		}
	})

	t.Run("include filter", func(t *testing.T) {
		files, err := Walk(WalkerConfig{
			RootDir: docTree(t, corpus),
			Include: []string{"*.md"},
		})
		if err != nil {
			t.Fatalf("Walk: %v", err)
		}
		if got := relPaths(files); len(got) != 1 || got[0] != "handbook.md" {
			t.Errorf("include *.md got %v", got)
		}
	})

	t.Run("exclude filter", func(t *testing.T) {
		files, err := Walk(WalkerConfig{
			RootDir: docTree(t, corpus),
			Exclude: []string{"guides/**"},
		})
		if err != nil {
			t.Fatalf("Walk: %v", err)
		}
		got := relPaths(files)
		if len(got) != 2 {
			t.Errorf("exclude guides/** got %v, want 2 files", got)
		}
		for _, rel := range got {
			if strings.HasPrefix(rel, "guides/") {
				t.Errorf("%q survived the exclude filter", rel)
			}
		}
	})

	t.Run("doublestar include reaches nested files", func(t *testing.T) {
		files, err := Walk(WalkerConfig{
			RootDir: docTree(t, corpus),
			Include: []string{"**/*.htm", "**/*.html"},
		})
		if err != nil {
			t.Fatalf("Walk: %v", err)
		}
		got := relPaths(files)
		if !contains(got, "guides/faq.htm") {
			t.Errorf("**/*.htm did not match nested file, got %v", got)
		}
		if contains(got, "handbook.md") {
			t.Errorf("include filter let handbook.md through: %v", got)
		}
	})

	t.Run("size cap", func(t *testing.T) {
		root := docTree(t, map[string]string{
			"small.md": "# small",
			"big.md":   strings.Repeat("A", 200),
		})
		files, err := Walk(WalkerConfig{RootDir: root, MaxFileSize: 100})
		if err != nil {
			t.Fatalf("Walk: %v", err)
		}
		if got := relPaths(files); len(got) != 1 || got[0] != "small.md" {
			t.Errorf("got %v, want only small.md", got)
		}
	})

	t.Run("default directory excludes", func(t *testing.T) {
		root := docTree(t, map[string]string{
			"node_modules/readme.md": "# buried",
			".git/readme.md":         "# buried",
			"vendor/readme.md":       "# buried",
			"dist/readme.md":         "# buried",
			"guide.md":               "# guide",
		})
		files, err := Walk(WalkerConfig{RootDir: root})
		if err != nil {
			t.Fatalf("Walk: %v", err)
		}
		if got := relPaths(files); len(got) != 1 || got[0] != "guide.md" {
			t.Errorf("got %v, want only guide.md", got)
		}
	})

	t.Run("honours root gitignore", func(t *testing.T) {
		root := docTree(t, map[string]string{
			".gitignore":       "*.draft.md\nprivate/\n",
			"public.md":        "# public",
			"roadmap.draft.md": "# draft",
			"private/plan.md":  "# secret",
		})
		files, err := Walk(WalkerConfig{RootDir: root})
		if err != nil {
			t.Fatalf("Walk: %v", err)
		}
		if got := relPaths(files); len(got) != 1 || got[0] != "public.md" {
			t.Errorf("got %v, want only public.md", got)
		}
	})

	t.Run("missing root yields empty result", func(t *testing.T) {
		files, err := Walk(WalkerConfig{RootDir: filepath.Join(t.TempDir(), "nope")})
		if err != nil {
			t.Fatalf("Walk: %v", err)
		}
		if len(files) != 0 {
			t.Errorf("got %v, want no files", relPaths(files))
		}
	})
}

func TestMatchers(t *testing.T) {
	tests := []struct {
		name     string
		rel      string
		patterns []string
		include  bool
		exclude  bool
	}{
		{"empty patterns", "anything.md", nil, true, false},
		{"extension match", "handbook.md", []string{"*.md"}, true, true},
		{"extension mismatch", "handbook.pdf", []string{"*.md"}, false, false},
		{"suffix pattern", "roadmap.draft.md", []string{"*.draft.md"}, true, true},
		{"nested doublestar", "docs/guides/onboarding.md", []string{"**/*.md"}, true, true},
		{"bare glob matches by base name", "docs/deep/faq.htm", []string{"*.htm"}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchesInclude(tt.rel, tt.patterns); got != tt.include {
				t.Errorf("MatchesInclude(%q, %v) = %v, want %v", tt.rel, tt.patterns, got, tt.include)
			}
			if got := MatchesExclude(tt.rel, tt.patterns); got != tt.exclude {
				t.Errorf("MatchesExclude(%q, %v) = %v, want %v", tt.rel, tt.patterns, got, tt.exclude)
			}
		})
	}
}
