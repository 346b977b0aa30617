package parse

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/raglab/docqa/internal/index"
)

func TestSupported(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"report.pdf", true},
		{"REPORT.PDF", true},
		{"page.html", true},
		{"page.htm", true},
		{"notes.md", true},
		{"notes.markdown", true},
		{"data.txt", false},
		{"archive.zip", false},
		{"noextension", false},
	}

	for _, tt := range tests {
		if got := Supported(tt.name); got != tt.want {
			t.Errorf("Supported(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestFileRejectsUnsupportedTypes(t *testing.T) {
	_, err := File("data.txt", []byte("plain text"))
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported for .txt, got %v", err)
	}

	// A bad PDF fails, but not with ErrUnsupported: the extension
	// dispatched correctly.
	_, err = File("broken.PDF", []byte("not a pdf"))
	if err == nil {
		t.Error("expected error for garbage PDF bytes")
	}
	if errors.Is(err, ErrUnsupported) {
		t.Error("uppercase .PDF should dispatch to the PDF parser")
	}
}

func TestHTMLExtractsVisibleText(t *testing.T) {
	page := `<!DOCTYPE html>
<html>
<head>
  <title>Benefits Overview</title>
  <style>body { color: red; }</style>
  <script>alert("nope");</script>
</head>
<body>
  <h1>Vacation</h1>
  <p>Employees accrue <b>twenty</b> days.</p>
  <noscript>enable javascript</noscript>
  <iframe src="x"></iframe>
</body>
</html>`

	sections, err := HTML("benefits.html", []byte(page))
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}

	text := sections[0].Text
	for _, want := range []string{"Benefits Overview", "Vacation", "Employees accrue", "twenty", "days."} {
		if !strings.Contains(text, want) {
			t.Errorf("text missing %q: %q", want, text)
		}
	}
	for _, banned := range []string{"alert", "color: red", "enable javascript"} {
		if strings.Contains(text, banned) {
			t.Errorf("text kept stripped content %q: %q", banned, text)
		}
	}

	meta, ok := sections[0].Meta.(index.DocMeta)
	if !ok {
		t.Fatalf("expected DocMeta, got %T", sections[0].Meta)
	}
	if meta.Source != "benefits.html" || meta.Type != index.KindHTML {
		t.Errorf("unexpected metadata: %+v", meta)
	}
}

func TestHTMLSeparatesAdjacentElements(t *testing.T) {
	sections, err := HTML("x.html", []byte("<p>alpha</p><p>beta</p>"))
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	if !strings.Contains(sections[0].Text, "alpha beta") {
		t.Errorf("adjacent block texts must be space-separated: %q", sections[0].Text)
	}
}

func TestHTMLDropsInvalidUTF8(t *testing.T) {
	raw := append([]byte("<p>before "), 0xff, 0xfe)
	raw = append(raw, []byte(" after</p>")...)

	sections, err := HTML("x.html", raw)
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	text := sections[0].Text
	if strings.ContainsRune(text, utf8.RuneError) {
		t.Errorf("invalid bytes should be dropped, not replaced: %q", text)
	}
	if !strings.Contains(text, "before") || !strings.Contains(text, "after") {
		t.Errorf("surrounding text lost: %q", text)
	}
}

func TestMarkdownStripsFormatting(t *testing.T) {
	doc := `# Getting Started

Install the **latest** release and run it.

- first step
- second step

See [the docs](https://example.com) for details.
`

	sections, err := File("guide.md", []byte(doc))
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}

	text := sections[0].Text
	for _, want := range []string{"Getting Started", "Install the", "latest", "first step", "second step", "the docs"} {
		if !strings.Contains(text, want) {
			t.Errorf("text missing %q: %q", want, text)
		}
	}
	for _, banned := range []string{"#", "**", "](", "- first"} {
		if strings.Contains(text, banned) {
			t.Errorf("formatting marker %q survived: %q", banned, text)
		}
	}

	meta, ok := sections[0].Meta.(index.DocMeta)
	if !ok {
		t.Fatalf("expected DocMeta, got %T", sections[0].Meta)
	}
	if meta.Source != "guide.md" || meta.Type != index.KindMarkdown {
		t.Errorf("unexpected metadata: %+v", meta)
	}
}

func TestMarkdownKeepsRawHTMLText(t *testing.T) {
	doc := "Intro paragraph.\n\n<div>embedded fragment</div>\n"

	sections, err := Markdown("mixed.md", []byte(doc))
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}
	if !strings.Contains(sections[0].Text, "embedded fragment") {
		t.Errorf("raw HTML text lost: %q", sections[0].Text)
	}
}

func TestMarkdownRendersGFMTables(t *testing.T) {
	doc := "| Region | Quota |\n|---|---|\n| East | 120 |\n| West | 95 |\n"

	sections, err := Markdown("quotas.md", []byte(doc))
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}
	text := sections[0].Text
	for _, want := range []string{"Region", "Quota", "East", "120", "West", "95"} {
		if !strings.Contains(text, want) {
			t.Errorf("table cell %q missing: %q", want, text)
		}
	}
	if strings.Contains(text, "|") {
		t.Errorf("table pipes survived rendering: %q", text)
	}
}

func TestPDFExtractsPages(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "sample.pdf"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}

	sections, err := PDF("sample.pdf", data)
	if err != nil {
		t.Fatalf("PDF: %v", err)
	}
	if len(sections) != 2 {
		t.Fatalf("expected 2 page sections, got %d", len(sections))
	}

	for i, want := range []index.PageMeta{
		{Source: "sample.pdf", Page: 1, Type: index.KindPDF},
		{Source: "sample.pdf", Page: 2, Type: index.KindPDF},
	} {
		meta, ok := sections[i].Meta.(index.PageMeta)
		if !ok {
			t.Fatalf("section %d: expected PageMeta, got %T", i, sections[i].Meta)
		}
		if meta != want {
			t.Errorf("section %d metadata = %+v, want %+v", i, meta, want)
		}
	}

	if !strings.Contains(sections[0].Text, "Employees receive twenty vacation days") {
		t.Errorf("page 1 text missing: %q", sections[0].Text)
	}
	if !strings.Contains(sections[0].Text, "Unused leave carries over once.") {
		t.Errorf("page 1 TJ fragments not glued: %q", sections[0].Text)
	}
	if !strings.Contains(sections[1].Text, "Expense reports must be filed") {
		t.Errorf("page 2 text missing: %q", sections[1].Text)
	}
}

func TestContentText(t *testing.T) {
	tests := []struct {
		name   string
		stream string
		want   string
	}{
		{
			name:   "simple Tj",
			stream: "BT /F1 12 Tf (Hello World) Tj ET",
			want:   "Hello World",
		},
		{
			name:   "TJ array glues fragments",
			stream: "[(Do)-28(cu)-3(ment)] TJ",
			want:   "Document",
		},
		{
			name:   "escaped parentheses",
			stream: `(escaped \(paren\)) Tj`,
			want:   "escaped (paren)",
		},
		{
			name:   "nested parentheses",
			stream: "(a (b) c) Tj",
			want:   "a (b) c",
		},
		{
			name:   "octal escapes",
			stream: `(octal: \101\102) Tj`,
			want:   "octal: AB",
		},
		{
			name:   "multiple runs joined with spaces",
			stream: "(first) Tj 0 -14 Td (second) Tj",
			want:   "first second",
		},
		{
			name:   "escaped newline continues line",
			stream: "(conti\\\nnued) Tj",
			want:   "continued",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := contentText([]byte(tt.stream)); got != tt.want {
				t.Errorf("contentText(%q) = %q, want %q", tt.stream, got, tt.want)
			}
		})
	}
}
