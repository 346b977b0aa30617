package parse

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/raglab/docqa/internal/index"
)

// contentPageFile matches the per-page content files pdfcpu writes,
// with or without a source file prefix.
var contentPageFile = regexp.MustCompile(`(?i)content_page_(\d+)`)

// PDF extracts text from a PDF, one section per page. Pages without
// extractable text yield empty sections that later stages drop.
func PDF(name string, data []byte) ([]Section, error) {
	tempFile, err := os.CreateTemp("", "docqa-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp pdf: %w", err)
	}
	tempPath := tempFile.Name()
	defer os.Remove(tempPath)

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return nil, fmt.Errorf("write temp pdf: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return nil, fmt.Errorf("close temp pdf: %w", err)
	}

	pdfCtx, err := api.ReadContextFile(tempPath)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	pageCount := pdfCtx.PageCount

	// pdfcpu has no direct text extraction; extract the page content
	// streams and pull the text show operands out of them.
	outDir, err := os.MkdirTemp("", "docqa-pages-")
	if err != nil {
		return nil, fmt.Errorf("create extraction dir: %w", err)
	}
	defer os.RemoveAll(outDir)

	conf := model.NewDefaultConfiguration()
	if err := api.ExtractContentFile(tempPath, outDir, nil, conf); err != nil {
		return nil, fmt.Errorf("extract pdf content: %w", err)
	}

	pageTexts := make(map[int]string)
	entries, err := os.ReadDir(outDir)
	if err != nil {
		return nil, fmt.Errorf("read extraction dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := contentPageFile.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		pageNum, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		content, err := os.ReadFile(filepath.Join(outDir, entry.Name()))
		if err != nil {
			continue
		}
		pageTexts[pageNum] = contentText(content)
	}

	sections := make([]Section, 0, pageCount)
	for page := 1; page <= pageCount; page++ {
		sections = append(sections, Section{
			Text: pageTexts[page],
			Meta: index.PageMeta{Source: name, Page: page, Type: index.KindPDF},
		})
	}
	return sections, nil
}

// contentText pulls the text show strings out of a decoded PDF content
// stream. Literals inside one TJ array are glued together because they
// are kerning fragments of a single run.
func contentText(stream []byte) string {
	var runs []string
	var run strings.Builder
	inArray := false

	flush := func() {
		if run.Len() > 0 {
			runs = append(runs, run.String())
			run.Reset()
		}
	}

	for i := 0; i < len(stream); i++ {
		switch stream[i] {
		case '[':
			inArray = true
		case ']':
			inArray = false
			flush()
		case '(':
			lit, next := parseLiteral(stream, i)
			run.WriteString(lit)
			if !inArray {
				flush()
			}
			i = next
		}
	}
	flush()

	return strings.ToValidUTF8(strings.Join(runs, " "), "")
}

// parseLiteral decodes the PDF string literal whose opening parenthesis
// sits at start. It returns the decoded text and the index of the
// closing parenthesis.
func parseLiteral(stream []byte, start int) (string, int) {
	var sb strings.Builder
	depth := 1
	i := start + 1

	for ; i < len(stream) && depth > 0; i++ {
		c := stream[i]
		switch c {
		case '\\':
			if i+1 >= len(stream) {
				return sb.String(), i
			}
			i++
			switch e := stream[i]; {
			case e == 'n':
				sb.WriteByte('\n')
			case e == 'r':
				sb.WriteByte('\r')
			case e == 't':
				sb.WriteByte('\t')
			case e == 'b' || e == 'f':
				// backspace and form feed carry no text
			case e == '\n' || e == '\r':
				// escaped newline is a line continuation
			case e >= '0' && e <= '7':
				v := int(e - '0')
				for n := 0; n < 2 && i+1 < len(stream) && stream[i+1] >= '0' && stream[i+1] <= '7'; n++ {
					i++
					v = v*8 + int(stream[i]-'0')
				}
				sb.WriteByte(byte(v))
			default:
				sb.WriteByte(e)
			}
		case '(':
			depth++
			sb.WriteByte(c)
		case ')':
			depth--
			if depth > 0 {
				sb.WriteByte(c)
			}
		default:
			sb.WriteByte(c)
		}
	}

	return sb.String(), i - 1
}
