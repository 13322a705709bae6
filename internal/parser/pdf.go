package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/dgallion1/docgloss/internal/doctree"
)

// PDFParser handles PDF guides. Each page becomes a level 2 "Page N"
// section whose paragraphs are the page's blank-line separated text blocks.
type PDFParser struct{}

func (p *PDFParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	pages, err := pdfPages(reader)
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}

	b := doctree.NewBuilder(stem(filename))
	for i, text := range pages {
		if strings.TrimSpace(text) == "" {
			continue
		}
		b.Heading(2, fmt.Sprintf("Page %d", i+1))
		for _, para := range paragraphs(text) {
			b.Text(para)
		}
	}
	return b.Tree(), nil
}

// pdfPages returns the plain text of every page, in order. Pages without a
// page object or whose text cannot be decoded come back empty.
func pdfPages(reader *pdflib.Reader) (out []string, err error) {
	// The library panics on some malformed content streams.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	n := reader.NumPage()
	out = make([]string, n)
	for i := 1; i <= n; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		out[i-1] = text
	}
	return out, nil
}

// paragraphs splits text on blank lines, trimming each block.
func paragraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var out []string
	var cur []string
	flush := func() {
		if len(cur) > 0 {
			out = append(out, strings.Join(cur, "\n"))
			cur = cur[:0]
		}
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}
		cur = append(cur, line)
	}
	flush()
	return out
}
