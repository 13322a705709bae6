package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docgloss/internal/doctree"
)

// Parser converts a guide source into a DocTree.
type Parser interface {
	Parse(r io.Reader, filename string) (*doctree.DocTree, error)
}

// Format names a guide source format.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatText     Format = "text"
	FormatDOCX     Format = "docx"
	FormatPDF      Format = "pdf"
)

// Binary reports whether f cannot carry front matter in the source itself.
func (f Format) Binary() bool {
	return f == FormatDOCX || f == FormatPDF
}

// SupportedExtensions maps guide file extensions to their format.
var SupportedExtensions = map[string]Format{
	".md":       FormatMarkdown,
	".markdown": FormatMarkdown,
	".html":     FormatHTML,
	".htm":      FormatHTML,
	".txt":      FormatText,
	".docx":     FormatDOCX,
	".pdf":      FormatPDF,
}

// FormatOf returns the format for a filename.
func FormatOf(filename string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	f, ok := SupportedExtensions[ext]
	if !ok {
		return "", fmt.Errorf("unsupported file extension: %s", ext)
	}
	return f, nil
}

// ForFormat returns the parser for f.
func ForFormat(f Format) Parser {
	switch f {
	case FormatMarkdown:
		return &MarkdownParser{}
	case FormatHTML:
		return &HTMLParser{}
	case FormatDOCX:
		return &DOCXParser{}
	case FormatPDF:
		return &PDFParser{}
	default:
		return &TextParser{}
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	_, err := FormatOf(filename)
	return err == nil
}

// stem is the filename without directory or extension, the fallback title.
func stem(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
