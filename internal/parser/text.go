package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/docgloss/internal/doctree"
)

// TextParser handles plain text guides. Paragraphs are separated by blank
// lines; a paragraph that is a single line underlined with === or --- is a
// level 1 or 2 heading.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	b := doctree.NewBuilder(stem(filename))
	var lines []string

	flush := func() {
		if len(lines) == 0 {
			return
		}
		if len(lines) == 2 {
			if level := underlineLevel(lines[1]); level > 0 {
				b.Heading(level, strings.TrimSpace(lines[0]))
				lines = lines[:0]
				return
			}
		}
		b.Text(strings.Join(lines, "\n"))
		lines = lines[:0]
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()

	return b.Tree(), nil
}

func underlineLevel(line string) int {
	line = strings.TrimSpace(line)
	if len(line) < 3 {
		return 0
	}
	switch {
	case strings.Trim(line, "=") == "":
		return 1
	case strings.Trim(line, "-") == "":
		return 2
	}
	return 0
}
