package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/ndelvaux/notesmith/internal/schema"
)

// TextParser handles plain text files. The text passes through unchanged
// apart from trailing-whitespace normalization; the whole file counts as a
// single page.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*schema.Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), " \t"))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	text := strings.TrimSpace(strings.Join(lines, "\n"))
	if text != "" {
		text = pageMarker(1) + "\n" + text + "\n"
	}

	return &schema.Document{
		Title: stripExt(filename),
		Text:  text,
		Pages: 1,
	}, nil
}
