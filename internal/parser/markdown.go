package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/ndelvaux/notesmith/internal/schema"
)

// MarkdownParser handles Markdown files using goldmark. Headings come out as
// "#"-prefixed lines so the analyzer's markdown heading rule picks them up;
// everything else flattens to paragraphs.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*schema.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	reader := text.NewReader(src)
	doc := md.Parser().Parse(reader)

	var sb strings.Builder
	title := ""

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			heading := strings.TrimSpace(string(node.Text(src)))
			if heading == "" {
				continue
			}
			if title == "" && node.Level == 1 {
				title = heading
			}
			fmt.Fprintf(&sb, "%s %s\n\n", strings.Repeat("#", node.Level), heading)
		default:
			if t := extractText(n, src); t != "" {
				sb.WriteString(t)
				sb.WriteString("\n\n")
			}
		}
	}

	if title == "" {
		title = stripExt(filename)
	}
	body := strings.TrimSpace(sb.String())
	if body != "" {
		body = pageMarker(1) + "\n" + body + "\n"
	}

	return &schema.Document{
		Title: title,
		Text:  body,
		Pages: 1,
	}, nil
}

// extractText gets the text content of a goldmark AST node. Nodes with
// children (paragraphs, lists) are read through their inline text; the
// block's raw lines are only used for leaf blocks like code blocks, since
// they cover the same source segments as the inlines.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if !n.HasChildren() {
		if n.Type() == ast.TypeBlock {
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				line := lines.At(i)
				buf.Write(line.Value(src))
			}
		}
		return strings.TrimSpace(buf.String())
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
			continue
		}
		if t := extractText(c, src); t != "" {
			buf.WriteString(t)
			if c.Type() == ast.TypeBlock {
				buf.WriteByte('\n')
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
