package parser

import (
	"strings"
	"testing"
)

func TestTextParser_PreservesParagraphs(t *testing.T) {
	input := "First paragraph line one.\nFirst paragraph line two.\n\nSecond paragraph.\n\nThird paragraph."
	p := &TextParser{}
	doc, err := p.Parse(strings.NewReader(input), "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Title != "notes" {
		t.Errorf("expected title %q, got %q", "notes", doc.Title)
	}
	if !strings.HasPrefix(doc.Text, "--- Page 1 ---\n") {
		t.Errorf("expected page marker prefix, got %q", doc.Text)
	}
	if !strings.Contains(doc.Text, "First paragraph line one.\nFirst paragraph line two.") {
		t.Errorf("expected intact first paragraph, got %q", doc.Text)
	}
	if !strings.Contains(doc.Text, "Second paragraph.\n\nThird paragraph.") {
		t.Errorf("expected paragraph gap preserved, got %q", doc.Text)
	}
	if doc.Pages != 1 {
		t.Errorf("expected 1 page, got %d", doc.Pages)
	}
}

func TestTextParser_EmptyInput(t *testing.T) {
	p := &TextParser{}
	doc, err := p.Parse(strings.NewReader(""), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "empty" {
		t.Errorf("expected title %q, got %q", "empty", doc.Title)
	}
	if doc.Text != "" {
		t.Errorf("expected empty text, got %q", doc.Text)
	}
}

func TestTextParser_TrailingWhitespaceStripped(t *testing.T) {
	input := "Line one.   \nLine two.\t\n"
	p := &TextParser{}
	doc, err := p.Parse(strings.NewReader(input), "ws.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(doc.Text, "Line one.\nLine two.") {
		t.Errorf("expected trailing whitespace stripped, got %q", doc.Text)
	}
}

func TestForFile_UnsupportedExtension(t *testing.T) {
	if _, err := ForFile("slides.pptx"); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
	if _, err := ForFile("notes.txt"); err != nil {
		t.Fatalf("expected txt to be supported, got %v", err)
	}
}

func TestIsSupportedExtension(t *testing.T) {
	tests := []struct {
		filename string
		want     bool
	}{
		{"doc.pdf", true},
		{"doc.PDF", true},
		{"notes.md", true},
		{"notes.markdown", true},
		{"page.htm", true},
		{"report.docx", true},
		{"data.csv", false},
		{"archive.zip", false},
		{"noext", false},
	}
	for _, tt := range tests {
		if got := IsSupportedExtension(tt.filename); got != tt.want {
			t.Errorf("IsSupportedExtension(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}
