package parser

import (
	"strings"
	"testing"
)

func TestMarkdownParser_HeadingsAndParagraphs(t *testing.T) {
	input := `# Title

Intro text.

## Section A

Section A content.

### Subsection A1

Subsection A1 content.
`
	p := &MarkdownParser{}
	got, err := p.Parse(strings.NewReader(input), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "Title\n\nIntro text.\n\nSection A\n\nSection A content.\n\nSubsection A1\n\nSubsection A1 content."
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestMarkdownParser_StripsInlineMarkup(t *testing.T) {
	input := "Some *emphasis*, a [link](https://example.com/x) and `code`."
	p := &MarkdownParser{}
	got, err := p.Parse(strings.NewReader(input), "inline.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Some emphasis, a link and code."
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if strings.Contains(got, "example.com") {
		t.Errorf("expected link target to be dropped, got %q", got)
	}
}

func TestMarkdownParser_CodeBlocksAndLists(t *testing.T) {
	input := "## Endpoints\n\nList of endpoints:\n\n```\nGET /api/users\nPOST /api/users\n```\n\n- first item\n- second item\n"

	p := &MarkdownParser{}
	got, err := p.Parse(strings.NewReader(input), "api.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"Endpoints", "GET /api/users\nPOST /api/users", "first item\nsecond item"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected output to contain %q, got %q", want, got)
		}
	}
	if strings.Contains(got, "```") {
		t.Errorf("expected fences to be dropped, got %q", got)
	}
}

func TestMarkdownParser_EmptyInput(t *testing.T) {
	p := &MarkdownParser{}
	got, err := p.Parse(strings.NewReader(""), "empty.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty text, got %q", got)
	}
}
