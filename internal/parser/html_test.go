package parser

import (
	"strings"
	"testing"
)

func TestHTMLParser_DropsLinkTargetsAndScripts(t *testing.T) {
	input := `<html><head><title>Ignored title</title><style>p{color:red}</style></head>
<body>
<h1>Guide</h1>
<p>Read the <a href="https://example.com/docs">documentation</a> first.</p>
<script>var x = 1;</script>
<ul><li>One</li><li>Two</li></ul>
</body></html>`

	p := &HTMLParser{}
	got, err := p.Parse(strings.NewReader(input), "page.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	flat := strings.Join(strings.Fields(got), " ")
	want := "Guide Read the documentation first. One Two"
	if flat != want {
		t.Errorf("expected %q, got %q", want, flat)
	}
	for _, bad := range []string{"example.com", "var x", "color:red", "Ignored title"} {
		if strings.Contains(got, bad) {
			t.Errorf("expected %q to be dropped, got %q", bad, got)
		}
	}
}

func TestHTMLParser_BlocksOnSeparateLines(t *testing.T) {
	p := &HTMLParser{}
	got, err := p.Parse(strings.NewReader("<p>First.</p><p>Second <b>bold</b>.</p>"), "x.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "First.\nSecond bold." {
		t.Errorf("expected %q, got %q", "First.\nSecond bold.", got)
	}
}
