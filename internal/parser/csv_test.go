package parser

import (
	"strings"
	"testing"
)

func TestCSVParser_RowsBecomeLabeledLines(t *testing.T) {
	input := "name,role\nAda,engineer\nGrace,admiral\n"
	p := &CSVParser{}
	got, err := p.Parse(strings.NewReader(input), "people.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "name: Ada, role: engineer\nname: Grace, role: admiral\n"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestCSVParser_HeaderOnly(t *testing.T) {
	p := &CSVParser{}
	got, err := p.Parse(strings.NewReader("a,b\n"), "h.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty text, got %q", got)
	}
}
