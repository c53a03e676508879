package textblock

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/guarzo/cardrip/internal/diag"
)

func mustDoc(t *testing.T, body string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body>" + body + "</body></html>"))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc
}

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
		codes    []diag.Code
	}{
		{
			name:     "plain text",
			body:     `<div class="cardtextbox">Flying</div>`,
			expected: "Flying",
		},
		{
			name:     "symbol image",
			body:     `<div class="cardtextbox"><img alt="Tap" src="x.gif">: Add <img alt="Green">.</div>`,
			expected: "{T}: Add {G}.",
		},
		{
			name:     "emphasis flattened",
			body:     `<div class="cardtextbox"><i>Ferocious</i> — Draw a card.</div>`,
			expected: "Ferocious — Draw a card.",
		},
		{
			name:     "nested emphasis with symbol",
			body:     `<div class="cardtextbox"><i>(<img alt="Black or Red"> can be paid with either.)</i></div>`,
			expected: "({B/R} can be paid with either.)",
		},
		{
			name:     "multiple containers",
			body:     `<div class="cardtextbox">First</div><div class="cardtextbox">Second</div><div class="cardtextbox">Third</div>`,
			expected: "First\n\nSecond\n\nThird",
		},
		{
			name:     "unsupported element dropped",
			body:     `<div class="cardtextbox">Before<b>bold</b>After</div>`,
			expected: "BeforeAfter",
			codes:    []diag.Code{diag.UnsupportedTag},
		},
		{
			name:     "comment node dropped",
			body:     `<div class="cardtextbox">A<!-- note -->B</div>`,
			expected: "AB",
			codes:    []diag.Code{diag.UnsupportedNode},
		},
		{
			name:     "unknown symbol",
			body:     `<div class="cardtextbox"><img alt="Purple"></div>`,
			expected: "{UNKNOWN}",
			codes:    []diag.Code{diag.UnknownSymbol},
		},
		{
			name:     "empty container",
			body:     `<div class="cardtextbox"></div>`,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sink diag.Collector
			doc := mustDoc(t, tt.body)

			got := Render(doc.Find(".cardtextbox"), &sink)
			if got != tt.expected {
				t.Errorf("Render() = %q, want %q", got, tt.expected)
			}

			ws := sink.Warnings()
			if len(ws) != len(tt.codes) {
				t.Fatalf("expected %d warnings, got %v", len(tt.codes), ws)
			}
			for i, code := range tt.codes {
				if ws[i].Code != code {
					t.Errorf("warning %d: expected %s, got %s", i, code, ws[i].Code)
				}
			}
		})
	}
}

func TestRenderNoContainers(t *testing.T) {
	doc := mustDoc(t, `<p>nothing here</p>`)
	if got := Render(doc.Find(".cardtextbox"), diag.Discard); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestRenderIsolatedSinks(t *testing.T) {
	doc := mustDoc(t, `<div class="cardtextbox"><b>x</b></div>`)

	var first, second diag.Collector
	Render(doc.Find(".cardtextbox"), &first)
	Render(doc.Find(".cardtextbox"), &second)

	if first.Len() != 1 || second.Len() != 1 {
		t.Errorf("each call should report only to its own sink, got %d and %d", first.Len(), second.Len())
	}
}
