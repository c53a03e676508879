package diag

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestCollector(t *testing.T) {
	var c Collector
	Warnf(&c, UnknownSymbol, "bad symbol %q", "bogus")
	Warnf(&c, MalformedPT, "pt %s", "1/2/3")
	Warnf(&c, UnknownSymbol, "bad symbol %q", "other")

	if c.Len() != 3 {
		t.Fatalf("expected 3 warnings, got %d", c.Len())
	}
	if got := c.Count(UnknownSymbol); got != 2 {
		t.Errorf("expected 2 unknown symbol warnings, got %d", got)
	}
	ws := c.Warnings()
	if ws[0].Message != `bad symbol "bogus"` {
		t.Errorf("unexpected message %q", ws[0].Message)
	}

	// The returned slice is a copy.
	ws[0].Message = "changed"
	if c.Warnings()[0].Message == "changed" {
		t.Error("Warnings leaked internal slice")
	}
}

func TestWarnfNilSink(t *testing.T) {
	// Must not panic.
	Warnf(nil, UnknownSymbol, "ignored")
}

func TestSlogSink(t *testing.T) {
	var buf bytes.Buffer
	sink := SlogSink{Logger: slog.New(slog.NewTextHandler(&buf, nil))}
	sink.Warn(Warning{Code: UnclassifiedType, Message: "raw type not found: Bogus"})

	out := buf.String()
	if !strings.Contains(out, "level=WARN") {
		t.Errorf("expected WARN level in %q", out)
	}
	if !strings.Contains(out, "code=unclassified_type") {
		t.Errorf("expected code attribute in %q", out)
	}
}

func TestTee(t *testing.T) {
	var a, b Collector
	sink := Tee(&a, nil, &b, Discard)
	sink.Warn(Warning{Code: UnsupportedTag, Message: "b"})

	if a.Len() != 1 || b.Len() != 1 {
		t.Errorf("expected both collectors to receive the warning, got %d and %d", a.Len(), b.Len())
	}
}
