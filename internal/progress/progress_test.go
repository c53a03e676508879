package progress

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestIndicator_Round(t *testing.T) {
	var buf bytes.Buffer
	p := NewIndicator(&buf, "Fate Reforged", true)

	p.StartRound("checklist", 3)
	for _, id := range []int{101, 102, 103} {
		p.Advance(id)
	}
	p.FinishRound()

	out := buf.String()
	if !strings.HasPrefix(out, "Fate Reforged (checklist)...\n") {
		t.Errorf("unexpected start line in %q", out)
	}
	// The last advance always draws because it completes the round.
	if !strings.Contains(out, "3/3 (100.0%) #103") {
		t.Errorf("expected final progress line, got %q", out)
	}
	if !strings.Contains(out, "✓ 3/3 pages in") {
		t.Errorf("expected completion line, got %q", out)
	}
	if p.current != 3 {
		t.Errorf("expected current 3, got %d", p.current)
	}
}

func TestIndicator_RoundsReset(t *testing.T) {
	var buf bytes.Buffer
	p := NewIndicator(&buf, "KTK", true)

	p.StartRound("checklist", 2)
	p.Advance(1)
	p.Advance(2)
	p.FinishRound()

	p.StartRound("variations", 1)
	if p.current != 0 {
		t.Errorf("expected counter reset on new round, got %d", p.current)
	}
	p.Advance(9)
	p.FinishRound()

	if !strings.Contains(buf.String(), "KTK (variations) ✓ 1/1 pages") {
		t.Errorf("expected variations completion line, got %q", buf.String())
	}
}

func TestIndicator_EmptyRound(t *testing.T) {
	var buf bytes.Buffer
	p := NewIndicator(&buf, "Empty", true)

	p.StartRound("variations", 0)
	p.FinishRound()

	if !strings.Contains(buf.String(), "✓ 0/0 pages") {
		t.Errorf("expected empty round to complete, got %q", buf.String())
	}
}

func TestIndicator_Disabled(t *testing.T) {
	var buf bytes.Buffer
	p := NewIndicator(&buf, "Quiet", false)

	p.StartRound("checklist", 2)
	p.Advance(1)
	p.Advance(2)
	p.FinishRound()
	p.Fail(errors.New("boom"))

	if buf.Len() != 0 {
		t.Errorf("disabled indicator wrote %q", buf.String())
	}
	// Counting still happens.
	if p.current != 2 {
		t.Errorf("expected current 2, got %d", p.current)
	}
}

func TestIndicator_Fail(t *testing.T) {
	var buf bytes.Buffer
	p := NewIndicator(&buf, "Broken", true)

	p.StartRound("checklist", 5)
	p.Fail(errors.New("fetch multiverseid 7: timeout"))

	if !strings.Contains(buf.String(), "✗ Failed after") || !strings.Contains(buf.String(), "multiverseid 7") {
		t.Errorf("unexpected failure output %q", buf.String())
	}
}

func TestStderr(t *testing.T) {
	if Stderr("x", true).enabled {
		t.Error("expected quiet indicator to be disabled")
	}
	if !Stderr("x", false).enabled {
		t.Error("expected indicator to be enabled when not quiet")
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		percentage float64
		expected   string
	}{
		{0.0, "▓░░░░░░░░░░░░░░░░░░░░░░░░░░░░░"},
		{50.0, "███████████████▓░░░░░░░░░░░░░░"},
		{100.0, "██████████████████████████████"},
	}

	for _, tt := range tests {
		result := createProgressBar(tt.percentage)
		if result != tt.expected {
			t.Errorf("progress bar for %.1f%%: expected %q, got %q", tt.percentage, tt.expected, result)
		}
	}
}

func TestProgressBarWidth(t *testing.T) {
	for _, percentage := range []float64{0, 0.1, 33.33, 66.67, 99.9, 100} {
		bar := createProgressBar(percentage)
		if n := len([]rune(bar)); n != 30 {
			t.Errorf("progress bar at %.1f%% has wrong length: expected 30 chars, got %d", percentage, n)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		duration time.Duration
		expected string
	}{
		{50 * time.Millisecond, "50ms"},
		{1500 * time.Millisecond, "1.5s"},
		{90 * time.Second, "1.5m"},
		{3600 * time.Second, "1.0h"},
	}

	for _, tt := range tests {
		result := formatDuration(tt.duration)
		if result != tt.expected {
			t.Errorf("formatDuration(%v): expected %q, got %q", tt.duration, tt.expected, result)
		}
	}
}
