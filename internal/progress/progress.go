// Package progress draws per-round fetch progress on a terminal.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Indicator shows a progress bar for each collection round. It satisfies
// the collector's progress interface.
type Indicator struct {
	out        io.Writer
	enabled    bool
	label      string
	round      string
	total      int
	current    int
	startTime  time.Time
	lastUpdate time.Time
}

// NewIndicator creates an indicator writing to out. label prefixes every
// line, typically the set name.
func NewIndicator(out io.Writer, label string, enabled bool) *Indicator {
	return &Indicator{
		out:     out,
		enabled: enabled,
		label:   label,
	}
}

// Stderr creates an indicator on standard error, silent when quiet.
func Stderr(label string, quiet bool) *Indicator {
	return NewIndicator(os.Stderr, label, !quiet)
}

// StartRound begins a round of total fetches.
func (p *Indicator) StartRound(round string, total int) {
	p.round = round
	p.total = total
	p.current = 0
	p.startTime = time.Now()
	p.lastUpdate = time.Time{}

	if !p.enabled {
		return
	}
	fmt.Fprintf(p.out, "%s...\n", p.message())
}

// Advance records one fetched id.
func (p *Indicator) Advance(id int) {
	p.current++

	if !p.enabled {
		return
	}

	now := time.Now()
	// Only redraw every 100ms to avoid flickering
	if now.Sub(p.lastUpdate) < 100*time.Millisecond && p.current < p.total {
		return
	}
	p.lastUpdate = now

	percentage := 100.0
	if p.total > 0 {
		percentage = float64(p.current) / float64(p.total) * 100
	}

	var eta string
	if elapsed := now.Sub(p.startTime); p.current < p.total && elapsed > 0 {
		rate := float64(p.current) / elapsed.Seconds()
		remaining := float64(p.total-p.current) / rate
		eta = fmt.Sprintf(" ETA: %s", formatDuration(time.Duration(remaining*float64(time.Second))))
	}

	fmt.Fprintf(p.out, "\r%s [%s] %d/%d (%.1f%%) #%d%s",
		p.message(), createProgressBar(percentage), p.current, p.total, percentage, id, eta)
}

// FinishRound completes the current round.
func (p *Indicator) FinishRound() {
	if !p.enabled {
		return
	}
	elapsed := time.Since(p.startTime)
	fmt.Fprintf(p.out, "\r%s ✓ %d/%d pages in %s\n",
		p.message(), p.current, p.total, formatDuration(elapsed))
}

// Fail reports that the collection stopped with err.
func (p *Indicator) Fail(err error) {
	if !p.enabled {
		return
	}
	elapsed := time.Since(p.startTime)
	fmt.Fprintf(p.out, "\r%s ✗ Failed after %s: %v\n",
		p.message(), formatDuration(elapsed), err)
}

func (p *Indicator) message() string {
	if p.round == "" {
		return p.label
	}
	return p.label + " (" + p.round + ")"
}

// createProgressBar creates a visual progress bar
func createProgressBar(percentage float64) string {
	const width = 30
	filled := int(percentage / 100.0 * width)

	var bar strings.Builder
	for i := 0; i < width; i++ {
		if i < filled {
			bar.WriteString("█")
		} else if i == filled && percentage < 100 {
			bar.WriteString("▓")
		} else {
			bar.WriteString("░")
		}
	}
	return bar.String()
}

// formatDuration formats a duration for display
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	} else if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	} else if d < time.Hour {
		return fmt.Sprintf("%.1fm", d.Minutes())
	}
	return fmt.Sprintf("%.1fh", d.Hours())
}
