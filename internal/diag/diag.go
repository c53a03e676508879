// Package diag carries non-fatal extraction warnings from the parsers to
// whoever is driving them.
package diag

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Code classifies a warning.
type Code string

// Warning codes, one per kind of anomaly the parsers recover from. The string
// form is what appears in log lines.
const (
	UnknownSymbol     Code = "unknown_symbol"
	UnclassifiedType  Code = "unclassified_type"
	MalformedPT       Code = "malformed_pt"
	MalformedNumber   Code = "malformed_number"
	MalformedDate     Code = "malformed_date"
	UnsupportedTag    Code = "unsupported_tag"
	UnsupportedNode   Code = "unsupported_node"
	MissingDocumentID Code = "missing_document_id"
)

// Warning is a single recoverable anomaly found while extracting a card.
type Warning struct {
	Code    Code
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Code, w.Message)
}

// Sink receives warnings. Fatal errors never go through a Sink.
type Sink interface {
	Warn(w Warning)
}

// Warnf builds a Warning and hands it to sink. A nil sink drops it.
func Warnf(sink Sink, code Code, format string, args ...any) {
	if sink == nil {
		return
	}
	sink.Warn(Warning{Code: code, Message: fmt.Sprintf(format, args...)})
}

// Collector keeps every warning it receives in arrival order.
type Collector struct {
	mu       sync.Mutex
	warnings []Warning
}

func (c *Collector) Warn(w Warning) {
	c.mu.Lock()
	c.warnings = append(c.warnings, w)
	c.mu.Unlock()
}

// Warnings returns a copy of the collected warnings.
func (c *Collector) Warnings() []Warning {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Warning, len(c.warnings))
	copy(out, c.warnings)
	return out
}

// Count returns how many warnings carry the given code.
func (c *Collector) Count(code Code) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, w := range c.warnings {
		if w.Code == code {
			n++
		}
	}
	return n
}

// Len returns the total number of warnings.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.warnings)
}

// SlogSink logs each warning at WARN level.
type SlogSink struct {
	Logger *slog.Logger
}

func (s SlogSink) Warn(w Warning) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.LogAttrs(context.Background(), slog.LevelWarn, w.Message, slog.String("code", string(w.Code)))
}

type discard struct{}

func (discard) Warn(Warning) {}

// Discard drops every warning.
var Discard Sink = discard{}

type tee []Sink

func (t tee) Warn(w Warning) {
	for _, s := range t {
		s.Warn(w)
	}
}

// Tee fans each warning out to all of the given sinks.
func Tee(sinks ...Sink) Sink {
	out := make(tee, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}
