// Package manifest records what has been ripped into an output directory:
// a run metadata file and a per-set summary that later runs merge into.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

const (
	MetadataFile    = "metadata.json"
	SetsSummaryFile = "sets_summary.json"
)

// Manifest manages the manifest files of one output directory.
type Manifest struct {
	Dir string
}

// Metadata describes the most recent run.
type Metadata struct {
	LastRun     time.Time `json:"lastRun"`
	Source      string    `json:"source"` // "rip" or "watch"
	TotalSets   int       `json:"totalSets"`
	FailedSets  int       `json:"failedSets"`
	TotalCards  int       `json:"totalCards"`
	Warnings    int       `json:"warnings"`
	RunDuration string    `json:"runDuration"`
}

// SetSummary is the last successful rip of one set.
type SetSummary struct {
	Name        string    `json:"name"`
	Code        string    `json:"code,omitempty"`
	File        string    `json:"file"`
	CardCount   int       `json:"cardCount"`
	Warnings    int       `json:"warnings"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// New creates a manifest for dir.
func New(dir string) *Manifest {
	return &Manifest{Dir: dir}
}

// IsStale reports whether the set has never been ripped here or was last
// ripped more than maxAge ago.
func (m *Manifest) IsStale(setName string, maxAge time.Duration, now time.Time) bool {
	summaries, err := m.LoadSetsSummary()
	if err != nil {
		return true
	}
	for _, s := range summaries {
		if s.Name == setName {
			return now.Sub(s.LastUpdated) > maxAge
		}
	}
	return true
}

// SaveMetadata saves run metadata
func (m *Manifest) SaveMetadata(metadata *Metadata) error {
	return m.save(MetadataFile, metadata)
}

// LoadMetadata loads run metadata
func (m *Manifest) LoadMetadata() (*Metadata, error) {
	var metadata Metadata
	if err := m.load(MetadataFile, &metadata); err != nil {
		return nil, err
	}
	return &metadata, nil
}

// LoadSetsSummary loads per-set summary data. A missing file is an empty
// summary.
func (m *Manifest) LoadSetsSummary() ([]SetSummary, error) {
	var summaries []SetSummary
	if err := m.load(SetsSummaryFile, &summaries); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return summaries, nil
}

// MergeSetsSummary replaces the entries of the given sets, keeps the rest,
// and saves the result sorted by name.
func (m *Manifest) MergeSetsSummary(updates []SetSummary) error {
	existing, err := m.LoadSetsSummary()
	if err != nil {
		return err
	}

	byName := make(map[string]SetSummary, len(existing)+len(updates))
	for _, s := range existing {
		byName[s.Name] = s
	}
	for _, s := range updates {
		byName[s.Name] = s
	}

	merged := make([]SetSummary, 0, len(byName))
	for _, s := range byName {
		merged = append(merged, s)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Name < merged[j].Name })

	return m.save(SetsSummaryFile, merged)
}

// Lookup returns the summary for setName, if recorded.
func (m *Manifest) Lookup(setName string) (SetSummary, bool) {
	summaries, err := m.LoadSetsSummary()
	if err != nil {
		return SetSummary{}, false
	}
	for _, s := range summaries {
		if s.Name == setName {
			return s, true
		}
	}
	return SetSummary{}, false
}

func (m *Manifest) save(name string, v any) error {
	if err := os.MkdirAll(m.Dir, 0755); err != nil {
		return fmt.Errorf("create manifest directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}

	path := filepath.Join(m.Dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}

func (m *Manifest) load(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(m.Dir, name))
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal %s: %w", name, err)
	}
	return nil
}
