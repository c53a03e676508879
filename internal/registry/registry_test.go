package registry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestClassificationTables(t *testing.T) {
	tests := []struct {
		word      string
		supertype bool
		cardType  bool
	}{
		{"Legendary", true, false},
		{"Snow", true, false},
		{"Planeswalker", false, true},
		{"Plane", false, true},
		{"Creature", false, true},
		{"Goblin", false, false},
		{"legendary", false, false}, // callers title-case first
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			if got := IsSupertype(tt.word); got != tt.supertype {
				t.Errorf("IsSupertype(%q) = %v, want %v", tt.word, got, tt.supertype)
			}
			if got := IsType(tt.word); got != tt.cardType {
				t.Errorf("IsType(%q) = %v, want %v", tt.word, got, tt.cardType)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	r := Default()

	info, err := r.Lookup("Fate Reforged")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if info.Code != "FRF" {
		t.Errorf("expected code FRF, got %q", info.Code)
	}

	_, err = r.Lookup("fate reforged")
	if !errors.Is(err, ErrUnknownSet) {
		t.Errorf("expected ErrUnknownSet for case mismatch, got %v", err)
	}
}

func TestNamesOrderedByRelease(t *testing.T) {
	names := Default().Names()
	if len(names) == 0 {
		t.Fatal("expected registered sets")
	}
	if names[0] != "Limited Edition Alpha" {
		t.Errorf("expected oldest set first, got %q", names[0])
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sets.toml")
	content := `
[[set]]
name = "Test Set"
code = "TST"
release_date = "2020-01-01"
type = "expansion"

[[set]]
name = "Fate Reforged"
code = "FRX"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write registry file: %v", err)
	}

	r := Default()
	before := r.Len()
	if err := r.LoadFile(path); err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if r.Len() != before+1 {
		t.Errorf("expected %d sets, got %d", before+1, r.Len())
	}

	info, err := r.Lookup("Test Set")
	if err != nil {
		t.Fatalf("Lookup after load failed: %v", err)
	}
	if info.Code != "TST" || info.ReleaseDate != "2020-01-01" {
		t.Errorf("unexpected entry %+v", info)
	}

	info, _ = r.Lookup("Fate Reforged")
	if info.Code != "FRX" {
		t.Errorf("expected override code FRX, got %q", info.Code)
	}
}

func TestLoadFileRejectsNamelessSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[[set]]\ncode = \"X\"\n"), 0644); err != nil {
		t.Fatalf("write registry file: %v", err)
	}
	if err := New().LoadFile(path); err == nil {
		t.Error("expected error for set without name")
	}
}
