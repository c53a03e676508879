package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/guarzo/cardrip/internal/model"
)

func sampleSet() *model.CardSet {
	return &model.CardSet{
		SetInfo: model.SetInfo{Name: "Fate Reforged", Code: "FRF", ReleaseDate: "2015-01-23"},
		Cards: []model.Card{
			{
				ID:         386490,
				Name:       "Goblin Heelcutter",
				Type:       "Creature - Goblin Berserker",
				Types:      []string{"Creature"},
				Subtypes:   []string{"Goblin", "Berserker"},
				CMC:        model.Float(4),
				Rarity:     "Common",
				Artist:     "Jesper Ejsing",
				Power:      model.Float(3),
				Toughness:  model.Float(2),
				ManaCost:   "{3}{R}",
				Text:       "Dash {2}{R}",
				Number:     model.Float(108),
				Rulings:    []model.Ruling{{Date: "2014-11-24", Text: "Dash rules."}},
				Variations: []int{386491, 386492},
			},
			{
				ID:         386523,
				Name:       "Ugin, the Spirit Dragon",
				Type:       "Legendary Planeswalker - Ugin",
				Supertypes: []string{"Legendary"},
				Types:      []string{"Planeswalker"},
				Subtypes:   []string{"Ugin"},
				CMC:        model.Float(8),
				Rarity:     "Mythic Rare",
				Loyalty:    model.Float(7),
				ManaCost:   "{8}",
				Text:       "+2: Ugin deals 3 damage to any target.",
			},
		},
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleSet()); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	var got model.CardSet
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if diff := cmp.Diff(*sampleSet(), got); diff != "" {
		t.Errorf("decoded set mismatch (-want +got):\n%s", diff)
	}

	out := buf.String()
	for _, want := range []string{`"multiverseid": 386490`, `"code": "FRF"`, `"loyalty": 7`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %s", want)
		}
	}
	// Absent optional fields are omitted, not zeroed.
	if strings.Contains(out, `"power": 0`) || strings.Contains(out, `"flavor"`) {
		t.Error("expected absent fields to be omitted")
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleSet()); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(records))
	}
	if diff := cmp.Diff(CSVHeaders, records[0]); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}

	heelcutter := records[1]
	want := []string{
		"386490", "Goblin Heelcutter", "Creature - Goblin Berserker", "", "Creature", "Goblin; Berserker",
		"4", "Common", "Jesper Ejsing", "3", "2", "",
		"{3}{R}", "Dash {2}{R}", "", "108", "1", "386491; 386492",
	}
	if diff := cmp.Diff(want, heelcutter); diff != "" {
		t.Errorf("row mismatch (-want +got):\n%s", diff)
	}

	ugin := records[2]
	if ugin[11] != "7" || ugin[9] != "" {
		t.Errorf("expected loyalty 7 and no power, got loyalty=%q power=%q", ugin[11], ugin[9])
	}
	if ugin[13] != "'+2: Ugin deals 3 damage to any target." {
		t.Errorf("expected escaped loyalty text, got %q", ugin[13])
	}
}

func TestFileName(t *testing.T) {
	set := sampleSet()
	if got := FileName(set, FormatJSON); got != "FRF.json" {
		t.Errorf("expected FRF.json, got %q", got)
	}
	set.Code = ""
	if got := FileName(set, FormatCSV); got != "fate-reforged.csv" {
		t.Errorf("expected fate-reforged.csv, got %q", got)
	}
}

func TestWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	for _, format := range []string{FormatJSON, FormatCSV} {
		path, err := Write(dir, format, sampleSet())
		if err != nil {
			t.Fatalf("Write(%s) failed: %v", format, err)
		}
		if path != filepath.Join(dir, "FRF."+format) {
			t.Errorf("unexpected path %q", path)
		}
		info, err := os.Stat(path)
		if err != nil || info.Size() == 0 {
			t.Errorf("expected non-empty file at %s", path)
		}
	}

	if _, err := Write(dir, "xml", sampleSet()); err == nil {
		t.Error("expected error for unknown format")
	}
}
