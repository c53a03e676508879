// Package report writes collected card sets as JSON documents or CSV sheets.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/guarzo/cardrip/internal/model"
)

// Supported formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// CSVHeaders is the column order of WriteCSV.
var CSVHeaders = []string{
	"multiverseid", "name", "type", "supertypes", "types", "subtypes",
	"cmc", "rarity", "artist", "power", "toughness", "loyalty",
	"manaCost", "text", "flavor", "number", "rulings", "variations",
}

// WriteJSON writes the set as one indented JSON document.
func WriteJSON(w io.Writer, set *model.CardSet) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(set); err != nil {
		return fmt.Errorf("encoding set %q: %w", set.Name, err)
	}
	return nil
}

// WriteCSV writes one row per card. List fields are joined with "; ",
// rulings are reduced to a count.
func WriteCSV(w io.Writer, set *model.CardSet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeaders); err != nil {
		return fmt.Errorf("writing headers: %w", err)
	}
	for _, c := range set.Cards {
		if err := cw.Write(EscapeCSVRow(cardRow(c))); err != nil {
			return fmt.Errorf("writing multiverseid %d: %w", c.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func cardRow(c model.Card) []string {
	return []string{
		strconv.Itoa(c.ID),
		c.Name,
		c.Type,
		strings.Join(c.Supertypes, "; "),
		strings.Join(c.Types, "; "),
		strings.Join(c.Subtypes, "; "),
		formatFloat(c.CMC),
		c.Rarity,
		c.Artist,
		formatFloat(c.Power),
		formatFloat(c.Toughness),
		formatFloat(c.Loyalty),
		c.ManaCost,
		c.Text,
		c.Flavor,
		formatFloat(c.Number),
		strconv.Itoa(len(c.Rulings)),
		joinInts(c.Variations),
	}
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func joinInts(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, "; ")
}

// FileName is the output name for a set: its code when known, otherwise a
// slug of its name.
func FileName(set *model.CardSet, format string) string {
	base := set.Code
	if base == "" {
		base = strings.ToLower(strings.Join(strings.Fields(set.Name), "-"))
	}
	return base + "." + format
}

// Write creates dir if needed and writes the set there in the given format.
// It returns the path written.
func Write(dir, format string, set *model.CardSet) (string, error) {
	var write func(io.Writer, *model.CardSet) error
	switch format {
	case FormatJSON:
		write = WriteJSON
	case FormatCSV:
		write = WriteCSV
	default:
		return "", fmt.Errorf("unknown output format %q", format)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(dir, FileName(set, format))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f, set); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", path, err)
	}
	return path, nil
}
