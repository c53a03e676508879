// Package registry holds the static tables the extractor classifies against:
// known card sets and the recognized supertype and type words.
package registry

import (
	"errors"
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/guarzo/cardrip/internal/model"
)

// ErrUnknownSet is returned when a set name has no registry entry.
var ErrUnknownSet = errors.New("unknown set")

var supertypes = map[string]bool{
	"Basic":     true,
	"Legendary": true,
	"Ongoing":   true,
	"Snow":      true,
	"World":     true,
}

var types = map[string]bool{
	"Artifact":     true,
	"Conspiracy":   true,
	"Creature":     true,
	"Enchantment":  true,
	"Instant":      true,
	"Land":         true,
	"Phenomenon":   true,
	"Plane":        true,
	"Planeswalker": true,
	"Scheme":       true,
	"Sorcery":      true,
	"Tribal":       true,
	"Vanguard":     true,
}

// IsSupertype reports whether word (already title-cased) is a supertype.
func IsSupertype(word string) bool { return supertypes[word] }

// IsType reports whether word (already title-cased) is a card type.
func IsType(word string) bool { return types[word] }

var knownSets = []model.SetInfo{
	{Name: "Limited Edition Alpha", Code: "LEA", ReleaseDate: "1993-08-05", Border: "black", Type: "core"},
	{Name: "Unhinged", Code: "UNH", ReleaseDate: "2004-11-19", Border: "silver", Type: "un"},
	{Name: "Planechase 2012 Edition", Code: "PC2", ReleaseDate: "2012-06-01", Border: "black", Type: "planechase"},
	{Name: "Theros", Code: "THS", ReleaseDate: "2013-09-27", Border: "black", Type: "expansion", Block: "Theros"},
	{Name: "Born of the Gods", Code: "BNG", ReleaseDate: "2014-02-07", Border: "black", Type: "expansion", Block: "Theros"},
	{Name: "Journey into Nyx", Code: "JOU", ReleaseDate: "2014-05-02", Border: "black", Type: "expansion", Block: "Theros"},
	{Name: "Conspiracy", Code: "CNS", ReleaseDate: "2014-06-06", Border: "black", Type: "conspiracy"},
	{Name: "Magic 2015 Core Set", Code: "M15", ReleaseDate: "2014-07-18", Border: "black", Type: "core"},
	{Name: "Khans of Tarkir", Code: "KTK", ReleaseDate: "2014-09-26", Border: "black", Type: "expansion", Block: "Khans of Tarkir"},
	{Name: "Commander 2014", Code: "C14", ReleaseDate: "2014-11-07", Border: "black", Type: "commander"},
	{Name: "Fate Reforged", Code: "FRF", ReleaseDate: "2015-01-23", Border: "black", Type: "expansion", Block: "Khans of Tarkir"},
	{Name: "Dragons of Tarkir", Code: "DTK", ReleaseDate: "2015-03-27", Border: "black", Type: "expansion", Block: "Khans of Tarkir"},
	{Name: "Modern Masters 2015 Edition", Code: "MM2", ReleaseDate: "2015-05-22", Border: "black", Type: "reprint"},
	{Name: "Magic Origins", Code: "ORI", ReleaseDate: "2015-07-17", Border: "black", Type: "core"},
	{Name: "Battle for Zendikar", Code: "BFZ", ReleaseDate: "2015-10-02", Border: "black", Type: "expansion", Block: "Battle for Zendikar"},
	{Name: "Oath of the Gatewatch", Code: "OGW", ReleaseDate: "2016-01-22", Border: "black", Type: "expansion", Block: "Battle for Zendikar"},
	{Name: "Shadows over Innistrad", Code: "SOI", ReleaseDate: "2016-04-08", Border: "black", Type: "expansion", Block: "Shadows over Innistrad"},
	{Name: "Eldritch Moon", Code: "EMN", ReleaseDate: "2016-07-22", Border: "black", Type: "expansion", Block: "Shadows over Innistrad"},
}

// Registry maps set names to their metadata.
type Registry struct {
	sets map[string]model.SetInfo
}

// Default returns a registry seeded with the built-in set table.
func Default() *Registry {
	return New(knownSets...)
}

// New builds a registry from the given entries. Later entries win.
func New(sets ...model.SetInfo) *Registry {
	r := &Registry{sets: make(map[string]model.SetInfo, len(sets))}
	for _, s := range sets {
		r.sets[s.Name] = s
	}
	return r
}

// Lookup returns the metadata for an exact set name.
func (r *Registry) Lookup(name string) (model.SetInfo, error) {
	info, ok := r.sets[name]
	if !ok {
		return model.SetInfo{}, fmt.Errorf("%w: %q", ErrUnknownSet, name)
	}
	return info, nil
}

// Names returns every registered set name, ordered by release date then name.
func (r *Registry) Names() []string {
	infos := make([]model.SetInfo, 0, len(r.sets))
	for _, s := range r.sets {
		infos = append(infos, s)
	}
	sort.Slice(infos, func(i, j int) bool {
		if infos[i].ReleaseDate != infos[j].ReleaseDate {
			return infos[i].ReleaseDate < infos[j].ReleaseDate
		}
		return infos[i].Name < infos[j].Name
	})
	names := make([]string, len(infos))
	for i, s := range infos {
		names[i] = s.Name
	}
	return names
}

// Len returns the number of registered sets.
func (r *Registry) Len() int { return len(r.sets) }

type setFile struct {
	Sets []model.SetInfo `toml:"set"`
}

// LoadFile merges [[set]] entries from a TOML file into the registry,
// replacing entries with the same name.
func (r *Registry) LoadFile(path string) error {
	var f setFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return fmt.Errorf("decode registry file: %w", err)
	}
	for i, s := range f.Sets {
		if s.Name == "" {
			return fmt.Errorf("registry file %s: set #%d has no name", path, i+1)
		}
		r.sets[s.Name] = s
	}
	return nil
}
