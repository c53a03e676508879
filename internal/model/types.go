package model

// SetInfo is the registry metadata for a card set.
type SetInfo struct {
	Name        string `json:"name" toml:"name"`
	Code        string `json:"code" toml:"code"`
	ReleaseDate string `json:"releaseDate,omitempty" toml:"release_date"`
	Border      string `json:"border,omitempty" toml:"border"`
	Type        string `json:"type,omitempty" toml:"type"`
	Block       string `json:"block,omitempty" toml:"block"`
}

// CardSet is a registry entry plus every card face collected for it, in
// discovery order.
type CardSet struct {
	SetInfo
	Cards []Card `json:"cards"`
}

// Card is one face or part of a physical card as listed on a detail page.
// Optional numeric fields are pointers so an absent value is omitted rather
// than written as zero.
type Card struct {
	ID         int      `json:"multiverseid"`
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	Supertypes []string `json:"supertypes,omitempty"`
	Types      []string `json:"types,omitempty"`
	Subtypes   []string `json:"subtypes,omitempty"`
	CMC        *float64 `json:"cmc,omitempty"`
	Rarity     string   `json:"rarity"`
	Artist     string   `json:"artist"`
	Power      *float64 `json:"power,omitempty"`
	Toughness  *float64 `json:"toughness,omitempty"`
	Loyalty    *float64 `json:"loyalty,omitempty"`
	ManaCost   string   `json:"manaCost,omitempty"`
	Text       string   `json:"text,omitempty"`
	Flavor     string   `json:"flavor,omitempty"`
	Number     *float64 `json:"number,omitempty"`
	Rulings    []Ruling `json:"rulings,omitempty"`
	Variations []int    `json:"variations,omitempty"`
}

// Ruling is a dated rules clarification. Date is YYYY-MM-DD.
type Ruling struct {
	Date string `json:"date"`
	Text string `json:"text"`
}

// HasType reports whether t is among the card's classified types.
func (c Card) HasType(t string) bool {
	for _, have := range c.Types {
		if have == t {
			return true
		}
	}
	return false
}

// IDs returns the id of every card in order, duplicates included.
func (s *CardSet) IDs() []int {
	ids := make([]int, len(s.Cards))
	for i, c := range s.Cards {
		ids[i] = c.ID
	}
	return ids
}

// Float returns a pointer to v, for filling optional numeric fields.
func Float(v float64) *float64 {
	return &v
}
