// Package cardpage extracts card records from a catalogue detail page.
//
// A detail page holds one "card details" panel per face or part of the card
// (split, flip and double-faced cards have several). Every field of a panel
// lives under an element id prefix that is unique to that panel, so all
// lookups are scoped by that prefix.
//
// Field-level problems never fail a parse: the offending field is left out
// (or replaced by a placeholder) and a warning goes to the diag.Sink.
package cardpage

import (
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/guarzo/cardrip/internal/diag"
	"github.com/guarzo/cardrip/internal/model"
	"github.com/guarzo/cardrip/internal/registry"
	"github.com/guarzo/cardrip/internal/symbols"
	"github.com/guarzo/cardrip/internal/textblock"
)

const (
	rulingDateIn  = "1/2/2006"
	rulingDateOut = "2006-01-02"

	// Planes carry a single, possibly multi-word, subtype.
	planeType        = "Plane"
	planeswalkerType = "Planeswalker"
)

// Panels returns every card-details panel in the document.
func Panels(doc *goquery.Document) *goquery.Selection {
	return doc.Find("table.cardDetails")
}

// MultiverseID reads the multiverseid query parameter of a link.
func MultiverseID(href string) (int, bool) {
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return 0, false
	}
	id, err := strconv.Atoi(strings.TrimSpace(u.Query().Get("multiverseid")))
	if err != nil {
		return 0, false
	}
	return id, true
}

// DocumentID returns the id the page's form posts back to.
func DocumentID(doc *goquery.Document) (int, bool) {
	action, ok := doc.Find("#aspnetForm").Attr("action")
	if !ok {
		return 0, false
	}
	return MultiverseID(action)
}

// Parse extracts one card per panel, using the document's own id.
func Parse(doc *goquery.Document, sink diag.Sink) []model.Card {
	id, ok := DocumentID(doc)
	if !ok {
		diag.Warnf(sink, diag.MissingDocumentID, "detail page has no form multiverseid")
	}
	return ParseWithID(doc, id, sink)
}

// ParseWithID extracts one card per panel and stamps each with id.
func ParseWithID(doc *goquery.Document, id int, sink diag.Sink) []model.Card {
	var cards []model.Card
	Panels(doc).Each(func(_ int, panel *goquery.Selection) {
		cards = append(cards, parsePanel(panel, id, sink))
	})
	return cards
}

type panelFields struct {
	panel  *goquery.Selection
	prefix string
}

func (p panelFields) find(row, sel string) *goquery.Selection {
	return p.panel.Find(p.prefix + "_" + row + " " + sel)
}

func (p panelFields) text(row string) string {
	return strings.TrimSpace(p.find(row, ".value").Text())
}

func parsePanel(panel *goquery.Selection, id int, sink diag.Sink) model.Card {
	rightCol, _ := panel.Find(".rightCol").Attr("id")
	f := panelFields{
		panel:  panel,
		prefix: "#" + strings.TrimSuffix(strings.TrimSpace(rightCol), "_rightCol"),
	}

	card := model.Card{
		ID:     id,
		Name:   f.text("nameRow"),
		Rarity: f.text("rarityRow"),
		Artist: strings.TrimSpace(f.find("artistRow", ".value a").Text()),
	}
	if card.Artist == "" {
		card.Artist = f.text("artistRow")
	}

	parseTypeLine(&card, f.text("typeRow"), sink)

	if v := f.text("cmcRow"); v != "" {
		card.CMC = parseNumber(v, "converted mana cost", sink)
	}

	parseStats(&card, f.text("ptRow"), sink)

	var mana strings.Builder
	f.find("manaRow", ".value img").Each(func(_ int, img *goquery.Selection) {
		mana.WriteString(symbols.Encode(img.AttrOr("alt", ""), sink))
	})
	card.ManaCost = mana.String()

	card.Text = strings.TrimSpace(textblock.Render(f.find("textRow", ".value .cardtextbox"), sink))
	card.Flavor = strings.TrimSpace(textblock.Render(f.find("flavorRow", ".value .cardtextbox"), sink))

	if v := f.text("numberRow"); v != "" {
		card.Number = parseNumber(v, "card number", sink)
	}

	f.find("rulingsContainer", "table tr.post").Each(func(_ int, row *goquery.Selection) {
		cells := row.ChildrenFiltered("td")
		card.Rulings = append(card.Rulings, model.Ruling{
			Date: NormalizeDate(strings.TrimSpace(cells.First().Text()), sink),
			Text: strings.TrimSpace(cells.Last().Text()),
		})
	})

	f.find("variationLinks", "a.variationLink").Each(func(_ int, a *goquery.Selection) {
		raw := strings.TrimSpace(a.AttrOr("id", ""))
		v, err := strconv.Atoi(raw)
		if err != nil {
			diag.Warnf(sink, diag.MalformedNumber, "variation link id %q is not a number", raw)
			return
		}
		if v == id {
			return
		}
		card.Variations = append(card.Variations, v)
	})

	return card
}

// parseTypeLine fills Type, Supertypes, Types and Subtypes from a raw line
// such as "Legendary Creature — Human Warrior".
func parseTypeLine(card *model.Card, raw string, sink diag.Sink) {
	left, right, hasSubtypes := strings.Cut(raw, "—")

	words := strings.Fields(left)
	for _, word := range words {
		proper := properCase(word)
		switch {
		case registry.IsSupertype(proper):
			card.Supertypes = append(card.Supertypes, proper)
		case registry.IsType(proper):
			card.Types = append(card.Types, proper)
		default:
			diag.Warnf(sink, diag.UnclassifiedType, "raw type not found: %s", proper)
		}
	}
	card.Type = strings.Join(words, " ")

	if !hasSubtypes {
		return
	}
	if card.HasType(planeType) {
		if sub := strings.TrimSpace(right); sub != "" {
			card.Subtypes = []string{sub}
		}
	} else {
		card.Subtypes = strings.Fields(right)
	}
	if len(card.Subtypes) > 0 {
		card.Type += " - " + strings.Join(card.Subtypes, " ")
	}
}

// parseStats reads the combined power/toughness or loyalty value.
func parseStats(card *model.Card, raw string, sink diag.Sink) {
	if raw == "" {
		return
	}
	if card.HasType(planeswalkerType) {
		card.Loyalty = parseNumber(raw, "loyalty", sink)
		return
	}

	parts := strings.Split(raw, "/")
	if len(parts) != 2 {
		diag.Warnf(sink, diag.MalformedPT, "power toughness invalid: %s", raw)
		return
	}
	power, perr := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	toughness, terr := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if perr != nil || terr != nil {
		diag.Warnf(sink, diag.MalformedPT, "power toughness not numeric: %s", raw)
		return
	}
	card.Power = model.Float(power)
	card.Toughness = model.Float(toughness)
}

func parseNumber(raw, field string, sink diag.Sink) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		diag.Warnf(sink, diag.MalformedNumber, "%s %q is not a number", field, raw)
		return nil
	}
	return model.Float(v)
}

// NormalizeDate rewrites a month/day/year ruling date as YYYY-MM-DD. Dates
// that do not parse are returned unchanged.
func NormalizeDate(raw string, sink diag.Sink) string {
	t, err := time.Parse(rulingDateIn, raw)
	if err != nil {
		diag.Warnf(sink, diag.MalformedDate, "ruling date %q is not month/day/year", raw)
		return raw
	}
	return t.Format(rulingDateOut)
}

func properCase(word string) string {
	r, size := utf8.DecodeRuneInString(word)
	if r == utf8.RuneError {
		return word
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(word[size:])
}
