// Package testutil builds catalogue-shaped HTML fixtures and an in-memory
// page source for tests.
package testutil

import (
	"fmt"
	"html"
	"strings"
)

// DefaultPrefix is the element id prefix of a single-panel detail page.
const DefaultPrefix = "ctl00_ctl00_ctl00_MainContent_SubContent_SubContent"

// PanelPrefix returns the prefix used by the n-th panel (0-based) of a
// multi-panel detail page.
func PanelPrefix(n int) string {
	return fmt.Sprintf("%s_ctl%02d", DefaultPrefix, n+2)
}

// Ruling is a raw ruling row as printed on a detail page.
type Ruling struct {
	Date string
	Text string
}

// Panel describes one card-details table. Empty fields produce no row.
type Panel struct {
	Prefix     string
	Name       string
	Type       string
	CMC        string
	Rarity     string
	Artist     string
	PT         string
	Number     string
	Mana       []string // alt text of each mana icon
	Text       []string // raw inner HTML of each rules text box
	Flavor     []string // raw inner HTML of each flavor text box
	Rulings    []Ruling
	Variations []int
}

// DetailPage describes a whole detail document.
type DetailPage struct {
	ID     int
	NoForm bool
	Panels []Panel
}

// HTML renders the page.
func (p DetailPage) HTML() string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html><head><title>Card Details</title></head><body>\n")
	if !p.NoForm {
		fmt.Fprintf(&b, `<form name="aspnetForm" method="post" action="./Details.aspx?multiverseid=%d" id="aspnetForm">`+"\n", p.ID)
	}
	for i, panel := range p.Panels {
		prefix := panel.Prefix
		if prefix == "" {
			if len(p.Panels) == 1 {
				prefix = DefaultPrefix
			} else {
				prefix = PanelPrefix(i)
			}
		}
		writePanel(&b, prefix, panel)
	}
	if !p.NoForm {
		b.WriteString("</form>\n")
	}
	b.WriteString("</body></html>\n")
	return b.String()
}

func writePanel(b *strings.Builder, prefix string, p Panel) {
	b.WriteString(`<table class="cardDetails"><tr>` + "\n")
	fmt.Fprintf(b, `<td class="leftCol" id="%s_leftCol"><img src="Image.ashx" alt="%s"></td>`+"\n", prefix, html.EscapeString(p.Name))
	fmt.Fprintf(b, `<td class="rightCol" id="%s_rightCol">`+"\n", prefix)

	textRow(b, prefix, "nameRow", "Card Name:", p.Name)
	if len(p.Mana) > 0 {
		var icons strings.Builder
		for _, alt := range p.Mana {
			fmt.Fprintf(&icons, `<img src="/Handlers/Image.ashx?size=medium&amp;type=symbol" alt="%s" align="absbottom">`, html.EscapeString(alt))
		}
		rawRow(b, prefix, "manaRow", "Mana Cost:", icons.String())
	}
	textRow(b, prefix, "cmcRow", "Converted Mana Cost:", p.CMC)
	textRow(b, prefix, "typeRow", "Types:", p.Type)
	if len(p.Text) > 0 {
		rawRow(b, prefix, "textRow", "Card Text:", textBoxes(p.Text))
	}
	if len(p.Flavor) > 0 {
		rawRow(b, prefix, "flavorRow", "Flavor Text:", textBoxes(p.Flavor))
	}
	textRow(b, prefix, "ptRow", "P/T:", p.PT)
	if len(p.Variations) > 0 {
		var links strings.Builder
		for i, id := range p.Variations {
			fmt.Fprintf(&links, `<a class="variationLink" id="%d" href="Details.aspx?multiverseid=%d">%d</a>`, id, id, i+1)
		}
		rawRow(b, prefix, "variationLinks", "Variations:", links.String())
	}
	textRow(b, prefix, "numberRow", "Card Number:", p.Number)
	if p.Artist != "" {
		rawRow(b, prefix, "artistRow", "Artist:",
			fmt.Sprintf(`<a href="/Pages/Search/Default.aspx?action=advanced&amp;artist=x">%s</a>`, html.EscapeString(p.Artist)))
	}
	textRow(b, prefix, "rarityRow", "Rarity:", p.Rarity)
	if len(p.Rulings) > 0 {
		fmt.Fprintf(b, `<div id="%s_rulingsContainer"><table class="discussion"><tbody>`, prefix)
		for _, r := range p.Rulings {
			fmt.Fprintf(b, `<tr class="post"><td id="date">%s</td><td id="text">%s</td></tr>`,
				html.EscapeString(r.Date), html.EscapeString(r.Text))
		}
		b.WriteString("</tbody></table></div>\n")
	}

	b.WriteString("</td></tr></table>\n")
}

func textBoxes(boxes []string) string {
	var b strings.Builder
	for _, box := range boxes {
		fmt.Fprintf(&b, `<div class="cardtextbox">%s</div>`, box)
	}
	return b.String()
}

func textRow(b *strings.Builder, prefix, row, label, value string) {
	if value == "" {
		return
	}
	rawRow(b, prefix, row, label, "\n    "+html.EscapeString(value)+"\n")
}

func rawRow(b *strings.Builder, prefix, row, label, inner string) {
	fmt.Fprintf(b, `<div class="row" id="%s_%s"><div class="label">%s</div><div class="value">%s</div></div>`+"\n",
		prefix, row, label, inner)
}

// ChecklistPage renders a checklist listing the given ids in order.
func ChecklistPage(ids ...int) string {
	var b strings.Builder
	b.WriteString(`<html><body><table class="checklist"><tbody>`)
	b.WriteString(`<tr class="headerRow"><th>Number</th><th>Name</th></tr>`)
	for i, id := range ids {
		fmt.Fprintf(&b, `<tr class="cardItem evenItem"><td class="number">%d</td>`+
			`<td class="name"><a class="nameLink" href="../Card/Details.aspx?multiverseid=%d">Card %d</a></td></tr>`,
			i+1, id, id)
	}
	b.WriteString(`</tbody></table></body></html>`)
	return b.String()
}

// Creature returns a single-panel creature page with the given variations.
func Creature(id int, name string, variations ...int) DetailPage {
	return DetailPage{
		ID: id,
		Panels: []Panel{{
			Name:       name,
			Type:       "Creature  — Goblin Warrior",
			CMC:        "2",
			Mana:       []string{"1", "Red"},
			PT:         "2 / 1",
			Rarity:     "Common",
			Artist:     "Test Artist",
			Number:     fmt.Sprint(id % 1000),
			Variations: variations,
		}},
	}
}
