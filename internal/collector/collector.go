// Package collector assembles a complete CardSet: it reads the set checklist,
// fetches and parses every listed detail page one at a time, then runs a single
// extra round over variation ids that the checklist did not list.
package collector

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/PuerkitoBio/goquery"
	"github.com/guarzo/cardrip/internal/cardpage"
	"github.com/guarzo/cardrip/internal/diag"
	"github.com/guarzo/cardrip/internal/model"
	"github.com/guarzo/cardrip/internal/registry"
)

// ErrInvalidDetail is returned when a detail page holds no card panels.
var ErrInvalidDetail = errors.New("invalid detail response")

// PageSource supplies parsed catalogue pages. Implementations may serve
// detail pages from a local cache.
type PageSource interface {
	FetchChecklist(ctx context.Context, setName string) (*goquery.Document, error)
	FetchDetail(ctx context.Context, id int) (*goquery.Document, error)
}

// Progress is told about each round and each fetched id.
type Progress interface {
	StartRound(name string, total int)
	Advance(id int)
	FinishRound()
}

type noProgress struct{}

func (noProgress) StartRound(string, int) {}
func (noProgress) Advance(int)            {}
func (noProgress) FinishRound()           {}

// Collector drives a PageSource over a set's checklist and variations. It is
// not safe for concurrent use.
type Collector struct {
	source   PageSource
	registry *registry.Registry
	sink     diag.Sink
	progress Progress
	inFlight atomic.Int32
}

// Option configures a Collector.
type Option func(*Collector)

// WithSink routes field-level warnings to sink.
func WithSink(sink diag.Sink) Option {
	return func(c *Collector) { c.sink = sink }
}

// WithProgress reports per-round progress.
func WithProgress(p Progress) Option {
	return func(c *Collector) { c.progress = p }
}

// New creates a Collector. A nil registry means registry.Default().
func New(source PageSource, reg *registry.Registry, opts ...Option) *Collector {
	if reg == nil {
		reg = registry.Default()
	}
	c := &Collector{
		source:   source,
		registry: reg,
		sink:     diag.Discard,
		progress: noProgress{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect builds the CardSet for setName. Any fetch failure aborts the whole
// call and no partial set is returned.
func (c *Collector) Collect(ctx context.Context, setName string) (*model.CardSet, error) {
	info, err := c.registry.Lookup(setName)
	if err != nil {
		return nil, err
	}

	checklist, err := c.source.FetchChecklist(ctx, setName)
	if err != nil {
		return nil, fmt.Errorf("fetch checklist for %q: %w", setName, err)
	}
	ids := ChecklistIDs(checklist)

	cards, err := c.collectIDs(ctx, "checklist", ids)
	if err != nil {
		return nil, err
	}

	// One extra round only: ids discovered here are not expanded again.
	extra, err := c.collectIDs(ctx, "variations", VariationClosure(cards))
	if err != nil {
		return nil, err
	}

	all := make([]model.Card, 0, len(cards)+len(extra))
	all = append(all, cards...)
	all = append(all, extra...)
	return &model.CardSet{SetInfo: info, Cards: all}, nil
}

// CollectCard fetches and parses a single detail page.
func (c *Collector) CollectCard(ctx context.Context, id int) ([]model.Card, error) {
	return c.fetchAndParse(ctx, id)
}

func (c *Collector) collectIDs(ctx context.Context, round string, ids []int) ([]model.Card, error) {
	c.progress.StartRound(round, len(ids))
	defer c.progress.FinishRound()

	var cards []model.Card
	for _, id := range ids {
		parsed, err := c.fetchAndParse(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("%s round: %w", round, err)
		}
		cards = append(cards, parsed...)
		c.progress.Advance(id)
	}
	return cards, nil
}

func (c *Collector) fetchAndParse(ctx context.Context, id int) ([]model.Card, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := c.fetchDetail(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch multiverseid %d: %w", id, err)
	}
	if doc == nil || cardpage.Panels(doc).Length() == 0 {
		return nil, fmt.Errorf("multiverseid %d: %w", id, ErrInvalidDetail)
	}

	docID, ok := cardpage.DocumentID(doc)
	if !ok {
		diag.Warnf(c.sink, diag.MissingDocumentID, "detail page for %d has no form multiverseid, using requested id", id)
		docID = id
	}
	return cardpage.ParseWithID(doc, docID, c.sink), nil
}

// fetchDetail holds the single detail-fetch slot for the duration of one
// request.
func (c *Collector) fetchDetail(ctx context.Context, id int) (*goquery.Document, error) {
	if n := c.inFlight.Add(1); n != 1 {
		c.inFlight.Add(-1)
		return nil, fmt.Errorf("detail fetch for %d started while another is in flight", id)
	}
	defer c.inFlight.Add(-1)
	return c.source.FetchDetail(ctx, id)
}

// ChecklistIDs returns the multiverseid of every card link on a checklist
// page, in page order, without duplicates.
func ChecklistIDs(doc *goquery.Document) []int {
	var ids []int
	seen := make(map[int]bool)
	doc.Find("table.checklist tr.cardItem a.nameLink").Each(func(_ int, a *goquery.Selection) {
		id, ok := cardpage.MultiverseID(a.AttrOr("href", ""))
		if !ok || seen[id] {
			return
		}
		seen[id] = true
		ids = append(ids, id)
	})
	return ids
}

// VariationClosure returns every variation id listed by cards that is not
// itself the id of one of cards, in first-seen order.
func VariationClosure(cards []model.Card) []int {
	have := make(map[int]bool, len(cards))
	for _, c := range cards {
		have[c.ID] = true
	}

	var ids []int
	for _, c := range cards {
		for _, v := range c.Variations {
			if have[v] {
				continue
			}
			have[v] = true
			ids = append(ids, v)
		}
	}
	return ids
}
