package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
)

// FakeSource serves fixture pages from memory and records every fetch.
type FakeSource struct {
	Checklist    string
	ChecklistErr error
	Pages        map[int]string
	Errors       map[int]error

	mu          sync.Mutex
	fetched     []int
	inFlight    int
	maxInFlight int
}

// NewFakeSource builds a source whose checklist lists ids and whose detail
// pages are the given fixtures.
func NewFakeSource(ids []int, pages ...DetailPage) *FakeSource {
	f := &FakeSource{
		Checklist: ChecklistPage(ids...),
		Pages:     make(map[int]string, len(pages)),
		Errors:    make(map[int]error),
	}
	for _, p := range pages {
		f.Pages[p.ID] = p.HTML()
	}
	return f
}

func (f *FakeSource) FetchChecklist(ctx context.Context, setName string) (*goquery.Document, error) {
	if f.ChecklistErr != nil {
		return nil, f.ChecklistErr
	}
	return goquery.NewDocumentFromReader(strings.NewReader(f.Checklist))
}

func (f *FakeSource) FetchDetail(ctx context.Context, id int) (*goquery.Document, error) {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	f.fetched = append(f.fetched, id)
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if err := f.Errors[id]; err != nil {
		return nil, err
	}
	page, ok := f.Pages[id]
	if !ok {
		return nil, fmt.Errorf("no fixture for multiverseid %d", id)
	}
	return goquery.NewDocumentFromReader(strings.NewReader(page))
}

// Fetched returns the ids requested so far, in order.
func (f *FakeSource) Fetched() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]int, len(f.fetched))
	copy(out, f.fetched)
	return out
}

// MaxInFlight returns the highest number of concurrent detail fetches seen.
func (f *FakeSource) MaxInFlight() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxInFlight
}
