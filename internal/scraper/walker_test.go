package scraper

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maltedev/tasker-scraper/internal/extract"
)

// stubNode is a minimal container for walker tests.
type stubNode struct {
	text string
	html string
}

func (s *stubNode) Text() string                     { return s.text }
func (s *stubNode) HTML() string                     { return s.html }
func (s *stubNode) Visible() bool                    { return true }
func (s *stubNode) Query(string) []extract.Container { return nil }

// stubPage serves the cards of whatever page the navigator currently sits
// on, mimicking the single shared document view.
type stubPage struct {
	nav        *stubNavigator
	pagination []extract.Container
	cards      map[int][]extract.Container
}

func (p *stubPage) Containers(selector string) []extract.Container {
	if strings.Contains(selector, "MuiPaginationItem") {
		return p.pagination
	}
	if selector == containerSelectors[0] {
		return p.cards[p.nav.current]
	}
	return nil
}

func (p *stubPage) Text() string { return "" }
func (p *stubPage) HTML() string { return "" }

type stubNavigator struct {
	current  int
	failOn   map[int]bool
	attempts []int
}

func (n *stubNavigator) NavigateToPage(_ context.Context, index int) error {
	n.attempts = append(n.attempts, index)
	if n.failOn[index] {
		return errors.New("pagination button not found")
	}
	n.current = index
	return nil
}

func (n *stubNavigator) CurrentPageIndex() int { return n.current }

func card(name, rate string) extract.Container {
	return &stubNode{text: name + " " + rate}
}

func pageButtons(labels ...string) []extract.Container {
	out := make([]extract.Container, len(labels))
	for i, l := range labels {
		out[i] = &stubNode{text: l}
	}
	return out
}

func newTestWalker(page *stubPage, nav *stubNavigator) *Walker {
	return NewWalker(page, nav, NewCollector(nil, testLogger()), testLogger())
}

func TestWalkAccumulatesAcrossPages(t *testing.T) {
	nav := &stubNavigator{current: 1}
	page := &stubPage{
		nav:        nav,
		pagination: pageButtons("1", "2", "3"),
		cards: map[int][]extract.Container{
			1: {card("Ivan T.", "$25/hr"), card("Maria L.", "$30/hr")},
			2: {card("Laurette O.", "$39.23/hr")},
			3: {card("Jose R.", "$41/hr")},
		},
	}

	res, err := newTestWalker(page, nav).Walk(context.Background(), WalkConfig{})
	require.NoError(t, err)
	require.Len(t, res.Taskers, 4)
	assert.Equal(t, "Ivan T.", res.Taskers[0].Name)
	assert.Equal(t, 1, res.Taskers[0].Page)
	assert.Equal(t, "Jose R.", res.Taskers[3].Name)
	assert.Equal(t, 3, res.Taskers[3].Page)
	assert.Equal(t, 3, res.PagesResolved)
	assert.Equal(t, 3, res.PagesVisited)
}

func TestWalkContinuesPastEmptyPage(t *testing.T) {
	nav := &stubNavigator{current: 1}
	page := &stubPage{
		nav:        nav,
		pagination: pageButtons("1", "2", "3"),
		cards: map[int][]extract.Container{
			1: {card("Ivan T.", "$25/hr"), card("Maria L.", "$30/hr")},
			2: {},
			3: {card("Jose R.", "$41/hr")},
		},
	}

	res, err := newTestWalker(page, nav).Walk(context.Background(), WalkConfig{})
	require.NoError(t, err)
	// Page 2 yields nothing; pages 1 and 3 still contribute everything.
	assert.Len(t, res.Taskers, 3)
	assert.Equal(t, 3, res.PagesVisited)
}

func TestWalkSkipsFailedNavigation(t *testing.T) {
	nav := &stubNavigator{current: 1, failOn: map[int]bool{2: true}}
	page := &stubPage{
		nav:        nav,
		pagination: pageButtons("1", "2", "3"),
		cards: map[int][]extract.Container{
			1: {card("Ivan T.", "$25/hr")},
			2: {card("Ghost G.", "$99/hr")},
			3: {card("Jose R.", "$41/hr")},
		},
	}

	res, err := newTestWalker(page, nav).Walk(context.Background(), WalkConfig{})
	require.NoError(t, err)
	require.Len(t, res.Taskers, 2)
	assert.Equal(t, "Ivan T.", res.Taskers[0].Name)
	assert.Equal(t, "Jose R.", res.Taskers[1].Name)
	assert.Equal(t, []int{2, 3}, nav.attempts)
	assert.Equal(t, 2, res.PagesVisited)
}

func TestWalkDoesNotRenavigateToCurrentPage(t *testing.T) {
	nav := &stubNavigator{current: 1}
	page := &stubPage{
		nav:        nav,
		pagination: pageButtons("1"),
		cards: map[int][]extract.Container{
			1: {card("Ivan T.", "$25/hr")},
		},
	}

	_, err := newTestWalker(page, nav).Walk(context.Background(), WalkConfig{})
	require.NoError(t, err)
	assert.Empty(t, nav.attempts)
}

func TestWalkHonorsMaxPages(t *testing.T) {
	nav := &stubNavigator{current: 1}
	page := &stubPage{
		nav:        nav,
		pagination: pageButtons("1", "2", "3", "4", "5", "24"),
		cards: map[int][]extract.Container{
			1: {card("Ivan T.", "$25/hr")},
			2: {card("Maria L.", "$30/hr")},
			3: {card("Jose R.", "$41/hr")},
			4: {card("Never N.", "$10/hr")},
		},
	}

	res, err := newTestWalker(page, nav).Walk(context.Background(), WalkConfig{MaxPages: 3})
	require.NoError(t, err)
	assert.Len(t, res.Taskers, 3)
	assert.Equal(t, []int{2, 3}, nav.attempts)
}

func TestWalkStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	nav := &stubNavigator{current: 1}
	page := &stubPage{
		nav:        nav,
		pagination: pageButtons("1", "2"),
		cards: map[int][]extract.Container{
			1: {card("Ivan T.", "$25/hr")},
		},
	}

	res, err := newTestWalker(page, nav).Walk(ctx, WalkConfig{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, res.Taskers)
}
