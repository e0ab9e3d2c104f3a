package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseContainers(t *testing.T) {
	doc, err := Parse(`<html><body>
		<div class="card"><h3>Ivan T.</h3></div>
		<div class="card"><h3>Maria L.</h3></div>
	</body></html>`)
	require.NoError(t, err)

	cards := doc.Containers("div.card")
	require.Len(t, cards, 2)
	assert.Equal(t, "Ivan T.", cards[0].Text())
	assert.Contains(t, cards[1].HTML(), "<h3>Maria L.</h3>")
}

func TestNestedQuery(t *testing.T) {
	doc, err := Parse(`<html><body>
		<div class="card"><span class="rate">$25/hr</span></div>
	</body></html>`)
	require.NoError(t, err)

	cards := doc.Containers("div.card")
	require.Len(t, cards, 1)

	rates := cards[0].Query("span.rate")
	require.Len(t, rates, 1)
	assert.Equal(t, "$25/hr", rates[0].Text())
}

func TestVisibility(t *testing.T) {
	doc, err := Parse(`<html><body>
		<div class="a">shown</div>
		<div class="b" style="display: none">hidden</div>
		<div class="c" hidden>hidden</div>
		<div style="display:none"><div class="d">hidden parent</div></div>
		<div class="e" aria-hidden="true">hidden</div>
	</body></html>`)
	require.NoError(t, err)

	visible := func(sel string) bool {
		nodes := doc.Containers(sel)
		require.Len(t, nodes, 1)
		return nodes[0].Visible()
	}

	assert.True(t, visible("div.a"))
	assert.False(t, visible("div.b"))
	assert.False(t, visible("div.c"))
	assert.False(t, visible("div.d"))
	assert.False(t, visible("div.e"))
}
