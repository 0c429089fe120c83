package cards

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	fragment := `<ul class="hand">
		<li><img src="/static/cards/card51.png" alt="Ace of spades"></li>
		<li><img id="c07" src="/static/cards/card07.png"></li>
		<li><img src="/static/logo.png"></li>
		<li><img data-card="3" src="/static/back.png"></li>
	</ul>`

	got, err := Parse(fragment)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, Card{ID: "51", Value: "51", Image: "/static/cards/card51.png", Label: "Ace of spades"}, got[0])
	assert.Equal(t, "c07", got[1].ID)
	assert.Equal(t, "7", got[1].Value)
	assert.Equal(t, "[card 7]", got[1].Label)
	assert.Equal(t, "3", got[2].ID)
}

func TestParse_Empty(t *testing.T) {
	got, err := Parse("")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "Trump: [card 12]", PlainText(`<p>Trump:</p> <img src="cards/card12.png">`))
	assert.Equal(t, "Ann played Queen", PlainText(`<span>Ann played</span>
		<img src="x.png" alt="Queen">`))
}
