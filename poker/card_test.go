package poker

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCard(t *testing.T) {
	card := NewCard("As")
	assert.Equal(t, int32(14), card.RankValue())
	assert.Equal(t, uint8(1), card.Suit())
	assert.Equal(t, "As", card.String())

	card = NewCard("2c")
	assert.Equal(t, int32(2), card.RankValue())
	assert.Equal(t, uint8(8), card.Suit())
	assert.Equal(t, "2c", card.String())

	card = NewCard("Td")
	assert.Equal(t, int32(10), card.RankValue())
	assert.Equal(t, "Td", card.String())
}

func TestCardByteRoundTrip(t *testing.T) {
	for _, s := range []string{"As", "Kh", "Qd", "Jc", "Ts", "9h", "2c"} {
		card := NewCard(s)
		assert.Equal(t, card, NewCardFromByte(card.GetByte()), s)
	}
}

func TestCardJSONRoundTrip(t *testing.T) {
	card := NewCard("Qh")
	b, err := json.Marshal(card)
	require.NoError(t, err)
	assert.Equal(t, `"Qh"`, string(b))

	var decoded Card
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, card, decoded)
}

func TestCardEquality(t *testing.T) {
	assert.Equal(t, NewCard("7h"), NewCard("7h"))
	assert.NotEqual(t, NewCard("7h"), NewCard("7s"))
	assert.NotEqual(t, NewCard("7h"), NewCard("8h"))
}
