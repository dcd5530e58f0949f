package poker

import (
	"fmt"
	"strings"
)

// Card packs a rank and a suit into one byte.
// High 4 bits: rank index (0 is deuce, 12 is ace).
// Low 4 bits: suit bit (1 spade, 2 heart, 4 diamond, 8 club).
type Card uint8

var (
	strRanks = "23456789TJQKA"

	charSuitToIntSuit = map[uint8]uint8{
		's': 1, // spades
		'h': 2, // hearts
		'd': 4, // diamonds
		'c': 8, // clubs
	}
	intSuitToCharSuit = "xshxdxxxc"

	prettySuits = map[uint8]string{
		1: "♠", // spades
		2: "❤", // hearts
		4: "♦", // diamonds
		8: "♣", // clubs
	}
)

var charRankToIntRank = map[uint8]uint8{}

func init() {
	for i := range strRanks {
		charRankToIntRank[strRanks[i]] = uint8(i)
	}
}

// NewCard parses a two character card string, e.g. "As" or "Td".
func NewCard(s string) Card {
	rankInt := charRankToIntRank[s[0]]
	suitInt := charSuitToIntSuit[s[1]]
	return Card((rankInt << 4) | suitInt)
}

func NewCardFromByte(cardByte uint8) Card {
	return Card(cardByte)
}

// RankIndex returns the rank as 0..12 with 12 being the ace.
func (c Card) RankIndex() int32 {
	return int32(c>>4) & 0xF
}

// RankValue returns the rank as 2..14, ace high.
func (c Card) RankValue() int32 {
	return c.RankIndex() + 2
}

func (c Card) Suit() uint8 {
	return uint8(c) & 0xF
}

func (c Card) GetByte() uint8 {
	return uint8(c)
}

func (c Card) String() string {
	return string(strRanks[c.RankIndex()]) + string(intSuitToCharSuit[c.Suit()])
}

func (c Card) MarshalJSON() ([]byte, error) {
	return []byte("\"" + c.String() + "\""), nil
}

func (c *Card) UnmarshalJSON(b []byte) error {
	if len(b) != 4 {
		return fmt.Errorf("poker: invalid card %q", string(b))
	}
	*c = NewCard(string(b[1:3]))
	return nil
}

// PrettyPrint renders the card with a unicode suit, e.g. "A♠".
func (c Card) PrettyPrint() string {
	return string(strRanks[c.RankIndex()]) + prettySuits[c.Suit()]
}

func CardsToString(cards []Card) string {
	var b strings.Builder
	b.Grow(32)
	fmt.Fprintf(&b, "[")
	for _, c := range cards {
		fmt.Fprintf(&b, " %s ", c.PrettyPrint())
	}
	fmt.Fprintf(&b, "]")
	return b.String()
}

func CardsToBytes(cards []Card) []byte {
	out := make([]byte, len(cards))
	for i, c := range cards {
		out[i] = c.GetByte()
	}
	return out
}

func CardsFromBytes(cardBytes []byte) []Card {
	out := make([]Card, len(cardBytes))
	for i, b := range cardBytes {
		out[i] = NewCardFromByte(b)
	}
	return out
}
