package poker

import (
	crypto_rand "crypto/rand"
	"encoding/binary"
	"encoding/json"
	"errors"
	"math/rand"
)

// ErrDeckEmpty is returned when a draw asks for more cards than remain.
var ErrDeckEmpty = errors.New("poker: deck is empty")

var fullDeck []Card

func init() {
	fullDeck = initializeFullCards()
}

type Deck struct {
	cards []Card
}

func newSeed() rand.Source {
	var b [8]byte
	_, err := crypto_rand.Read(b[:])
	if err != nil {
		panic("cannot seed math/rand package with cryptographically secure random number generator")
	}
	return rand.NewSource(int64(binary.LittleEndian.Uint64(b[:])))
}

// NewDeck returns a full 52-card deck, shuffled.
func NewDeck() *Deck {
	deck := &Deck{}
	deck.Shuffle()
	return deck
}

func NewDeckNoShuffle() *Deck {
	deck := &Deck{}
	deck.cards = make([]Card, len(fullDeck))
	copy(deck.cards, fullDeck)
	return deck
}

// Shuffle resets the deck to all 52 cards in a fresh random order.
func (deck *Deck) Shuffle() *Deck {
	deck.cards = make([]Card, len(fullDeck))
	copy(deck.cards, fullDeck)

	randGen := rand.New(newSeed())
	randGen.Shuffle(len(deck.cards), func(i, j int) {
		deck.cards[i], deck.cards[j] = deck.cards[j], deck.cards[i]
	})
	return deck
}

// Draw removes and returns the top n cards.
func (deck *Deck) Draw(n int) ([]Card, error) {
	if n > len(deck.cards) {
		return nil, ErrDeckEmpty
	}
	cards := make([]Card, n)
	copy(cards, deck.cards[:n])
	deck.cards = deck.cards[n:]
	return cards, nil
}

func (deck *Deck) Remaining() int {
	return len(deck.cards)
}

func (deck *Deck) Empty() bool {
	return len(deck.cards) == 0
}

func (deck *Deck) GetBytes() []uint8 {
	return CardsToBytes(deck.cards)
}

func DeckFromBytes(cardsInByte []byte) *Deck {
	return &Deck{cards: CardsFromBytes(cardsInByte)}
}

func (deck *Deck) PrettyPrint() string {
	return CardsToString(deck.cards)
}

// The deck serializes as the ordered list of remaining cards so a game
// aggregate can round-trip through a state store mid-hand.
func (deck *Deck) MarshalJSON() ([]byte, error) {
	return json.Marshal(deck.cards)
}

func (deck *Deck) UnmarshalJSON(b []byte) error {
	var cards []Card
	if err := json.Unmarshal(b, &cards); err != nil {
		return err
	}
	deck.cards = cards
	return nil
}

func initializeFullCards() []Card {
	var cards []Card
	for _, rank := range strRanks {
		for suit := range charSuitToIntSuit {
			cards = append(cards, NewCard(string(rank)+string(suit)))
		}
	}
	return cards
}

type CardsInAscii []string

// DeckFromScript arranges a deck so that the given hole cards, flop, turn
// and river come off the top in dealing order. Hole cards are dealt one at
// a time around the table, so player i's j-th card sits at i + j*players.
func DeckFromScript(playerCards []CardsInAscii, flop CardsInAscii, turn Card, river Card) *Deck {
	deck := NewDeck()
	noOfPlayers := len(playerCards)
	for i, hole := range playerCards {
		for j, cardStr := range hole {
			deckIndex := i + j*noOfPlayers
			deck.placeCard(NewCard(cardStr), deckIndex)
		}
	}

	deckIndex := noOfPlayers * len(playerCards[0])
	for _, cardStr := range flop {
		deck.placeCard(NewCard(cardStr), deckIndex)
		deckIndex++
	}
	deck.placeCard(turn, deckIndex)
	deckIndex++
	deck.placeCard(river, deckIndex)
	return deck
}

func (deck *Deck) placeCard(card Card, deckIndex int) {
	cardLoc := deck.getCardLoc(card)
	deck.cards[cardLoc] = deck.cards[deckIndex]
	deck.cards[deckIndex] = card
}

func (deck *Deck) getCardLoc(cardToLocate Card) int {
	for i, card := range deck.cards {
		if card == cardToLocate {
			return i
		}
	}
	return -1
}
