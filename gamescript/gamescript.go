package gamescript

import (
	"os"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"holdem-gameserver/poker"
)

// Script contains game script YAML content: a table configuration, the
// seated players, a stacked deck, the actions of one hand, and the
// expected outcome.
type Script struct {
	Name  string `yaml:"name"`
	Game  Game   `yaml:"game"`
	Seats []Seat `yaml:"seats"`
	Hand  Hand   `yaml:"hand"`
}

// Game contains game configuration in the game script.
type Game struct {
	SmallBlind int64 `yaml:"small-blind"`
	BigBlind   int64 `yaml:"big-blind"`
	MaxPlayers int   `yaml:"max-players"`
}

// Seat is one starting seat. Seats are joined in order, so seat numbers
// are the slice indexes.
type Seat struct {
	Seat   int    `yaml:"seat"`
	Player string `yaml:"player"`
	BuyIn  int64  `yaml:"buy-in"`
}

// Hand holds the stacked cards and the scripted betting rounds.
type Hand struct {
	SeatCards []SeatCards `yaml:"seat-cards"`
	Flop      []string    `yaml:"flop"`
	Turn      string      `yaml:"turn"`
	River     string      `yaml:"river"`
	Rounds    []Round     `yaml:"rounds"`
	Verify    Verify      `yaml:"verify"`
}

type SeatCards struct {
	Seat  int      `yaml:"seat"`
	Cards []string `yaml:"cards"`
}

type Round struct {
	Actions []Action `yaml:"actions"`
}

// Action is one scripted player action. FOLD is the only kind the
// engine takes at face value; the rest are derived from the amount.
type Action struct {
	Seat   int    `yaml:"seat"`
	Action string `yaml:"action"`
	Amount int64  `yaml:"amount"`
}

// Verify is the expected outcome of the hand.
type Verify struct {
	WonBy  string        `yaml:"won-by"`
	Pots   []PotVerify   `yaml:"pots"`
	Stacks []StackVerify `yaml:"stacks"`
}

type PotVerify struct {
	Amount  int64 `yaml:"amount"`
	Winners []int `yaml:"winners"` // seat numbers
}

type StackVerify struct {
	Seat  int   `yaml:"seat"`
	Stack int64 `yaml:"stack"`
}

// ReadScript parses a game script YAML file.
func ReadScript(fileName string) (*Script, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "reading script %s", fileName)
	}
	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, errors.Wrapf(err, "parsing script %s", fileName)
	}
	if err := script.validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid script %s", fileName)
	}
	return &script, nil
}

func (s *Script) validate() error {
	if len(s.Seats) < 2 {
		return errors.New("need at least two seats")
	}
	if len(s.Hand.SeatCards) != len(s.Seats) {
		return errors.Errorf("seat-cards has %d entries for %d seats", len(s.Hand.SeatCards), len(s.Seats))
	}
	for _, sc := range s.Hand.SeatCards {
		if len(sc.Cards) != 2 {
			return errors.Errorf("seat %d must have exactly 2 cards", sc.Seat)
		}
	}
	if len(s.Hand.Flop) != 3 {
		return errors.New("flop must have exactly 3 cards")
	}
	if s.Hand.Turn == "" || s.Hand.River == "" {
		return errors.New("turn and river are required")
	}
	return nil
}

// Deck arranges the stacked deck so the cards land as scripted. Hole
// cards are drawn round robin starting left of the button, so the
// per-seat cards are reordered into dealing order first.
func (s *Script) Deck(buttonSeat int) *poker.Deck {
	bySeat := make(map[int][]string, len(s.Hand.SeatCards))
	seats := make([]int, 0, len(s.Hand.SeatCards))
	for _, sc := range s.Hand.SeatCards {
		bySeat[sc.Seat] = sc.Cards
		seats = append(seats, sc.Seat)
	}
	sort.Ints(seats)

	n := len(seats)
	playerCards := make([]poker.CardsInAscii, 0, n)
	for i := 1; i <= n; i++ {
		seat := seats[(buttonSeat+i)%n]
		playerCards = append(playerCards, poker.CardsInAscii(bySeat[seat]))
	}

	return poker.DeckFromScript(
		playerCards,
		poker.CardsInAscii(s.Hand.Flop),
		poker.NewCard(s.Hand.Turn),
		poker.NewCard(s.Hand.River),
	)
}
