package game

// GameStatus is the lifecycle phase of a table.
type GameStatus int32

const (
	GameStatusWaiting GameStatus = iota
	GameStatusStarting
	GameStatusPreflopBetting
	GameStatusFlopBetting
	GameStatusTurnBetting
	GameStatusRiverBetting
	GameStatusShowdown
)

var gameStatusName = map[GameStatus]string{
	GameStatusWaiting:        "WAITING",
	GameStatusStarting:       "STARTING",
	GameStatusPreflopBetting: "PRE_FLOP_BETTING",
	GameStatusFlopBetting:    "FLOP_BETTING",
	GameStatusTurnBetting:    "TURN_BETTING",
	GameStatusRiverBetting:   "RIVER_BETTING",
	GameStatusShowdown:       "SHOWDOWN",
}

func (s GameStatus) String() string {
	return gameStatusName[s]
}

// IsBetting reports whether the status is one of the four betting streets.
func (s GameStatus) IsBetting() bool {
	switch s {
	case GameStatusPreflopBetting, GameStatusFlopBetting, GameStatusTurnBetting, GameStatusRiverBetting:
		return true
	}
	return false
}

// ActionKind is the concrete action applied to a betting round. Players
// submit CHECK/CALL/BET/RAISE/FOLD; the engine derives the final kind
// (including ALL_IN) once, from the amount, at the validation boundary.
type ActionKind int32

const (
	ActionNone ActionKind = iota
	ActionSmallBlind
	ActionBigBlind
	ActionCheck
	ActionCall
	ActionBet
	ActionRaise
	ActionFold
	ActionAllIn
)

var actionKindName = map[ActionKind]string{
	ActionNone:       "NONE",
	ActionSmallBlind: "SB",
	ActionBigBlind:   "BB",
	ActionCheck:      "CHECK",
	ActionCall:       "CALL",
	ActionBet:        "BET",
	ActionRaise:      "RAISE",
	ActionFold:       "FOLD",
	ActionAllIn:      "ALL_IN",
}

var actionKindByName = map[string]ActionKind{}

func init() {
	for kind, name := range actionKindName {
		actionKindByName[name] = kind
	}
}

func (a ActionKind) String() string {
	return actionKindName[a]
}

// ParseActionKind maps a wire-format action name to its kind.
// Unknown names map to ActionNone.
func ParseActionKind(name string) ActionKind {
	return actionKindByName[name]
}

const (
	// DefaultMaxPlayers is the seat cap used when the game config does
	// not specify one. Seats are bounded at 9 like a live table.
	DefaultMaxPlayers = 9
	MaxSeats          = 9
)

// GameConfig carries the table parameters chosen at creation.
type GameConfig struct {
	SmallBlind int64 `json:"smallBlind"`
	BigBlind   int64 `json:"bigBlind"`
	MaxPlayers int   `json:"maxPlayers"`
}
