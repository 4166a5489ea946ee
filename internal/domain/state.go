package domain

import (
	"fmt"
	"strings"
)

// TrumpMode selects how the trump suit is disclosed during a match.
type TrumpMode string

const (
	// TrumpModeNone plays without a trump suit.
	TrumpModeNone TrumpMode = "none"
	// TrumpModeHide conceals a trump card chosen at game start, revealed on
	// an explicit open event.
	TrumpModeHide TrumpMode = "hide"
	// TrumpModeKatte lets the first seat unable to follow pick its longest
	// suit as trump, revealed immediately.
	TrumpModeKatte TrumpMode = "katte"
)

// ParseTrumpMode normalizes a client-provided mode string.
func ParseTrumpMode(s string) (TrumpMode, error) {
	switch TrumpMode(strings.ToLower(s)) {
	case TrumpModeNone, "":
		return TrumpModeNone, nil
	case TrumpModeHide:
		return TrumpModeHide, nil
	case TrumpModeKatte:
		return TrumpModeKatte, nil
	default:
		return "", fmt.Errorf("unknown trump mode %q", s)
	}
}

// Phase represents the lifecycle stage of a match.
type Phase string

const (
	// PhaseWaiting indicates the match is waiting for seats to fill.
	PhaseWaiting Phase = "waiting"
	// PhaseDealt indicates hands are dealt but play has not started.
	PhaseDealt Phase = "dealt"
	// PhaseTrumpSelection indicates the opening seat must choose the hidden
	// trump card (Hide mode only).
	PhaseTrumpSelection Phase = "trump_selection"
	// PhasePlaying indicates tricks are being played.
	PhasePlaying Phase = "playing"
	// PhaseComplete indicates the match has been decided.
	PhaseComplete Phase = "complete"
)

// MatchConfig fixes the rule set for the life of a match.
type MatchConfig struct {
	DeckCount    int
	JokerEnabled bool
	TrumpMode    TrumpMode
}

// Player holds the domain state for one seat's occupant. The seat index and
// hand survive human/bot control handoffs.
type Player struct {
	SessionID string
	Name      string
	Seat      int
	Hand      Hand
}

// Team accumulates one side's trick and point-card captures.
type Team struct {
	TricksWon int
	Mindis    int
}

// TricksPerRound is the number of tricks in a full round; every seat is
// dealt exactly this many cards regardless of deck count.
const TricksPerRound = 13

// Game captures the authoritative state for a single match instance.
// Even seats form team A (index 0), odd seats team B (index 1).
type Game struct {
	Config MatchConfig
	Phase  Phase

	Players map[string]*Player
	Seats   []string
	Teams   [2]Team

	ActiveSeat int

	Trick           []Card
	TrickMindis     int
	TricksCompleted int
	RoundsCompleted int

	Trump       Suit
	TrumpActive bool
	HiddenTrump *Card

	// Ledger records every dealt card in deal order, mirrored to observers
	// for table visualization.
	Ledger []Card
}

// NewGame validates the configuration and allocates an empty game. It fails
// fast on an unsupported deck count.
func NewGame(cfg MatchConfig) (*Game, error) {
	seats, err := SeatsForDeckCount(cfg.DeckCount)
	if err != nil {
		return nil, err
	}
	return &Game{
		Config:     cfg,
		Phase:      PhaseWaiting,
		Players:    make(map[string]*Player),
		Seats:      make([]string, seats),
		ActiveSeat: -1,
	}, nil
}

// SeatCount returns the fixed number of seats for this match.
func (g *Game) SeatCount() int {
	return len(g.Seats)
}

// TotalMindis returns the number of point cards in play.
func (g *Game) TotalMindis() int {
	return g.Config.DeckCount * 4
}

// WinThreshold returns the point-card count that decides a match outright.
func (g *Game) WinThreshold() int {
	return g.TotalMindis()/2 + 1
}

// TeamOfSeat maps a seat index to its team index by parity.
func TeamOfSeat(seat int) int {
	return seat % 2
}

// PlayerAtSeat returns the seat's occupant, or nil for an empty seat.
func (g *Game) PlayerAtSeat(seat int) *Player {
	if seat < 0 || seat >= len(g.Seats) || g.Seats[seat] == "" {
		return nil
	}
	return g.Players[g.Seats[seat]]
}

// LedSuit returns the suit of the first card played this trick.
func (g *Game) LedSuit() (Suit, bool) {
	if len(g.Trick) == 0 {
		return "", false
	}
	return g.Trick[0].Suit, true
}

// SamePair reports whether two seats belong to the same team.
func SamePair(seatA, seatB int) bool {
	return TeamOfSeat(seatA) == TeamOfSeat(seatB)
}
