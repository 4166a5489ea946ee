package app

import "mindikot/internal/domain"

// EventKind identifies emitted game events for Nakama dispatch.
type EventKind string

const (
	EventPlayerJoined EventKind = "player_joined"
	EventWaiting      EventKind = "waiting"
	EventAddPlayers   EventKind = "add_players"
	EventHandDealt    EventKind = "hand_dealt"
	EventPlay         EventKind = "play"
	EventChooseTrump  EventKind = "choose_trump"
	EventTurnCard     EventKind = "turn_card"
	EventHideCard     EventKind = "hide_card"
	EventOpenHideCard EventKind = "open_hide_card"
	EventTrickWon     EventKind = "round_complete"
	EventMindikot     EventKind = "mindikot"
	EventGameComplete EventKind = "game_complete"
)

// Event is a game event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // session IDs; empty means broadcast
}

type PlayerJoinedPayload struct {
	SessionID string `json:"sessionId"`
	Name      string `json:"name"`
	Seat      int    `json:"seat"`
	IsBot     bool   `json:"isBot"`
}

type WaitingPayload struct {
	Seated   int `json:"seated"`
	Capacity int `json:"capacity"`
}

type HandDealtPayload struct {
	SessionID string        `json:"sessionId"`
	Hand      []domain.Card `json:"hand"`
}

// TurnPayload names the seat expected to act next, for both the play and
// the choose-trump prompts.
type TurnPayload struct {
	SessionID string `json:"sessionId"`
	Seat      int    `json:"seat"`
}

type TurnCardPayload struct {
	Card domain.Card `json:"card"`
}

// HideCardPayload carries the concealed trump card. The original server
// broadcast the full card to every client and relied on them to keep it
// face down; the payload keeps that shape.
type HideCardPayload struct {
	Card domain.Card `json:"card"`
}

type OpenHideCardPayload struct {
	SessionID string      `json:"sessionId"`
	Card      domain.Card `json:"card"`
}

// TrickWonPayload reports one resolved trick.
type TrickWonPayload struct {
	WinnerSessionID string `json:"winnerSessionId"`
	WinnerSeat      int    `json:"winnerSeat"`
	Mindis          int    `json:"mindis"`
	TricksCompleted int    `json:"tricksCompleted"`
}

type GameCompletePayload struct {
	WinnerSessionID string `json:"winnerSessionId"`
	Team            int    `json:"team"`
	Mindikot        bool   `json:"mindikot"`
	TeamTricks      [2]int `json:"teamTricks"`
	TeamMindis      [2]int `json:"teamMindis"`
}
