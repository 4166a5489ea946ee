package nakama

import (
	"mindikot/internal/domain"
)

// MatchLabel is the queryable label kept up to date on every seat change.
type MatchLabel struct {
	Open      int    `json:"open"`
	Game      string `json:"game"`
	Phase     string `json:"phase"`
	DeckCount int    `json:"deck_count"`
	TrumpMode string `json:"trump_mode"`
	Tier      string `json:"tier"`
}

// cardPayload is the wire shape of a single card in client messages.
type cardPayload struct {
	Number int    `json:"number"`
	Suit   string `json:"suit"`
}

func (c cardPayload) toDomain() domain.Card {
	if c.Number == domain.JokerNumber {
		return domain.NewJoker()
	}
	return domain.NewCard(c.Number, domain.Suit(c.Suit))
}

// turnMessage is the payload of an OpTurn client message.
type turnMessage struct {
	Card       cardPayload `json:"card"`
	ClaimTrump bool        `json:"claimTrump"`
}

// hideCardMessage is the payload of an OpHideCard client message.
type hideCardMessage struct {
	Card cardPayload `json:"card"`
}

// errorPayload is sent privately on a rejected client message.
type errorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// connStatePayload announces a seat losing or regaining its human occupant.
type connStatePayload struct {
	SessionID string `json:"sessionId"`
	Seat      int    `json:"seat"`
	Connected bool   `json:"connected"`
	BotActive bool   `json:"botActive"`
}
