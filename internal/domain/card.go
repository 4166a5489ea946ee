package domain

// Suit identifies one of the four playing suits, or the joker pseudo-suit.
type Suit string

const (
	Heart   Suit = "Heart"
	Spade   Suit = "Spade"
	Club    Suit = "Club"
	Diamond Suit = "Diamond"
	// SuitJoker is the pseudo-suit carried by joker cards only.
	SuitJoker Suit = "Joker"
)

// Suits lists the playing suits in construction order. Jokers are excluded.
var Suits = [4]Suit{Heart, Spade, Club, Diamond}

const (
	// JokerNumber is the number reserved for joker cards.
	JokerNumber = 0
	// MindiNumber is the point card ("mindi", face ten).
	MindiNumber = 9
	// MaxNumber is the highest card number (face ace).
	MaxNumber = 13
)

// faceNames maps card numbers to the display names clients render.
// Number 1 is the deuce and 13 the ace; 9 is the ten.
var faceNames = map[int]string{
	1: "2", 2: "3", 3: "4", 4: "5", 5: "6", 6: "7", 7: "8",
	8: "9", 9: "10", 10: "J", 11: "Q", 12: "K", 13: "A",
}

// Card is a single card in play. Owner is the session id of the seat the
// card was dealt to and IsTrump is set at most once, when the card is the
// play that activates trump.
type Card struct {
	Number  int
	Face    string
	Suit    Suit
	Owner   string
	IsTrump bool
}

// NewCard builds a playing card with its display face.
func NewCard(number int, suit Suit) Card {
	return Card{Number: number, Face: faceNames[number], Suit: suit}
}

// NewJoker builds a joker card.
func NewJoker() Card {
	return Card{Number: JokerNumber, Face: "0", Suit: SuitJoker}
}

// IsJoker reports whether the card is a joker.
func (c Card) IsJoker() bool {
	return c.Number == JokerNumber
}

// IsMindi reports whether the card is a point card.
func (c Card) IsMindi() bool {
	return c.Number == MindiNumber
}

// Same reports whether two cards are the same physical card face, ignoring
// ownership and the trump flag.
func (c Card) Same(o Card) bool {
	return c.Number == o.Number && c.Suit == o.Suit
}
