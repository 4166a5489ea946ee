package brain

import (
	"mindikot/internal/domain"
)

// Knowledge is the table-wide memory the bots draw on. It combines the
// outstanding-card tracker with per-seat observations: which suits a seat has
// shown itself void in, and the suit each seat first led. All of it derives
// from cards played face up, so a single instance serves the whole match.
type Knowledge struct {
	Tracker *Tracker

	voids    map[int]map[domain.Suit]bool
	lowSuits map[int]domain.Suit
}

// NewKnowledge returns an empty knowledge base.
func NewKnowledge() *Knowledge {
	k := &Knowledge{Tracker: NewTracker()}
	k.reset()
	return k
}

func (k *Knowledge) reset() {
	k.voids = make(map[int]map[domain.Suit]bool)
	k.lowSuits = make(map[int]domain.Suit)
}

// Reset clears everything for a new round.
func (k *Knowledge) Reset() {
	k.Tracker.Reset()
	k.reset()
}

// RegisterDeal feeds every dealt card into the tracker.
func (k *Knowledge) RegisterDeal(deck []domain.Card) {
	for _, c := range deck {
		k.Tracker.Register(c)
	}
}

// Observe records one play. ledSuit is the suit of the trick's first card;
// pass isLead true for that first card. A follower who breaks suit is marked
// void in the led suit, permanently for the round.
func (k *Knowledge) Observe(seat int, card domain.Card, ledSuit domain.Suit, isLead bool) {
	k.Tracker.Remove(card)
	if isLead {
		k.setLowSuit(seat, card.Suit)
		return
	}
	if card.Suit != ledSuit {
		k.MarkVoid(seat, ledSuit)
	}
}

// MarkVoid records that a seat holds no cards of the suit.
func (k *Knowledge) MarkVoid(seat int, suit domain.Suit) {
	if k.voids[seat] == nil {
		k.voids[seat] = make(map[domain.Suit]bool)
	}
	k.voids[seat][suit] = true
}

// IsVoid reports whether the seat is known to be out of the suit.
func (k *Knowledge) IsVoid(seat int, suit domain.Suit) bool {
	return k.voids[seat][suit]
}

// IsCut reports whether the seat can be expected to trump the suit: known
// void in it, but not known void in trump. Only meaningful once trump is
// active.
func (k *Knowledge) IsCut(seat int, suit domain.Suit, trump domain.Suit) bool {
	if suit == trump {
		return false
	}
	return k.IsVoid(seat, suit) && !k.IsVoid(seat, trump)
}

// setLowSuit remembers the first suit a seat led. Leading a suit usually
// means leading from length, so later plays treat it as the seat's safe suit.
// Only the first lead is kept.
func (k *Knowledge) setLowSuit(seat int, suit domain.Suit) {
	if _, ok := k.lowSuits[seat]; ok {
		return
	}
	if suit == domain.SuitJoker {
		return
	}
	k.lowSuits[seat] = suit
}

// LowSuit returns the suit the seat first led, if any.
func (k *Knowledge) LowSuit(seat int) (domain.Suit, bool) {
	s, ok := k.lowSuits[seat]
	return s, ok
}
