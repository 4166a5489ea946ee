package bot

import (
	"mindikot/internal/domain"
)

// Last to act: the trick's outcome is fully known, so wins are taken with
// the cheapest sufficient card and point cards move freely onto tricks the
// team already owns.
var lastBeforeTrump = []policy{
	seedTrumpOnVoid,
	releaseMindiToPartner,
	winMindiTrickLast,
	takeCheapTrickWithMindi,
	winWithCheapestOvertake,
	followLow,
	discardShortSuit,
}

var lastAfterTrump = []policy{
	releaseMindiToPartner,
	overtrumpLowTrumpWithMindi,
	winMindiTrickLast,
	cutMindiTrickLast,
	playJokerOnMindiTrick,
	winWithCheapestOvertake,
	followLow,
	discardShortSuit,
}

// winnableLast reports whether the current winner can be beaten in its own
// suit from this hand.
func (c *turnCtx) winnableLast() (domain.Card, bool) {
	if c.high.IsJoker() {
		return domain.Card{}, false
	}
	if c.trumpActive && c.high.Suit == c.trump {
		if c.follow && c.led != c.trump {
			return domain.Card{}, false
		}
		return c.hand.MinAtLeast(c.trump, c.high.Number)
	}
	if !c.follow {
		return domain.Card{}, false
	}
	return c.hand.MinAtLeast(c.led, c.high.Number)
}

// winMindiTrickLast takes a trick carrying a point card with the cheapest
// winning card.
func winMindiTrickLast(e *Engine, c *turnCtx) (Decision, bool) {
	if c.partnerWinning() || !c.trickHasMindi() {
		return Decision{}, false
	}
	card, ok := c.winnableLast()
	if !ok {
		return Decision{}, false
	}
	return Decision{Card: card}, true
}

// takeCheapTrickWithMindi wins a trick sitting below the point card with a
// point card of the led suit. Safe in last position: nothing plays after.
func takeCheapTrickWithMindi(e *Engine, c *turnCtx) (Decision, bool) {
	if !c.follow || c.partnerWinning() {
		return Decision{}, false
	}
	if c.high.IsJoker() || c.high.Number >= domain.MindiNumber {
		return Decision{}, false
	}
	if c.trumpActive && c.high.Suit == c.trump && c.led != c.trump {
		return Decision{}, false
	}
	card, ok := c.hand.MindiOf(c.led)
	if !ok {
		return Decision{}, false
	}
	return Decision{Card: card}, true
}

// overtrumpLowTrumpWithMindi beats a sub-point trump with the trump point
// card, winning the trick and banking the point at once.
func overtrumpLowTrumpWithMindi(e *Engine, c *turnCtx) (Decision, bool) {
	if !c.trumpActive || c.follow || c.partnerWinning() {
		return Decision{}, false
	}
	if c.high.IsJoker() || c.high.Suit != c.trump || c.high.Number >= domain.MindiNumber {
		return Decision{}, false
	}
	card, ok := c.hand.MindiOf(c.trump)
	if !ok {
		return Decision{}, false
	}
	return Decision{Card: card}, true
}

// cutMindiTrickLast trumps a plain-suit trick carrying a point card,
// preferring the trump point card so the cut also scores.
func cutMindiTrickLast(e *Engine, c *turnCtx) (Decision, bool) {
	if !c.trumpActive || c.follow || c.partnerWinning() || !c.trickHasMindi() {
		return Decision{}, false
	}
	if c.high.IsJoker() || c.high.Suit == c.trump {
		return Decision{}, false
	}
	if card, ok := c.hand.MindiOf(c.trump); ok {
		return Decision{Card: card}, true
	}
	card, ok := c.hand.MinNotMindiOf(c.trump)
	if !ok {
		return Decision{}, false
	}
	return Decision{Card: card}, true
}

// winWithCheapestOvertake takes any winnable trick with the cheapest card
// that does it.
func winWithCheapestOvertake(e *Engine, c *turnCtx) (Decision, bool) {
	if c.partnerWinning() {
		return Decision{}, false
	}
	card, ok := c.winnableLast()
	if !ok {
		return Decision{}, false
	}
	if card.IsMindi() && c.trickHasMindi() {
		// Spending a point card to save a point card is a wash; prefer the
		// next card up if one exists.
		if higher, ok := c.hand.MinAtLeast(card.Suit, card.Number+1); ok {
			card = higher
		}
	}
	return Decision{Card: card}, true
}
