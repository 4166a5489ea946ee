package bot

import (
	"mindikot/internal/domain"
)

// partnerSecure reports whether the trick can safely be fed a point card: a
// teammate is winning and no later play is expected to take the trick back.
func (c *turnCtx) partnerSecure() bool {
	if !c.partnerWinning() {
		return false
	}
	if len(c.trick) == c.game.SeatCount()-1 {
		return true
	}
	return c.high.IsJoker() || c.unbeatable(c.high)
}

// releaseMindiToPartner feeds a point card into a trick the team has
// locked up.
func releaseMindiToPartner(e *Engine, c *turnCtx) (Decision, bool) {
	if !c.partnerSecure() {
		return Decision{}, false
	}
	card, ok := c.mindi()
	if !ok {
		return Decision{}, false
	}
	return Decision{Card: card}, true
}

// releaseMindiToPartnerCut feeds a point card off-suit when a teammate is
// expected to trump the trick uncontested.
func releaseMindiToPartnerCut(e *Engine, c *turnCtx) (Decision, bool) {
	if !c.trumpActive || c.partnerWinning() {
		return Decision{}, false
	}
	if !c.partnerCutWins(c.led) {
		return Decision{}, false
	}
	card, ok := c.mindi()
	if !ok {
		return Decision{}, false
	}
	return Decision{Card: card}, true
}

// followLow follows suit with the cheapest non-point card.
func followLow(e *Engine, c *turnCtx) (Decision, bool) {
	if !c.follow {
		return Decision{}, false
	}
	card, ok := c.hand.MinNotMindiOf(c.led)
	if !ok {
		return Decision{}, false
	}
	return Decision{Card: card}, true
}

// discardLowest sheds the cheapest non-point card when off suit.
func discardLowest(e *Engine, c *turnCtx) (Decision, bool) {
	if c.follow {
		return Decision{}, false
	}
	card, ok := lowestNotMindi(c.hand, c.trump)
	if !ok {
		return Decision{}, false
	}
	return Decision{Card: card}, true
}

// discardShortSuit sheds from the shortest safe suit, the preferred exit
// when last to act with nothing to win.
func discardShortSuit(e *Engine, c *turnCtx) (Decision, bool) {
	if c.follow {
		return Decision{}, false
	}
	suit, ok := shortestSuit(c.hand, c.trump)
	if !ok {
		return Decision{}, false
	}
	card, ok := c.hand.MinNotMindiOf(suit)
	if !ok {
		return Decision{}, false
	}
	return Decision{Card: card}, true
}

// overtakeAboveMindi wins a cheap trick with a card ranked over the point
// card, denying later point-card steals.
func overtakeAboveMindi(e *Engine, c *turnCtx) (Decision, bool) {
	if !c.follow || c.partnerWinning() {
		return Decision{}, false
	}
	if c.high.IsJoker() || c.high.Number >= domain.MindiNumber {
		return Decision{}, false
	}
	if c.trumpActive && c.high.Suit == c.trump && c.led != c.trump {
		return Decision{}, false
	}
	card, ok := aboveMindi(c.hand, c.led)
	if !ok {
		return Decision{}, false
	}
	return Decision{Card: card}, true
}
