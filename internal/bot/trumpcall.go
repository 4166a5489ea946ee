package bot

import (
	"mindikot/internal/domain"
)

// seedTrumpOnVoid fires the first time a seat cannot follow before trump is
// known. In katte mode the seat picks the trump suit on the spot; in hide
// mode it throws from the suit concealed at game start. In plain mode there
// is no trump to seed and later policies discard as usual.
func seedTrumpOnVoid(e *Engine, c *turnCtx) (Decision, bool) {
	if c.trumpActive || c.follow || len(c.trick) == 0 {
		return Decision{}, false
	}
	switch c.game.Config.TrumpMode {
	case domain.TrumpModeKatte:
		return e.chooseKatteTrump(c), true
	case domain.TrumpModeHide:
		return e.throwHideTrump(c)
	default:
		return Decision{}, false
	}
}

// chooseKatteTrump declares the seat's longest suit as trump. The point
// card of that suit is preferred when no opponent has shown a void there,
// banking the point behind trump protection.
func (e *Engine) chooseKatteTrump(c *turnCtx) Decision {
	suit := domain.Suits[0]
	max := 0
	for _, s := range domain.Suits {
		if n := len(c.hand[s]); n > max {
			max = n
			suit = s
		}
	}

	if !c.enemyVoidIn(suit) {
		if card, ok := c.hand.MindiOf(suit); ok {
			return Decision{Card: card, ClaimTrump: true}
		}
	}
	if card, ok := c.hand.MinOf(suit); ok {
		return Decision{Card: card, ClaimTrump: true}
	}
	// Hand holds only jokers; no suit to declare from.
	return Decision{Card: e.randomCard(c.hand), ClaimTrump: false}
}

// throwHideTrump activates the concealed trump by playing from its suit.
// A seat holding none of the concealed suit defers to ordinary discards and
// trump stays hidden.
func (e *Engine) throwHideTrump(c *turnCtx) (Decision, bool) {
	if c.trump == "" || !c.hand.Has(c.trump) {
		return Decision{}, false
	}
	if !c.enemyVoidIn(c.led) {
		if card, ok := c.hand.MindiOf(c.trump); ok {
			return Decision{Card: card, ClaimTrump: true}, true
		}
	}
	if card, ok := c.hand.MinOf(c.trump); ok {
		return Decision{Card: card, ClaimTrump: true}, true
	}
	return Decision{}, false
}

// enemyVoidIn reports whether any opponent still to act has shown a void in
// the suit.
func (c *turnCtx) enemyVoidIn(suit domain.Suit) bool {
	for _, s := range c.pendingSeats() {
		if !domain.SamePair(c.seat, s) && c.kb.IsVoid(s, suit) {
			return true
		}
	}
	return false
}
