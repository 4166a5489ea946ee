package bot

import (
	"mindikot/internal/domain"
)

// Middle position before trump: the seat may become the trump setter on a
// void; otherwise fight the led suit and keep point cards covered.
var middleBeforeTrump = []policy{
	seedTrumpOnVoid,
	releaseMindiToPartner,
	overtakeAboveMindi,
	takeMindiTrickBySuit,
	winWithTopOfSuit,
	followLow,
	discardLowest,
}

// Middle position after trump adds trump economy: overtrump only what must
// be overtrumped, with the cheapest sufficient trump.
var middleAfterTrump = []policy{
	releaseMindiToPartner,
	releaseMindiToPartnerCut,
	takeMindiTrickBySuit,
	overtrumpMindiTrick,
	cutMindiTrick,
	playJokerOnMindiTrick,
	winWithTopOfSuit,
	overtakeAboveMindi,
	followLow,
	discardLowest,
}

// takeMindiTrickBySuit claims a trick carrying a point card when the seat's
// best led-suit card both beats the table and cannot be beaten by what is
// still out.
func takeMindiTrickBySuit(e *Engine, c *turnCtx) (Decision, bool) {
	if !c.follow || c.partnerWinning() || !c.trickHasMindi() {
		return Decision{}, false
	}
	if c.high.IsJoker() || (c.trumpActive && c.high.Suit == c.trump && c.led != c.trump) {
		return Decision{}, false
	}
	max, ok := c.hand.MaxOf(c.led)
	if !ok || max.Number < c.high.Number || !c.unbeatable(max) {
		return Decision{}, false
	}
	return Decision{Card: max}, true
}

// winWithTopOfSuit beats the table in the led suit when the seat's top card
// suffices, preferring the cheapest sufficient non-point card.
func winWithTopOfSuit(e *Engine, c *turnCtx) (Decision, bool) {
	if !c.follow || c.partnerWinning() {
		return Decision{}, false
	}
	if c.high.IsJoker() || (c.trumpActive && c.high.Suit == c.trump && c.led != c.trump) {
		return Decision{}, false
	}
	max, ok := c.hand.MaxOf(c.led)
	if !ok {
		return Decision{}, false
	}
	if max.Number < c.high.Number && !c.unbeatable(max) {
		return Decision{}, false
	}
	if card, ok := c.hand.MinAtLeast(c.led, c.high.Number); ok && !card.IsMindi() {
		return Decision{Card: card}, true
	}
	return Decision{Card: max}, true
}

// overtrumpMindiTrick overtrumps an opposing trump on a trick worth points,
// spending the cheapest trump that still wins.
func overtrumpMindiTrick(e *Engine, c *turnCtx) (Decision, bool) {
	if !c.trumpActive || c.follow || c.partnerWinning() || !c.trickHasMindi() {
		return Decision{}, false
	}
	if c.high.IsJoker() || c.high.Suit != c.trump {
		return Decision{}, false
	}
	card, ok := c.hand.MinAtLeast(c.trump, c.high.Number)
	if !ok {
		return Decision{}, false
	}
	return Decision{Card: card}, true
}

// cutMindiTrick trumps a point-carrying trick won so far in a plain suit.
func cutMindiTrick(e *Engine, c *turnCtx) (Decision, bool) {
	if !c.trumpActive || c.follow || c.partnerWinning() || !c.trickHasMindi() {
		return Decision{}, false
	}
	if c.high.IsJoker() || c.high.Suit == c.trump {
		return Decision{}, false
	}
	card, ok := c.hand.MinNotMindiOf(c.trump)
	if !ok {
		return Decision{}, false
	}
	return Decision{Card: card}, true
}

// playJokerOnMindiTrick spends the reserved joker on a point-carrying trick
// nothing else can take.
func playJokerOnMindiTrick(e *Engine, c *turnCtx) (Decision, bool) {
	if c.follow || c.partnerWinning() || !c.trickHasMindi() {
		return Decision{}, false
	}
	if !c.game.Config.JokerEnabled || !c.hand.HasJoker() {
		return Decision{}, false
	}
	return Decision{Card: c.hand[domain.SuitJoker][0]}, true
}
