package bot

// Leading before trump is about information: open from a short suit so a
// later void arrives quickly, and steer toward suits teammates signalled.
var leadBeforeTrump = []policy{
	leadPartnerSignalledSuit,
	leadShortSuitAvoidingEnemies,
	leadShortestSuit,
}

// Leading after trump weighs known voids: feed a teammate's cut, avoid
// suits an opponent will trump, otherwise exit cheaply.
var leadAfterTrump = []policy{
	leadIntoPartnerCut,
	leadEnemySafeSuit,
	leadCheapestExit,
	leadFromTrump,
}

// leadPartnerSignalledSuit leads a suit a teammate opened the match with.
// Only applies once at least one trick has shown signals.
func leadPartnerSignalledSuit(e *Engine, c *turnCtx) (Decision, bool) {
	if c.game.RoundsCompleted == 0 && c.game.TricksCompleted == 0 {
		return Decision{}, false
	}
	suit, ok := c.partnerLowSuit()
	if !ok {
		return Decision{}, false
	}
	card, ok := c.hand.MinNotMindiOf(suit)
	if !ok {
		return Decision{}, false
	}
	return Decision{Card: card}, true
}

// leadShortSuitAvoidingEnemies exits from the shortest suit no opponent
// signalled length in.
func leadShortSuitAvoidingEnemies(e *Engine, c *turnCtx) (Decision, bool) {
	if c.game.RoundsCompleted == 0 && c.game.TricksCompleted == 0 {
		return Decision{}, false
	}
	suit, ok := shortestSuitAvoiding(c.hand, c.trump, c.isEnemyLowSuit)
	if !ok {
		return Decision{}, false
	}
	card, ok := c.hand.MinNotMindiOf(suit)
	if !ok {
		return Decision{}, false
	}
	return Decision{Card: card}, true
}

// leadShortestSuit is the opening lead: lowest non-point card of the
// shortest held suit.
func leadShortestSuit(e *Engine, c *turnCtx) (Decision, bool) {
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

// leadIntoPartnerCut leads a suit a teammate will trump uncontested.
func leadIntoPartnerCut(e *Engine, c *turnCtx) (Decision, bool) {
	suit, ok := c.partnerCutLead()
	if !ok {
		return Decision{}, false
	}
	card, ok := c.hand.MinNotMindiOf(suit)
	if !ok {
		return Decision{}, false
	}
	return Decision{Card: card}, true
}

// leadEnemySafeSuit leads a suit no opponent is expected to trump.
func leadEnemySafeSuit(e *Engine, c *turnCtx) (Decision, bool) {
	suit, ok := c.enemyNotCutLead()
	if !ok {
		return Decision{}, false
	}
	card, ok := c.hand.MinNotMindiOf(suit)
	if !ok {
		return Decision{}, false
	}
	return Decision{Card: card}, true
}

// leadCheapestExit falls back to the shortest non-trump suit.
func leadCheapestExit(e *Engine, c *turnCtx) (Decision, bool) {
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

// leadFromTrump leads trump when nothing else is left.
func leadFromTrump(e *Engine, c *turnCtx) (Decision, bool) {
	if c.trump == "" || !c.hand.Has(c.trump) {
		return Decision{}, false
	}
	card, ok := c.hand.MinNotMindiOf(c.trump)
	if !ok {
		return Decision{}, false
	}
	return Decision{Card: card}, true
}
