package bot

import (
	"mindikot/internal/domain"
)

func (c *turnCtx) seatOf(sessionID string) int {
	if p, ok := c.game.Players[sessionID]; ok {
		return p.Seat
	}
	return -1
}

// partnerWinning reports whether the trick's current winner is a teammate.
func (c *turnCtx) partnerWinning() bool {
	return len(c.trick) > 0 && domain.SamePair(c.seat, c.highSeat)
}

func (c *turnCtx) trickHasMindi() bool {
	return domain.TrickContainsMindi(c.trick)
}

// mindi returns a releasable point card: of the led suit when following,
// from anywhere otherwise.
func (c *turnCtx) mindi() (domain.Card, bool) {
	if c.follow {
		return c.hand.MindiOf(c.led)
	}
	return c.hand.AnyMindi()
}

// unbeatable reports whether the card tops everything still unplayed in its
// suit. Tricks already on the table have been removed from the tracker, so
// the comparison runs against cards still held in hands.
func (c *turnCtx) unbeatable(card domain.Card) bool {
	return card.Number > c.kb.Tracker.MaxOutstanding(card.Suit)
}

// pendingSeats lists the seats still to act this trick, in play order after
// this seat.
func (c *turnCtx) pendingSeats() []int {
	n := c.game.SeatCount()
	played := make(map[int]bool, len(c.trick)+1)
	for _, card := range c.trick {
		played[c.seatOf(card.Owner)] = true
	}
	played[c.seat] = true

	var pending []int
	for i := 1; i < n; i++ {
		s := (c.seat + i) % n
		if !played[s] {
			pending = append(pending, s)
		}
	}
	return pending
}

// enemyCutSeat returns a still-to-act opponent expected to trump the suit.
func (c *turnCtx) enemyCutSeat(suit domain.Suit) (int, bool) {
	for _, s := range c.pendingSeats() {
		if !domain.SamePair(c.seat, s) && c.kb.IsCut(s, suit, c.trump) {
			return s, true
		}
	}
	return -1, false
}

// partnerCutSeat returns a still-to-act teammate expected to trump the suit.
func (c *turnCtx) partnerCutSeat(suit domain.Suit) (int, bool) {
	for _, s := range c.pendingSeats() {
		if domain.SamePair(c.seat, s) && c.kb.IsCut(s, suit, c.trump) {
			return s, true
		}
	}
	return -1, false
}

// partnerCutWins reports whether a teammate will cut the suit with no
// opponent able to overcut afterwards. This is the lead heuristic behind
// feeding a partner's void; it covers both the four and six seat tables by
// walking the actual play order instead of special-casing table sizes.
func (c *turnCtx) partnerCutWins(suit domain.Suit) bool {
	pending := c.pendingSeats()
	for i, s := range pending {
		if !domain.SamePair(c.seat, s) || !c.kb.IsCut(s, suit, c.trump) {
			continue
		}
		safe := true
		for _, later := range pending[i+1:] {
			if !domain.SamePair(c.seat, later) && c.kb.IsCut(later, suit, c.trump) {
				safe = false
				break
			}
		}
		if safe {
			return true
		}
	}
	return false
}

// partnerCutLead returns a held non-trump suit a teammate will win by
// cutting.
func (c *turnCtx) partnerCutLead() (domain.Suit, bool) {
	for _, s := range domain.Suits {
		if s == c.trump || !c.hand.Has(s) {
			continue
		}
		if c.partnerCutWins(s) {
			return s, true
		}
	}
	return "", false
}

// enemyNotCutLead returns a held non-trump suit no opponent is expected to
// trump.
func (c *turnCtx) enemyNotCutLead() (domain.Suit, bool) {
	for _, s := range domain.Suits {
		if s == c.trump || !c.hand.Has(s) {
			continue
		}
		if _, cut := c.enemyCutSeat(s); !cut {
			return s, true
		}
	}
	return "", false
}

// partnerLowSuit returns a held suit a still-to-act teammate opened the
// match leading, signalling length there.
func (c *turnCtx) partnerLowSuit() (domain.Suit, bool) {
	for _, s := range c.pendingSeats() {
		if !domain.SamePair(c.seat, s) {
			continue
		}
		if suit, ok := c.kb.LowSuit(s); ok && c.hand.Has(suit) {
			return suit, true
		}
	}
	return "", false
}

// isEnemyLowSuit reports whether any opponent opened the match leading the
// suit.
func (c *turnCtx) isEnemyLowSuit(suit domain.Suit) bool {
	for i := 0; i < c.game.SeatCount(); i++ {
		if domain.SamePair(c.seat, i) {
			continue
		}
		if s, ok := c.kb.LowSuit(i); ok && s == suit {
			return true
		}
	}
	return false
}

// shortestSuit returns the held suit with fewest cards, preferring suits
// that are neither trump nor all point cards. Successive passes relax those
// requirements so the scan never comes back empty for a non-empty hand.
func shortestSuit(h domain.Hand, trump domain.Suit) (domain.Suit, bool) {
	type filter func(s domain.Suit) bool
	passes := []filter{
		func(s domain.Suit) bool { return s != trump && !h.AllMindi(s) },
		func(s domain.Suit) bool { return s != trump },
		func(s domain.Suit) bool { return true },
	}
	for _, keep := range passes {
		best := domain.Suit("")
		min := domain.TricksPerRound + 1
		for _, s := range domain.Suits {
			if n := len(h[s]); n > 0 && n < min && keep(s) {
				min = n
				best = s
			}
		}
		if best != "" {
			return best, true
		}
	}
	return "", false
}

// shortestSuitAvoiding works like shortestSuit but skips suits failing the
// extra predicate on the first pass only.
func shortestSuitAvoiding(h domain.Hand, trump domain.Suit, avoid func(domain.Suit) bool) (domain.Suit, bool) {
	best := domain.Suit("")
	min := domain.TricksPerRound + 1
	for _, s := range domain.Suits {
		if n := len(h[s]); n > 0 && n < min && s != trump && !avoid(s) {
			min = n
			best = s
		}
	}
	if best != "" {
		return best, true
	}
	return shortestSuit(h, trump)
}

// lowestNotMindi scans the whole hand for the cheapest discard: lowest
// non-point card outside trump, falling back to trump, never a point card.
func lowestNotMindi(h domain.Hand, trump domain.Suit) (domain.Card, bool) {
	var best domain.Card
	found := false
	for _, s := range domain.Suits {
		if s == trump {
			continue
		}
		if c, ok := h.MinNotMindiOf(s); ok {
			if !found || c.Number < best.Number {
				best = c
				found = true
			}
		}
	}
	if found {
		return best, true
	}
	if trump != "" {
		if c, ok := h.MinNotMindiOf(trump); ok {
			return c, true
		}
	}
	return domain.Card{}, false
}

// aboveMindi returns the cheapest card of the suit ranked strictly above the
// point card, used to win tricks a point card could otherwise take.
func aboveMindi(h domain.Hand, suit domain.Suit) (domain.Card, bool) {
	return h.MinAtLeast(suit, domain.MindiNumber+1)
}
