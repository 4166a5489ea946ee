package domain

// Hand groups a seat's cards by suit, each suit kept in deal order.
type Hand map[Suit][]Card

// NewHand returns an empty hand.
func NewHand() Hand {
	return make(Hand)
}

// Add appends a card to its suit group.
func (h Hand) Add(c Card) {
	h[c.Suit] = append(h[c.Suit], c)
}

// Remove deletes the first card matching number and suit. It reports whether
// a card was removed.
func (h Hand) Remove(c Card) bool {
	cards := h[c.Suit]
	for i := range cards {
		if cards[i].Same(c) {
			h[c.Suit] = append(cards[:i:i], cards[i+1:]...)
			return true
		}
	}
	return false
}

// Has reports whether the hand holds at least one card of the suit.
func (h Hand) Has(suit Suit) bool {
	return len(h[suit]) > 0
}

// Size returns the total number of cards held.
func (h Hand) Size() int {
	n := 0
	for _, cards := range h {
		n += len(cards)
	}
	return n
}

// Cards returns every held card, grouped by suit in construction order with
// jokers last.
func (h Hand) Cards() []Card {
	out := make([]Card, 0, h.Size())
	for _, s := range Suits {
		out = append(out, h[s]...)
	}
	out = append(out, h[SuitJoker]...)
	return out
}

// MinOf returns the lowest card of the suit.
func (h Hand) MinOf(suit Suit) (Card, bool) {
	cards := h[suit]
	if len(cards) == 0 {
		return Card{}, false
	}
	min := cards[0]
	for _, c := range cards[1:] {
		if c.Number < min.Number {
			min = c
		}
	}
	return min, true
}

// MaxOf returns the highest card of the suit.
func (h Hand) MaxOf(suit Suit) (Card, bool) {
	cards := h[suit]
	if len(cards) == 0 {
		return Card{}, false
	}
	max := cards[0]
	for _, c := range cards[1:] {
		if c.Number > max.Number {
			max = c
		}
	}
	return max, true
}

// MinNotMindiOf returns the lowest non-point card of the suit.
func (h Hand) MinNotMindiOf(suit Suit) (Card, bool) {
	var min Card
	found := false
	for _, c := range h[suit] {
		if c.IsMindi() {
			continue
		}
		if !found || c.Number < min.Number {
			min = c
			found = true
		}
	}
	return min, found
}

// MinAtLeast returns the lowest card of the suit with number >= n: the
// cheapest card sufficient to overtake a card of that number.
func (h Hand) MinAtLeast(suit Suit, n int) (Card, bool) {
	var best Card
	found := false
	for _, c := range h[suit] {
		if c.Number < n {
			continue
		}
		if !found || c.Number < best.Number {
			best = c
			found = true
		}
	}
	return best, found
}

// MindiOf returns a point card of the suit, if held.
func (h Hand) MindiOf(suit Suit) (Card, bool) {
	for _, c := range h[suit] {
		if c.IsMindi() {
			return c, true
		}
	}
	return Card{}, false
}

// AnyMindi returns a point card from any playing suit, if held.
func (h Hand) AnyMindi() (Card, bool) {
	for _, s := range Suits {
		if c, ok := h.MindiOf(s); ok {
			return c, true
		}
	}
	return Card{}, false
}

// AllMindi reports whether every held card of the suit is a point card.
// An empty suit counts as all-mindi, matching its use as a lead filter.
func (h Hand) AllMindi(suit Suit) bool {
	for _, c := range h[suit] {
		if !c.IsMindi() {
			return false
		}
	}
	return true
}

// HasJoker reports whether the hand holds a joker.
func (h Hand) HasJoker() bool {
	return len(h[SuitJoker]) > 0
}
