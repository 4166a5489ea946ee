package brain

import (
	"mindikot/internal/domain"
)

// Tracker counts, per suit, how many copies of each card number have not yet
// been played. It is shared by every bot at the table: it only ever learns
// from public information, so one instance per match is enough.
type Tracker struct {
	counts map[domain.Suit]map[int]int
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	t := &Tracker{}
	t.Reset()
	return t
}

// Reset drops everything tracked, ready for a fresh deal.
func (t *Tracker) Reset() {
	t.counts = make(map[domain.Suit]map[int]int)
}

// Register adds a dealt card to the outstanding pool. Called once per card
// when hands are dealt.
func (t *Tracker) Register(c domain.Card) {
	if t.counts[c.Suit] == nil {
		t.counts[c.Suit] = make(map[int]int)
	}
	t.counts[c.Suit][c.Number]++
}

// Remove takes a played card out of the outstanding pool.
func (t *Tracker) Remove(c domain.Card) {
	if t.counts[c.Suit] == nil {
		return
	}
	if t.counts[c.Suit][c.Number] > 0 {
		t.counts[c.Suit][c.Number]--
	}
}

// Outstanding returns how many copies of the given card are still unplayed.
func (t *Tracker) Outstanding(suit domain.Suit, number int) int {
	return t.counts[suit][number]
}

// MaxOutstanding returns the highest unplayed number in the suit, or 0 when
// the suit is exhausted. A card at or above this value cannot be beaten
// within the suit.
func (t *Tracker) MaxOutstanding(suit domain.Suit) int {
	max := 0
	for n, count := range t.counts[suit] {
		if count > 0 && n > max {
			max = n
		}
	}
	return max
}

// SuitRemaining returns the total number of unplayed cards in the suit.
func (t *Tracker) SuitRemaining(suit domain.Suit) int {
	total := 0
	for _, count := range t.counts[suit] {
		total += count
	}
	return total
}
