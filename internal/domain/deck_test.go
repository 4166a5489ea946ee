package domain

import (
	"math/rand"
	"testing"
)

func TestNewDeckComposition(t *testing.T) {
	tests := []struct {
		name      string
		deckCount int
		joker     bool
		size      int
		jokers    int
	}{
		{name: "1 deck", deckCount: 1, joker: false, size: 52, jokers: 0},
		{name: "1 deck joker ignored", deckCount: 1, joker: true, size: 52, jokers: 0},
		{name: "2 decks", deckCount: 2, joker: false, size: 52, jokers: 0},
		{name: "2 decks joker", deckCount: 2, joker: true, size: 52, jokers: 1},
		{name: "3 decks", deckCount: 3, joker: false, size: 78, jokers: 0},
		{name: "3 decks joker", deckCount: 3, joker: true, size: 78, jokers: 2},
		{name: "4 decks", deckCount: 4, joker: false, size: 104, jokers: 0},
		{name: "4 decks joker", deckCount: 4, joker: true, size: 104, jokers: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deck, err := NewDeck(tt.deckCount, tt.joker)
			if err != nil {
				t.Fatalf("NewDeck: %v", err)
			}
			if len(deck) != tt.size {
				t.Errorf("expected %d cards, got %d", tt.size, len(deck))
			}
			jokers := 0
			mindis := 0
			for _, c := range deck {
				if c.IsJoker() {
					jokers++
				}
				if c.IsMindi() {
					mindis++
				}
			}
			if jokers != tt.jokers {
				t.Errorf("expected %d jokers, got %d", tt.jokers, jokers)
			}
			if mindis != tt.deckCount*4 {
				t.Errorf("expected %d point cards, got %d", tt.deckCount*4, mindis)
			}
		})
	}
}

func TestNewDeckUnsupportedCount(t *testing.T) {
	for _, count := range []int{0, 5, -1} {
		if _, err := NewDeck(count, false); err == nil {
			t.Errorf("deckCount %d: expected error", count)
		}
	}
	if _, err := SeatsForDeckCount(7); err == nil {
		t.Errorf("expected error for 7 decks")
	}
}

func TestShuffleDeckIsPermutation(t *testing.T) {
	for deckCount := 1; deckCount <= 4; deckCount++ {
		for _, joker := range []bool{false, true} {
			canonical, err := NewDeck(deckCount, joker)
			if err != nil {
				t.Fatalf("NewDeck: %v", err)
			}
			shuffled, _ := NewDeck(deckCount, joker)
			ShuffleDeck(rand.New(rand.NewSource(42)), shuffled)

			if len(shuffled) != len(canonical) {
				t.Fatalf("shuffle changed deck size: %d != %d", len(shuffled), len(canonical))
			}
			if diff := multisetDiff(canonical, shuffled); diff != "" {
				t.Errorf("deckCount=%d joker=%v: shuffle is not a permutation: %s", deckCount, joker, diff)
			}
		}
	}
}

// multisetDiff returns a description of the first count mismatch between two
// card slices, or an empty string when they hold the same cards.
func multisetDiff(a, b []Card) string {
	counts := make(map[Card]int)
	for _, c := range a {
		counts[Card{Number: c.Number, Suit: c.Suit}]++
	}
	for _, c := range b {
		counts[Card{Number: c.Number, Suit: c.Suit}]--
	}
	for card, n := range counts {
		if n != 0 {
			return card.Face + " of " + string(card.Suit)
		}
	}
	return ""
}

func TestSeatsForDeckCount(t *testing.T) {
	tests := []struct {
		deckCount int
		seats     int
	}{
		{1, 4}, {2, 4}, {3, 6}, {4, 8},
	}
	for _, tt := range tests {
		seats, err := SeatsForDeckCount(tt.deckCount)
		if err != nil {
			t.Fatalf("SeatsForDeckCount(%d): %v", tt.deckCount, err)
		}
		if seats != tt.seats {
			t.Errorf("deckCount %d: expected %d seats, got %d", tt.deckCount, tt.seats, seats)
		}
	}
}
