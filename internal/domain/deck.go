package domain

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrUnsupportedDeckCount is returned for deck counts outside 1..4.
var ErrUnsupportedDeckCount = errors.New("unsupported deck count")

// SeatsForDeckCount returns the fixed table size for a deck count.
func SeatsForDeckCount(deckCount int) (int, error) {
	switch deckCount {
	case 1, 2:
		return 4, nil
	case 3:
		return 6, nil
	case 4:
		return 8, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedDeckCount, deckCount)
	}
}

// NewDeck builds the unshuffled Mindi-Kot deck for the configured deck count.
//
// The composition is deck-count specific rather than a straight multiple of a
// standard deck:
//
//	1 deck:  numbers 1..13 in all suits (52 cards); joker setting is ignored.
//	2 decks: half one carries 7..13, half two 8..13 (52); with jokers the
//	         earliest-built card is dropped and one joker prepended.
//	3 decks: construction one carries 7..13, two and three 8..13 (76); two
//	         jokers are appended, or without jokers an extra 7 of Heart and
//	         7 of Spade (78 either way).
//	4 decks: constructions one and two carry 7..13, three and four 8..13
//	         (104); with jokers the three earliest-built cards are dropped
//	         and three jokers prepended.
func NewDeck(deckCount int, jokerEnabled bool) ([]Card, error) {
	switch deckCount {
	case 1:
		return buildDeck(1, 1, false, jokerEnabled), nil
	case 2:
		return buildDeck(2, 7, true, jokerEnabled), nil
	case 3:
		return buildDeck(3, 7, false, jokerEnabled), nil
	case 4:
		return buildDeck(4, 7, true, jokerEnabled), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedDeckCount, deckCount)
	}
}

func buildDeck(decks, startNumber int, swapForJokers, jokerEnabled bool) []Card {
	var deck []Card

	start := startNumber
	for i := 0; i < decks; i++ {
		for _, suit := range Suits {
			for n := start; n <= MaxNumber; n++ {
				deck = append(deck, NewCard(n, suit))
			}
		}
		// The four-deck game keeps two full 7..13 constructions before
		// narrowing; every other multi-deck game narrows after the first.
		if decks != 4 || i >= 1 {
			start = 8
		}
	}

	if jokerEnabled {
		if swapForJokers {
			jokers := decks - 1
			deck = deck[jokers:]
			for i := 0; i < jokers; i++ {
				deck = append([]Card{NewJoker()}, deck...)
			}
		} else if decks == 3 {
			deck = append(deck, NewJoker(), NewJoker())
		}
	} else if decks == 3 {
		deck = append(deck, NewCard(7, Heart), NewCard(7, Spade))
	}

	return deck
}

// ShuffleDeck permutes the deck in place using the provided source of
// randomness. Any uniform permutation satisfies the deal contract.
func ShuffleDeck(rng *rand.Rand, deck []Card) {
	rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
}
