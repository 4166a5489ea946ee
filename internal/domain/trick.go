package domain

// HighCard resolves the winning card of a trick, in strict priority order:
// a joker wins outright, else the highest trump once trump is revealed, else
// the highest card of the led suit. Equal-number ties resolve toward the
// later-played card.
func HighCard(trick []Card, jokerEnabled, trumpActive bool, trump Suit) Card {
	if jokerEnabled {
		var joker *Card
		for i := range trick {
			if trick[i].IsJoker() {
				joker = &trick[i]
			}
		}
		if joker != nil {
			return *joker
		}
	}

	if trumpActive {
		high := -1
		var winner *Card
		for i := range trick {
			if trick[i].Suit == trump && trick[i].Number >= high {
				high = trick[i].Number
				winner = &trick[i]
			}
		}
		if winner != nil {
			return *winner
		}
	}

	winner := trick[0]
	for _, c := range trick[1:] {
		if c.Suit == winner.Suit && c.Number >= winner.Number {
			winner = c
		}
	}
	return winner
}

// TrickContainsMindi reports whether any point card has been played this
// trick.
func TrickContainsMindi(trick []Card) bool {
	for _, c := range trick {
		if c.IsMindi() {
			return true
		}
	}
	return false
}
