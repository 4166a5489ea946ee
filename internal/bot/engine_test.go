package bot

import (
	"fmt"
	"math/rand"
	"testing"

	"mindikot/internal/bot/brain"
	"mindikot/internal/domain"
)

func testGame(t *testing.T, cfg domain.MatchConfig) *domain.Game {
	t.Helper()
	g, err := domain.NewGame(cfg)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < g.SeatCount(); i++ {
		id := fmt.Sprintf("seat-%d", i)
		g.Players[id] = &domain.Player{SessionID: id, Name: id, Seat: i, Hand: domain.NewHand()}
		g.Seats[i] = id
	}
	g.Phase = domain.PhasePlaying
	return g
}

func give(g *domain.Game, seat int, cards ...domain.Card) {
	p := g.PlayerAtSeat(seat)
	for _, c := range cards {
		c.Owner = p.SessionID
		p.Hand.Add(c)
	}
}

func dealAll(t *testing.T, g *domain.Game, kb *brain.Knowledge, rng *rand.Rand) {
	t.Helper()
	deck, err := domain.NewDeck(g.Config.DeckCount, g.Config.JokerEnabled)
	if err != nil {
		t.Fatal(err)
	}
	domain.ShuffleDeck(rng, deck)
	kb.RegisterDeal(deck)

	n := g.SeatCount()
	for pass := 0; pass < domain.TricksPerRound; pass++ {
		for s := 0; s < n; s++ {
			give(g, s, deck[pass*n+s])
		}
	}
}

// playRound drives a full 13-trick round with the engine choosing for every
// seat, verifying each choice is a held card that follows suit.
func playRound(t *testing.T, g *domain.Game, e *Engine, kb *brain.Knowledge) {
	t.Helper()
	n := g.SeatCount()
	leader := 0

	for trick := 0; trick < domain.TricksPerRound; trick++ {
		g.Trick = nil
		var led domain.Suit
		for i := 0; i < n; i++ {
			seat := (leader + i) % n
			hand := g.PlayerAtSeat(seat).Hand
			d := e.ChooseCard(g, seat)

			if i > 0 && led != domain.SuitJoker && hand.Has(led) && d.Card.Suit != led {
				t.Fatalf("trick %d seat %d broke suit: led %s, played %v",
					trick, seat, led, d.Card)
			}
			if !hand.Remove(d.Card) {
				t.Fatalf("trick %d seat %d chose a card it does not hold: %v",
					trick, seat, d.Card)
			}
			if d.ClaimTrump {
				if g.TrumpActive {
					t.Fatalf("trick %d seat %d claimed trump twice", trick, seat)
				}
				g.Trump = d.Card.Suit
				g.TrumpActive = true
			}
			if i == 0 {
				led = d.Card.Suit
			}

			kb.Observe(seat, d.Card, led, i == 0)
			g.Trick = append(g.Trick, d.Card)
		}

		winner := domain.HighCard(g.Trick, g.Config.JokerEnabled, g.TrumpActive, g.Trump)
		for _, p := range g.Players {
			if p.SessionID == winner.Owner {
				leader = p.Seat
			}
		}
		g.TricksCompleted++
	}

	for i := 0; i < n; i++ {
		if size := g.PlayerAtSeat(i).Hand.Size(); size != 0 {
			t.Fatalf("seat %d finished the round holding %d cards", i, size)
		}
	}
}

func TestEngineLegalityOverFullRounds(t *testing.T) {
	configs := []domain.MatchConfig{
		{DeckCount: 1, TrumpMode: domain.TrumpModeNone},
		{DeckCount: 2, JokerEnabled: true, TrumpMode: domain.TrumpModeKatte},
		{DeckCount: 2, TrumpMode: domain.TrumpModeKatte},
		{DeckCount: 3, JokerEnabled: true, TrumpMode: domain.TrumpModeNone},
		{DeckCount: 4, JokerEnabled: true, TrumpMode: domain.TrumpModeKatte},
	}

	for _, cfg := range configs {
		cfg := cfg
		name := fmt.Sprintf("decks=%d joker=%v mode=%s", cfg.DeckCount, cfg.JokerEnabled, cfg.TrumpMode)
		t.Run(name, func(t *testing.T) {
			for seed := int64(0); seed < 20; seed++ {
				rng := rand.New(rand.NewSource(seed))
				g := testGame(t, cfg)
				kb := brain.NewKnowledge()
				e := NewEngine(rng, kb)

				dealAll(t, g, kb, rng)
				playRound(t, g, e, kb)
			}
		})
	}
}

func TestEngineLegalityHideMode(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		g := testGame(t, domain.MatchConfig{DeckCount: 2, TrumpMode: domain.TrumpModeHide})
		kb := brain.NewKnowledge()
		e := NewEngine(rng, kb)

		dealAll(t, g, kb, rng)

		hidden := e.ChooseHideCard(g, 0)
		g.HiddenTrump = &hidden
		g.Trump = hidden.Suit

		playRound(t, g, e, kb)
	}
}

func TestChooseKatteTrumpLongestSuit(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	kb := brain.NewKnowledge()
	e := NewEngine(rng, kb)
	g := testGame(t, domain.MatchConfig{DeckCount: 1, TrumpMode: domain.TrumpModeKatte})

	give(g, 0, domain.NewCard(10, domain.Heart))
	give(g, 1,
		domain.NewCard(8, domain.Spade),
		domain.NewCard(9, domain.Spade),
		domain.NewCard(12, domain.Spade),
		domain.NewCard(11, domain.Club),
	)
	g.Trick = []domain.Card{pluck(g, 0, domain.NewCard(10, domain.Heart))}

	d := e.ChooseCard(g, 1)
	if !d.ClaimTrump {
		t.Fatal("void seat in katte mode must declare trump")
	}
	if d.Card.Suit != domain.Spade {
		t.Fatalf("expected declaration from the longest suit, got %v", d.Card)
	}
	if !d.Card.IsMindi() {
		t.Errorf("with no enemy voids the point card should carry the claim, got %v", d.Card)
	}
}

func TestHideThrowComesFromConcealedSuit(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	kb := brain.NewKnowledge()
	e := NewEngine(rng, kb)
	g := testGame(t, domain.MatchConfig{DeckCount: 1, TrumpMode: domain.TrumpModeHide})
	g.Trump = domain.Diamond // concealed at game start

	give(g, 0, domain.NewCard(10, domain.Heart))
	give(g, 1,
		domain.NewCard(8, domain.Diamond),
		domain.NewCard(12, domain.Club),
	)
	g.Trick = []domain.Card{pluck(g, 0, domain.NewCard(10, domain.Heart))}

	d := e.ChooseCard(g, 1)
	if !d.ClaimTrump {
		t.Fatal("void seat holding the concealed suit must activate trump")
	}
	if d.Card.Suit != domain.Diamond {
		t.Fatalf("the activating card must come from the concealed suit, got %v", d.Card)
	}
}

func TestMindiWithheldWhenCapturable(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	kb := brain.NewKnowledge()
	e := NewEngine(rng, kb)
	g := testGame(t, domain.MatchConfig{DeckCount: 1, TrumpMode: domain.TrumpModeNone})

	// An ace of hearts is still out, so the heart point card is not safe.
	kb.Tracker.Register(domain.NewCard(13, domain.Heart))

	give(g, 0, domain.NewCard(10, domain.Heart))
	give(g, 1,
		domain.NewCard(9, domain.Heart),
		domain.NewCard(7, domain.Heart),
	)
	g.Trick = []domain.Card{pluck(g, 0, domain.NewCard(10, domain.Heart))}

	d := e.ChooseCard(g, 1)
	if d.Card.IsMindi() {
		t.Fatalf("point card released into a losable trick: %v", d.Card)
	}
}

func TestMindiReleasedToSecurePartner(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	kb := brain.NewKnowledge()
	e := NewEngine(rng, kb)
	g := testGame(t, domain.MatchConfig{DeckCount: 1, TrumpMode: domain.TrumpModeNone})

	// Partner (seat 0) leads the ace; nothing outstanding beats it.
	give(g, 0, domain.NewCard(13, domain.Heart))
	give(g, 2,
		domain.NewCard(9, domain.Heart),
		domain.NewCard(7, domain.Heart),
	)
	g.Trick = []domain.Card{pluck(g, 0, domain.NewCard(13, domain.Heart))}

	d := e.ChooseCard(g, 2)
	if !d.Card.IsMindi() {
		t.Fatalf("point card should ride the partner's unbeatable ace, got %v", d.Card)
	}
}

// pluck removes a card from a seat's hand and returns it stamped with the
// seat's session id, simulating a play.
func pluck(g *domain.Game, seat int, c domain.Card) domain.Card {
	p := g.PlayerAtSeat(seat)
	p.Hand.Remove(c)
	c.Owner = p.SessionID
	return c
}
