package bot

import (
	"math/rand"

	"mindikot/internal/bot/brain"
	"mindikot/internal/domain"
)

// Decision is a bot's chosen play. ClaimTrump is set when the play doubles
// as the trump declaration: the katte pick, or the first throw from the
// concealed suit in hide mode.
type Decision struct {
	Card       domain.Card
	ClaimTrump bool
}

// Engine picks cards for bot-controlled seats. It consults the shared
// knowledge base but never mutates it; observation happens where cards are
// actually played.
type Engine struct {
	rng *rand.Rand
	kb  *brain.Knowledge
}

// NewEngine builds an engine over the match's knowledge base.
func NewEngine(rng *rand.Rand, kb *brain.Knowledge) *Engine {
	return &Engine{rng: rng, kb: kb}
}

// policy is one heuristic. It either commits to a decision or defers to the
// next policy in the cell.
type policy func(e *Engine, c *turnCtx) (Decision, bool)

// turnCtx gathers everything a policy needs about the current turn.
type turnCtx struct {
	game *domain.Game
	kb   *brain.Knowledge
	seat int
	hand domain.Hand

	trick  []domain.Card
	led    domain.Suit
	follow bool // seat holds a card of the led suit

	high     domain.Card // card currently winning the trick
	highSeat int

	trump       domain.Suit
	trumpActive bool
}

// ChooseCard returns the card the seat will play, and whether the play
// declares trump. It is total: some card from the seat's hand always comes
// back, legal with respect to suit-following.
func (e *Engine) ChooseCard(g *domain.Game, seat int) Decision {
	c := e.newTurnCtx(g, seat)

	for _, p := range e.cell(c) {
		if d, ok := p(e, c); ok && c.legal(d.Card) {
			return d
		}
	}
	return Decision{Card: e.fallback(c)}
}

// ChooseHideCard picks the concealed trump card at game start in hide mode.
// Any card works; its suit becomes the trump suit.
func (e *Engine) ChooseHideCard(g *domain.Game, seat int) domain.Card {
	p := g.PlayerAtSeat(seat)
	return e.randomCard(p.Hand)
}

func (e *Engine) newTurnCtx(g *domain.Game, seat int) *turnCtx {
	c := &turnCtx{
		game:        g,
		kb:          e.kb,
		seat:        seat,
		hand:        g.PlayerAtSeat(seat).Hand,
		trick:       g.Trick,
		trump:       g.Trump,
		trumpActive: g.TrumpActive,
	}
	if len(c.trick) > 0 {
		c.led = c.trick[0].Suit
		c.follow = c.led != domain.SuitJoker && c.hand.Has(c.led)
		c.high = domain.HighCard(c.trick, g.Config.JokerEnabled, g.TrumpActive, g.Trump)
		c.highSeat = c.seatOf(c.high.Owner)
	}
	return c
}

// cell selects the policy list for the turn's phase and trump state.
func (e *Engine) cell(c *turnCtx) []policy {
	switch {
	case len(c.trick) == 0:
		if c.trumpActive {
			return leadAfterTrump
		}
		return leadBeforeTrump
	case len(c.trick) == c.game.SeatCount()-1:
		if c.trumpActive {
			return lastAfterTrump
		}
		return lastBeforeTrump
	default:
		if c.trumpActive {
			return middleAfterTrump
		}
		return middleBeforeTrump
	}
}

// legal enforces suit-following on whatever a policy proposed.
func (c *turnCtx) legal(card domain.Card) bool {
	if card.Number == 0 && card.Suit == "" {
		return false
	}
	if c.follow && card.Suit != c.led {
		return false
	}
	return true
}

// fallback guarantees totality: lowest eligible non-point card, then any
// point card, then any random legal card.
func (e *Engine) fallback(c *turnCtx) domain.Card {
	if c.follow {
		if card, ok := c.hand.MinNotMindiOf(c.led); ok {
			return card
		}
		if card, ok := c.hand.MindiOf(c.led); ok {
			return card
		}
		cards := c.hand[c.led]
		return cards[e.rng.Intn(len(cards))]
	}

	if card, ok := lowestNotMindi(c.hand, c.trump); ok {
		return card
	}
	if card, ok := c.hand.AnyMindi(); ok {
		return card
	}
	return e.randomCard(c.hand)
}

// randomCard draws uniformly from the whole hand, jokers included.
func (e *Engine) randomCard(h domain.Hand) domain.Card {
	cards := h.Cards()
	return cards[e.rng.Intn(len(cards))]
}
