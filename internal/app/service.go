package app

import (
	"errors"
	"math/rand"
	"time"

	"mindikot/internal/bot/brain"
	"mindikot/internal/domain"
)

// Service contains the Mindi-Kot use-cases operating on domain state. One
// Service lives per match; it owns the shared bot knowledge base and keeps
// it in sync with every play, human or bot.
type Service struct {
	rng *rand.Rand
	kb  *brain.Knowledge
}

// NewService constructs a Service with the provided rng or a time-seeded
// default.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng, kb: brain.NewKnowledge()}
}

// Knowledge exposes the match's bot knowledge base for the decision engine.
func (s *Service) Knowledge() *brain.Knowledge {
	return s.kb
}

var (
	ErrWrongPhase    = errors.New("operation not valid in current phase")
	ErrSeatsNotFull  = errors.New("not every seat is occupied")
	ErrUnknownPlayer = errors.New("player not found")
	ErrNotActiveSeat = errors.New("not the active seat")
	ErrCardNotHeld   = errors.New("card not in player's hand")
	ErrNotHideMode   = errors.New("match is not in hide mode")
	ErrTrumpKnown    = errors.New("trump already revealed")
)

// Seat places a player at the lowest free seat and reports fill progress.
func (s *Service) Seat(g *domain.Game, sessionID, name string, isBot bool) ([]Event, error) {
	if g.Phase != domain.PhaseWaiting {
		return nil, ErrWrongPhase
	}
	seat := -1
	for i, id := range g.Seats {
		if id == "" {
			seat = i
			break
		}
	}
	if seat == -1 {
		return nil, ErrSeatsNotFull
	}

	g.Seats[seat] = sessionID
	g.Players[sessionID] = &domain.Player{
		SessionID: sessionID,
		Name:      name,
		Seat:      seat,
		Hand:      domain.NewHand(),
	}

	events := []Event{{
		Kind:    EventPlayerJoined,
		Payload: PlayerJoinedPayload{SessionID: sessionID, Name: name, Seat: seat, IsBot: isBot},
	}}
	if s.Seated(g) == g.SeatCount() {
		events = append(events, Event{Kind: EventAddPlayers})
	} else {
		events = append(events, Event{
			Kind:       EventWaiting,
			Payload:    WaitingPayload{Seated: s.Seated(g), Capacity: g.SeatCount()},
			Recipients: []string{sessionID},
		})
	}
	return events, nil
}

// Seated counts occupied seats.
func (s *Service) Seated(g *domain.Game) int {
	n := 0
	for _, id := range g.Seats {
		if id != "" {
			n++
		}
	}
	return n
}

// Deal shuffles a fresh deck and deals round-robin, one card per seat per
// pass, 13 passes. Every dealt card lands in the ledger and the knowledge
// base.
func (s *Service) Deal(g *domain.Game) ([]Event, error) {
	if g.Phase != domain.PhaseWaiting {
		return nil, ErrWrongPhase
	}
	if s.Seated(g) != g.SeatCount() {
		return nil, ErrSeatsNotFull
	}

	deck, err := domain.NewDeck(g.Config.DeckCount, g.Config.JokerEnabled)
	if err != nil {
		return nil, err
	}
	domain.ShuffleDeck(s.rng, deck)

	n := g.SeatCount()
	idx := 0
	for pass := 0; pass < domain.TricksPerRound; pass++ {
		for seat := 0; seat < n; seat++ {
			card := deck[idx]
			idx++
			p := g.PlayerAtSeat(seat)
			card.Owner = p.SessionID
			p.Hand.Add(card)
			g.Ledger = append(g.Ledger, card)
			s.kb.Tracker.Register(card)
		}
	}

	g.Phase = domain.PhaseDealt

	events := make([]Event, 0, n)
	for seat := 0; seat < n; seat++ {
		p := g.PlayerAtSeat(seat)
		events = append(events, Event{
			Kind:       EventHandDealt,
			Payload:    HandDealtPayload{SessionID: p.SessionID, Hand: p.Hand.Cards()},
			Recipients: []string{p.SessionID},
		})
	}
	return events, nil
}

// Start opens play. In hide mode the opening seat must first choose the
// concealed trump card; otherwise seat 0 leads immediately.
func (s *Service) Start(g *domain.Game) ([]Event, error) {
	if g.Phase != domain.PhaseDealt {
		return nil, ErrWrongPhase
	}
	g.ActiveSeat = 0

	if g.Config.TrumpMode == domain.TrumpModeHide {
		g.Phase = domain.PhaseTrumpSelection
		return []Event{{
			Kind:    EventChooseTrump,
			Payload: TurnPayload{SessionID: g.Seats[0], Seat: 0},
		}}, nil
	}

	g.Phase = domain.PhasePlaying
	return []Event{{
		Kind:    EventPlay,
		Payload: TurnPayload{SessionID: g.Seats[0], Seat: 0},
	}}, nil
}

// PlayHideCard records the concealed trump chosen by the opening seat. The
// card stays in the seat's hand; only its suit matters until it is opened.
func (s *Service) PlayHideCard(g *domain.Game, sessionID string, card domain.Card) ([]Event, error) {
	if g.Config.TrumpMode != domain.TrumpModeHide {
		return nil, ErrNotHideMode
	}
	if g.Phase != domain.PhaseTrumpSelection {
		return nil, ErrWrongPhase
	}
	p, ok := g.Players[sessionID]
	if !ok {
		return nil, ErrUnknownPlayer
	}
	if p.Seat != g.ActiveSeat {
		return nil, ErrNotActiveSeat
	}
	held, ok := findInHand(p.Hand, card)
	if !ok {
		return nil, ErrCardNotHeld
	}

	g.HiddenTrump = &held
	g.Trump = held.Suit
	g.Phase = domain.PhasePlaying

	return []Event{
		{Kind: EventHideCard, Payload: HideCardPayload{Card: held}},
		{Kind: EventPlay, Payload: TurnPayload{SessionID: g.Seats[g.ActiveSeat], Seat: g.ActiveSeat}},
	}, nil
}

// OpenHideCard reveals the concealed trump, activating it for the rest of
// the match.
func (s *Service) OpenHideCard(g *domain.Game, sessionID string) ([]Event, error) {
	if g.Config.TrumpMode != domain.TrumpModeHide {
		return nil, ErrNotHideMode
	}
	if g.Phase != domain.PhasePlaying || g.HiddenTrump == nil {
		return nil, ErrWrongPhase
	}
	if g.TrumpActive {
		return nil, ErrTrumpKnown
	}
	if _, ok := g.Players[sessionID]; !ok {
		return nil, ErrUnknownPlayer
	}

	g.TrumpActive = true
	return []Event{{
		Kind:    EventOpenHideCard,
		Payload: OpenHideCardPayload{SessionID: sessionID, Card: *g.HiddenTrump},
	}}, nil
}

// PlayCard accepts a card from the active seat and appends it to the trick.
// Ownership and turn order are enforced; the trick is untouched on any
// error. Advancement to the next seat happens separately in Advance, after
// the pacing delay.
func (s *Service) PlayCard(g *domain.Game, sessionID string, card domain.Card, claimTrump bool) ([]Event, error) {
	if g.Phase != domain.PhasePlaying {
		return nil, ErrWrongPhase
	}
	p, ok := g.Players[sessionID]
	if !ok {
		return nil, ErrUnknownPlayer
	}
	if p.Seat != g.ActiveSeat {
		return nil, ErrNotActiveSeat
	}
	held, ok := findInHand(p.Hand, card)
	if !ok {
		return nil, ErrCardNotHeld
	}

	isLead := len(g.Trick) == 0
	led := held.Suit
	if !isLead {
		led = g.Trick[0].Suit
	}

	p.Hand.Remove(held)
	var events []Event
	if claimTrump && !g.TrumpActive {
		if g.Config.TrumpMode == domain.TrumpModeHide && g.HiddenTrump != nil {
			// The concealed card was the trump all along; claiming mid-play
			// opens it for everyone.
			g.TrumpActive = true
			held.IsTrump = held.Suit == g.Trump
			events = append(events, Event{
				Kind:    EventOpenHideCard,
				Payload: OpenHideCardPayload{SessionID: sessionID, Card: *g.HiddenTrump},
			})
		} else {
			g.Trump = held.Suit
			g.TrumpActive = true
			held.IsTrump = true
		}
	}
	if held.IsMindi() {
		g.TrickMindis++
	}
	s.kb.Observe(p.Seat, held, led, isLead)
	g.Trick = append(g.Trick, held)

	return append(events, Event{
		Kind:    EventTurnCard,
		Payload: TurnCardPayload{Card: held},
	}), nil
}

// Advance moves the match forward after a play: either hands the turn to
// the next seat, or resolves the completed trick, scores it, and runs the
// win ladder. Called once per play, after the pacing delay.
func (s *Service) Advance(g *domain.Game) ([]Event, error) {
	if g.Phase != domain.PhasePlaying {
		return nil, ErrWrongPhase
	}
	n := g.SeatCount()

	if len(g.Trick) < n {
		g.ActiveSeat = (g.ActiveSeat + 1) % n
		return []Event{{
			Kind:    EventPlay,
			Payload: TurnPayload{SessionID: g.Seats[g.ActiveSeat], Seat: g.ActiveSeat},
		}}, nil
	}

	winner := domain.HighCard(g.Trick, g.Config.JokerEnabled, g.TrumpActive, g.Trump)
	winnerSeat := g.Players[winner.Owner].Seat
	team := domain.TeamOfSeat(winnerSeat)
	g.Teams[team].TricksWon++
	g.Teams[team].Mindis += g.TrickMindis
	g.Trick = nil
	g.TrickMindis = 0
	g.TricksCompleted++
	g.ActiveSeat = winnerSeat

	events := []Event{{
		Kind: EventTrickWon,
		Payload: TrickWonPayload{
			WinnerSessionID: winner.Owner,
			WinnerSeat:      winnerSeat,
			Mindis:          g.Teams[team].Mindis,
			TricksCompleted: g.TricksCompleted,
		},
	}}

	if out := domain.EvaluateWin(g); out.Decided {
		g.Phase = domain.PhaseComplete
		g.RoundsCompleted++
		winnerID := s.teamLeader(g, out.Team)
		if out.Mindikot {
			events = append(events, Event{Kind: EventMindikot, Payload: GameCompletePayload{
				WinnerSessionID: winnerID,
				Team:            out.Team,
				Mindikot:        true,
			}})
		}
		events = append(events, Event{Kind: EventGameComplete, Payload: GameCompletePayload{
			WinnerSessionID: winnerID,
			Team:            out.Team,
			Mindikot:        out.Mindikot,
			TeamTricks:      [2]int{g.Teams[0].TricksWon, g.Teams[1].TricksWon},
			TeamMindis:      [2]int{g.Teams[0].Mindis, g.Teams[1].Mindis},
		}})
		return events, nil
	}

	events = append(events, Event{
		Kind:    EventPlay,
		Payload: TurnPayload{SessionID: g.Seats[g.ActiveSeat], Seat: g.ActiveSeat},
	})
	return events, nil
}

// Reset clears per-match state for a rematch, keeping seats and their
// occupants (bots included) in place.
func (s *Service) Reset(g *domain.Game) error {
	if g.Phase != domain.PhaseComplete {
		return ErrWrongPhase
	}
	for _, p := range g.Players {
		p.Hand = domain.NewHand()
	}
	g.Phase = domain.PhaseWaiting
	g.Teams = [2]domain.Team{}
	g.ActiveSeat = -1
	g.Trick = nil
	g.TrickMindis = 0
	g.TricksCompleted = 0
	g.Trump = ""
	g.TrumpActive = false
	g.HiddenTrump = nil
	g.Ledger = nil
	s.kb.Reset()
	return nil
}

// teamLeader returns the lowest-seated session of a team, the identifier
// the original server used to name a winning team.
func (s *Service) teamLeader(g *domain.Game, team int) string {
	for seat := team; seat < g.SeatCount(); seat += 2 {
		if id := g.Seats[seat]; id != "" {
			return id
		}
	}
	return ""
}

func findInHand(h domain.Hand, card domain.Card) (domain.Card, bool) {
	for _, c := range h[card.Suit] {
		if c.Same(card) {
			return c, true
		}
	}
	return domain.Card{}, false
}
