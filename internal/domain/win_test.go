package domain

import "testing"

func gameWithScores(deckCount int, a, b Team, tricksDone int) *Game {
	g, err := NewGame(MatchConfig{DeckCount: deckCount, TrumpMode: TrumpModeNone})
	if err != nil {
		panic(err)
	}
	g.Teams[0] = a
	g.Teams[1] = b
	g.TricksCompleted = tricksDone
	return g
}

func TestEvaluateWinLadder(t *testing.T) {
	tests := []struct {
		name      string
		deckCount int
		teamA     Team
		teamB     Team
		tricks    int
		decided   bool
		team      int
		mindikot  bool
	}{
		{
			name:      "majority with opponents non-zero",
			deckCount: 2, // 8 point cards, threshold 5
			teamA:     Team{Mindis: 5, TricksWon: 6},
			teamB:     Team{Mindis: 3, TricksWon: 4},
			tricks:    10,
			decided:   true, team: 0,
		},
		{
			name:      "majority for team B",
			deckCount: 2,
			teamA:     Team{Mindis: 2, TricksWon: 4},
			teamB:     Team{Mindis: 6, TricksWon: 6},
			tricks:    10,
			decided:   true, team: 1,
		},
		{
			name:      "shutout flagged as mindikot",
			deckCount: 2,
			teamA:     Team{Mindis: 8, TricksWon: 9},
			teamB:     Team{Mindis: 0, TricksWon: 2},
			tricks:    11,
			decided:   true, team: 0, mindikot: true,
		},
		{
			// Majority against a scoreless opponent is neither a majority
			// win (the opponent must hold at least one point card) nor a
			// shutout (which needs every point card); play continues.
			name:      "majority over scoreless opponents stays open",
			deckCount: 2,
			teamA:     Team{Mindis: 5, TricksWon: 6},
			teamB:     Team{Mindis: 0, TricksWon: 2},
			tricks:    8,
			decided:   false,
		},
		{
			name:      "even split decided by tricks",
			deckCount: 3, // 12 point cards
			teamA:     Team{Mindis: 6, TricksWon: 7},
			teamB:     Team{Mindis: 6, TricksWon: 6},
			tricks:    13,
			decided:   true, team: 0,
		},
		{
			name:      "even split with equal tricks stays open",
			deckCount: 2,
			teamA:     Team{Mindis: 4, TricksWon: 5},
			teamB:     Team{Mindis: 4, TricksWon: 5},
			tricks:    10,
			decided:   false,
		},
		{
			name:      "half the points with seven tricks wins",
			deckCount: 2,
			teamA:     Team{Mindis: 4, TricksWon: 7},
			teamB:     Team{Mindis: 3, TricksWon: 4},
			tricks:    11,
			decided:   true, team: 0,
		},
		{
			name:      "half the points without seven tricks stays open",
			deckCount: 2,
			teamA:     Team{Mindis: 4, TricksWon: 6},
			teamB:     Team{Mindis: 3, TricksWon: 5},
			tricks:    11,
			decided:   false,
		},
		{
			name:      "round end resolved by point cards",
			deckCount: 1,
			teamA:     Team{Mindis: 1, TricksWon: 6},
			teamB:     Team{Mindis: 3, TricksWon: 7},
			tricks:    13,
			decided:   true, team: 1,
		},
		{
			name:      "mid-round with no row matched stays open",
			deckCount: 1,
			teamA:     Team{Mindis: 1, TricksWon: 3},
			teamB:     Team{Mindis: 0, TricksWon: 2},
			tricks:    5,
			decided:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := gameWithScores(tt.deckCount, tt.teamA, tt.teamB, tt.tricks)
			out := EvaluateWin(g)
			if out.Decided != tt.decided {
				t.Fatalf("decided = %v, expected %v", out.Decided, tt.decided)
			}
			if !tt.decided {
				return
			}
			if out.Team != tt.team {
				t.Errorf("winning team = %d, expected %d", out.Team, tt.team)
			}
			if out.Mindikot != tt.mindikot {
				t.Errorf("mindikot = %v, expected %v", out.Mindikot, tt.mindikot)
			}
		})
	}
}

func TestWinThreshold(t *testing.T) {
	g := gameWithScores(2, Team{}, Team{}, 0)
	if g.TotalMindis() != 8 {
		t.Errorf("expected 8 point cards, got %d", g.TotalMindis())
	}
	if g.WinThreshold() != 5 {
		t.Errorf("expected threshold 5, got %d", g.WinThreshold())
	}
}
