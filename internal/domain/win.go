package domain

// Outcome is the result of evaluating the win ladder after a trick.
type Outcome struct {
	Decided bool
	Team    int
	// Mindikot marks a shutout: the winning team captured every point card.
	Mindikot bool
}

// minTricksForHalfWin is the trick count a team stuck at exactly half the
// point cards needs to claim the match.
const minTricksForHalfWin = 7

// EvaluateWin walks the win ladder after every trick resolution. The first
// matching row decides the match; if no row matches and the round has
// completed its 13 tricks, the higher point-card count (then the higher
// trick count) decides.
func EvaluateWin(g *Game) Outcome {
	a, b := g.Teams[0], g.Teams[1]
	total := g.TotalMindis()
	need := g.WinThreshold()
	half := total / 2

	switch {
	case a.Mindis >= need && b.Mindis > 0 && b.Mindis < need:
		return Outcome{Decided: true, Team: 0}
	case b.Mindis >= need && a.Mindis > 0 && a.Mindis < need:
		return Outcome{Decided: true, Team: 1}
	case a.Mindis == half && b.Mindis == half:
		if a.TricksWon > b.TricksWon {
			return Outcome{Decided: true, Team: 0}
		}
		if b.TricksWon > a.TricksWon {
			return Outcome{Decided: true, Team: 1}
		}
		// Equal tricks: not decided yet.
	case a.Mindis == half && b.Mindis != 0 && a.TricksWon >= minTricksForHalfWin:
		return Outcome{Decided: true, Team: 0}
	case b.Mindis == half && a.Mindis != 0 && b.TricksWon >= minTricksForHalfWin:
		return Outcome{Decided: true, Team: 1}
	case a.Mindis == total && b.Mindis == 0:
		return Outcome{Decided: true, Team: 0, Mindikot: true}
	case b.Mindis == total && a.Mindis == 0:
		return Outcome{Decided: true, Team: 1, Mindikot: true}
	}

	if g.TricksCompleted >= TricksPerRound {
		if a.Mindis != b.Mindis {
			if a.Mindis > b.Mindis {
				return Outcome{Decided: true, Team: 0}
			}
			return Outcome{Decided: true, Team: 1}
		}
		if a.TricksWon > b.TricksWon {
			return Outcome{Decided: true, Team: 0}
		}
		return Outcome{Decided: true, Team: 1}
	}

	return Outcome{}
}
