package brain

import (
	"testing"

	"mindikot/internal/domain"
)

func TestTrackerMaxOutstanding(t *testing.T) {
	tr := NewTracker()
	deck, err := domain.NewDeck(1, false)
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range deck {
		tr.Register(c)
	}

	if got := tr.MaxOutstanding(domain.Heart); got != domain.MaxNumber {
		t.Fatalf("fresh deck MaxOutstanding = %d, expected %d", got, domain.MaxNumber)
	}

	// Play both top hearts; the maximum must only ever come down.
	prev := tr.MaxOutstanding(domain.Heart)
	tr.Remove(domain.NewCard(13, domain.Heart))
	for _, want := range []int{12, 11} {
		got := tr.MaxOutstanding(domain.Heart)
		if got > prev {
			t.Fatalf("MaxOutstanding went up: %d -> %d", prev, got)
		}
		if got != want {
			t.Fatalf("MaxOutstanding = %d, expected %d", got, want)
		}
		prev = got
		tr.Remove(domain.NewCard(got, domain.Heart))
	}
}

func TestTrackerDuplicateCopies(t *testing.T) {
	tr := NewTracker()
	deck, err := domain.NewDeck(2, false)
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range deck {
		tr.Register(c)
	}

	ace := domain.NewCard(13, domain.Spade)
	if got := tr.Outstanding(domain.Spade, 13); got != 2 {
		t.Fatalf("expected 2 copies outstanding, got %d", got)
	}
	tr.Remove(ace)
	if got := tr.MaxOutstanding(domain.Spade); got != 13 {
		t.Fatalf("one copy left, MaxOutstanding = %d, expected 13", got)
	}
	tr.Remove(ace)
	if got := tr.MaxOutstanding(domain.Spade); got != 12 {
		t.Fatalf("both copies gone, MaxOutstanding = %d, expected 12", got)
	}
}

func TestTrackerReset(t *testing.T) {
	tr := NewTracker()
	tr.Register(domain.NewCard(9, domain.Club))
	tr.Reset()
	if got := tr.MaxOutstanding(domain.Club); got != 0 {
		t.Errorf("after reset MaxOutstanding = %d, expected 0", got)
	}
	if got := tr.SuitRemaining(domain.Club); got != 0 {
		t.Errorf("after reset SuitRemaining = %d, expected 0", got)
	}
}
