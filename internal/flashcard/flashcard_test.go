package flashcard

import "testing"

const text = "Mitochondria produce energy for the cell. The nucleus stores DNA. Ribosomes build proteins."

func TestBuild_PicksContainingSentence(t *testing.T) {
	cards := Build(text, []string{"nucleus", "mitochondria"}, 5)
	if len(cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(cards))
	}
	if cards[0].Term != "nucleus" || cards[0].Definition != "The nucleus stores DNA." {
		t.Fatalf("unexpected first card %+v", cards[0])
	}
	if cards[1].Definition != "Mitochondria produce energy for the cell." {
		t.Fatalf("unexpected second card %+v", cards[1])
	}
}

func TestBuild_FallsBackToFirstSentence(t *testing.T) {
	cards := Build(text, []string{"photosynthesis"}, 5)
	if len(cards) != 1 || cards[0].Definition != "Mitochondria produce energy for the cell." {
		t.Fatalf("unexpected cards %+v", cards)
	}
}

func TestBuild_NoDuplicatesAndMax(t *testing.T) {
	cards := Build(text, []string{"dna", "dna", "proteins", "cell", "energy"}, 3)
	if len(cards) != 3 {
		t.Fatalf("expected 3 cards, got %d", len(cards))
	}
	seen := map[string]bool{}
	for _, c := range cards {
		if seen[c.Term] {
			t.Fatalf("duplicate term %q", c.Term)
		}
		seen[c.Term] = true
	}
}

func TestBuild_Empty(t *testing.T) {
	if got := Build("", nil, 5); len(got) != 0 {
		t.Fatalf("expected no cards, got %v", got)
	}
	if got := Build("", []string{"term"}, 5); len(got) != 0 {
		t.Fatalf("expected no cards for empty text, got %v", got)
	}
}
