package match

import (
	"testing"

	"github.com/vovakirdan/tui-starwars/internal/core"
)

func TestBoardStandings(t *testing.T) {
	b := NewBoard()
	for _, name := range []string{"Hunter", "Twister", "Snake", "Idle"} {
		b.Add(name, core.ColorRed, core.ColorWhite)
	}
	b.Add("Hunter", core.ColorCyan, core.ColorCyan)
	b.AddScore("Twister", 3)
	b.AddScore("Snake", 3)
	b.AddScore("Idle", -1)
	b.AddScore("Ghost", 10)
	b.count("Twister", statHit)
	b.count("Ghost", statHit)

	expected := []struct {
		rank  int
		name  string
		score int
	}{
		{1, "Twister", 3},
		{1, "Snake", 3},
		{3, "Hunter", 0},
		{4, "Idle", -1},
	}

	got := b.Standings()
	if len(got) != len(expected) || b.Len() != len(expected) {
		t.Fatalf("got %d standings, expected %d", len(got), len(expected))
	}
	for i, e := range expected {
		if got[i].Rank != e.rank || got[i].Name != e.name || got[i].Score != e.score {
			t.Errorf("row %d = %d %s %d, expected %d %s %d",
				i, got[i].Rank, got[i].Name, got[i].Score, e.rank, e.name, e.score)
		}
	}
	if got[0].Hits != 1 {
		t.Errorf("Twister hits = %d, expected 1", got[0].Hits)
	}
	if got[2].Primary != core.ColorRed {
		t.Errorf("re-adding Hunter replaced its colors: %v", got[2].Primary)
	}
	if b.Score("Ghost") != 0 {
		t.Error("unknown pilot gained score")
	}
}
