package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/tui-starwars/internal/brains"
	"github.com/vovakirdan/tui-starwars/internal/config"
	"github.com/vovakirdan/tui-starwars/internal/match"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "nested", "ledger.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "dir", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if store.Dialect() != DialectSQLite {
		t.Errorf("Dialect() = %s, expected sqlite", store.Dialect())
	}
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
	if err := store.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}

	// Migrations are idempotent.
	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	store.Close()
}

func TestHomeExpansion(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := Open("~/.starwars/ledger.db")
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()
	if _, err := os.Stat(filepath.Join(home, ".starwars", "ledger.db")); err != nil {
		t.Errorf("expected the database under HOME: %v", err)
	}
}

func TestSaveAndQueryMatches(t *testing.T) {
	store := openTestStore(t)

	first := MatchRecord{Seed: 1, Ticks: 500, Deaths: 3, Pilots: []PilotResult{
		{Name: "Hunter", Brain: "hunter", Rank: 1, Score: 4, Hits: 2},
		{Name: "Twister", Brain: "twister", Rank: 2, Score: -1, Deaths: 1},
	}}
	second := MatchRecord{Seed: 2, Preset: "brawl", Ticks: 900, Pilots: []PilotResult{
		{Name: "Twister", Brain: "twister", Rank: 1, Score: 3, Bashes: 1},
		{Name: "Hunter", Brain: "hunter", Rank: 1, Score: 3},
	}}

	firstID, err := store.SaveMatch(first)
	if err != nil {
		t.Fatalf("SaveMatch() failed: %v", err)
	}
	secondID, err := store.SaveMatch(second)
	if err != nil {
		t.Fatalf("SaveMatch() failed: %v", err)
	}
	if secondID <= firstID {
		t.Errorf("ids not increasing: %d then %d", firstID, secondID)
	}

	recent, err := store.RecentMatches(10)
	if err != nil {
		t.Fatalf("RecentMatches() failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Expected 2 matches, got %d", len(recent))
	}
	if recent[0].ID != secondID || recent[0].Preset != "brawl" || recent[0].Winner != "" {
		t.Errorf("newest match = %+v, expected the tied brawl", recent[0])
	}
	if recent[1].Preset != "classic" || recent[1].Winner != "Hunter" || recent[1].Ticks != 500 {
		t.Errorf("oldest match = %+v", recent[1])
	}
	if recent[1].CreatedAt.IsZero() {
		t.Error("created_at was not parsed")
	}

	standings, err := store.MatchStandings(firstID)
	if err != nil {
		t.Fatalf("MatchStandings() failed: %v", err)
	}
	if len(standings) != 2 || standings[0].Name != "Hunter" || standings[0].Hits != 2 {
		t.Errorf("standings = %+v", standings)
	}

	top, err := store.TopPilots(10)
	if err != nil {
		t.Fatalf("TopPilots() failed: %v", err)
	}
	expected := []PilotSummary{
		{Name: "Hunter", Matches: 2, Wins: 2, Score: 7, BestScore: 4, Hits: 2},
		{Name: "Twister", Matches: 2, Wins: 1, Score: 2, BestScore: 3, Bashes: 1, Deaths: 1},
	}
	if len(top) != len(expected) {
		t.Fatalf("TopPilots() = %+v", top)
	}
	for i := range expected {
		if top[i] != expected[i] {
			t.Errorf("TopPilots()[%d] = %+v, expected %+v", i, top[i], expected[i])
		}
	}

	stats, err := store.PilotStats("Twister")
	if err != nil || stats == nil || stats.Score != 2 {
		t.Errorf("PilotStats(Twister) = %+v, %v", stats, err)
	}
	if stats, err := store.PilotStats("Nobody"); err != nil || stats != nil {
		t.Errorf("PilotStats(Nobody) = %+v, %v; expected nil", stats, err)
	}
}

func TestNewMatchRecord(t *testing.T) {
	ids := []string{"twister", "idle"}
	fleet, err := brains.Fleet(ids)
	if err != nil {
		t.Fatal(err)
	}
	m, err := match.New(config.DefaultMatchConfig(), fleet, match.WithSeed(5))
	if err != nil {
		t.Fatal(err)
	}
	for range 100 {
		m.Tick()
	}

	rec := NewMatchRecord(m, "classic", ids)
	if rec.Seed != 5 || rec.Ticks != 100 || len(rec.Pilots) != 2 {
		t.Fatalf("record = %+v", rec)
	}
	for _, p := range rec.Pilots {
		if (p.Name == "Twister" && p.Brain != "twister") || (p.Name == "Idle" && p.Brain != "idle") {
			t.Errorf("pilot %s mapped to brain %q", p.Name, p.Brain)
		}
	}

	store := openTestStore(t)
	id, err := store.SaveMatch(rec)
	if err != nil {
		t.Fatalf("SaveMatch() failed: %v", err)
	}
	got, err := store.MatchStandings(id)
	if err != nil || len(got) != 2 {
		t.Errorf("MatchStandings() = %+v, %v", got, err)
	}
}

func TestRebind(t *testing.T) {
	pg := &Store{dialect: DialectPostgres}
	if got := pg.rebind("a = ? AND b = ?"); got != "a = $1 AND b = $2" {
		t.Errorf("rebind() = %q", got)
	}
	lite := &Store{dialect: DialectSQLite}
	if got := lite.rebind("a = ?"); got != "a = ?" {
		t.Errorf("sqlite rebind() = %q", got)
	}
}
