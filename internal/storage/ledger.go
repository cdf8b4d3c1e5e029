package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/tui-starwars/internal/match"
)

// PilotResult is one pilot's final row in a match.
type PilotResult struct {
	Name   string
	Brain  string
	Rank   int
	Score  int
	Bashes int
	Hits   int
	Deaths int
	Faults int
}

// MatchRecord is a finished match.
type MatchRecord struct {
	ID        int64
	Seed      int64
	Preset    string
	Ticks     uint64
	Deaths    int
	Winner    string
	Pilots    []PilotResult
	CreatedAt time.Time
}

// PilotSummary aggregates a pilot's results over every saved match.
type PilotSummary struct {
	Name      string
	Matches   int
	Wins      int
	Score     int
	BestScore int
	Hits      int
	Bashes    int
	Deaths    int
}

// NewMatchRecord captures the standings of m. brains holds the brain id of
// each ship in registration order.
func NewMatchRecord(m *match.Match, preset string, brains []string) MatchRecord {
	brainOf := make(map[string]string)
	for i, ship := range m.Snapshot().Ships {
		if i < len(brains) {
			brainOf[ship.Name] = brains[i]
		}
	}

	rec := MatchRecord{
		Seed:   m.Seed(),
		Preset: preset,
		Ticks:  m.Ticks(),
		Deaths: m.Deaths(),
	}
	for _, st := range m.Standings() {
		rec.Pilots = append(rec.Pilots, PilotResult{
			Name:   st.Name,
			Brain:  brainOf[st.Name],
			Rank:   st.Rank,
			Score:  st.Score,
			Bashes: st.Bashes,
			Hits:   st.Hits,
			Deaths: st.Deaths,
			Faults: st.Faults,
		})
	}
	return rec
}

// winner is the sole rank-1 pilot, or empty on a tie.
func (r MatchRecord) winner() string {
	name := ""
	for _, p := range r.Pilots {
		if p.Rank != 1 {
			continue
		}
		if name != "" {
			return ""
		}
		name = p.Name
	}
	return name
}

// SaveMatch stores a match with its pilots and returns the match id.
func (s *Store) SaveMatch(rec MatchRecord) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	var winner sql.NullString
	if w := rec.winner(); w != "" {
		winner = sql.NullString{String: w, Valid: true}
	}
	if rec.Preset == "" {
		rec.Preset = "classic"
	}

	var id int64
	err = tx.QueryRow(
		s.rebind(`INSERT INTO matches (seed, preset, ticks, deaths, winner)
		 VALUES (?, ?, ?, ?, ?) RETURNING id`),
		rec.Seed, rec.Preset, int64(rec.Ticks), rec.Deaths, winner,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save match: %w", err)
	}

	stmt, err := tx.Prepare(s.rebind(
		`INSERT INTO pilots (match_id, name, brain, rank, score, bashes, hits, deaths, faults)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	))
	if err != nil {
		return 0, fmt.Errorf("storage: cannot prepare pilot insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range rec.Pilots {
		if _, err := stmt.Exec(id, p.Name, p.Brain, p.Rank, p.Score, p.Bashes, p.Hits, p.Deaths, p.Faults); err != nil {
			return 0, fmt.Errorf("storage: cannot save pilot %s: %w", p.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("storage: cannot commit match: %w", err)
	}
	return id, nil
}

// RecentMatches returns the latest matches, newest first, without pilots.
func (s *Store) RecentMatches(limit int) ([]MatchRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		s.rebind(`SELECT id, seed, preset, ticks, deaths, winner, created_at
		 FROM matches
		 ORDER BY id DESC
		 LIMIT ?`),
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query matches: %w", err)
	}
	defer rows.Close()

	var records []MatchRecord
	for rows.Next() {
		var (
			rec       MatchRecord
			ticks     int64
			winner    sql.NullString
			createdAt any
		)
		if err := rows.Scan(&rec.ID, &rec.Seed, &rec.Preset, &ticks, &rec.Deaths, &winner, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		rec.Ticks = uint64(ticks)
		rec.Winner = winner.String
		rec.CreatedAt = parseTime(createdAt)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return records, nil
}

// MatchStandings returns the pilots of one match ordered by rank.
func (s *Store) MatchStandings(matchID int64) ([]PilotResult, error) {
	rows, err := s.db.Query(
		s.rebind(`SELECT name, brain, rank, score, bashes, hits, deaths, faults
		 FROM pilots
		 WHERE match_id = ?
		 ORDER BY rank, id`),
		matchID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query standings: %w", err)
	}
	defer rows.Close()

	var pilots []PilotResult
	for rows.Next() {
		var p PilotResult
		if err := rows.Scan(&p.Name, &p.Brain, &p.Rank, &p.Score, &p.Bashes, &p.Hits, &p.Deaths, &p.Faults); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		pilots = append(pilots, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return pilots, nil
}

const summaryColumns = `name, COUNT(*), COALESCE(SUM(CASE WHEN rank = 1 THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(score), 0), COALESCE(MAX(score), 0),
		        COALESCE(SUM(hits), 0), COALESCE(SUM(bashes), 0), COALESCE(SUM(deaths), 0)`

func scanSummary(row interface{ Scan(...any) error }) (PilotSummary, error) {
	var p PilotSummary
	err := row.Scan(&p.Name, &p.Matches, &p.Wins, &p.Score, &p.BestScore, &p.Hits, &p.Bashes, &p.Deaths)
	return p, err
}

// TopPilots ranks pilots by total score across all matches.
func (s *Store) TopPilots(limit int) ([]PilotSummary, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		s.rebind(`SELECT `+summaryColumns+`
		 FROM pilots
		 GROUP BY name
		 ORDER BY SUM(score) DESC, name
		 LIMIT ?`),
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query pilots: %w", err)
	}
	defer rows.Close()

	var pilots []PilotSummary
	for rows.Next() {
		p, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		pilots = append(pilots, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return pilots, nil
}

// PilotStats returns one pilot's aggregate. It returns nil when the pilot
// never flew.
func (s *Store) PilotStats(name string) (*PilotSummary, error) {
	p, err := scanSummary(s.db.QueryRow(
		s.rebind(`SELECT `+summaryColumns+`
		 FROM pilots
		 WHERE name = ?
		 GROUP BY name`),
		name,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query pilot stats: %w", err)
	}
	return &p, nil
}
