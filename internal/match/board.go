package match

import (
	"sort"

	"github.com/vovakirdan/tui-starwars/internal/core"
)

// Standing is one pilot's row on the scoreboard.
type Standing struct {
	Rank      int
	Name      string
	Primary   core.RGB
	Secondary core.RGB
	Score     int
	Bashes    int
	Hits      int
	Deaths    int
	Faults    int
}

// Board is the in-memory scoreboard every match keeps.
type Board struct {
	rows  []Standing
	index map[string]int
}

// NewBoard creates an empty scoreboard.
func NewBoard() *Board {
	return &Board{index: make(map[string]int)}
}

// Add registers a pilot. Registering a name twice keeps the first entry.
func (b *Board) Add(name string, primary, secondary core.RGB) {
	if _, ok := b.index[name]; ok {
		return
	}
	b.index[name] = len(b.rows)
	b.rows = append(b.rows, Standing{Name: name, Primary: primary, Secondary: secondary})
}

// AddScore adds delta to a pilot's score. Unknown pilots are ignored.
func (b *Board) AddScore(name string, delta int) {
	if i, ok := b.index[name]; ok {
		b.rows[i].Score += delta
	}
}

// Score returns a pilot's score.
func (b *Board) Score(name string) int {
	if i, ok := b.index[name]; ok {
		return b.rows[i].Score
	}
	return 0
}

type stat uint8

const (
	statBash stat = iota
	statHit
	statDeath
	statFault
)

func (b *Board) count(name string, s stat) {
	i, ok := b.index[name]
	if !ok {
		return
	}
	switch s {
	case statBash:
		b.rows[i].Bashes++
	case statHit:
		b.rows[i].Hits++
	case statDeath:
		b.rows[i].Deaths++
	case statFault:
		b.rows[i].Faults++
	}
}

// Standings returns the rows ranked by score. Ties keep registration order
// and share a rank.
func (b *Board) Standings() []Standing {
	out := make([]Standing, len(b.rows))
	copy(out, b.rows)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	for i := range out {
		if i > 0 && out[i].Score == out[i-1].Score {
			out[i].Rank = out[i-1].Rank
		} else {
			out[i].Rank = i + 1
		}
	}
	return out
}

// Len returns the number of registered pilots.
func (b *Board) Len() int {
	return len(b.rows)
}
