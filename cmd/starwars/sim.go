package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-starwars/internal/audio"
	"github.com/vovakirdan/tui-starwars/internal/brains"
	"github.com/vovakirdan/tui-starwars/internal/match"
	"github.com/vovakirdan/tui-starwars/internal/storage"
)

// Headless matches use the field of an 80x24 terminal.
const (
	simViewW = 78
	simViewH = 44
)

var (
	flagSimTicks  int
	flagAudioOut  string
	flagSimSave   bool
	flagSimVolume float64
)

var simCmd = &cobra.Command{
	Use:   "sim [brain...]",
	Short: "Run a headless match and print the standings",
	Long: `Run a bots-only match without a terminal UI. The match stops after
--ticks ticks or when the round ends, whichever comes first. The same seed
and lineup always produce the same standings.

Examples:
  starwars sim --seed 42
  starwars sim hunter evader snake --ticks 20000
  starwars sim --audio-out round.wav
  starwars sim --save --preset marathon`,
	Run: runSim,
}

func init() {
	simCmd.Flags().IntVar(&flagSimTicks, "ticks", 10000, "Maximum number of ticks to run")
	simCmd.Flags().StringVar(&flagAudioOut, "audio-out", "", "Write the match sound track to a WAV file")
	simCmd.Flags().Float64Var(&flagSimVolume, "volume", 0, "Sound track volume adjustment (log2 scale)")
	simCmd.Flags().BoolVar(&flagSimSave, "save", false, "Record the result in the ledger")
}

func runSim(_ *cobra.Command, args []string) {
	ids := lineup(args, brains.DefaultFleet())
	matchCfg, preset, err := matchConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fleet, err := brains.Fleet(ids)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer brains.Close(fleet)

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	logger := newLogger("starwars")
	opts := []match.Option{
		match.WithSeed(seed),
		match.WithLogger(logger),
		match.WithViewport(simViewW, simViewH),
	}
	var rec *audio.Recorder
	if flagAudioOut != "" {
		rec = audio.NewRecorder(flagFPS)
		rec.SetVolume(flagSimVolume)
		opts = append(opts, match.WithAudio(rec))
	}

	m, err := match.New(matchCfg, fleet, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	started := time.Now()
	reason := match.NotPaused
	for i := 0; i < flagSimTicks && reason == match.NotPaused; i++ {
		reason = m.Tick().Paused
	}
	logger.Info("match finished", "ticks", m.Ticks(), "deaths", m.Deaths(), "reason", reason, "elapsed", time.Since(started))

	fmt.Printf("Seed %d  preset %s  ticks %d  deaths %d/%d\n", m.Seed(), preset, m.Ticks(), m.Deaths(), m.DeathLimit())
	if reason != match.NotPaused {
		fmt.Printf("Round over: %s\n", reason)
	}
	fmt.Println(standingsTable(m.Standings()))

	if rec != nil {
		if err := rec.Save(flagAudioOut); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing audio: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s (%d cues, %s)\n", flagAudioOut, len(rec.Cues()), rec.Duration().Round(time.Millisecond))
	}

	if flagSimSave {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening ledger: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
		id, err := store.SaveMatch(storage.NewMatchRecord(m, string(preset), ids))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error saving match: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Saved as match #%d\n", id)
	}
}

// standingsTable renders standings with pilot names in their ship colors.
func standingsTable(standings []match.Standing) string {
	rows := make([][]string, len(standings))
	for i, st := range standings {
		rows[i] = []string{
			strconv.Itoa(st.Rank),
			st.Name,
			strconv.Itoa(st.Score),
			strconv.Itoa(st.Hits),
			strconv.Itoa(st.Bashes),
			strconv.Itoa(st.Deaths),
			strconv.Itoa(st.Faults),
		}
	}
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "Pilot", "Score", "Hits", "Bashes", "Deaths", "Faults").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			if col == 1 && row >= 0 && row < len(standings) {
				return cell.Foreground(lipgloss.Color(standings[row].Primary.Hex()))
			}
			return cell
		}).
		String()
}
