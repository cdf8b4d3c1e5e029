package audio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"

	"github.com/vovakirdan/tui-starwars/internal/match"
)

const (
	DefaultSampleRate beep.SampleRate = 44100
	// DefaultMaxCues bounds the cues kept per recording.
	DefaultMaxCues = 4096
	// tail lets the last effect ring out.
	tail = 500 * time.Millisecond
)

// ErrEmpty is returned when rendering a recording with no cues.
var ErrEmpty = errors.New("audio: nothing recorded")

// Cue is one sound heard at a simulation tick.
type Cue struct {
	Tick  uint64
	Sound match.Sound
}

// Recorder collects sound cues and renders them onto a timeline where tick
// n starts at n times the tick duration.
type Recorder struct {
	mu      sync.Mutex
	cues    []Cue
	rate    beep.SampleRate
	tick    time.Duration
	volume  float64
	maxCues int
	dropped int
}

// NewRecorder creates a recorder for a match running at ticksPerSecond.
func NewRecorder(ticksPerSecond int) *Recorder {
	if ticksPerSecond <= 0 {
		ticksPerSecond = 50
	}
	return &Recorder{
		rate:    DefaultSampleRate,
		tick:    time.Second / time.Duration(ticksPerSecond),
		volume:  1,
		maxCues: DefaultMaxCues,
	}
}

// SetVolume sets the master volume. Zero mutes.
func (r *Recorder) SetVolume(v float64) {
	r.mu.Lock()
	r.volume = v
	r.mu.Unlock()
}

// Play records a cue. Cues past the limit are counted and dropped.
func (r *Recorder) Play(sound match.Sound, tick uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.cues) >= r.maxCues {
		r.dropped++
		return
	}
	r.cues = append(r.cues, Cue{Tick: tick, Sound: sound})
}

// Cues returns the recorded cues in arrival order.
func (r *Recorder) Cues() []Cue {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Cue(nil), r.cues...)
}

// Dropped reports how many cues overflowed the limit.
func (r *Recorder) Dropped() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

// Format is the PCM format of rendered recordings.
func (r *Recorder) Format() beep.Format {
	return beep.Format{SampleRate: r.rate, NumChannels: 2, Precision: 2}
}

// Duration is the rendered length of the recording.
func (r *Recorder) Duration() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.cues) == 0 {
		return 0
	}
	return r.offset(r.last()) + tail
}

func (r *Recorder) last() uint64 {
	var last uint64
	for _, c := range r.cues {
		last = max(last, c.Tick)
	}
	return last
}

// offset places tick 1 at time zero.
func (r *Recorder) offset(tick uint64) time.Duration {
	if tick == 0 {
		return 0
	}
	return time.Duration(tick-1) * r.tick
}

// Streamer renders the timeline. Each call builds fresh effect streamers.
func (r *Recorder) Streamer() (beep.Streamer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.cues) == 0 {
		return nil, ErrEmpty
	}

	total := r.rate.N(r.offset(r.last()) + tail)
	tracks := make([]beep.Streamer, 0, len(r.cues)+1)
	// A silent bed fixes the length whatever the last effect does.
	tracks = append(tracks, beep.Silence(total))
	for _, c := range r.cues {
		fx := Effect(c.Sound, r.rate)
		if fx == nil {
			continue
		}
		tracks = append(tracks, beep.Seq(beep.Silence(r.rate.N(r.offset(c.Tick))), fx))
	}
	return beep.Take(total, newVolume(beep.Mix(tracks...), r.volume)), nil
}

// WriteWAV encodes the recording as 16-bit stereo WAV.
func (r *Recorder) WriteWAV(w io.WriteSeeker) error {
	s, err := r.Streamer()
	if err != nil {
		return err
	}
	if err := wav.Encode(w, s, r.Format()); err != nil {
		return fmt.Errorf("audio: cannot encode wav: %w", err)
	}
	return nil
}

// Save writes the recording to a WAV file at path.
func (r *Recorder) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("audio: cannot create %s: %w", path, err)
	}
	if err := r.WriteWAV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Discard drops every cue.
type Discard struct{}

func (Discard) Play(match.Sound, uint64) {}
