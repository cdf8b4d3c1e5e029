package audio

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"

	"github.com/vovakirdan/tui-starwars/internal/match"
)

// drain streams s to the end and returns every sample.
func drain(s beep.Streamer) [][2]float64 {
	var out [][2]float64
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok {
			return out
		}
	}
}

func TestOscillatorWaves(t *testing.T) {
	rate := beep.SampleRate(44100)
	for _, wave := range []WaveType{WaveSine, WaveSquare, WaveSaw, WaveNoise} {
		samples := drain(NewOscillator(440, 100*time.Millisecond, wave, rate))
		if len(samples) != rate.N(100*time.Millisecond) {
			t.Errorf("wave %d: %d samples, expected %d", wave, len(samples), rate.N(100*time.Millisecond))
		}
		for i, s := range samples {
			if s[0] < -1 || s[0] > 1 || s[0] != s[1] {
				t.Fatalf("wave %d: sample %d = %v", wave, i, s)
			}
			if wave == WaveSquare && math.Abs(s[0]) != 1 {
				t.Fatalf("square sample %d = %f", i, s[0])
			}
		}
	}
}

func TestNoiseIsReproducible(t *testing.T) {
	rate := beep.SampleRate(8000)
	a := drain(NewOscillator(0, 50*time.Millisecond, WaveNoise, rate))
	b := drain(NewOscillator(0, 50*time.Millisecond, WaveNoise, rate))
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("noise diverged at sample %d", i)
		}
	}
}

func TestEnvelopeShape(t *testing.T) {
	rate := beep.SampleRate(1000)
	d := 100 * time.Millisecond
	env := NewEnvelope(NewOscillator(250, time.Second, WaveSquare, rate), d, 10*time.Millisecond, 20*time.Millisecond, rate)
	samples := drain(env)

	if len(samples) != 100 {
		t.Fatalf("envelope length = %d, expected 100", len(samples))
	}
	if samples[0][0] != 0 {
		t.Errorf("first sample = %f, expected silence at attack start", samples[0][0])
	}
	if math.Abs(samples[50][0]) != 1 {
		t.Errorf("sustain sample = %f, expected full level", samples[50][0])
	}
	if math.Abs(samples[99][0]) > 0.1 {
		t.Errorf("last sample = %f, expected near silence", samples[99][0])
	}
}

func TestEffects(t *testing.T) {
	rate := beep.SampleRate(22050)
	sounds := []match.Sound{
		match.SoundShotXWing, match.SoundShotTie, match.SoundShieldUp, match.SoundShieldBurnShip,
		match.SoundShieldBurnShot, match.SoundCollision, match.SoundKill, match.SoundRespawn,
	}
	for _, s := range sounds {
		t.Run(s.String(), func(t *testing.T) {
			fx := Effect(s, rate)
			if fx == nil {
				t.Fatal("Effect() = nil")
			}
			samples := drain(fx)
			if len(samples) == 0 || len(samples) > rate.N(time.Second) {
				t.Fatalf("effect has %d samples", len(samples))
			}
			var peak float64
			for _, v := range samples {
				peak = math.Max(peak, math.Abs(v[0]))
			}
			if peak == 0 {
				t.Error("effect is silent")
			}
		})
	}
	if Effect(0, rate) != nil {
		t.Error("unknown sound should have no effect")
	}
}

func TestRecorderCues(t *testing.T) {
	r := NewRecorder(50)
	var _ match.Audio = r
	var _ match.Audio = Discard{}

	r.Play(match.SoundShotTie, 3)
	r.Play(match.SoundKill, 3)
	r.Play(match.SoundRespawn, 53)

	cues := r.Cues()
	expected := []Cue{{3, match.SoundShotTie}, {3, match.SoundKill}, {53, match.SoundRespawn}}
	if len(cues) != len(expected) {
		t.Fatalf("Cues() = %v", cues)
	}
	for i := range expected {
		if cues[i] != expected[i] {
			t.Errorf("cue %d = %v, expected %v", i, cues[i], expected[i])
		}
	}
	// Tick 53 starts 52 ticks of 20ms after tick 1.
	if got := r.Duration(); got != 52*20*time.Millisecond+tail {
		t.Errorf("Duration() = %v", got)
	}
}

func TestRecorderLimit(t *testing.T) {
	r := NewRecorder(50)
	r.maxCues = 2
	for i := range 5 {
		r.Play(match.SoundShotXWing, uint64(i+1))
	}
	if len(r.Cues()) != 2 || r.Dropped() != 3 {
		t.Errorf("kept %d cues, dropped %d", len(r.Cues()), r.Dropped())
	}
}

func TestRecorderEmpty(t *testing.T) {
	r := NewRecorder(50)
	if err := r.Save(filepath.Join(t.TempDir(), "empty.wav")); !errors.Is(err, ErrEmpty) {
		t.Errorf("Save() = %v, expected ErrEmpty", err)
	}
}

func TestRecorderSaveWAV(t *testing.T) {
	r := NewRecorder(50)
	r.Play(match.SoundShotXWing, 1)
	r.Play(match.SoundCollision, 51)

	path := filepath.Join(t.TempDir(), "match.wav")
	if err := r.Save(path); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	s, format, err := wav.Decode(f)
	if err != nil {
		t.Fatalf("wav.Decode() failed: %v", err)
	}
	defer s.Close()

	if format.SampleRate != DefaultSampleRate || format.NumChannels != 2 {
		t.Errorf("format = %+v", format)
	}
	expected := DefaultSampleRate.N(time.Second + tail)
	if s.Len() != expected {
		t.Errorf("wav has %d samples, expected %d", s.Len(), expected)
	}
}
