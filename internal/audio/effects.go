package audio

import (
	"time"

	"github.com/gopxl/beep"

	"github.com/vovakirdan/tui-starwars/internal/match"
)

// Effect builds a fresh streamer for one sound cue. Unknown sounds yield
// nil.
func Effect(s match.Sound, rate beep.SampleRate) beep.Streamer {
	switch s {
	case match.SoundShotXWing:
		// Bright square chirp falling in pitch
		return newVolume(tone(1320, 660, 90*time.Millisecond, WaveSquare, rate), 0.35)

	case match.SoundShotTie:
		// Saw zap, lower and harsher than the X-Wing blaster
		return newVolume(tone(880, 330, 110*time.Millisecond, WaveSaw, rate), 0.35)

	case match.SoundShieldUp:
		return newVolume(beep.Seq(
			tone(440, 440, 60*time.Millisecond, WaveSine, rate),
			tone(660, 880, 120*time.Millisecond, WaveSine, rate),
		), 0.5)

	case match.SoundShieldBurnShip:
		return newVolume(beep.Mix(
			tone(220, 110, 200*time.Millisecond, WaveSquare, rate),
			lowNoise(200*time.Millisecond, rate),
		), 0.45)

	case match.SoundShieldBurnShot:
		return newVolume(tone(1760, 1760, 50*time.Millisecond, WaveSine, rate), 0.3)

	case match.SoundCollision:
		return newVolume(beep.Mix(
			lowNoise(350*time.Millisecond, rate),
			tone(90, 40, 350*time.Millisecond, WaveSaw, rate),
		), 0.6)

	case match.SoundKill:
		d := 450 * time.Millisecond
		return newVolume(beep.Mix(
			NewEnvelope(NewOscillator(0, d, WaveNoise, rate), d, 5*time.Millisecond, 400*time.Millisecond, rate),
			tone(160, 50, d, WaveSaw, rate),
		), 0.6)

	case match.SoundRespawn:
		return newVolume(beep.Seq(
			tone(523, 523, 70*time.Millisecond, WaveSine, rate),
			tone(659, 659, 70*time.Millisecond, WaveSine, rate),
			tone(784, 784, 120*time.Millisecond, WaveSine, rate),
		), 0.45)
	}
	return nil
}

func lowNoise(d time.Duration, rate beep.SampleRate) beep.Streamer {
	return NewEnvelope(NewOscillator(0, d, WaveNoise, rate), d, 2*time.Millisecond, d*3/4, rate)
}
