package audio

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

const sampleRate = beep.SampleRate(48000)

// envelope applies linear attack and release over a finite streamer of known length
type envelope struct {
	s       beep.Streamer
	pos     int
	total   int
	attack  int
	release int
	gain    float64
}

func (e *envelope) Stream(samples [][2]float64) (int, bool) {
	n, ok := e.s.Stream(samples)
	for i := 0; i < n; i++ {
		g := e.gain
		if e.pos < e.attack {
			g *= float64(e.pos) / float64(e.attack)
		}
		if left := e.total - e.pos; left < e.release {
			g *= float64(left) / float64(e.release)
		}
		samples[i][0] *= g
		samples[i][1] *= g
		e.pos++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.s.Err() }

// tone returns a shaped sine of duration d, or nil if freq is outside the generator range
func tone(freq float64, d time.Duration, gain float64) beep.Streamer {
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return nil
	}
	total := sampleRate.N(d)
	edge := sampleRate.N(5 * time.Millisecond)
	return &envelope{
		s:       beep.Take(total, sine),
		total:   total,
		attack:  edge,
		release: edge,
		gain:    gain,
	}
}

// HoverTone is a short high tick
func HoverTone() beep.Streamer {
	return tone(1320, 35*time.Millisecond, 0.12)
}

// ClickChime is a rising two-tone chime
func ClickChime() beep.Streamer {
	return beep.Seq(
		tone(660, 60*time.Millisecond, 0.2),
		tone(990, 90*time.Millisecond, 0.2),
	)
}

// ExitChime is a falling two-tone chime
func ExitChime() beep.Streamer {
	return beep.Seq(
		tone(880, 50*time.Millisecond, 0.15),
		tone(440, 80*time.Millisecond, 0.15),
	)
}

// masterVolume wraps the mixer with a mute switch
func masterVolume(s beep.Streamer, muted bool) *effects.Volume {
	return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: muted}
}
