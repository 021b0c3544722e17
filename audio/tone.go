package audio

import (
	"math"
	"time"

	"blockfall/tetris"

	"github.com/gopxl/beep"
)

// Waveform types
const (
	waveSine = iota
	waveSquare
	waveTriangle
)

// note is one step of a sound: a frequency held for a duration.
type note struct {
	freq float64
	dur  time.Duration
}

type tone struct {
	wave   int
	volume float64
	notes  []note
}

// tones maps every engine event to the sound it makes. Pause and resume are
// silent on purpose.
var tones = map[tetris.Event]tone{
	tetris.EventMove:      {wave: waveSquare, volume: 0.08, notes: []note{{220, 25 * time.Millisecond}}},
	tetris.EventRotate:    {wave: waveSquare, volume: 0.1, notes: []note{{440, 30 * time.Millisecond}}},
	tetris.EventSoftDrop:  {wave: waveTriangle, volume: 0.15, notes: []note{{160, 30 * time.Millisecond}}},
	tetris.EventHardDrop:  {wave: waveTriangle, volume: 0.3, notes: []note{{110, 40 * time.Millisecond}, {70, 80 * time.Millisecond}}},
	tetris.EventHold:      {wave: waveSine, volume: 0.2, notes: []note{{523.25, 40 * time.Millisecond}, {392, 40 * time.Millisecond}}},
	tetris.EventLineClear: {wave: waveSquare, volume: 0.15, notes: []note{{659.25, 60 * time.Millisecond}, {783.99, 60 * time.Millisecond}, {1046.5, 120 * time.Millisecond}}},
	tetris.EventLevelUp:   {wave: waveSine, volume: 0.25, notes: []note{{523.25, 80 * time.Millisecond}, {659.25, 80 * time.Millisecond}, {783.99, 80 * time.Millisecond}, {1046.5, 200 * time.Millisecond}}},
	tetris.EventGameOver:  {wave: waveTriangle, volume: 0.3, notes: []note{{392, 150 * time.Millisecond}, {311.13, 150 * time.Millisecond}, {261.63, 400 * time.Millisecond}}},
}

// render synthesizes t as mono samples with a short attack and release per note.
func (t tone) render(sr beep.SampleRate) []float64 {
	var buf []float64
	for _, n := range t.notes {
		samples := sr.N(n.dur)
		part := oscillator(t.wave, n.freq, sr, samples)
		applyEnvelope(part, sr.N(2*time.Millisecond), sr.N(n.dur/3))
		for i := range part {
			part[i] *= t.volume
		}
		buf = append(buf, part...)
	}
	return buf
}

func oscillator(wave int, freq float64, sr beep.SampleRate, samples int) []float64 {
	buf := make([]float64, samples)
	phase := 0.0
	inc := freq / float64(sr)
	for i := range buf {
		switch wave {
		case waveSine:
			buf[i] = math.Sin(2 * math.Pi * phase)
		case waveSquare:
			if phase < 0.5 {
				buf[i] = 1
			} else {
				buf[i] = -1
			}
		case waveTriangle:
			buf[i] = 4*math.Abs(phase-0.5) - 1
		}
		phase += inc
		if phase >= 1 {
			phase--
		}
	}
	return buf
}

func applyEnvelope(buf []float64, attack, release int) {
	total := len(buf)
	releaseStart := max(total-release, attack)
	for i := range buf {
		vol := 1.0
		if i < attack && attack > 0 {
			vol = float64(i) / float64(attack)
		} else if i >= releaseStart && release > 0 {
			vol = float64(total-i) / float64(release)
		}
		buf[i] *= vol
	}
}

// samples plays a mono buffer on both channels.
type samples struct {
	buf []float64
	pos int
}

func (s *samples) Stream(out [][2]float64) (int, bool) {
	if s.pos >= len(s.buf) {
		return 0, false
	}
	n := copy2(out, s.buf[s.pos:])
	s.pos += n
	return n, true
}

func (s *samples) Err() error { return nil }

func copy2(out [][2]float64, in []float64) int {
	n := min(len(out), len(in))
	for i := range n {
		out[i][0] = in[i]
		out[i][1] = in[i]
	}
	return n
}
