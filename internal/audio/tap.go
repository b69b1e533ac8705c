package audio

import "github.com/faiface/beep"

// sampleTap wraps a beep.Streamer and feeds every sample it plays into an
// analyser, so the visualization follows what is audible.
type sampleTap struct {
	Source   beep.Streamer
	analyser *Analyser
}

func newSampleTap(src beep.Streamer, a *Analyser) *sampleTap {
	return &sampleTap{Source: src, analyser: a}
}

func (t *sampleTap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.Source.Stream(samples)
	if n > 0 {
		t.analyser.WriteStereo(samples[:n])
	}
	return n, ok
}

func (t *sampleTap) Err() error { return t.Source.Err() }
