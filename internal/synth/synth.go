package synth

import "math"

// Default synthesis parameters for the bundled loops.
const (
	DefaultSampleRate = 44100
	DefaultDuration   = 30.0 // seconds; loops seamlessly
	DefaultAmplitude  = 0.3
	DefaultFade       = 0.5 // seconds
)

// Harmonic weights for PureTone: fundamental, 2nd and 3rd harmonic.
const (
	fundamentalWeight = 0.7
	secondWeight      = 0.2
	thirdWeight       = 0.1
)

// Params controls how a waveform is sampled.
type Params struct {
	SampleRate int
	Duration   float64 // seconds
	Amplitude  float64 // 0.0–1.0
	Fade       float64 // fade-in/out length in seconds
}

// DefaultParams returns the parameters used for the shipped assets.
func DefaultParams() Params {
	return Params{
		SampleRate: DefaultSampleRate,
		Duration:   DefaultDuration,
		Amplitude:  DefaultAmplitude,
		Fade:       DefaultFade,
	}
}

// Stereo is a two-channel waveform. Both channels have the same length.
type Stereo struct {
	Left  []float64
	Right []float64
}

// Frames returns the number of sample frames (samples per channel).
func (s Stereo) Frames() int {
	return len(s.Left)
}

// Interleave returns the samples as L,R,L,R,...
func (s Stereo) Interleave() []float64 {
	out := make([]float64, 2*len(s.Left))
	for i := range s.Left {
		out[2*i] = s.Left[i]
		out[2*i+1] = s.Right[i]
	}
	return out
}

// NumSamples returns the buffer length for duration seconds at sampleRate,
// truncated toward zero.
func NumSamples(duration float64, sampleRate int) int {
	return int(float64(sampleRate) * duration)
}

// timeAxis returns n sample times spread evenly over [0, duration], both ends
// included.
func timeAxis(n int, duration float64) []float64 {
	t := make([]float64, n)
	if n < 2 {
		return t
	}
	step := duration / float64(n-1)
	for i := range t {
		t[i] = float64(i) * step
	}
	t[n-1] = duration
	return t
}

// applyFade ramps the first and last fadeSamples of buf linearly from 0 to 1
// and from 1 to 0. The first and last samples end up exactly zero.
func applyFade(buf []float64, fadeSamples int) {
	if fadeSamples > len(buf) {
		fadeSamples = len(buf)
	}
	if fadeSamples <= 0 {
		return
	}
	if fadeSamples == 1 {
		buf[0] = 0
		buf[len(buf)-1] = 0
		return
	}

	last := float64(fadeSamples - 1)
	for i := 0; i < fadeSamples; i++ {
		buf[i] *= float64(i) / last
	}
	off := len(buf) - fadeSamples
	for i := 0; i < fadeSamples; i++ {
		buf[off+i] *= float64(fadeSamples-1-i) / last
	}
}

func sine(t []float64, freq, amplitude float64) []float64 {
	out := make([]float64, len(t))
	for i, ti := range t {
		out[i] = amplitude * math.Sin(2*math.Pi*freq*ti)
	}
	return out
}

// PureTone renders freq with a little 2nd and 3rd harmonic content for a
// warmer sound. The same signal is written to both channels.
func PureTone(freq float64, p Params) Stereo {
	n := NumSamples(p.Duration, p.SampleRate)
	t := timeAxis(n, p.Duration)

	tone := make([]float64, n)
	for i, ti := range t {
		tone[i] = p.Amplitude * fundamentalWeight * math.Sin(2*math.Pi*freq*ti)
		tone[i] += p.Amplitude * secondWeight * math.Sin(2*math.Pi*freq*2*ti)
		tone[i] += p.Amplitude * thirdWeight * math.Sin(2*math.Pi*freq*3*ti)
	}
	applyFade(tone, NumSamples(p.Fade, p.SampleRate))

	right := make([]float64, n)
	copy(right, tone)
	return Stereo{Left: tone, Right: right}
}

// BinauralBeat renders base on the left channel and base+beat on the right.
// The beat itself is only perceived on playback; each channel is a plain sine.
func BinauralBeat(base, beat float64, p Params) Stereo {
	n := NumSamples(p.Duration, p.SampleRate)
	t := timeAxis(n, p.Duration)

	left := sine(t, base, p.Amplitude)
	right := sine(t, base+beat, p.Amplitude)

	fade := NumSamples(p.Fade, p.SampleRate)
	applyFade(left, fade)
	applyFade(right, fade)

	return Stereo{Left: left, Right: right}
}
