// Package analysis inspects generated WAV files.
package analysis

import (
	"fmt"
	"math"
	"math/cmplx"
	"time"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/Danondso/loopgen/internal/wavfile"
)

// DominantFrequency returns the strongest non-DC frequency in samples, in Hz.
// The peak bin is refined with parabolic interpolation over its neighbours.
func DominantFrequency(samples []float64, sampleRate int) float64 {
	n := len(samples)
	if n < 4 {
		return 0
	}

	fft := fourier.NewFFT(n)
	coeff := fft.Coefficients(nil, samples)

	peak := 1
	var peakMag float64
	for i := 1; i < len(coeff); i++ {
		if m := cmplx.Abs(coeff[i]); m > peakMag {
			peak, peakMag = i, m
		}
	}

	bin := float64(peak)
	if peak > 1 && peak < len(coeff)-1 {
		prev := cmplx.Abs(coeff[peak-1])
		next := cmplx.Abs(coeff[peak+1])
		if denom := prev - 2*peakMag + next; denom != 0 {
			bin += 0.5 * (prev - next) / denom
		}
	}
	return bin * float64(sampleRate) / float64(n)
}

// Report describes a decoded WAV file.
type Report struct {
	Path       string
	SampleRate int
	Channels   int
	BitDepth   int
	Frames     int
	Duration   time.Duration
	PeakHz     []float64 // one entry per channel
}

// Expect is what a generated file should contain.
type Expect struct {
	SampleRate  int
	Channels    int
	BitDepth    int
	Frames      int
	PeakHz      []float64
	ToleranceHz float64
}

// Inspect decodes the file at path and measures each channel's dominant
// frequency over one second taken from the middle of the file, clear of the
// fades.
func Inspect(path string) (Report, error) {
	a, err := wavfile.ReadFile(path)
	if err != nil {
		return Report{}, err
	}
	if a.SampleRate <= 0 || a.Channels <= 0 {
		return Report{}, fmt.Errorf("%s: invalid format %dHz %dch", path, a.SampleRate, a.Channels)
	}

	r := Report{
		Path:       path,
		SampleRate: a.SampleRate,
		Channels:   a.Channels,
		BitDepth:   a.BitDepth,
		Frames:     a.Frames(),
	}
	r.Duration = time.Duration(float64(r.Frames) / float64(r.SampleRate) * float64(time.Second))

	window := a.SampleRate
	if window > r.Frames {
		window = r.Frames
	}
	start := (r.Frames - window) / 2

	for ch := 0; ch < a.Channels; ch++ {
		samples := a.Channel(ch)[start : start+window]
		r.PeakHz = append(r.PeakHz, DominantFrequency(samples, a.SampleRate))
	}
	return r, nil
}

// Check compares r against want and describes the first mismatch.
func (r Report) Check(want Expect) error {
	if r.SampleRate != want.SampleRate {
		return fmt.Errorf("%s: sample rate %d, want %d", r.Path, r.SampleRate, want.SampleRate)
	}
	if r.Channels != want.Channels {
		return fmt.Errorf("%s: %d channels, want %d", r.Path, r.Channels, want.Channels)
	}
	if r.BitDepth != want.BitDepth {
		return fmt.Errorf("%s: %d-bit, want %d-bit", r.Path, r.BitDepth, want.BitDepth)
	}
	if r.Frames != want.Frames {
		return fmt.Errorf("%s: %d frames, want %d", r.Path, r.Frames, want.Frames)
	}
	for ch, hz := range want.PeakHz {
		if ch >= len(r.PeakHz) {
			break
		}
		if math.Abs(r.PeakHz[ch]-hz) > want.ToleranceHz {
			return fmt.Errorf("%s: channel %d peaks at %.2fHz, want %gHz", r.Path, ch, r.PeakHz[ch], hz)
		}
	}
	return nil
}
