package preview

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Danondso/loopgen/internal/synth"
	"github.com/Danondso/loopgen/internal/wavfile"
)

func writeTone(t *testing.T) string {
	t.Helper()
	p := synth.Params{SampleRate: 8000, Duration: 2, Amplitude: 0.3, Fade: 0.5}
	path := filepath.Join(t.TempDir(), "tone.wav")
	if err := wavfile.Write(path, synth.PureTone(432, p), p.SampleRate); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestProbe(t *testing.T) {
	info, err := Probe(writeTone(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.SampleRate != 8000 {
		t.Errorf("expected 8000Hz, got %d", info.SampleRate)
	}
	if info.Channels != 2 {
		t.Errorf("expected 2 channels, got %d", info.Channels)
	}
	if info.Frames != 16000 {
		t.Errorf("expected 16000 frames, got %d", info.Frames)
	}
	if info.Duration() != 2*time.Second {
		t.Errorf("expected 2s, got %v", info.Duration())
	}
}

func TestProbeMissingFile(t *testing.T) {
	if _, err := Probe("/nonexistent/path/tone.wav"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestProbeNotWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.wav")
	if err := os.WriteFile(path, []byte("not a wav file, just some text"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Probe(path); err == nil {
		t.Error("expected error for invalid WAV")
	}
}

func TestPlayMissingFile(t *testing.T) {
	p := New(nil)
	if err := p.Play("/nonexistent/path/tone.wav"); err == nil {
		t.Error("expected error for missing file")
	}
	if p.Current() != "" {
		t.Errorf("expected nothing playing, got %s", p.Current())
	}
}

func TestStopWhenIdle(t *testing.T) {
	p := New(nil)
	// Stop before any Play must not touch the speaker.
	p.Stop()
	if p.Current() != "" {
		t.Errorf("expected nothing playing, got %s", p.Current())
	}
}

func TestInfoDurationZeroRate(t *testing.T) {
	if d := (Info{Frames: 100}).Duration(); d != 0 {
		t.Errorf("expected 0, got %v", d)
	}
}
