package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultValues(t *testing.T) {
	cfg := Default()

	if cfg.OutputDir != "assets/audio" {
		t.Errorf("expected output dir assets/audio, got %s", cfg.OutputDir)
	}
	if cfg.SampleRate != 44100 {
		t.Errorf("expected sample rate 44100, got %d", cfg.SampleRate)
	}
	if cfg.DurationSec != 30 {
		t.Errorf("expected duration 30, got %v", cfg.DurationSec)
	}
	if cfg.Amplitude != 0.3 {
		t.Errorf("expected amplitude 0.3, got %v", cfg.Amplitude)
	}
	if cfg.FadeSec != 0.5 {
		t.Errorf("expected fade 0.5, got %v", cfg.FadeSec)
	}
	if cfg.Theme != "synthwave" {
		t.Errorf("expected theme synthwave, got %s", cfg.Theme)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected default config to validate, got %v", err)
	}
}

func TestDefaultTracks(t *testing.T) {
	tracks := DefaultTracks()
	expected := []struct {
		file string
		kind string
		base float64
		beat float64
	}{
		{"432hz-healing.wav", KindTone, 432, 0},
		{"528hz-love.wav", KindTone, 528, 0},
		{"theta-waves.wav", KindBinaural, 200, 6},
		{"alpha-waves.wav", KindBinaural, 200, 10},
		{"delta-waves.wav", KindBinaural, 150, 2},
		{"beta-waves.wav", KindBinaural, 250, 18},
	}
	if len(tracks) != len(expected) {
		t.Fatalf("expected %d tracks, got %d", len(expected), len(tracks))
	}
	for i, e := range expected {
		tr := tracks[i]
		if tr.File != e.file || tr.Kind != e.kind || tr.BaseHz != e.base || tr.BeatHz != e.beat {
			t.Errorf("track %d: expected %+v, got %+v", i, e, tr)
		}
		if tr.Label == "" {
			t.Errorf("track %d: expected a label", i)
		}
	}
}

func TestRightHz(t *testing.T) {
	beat := Track{Kind: KindBinaural, BaseHz: 200, BeatHz: 6}
	if beat.RightHz() != 206 {
		t.Errorf("expected 206, got %v", beat.RightHz())
	}
	tone := Track{Kind: KindTone, BaseHz: 432, BeatHz: 6}
	if tone.RightHz() != 432 {
		t.Errorf("expected 432, got %v", tone.RightHz())
	}
}

func TestParams(t *testing.T) {
	p := Default().Params()
	if p.SampleRate != 44100 || p.Duration != 30 || p.Amplitude != 0.3 || p.Fade != 0.5 {
		t.Errorf("unexpected params: %+v", p)
	}
}

func TestTrackPath(t *testing.T) {
	cfg := Default()
	got := cfg.TrackPath(cfg.Tracks[0])
	if got != filepath.Join("assets", "audio", "432hz-healing.wav") {
		t.Errorf("unexpected path %s", got)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Tracks) != 6 {
		t.Errorf("expected 6 default tracks, got %d", len(cfg.Tracks))
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load("/nonexistent/path/loopgen.toml")
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if cfg.OutputDir != DefaultOutputDir {
		t.Errorf("expected default output dir, got %s", cfg.OutputDir)
	}
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "loopgen.toml")

	content := `
output_dir = "build/sounds"
sample_rate = 48000
duration_sec = 10.0
amplitude = 0.5
fade_sec = 1.0

[[tracks]]
file = "gamma.wav"
label = "Gamma Waves (40Hz)"
kind = "binaural"
base_hz = 300.0
beat_hz = 40.0

[[tracks]]
file = "a440.wav"
kind = "tone"
base_hz = 440.0
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.OutputDir != "build/sounds" {
		t.Errorf("expected build/sounds, got %s", cfg.OutputDir)
	}
	if cfg.SampleRate != 48000 {
		t.Errorf("expected 48000, got %d", cfg.SampleRate)
	}
	if cfg.DurationSec != 10 {
		t.Errorf("expected 10, got %v", cfg.DurationSec)
	}
	if cfg.Amplitude != 0.5 {
		t.Errorf("expected 0.5, got %v", cfg.Amplitude)
	}
	if cfg.FadeSec != 1 {
		t.Errorf("expected 1, got %v", cfg.FadeSec)
	}
	if len(cfg.Tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(cfg.Tracks))
	}
	if cfg.Tracks[0].RightHz() != 340 {
		t.Errorf("expected right channel 340Hz, got %v", cfg.Tracks[0].RightHz())
	}
	// Fields absent from the file must not inherit default track values.
	if cfg.Tracks[1].Label != "" {
		t.Errorf("expected empty label, got %q", cfg.Tracks[1].Label)
	}
	if cfg.Tracks[1].BeatHz != 0 {
		t.Errorf("expected no beat, got %v", cfg.Tracks[1].BeatHz)
	}
}

func TestLoadPartialOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "loopgen.toml")

	if err := os.WriteFile(path, []byte(`output_dir = "out"`+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OutputDir != "out" {
		t.Errorf("expected out, got %s", cfg.OutputDir)
	}
	// Non-overridden values should remain defaults
	if cfg.SampleRate != 44100 {
		t.Errorf("expected default sample rate, got %d", cfg.SampleRate)
	}
	if len(cfg.Tracks) != 6 {
		t.Errorf("expected default tracks, got %d", len(cfg.Tracks))
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "loopgen.toml")
	if err := os.WriteFile(path, []byte("sample_rate = = 1"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed TOML")
	}
}

func TestLoadCustomThemes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "loopgen.toml")

	content := `
theme = "ocean"

[[custom_theme]]
name = "ocean"
primary = "#0077B6"
secondary = "#00B4D8"
accent = "#90E0EF"
error = "#E63946"
success = "#2A9D8F"
warning = "#E9C46A"
background = "#03045E"
text = "#CAF0F8"
dimmed = "#5C677D"
separator = "#1B3A4B"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Theme != "ocean" {
		t.Errorf("expected theme ocean, got %s", cfg.Theme)
	}
	if len(cfg.CustomThemes) != 1 {
		t.Fatalf("expected 1 custom theme, got %d", len(cfg.CustomThemes))
	}
	if cfg.CustomThemes[0].Primary != "#0077B6" {
		t.Errorf("expected primary #0077B6, got %s", cfg.CustomThemes[0].Primary)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		errSub string
	}{
		{"empty output dir", func(c *Config) { c.OutputDir = "" }, "output_dir"},
		{"zero sample rate", func(c *Config) { c.SampleRate = 0 }, "sample_rate"},
		{"zero duration", func(c *Config) { c.DurationSec = 0 }, "duration_sec"},
		{"loud amplitude", func(c *Config) { c.Amplitude = 1.5 }, "amplitude"},
		{"fade too long", func(c *Config) { c.FadeSec = 20 }, "fade_sec"},
		{"unknown kind", func(c *Config) { c.Tracks[0].Kind = "noise" }, "unknown kind"},
		{"empty file", func(c *Config) { c.Tracks[1].File = "" }, "file is empty"},
		{"nested file", func(c *Config) { c.Tracks[1].File = "sub/x.wav" }, "bare file name"},
		{"duplicate file", func(c *Config) { c.Tracks[1].File = c.Tracks[0].File }, "duplicate"},
		{"zero base", func(c *Config) { c.Tracks[2].BaseHz = 0 }, "base_hz"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.errSub) {
				t.Errorf("expected error containing %q, got %v", tc.errSub, err)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "loopgen.toml")

	cfg := Default()
	cfg.Theme = "gruvbox"
	cfg.Tracks = cfg.Tracks[:2]

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load after Save failed: %v", err)
	}
	if loaded.Theme != "gruvbox" {
		t.Errorf("expected theme gruvbox, got %s", loaded.Theme)
	}
	if len(loaded.Tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(loaded.Tracks))
	}
	if loaded.Tracks[1] != cfg.Tracks[1] {
		t.Errorf("expected %+v, got %+v", cfg.Tracks[1], loaded.Tracks[1])
	}
	if loaded.SampleRate != 44100 {
		t.Errorf("expected default sample rate preserved, got %d", loaded.SampleRate)
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "dir", "loopgen.toml")

	if err := Save(path, Default()); err != nil {
		t.Fatalf("Save failed to create nested dirs: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file to exist at %s: %v", path, err)
	}
}

func TestEncode(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, Default()); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{`output_dir = "assets/audio"`, "sample_rate = 44100", "[[tracks]]", `file = "beta-waves.wav"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected encoded config to contain %q", want)
		}
	}
}
