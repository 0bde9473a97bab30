package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/Danondso/loopgen/internal/synth"
)

// Track kinds.
const (
	KindTone     = "tone"
	KindBinaural = "binaural"
)

// DefaultOutputDir is where assets are written, relative to the working directory.
const DefaultOutputDir = "assets/audio"

// Track describes one generated loop.
type Track struct {
	File   string  `toml:"file"`
	Label  string  `toml:"label"`
	Kind   string  `toml:"kind"`    // "tone" or "binaural"
	BaseHz float64 `toml:"base_hz"` // tone frequency, or binaural carrier
	BeatHz float64 `toml:"beat_hz"` // binaural only
}

// RightHz returns the frequency played on the right channel.
func (t Track) RightHz() float64 {
	if t.Kind == KindBinaural {
		return t.BaseHz + t.BeatHz
	}
	return t.BaseHz
}

// CustomTheme defines a user-provided color theme for the preview TUI.
type CustomTheme struct {
	Name       string `toml:"name"`
	Primary    string `toml:"primary"`
	Secondary  string `toml:"secondary"`
	Accent     string `toml:"accent"`
	Error      string `toml:"error"`
	Success    string `toml:"success"`
	Warning    string `toml:"warning"`
	Background string `toml:"background"`
	Text       string `toml:"text"`
	Dimmed     string `toml:"dimmed"`
	Separator  string `toml:"separator"`
}

// Config is the top-level configuration.
type Config struct {
	OutputDir    string        `toml:"output_dir"`
	SampleRate   int           `toml:"sample_rate"`
	DurationSec  float64       `toml:"duration_sec"`
	Amplitude    float64       `toml:"amplitude"`
	FadeSec      float64       `toml:"fade_sec"`
	Theme        string        `toml:"theme"`
	Tracks       []Track       `toml:"tracks"`
	CustomThemes []CustomTheme `toml:"custom_theme"`
}

// DefaultTracks returns the six bundled loops.
func DefaultTracks() []Track {
	return []Track{
		{File: "432hz-healing.wav", Label: "432Hz Pure Tone", Kind: KindTone, BaseHz: 432},
		{File: "528hz-love.wav", Label: "528Hz Pure Tone", Kind: KindTone, BaseHz: 528},
		{File: "theta-waves.wav", Label: "Theta Waves (6Hz)", Kind: KindBinaural, BaseHz: 200, BeatHz: 6},
		{File: "alpha-waves.wav", Label: "Alpha Waves (10Hz)", Kind: KindBinaural, BaseHz: 200, BeatHz: 10},
		{File: "delta-waves.wav", Label: "Delta Waves (2Hz)", Kind: KindBinaural, BaseHz: 150, BeatHz: 2},
		{File: "beta-waves.wav", Label: "Beta Waves (18Hz)", Kind: KindBinaural, BaseHz: 250, BeatHz: 18},
	}
}

// Default returns a Config populated with all default values.
func Default() *Config {
	return &Config{
		OutputDir:   DefaultOutputDir,
		SampleRate:  synth.DefaultSampleRate,
		DurationSec: synth.DefaultDuration,
		Amplitude:   synth.DefaultAmplitude,
		FadeSec:     synth.DefaultFade,
		Theme:       "synthwave",
		Tracks:      DefaultTracks(),
	}
}

// Params returns the synthesis parameters described by the config.
func (c *Config) Params() synth.Params {
	return synth.Params{
		SampleRate: c.SampleRate,
		Duration:   c.DurationSec,
		Amplitude:  c.Amplitude,
		Fade:       c.FadeSec,
	}
}

// TrackPath returns the output path for t.
func (c *Config) TrackPath(t Track) string {
	return filepath.Join(c.OutputDir, t.File)
}

// Validate reports the first problem found in the config.
func (c *Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output_dir is empty")
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample_rate must be positive, got %d", c.SampleRate)
	}
	if c.DurationSec <= 0 {
		return fmt.Errorf("duration_sec must be positive, got %v", c.DurationSec)
	}
	if c.Amplitude <= 0 || c.Amplitude > 1 {
		return fmt.Errorf("amplitude must be in (0, 1], got %v", c.Amplitude)
	}
	if c.FadeSec < 0 || 2*c.FadeSec > c.DurationSec {
		return fmt.Errorf("fade_sec %v does not fit twice into duration_sec %v", c.FadeSec, c.DurationSec)
	}

	seen := make(map[string]bool, len(c.Tracks))
	for i, t := range c.Tracks {
		if t.File == "" {
			return fmt.Errorf("track %d: file is empty", i+1)
		}
		if filepath.Base(t.File) != t.File {
			return fmt.Errorf("track %d: file %q must be a bare file name", i+1, t.File)
		}
		if seen[t.File] {
			return fmt.Errorf("track %d: duplicate file %q", i+1, t.File)
		}
		seen[t.File] = true

		switch t.Kind {
		case KindTone, KindBinaural:
		default:
			return fmt.Errorf("track %d: unknown kind %q", i+1, t.Kind)
		}
		if t.BaseHz <= 0 {
			return fmt.Errorf("track %d: base_hz must be positive, got %v", i+1, t.BaseHz)
		}
	}
	return nil
}

// Encode writes the config as TOML to w.
func Encode(w io.Writer, cfg *Config) error {
	return toml.NewEncoder(w).Encode(cfg)
}

// Save writes the config as TOML to the given path, creating parent
// directories if needed. The write is atomic: data is written to a
// temporary file and renamed into place so a crash mid-write cannot
// corrupt the existing config.
func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".loopgen-config-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if err := Encode(tmp, cfg); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}

// Load reads the TOML config from path. An empty path or a missing file
// yields the default config without error. A file without [[tracks]]
// keeps the default track table.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	_, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	// Decode tracks into an empty slice; toml reuses existing elements and
	// would leak default fields into partially specified tracks.
	defaults := cfg.Tracks
	cfg.Tracks = nil

	_, err = toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, err
	}

	if len(cfg.Tracks) == 0 {
		cfg.Tracks = defaults
	}

	return cfg, nil
}
