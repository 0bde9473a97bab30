// Package generator renders the configured loops and writes them to disk.
package generator

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/Danondso/loopgen/internal/config"
	"github.com/Danondso/loopgen/internal/synth"
	"github.com/Danondso/loopgen/internal/wavfile"
)

// Generator writes every track in a config, one after another.
type Generator struct {
	cfg    *config.Config
	out    io.Writer
	logger *log.Logger
}

// New creates a Generator. Progress lines go to out; logger receives debug
// detail and may be nil.
func New(cfg *config.Config, out io.Writer, logger *log.Logger) *Generator {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Generator{cfg: cfg, out: out, logger: logger}
}

// Render synthesizes the waveform for a single track.
func Render(t config.Track, p synth.Params) (synth.Stereo, error) {
	switch t.Kind {
	case config.KindTone:
		return synth.PureTone(t.BaseHz, p), nil
	case config.KindBinaural:
		return synth.BinauralBeat(t.BaseHz, t.BeatHz, p), nil
	default:
		return synth.Stereo{}, fmt.Errorf("track %s: unknown kind %q", t.File, t.Kind)
	}
}

// Run creates the output directory and writes each track in order. It returns
// the paths written. The first failure stops the run.
func (g *Generator) Run() ([]string, error) {
	cfg := g.cfg
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	fmt.Fprintln(g.out, "Generating binaural beats audio files...")
	fmt.Fprintf(g.out, "Duration: %g seconds each\n", cfg.DurationSec)
	fmt.Fprintf(g.out, "Sample rate: %dHz\n", cfg.SampleRate)
	fmt.Fprintln(g.out)

	params := cfg.Params()
	paths := make([]string, 0, len(cfg.Tracks))
	for i, t := range cfg.Tracks {
		fmt.Fprintf(g.out, "%d. Generating %s...\n", i+1, label(t))

		start := time.Now()
		s, err := Render(t, params)
		if err != nil {
			return paths, err
		}
		g.logger.Printf("synth: %s kind=%s base=%gHz beat=%gHz frames=%d in %s",
			t.File, t.Kind, t.BaseHz, t.BeatHz, s.Frames(), time.Since(start).Round(time.Millisecond))

		path := cfg.TrackPath(t)
		if err := wavfile.Write(path, s, cfg.SampleRate); err != nil {
			return paths, fmt.Errorf("save %s: %w", t.File, err)
		}
		fmt.Fprintf(g.out, "Created: %s\n", path)
		paths = append(paths, path)
	}

	fmt.Fprintln(g.out)
	fmt.Fprintln(g.out, "All audio files generated successfully!")
	fmt.Fprintf(g.out, "Files saved to: %s/\n", cfg.OutputDir)

	return paths, nil
}

func label(t config.Track) string {
	if t.Label != "" {
		return t.Label
	}
	if t.Kind == config.KindBinaural {
		return fmt.Sprintf("%gHz Binaural Beat (%gHz)", t.BaseHz, t.BeatHz)
	}
	return fmt.Sprintf("%gHz Pure Tone", t.BaseHz)
}
