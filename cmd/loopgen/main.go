package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Danondso/loopgen/internal/analysis"
	"github.com/Danondso/loopgen/internal/config"
	"github.com/Danondso/loopgen/internal/generator"
	"github.com/Danondso/loopgen/internal/preview"
	"github.com/Danondso/loopgen/internal/synth"
	"github.com/Danondso/loopgen/internal/tui"
	"github.com/Danondso/loopgen/internal/wavfile"
)

// peakToleranceHz is how far a measured channel peak may drift from the
// track's nominal frequency before verify fails.
const peakToleranceHz = 0.5

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: loopgen [flags] [generate|verify|preview|config]\n\n")
	flag.PrintDefaults()
}

func main() {
	debug := flag.Bool("debug", false, "enable debug logging to stderr")
	cfgPath := flag.String("config", "", "optional TOML file overriding the built-in track table")
	outDir := flag.String("out", "", "output directory (default "+config.DefaultOutputDir+")")
	flag.Usage = usage
	flag.Parse()

	var dbg *log.Logger
	if *debug {
		dbg = log.New(os.Stderr, "[DEBUG] ", log.Ltime|log.Lmicroseconds)
	} else {
		dbg = log.New(io.Discard, "", 0)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *outDir != "" {
		cfg.OutputDir = *outDir
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	dbg.Printf("config: dir=%s rate=%d duration=%gs tracks=%d", cfg.OutputDir, cfg.SampleRate, cfg.DurationSec, len(cfg.Tracks))

	cmd := "generate"
	if flag.NArg() > 0 {
		cmd = flag.Arg(0)
	}

	switch cmd {
	case "generate":
		if _, err := generator.New(cfg, os.Stdout, dbg).Run(); err != nil {
			log.Fatalf("generate: %v", err)
		}
	case "verify":
		if err := runVerify(cfg, dbg); err != nil {
			log.Fatalf("verify: %v", err)
		}
	case "preview":
		runPreview(cfg, *cfgPath, dbg, *debug)
	case "config":
		if err := config.Encode(os.Stdout, cfg); err != nil {
			log.Fatalf("encode config: %v", err)
		}
	default:
		usage()
		os.Exit(2)
	}
}

// runVerify checks every generated file against the config and prints one
// line per track.
func runVerify(cfg *config.Config, dbg *log.Logger) error {
	frames := synth.NumSamples(cfg.DurationSec, cfg.SampleRate)
	failed := 0

	for _, t := range cfg.Tracks {
		path := cfg.TrackPath(t)
		r, err := analysis.Inspect(path)
		if err != nil {
			fmt.Printf("FAIL %s: %v\n", t.File, err)
			failed++
			continue
		}
		dbg.Printf("verify: %s peaks=%v", path, r.PeakHz)

		err = r.Check(analysis.Expect{
			SampleRate:  cfg.SampleRate,
			Channels:    wavfile.Channels,
			BitDepth:    wavfile.BitDepth,
			Frames:      frames,
			PeakHz:      []float64{t.BaseHz, t.RightHz()},
			ToleranceHz: peakToleranceHz,
		})
		if err != nil {
			fmt.Printf("FAIL %v\n", err)
			failed++
			continue
		}
		fmt.Printf("ok   %-20s %dHz %d-bit %dch %.2fs  L=%.1fHz R=%.1fHz\n",
			t.File, r.SampleRate, r.BitDepth, r.Channels, r.Duration.Seconds(), r.PeakHz[0], r.PeakHz[1])
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(cfg.Tracks))
	}
	return nil
}

func runPreview(cfg *config.Config, cfgPath string, dbg *log.Logger, debug bool) {
	tui.RegisterCustomThemes(cfg.CustomThemes)

	player := preview.New(dbg)
	model := tui.NewModel(cfg, player, preview.Probe, dbg, debug)
	model.ConfigPath = cfgPath
	p := tea.NewProgram(model, tea.WithAltScreen())

	// When debug is enabled, redirect logger output into the TUI debug panel
	if debug {
		dbg.SetOutput(tui.NewLogWriter(p))
	}

	if _, err := p.Run(); err != nil {
		log.Fatalf("TUI error: %v", err)
	}
	player.Stop()
}
