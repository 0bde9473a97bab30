// Package preview plays generated loops through the system speaker.
package preview

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
)

// resampleQuality is passed to beep.Resample when a file's rate differs
// from the rate the speaker was opened with.
const resampleQuality = 4

// Player loops one WAV file at a time.
type Player struct {
	mu       sync.Mutex
	logger   *log.Logger
	initOnce sync.Once
	initErr  error
	rate     beep.SampleRate
	current  string
	streamer beep.StreamSeekCloser
}

// New creates a Player. The speaker is opened on first Play.
func New(logger *log.Logger) *Player {
	return &Player{logger: logger}
}

func (p *Player) logf(format string, args ...any) {
	if p.logger != nil {
		p.logger.Printf(format, args...)
	}
}

func (p *Player) initSpeaker(format beep.Format) {
	p.initOnce.Do(func() {
		p.rate = format.SampleRate
		p.initErr = speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10))
	})
}

// Info is the decoded header of a WAV file.
type Info struct {
	SampleRate int
	Channels   int
	Frames     int
}

// Duration returns the playing time of the file.
func (i Info) Duration() time.Duration {
	if i.SampleRate == 0 {
		return 0
	}
	return time.Duration(i.Frames) * time.Second / time.Duration(i.SampleRate)
}

// Probe decodes the header of the WAV file at path without opening the speaker.
func Probe(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("open %s: %w", path, err)
	}
	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return Info{}, fmt.Errorf("decode %s: %w", path, err)
	}
	defer streamer.Close()

	return Info{
		SampleRate: int(format.SampleRate),
		Channels:   format.NumChannels,
		Frames:     streamer.Len(),
	}, nil
}

// Play starts looping the file at path, replacing whatever was playing.
func (p *Player) Play(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("decode %s: %w", path, err)
	}

	p.initSpeaker(format)
	if p.initErr != nil {
		streamer.Close()
		return fmt.Errorf("speaker init: %w", p.initErr)
	}

	var loop beep.Streamer = beep.Loop(-1, streamer)
	if format.SampleRate != p.rate {
		p.logf("preview: resampling %s from %d to %d", path, format.SampleRate, p.rate)
		loop = beep.Resample(resampleQuality, format.SampleRate, p.rate, loop)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	speaker.Clear()
	if p.streamer != nil {
		p.streamer.Close()
	}
	p.streamer = streamer
	p.current = path
	speaker.Play(loop)

	p.logf("preview: playing %s (%dHz, %dch, %d frames)", path, format.SampleRate, format.NumChannels, streamer.Len())
	return nil
}

// Stop silences playback. It is a no-op when nothing is playing.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.streamer == nil {
		return
	}
	speaker.Clear()
	p.streamer.Close()
	p.streamer = nil
	p.logf("preview: stopped %s", p.current)
	p.current = ""
}

// Current returns the path being played, or "".
func (p *Player) Current() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}
