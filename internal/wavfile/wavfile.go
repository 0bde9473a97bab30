package wavfile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/Danondso/loopgen/internal/synth"
)

const (
	// BitDepth is the sample size of every file we write.
	BitDepth = 16
	// Channels is the channel count of every file we write.
	Channels = 2

	// scale maps [-1, 1] onto [-32767, 32767]; -32768 is never produced.
	scale = 32767

	pcmFormat = 1
)

// Quantize scales float samples by 32767 and truncates toward zero.
// Samples outside [-1, 1] are not clipped; they wrap like any int16 overflow.
func Quantize(samples []float64) []int {
	out := make([]int, len(samples))
	for i, s := range samples {
		out[i] = int(int16(int32(s * scale)))
	}
	return out
}

// writeSeeker is an in-memory io.WriteSeeker for WAV encoding.
type writeSeeker struct {
	buf []byte
	pos int
}

func (ws *writeSeeker) Write(p []byte) (int, error) {
	end := ws.pos + len(p)
	if end > len(ws.buf) {
		ws.buf = append(ws.buf, make([]byte, end-len(ws.buf))...)
	}
	copy(ws.buf[ws.pos:], p)
	ws.pos = end
	return len(p), nil
}

func (ws *writeSeeker) Seek(offset int64, whence int) (int64, error) {
	var newPos int
	switch whence {
	case 0: // io.SeekStart
		newPos = int(offset)
	case 1: // io.SeekCurrent
		newPos = ws.pos + int(offset)
	case 2: // io.SeekEnd
		newPos = len(ws.buf) + int(offset)
	default:
		return 0, fmt.Errorf("invalid whence: %d", whence)
	}
	if newPos < 0 || newPos > len(ws.buf) {
		return 0, fmt.Errorf("seek position %d out of bounds [0, %d]", newPos, len(ws.buf))
	}
	ws.pos = newPos
	return int64(ws.pos), nil
}

// EncodeWAV quantizes a stereo waveform and encodes it as 16-bit
// interleaved PCM WAV in memory.
func EncodeWAV(s synth.Stereo, sampleRate int) ([]byte, error) {
	if len(s.Left) != len(s.Right) {
		return nil, fmt.Errorf("channel length mismatch: left=%d right=%d", len(s.Left), len(s.Right))
	}

	ws := &writeSeeker{}

	intBuf := &audio.IntBuffer{
		Data: Quantize(s.Interleave()),
		Format: &audio.Format{
			SampleRate:  sampleRate,
			NumChannels: Channels,
		},
		SourceBitDepth: BitDepth,
	}

	enc := wav.NewEncoder(ws, sampleRate, BitDepth, Channels, pcmFormat)
	if err := enc.Write(intBuf); err != nil {
		return nil, fmt.Errorf("write wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("close wav encoder: %w", err)
	}

	return ws.buf, nil
}

// Write encodes s and stores it at path. The file is written to a temporary
// name in the same directory and renamed into place, so an interrupted run
// never leaves a truncated asset behind.
func Write(path string, s synth.Stereo, sampleRate int) error {
	data, err := EncodeWAV(s, sampleRate)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".loopgen-*.wav.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

// Audio is a decoded WAV file.
type Audio struct {
	Samples    []int16 // interleaved
	SampleRate int
	Channels   int
	BitDepth   int
}

// Frames returns the number of sample frames.
func (a *Audio) Frames() int {
	if a.Channels == 0 {
		return 0
	}
	return len(a.Samples) / a.Channels
}

// Channel extracts channel ch (0-based) as floats in [-1, 1].
func (a *Audio) Channel(ch int) []float64 {
	n := a.Frames()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = float64(a.Samples[i*a.Channels+ch]) / scale
	}
	return out
}

// DecodeWAV reads a WAV file from bytes.
func DecodeWAV(data []byte) (*Audio, error) {
	reader := bytes.NewReader(data)
	dec := wav.NewDecoder(reader)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file")
	}

	pcmBuf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}

	samples := make([]int16, len(pcmBuf.Data))
	for i, v := range pcmBuf.Data {
		samples[i] = int16(v)
	}

	return &Audio{
		Samples:    samples,
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
		BitDepth:   int(dec.BitDepth),
	}, nil
}

// ReadFile loads and decodes the WAV file at path.
func ReadFile(path string) (*Audio, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	a, err := DecodeWAV(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

// Header holds the fmt chunk fields of a canonical WAV file.
type Header struct {
	AudioFormat int
	SampleRate  int
	Channels    int
	BitDepth    int
	DataSize    int
}

// ValidateWAVHeader reads the RIFF/fmt/data headers of a canonical 44-byte
// header WAV file.
func ValidateWAVHeader(data []byte) (Header, error) {
	if len(data) < 44 {
		return Header{}, fmt.Errorf("data too short for WAV header")
	}

	r := bytes.NewReader(data)

	// read wraps binary.Read to capture the first error.
	var firstErr error
	read := func(v interface{}) {
		if firstErr != nil {
			return
		}
		firstErr = binary.Read(r, binary.LittleEndian, v)
	}

	var riffID [4]byte
	read(&riffID)
	if firstErr != nil {
		return Header{}, fmt.Errorf("read RIFF header: %w", firstErr)
	}
	if string(riffID[:]) != "RIFF" {
		return Header{}, fmt.Errorf("not a RIFF file")
	}

	var fileSize uint32
	read(&fileSize)

	var waveID [4]byte
	read(&waveID)
	if firstErr != nil {
		return Header{}, fmt.Errorf("read WAVE header: %w", firstErr)
	}
	if string(waveID[:]) != "WAVE" {
		return Header{}, fmt.Errorf("not a WAVE file")
	}

	var fmtID [4]byte
	read(&fmtID)

	var fmtSize uint32
	read(&fmtSize)

	var audioFormat, numChannels uint16
	read(&audioFormat)
	read(&numChannels)

	var sr, byteRate uint32
	var blockAlign, bitsPerSample uint16
	read(&sr)
	read(&byteRate)
	read(&blockAlign)
	read(&bitsPerSample)

	var dataID [4]byte
	var dataSize uint32
	read(&dataID)
	read(&dataSize)

	if firstErr != nil {
		return Header{}, fmt.Errorf("read WAV format: %w", firstErr)
	}
	if string(fmtID[:]) != "fmt " {
		return Header{}, fmt.Errorf("missing fmt chunk")
	}
	if string(dataID[:]) != "data" {
		return Header{}, fmt.Errorf("missing data chunk")
	}

	return Header{
		AudioFormat: int(audioFormat),
		SampleRate:  int(sr),
		Channels:    int(numChannels),
		BitDepth:    int(bitsPerSample),
		DataSize:    int(dataSize),
	}, nil
}
