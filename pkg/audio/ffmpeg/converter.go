// Package ffmpeg decodes arbitrary uploaded audio into the mono 16 kHz WAV
// format the transcription backend expects, by shelling out to the ffmpeg
// binary.
package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
)

// ErrConversionFailed is the sentinel wrapped by every conversion failure:
// unsupported container formats, corrupt payloads, or ffmpeg itself being
// unavailable.
var ErrConversionFailed = errors.New("ffmpeg: audio conversion failed")

// outputFileName is the decoded waveform file created inside the output
// directory.
const outputFileName = "processed_audio.wav"

// stderrTailLimit caps how much ffmpeg stderr is included in error
// messages.
const stderrTailLimit = 512

// Converter converts audio files via the ffmpeg binary. Read-only after
// construction; safe for concurrent use — each conversion runs its own
// subprocess.
type Converter struct {
	binPath    string
	sampleRate int
}

// Option is a functional option for configuring a [Converter].
type Option func(*Converter)

// WithBinary sets the ffmpeg executable path. Default: "ffmpeg" resolved
// via $PATH.
func WithBinary(path string) Option {
	return func(c *Converter) {
		if path != "" {
			c.binPath = path
		}
	}
}

// WithSampleRate sets the target sample rate in Hz. Default: 16000.
func WithSampleRate(rate int) Option {
	return func(c *Converter) {
		if rate > 0 {
			c.sampleRate = rate
		}
	}
}

// New returns a Converter configured with the supplied options.
func New(opts ...Option) *Converter {
	c := &Converter{
		binPath:    "ffmpeg",
		sampleRate: 16000,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// ToWAV converts the audio file at inputPath to a mono WAV at the
// configured sample rate and returns the output file path.
//
// When outputDir is empty a fresh temporary directory is created; the
// caller owns the returned file (and its directory, if temporary) and is
// responsible for removing it. ToWAV respects ctx: cancelling it kills the
// ffmpeg subprocess. On failure the returned error wraps
// [ErrConversionFailed] and includes the tail of ffmpeg's stderr.
func (c *Converter) ToWAV(ctx context.Context, inputPath, outputDir string) (string, error) {
	if outputDir == "" {
		dir, err := os.MkdirTemp("", "ayahlens-audio-")
		if err != nil {
			return "", fmt.Errorf("%w: create temp dir: %v", ErrConversionFailed, err)
		}
		outputDir = dir
	} else if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create output dir %q: %v", ErrConversionFailed, outputDir, err)
	}

	outputPath := filepath.Join(outputDir, outputFileName)

	cmd := exec.CommandContext(ctx, c.binPath,
		"-y", // overwrite output if it exists
		"-i", inputPath,
		"-ac", "1", // mono
		"-ar", strconv.Itoa(c.sampleRate),
		outputPath,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%w: %v (stderr: %s)", ErrConversionFailed, err, stderrTail(stderr.Bytes()))
	}
	return outputPath, nil
}

// stderrTail returns the last portion of ffmpeg's stderr output — the
// actionable message is at the end of its verbose log.
func stderrTail(out []byte) string {
	if len(out) > stderrTailLimit {
		out = out[len(out)-stderrTailLimit:]
	}
	return string(bytes.TrimSpace(out))
}
