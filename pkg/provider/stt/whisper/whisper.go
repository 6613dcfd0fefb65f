// Package whisper implements [stt.Transcriber] using the whisper.cpp CGO
// bindings. The whisper.cpp static library (libwhisper.a) and headers
// (whisper.h) must be available at link time via LIBRARY_PATH and
// C_INCLUDE_PATH environment variables.
//
// The model is loaded once at construction and shared across all calls;
// each call runs inference on its own whisper context, so concurrent
// transcriptions do not interfere.
package whisper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	whisperlib "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"

	"github.com/ayahlens/ayahlens/pkg/provider/stt"
)

// defaultLanguage is the transcription language when none is configured.
// Recitation audio is Arabic.
const defaultLanguage = "ar"

// Compile-time assertion that Transcriber satisfies stt.Transcriber.
var _ stt.Transcriber = (*Transcriber)(nil)

// Transcriber transcribes WAV files with a whisper.cpp model.
type Transcriber struct {
	model    whisperlib.Model
	language string
}

// Option is a functional option for configuring a [Transcriber].
type Option func(*Transcriber)

// WithLanguage sets the transcription language code (e.g., "ar", "en").
// Default: "ar".
func WithLanguage(lang string) Option {
	return func(t *Transcriber) {
		if lang != "" {
			t.language = lang
		}
	}
}

// New loads the whisper.cpp model from modelPath. The model is loaded once
// and shared across all concurrent calls. The caller must call Close when
// the transcriber is no longer needed.
func New(modelPath string, opts ...Option) (*Transcriber, error) {
	if modelPath == "" {
		return nil, errors.New("whisper: modelPath must not be empty")
	}
	model, err := whisperlib.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("whisper: load model %q: %w", modelPath, err)
	}

	t := &Transcriber{
		model:    model,
		language: defaultLanguage,
	}
	for _, o := range opts {
		o(t)
	}
	return t, nil
}

// Close releases the whisper model. Must be called when the transcriber is
// no longer needed.
func (t *Transcriber) Close() error {
	if t.model != nil {
		return t.model.Close()
	}
	return nil
}

// Transcribe reads the WAV file at wavPath, runs whisper.cpp inference on
// a fresh context, and returns the concatenated segment text.
func (t *Transcriber) Transcribe(ctx context.Context, wavPath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", stt.ErrTranscriptionFailed, err)
	}

	samples, err := readWAV(wavPath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", stt.ErrTranscriptionFailed, err)
	}

	// Each context is NOT thread-safe, but the model can be shared
	// across goroutines.
	wctx, err := t.model.NewContext()
	if err != nil {
		return "", fmt.Errorf("%w: create context: %v", stt.ErrTranscriptionFailed, err)
	}

	if err := wctx.SetLanguage(t.language); err != nil {
		slog.Warn("whisper: failed to set language, using default", "language", t.language, "error", err)
	}

	if err := wctx.Process(samples, nil, nil, nil); err != nil {
		return "", fmt.Errorf("%w: process audio: %v", stt.ErrTranscriptionFailed, err)
	}

	var parts []string
	for {
		segment, err := wctx.NextSegment()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: read segment: %v", stt.ErrTranscriptionFailed, err)
		}
		text := strings.TrimSpace(segment.Text)
		if text != "" {
			parts = append(parts, text)
		}
	}

	return strings.Join(parts, " "), nil
}
