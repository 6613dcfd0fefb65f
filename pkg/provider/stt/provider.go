// Package stt defines the Transcriber interface for speech-to-text
// backends.
//
// A transcriber takes a finished, decoded audio file (mono, 16 kHz WAV —
// the format produced by the ffmpeg converter) and returns its plain-text
// transcription. This is a one-shot batch operation: the recitation is
// uploaded whole, so there is no streaming session to manage.
//
// Implementations must be safe for concurrent use; multiple uploads may be
// transcribed simultaneously.
package stt

import (
	"context"
	"errors"
)

// ErrTranscriptionFailed is the sentinel wrapped by every transcription
// failure. Callers treat it as an input they cannot proceed from: it is
// propagated to the user, never retried automatically.
var ErrTranscriptionFailed = errors.New("stt: transcription failed")

// Transcriber is the abstraction over any speech-to-text backend.
type Transcriber interface {
	// Transcribe converts the audio file at wavPath into plain text.
	// The file must be a mono 16 kHz 16-bit PCM WAV. Transcribe respects
	// ctx for cancellation; on failure the returned error wraps
	// [ErrTranscriptionFailed].
	Transcribe(ctx context.Context, wavPath string) (string, error)
}
