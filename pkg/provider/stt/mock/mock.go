// Package mock provides an in-memory mock implementation of
// [stt.Transcriber] for use in unit tests.
//
// The mock records every call and allows the test to configure return
// values via exported fields. It is safe for concurrent use.
//
// Example:
//
//	tr := &mock.Transcriber{Text: "بسم الله الرحمن الرحيم"}
//	text, err := tr.Transcribe(ctx, "/tmp/upload.wav")
package mock

import (
	"context"
	"sync"

	"github.com/ayahlens/ayahlens/pkg/provider/stt"
)

// Compile-time interface assertion.
var _ stt.Transcriber = (*Transcriber)(nil)

// Transcriber is a mock implementation of [stt.Transcriber].
type Transcriber struct {
	mu sync.Mutex

	// Text is returned by [Transcriber.Transcribe] when Err is nil.
	Text string

	// Err, when non-nil, is returned by every Transcribe call.
	Err error

	// Calls accumulates the wavPath argument of every Transcribe call.
	Calls []string
}

// Transcribe records the call and returns the configured Text or Err.
func (t *Transcriber) Transcribe(ctx context.Context, wavPath string) (string, error) {
	t.mu.Lock()
	t.Calls = append(t.Calls, wavPath)
	t.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if t.Err != nil {
		return "", t.Err
	}
	return t.Text, nil
}
