// Package service implements the query layer that ties normalization and
// matching together. It is transport-agnostic: the HTTP server hands it raw
// Arabic text (typed or transcribed) and gets back ranked verse matches.
package service

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/ayahlens/ayahlens/internal/arabic"
	"github.com/ayahlens/ayahlens/internal/match"
	"github.com/ayahlens/ayahlens/internal/observe"
)

// Default matching parameters, applied when no option overrides them.
const (
	defaultTopN           = 5
	defaultScoreThreshold = 30
)

// Input labels the origin of a query for metrics.
type Input string

const (
	// InputAudio marks queries produced by the transcription pipeline.
	InputAudio Input = "audio"
	// InputText marks queries typed directly by the caller.
	InputText Input = "text"
)

// MatchResponse is the result of resolving one query against the corpus.
type MatchResponse struct {
	// OriginalTranscription is the raw query text before normalization,
	// echoed back so callers can show what was actually heard.
	OriginalTranscription string `json:"original_transcription"`

	// Matches holds the ranked verse matches, best first. Empty when no
	// verse cleared the score threshold.
	Matches []match.Result `json:"quran_matches"`
}

// Service resolves raw Arabic queries against the verse corpus. Read-only
// after construction; safe for concurrent use.
type Service struct {
	matcher        *match.Matcher
	topN           int
	scoreThreshold int
	metrics        *observe.Metrics
	log            *slog.Logger
}

// Option is a functional option for configuring a [Service].
type Option func(*Service)

// WithTopN sets how many matches a query returns at most. Values < 1 are
// ignored.
func WithTopN(n int) Option {
	return func(s *Service) {
		if n >= 1 {
			s.topN = n
		}
	}
}

// WithScoreThreshold sets the minimum similarity score (0..100) a verse
// must reach to be returned. Out-of-range values are ignored.
func WithScoreThreshold(t int) Option {
	return func(s *Service) {
		if t >= 0 && t <= 100 {
			s.scoreThreshold = t
		}
	}
}

// WithMetrics attaches metric instruments. Without it the service runs
// unobserved.
func WithMetrics(m *observe.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger sets the logger. Defaults to [slog.Default].
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// New creates a Service around the given matcher.
func New(m *match.Matcher, opts ...Option) *Service {
	s := &Service{
		matcher:        m,
		topN:           defaultTopN,
		scoreThreshold: defaultScoreThreshold,
		log:            slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Match normalizes rawText and resolves it against the corpus, returning
// the ranked matches together with the original text. A query that
// normalizes to nothing (or matches nothing above the threshold) yields a
// response with empty Matches and no error.
//
// The only error condition is [match.ErrInvalidParameters], which cannot
// occur with the validated defaults; it is surfaced for callers that
// construct the service with exotic options.
func (s *Service) Match(ctx context.Context, rawText string, input Input) (MatchResponse, error) {
	normalized := arabic.Normalize(rawText)

	start := time.Now()
	matches, err := s.matcher.FindMatches(normalized, s.topN, s.scoreThreshold)
	elapsed := time.Since(start)

	status := "ok"
	if err != nil {
		status = "error"
	}
	if s.metrics != nil {
		attrs := metric.WithAttributes(
			attribute.String("input", string(input)),
			attribute.String("status", status),
		)
		s.metrics.MatchDuration.Record(ctx, elapsed.Seconds(), attrs)
		s.metrics.Queries.Add(ctx, 1, attrs)
		if err == nil && len(matches) == 0 {
			s.metrics.EmptyResults.Add(ctx, 1,
				metric.WithAttributes(attribute.String("input", string(input))))
		}
	}
	if err != nil {
		return MatchResponse{}, err
	}

	s.log.DebugContext(ctx, "query resolved",
		slog.String("input", string(input)),
		slog.String("normalized", normalized),
		slog.Int("matches", len(matches)),
		slog.Duration("elapsed", elapsed),
	)

	return MatchResponse{
		OriginalTranscription: rawText,
		Matches:               matches,
	}, nil
}

// LookupSurah finds surahs whose name resembles the free-text query. The
// query may be Arabic or a Latin transliteration.
func (s *Service) LookupSurah(query string, limit int) []match.SurahMatch {
	return s.matcher.LookupSurah(query, limit)
}
