// Command ayahlens serves the Quran recitation matching API: it transcribes
// uploaded recitations, resolves them against the verse corpus, and returns
// ranked matches.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/ayahlens/ayahlens/internal/config"
	"github.com/ayahlens/ayahlens/internal/corpus"
	"github.com/ayahlens/ayahlens/internal/match"
	"github.com/ayahlens/ayahlens/internal/observe"
	"github.com/ayahlens/ayahlens/internal/server"
	"github.com/ayahlens/ayahlens/internal/service"
	"github.com/ayahlens/ayahlens/pkg/audio/ffmpeg"
	"github.com/ayahlens/ayahlens/pkg/provider/stt/whisper"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "ayahlens: config file %q not found — copy configs/example.yaml to get started\n", *configPath)
		} else {
			fmt.Fprintf(os.Stderr, "ayahlens: %v\n", err)
		}
		return 1
	}

	logger := newLogger(cfg.Server.LogLevel)
	slog.SetDefault(logger)

	slog.Info("ayahlens starting",
		"version", version,
		"config", *configPath,
		"listen_addr", cfg.Server.ListenAddr,
		"log_level", cfg.Server.LogLevel,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Observability ─────────────────────────────────────────────────────────
	otelShutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{
		ServiceName:    "ayahlens",
		ServiceVersion: version,
	})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	defer func() {
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(shCtx); err != nil {
			slog.Warn("telemetry shutdown error", "err", err)
		}
	}()

	metrics, err := observe.NewMetrics(otel.GetMeterProvider())
	if err != nil {
		slog.Error("failed to create metrics", "err", err)
		return 1
	}

	// ── Corpus ────────────────────────────────────────────────────────────────
	verses, err := loadCorpus(ctx, cfg.Corpus)
	if err != nil {
		slog.Error("failed to load corpus", "err", err)
		return 1
	}
	metrics.CorpusVerses.Add(ctx, int64(verses.Len()))
	slog.Info("corpus loaded", "verses", verses.Len(), "surahs", len(verses.Surahs()))

	// ── Query pipeline ────────────────────────────────────────────────────────
	matcher := match.New(verses, match.WithOversample(cfg.Matcher.Oversample))
	svc := service.New(matcher,
		service.WithTopN(cfg.Matcher.TopN),
		service.WithScoreThreshold(cfg.Matcher.ScoreThreshold),
		service.WithMetrics(metrics),
	)

	// ── Collaborators ─────────────────────────────────────────────────────────
	serverOpts := []server.Option{
		server.WithMetrics(metrics),
		server.WithConverter(ffmpeg.New(
			ffmpeg.WithBinary(cfg.Audio.FFmpegPath),
			ffmpeg.WithSampleRate(cfg.Audio.SampleRate),
		)),
	}

	if cfg.STT.ModelPath != "" {
		transcriber, err := whisper.New(cfg.STT.ModelPath, whisper.WithLanguage(cfg.STT.Language))
		if err != nil {
			slog.Error("failed to load whisper model", "path", cfg.STT.ModelPath, "err", err)
			return 1
		}
		defer func() {
			if err := transcriber.Close(); err != nil {
				slog.Warn("whisper model close error", "err", err)
			}
		}()
		serverOpts = append(serverOpts, server.WithTranscriber(transcriber))
		slog.Info("whisper model loaded", "path", cfg.STT.ModelPath, "language", cfg.STT.Language)
	} else {
		slog.Warn("no STT model configured — /match-recitation disabled, /match-text still available")
	}

	// ── Serve ─────────────────────────────────────────────────────────────────
	srv := server.New(cfg.Server, svc, serverOpts...)

	slog.Info("server ready — press Ctrl+C to shut down")
	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("run error", "err", err)
		return 1
	}

	slog.Info("goodbye")
	return 0
}

// loadCorpus assembles the configured acquisition chain: remote first, local
// fallback copy second.
func loadCorpus(ctx context.Context, cfg config.CorpusConfig) (*corpus.Corpus, error) {
	var sources []corpus.Source
	if cfg.RemoteURL != "" {
		sources = append(sources, corpus.NewRemoteSource(cfg.RemoteURL,
			corpus.WithFetchTimeout(cfg.FetchTimeout)))
	}
	if cfg.LocalPath != "" {
		sources = append(sources, corpus.NewFileSource(cfg.LocalPath))
	}
	if len(sources) == 0 {
		return nil, errors.New("no corpus source configured")
	}
	return corpus.Load(ctx, corpus.Fallback(sources...))
}

// newLogger builds a text slog logger honouring the configured level.
func newLogger(level config.LogLevel) *slog.Logger {
	var l slog.Level
	switch level {
	case config.LogDebug:
		l = slog.LevelDebug
	case config.LogWarn:
		l = slog.LevelWarn
	case config.LogError:
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}
