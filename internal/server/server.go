// Package server exposes the recitation-matching service over HTTP.
//
// Routes:
//
//	POST /match-recitation  multipart audio upload → transcribe → match
//	POST /match-text        JSON text query → match
//	GET  /surahs            fuzzy surah name lookup
//	GET  /healthz, /readyz  probes
//	GET  /metrics           Prometheus scrape endpoint
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/ayahlens/ayahlens/internal/config"
	"github.com/ayahlens/ayahlens/internal/health"
	"github.com/ayahlens/ayahlens/internal/observe"
	"github.com/ayahlens/ayahlens/internal/service"
	"github.com/ayahlens/ayahlens/pkg/provider/stt"
)

// shutdownTimeout bounds graceful connection draining on exit.
const shutdownTimeout = 10 * time.Second

// AudioConverter decodes an uploaded audio file into a WAV the transcriber
// accepts. Implemented by [ffmpeg.Converter].
type AudioConverter interface {
	ToWAV(ctx context.Context, inputPath, outputDir string) (string, error)
}

// Server wires the HTTP transport to the query service and its
// collaborators. Construct with [New]; run with [Server.Run].
type Server struct {
	cfg         config.ServerConfig
	svc         *service.Service
	converter   AudioConverter
	transcriber stt.Transcriber
	metrics     *observe.Metrics
	log         *slog.Logger
}

// Option is a functional option for configuring a [Server].
type Option func(*Server)

// WithTranscriber attaches the speech-to-text backend. Without it the
// audio endpoint answers 503 and only text queries work.
func WithTranscriber(t stt.Transcriber) Option {
	return func(s *Server) { s.transcriber = t }
}

// WithConverter sets the audio converter used for uploads.
func WithConverter(c AudioConverter) Option {
	return func(s *Server) { s.converter = c }
}

// WithMetrics attaches metric instruments.
func WithMetrics(m *observe.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithLogger sets the logger. Defaults to [slog.Default].
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// New creates a Server around the given query service.
func New(cfg config.ServerConfig, svc *service.Service, opts ...Option) *Server {
	s := &Server{
		cfg: cfg,
		svc: svc,
		log: slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Handler builds the full middleware and routing stack.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	if s.metrics != nil {
		r.Use(observe.Middleware(s.metrics))
	}
	r.Use(corsMiddleware(s.cfg.CORSAllowedOrigins))
	if s.cfg.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(s.cfg.RequestTimeout))
	}

	health.New(s.readinessChecks()...).Register(r)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Post("/match-recitation", s.handleMatchRecitation)
	r.Post("/match-text", s.handleMatchText)
	r.Get("/surahs", s.handleSurahs)

	return r
}

// readinessChecks reports the availability of optional collaborators. The
// corpus is always ready once the process is up — loading it is a startup
// precondition.
func (s *Server) readinessChecks() []health.Checker {
	return []health.Checker{
		{Name: "stt", Check: func(context.Context) error {
			if s.transcriber == nil {
				return errors.New("no transcription backend configured")
			}
			return nil
		}},
	}
}

// Run serves HTTP until ctx is cancelled, then drains connections
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.ListenAddr,
		Handler: s.Handler(),
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("http server listening", slog.String("addr", s.cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.log.Info("http server shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
