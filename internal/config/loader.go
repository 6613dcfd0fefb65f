package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied by [LoadFromReader] for fields left empty in the file.
const (
	DefaultListenAddr     = ":8000"
	DefaultRequestTimeout = 60 * time.Second
	DefaultCorpusURL      = "https://cdn.jsdelivr.net/npm/quran-json@3.1.2/dist/quran.json"
	DefaultFetchTimeout   = 10 * time.Second
	DefaultLocalPath      = "quran_backup.json"
	DefaultTopN           = 5
	DefaultScoreThreshold = 30
	DefaultOversample     = 3
	DefaultLanguage       = "ar"
	DefaultFFmpegPath     = "ffmpeg"
	DefaultSampleRate     = 16000
)

// Load reads the YAML configuration file at path and returns a validated
// [Config]. It is a convenience wrapper around [LoadFromReader].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r, fills in defaults, and
// validates the result. Useful in tests where configs are constructed from
// string literals. Unknown fields in the document are an error.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults fills empty fields with their documented defaults.
func applyDefaults(cfg *Config) {
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = DefaultListenAddr
	}
	if cfg.Server.LogLevel == "" {
		cfg.Server.LogLevel = LogInfo
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = DefaultRequestTimeout
	}
	if len(cfg.Server.CORSAllowedOrigins) == 0 {
		cfg.Server.CORSAllowedOrigins = []string{"*"}
	}
	if cfg.Corpus.RemoteURL == "" && cfg.Corpus.LocalPath == "" {
		cfg.Corpus.RemoteURL = DefaultCorpusURL
		cfg.Corpus.LocalPath = DefaultLocalPath
	}
	if cfg.Corpus.FetchTimeout == 0 {
		cfg.Corpus.FetchTimeout = DefaultFetchTimeout
	}
	if cfg.Matcher.TopN == 0 {
		cfg.Matcher.TopN = DefaultTopN
	}
	if cfg.Matcher.ScoreThreshold == 0 {
		cfg.Matcher.ScoreThreshold = DefaultScoreThreshold
	}
	if cfg.Matcher.Oversample == 0 {
		cfg.Matcher.Oversample = DefaultOversample
	}
	if cfg.STT.Language == "" {
		cfg.STT.Language = DefaultLanguage
	}
	if cfg.Audio.FFmpegPath == "" {
		cfg.Audio.FFmpegPath = DefaultFFmpegPath
	}
	if cfg.Audio.SampleRate == 0 {
		cfg.Audio.SampleRate = DefaultSampleRate
	}
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}
	if cfg.Server.RequestTimeout < 0 {
		errs = append(errs, fmt.Errorf("server.request_timeout %s must not be negative", cfg.Server.RequestTimeout))
	}

	if cfg.Corpus.RemoteURL == "" && cfg.Corpus.LocalPath == "" {
		errs = append(errs, errors.New("corpus: at least one of remote_url and local_path is required"))
	}
	if cfg.Corpus.FetchTimeout < 0 {
		errs = append(errs, fmt.Errorf("corpus.fetch_timeout %s must not be negative", cfg.Corpus.FetchTimeout))
	}

	if cfg.Matcher.TopN <= 0 {
		errs = append(errs, fmt.Errorf("matcher.top_n %d must be positive", cfg.Matcher.TopN))
	}
	if cfg.Matcher.ScoreThreshold < 0 || cfg.Matcher.ScoreThreshold > 100 {
		errs = append(errs, fmt.Errorf("matcher.score_threshold %d is out of range [0, 100]", cfg.Matcher.ScoreThreshold))
	}
	if cfg.Matcher.Oversample < 1 {
		errs = append(errs, fmt.Errorf("matcher.oversample %d must be at least 1", cfg.Matcher.Oversample))
	}

	if cfg.Audio.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("audio.sample_rate %d must be positive", cfg.Audio.SampleRate))
	}

	if cfg.STT.ModelPath == "" {
		slog.Warn("stt.model_path is empty; audio uploads will be rejected, only text queries are served")
	}

	return errors.Join(errs...)
}
