// Package config provides the configuration schema and loader for the
// ayahlens recitation-matching server.
package config

import "time"

// LogLevel controls log verbosity for the server.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Config is the root configuration structure for ayahlens.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Corpus  CorpusConfig  `yaml:"corpus"`
	Matcher MatcherConfig `yaml:"matcher"`
	STT     STTConfig     `yaml:"stt"`
	Audio   AudioConfig   `yaml:"audio"`
}

// ServerConfig holds network and logging settings.
type ServerConfig struct {
	// ListenAddr is the TCP address the server listens on (e.g., ":8000").
	ListenAddr string `yaml:"listen_addr"`

	// LogLevel controls verbosity.
	LogLevel LogLevel `yaml:"log_level"`

	// RequestTimeout is the overall deadline for one match-recitation
	// request, covering upload handling, audio conversion, transcription,
	// and matching.
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// CORSAllowedOrigins lists origins allowed by the CORS middleware.
	// ["*"] allows any origin.
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
}

// CorpusConfig describes where the verse corpus is acquired from.
// The remote URL is tried first; on any failure the local path is used.
type CorpusConfig struct {
	// RemoteURL is the HTTP(S) location of the corpus JSON document.
	RemoteURL string `yaml:"remote_url"`

	// FetchTimeout bounds one remote fetch attempt.
	FetchTimeout time.Duration `yaml:"fetch_timeout"`

	// LocalPath is the local fallback copy of the corpus document.
	LocalPath string `yaml:"local_path"`
}

// MatcherConfig holds the matching parameters. These are tuning knobs, not
// invariants — the defaults are empirically chosen.
type MatcherConfig struct {
	// TopN is the maximum number of matches returned per query.
	TopN int `yaml:"top_n"`

	// ScoreThreshold is the minimum confidence, in [1, 100], for a match
	// to be returned. Zero (or absent) selects the default of 30; callers
	// needing an unfiltered result list use the matcher API directly.
	ScoreThreshold int `yaml:"score_threshold"`

	// Oversample is the candidate over-fetch multiplier applied before
	// deduplication.
	Oversample int `yaml:"oversample"`
}

// STTConfig selects and configures the speech-to-text backend.
type STTConfig struct {
	// ModelPath is the path to the whisper.cpp model file. When empty,
	// transcription is disabled and only the text query endpoint works.
	ModelPath string `yaml:"model_path"`

	// Language is the transcription language code. Default: "ar".
	Language string `yaml:"language"`
}

// AudioConfig configures the ffmpeg-based audio decoding collaborator.
type AudioConfig struct {
	// FFmpegPath is the ffmpeg executable. Default: "ffmpeg" via $PATH.
	FFmpegPath string `yaml:"ffmpeg_path"`

	// SampleRate is the target sample rate for decoded audio. Must match
	// what the STT model expects. Default: 16000.
	SampleRate int `yaml:"sample_rate"`
}
