package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/ayahlens/ayahlens/internal/match"
	"github.com/ayahlens/ayahlens/internal/service"
	"github.com/ayahlens/ayahlens/pkg/provider/stt"
)

// maxUploadBytes caps the size of one audio upload.
const maxUploadBytes = 25 << 20

// Error codes returned in the JSON error body.
const (
	codeInvalidParameters     = "invalid_parameters"
	codeAudioConversionFailed = "audio_conversion_failed"
	codeTranscriptionFailed   = "transcription_failed"
	codeSTTUnavailable        = "stt_unavailable"
	codeInternal              = "internal_error"
)

// errorResponse is the JSON body of every non-2xx response.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// matchTextRequest is the body of POST /match-text.
type matchTextRequest struct {
	Text string `json:"text"`
}

// surahsResponse is the body of GET /surahs.
type surahsResponse struct {
	Surahs []match.SurahMatch `json:"surahs"`
}

// handleMatchRecitation accepts a multipart audio upload under the
// "audio_file" field, converts it to WAV, transcribes it, and resolves the
// transcription against the corpus.
func (s *Server) handleMatchRecitation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if s.transcriber == nil || s.converter == nil {
		s.writeError(w, http.StatusServiceUnavailable, codeSTTUnavailable,
			"no transcription backend configured; use /match-text")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("audio_file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, codeInvalidParameters,
			"missing or unreadable audio_file upload")
		return
	}
	defer file.Close()

	// Stage the upload on disk; ffmpeg wants a file path. The whole working
	// directory is removed when the request ends.
	workDir, err := os.MkdirTemp("", "ayahlens-upload-")
	if err != nil {
		s.log.ErrorContext(ctx, "create upload dir", slog.String("error", err.Error()))
		s.writeError(w, http.StatusInternalServerError, codeInternal, "could not stage upload")
		return
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			s.log.WarnContext(ctx, "remove upload dir",
				slog.String("dir", workDir), slog.String("error", err.Error()))
		}
	}()

	uploadPath := filepath.Join(workDir, "upload"+sanitizeExt(header.Filename))
	if err := saveUpload(uploadPath, file); err != nil {
		s.log.ErrorContext(ctx, "stage upload", slog.String("error", err.Error()))
		s.writeError(w, http.StatusInternalServerError, codeInternal, "could not stage upload")
		return
	}

	convertStart := time.Now()
	wavPath, err := s.converter.ToWAV(ctx, uploadPath, workDir)
	s.recordConvert(ctx, time.Since(convertStart), err)
	if err != nil {
		s.log.WarnContext(ctx, "audio conversion failed",
			slog.String("file", header.Filename), slog.String("error", err.Error()))
		s.writeError(w, http.StatusBadRequest, codeAudioConversionFailed,
			"could not decode the uploaded audio")
		return
	}

	transcribeStart := time.Now()
	text, err := s.transcriber.Transcribe(ctx, wavPath)
	s.recordTranscribe(ctx, time.Since(transcribeStart), err)
	if err != nil {
		s.log.ErrorContext(ctx, "transcription failed", slog.String("error", err.Error()))
		status := http.StatusInternalServerError
		if errors.Is(err, stt.ErrTranscriptionFailed) {
			status = http.StatusBadGateway
		}
		s.writeError(w, status, codeTranscriptionFailed, "could not transcribe the recitation")
		return
	}

	resp, err := s.svc.Match(ctx, text, service.InputAudio)
	if err != nil {
		s.writeMatchError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// handleMatchText resolves a typed Arabic query against the corpus.
func (s *Server) handleMatchText(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req matchTextRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, codeInvalidParameters, "invalid JSON body")
		return
	}
	if req.Text == "" {
		s.writeError(w, http.StatusBadRequest, codeInvalidParameters, "text must not be empty")
		return
	}

	resp, err := s.svc.Match(ctx, req.Text, service.InputText)
	if err != nil {
		s.writeMatchError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// handleSurahs answers fuzzy surah name lookups: GET /surahs?q=fatiha&limit=5.
func (s *Server) handleSurahs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		s.writeError(w, http.StatusBadRequest, codeInvalidParameters, "q must not be empty")
		return
	}

	limit := 5
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.writeError(w, http.StatusBadRequest, codeInvalidParameters, "limit must be a positive integer")
			return
		}
		limit = n
	}

	matches := s.svc.LookupSurah(q, limit)
	if matches == nil {
		matches = []match.SurahMatch{}
	}
	s.writeJSON(w, http.StatusOK, surahsResponse{Surahs: matches})
}

// writeMatchError maps service errors onto HTTP statuses.
func (s *Server) writeMatchError(w http.ResponseWriter, err error) {
	if errors.Is(err, match.ErrInvalidParameters) {
		s.writeError(w, http.StatusBadRequest, codeInvalidParameters, err.Error())
		return
	}
	s.log.Error("match query failed", slog.String("error", err.Error()))
	s.writeError(w, http.StatusInternalServerError, codeInternal, "query failed")
}

func (s *Server) recordConvert(ctx context.Context, elapsed time.Duration, err error) {
	if s.metrics != nil {
		s.metrics.ConvertDuration.Record(ctx, elapsed.Seconds(), stageStatus(err))
	}
}

func (s *Server) recordTranscribe(ctx context.Context, elapsed time.Duration, err error) {
	if s.metrics != nil {
		s.metrics.TranscribeDuration.Record(ctx, elapsed.Seconds(), stageStatus(err))
	}
}

func stageStatus(err error) metric.RecordOption {
	status := "ok"
	if err != nil {
		status = "error"
	}
	return metric.WithAttributes(attribute.String("status", status))
}

// saveUpload streams the multipart part to path.
func saveUpload(path string, src io.Reader) error {
	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return err
	}
	return dst.Close()
}

// sanitizeExt returns the upload's file extension when it looks safe, so
// ffmpeg gets a format hint; anything suspicious is dropped.
func sanitizeExt(filename string) string {
	ext := filepath.Ext(filepath.Base(filename))
	if ext == "" || len(ext) > 8 {
		return ""
	}
	for _, r := range ext[1:] {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return ""
		}
	}
	return ext
}

// writeJSON encodes v with the given status.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("encode response", slog.String("error", err.Error()))
	}
}

// writeError emits the JSON error body.
func (s *Server) writeError(w http.ResponseWriter, status int, code, message string) {
	s.writeJSON(w, status, errorResponse{Code: code, Message: message})
}
