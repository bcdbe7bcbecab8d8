package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/voxcheck/voxcheck/internal/observe"
	"github.com/voxcheck/voxcheck/pkg/analysis"
	"github.com/voxcheck/voxcheck/pkg/audio"
	"github.com/voxcheck/voxcheck/pkg/detect"
)

// uploadField is the multipart form field carrying the recording.
const uploadField = "file"

// allowedExtensions lists upload extensions the decoding layer accepts.
var allowedExtensions = map[string]bool{
	".wav": true,
}

// handleAnalyze runs the full pipeline for one upload: spool to a temp
// file, decode, normalize, extract, score, respond. The temp file is
// removed on every exit path. Failures never produce a partial result.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Analysis.RequestTimeout.Std())
	defer cancel()

	log := observe.Logger(ctx)
	start := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Analysis.MaxUploadBytes)
	file, header, err := r.FormFile(uploadField)
	if err != nil {
		s.failStage(ctx, "upload")
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload exceeds size limit")
			return
		}
		writeError(w, http.StatusBadRequest, "missing multipart field %q", uploadField)
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		s.failStage(ctx, "upload")
		writeError(w, http.StatusBadRequest, "unsupported file format %q", ext)
		return
	}

	// Wait for an analysis slot; extraction is CPU-bound and uncancellable
	// once started, so the cap is enforced before any decoding happens.
	if err := s.sem.Acquire(ctx, 1); err != nil {
		s.failStage(ctx, "upload")
		writeError(w, http.StatusServiceUnavailable, "analysis capacity exhausted")
		return
	}
	defer s.sem.Release(1)

	s.metrics.ActiveAnalyses.Add(ctx, 1)
	defer s.metrics.ActiveAnalyses.Add(ctx, -1)

	buf, err := s.spoolAndDecode(ctx, file, ext)
	if err != nil {
		s.failStage(ctx, "decode")
		log.Warn("decode failed", "file", header.Filename, "err", err)
		writeError(w, http.StatusUnprocessableEntity, "could not decode audio: %v", err)
		return
	}

	extractStart := time.Now()
	fs, err := analysis.Extract(buf)
	s.metrics.RecordDuration(ctx, s.metrics.ExtractDuration, time.Since(extractStart))
	if err != nil {
		s.failStage(ctx, "extract")
		log.Warn("extraction failed", "file", header.Filename, "err", err)
		writeError(w, http.StatusUnprocessableEntity, "could not analyze audio: %v", err)
		return
	}

	res := detect.Score(fs)

	s.metrics.RecordVerdict(ctx, string(res.Label))
	s.metrics.AnalysisDuration.Record(ctx, time.Since(start).Seconds())
	log.Info("analysis complete",
		"file", header.Filename,
		"clip", buf.Duration(),
		"probability", res.Probability,
		"label", res.Label,
		"duration", time.Since(start),
	)

	writeJSON(w, http.StatusOK, res)
}

// spoolAndDecode buffers the upload to a temp file, decodes it, and
// normalizes the result to the canonical analysis format. The temp file is
// always removed before returning.
func (s *Server) spoolAndDecode(ctx context.Context, upload io.Reader, ext string) (audio.Buffer, error) {
	tmp, err := os.CreateTemp("", "voxcheck-upload-*"+ext)
	if err != nil {
		return audio.Buffer{}, err
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if _, err := io.Copy(tmp, upload); err != nil {
		return audio.Buffer{}, err
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return audio.Buffer{}, err
	}

	decodeStart := time.Now()
	buf, err := audio.DecodeWAV(tmp)
	s.metrics.RecordDuration(ctx, s.metrics.DecodeDuration, time.Since(decodeStart))
	if err != nil {
		return audio.Buffer{}, err
	}
	return audio.Normalize(buf), nil
}

// failStage records a failed request attributed to one pipeline stage.
func (s *Server) failStage(ctx context.Context, stage string) {
	s.metrics.RecordFailure(ctx)
	s.metrics.RecordError(ctx, stage)
}
