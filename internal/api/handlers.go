package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/claims-risk-cli/internal/clean"
	"github.com/sells-group/claims-risk-cli/internal/model"
	"github.com/sells-group/claims-risk-cli/internal/pipeline"
	"github.com/sells-group/claims-risk-cli/internal/store"
)

const (
	defaultMaxUploadMB = 64
	multipartMemory    = 32 << 20
	defaultRunsLimit   = 50
)

var allowedExtensions = map[string]bool{
	".csv":  true,
	".xlsx": true,
	".xlsm": true,
}

// errorResponse is the JSON body of every non-2xx response.
type errorResponse struct {
	Error     string `json:"error"`
	RunID     string `json:"run_id,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleDetect accepts a multipart upload in the "file" field, runs every
// detector against it and returns the run summary.
func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	maxMB := s.cfg.MaxUploadMB
	if maxMB <= 0 {
		maxMB = defaultMaxUploadMB
	}
	limit := int64(maxMB) << 20
	if r.ContentLength > limit {
		s.writeError(w, r, eris.Errorf("upload exceeds %d MB", maxMB), http.StatusRequestEntityTooLarge, "")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			s.writeError(w, r, eris.Errorf("upload exceeds %d MB", maxMB), http.StatusRequestEntityTooLarge, "")
			return
		}
		s.writeError(w, r, eris.Wrap(err, "parse multipart form"), http.StatusBadRequest, "")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, r, eris.Wrap(err, "missing file field"), http.StatusBadRequest, "")
		return
	}
	defer file.Close() //nolint:errcheck

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		s.writeError(w, r, eris.Errorf("unsupported file type %q", ext), http.StatusUnsupportedMediaType, "")
		return
	}

	path, err := spool(file, ext)
	if err != nil {
		s.writeError(w, r, err, http.StatusInternalServerError, "")
		return
	}
	defer os.Remove(path) //nolint:errcheck

	res, err := s.detector.Run(r.Context(), path, pipeline.RunOptions{Source: filepath.Base(header.Filename)})
	if err != nil {
		runID := ""
		if res != nil {
			runID = res.RunID
		}
		status := http.StatusInternalServerError
		if errors.Is(err, clean.ErrNoHeader) {
			status = http.StatusUnprocessableEntity
		}
		s.writeError(w, r, err, status, runID)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, r, eris.New("run history is disabled"), http.StatusServiceUnavailable, "")
		return
	}

	q := r.URL.Query()
	filter := store.RunFilter{
		Status: model.RunStatus(q.Get("status")),
		Source: q.Get("source"),
		Limit:  parseIntParam(r, "limit", defaultRunsLimit),
		Offset: parseIntParam(r, "offset", 0),
	}

	runs, err := s.store.ListRuns(r.Context(), filter)
	if err != nil {
		s.writeError(w, r, err, http.StatusInternalServerError, "")
		return
	}
	if runs == nil {
		runs = []model.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, r, eris.New("run history is disabled"), http.StatusServiceUnavailable, "")
		return
	}

	id := chi.URLParam(r, "runID")
	run, err := s.store.GetRun(r.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrRunNotFound) {
			status = http.StatusNotFound
		}
		s.writeError(w, r, err, status, id)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// spool copies an upload to a temp file that keeps its extension, since the
// reader is chosen by extension.
func spool(src io.Reader, ext string) (string, error) {
	f, err := os.CreateTemp("", "claims-upload-*"+ext)
	if err != nil {
		return "", eris.Wrap(err, "api: create temp file")
	}
	if _, err := io.Copy(f, src); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", eris.Wrap(err, "api: write temp file")
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", eris.Wrap(err, "api: close temp file")
	}
	return f.Name(), nil
}

// parseIntParam parses a non-negative integer query parameter with a default.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 0 {
		return defaultVal
	}
	return i
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError logs the technical error server-side and writes a JSON error body.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, status int, runID string) {
	reqID := middleware.GetReqID(r.Context())
	log := zap.L().With(
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.String("request_id", reqID),
	)
	if status >= http.StatusInternalServerError {
		log.Error("api: request failed", zap.Error(err))
	} else {
		log.Warn("api: request rejected", zap.Error(err))
	}

	writeJSON(w, status, errorResponse{Error: err.Error(), RunID: runID, RequestID: reqID})
}
