package admin

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/iw2rmb/navedit/internal/logging"
	"github.com/iw2rmb/navedit/internal/store"
	"github.com/iw2rmb/navedit/jsondoc"
	"github.com/iw2rmb/navedit/navigation"
)

type documentResponse struct {
	Text   string            `json:"text"`
	Report navigation.Report `json:"report"`
}

type saveResponse struct {
	Saved  bool              `json:"saved"`
	Report navigation.Report `json:"report"`
}

type formatResponse struct {
	Text string `json:"text"`
}

type rejectResponse struct {
	Error  string            `json:"error"`
	Report navigation.Report `json:"report"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type indexResponse struct {
	User      string   `json:"user"`
	Document  string   `json:"document"`
	Endpoints []string `json:"endpoints"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFromContext(r.Context())
	resp := indexResponse{
		Document: filepath.Base(s.store.Path()),
		Endpoints: []string{
			"GET /admin/api/document",
			"PUT /admin/api/document",
			"GET /admin/api/document/download",
			"POST /admin/api/format",
			"GET /admin/api/schema",
			"GET /admin/ws",
		},
	}
	if sess != nil {
		resp.User = sess.User
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	text, ok := s.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, documentResponse{Text: text, Report: navigation.Evaluate(text)})
}

func (s *Server) handlePutDocument(w http.ResponseWriter, r *http.Request) {
	text, ok := s.readBody(w, r)
	if !ok {
		return
	}
	report := navigation.Evaluate(text)
	if valid, errs := jsondoc.Validate(text); !valid {
		writeJSON(w, http.StatusUnprocessableEntity, rejectResponse{Error: errs[0], Report: report})
		return
	}
	if err := s.store.Save(r.Context(), text); err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	sess, _ := SessionFromContext(r.Context())
	if sess != nil {
		s.logger.Info("document saved", logging.FieldUser, sess.User, logging.FieldValid, report.Valid)
	}
	writeJSON(w, http.StatusOK, saveResponse{Saved: true, Report: report})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	text, ok := s.load(w, r)
	if !ok {
		return
	}
	name := filepath.Base(s.store.Path())
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, text)
}

func (s *Server) handleFormat(w http.ResponseWriter, r *http.Request) {
	text, ok := s.readBody(w, r)
	if !ok {
		return
	}
	formatted, err := jsondoc.Format(text)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, rejectResponse{Error: err.Error(), Report: navigation.Evaluate(text)})
		return
	}
	writeJSON(w, http.StatusOK, formatResponse{Text: formatted})
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	schema, err := navigation.Schema()
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/schema+json")
	_, _ = w.Write(schema)
}

func (s *Server) load(w http.ResponseWriter, r *http.Request) (string, bool) {
	text, err := s.store.Load(r.Context())
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.fail(w, r, http.StatusNotFound, err)
		return "", false
	case err != nil:
		s.fail(w, r, http.StatusInternalServerError, err)
		return "", false
	}
	return text, true
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) (string, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDocumentBytes))
	if err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		s.fail(w, r, status, err)
		return "", false
	}
	return string(body), true
}

// fail logs err and writes it as a JSON error.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("admin request failed", logging.FieldPath, r.URL.Path, logging.FieldStatus, status, logging.FieldError, err)
	} else {
		s.logger.Warn("admin request refused", logging.FieldPath, r.URL.Path, logging.FieldStatus, status, logging.FieldError, err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
