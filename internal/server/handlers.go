package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/tinyteacher/internal/app"
	"github.com/hyperifyio/tinyteacher/internal/lesson"
	"github.com/hyperifyio/tinyteacher/internal/share"
	"github.com/hyperifyio/tinyteacher/internal/source"
	"github.com/hyperifyio/tinyteacher/internal/store"
)

type generateRequest struct {
	Text  string `json:"text"`
	URL   string `json:"url"`
	Level string `json:"level"`
}

type generateResponse struct {
	Seq       uint64 `json:"seq"`
	Title     string `json:"title,omitempty"`
	SourceURL string `json:"sourceUrl,omitempty"`
	lesson.Bundle
}

type simplifyRequest struct {
	Level string `json:"level"`
}

type importRequest struct {
	Link string `json:"link"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) generate(w http.ResponseWriter, r *http.Request) (lesson.Result, bool) {
	var req generateRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return lesson.Result{}, false
	}
	level, err := s.app.ParseLevel(req.Level)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return lesson.Result{}, false
	}
	gen := s.generator(sessionFrom(r.Context()))
	res, err := gen.Generate(r.Context(), s.app.ResolveFunc(source.Request{Text: req.Text, URL: req.URL}, level))
	if err != nil {
		writeAppError(w, err)
		return lesson.Result{}, false
	}
	return res, true
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	res, ok := s.generate(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, generateResponse{
		Seq:       res.Seq,
		Title:     res.Input.Title,
		SourceURL: res.Input.URL,
		Bundle:    res.Bundle,
	})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	res, ok := s.generate(w, r)
	if !ok {
		return
	}
	l, err := s.app.Save(r.Context(), res)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	l, err := s.app.Import(r.Context(), req.Link)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := s.app.Lessons(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}
	if list == nil {
		list = []lesson.Lesson{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	l, err := s.app.Lesson(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.app.DeleteLesson(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSimplify(w http.ResponseWriter, r *http.Request) {
	var req simplifyRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	level, err := s.app.ParseLevel(req.Level)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	l, err := s.app.Resimplify(r.Context(), chi.URLParam(r, "id"), level)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleMarkdown(w http.ResponseWriter, r *http.Request) {
	md, err := s.app.Markdown(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	_, _ = w.Write([]byte(md))
}

func (s *Server) handlePDF(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var buf bytes.Buffer
	if err := s.app.WritePDF(r.Context(), id, &buf); err != nil {
		writeAppError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "lesson-"+id+".pdf"))
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	link, err := s.app.ShareLink(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"link": link})
}

func (s *Server) handleQR(w http.ResponseWriter, r *http.Request) {
	size := share.DefaultQRSize
	if v := r.URL.Query().Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 64 || n > 2048 {
			writeError(w, http.StatusBadRequest, errors.New("size must be between 64 and 2048"))
			return
		}
		size = n
	}
	png, _, err := s.app.QRCode(r.Context(), chi.URLParam(r, "id"), size)
	if err != nil {
		writeAppError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug().Err(err).Msg("write response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// writeAppError maps sentinel errors to status codes. Anything unexpected is
// logged and reported as 500.
func writeAppError(w http.ResponseWriter, err error) {
	switch {
	case app.IsInputError(err):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, lesson.ErrBusy):
		writeError(w, http.StatusConflict, err)
	default:
		log.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, errors.New("internal error"))
	}
}
