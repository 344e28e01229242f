package httpapi

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-settingspage/internal/metrics"
	"github.com/goliatone/go-settingspage/pkg/page"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.controller.Index(r.Context(), &buf); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("render index")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", s.controller.ContentType())
	_, _ = w.Write(buf.Bytes())
}

// handlePage renders the settings page. Callers without the capability get
// 403 with an empty body.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")

	allowed, err := s.controller.Authorized(ctx, slug)
	if errors.Is(err, page.ErrUnknownPage) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.internalError(w, r, err, "authorize page")
		return
	}
	if !allowed {
		s.metrics.RecordRender(true)
		w.WriteHeader(http.StatusForbidden)
		return
	}

	var buf bytes.Buffer
	err = s.controller.Render(ctx, &buf, page.Request{
		Slug:            slug,
		SettingsUpdated: r.URL.Query().Get(page.SettingsUpdatedParam) == "true",
		CSRFToken:       TokenFromContext(ctx),
		Referer:         r.URL.RequestURI(),
	})
	if err != nil {
		s.internalError(w, r, err, "render page")
		return
	}
	s.metrics.RecordRender(false)
	w.Header().Set("Content-Type", s.controller.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

// handleSubmit applies a posted settings form and redirects back with 303.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		s.metrics.RecordSubmit("form", metrics.OutcomeInvalid)
		http.Error(w, "malformed form", http.StatusBadRequest)
		return
	}

	res, err := s.controller.Submit(r.Context(), page.SubmissionFromForm(r.PostForm))
	switch {
	case err == nil:
		s.metrics.RecordSubmit("form", metrics.OutcomeSaved)
		http.Redirect(w, r, res.Redirect, http.StatusSeeOther)
	case errors.Is(err, page.ErrForbidden):
		s.metrics.RecordSubmit("form", metrics.OutcomeForbidden)
		http.Error(w, "Sorry, you are not allowed to manage options for this site.", http.StatusForbidden)
	case errors.Is(err, page.ErrInvalidToken):
		s.metrics.RecordSubmit("form", metrics.OutcomeInvalidToken)
		http.Error(w, "The link you followed has expired.", http.StatusForbidden)
	case errors.Is(err, page.ErrUnknownOptionPage), errors.Is(err, page.ErrUnsupportedAction):
		s.metrics.RecordSubmit("form", metrics.OutcomeInvalid)
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		s.metrics.RecordSubmit("form", metrics.OutcomeError)
		s.internalError(w, r, err, "submit settings")
	}
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	zerolog.Ctx(r.Context()).Error().Err(err).Msg(msg)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
