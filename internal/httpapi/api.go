package httpapi

import (
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-settingspage/internal/metrics"
	"github.com/goliatone/go-settingspage/pkg/page"
	"github.com/goliatone/go-settingspage/pkg/schema"
)

func (s *Server) handleSchema(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, schema.Document(s.schemaVersion))
}

func (s *Server) handleGetOptions(w http.ResponseWriter, r *http.Request) {
	record, err := s.controller.Load(r.Context())
	if errors.Is(err, page.ErrForbidden) {
		writeError(w, http.StatusForbidden, "forbidden", "")
		return
	}
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("load options")
		writeError(w, http.StatusInternalServerError, "internal_error", "")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// handlePutOptions overwrites the record with a schema-valid JSON object.
func (s *Server) handlePutOptions(w http.ResponseWriter, r *http.Request) {
	if allowed, err := s.controller.Authorized(r.Context(), ""); err != nil || !allowed {
		s.metrics.RecordSubmit("api", metrics.OutcomeForbidden)
		writeError(w, http.StatusForbidden, "forbidden", "")
		return
	}
	if mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err != nil || mediaType != "application/json" {
		s.metrics.RecordSubmit("api", metrics.OutcomeInvalid)
		writeError(w, http.StatusUnsupportedMediaType, "unsupported_media_type", "expected application/json")
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.metrics.RecordSubmit("api", metrics.OutcomeInvalid)
		writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "")
		return
	}
	record, err := schema.Validate(body)
	if err != nil {
		s.metrics.RecordSubmit("api", metrics.OutcomeInvalid)
		writeError(w, http.StatusBadRequest, "invalid_record", err.Error())
		return
	}

	saved, err := s.controller.Replace(r.Context(), record)
	switch {
	case err == nil:
		s.metrics.RecordSubmit("api", metrics.OutcomeSaved)
		writeJSON(w, http.StatusOK, saved)
	case errors.Is(err, page.ErrForbidden):
		s.metrics.RecordSubmit("api", metrics.OutcomeForbidden)
		writeError(w, http.StatusForbidden, "forbidden", "")
	default:
		s.metrics.RecordSubmit("api", metrics.OutcomeError)
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("replace options")
		writeError(w, http.StatusInternalServerError, "internal_error", "")
	}
}
