package apiutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/codr1/courtside/internal/apperr"
)

// FieldError reports one invalid request field. It matches apperr.ErrValidation.
type FieldError struct {
	Field  string
	Reason string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e FieldError) Unwrap() error {
	return apperr.ErrValidation
}

// HandlerError carries an explicit status out of a transaction callback.
type HandlerError struct {
	Status  int
	Message string
	Err     error
}

func (e HandlerError) Error() string {
	return e.Message
}

func (e HandlerError) Unwrap() error {
	return e.Err
}

type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return apperr.Validation("missing request body")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Validation("missing request body")
		}
		return apperr.Validation("invalid JSON body: %v", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return apperr.Validation("invalid JSON body")
	}
	return nil
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	if err := encoder.Encode(payload); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}

// StatusForError maps the error taxonomy onto HTTP status codes.
func StatusForError(err error) int {
	var handlerErr HandlerError
	if errors.As(err, &handlerErr) && handlerErr.Status != 0 {
		return handlerErr.Status
	}
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrSlotConflict), errors.Is(err, apperr.ErrInvalidTransition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WriteError logs err and writes it as a JSON error body. Internal failures
// are reported without detail.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusForError(err)
	logger := log.Ctx(r.Context())

	response := ErrorResponse{Error: err.Error()}
	var fieldErr FieldError
	if errors.As(err, &fieldErr) {
		response.Field = fieldErr.Field
	}
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		response = ErrorResponse{Error: "internal server error"}
	} else {
		logger.Debug().Err(err).Int("status", status).Msg("Request rejected")
	}

	if writeErr := WriteJSON(w, status, response); writeErr != nil {
		logger.Error().Err(writeErr).Msg("Failed to write error response")
	}
}
