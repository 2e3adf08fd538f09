package apiutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/codr1/courtside/internal/apperr"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperr.Validation("bad"), http.StatusBadRequest},
		{FieldError{Field: "date", Reason: "is required"}, http.StatusBadRequest},
		{apperr.NotFound("reservation", 4), http.StatusNotFound},
		{apperr.ErrPriceNotConfigured, http.StatusNotFound},
		{apperr.Conflict("taken"), http.StatusConflict},
		{apperr.Transition("paid", "cancelled"), http.StatusConflict},
		{fmt.Errorf("wrapped: %w", apperr.ErrInternal), http.StatusInternalServerError},
		{HandlerError{Status: http.StatusTeapot, Message: "tea"}, http.StatusTeapot},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := StatusForError(tt.err); got != tt.want {
			t.Fatalf("StatusForError(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestWriteErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	WriteError(rec, req, apperr.Internal("load reservation", errors.New("disk I/O error")))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "disk") {
		t.Fatalf("body leaks detail: %s", rec.Body.String())
	}
}

func TestWriteErrorIncludesField(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	WriteError(rec, req, FieldError{Field: "courtId", Reason: "is required"})

	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.Code != http.StatusBadRequest || body.Field != "courtId" {
		t.Fatalf("status = %d body = %+v", rec.Code, body)
	}
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"name":"ana"}`, false},
		{"unknown field", `{"name":"ana","role":"admin"}`, true},
		{"trailing data", `{"name":"ana"}{}`, true},
		{"empty", ``, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst payload
			err := DecodeJSON(req, &dst)
			if tt.wantErr {
				if !errors.Is(err, apperr.ErrValidation) {
					t.Fatalf("err = %v, want validation", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeJSON: %v", err)
			}
		})
	}
}
