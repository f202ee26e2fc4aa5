package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRespondJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondJSON(rec, http.StatusCreated, map[string]string{"name": "test"})

	if rec.Code != http.StatusCreated {
		t.Errorf("status: got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type: got %s", ct)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["name"] != "test" {
		t.Errorf("body: got %v", body)
	}
}

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, discardLogger(), http.StatusNotFound, errors.New("thing not found"))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d", rec.Code)
	}

	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body.Success {
		t.Error("success should be false")
	}
	if body.Error.Message != "thing not found" {
		t.Errorf("message: got %q", body.Error.Message)
	}
	if body.Error.Code != "NOT_FOUND" {
		t.Errorf("code: got %q", body.Error.Code)
	}
}

func TestRespondValidation(t *testing.T) {
	type payload struct {
		Name string `validate:"required"`
		Age  int    `validate:"min=1"`
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	err := validate.Struct(payload{})
	if err == nil {
		t.Fatal("expected validation errors")
	}

	rec := httptest.NewRecorder()
	RespondValidation(rec, discardLogger(), err)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status: got %d, expected 422", rec.Code)
	}

	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("code: got %q", body.Error.Code)
	}
	if len(body.Details) != 2 {
		t.Errorf("details: got %d entries, expected 2", len(body.Details))
	}
}

func TestRespondValidationNonValidationError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondValidation(rec, discardLogger(), errors.New("plain error"))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, expected 400", rec.Code)
	}
}
