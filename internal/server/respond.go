package server

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"

	"github.com/matzehuels/poolkit/pkg/diagram"
	"github.com/matzehuels/poolkit/pkg/errors"
	"github.com/matzehuels/poolkit/pkg/session"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"code":  code,
		"error": message,
	})
}

// writeErr maps err to a status code and writes it.
func writeErr(w http.ResponseWriter, err error) {
	status, code := errorStatus(err)
	writeError(w, status, code, errors.UserMessage(err))
}

func errorStatus(err error) (int, string) {
	switch {
	case stderrors.Is(err, session.ErrNotFound):
		return http.StatusNotFound, string(errors.ErrCodeNotFound)
	case stderrors.Is(err, session.ErrConflict):
		return http.StatusConflict, "CONFLICT"
	}

	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge, string(errors.ErrCodeInvalidInput)
	}

	switch code := errors.GetCode(err); code {
	case errors.ErrCodeStructural:
		return http.StatusUnprocessableEntity, string(code)
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidPath,
		errors.ErrCodeInvalidID, errors.ErrCodeUnsupported:
		return http.StatusBadRequest, string(code)
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound, string(code)
	default:
		return http.StatusInternalServerError, string(errors.ErrCodeInternal)
	}
}

// decodeBody decodes a JSON request body, rejecting unknown fields.
func decodeBody(r *http.Request, target any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return err
		}
		if stderrors.Is(err, io.EOF) {
			return errors.New(errors.ErrCodeInvalidInput, "request body is empty")
		}
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request")
	}
	return nil
}

// decodeDocument decodes an embedded document with the same rules as
// document files.
func decodeDocument(raw json.RawMessage) (*diagram.Document, error) {
	if len(raw) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "missing document")
	}
	doc, err := diagram.Decode(raw, diagram.FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("document: %w", err)
	}
	return doc, nil
}
