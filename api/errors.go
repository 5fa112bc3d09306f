package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

// User facing messages for transport and backend failures
const (
	MsgInvalidData     = "Data yang dikirim tidak valid"
	MsgUnauthorized    = "Tidak memiliki akses"
	MsgForbidden       = "Akses ditolak"
	MsgNotFound        = "Endpoint tidak ditemukan"
	MsgFileTooLarge    = "File terlalu besar"
	MsgUnprocessable   = "Data tidak dapat diproses"
	MsgServerError     = "Terjadi kesalahan pada server"
	MsgConnection      = "Tidak dapat terhubung ke server. Periksa koneksi internet Anda."
	MsgUnexpected      = "Terjadi kesalahan tidak terduga"
	MsgPDFGeneration   = "Error generating PDF"
	MsgPollingTimedOut = "Proses clustering belum selesai. Silakan periksa status kembali nanti."
)

// APIError is the only error type returned by Client methods. Message is
// always a human readable, localized string.
type APIError struct {
	// StatusCode is the HTTP status, 0 when no response was received
	StatusCode int

	// Message is the user facing message
	Message string

	// BackendMessage is the backend's "error" field, when it sent one
	BackendMessage string

	// Err is the underlying cause, if any
	Err error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// statusError maps an HTTP error status and body to an APIError
func statusError(status int, body []byte) *APIError {
	backend := backendMessage(body)

	var msg string
	switch status {
	case http.StatusBadRequest:
		msg = firstNonEmpty(backend, MsgInvalidData)
	case http.StatusUnauthorized:
		msg = MsgUnauthorized
	case http.StatusForbidden:
		msg = MsgForbidden
	case http.StatusNotFound:
		msg = MsgNotFound
	case http.StatusRequestEntityTooLarge:
		msg = MsgFileTooLarge
	case http.StatusUnprocessableEntity:
		msg = firstNonEmpty(backend, MsgUnprocessable)
	case http.StatusInternalServerError:
		msg = MsgServerError
	default:
		msg = firstNonEmpty(backend, fmt.Sprintf("Error %d: %s", status, http.StatusText(status)))
	}

	return &APIError{
		StatusCode:     status,
		Message:        msg,
		BackendMessage: backend,
		Err:            fmt.Errorf("backend returned status %d", status),
	}
}

// transportError wraps a failure where no response was received
func transportError(err error) *APIError {
	return &APIError{Message: MsgConnection, Err: err}
}

// unexpectedError wraps any other failure
func unexpectedError(err error) *APIError {
	return &APIError{Message: MsgUnexpected, Err: err}
}

// backendMessage extracts the "error" field of a JSON error body
func backendMessage(body []byte) string {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return ""
	}
	return gjson.GetBytes(body, "error").String()
}

// BackendMessage returns the backend supplied message carried by err, if any
func BackendMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.BackendMessage
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
