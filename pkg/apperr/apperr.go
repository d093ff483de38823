package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a business failure so transport code can pick a status
// without inspecting message strings.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindAuthorization
	KindStateConflict
	KindSignatureMismatch
	KindUpstream
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validationf(format string, args ...interface{}) *Error {
	return Newf(KindValidation, format, args...)
}

func NotFoundf(format string, args ...interface{}) *Error {
	return Newf(KindNotFound, format, args...)
}

func Authorizationf(format string, args ...interface{}) *Error {
	return Newf(KindAuthorization, format, args...)
}

func StateConflictf(format string, args ...interface{}) *Error {
	return Newf(KindStateConflict, format, args...)
}

func SignatureMismatchf(format string, args ...interface{}) *Error {
	return Newf(KindSignatureMismatch, format, args...)
}

func Upstreamf(format string, args ...interface{}) *Error {
	return Newf(KindUpstream, format, args...)
}

// KindOf returns the kind of err, or KindInternal for plain errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// Status maps an error to the HTTP status it should surface as.
func Status(err error) int {
	switch KindOf(err) {
	case KindValidation, KindStateConflict, KindSignatureMismatch:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindAuthorization:
		return http.StatusForbidden
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Message returns a client-safe message. Internal failures are masked so
// driver detail and stack context never reach the response body.
func Message(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return "internal server error"
}
