package client

import (
	"errors"
	"net/http"
)

// FallbackMessage is shown when the server gave no usable message.
const FallbackMessage = "Something went wrong. Please try again."

type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindConflict   ErrorKind = "conflict"
	KindAuth       ErrorKind = "auth"
	KindForbidden  ErrorKind = "forbidden"
	KindNotFound   ErrorKind = "not_found"
	KindUpload     ErrorKind = "upload"
	KindNetwork    ErrorKind = "network"
	KindInternal   ErrorKind = "internal"
)

// RequestError is a failed API call. Status 0 means the request never got a
// response.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Status == 0 {
		return "request failed"
	}
	return http.StatusText(e.Status)
}

func (e *RequestError) Kind() ErrorKind {
	switch {
	case e.Status == 0:
		return KindNetwork
	case e.Status == http.StatusBadRequest, e.Status == http.StatusUnprocessableEntity:
		return KindValidation
	case e.Status == http.StatusUnauthorized:
		return KindAuth
	case e.Status == http.StatusForbidden:
		return KindForbidden
	case e.Status == http.StatusNotFound:
		return KindNotFound
	case e.Status == http.StatusConflict:
		return KindConflict
	case e.Status == http.StatusRequestEntityTooLarge:
		return KindUpload
	}
	return KindInternal
}

// ValidationError is raised before any request is issued.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ErrCancelled is returned when a destructive action was not confirmed.
var ErrCancelled = errors.New("action cancelled")

// KindOf classifies any error returned by this package.
func KindOf(err error) ErrorKind {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Kind()
	}
	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return KindValidation
	}
	return KindInternal
}

// UserMessage is what a notification shows for err.
func UserMessage(err error) string {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		if reqErr.Message != "" {
			return reqErr.Message
		}
		return FallbackMessage
	}
	var valErr *ValidationError
	if errors.As(err, &valErr) && valErr.Message != "" {
		return valErr.Message
	}
	return FallbackMessage
}
