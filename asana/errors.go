package asana

import (
	"errors"
	"fmt"
	"net/http"
)

// HttpError carries the status code and client message of a failed operation
type HttpError struct {
	Message string
	Code    int
	Error   error
}

func badRequest(msg string) *HttpError {
	return &HttpError{Message: msg, Code: http.StatusBadRequest, Error: errors.New(msg)}
}

func forbidden(msg string) *HttpError {
	return &HttpError{Message: msg, Code: http.StatusForbidden, Error: errors.New(msg)}
}

func notFound(kind, gid string) *HttpError {
	return &HttpError{
		Message: fmt.Sprintf("%s: Not a recognized ID: %s", kind, gid),
		Code:    http.StatusNotFound,
		Error:   ErrNotFound,
	}
}

func internal(msg string, err error) *HttpError {
	return &HttpError{Message: msg, Code: http.StatusInternalServerError, Error: err}
}

func missingField(field string) *HttpError {
	return badRequest(field + ": Missing input")
}
