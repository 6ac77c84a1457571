// Package errs maps the errors returned by the node handlers to the JSON
// body and status code sent back to the caller.
package errs

import (
	"errors"
	"net/http"

	"github.com/dlscoin/blockchain/foundation/validate"
)

// Response is the JSON body of every failed node request.
type Response struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Trusted marks an error whose message can be shown to the caller as is,
// together with the status code to answer with.
type Trusted struct {
	Err    error
	Status int
}

// NewTrusted marks err as safe to show to the caller. Handlers use it for
// bad input, a node that is shutting down, and similar expected failures.
func NewTrusted(err error, status int) error {
	return &Trusted{err, status}
}

func (te *Trusted) Error() string {
	return te.Err.Error()
}

func (te *Trusted) Unwrap() error {
	return te.Err
}

// IsTrusted reports whether err carries a Trusted error in its chain.
func IsTrusted(err error) bool {
	var te *Trusted
	return errors.As(err, &te)
}

// GetTrusted returns the Trusted error in the chain of err, or nil.
func GetTrusted(err error) *Trusted {
	var te *Trusted
	if !errors.As(err, &te) {
		return nil
	}
	return te
}

// Build returns the body and status code to answer a failed request with.
// Field errors become a 400 listing the fields, a Trusted error keeps its
// message and status, and anything else is hidden behind a 500.
func Build(err error) (Response, int) {
	switch {
	case validate.IsFieldErrors(err):
		return Response{
			Error:  "data validation error",
			Fields: validate.GetFieldErrors(err).Fields(),
		}, http.StatusBadRequest

	case IsTrusted(err):
		te := GetTrusted(err)
		return Response{Error: te.Error()}, te.Status

	default:
		return Response{Error: http.StatusText(http.StatusInternalServerError)}, http.StatusInternalServerError
	}
}
