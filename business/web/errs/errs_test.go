package errs_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/dlscoin/blockchain/business/web/errs"
	"github.com/dlscoin/blockchain/foundation/validate"
)

func Test_Trusted(t *testing.T) {
	errInvalid := errors.New("invalid input")

	err := fmt.Errorf("mine: %w", errs.NewTrusted(errInvalid, http.StatusBadRequest))

	if !errs.IsTrusted(err) {
		t.Fatal("Should find the trusted error in the chain.")
	}

	te := errs.GetTrusted(err)
	if te.Status != http.StatusBadRequest {
		t.Fatalf("Should carry the status, got %d", te.Status)
	}

	if !errors.Is(err, errInvalid) {
		t.Fatal("Should be able to unwrap to the original error.")
	}

	if errs.GetTrusted(errInvalid) != nil {
		t.Fatal("Should not find a trusted error where there is none.")
	}
}

func Test_Build(t *testing.T) {
	type table struct {
		name   string
		err    error
		status int
		msg    string
		fields int
	}

	fieldErrs := validate.FieldErrors{{Field: "nodes", Err: "nodes is a required field"}}

	tt := []table{
		{name: "fields", err: fmt.Errorf("register: %w", fieldErrs), status: http.StatusBadRequest, msg: "data validation error", fields: 1},
		{name: "trusted", err: errs.NewTrusted(errors.New("node is shutting down"), http.StatusServiceUnavailable), status: http.StatusServiceUnavailable, msg: "node is shutting down"},
		{name: "untrusted", err: errors.New("disk on fire"), status: http.StatusInternalServerError, msg: http.StatusText(http.StatusInternalServerError)},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			resp, status := errs.Build(tst.err)
			if status != tst.status {
				t.Fatalf("Test %s:\tShould get status %d, got %d.", tst.name, tst.status, status)
			}
			if resp.Error != tst.msg || len(resp.Fields) != tst.fields {
				t.Fatalf("Test %s:\tShould get the right response: %+v", tst.name, resp)
			}
		}

		t.Run(tst.name, f)
	}
}
