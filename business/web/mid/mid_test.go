package mid_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/dlscoin/blockchain/business/web/errs"
	"github.com/dlscoin/blockchain/business/web/mid"
	"github.com/dlscoin/blockchain/foundation/validate"
	"github.com/dlscoin/blockchain/foundation/web"
	"go.uber.org/zap/zaptest"
)

const (
	success = "\u2713"
	failed  = "\u2717"
)

type registerPeers struct {
	Nodes []string `json:"nodes" validate:"required,min=1"`
}

func Test_Chain(t *testing.T) {
	log := zaptest.NewLogger(t).Sugar()

	app := web.NewApp(
		make(chan os.Signal, 1),
		mid.Logger(log),
		mid.Errors(log),
		mid.Metrics(),
		mid.Cors("*"),
		mid.Panics(),
	)

	app.Handle(http.MethodGet, "", "/trusted", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return errs.NewTrusted(errors.New("miner address is required"), http.StatusBadRequest)
	})
	app.Handle(http.MethodGet, "", "/fields", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return validate.Check(registerPeers{})
	})
	app.Handle(http.MethodGet, "", "/untrusted", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return errors.New("database exploded")
	})
	app.Handle(http.MethodGet, "", "/panic", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		panic("boom")
	})

	tt := []struct {
		name   string
		path   string
		status int
		msg    string
		field  string
	}{
		{name: "trusted", path: "/trusted", status: http.StatusBadRequest, msg: "miner address is required"},
		{name: "fields", path: "/fields", status: http.StatusBadRequest, msg: "data validation error", field: "nodes"},
		{name: "untrusted", path: "/untrusted", status: http.StatusInternalServerError, msg: http.StatusText(http.StatusInternalServerError)},
		{name: "panic", path: "/panic", status: http.StatusInternalServerError, msg: http.StatusText(http.StatusInternalServerError)},
	}

	t.Log("Given the need to render handler errors.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen handling %s.", testID, tst.path)
				{
					w := httptest.NewRecorder()
					app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tst.path, nil))

					if w.Code != tst.status {
						t.Fatalf("\t%s\tTest %d:\tShould get status %d: %d", failed, testID, tst.status, w.Code)
					}
					t.Logf("\t%s\tTest %d:\tShould get status %d.", success, testID, tst.status)

					if w.Header().Get("Access-Control-Allow-Origin") != "*" {
						t.Fatalf("\t%s\tTest %d:\tShould set the cors headers.", failed, testID)
					}

					var resp errs.Response
					if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould decode the response: %v", failed, testID, err)
					}

					if resp.Error != tst.msg {
						t.Fatalf("\t%s\tTest %d:\tShould get message %q: %q", failed, testID, tst.msg, resp.Error)
					}
					t.Logf("\t%s\tTest %d:\tShould get the expected message.", success, testID)

					if tst.field != "" {
						if _, exists := resp.Fields[tst.field]; !exists {
							t.Fatalf("\t%s\tTest %d:\tShould get a field error for %s: %v", failed, testID, tst.field, resp.Fields)
						}
						t.Logf("\t%s\tTest %d:\tShould get a field error.", success, testID)
					}
				}
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_Cors(t *testing.T) {
	app := web.NewApp(make(chan os.Signal, 1), mid.Cors("https://explorer.dlscoin.io"))
	app.Handle(http.MethodGet, "", "/blocks", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	})

	tt := []struct {
		origin string
		exp    string
	}{
		{origin: "https://explorer.dlscoin.io", exp: "https://explorer.dlscoin.io"},
		{origin: "https://evil.example.com", exp: ""},
		{origin: "", exp: ""},
	}

	for _, tst := range tt {
		r := httptest.NewRequest(http.MethodGet, "/blocks", nil)
		if tst.origin != "" {
			r.Header.Set("Origin", tst.origin)
		}

		w := httptest.NewRecorder()
		app.ServeHTTP(w, r)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != tst.exp {
			t.Fatalf("Should allow origin %q as %q, got %q", tst.origin, tst.exp, got)
		}
	}
}
