package web_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/dlscoin/blockchain/foundation/web"
)

const (
	success = "\u2713"
	failed  = "\u2717"
)

type mineRequest struct {
	MinerAddress string `json:"miner_address"`
}

func (m mineRequest) Validate() error {
	if m.MinerAddress == "" {
		return errors.New("miner_address is required")
	}
	return nil
}

func Test_App(t *testing.T) {
	shutdown := make(chan os.Signal, 1)

	var order []string
	mw := func(name string) web.Middleware {
		return func(handler web.Handler) web.Handler {
			return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
				order = append(order, name)
				return handler(ctx, w, r)
			}
		}
	}

	app := web.NewApp(shutdown, mw("first"), mw("second"))

	app.Handle(http.MethodGet, "v1", "/node/block/list/:from/:to", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		v, err := web.GetValues(ctx)
		if err != nil {
			return err
		}

		resp := map[string]string{
			"from":    web.Param(r, "from"),
			"to":      web.Param(r, "to"),
			"traceid": v.TraceID,
		}
		return web.Respond(ctx, w, resp, http.StatusOK)
	}, mw("route"))

	app.Handle(http.MethodPost, "", "/mine", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var req mineRequest
		if err := web.Decode(r, &req); err != nil {
			return web.Respond(ctx, w, map[string]string{"error": err.Error()}, http.StatusBadRequest)
		}
		return web.Respond(ctx, w, req, http.StatusOK)
	})

	app.Handle(http.MethodGet, "", "/broken", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return web.NewShutdownError("integrity issue")
	})

	t.Log("Given the need to route requests through the app.")
	{
		t.Log("\tWhen handling a request with path parameters.")
		{
			w := httptest.NewRecorder()
			app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/node/block/list/1/latest", nil))

			if w.Code != http.StatusOK {
				t.Fatalf("\t%s\tShould get a 200 status: %d", failed, w.Code)
			}
			t.Logf("\t%s\tShould get a 200 status.", success)

			var resp map[string]string
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("\t%s\tShould be able to decode the response: %v", failed, err)
			}
			if resp["from"] != "1" || resp["to"] != "latest" || resp["traceid"] == "" {
				t.Fatalf("\t%s\tShould get the params and a trace id: %v", failed, resp)
			}
			t.Logf("\t%s\tShould get the params and a trace id.", success)

			if strings.Join(order, ",") != "first,second,route" {
				t.Fatalf("\t%s\tShould run the middleware in order: %v", failed, order)
			}
			t.Logf("\t%s\tShould run the middleware in order.", success)
		}

		t.Log("\tWhen decoding a request body.")
		{
			w := httptest.NewRecorder()
			app.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/mine", strings.NewReader(`{"miner_address":"alice"}`)))
			if w.Code != http.StatusOK {
				t.Fatalf("\t%s\tShould accept a valid body: %d", failed, w.Code)
			}
			t.Logf("\t%s\tShould accept a valid body.", success)

			w = httptest.NewRecorder()
			app.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/mine", strings.NewReader(`{"miner_address":""}`)))
			if w.Code != http.StatusBadRequest {
				t.Fatalf("\t%s\tShould run the model validation: %d", failed, w.Code)
			}
			t.Logf("\t%s\tShould run the model validation.", success)

			w = httptest.NewRecorder()
			app.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/mine", strings.NewReader(`{"miner":"alice"}`)))
			if w.Code != http.StatusBadRequest {
				t.Fatalf("\t%s\tShould reject unknown fields: %d", failed, w.Code)
			}
			t.Logf("\t%s\tShould reject unknown fields.", success)
		}

		t.Log("\tWhen a handler returns a shutdown error.")
		{
			w := httptest.NewRecorder()
			app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/broken", nil))

			select {
			case <-shutdown:
				t.Logf("\t%s\tShould signal the shutdown.", success)
			default:
				t.Fatalf("\t%s\tShould signal the shutdown.", failed)
			}
		}
	}
}
