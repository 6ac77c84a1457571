// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"github.com/dlscoin/blockchain/app/services/node/handlers/v1/private"
	"github.com/dlscoin/blockchain/app/services/node/handlers/v1/public"
	"github.com/dlscoin/blockchain/foundation/blockchain/peer"
	"github.com/dlscoin/blockchain/foundation/blockchain/state"
	"github.com/dlscoin/blockchain/foundation/events"
	"github.com/dlscoin/blockchain/foundation/nameservice"
	"github.com/dlscoin/blockchain/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log          *zap.SugaredLogger
	State        *state.State
	NS           *nameservice.NameService
	Evts         *events.Events
	DefaultMiner string
}

// PublicRoutes binds all the version 1 public routes.
func PublicRoutes(app *web.App, cfg Config) {
	pbl := public.Handlers{
		Log:          cfg.Log,
		State:        cfg.State,
		NS:           cfg.NS,
		WS:           websocket.Upgrader{},
		Evts:         cfg.Evts,
		DefaultMiner: cfg.DefaultMiner,
	}

	app.Handle(http.MethodGet, "", "/", pbl.Index)
	app.Handle(http.MethodGet, "", "/explorer", pbl.Explorer)
	app.Handle(http.MethodGet, "", "/blocks", pbl.Blocks)
	app.Handle(http.MethodPost, "", "/mine", pbl.Mine)

	app.Handle(http.MethodGet, version, "/events", pbl.Events)
	app.Handle(http.MethodGet, version, "/genesis/list", pbl.Genesis)
	app.Handle(http.MethodGet, version, "/blocks", pbl.Blocks)
	app.Handle(http.MethodPost, version, "/mine", pbl.Mine)
	app.Handle(http.MethodGet, version, "/tx/uncommitted/list", pbl.Mempool)
	app.Handle(http.MethodPost, version, "/tx/submit", pbl.SubmitTransaction)
	app.Handle(http.MethodGet, version, "/peers/list", pbl.Peers)
	app.Handle(http.MethodPost, version, "/peers/register", pbl.RegisterPeers)
}

// PrivateRoutes binds all the version 1 private routes.
func PrivateRoutes(app *web.App, cfg Config) {
	prv := private.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
		WS:    websocket.Upgrader{},
	}

	app.Handle(http.MethodGet, "", peer.ReceivePath, prv.Receive)

	app.Handle(http.MethodGet, version, "/node/status", prv.Status)
	app.Handle(http.MethodGet, version, "/node/block/list/:from/:to", prv.BlocksByNumber)
	app.Handle(http.MethodGet, version, "/node/chain/verify", prv.VerifyChain)
}
