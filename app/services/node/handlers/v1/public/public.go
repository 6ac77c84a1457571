// Package public maintains the group of handlers for public access.
package public

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dlscoin/blockchain/business/sys/metrics"
	"github.com/dlscoin/blockchain/business/web/errs"
	"github.com/dlscoin/blockchain/foundation/blockchain/database"
	"github.com/dlscoin/blockchain/foundation/blockchain/state"
	"github.com/dlscoin/blockchain/foundation/events"
	"github.com/dlscoin/blockchain/foundation/nameservice"
	"github.com/dlscoin/blockchain/foundation/validate"
	"github.com/dlscoin/blockchain/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

//go:embed templates
var static embed.FS

var pages = template.Must(template.ParseFS(static, "templates/*.html"))

// recentBlocks is the number of blocks listed on the index page.
const recentBlocks = 10

// Handlers manages the set of public endpoints.
type Handlers struct {
	Log          *zap.SugaredLogger
	State        *state.State
	NS           *nameservice.NameService
	WS           websocket.Upgrader
	Evts         *events.Events
	DefaultMiner string
}

// Events handles a web socket to provide node events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	// Clients can ask for events from specific sources: ?source=state,peer
	var sources []string
	if src := r.URL.Query().Get("source"); src != "" {
		sources = strings.Split(src, ",")
	}

	ch := h.Evts.Acquire(v.TraceID, sources...)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// Mine mines the next block paying the reward to the requested address.
func (h Handlers) Mine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var req mineRequest
	if err := web.Decode(r, &req); err != nil {
		switch {
		case errors.Is(err, io.EOF):
		case validate.IsFieldErrors(err):
			return err
		default:
			return errs.NewTrusted(err, http.StatusBadRequest)
		}
	}

	minerAddress := h.DefaultMiner
	if req.MinerAddress != nil {
		minerAddress = *req.MinerAddress
	}

	h.Log.Infow("mine block", "traceid", v.TraceID, "miner", minerAddress, "name", h.NS.Lookup(minerAddress))

	block, err := h.State.MineNextBlock(ctx, minerAddress)
	if err != nil {
		switch {
		case errors.Is(err, state.ErrInvalidInput):
			return errs.NewTrusted(err, http.StatusBadRequest)
		case errors.Is(err, state.ErrShutdown):
			return errs.NewTrusted(err, http.StatusServiceUnavailable)
		}
		return fmt.Errorf("mine block: %w", err)
	}

	metrics.AddBlocks(ctx)

	resp := mineResponse{
		Message: "block mined",
		Block:   block,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Blocks returns the full chain.
func (h Handlers) Blocks(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.RetrieveChain(), http.StatusOK)
}

// SubmitTransaction adds a new transaction to the mempool.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	// Any JSON object is accepted as a transaction. Keys the node doesn't
	// know about are kept with it.
	var tran database.Tx
	if err := web.Decode(r, &tran); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	h.Log.Infow("add tran", "traceid", v.TraceID, "from", tran.From, "to", tran.To, "amount", tran.Amount, "extra", len(tran.Extra))

	h.State.SubmitTransaction(tran)

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "transaction added to mempool",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Mempool returns the set of uncommitted transactions.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	mempool := h.State.RetrieveMempool()

	trans := make([]tx, len(mempool))
	for i, tran := range mempool {
		trans[i] = tx{
			From:     tran.From,
			FromName: h.NS.Lookup(tran.From),
			To:       tran.To,
			ToName:   h.NS.Lookup(tran.To),
			Amount:   tran.Amount,
			Data:     tran.Data,
			Extra:    tran.Extra,
		}
	}

	return web.Respond(ctx, w, trans, http.StatusOK)
}

// RegisterPeers adds the provided hosts to the set of known peers.
func (h Handlers) RegisterPeers(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req registerPeers
	if err := web.Decode(r, &req); err != nil {
		if validate.IsFieldErrors(err) {
			return err
		}
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := h.State.RegisterPeers(req.Nodes); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	return h.Peers(ctx, w, r)
}

// Peers returns the set of known peers.
func (h Handlers) Peers(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.RetrieveKnownPeers(), http.StatusOK)
}

// Genesis returns the genesis information.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.RetrieveGenesis(), http.StatusOK)
}

// Index renders the landing page with the most recent blocks.
func (h Handlers) Index(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	blocks := h.State.RetrieveChain()
	if len(blocks) > recentBlocks {
		blocks = blocks[len(blocks)-recentBlocks:]
	}

	return h.render(ctx, w, "index.html", blocks)
}

// Explorer renders every block in the chain with its transactions.
func (h Handlers) Explorer(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return h.render(ctx, w, "explorer.html", h.State.RetrieveChain())
}

func (h Handlers) render(ctx context.Context, w http.ResponseWriter, name string, blocks []database.Block) error {
	for i := range blocks {
		for j, tran := range blocks[i].Transactions {
			blocks[i].Transactions[j].From = h.NS.Lookup(tran.From)
			blocks[i].Transactions[j].To = h.NS.Lookup(tran.To)
		}
	}

	data := page{
		Status: h.State.RetrieveStatus(),
		Blocks: blocks,
	}

	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}

	return web.RespondHTML(ctx, w, buf.Bytes(), http.StatusOK)
}
