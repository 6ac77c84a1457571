// Package private maintains the group of handlers for node to node access.
package private

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dlscoin/blockchain/business/web/errs"
	"github.com/dlscoin/blockchain/foundation/blockchain/database"
	"github.com/dlscoin/blockchain/foundation/blockchain/peer"
	"github.com/dlscoin/blockchain/foundation/blockchain/state"
	"github.com/dlscoin/blockchain/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of node to node endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	WS    websocket.Upgrader
}

// Receive accepts a web socket from a peer that is announcing the blocks
// it mined. Each block is checked against our latest block but our chain is
// never changed by what a peer sends.
func (h Handlers) Receive(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
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

	for {
		_, msg, err := c.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			h.Log.Infow("peer block", "traceid", v.TraceID, "remoteaddr", r.RemoteAddr, "status", "connection closed", "ERROR", err)
			return nil
		}

		var block database.Block
		if err := json.Unmarshal(msg, &block); err != nil {
			h.Log.Infow("peer block", "traceid", v.TraceID, "remoteaddr", r.RemoteAddr, "status", "unable to decode", "ERROR", err)
			continue
		}

		if err := h.State.ObservePeerBlock(block); err != nil {
			h.Log.Infow("peer block", "traceid", v.TraceID, "remoteaddr", r.RemoteAddr, "block", block.Index, "status", "rejected", "ERROR", err)
			continue
		}

		h.Log.Infow("peer block", "traceid", v.TraceID, "remoteaddr", r.RemoteAddr, "block", block.Index, "hash", block.Hash, "status", "extends chain")
	}
}

// Status returns the current status of the node.
func (h Handlers) Status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	status := struct {
		state.Status
		Peers []peer.Peer `json:"peers"`
	}{
		Status: h.State.RetrieveStatus(),
		Peers:  h.State.RetrieveKnownPeers(),
	}

	return web.Respond(ctx, w, status, http.StatusOK)
}

// BlocksByNumber returns all the blocks based on the specified to/from values.
func (h Handlers) BlocksByNumber(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	fromStr := web.Param(r, "from")
	if fromStr == "latest" || fromStr == "" {
		fromStr = fmt.Sprintf("%d", state.QueryLatest)
	}

	toStr := web.Param(r, "to")
	if toStr == "latest" || toStr == "" {
		toStr = fmt.Sprintf("%d", state.QueryLatest)
	}

	from, err := strconv.ParseUint(fromStr, 10, 64)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}
	to, err := strconv.ParseUint(toStr, 10, 64)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if from > to {
		return errs.NewTrusted(errors.New("from greater than to"), http.StatusBadRequest)
	}

	blocks := h.State.QueryBlocksByNumber(from, to)
	if len(blocks) == 0 {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// VerifyChain replays the chain checking every link and proof of work.
func (h Handlers) VerifyChain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := struct {
		Valid  bool   `json:"valid"`
		Length int    `json:"length"`
		Error  string `json:"error,omitempty"`
	}{
		Valid:  true,
		Length: len(h.State.RetrieveChain()),
	}

	if err := h.State.VerifyChain(); err != nil {
		resp.Valid = false
		resp.Error = err.Error()
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}
