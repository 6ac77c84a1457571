package peer

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// BroadcasterConfig represents the configuration required to construct a
// broadcaster.
type BroadcasterConfig struct {
	Peers     *PeerSet
	Host      string
	Transport Transport
	Timeout   time.Duration
	EvHandler func(v string, args ...any)
}

// Broadcaster pushes newly admitted blocks to the known peers. Delivery is
// fire and forget: every peer is attempted independently, failures are
// reported through the event handler and never retried.
type Broadcaster struct {
	peers     *PeerSet
	host      string
	transport Transport
	timeout   time.Duration
	evHandler func(v string, args ...any)
	wg        sync.WaitGroup
}

// NewBroadcaster constructs a broadcaster for the specified peer set.
func NewBroadcaster(cfg BroadcasterConfig) *Broadcaster {
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	transport := cfg.Transport
	if transport == nil {
		transport = NewWebSocket(timeout)
	}

	return &Broadcaster{
		peers:     cfg.Peers,
		host:      cfg.Host,
		transport: transport,
		timeout:   timeout,
		evHandler: ev,
	}
}

// Broadcast serializes the value and sends it to every known peer on a
// separate goroutine. The call returns as soon as the value is serialized.
func (b *Broadcaster) Broadcast(value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		b.evHandler("peer: Broadcast: ERROR: encoding: %s", err)
		return
	}

	peers := b.peers.Copy(b.host)
	if len(peers) == 0 {
		b.evHandler("peer: Broadcast: no known peers")
		return
	}

	b.wg.Add(len(peers))
	for _, pr := range peers {
		go func(pr Peer) {
			defer b.wg.Done()
			b.send(pr, payload)
		}(pr)
	}
}

// Shutdown waits for all the in-flight deliveries to complete.
func (b *Broadcaster) Shutdown() {
	b.evHandler("peer: Broadcast: shutdown: started")
	defer b.evHandler("peer: Broadcast: shutdown: completed")

	b.wg.Wait()
}

// send performs a single delivery attempt to the specified peer.
func (b *Broadcaster) send(pr Peer, payload []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	if err := b.transport.Send(ctx, pr.Host, payload); err != nil {
		b.evHandler("peer: Broadcast: WARNING: peer[%s]: %s", pr.Host, err)
		return
	}

	b.evHandler("peer: Broadcast: sent to peer[%s]", pr.Host)
}
