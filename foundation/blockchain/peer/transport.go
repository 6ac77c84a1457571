package peer

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// Transport represents the behavior required to push a message to a peer.
type Transport interface {
	Send(ctx context.Context, host string, payload []byte) error
}

// =============================================================================

// ReceivePath is the path on a node that accepts pushed blocks.
const ReceivePath = "/ws"

// WebSocket pushes messages to peers by opening a websocket connection,
// writing a single text message and closing the connection.
type WebSocket struct {
	dialer websocket.Dialer
	path   string
}

// NewWebSocket constructs a websocket transport with the specified
// handshake timeout.
func NewWebSocket(handshakeTimeout time.Duration) *WebSocket {
	return &WebSocket{
		dialer: websocket.Dialer{
			HandshakeTimeout: handshakeTimeout,
		},
		path: ReceivePath,
	}
}

// Send delivers the payload to the specified host.
func (ws *WebSocket) Send(ctx context.Context, host string, payload []byte) error {
	u, err := URL(host, ws.path)
	if err != nil {
		return err
	}

	conn, _, err := ws.dialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", u, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetWriteDeadline(deadline)
	}

	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return fmt.Errorf("write %s: %w", u, err)
	}

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := conn.WriteMessage(websocket.CloseMessage, msg); err != nil {
		return fmt.Errorf("close %s: %w", u, err)
	}

	return nil
}

// URL converts a peer host into the websocket url for the specified path.
// Hosts can be registered as host:port or with an http, https, ws or wss
// scheme.
func URL(host string, path string) (string, error) {
	if !strings.Contains(host, "://") {
		host = "ws://" + host
	}

	u, err := url.Parse(host)
	if err != nil {
		return "", fmt.Errorf("parse host %q: %w", host, err)
	}

	switch u.Scheme {
	case "ws", "wss":
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme %q for host %q", u.Scheme, host)
	}

	if u.Host == "" {
		return "", fmt.Errorf("missing host in %q", host)
	}

	u.Path = strings.TrimSuffix(u.Path, "/") + path

	return u.String(), nil
}
