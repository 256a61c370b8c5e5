// Package net shares a board with other editors on the local network.
//
// The host runs a [Hub]: a websocket endpoint that every peer connects to.
// Each side sends a [state.Snapshot] of its control points after a local
// edit; the hub relays what it receives to every other peer. Ordering and
// conflicts are resolved by each peer's [state.Replica].
package net

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"BezierBoard/internal/logging"
	"BezierBoard/internal/state"
)

const (
	// Scheme prefixes share links.
	Scheme = "bezierboard://"
	// Path is the websocket endpoint of a hub.
	Path = "/board"

	writeWait = 5 * time.Second
	// maxMessageSize bounds one incoming message; a full snapshot of
	// state.MaxSnapshotPoints points is well below it.
	maxMessageSize = 64 << 10
	// sendQueue is the number of messages buffered per connection. A peer
	// that falls further behind is disconnected.
	sendQueue = 16
)

// ErrSendQueueFull is returned when a connection cannot keep up with the
// messages sent to it.
var ErrSendQueueFull = errors.New("send queue full")

// Message is the unit exchanged on the wire.
type Message struct {
	Type     string         `json:"type"`
	Snapshot state.Snapshot `json:"snapshot"`
}

// TypeSnapshot carries a full control point list.
const TypeSnapshot = "snapshot"

// Link builds the share link for a hub at host:port.
func Link(host string, port int) string {
	return fmt.Sprintf("%s%s", Scheme, net.JoinHostPort(host, fmt.Sprint(port)))
}

// ParseLink returns the host:port of a share link.
func ParseLink(link string) (string, error) {
	if !strings.HasPrefix(link, Scheme) {
		return "", fmt.Errorf("share link %q: missing %s prefix", link, Scheme)
	}
	addr := strings.TrimSuffix(strings.TrimPrefix(link, Scheme), "/")
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return "", fmt.Errorf("share link %q: %w", link, err)
	}
	return addr, nil
}

// conn owns a websocket. Messages are queued and written by a dedicated
// goroutine, so senders never wait on the network.
type conn struct {
	ws   *websocket.Conn
	out  chan Message
	done chan struct{}
	once sync.Once
}

func newConn(ws *websocket.Conn) *conn {
	ws.SetReadLimit(maxMessageSize)
	c := &conn{
		ws:   ws,
		out:  make(chan Message, sendQueue),
		done: make(chan struct{}),
	}
	go c.writeLoop()
	return c
}

func (c *conn) writeLoop() {
	for {
		select {
		case m := <-c.out:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteJSON(m); err != nil {
				logging.Logger().Warn("write failed", "remote", c.ws.RemoteAddr().String(), "err", err)
				c.close()
				return
			}
		case <-c.done:
			return
		}
	}
}

// send queues m without blocking.
func (c *conn) send(m Message) error {
	select {
	case <-c.done:
		return net.ErrClosed
	default:
	}
	select {
	case c.out <- m:
		return nil
	default:
		return ErrSendQueueFull
	}
}

// close stops the writer and closes the socket, which also ends any pending
// read. It is safe to call more than once.
func (c *conn) close() error {
	var err error
	c.once.Do(func() {
		close(c.done)
		err = c.ws.Close()
	})
	return err
}

// Hub accepts peers and fans snapshots out to them.
type Hub struct {
	upgrader websocket.Upgrader

	mu     sync.RWMutex
	peers  map[*conn]bool
	latest *state.Snapshot

	// OnSnapshot is called, from the peer's reader goroutine, for every
	// snapshot a peer sends.
	OnSnapshot func(state.Snapshot)
}

var _ http.Handler = (*Hub)(nil)

// NewHub creates a hub with no peers.
func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		peers: make(map[*conn]bool),
	}
}

// ServeHTTP upgrades the request and serves the peer until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Logger().Warn("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	c := newConn(ws)
	h.add(c)
	defer h.remove(c)

	if latest, ok := h.Latest(); ok {
		if err := c.send(Message{Type: TypeSnapshot, Snapshot: latest}); err != nil {
			logging.Logger().Warn("sending initial snapshot", "remote", r.RemoteAddr, "err", err)
			return
		}
	}

	for {
		var msg Message
		if err := ws.ReadJSON(&msg); err != nil {
			logging.Logger().Info("peer disconnected", "remote", r.RemoteAddr, "err", err)
			return
		}
		if msg.Type != TypeSnapshot {
			logging.Logger().Warn("unknown message", "type", msg.Type, "remote", r.RemoteAddr)
			continue
		}

		if err := msg.Snapshot.Validate(); err != nil {
			logging.Logger().Warn("snapshot rejected", "remote", r.RemoteAddr, "err", err)
			continue
		}

		logging.Logger().Debug("snapshot received", "site", msg.Snapshot.Site, "revision", msg.Snapshot.Revision)
		h.remember(msg.Snapshot)
		if h.OnSnapshot != nil {
			h.OnSnapshot(msg.Snapshot)
		}
		h.broadcast(msg, c)
	}
}

// Publish queues a local snapshot for every peer. It does not wait for the
// network.
func (h *Hub) Publish(s state.Snapshot) {
	h.remember(s)
	h.broadcast(Message{Type: TypeSnapshot, Snapshot: s}, nil)
}

// Latest returns the newest snapshot the hub has seen.
func (h *Hub) Latest() (state.Snapshot, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.latest == nil {
		return state.Snapshot{}, false
	}
	return *h.latest, true
}

// Peers returns the number of connected peers.
func (h *Hub) Peers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.peers)
}

// ListenAndServe serves the hub on addr until ctx is cancelled.
func (h *Hub) ListenAndServe(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle(Path, h)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		h.Close()
	}()

	logging.Logger().Info("board hub listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("board hub: %w", err)
	}
	return nil
}

// Close disconnects every peer.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.peers {
		_ = c.close()
		delete(h.peers, c)
	}
}

func (h *Hub) add(c *conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.peers[c] = true
	logging.Logger().Info("peer connected", "remote", c.ws.RemoteAddr().String())
}

func (h *Hub) remove(c *conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.peers[c] {
		delete(h.peers, c)
	}
	_ = c.close()
}

func (h *Hub) remember(s state.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.latest == nil || s.After(*h.latest) {
		h.latest = &s
	}
}

func (h *Hub) broadcast(m Message, exclude *conn) {
	h.mu.RLock()
	targets := make([]*conn, 0, len(h.peers))
	for c := range h.peers {
		if c != exclude {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if err := c.send(m); err != nil {
			logging.Logger().Warn("dropping peer", "remote", c.ws.RemoteAddr().String(), "err", err)
			_ = c.close()
		}
	}
}

// Client is a peer connection to a remote hub.
type Client struct {
	c *conn
}

// Dial connects to the hub behind a share link.
func Dial(ctx context.Context, link string) (*Client, error) {
	addr, err := ParseLink(link)
	if err != nil {
		return nil, err
	}
	url := "ws://" + addr + Path
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", url, err)
	}
	logging.Logger().Info("connected to board", "addr", addr)
	return &Client{c: newConn(ws)}, nil
}

// Send queues a local snapshot for the hub. It fails without blocking when
// the connection is closed or too far behind.
func (cl *Client) Send(s state.Snapshot) error {
	if err := cl.c.send(Message{Type: TypeSnapshot, Snapshot: s}); err != nil {
		return fmt.Errorf("sending snapshot: %w", err)
	}
	return nil
}

// Receive calls fn for every snapshot from the hub until the connection
// fails or is closed.
func (cl *Client) Receive(fn func(state.Snapshot)) error {
	for {
		var msg Message
		if err := cl.c.ws.ReadJSON(&msg); err != nil {
			return fmt.Errorf("receiving: %w", err)
		}
		if msg.Type == TypeSnapshot {
			fn(msg.Snapshot)
		}
	}
}

// LocalAddr returns the local end of the connection.
func (cl *Client) LocalAddr() string {
	return cl.c.ws.LocalAddr().String()
}

// Close closes the connection. Snapshots still queued are dropped.
func (cl *Client) Close() error {
	return cl.c.close()
}
