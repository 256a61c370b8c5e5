package net

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BezierBoard/internal/geom"
	"BezierBoard/internal/state"
)

func TestLink(t *testing.T) {
	link := Link("192.168.1.20", 8888)
	assert.Equal(t, "bezierboard://192.168.1.20:8888", link)

	addr, err := ParseLink(link + "/")
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.20:8888", addr)

	_, err = ParseLink("http://192.168.1.20:8888")
	assert.Error(t, err)
	_, err = ParseLink("bezierboard://nohost")
	assert.Error(t, err)
}

func startHub(t *testing.T) (*Hub, string) {
	t.Helper()
	hub := NewHub()
	srv := httptest.NewServer(hub)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, Scheme + strings.TrimPrefix(srv.URL, "http://")
}

func dial(t *testing.T, link string) (*Client, <-chan state.Snapshot) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	cl, err := Dial(ctx, link)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cl.Close() })

	got := make(chan state.Snapshot, 8)
	go func() {
		_ = cl.Receive(func(s state.Snapshot) { got <- s })
	}()
	return cl, got
}

func receive(t *testing.T, ch <-chan state.Snapshot) state.Snapshot {
	t.Helper()
	select {
	case s := <-ch:
		return s
	case <-time.After(5 * time.Second):
		t.Fatal("no snapshot received")
		return state.Snapshot{}
	}
}

func TestHubSendsLatestOnConnect(t *testing.T) {
	hub, link := startHub(t)
	hub.Publish(state.Snapshot{Site: "host", Revision: 3, Points: []geom.Point2{{X: 1, Y: 2}}})

	_, got := dial(t, link)
	s := receive(t, got)
	assert.Equal(t, "host", s.Site)
	assert.Equal(t, uint64(3), s.Revision)
	assert.Equal(t, []geom.Point2{{X: 1, Y: 2}}, s.Points)
}

func TestHubRelaysToOtherPeers(t *testing.T) {
	hub, link := startHub(t)
	fromPeers := make(chan state.Snapshot, 8)
	hub.OnSnapshot = func(s state.Snapshot) { fromPeers <- s }

	a, gotA := dial(t, link)
	_, gotB := dial(t, link)
	require.Eventually(t, func() bool { return hub.Peers() == 2 }, 5*time.Second, 10*time.Millisecond)

	sent := state.Snapshot{Site: "a", Revision: 1, Points: []geom.Point2{{X: 5, Y: 6}, {X: 7, Y: 8}}}
	require.NoError(t, a.Send(sent))

	assert.Equal(t, sent, receive(t, fromPeers))
	assert.Equal(t, sent, receive(t, gotB))
	select {
	case s := <-gotA:
		t.Fatalf("sender received its own snapshot %+v", s)
	case <-time.After(100 * time.Millisecond):
	}

	latest, ok := hub.Latest()
	require.True(t, ok)
	assert.Equal(t, sent, latest)
}

func TestHubPublishReachesAllPeers(t *testing.T) {
	hub, link := startHub(t)
	_, gotA := dial(t, link)
	_, gotB := dial(t, link)
	require.Eventually(t, func() bool { return hub.Peers() == 2 }, 5*time.Second, 10*time.Millisecond)

	s := state.Snapshot{Site: "host", Revision: 9}
	hub.Publish(s)
	assert.Equal(t, uint64(9), receive(t, gotA).Revision)
	assert.Equal(t, uint64(9), receive(t, gotB).Revision)
}

func TestHubLatestKeepsNewest(t *testing.T) {
	hub := NewHub()
	_, ok := hub.Latest()
	assert.False(t, ok)

	hub.Publish(state.Snapshot{Site: "a", Revision: 4})
	hub.Publish(state.Snapshot{Site: "b", Revision: 2})
	latest, ok := hub.Latest()
	require.True(t, ok)
	assert.Equal(t, "a", latest.Site)
}

func TestHubDisconnect(t *testing.T) {
	hub, link := startHub(t)
	cl, _ := dial(t, link)
	require.Eventually(t, func() bool { return hub.Peers() == 1 }, 5*time.Second, 10*time.Millisecond)
	require.NoError(t, cl.Close())
	assert.Eventually(t, func() bool { return hub.Peers() == 0 }, 5*time.Second, 10*time.Millisecond)
}

func TestHubListenAndServeStops(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- hub.ListenAndServe(ctx, "127.0.0.1:0") }()
	cancel()
	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("hub did not stop")
	}
}

func TestDialBadLink(t *testing.T) {
	_, err := Dial(context.Background(), "localhost:1")
	assert.Error(t, err)
}

func TestHubRejectsInvalidSnapshot(t *testing.T) {
	hub, link := startHub(t)
	fromPeers := make(chan state.Snapshot, 8)
	hub.OnSnapshot = func(s state.Snapshot) { fromPeers <- s }

	a, _ := dial(t, link)
	_, gotB := dial(t, link)
	require.Eventually(t, func() bool { return hub.Peers() == 2 }, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, a.Send(state.Snapshot{Site: "a", Revision: 1, Points: []geom.Point2{{X: 1e9, Y: 0}}}))
	valid := state.Snapshot{Site: "a", Revision: 2, Points: []geom.Point2{{X: 1, Y: 2}}}
	require.NoError(t, a.Send(valid))

	// Messages from one peer arrive in order, so the first one seen is the
	// valid one only if the invalid one was dropped.
	assert.Equal(t, valid, receive(t, fromPeers))
	assert.Equal(t, valid, receive(t, gotB))
	latest, ok := hub.Latest()
	require.True(t, ok)
	assert.Equal(t, uint64(2), latest.Revision)
}

func TestHubReadLimit(t *testing.T) {
	hub, link := startHub(t)
	a, _ := dial(t, link)
	require.Eventually(t, func() bool { return hub.Peers() == 1 }, 5*time.Second, 10*time.Millisecond)

	huge := state.Snapshot{Site: strings.Repeat("x", maxMessageSize+1), Revision: 1}
	require.NoError(t, a.Send(huge))
	assert.Eventually(t, func() bool { return hub.Peers() == 0 }, 5*time.Second, 10*time.Millisecond)
	_, ok := hub.Latest()
	assert.False(t, ok)
}

func TestPublishDoesNotWaitForSlowPeer(t *testing.T) {
	hub, link := startHub(t)
	addr, err := ParseLink(link)
	require.NoError(t, err)

	// A peer that never reads.
	ws, _, err := websocket.DefaultDialer.Dial("ws://"+addr+Path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })
	require.Eventually(t, func() bool { return hub.Peers() == 1 }, 5*time.Second, 10*time.Millisecond)

	points := make([]geom.Point2, state.MaxSnapshotPoints)
	for i := range points {
		points[i] = geom.Pt(123456.789, 654321.123)
	}

	start := time.Now()
	for i := range 5000 {
		hub.Publish(state.Snapshot{Site: "host", Revision: uint64(i + 1), Points: points})
	}
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Eventually(t, func() bool { return hub.Peers() == 0 }, 10*time.Second, 10*time.Millisecond)
}

func TestClientSendAfterClose(t *testing.T) {
	_, link := startHub(t)
	cl, _ := dial(t, link)
	require.NoError(t, cl.Close())
	assert.Error(t, cl.Send(state.Snapshot{Site: "a", Revision: 1}))
	assert.NoError(t, cl.Close())
}
