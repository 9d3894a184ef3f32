package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Josh-Grafman/boatrental/internal/event"
)

func TestFrameFor(t *testing.T) {
	f, ok := FrameFor(event.NewRefreshMessage("b-1", "b-2"))
	require.True(t, ok)
	assert.Equal(t, "boat", f.Channel)
	assert.Equal(t, "refresh", f.Kind)
	assert.Equal(t, []string{"b-1", "b-2"}, f.BoatIDs)

	f, ok = FrameFor(event.NewSelectMessage("b-7"))
	require.True(t, ok)
	assert.Equal(t, "select", f.Kind)
	assert.Equal(t, "b-7", f.BoatID)

	f, ok = FrameFor(event.NewReviewCreatedMessage("b-7", "r-1"))
	require.True(t, ok)
	assert.Equal(t, "review", f.Channel)
	assert.Equal(t, "created", f.Kind)
	assert.Equal(t, "r-1", f.ReviewID)
}

func TestFrameFor_RefreshAllOmitsIDs(t *testing.T) {
	f, ok := FrameFor(event.NewRefreshMessage())
	require.True(t, ok)

	data, err := json.Marshal(f)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "boat_ids")
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Command
		wantErr bool
	}{
		{"select", `{"action":"select","boat_id":"b-1"}`, Command{Action: ActionSelect, BoatID: "b-1"}, false},
		{"refresh all", `{"action":"refresh"}`, Command{Action: ActionRefresh}, false},
		{"refresh some", `{"action":"refresh","boat_ids":["b-1"]}`, Command{Action: ActionRefresh, BoatIDs: []string{"b-1"}}, false},
		{"select without id", `{"action":"select"}`, Command{}, true},
		{"unknown action", `{"action":"delete","boat_id":"b-1"}`, Command{}, true},
		{"not json", `select b-1`, Command{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCommand([]byte(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/feed"
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.CloseNow() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, data, err := conn.Read(ctx)
	require.NoError(t, err)
	var f Frame
	require.NoError(t, json.Unmarshal(data, &f))
	return f
}

func newTestServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewServer(hub, 0, nil).Handler())
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return srv
}

func TestHub_MirrorsBus(t *testing.T) {
	bus := event.NewBus(nil)
	hub := NewHub(nil, nil)
	sub := hub.Attach(bus)
	defer sub.Release()
	srv := newTestServer(t, hub)

	conn := dial(t, srv)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, bus.Publish(event.NewSelectMessage("b-sea-breeze")))
	require.NoError(t, bus.Publish(event.NewReviewCreatedMessage("b-sea-breeze", "r-1")))

	f := readFrame(t, conn)
	assert.Equal(t, "select", f.Kind)
	assert.Equal(t, "b-sea-breeze", f.BoatID)

	f = readFrame(t, conn)
	assert.Equal(t, "created", f.Kind)
	assert.Equal(t, "r-1", f.ReviewID)
}

func TestHub_Commands(t *testing.T) {
	hub := NewHub(nil, nil)
	srv := newTestServer(t, hub)

	var mu sync.Mutex
	var got []Command
	hub.OnCommand(func(c Command) {
		mu.Lock()
		got = append(got, c)
		mu.Unlock()
	})

	conn := dial(t, srv)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte(`{"action":"bogus"}`)))
	require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte(`{"action":"select","boat_id":"b-7"}`)))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, Command{Action: ActionSelect, BoatID: "b-7"}, got[0])
}

func TestHub_ClientLeaves(t *testing.T) {
	hub := NewHub(nil, nil)
	srv := newTestServer(t, hub)

	conn := dial(t, srv)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close(websocket.StatusNormalClosure, "bye"))
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_RejectsForeignOrigin(t *testing.T) {
	hub := NewHub(nil, nil)
	srv := newTestServer(t, hub)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/feed"
	header := http.Header{}
	header.Set("Origin", "http://evil.example")
	_, resp, err := websocket.Dial(ctx, url, &websocket.DialOptions{HTTPHeader: header})
	require.Error(t, err)
	if resp != nil {
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	}
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHub_CloseDisconnectsClients(t *testing.T) {
	hub := NewHub(nil, nil)
	srv := newTestServer(t, hub)

	conn := dial(t, srv)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Close()
	assert.Equal(t, 0, hub.ClientCount())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, _, err := conn.Read(ctx)
	assert.Error(t, err)

	// Publishing after Close is a no-op.
	hub.Publish(event.NewSelectMessage("b-1"))
}

func TestServer_Health(t *testing.T) {
	hub := NewHub(nil, nil)
	srv := newTestServer(t, hub)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok","clients":0}`, string(body))
}

func TestServer_ListenAndServe(t *testing.T) {
	hub := NewHub(nil, nil)
	s := NewServer(hub, 4, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()

	select {
	case <-s.Ready():
	case <-time.After(5 * time.Second):
		t.Fatal("server never became ready")
	}

	resp, err := http.Get(fmt.Sprintf("http://%s/healthz", s.Addr()))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}
}
