package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialLive(t *testing.T, ts *testServer, query string) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(ts.router)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/items" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil reads frames until match accepts one, failing after a timeout.
func readUntil(t *testing.T, conn *websocket.Conn, match func(serverFrame) bool) serverFrame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var frame serverFrame
		require.NoError(t, conn.ReadJSON(&frame))
		if match(frame) {
			return frame
		}
	}
}

func intRef(i int) *int { return &i }

func screenWithRows(n int) func(serverFrame) bool {
	return func(f serverFrame) bool {
		return f.Type == "screen" && f.Screen != nil && len(f.Screen.Rows) == n
	}
}

func TestLiveList_InitialScreen(t *testing.T) {
	ts := newTestServer(t, RouterOptions{})
	conn := dialLive(t, ts, "")

	frame := readUntil(t, conn, screenWithRows(0))
	assert.Equal(t, "Items", frame.Screen.Title)
	assert.Equal(t, "Add Item", frame.Screen.AddLabel)
	assert.Equal(t, "Select an item", frame.Screen.Placeholder)
}

func TestLiveList_AddSelectBackDelete(t *testing.T) {
	ts := newTestServer(t, RouterOptions{})
	conn := dialLive(t, ts, "")
	readUntil(t, conn, screenWithRows(0))

	require.NoError(t, conn.WriteJSON(clientAction{Action: "add"}))
	frame := readUntil(t, conn, screenWithRows(1))
	assert.Equal(t, "4/30/2024, 9:00:00 AM", frame.Screen.Rows[0].Label)

	require.NoError(t, conn.WriteJSON(clientAction{Action: "select", Index: intRef(0)}))
	frame = readUntil(t, conn, func(f serverFrame) bool {
		return f.Type == "screen" && f.Screen.Detail != nil
	})
	assert.Equal(t, 0, frame.Screen.Selected)
	assert.Equal(t, "Item at 4/30/2024, 9:00:00 AM", frame.Screen.Detail.Text)

	require.NoError(t, conn.WriteJSON(clientAction{Action: "back"}))
	frame = readUntil(t, conn, func(f serverFrame) bool {
		return f.Type == "screen" && f.Screen.Detail == nil && f.Screen.Selected == -1
	})

	require.NoError(t, conn.WriteJSON(clientAction{Action: "delete", IDs: []string{frame.Screen.Rows[0].ID}}))
	readUntil(t, conn, screenWithRows(0))
}

func TestLiveList_ReceivesChangesFromRestAPI(t *testing.T) {
	ts := newTestServer(t, RouterOptions{})
	conn := dialLive(t, ts, "")
	readUntil(t, conn, screenWithRows(0))

	assert.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/api/items", nil).Code)
	readUntil(t, conn, screenWithRows(1))
}

func TestLiveList_SessionsSeeEachOther(t *testing.T) {
	ts := newTestServer(t, RouterOptions{})
	a := dialLive(t, ts, "")
	b := dialLive(t, ts, "")
	readUntil(t, a, screenWithRows(0))
	readUntil(t, b, screenWithRows(0))

	require.NoError(t, a.WriteJSON(clientAction{Action: "add"}))
	readUntil(t, b, screenWithRows(1))
}

func TestLiveList_InvalidActions(t *testing.T) {
	ts := newTestServer(t, RouterOptions{})
	conn := dialLive(t, ts, "")
	readUntil(t, conn, screenWithRows(0))

	require.NoError(t, conn.WriteJSON(clientAction{Action: "select", Index: intRef(3)}))
	frame := readUntil(t, conn, func(f serverFrame) bool { return f.Type == "error" })
	assert.Equal(t, "Invalid selection", frame.Error)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"action":"select"}`)))
	frame = readUntil(t, conn, func(f serverFrame) bool { return f.Type == "error" })
	assert.Equal(t, "Invalid selection", frame.Error)

	require.NoError(t, conn.WriteJSON(clientAction{Action: "jump"}))
	frame = readUntil(t, conn, func(f serverFrame) bool { return f.Type == "error" })
	assert.Equal(t, "Unknown action", frame.Error)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	frame = readUntil(t, conn, func(f serverFrame) bool { return f.Type == "error" })
	assert.Equal(t, "Invalid action", frame.Error)
}

func TestLiveList_DeleteOffsetsUseTheScreenTheClientDrew(t *testing.T) {
	ts := newTestServer(t, RouterOptions{})
	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/api/items", nil).Code)
	}

	conn := dialLive(t, ts, "")
	seen := readUntil(t, conn, screenWithRows(3))
	rows := seen.Screen.Rows

	// 다른 클라이언트가 첫 행을 먼저 삭제
	require.Equal(t, http.StatusNoContent, ts.do(t, http.MethodDelete, "/api/items/"+rows[0].ID, nil).Code)

	version := seen.Screen.Version
	require.NoError(t, conn.WriteJSON(clientAction{Action: "delete", Offsets: []int{1}, Version: &version}))
	frame := readUntil(t, conn, screenWithRows(1))
	assert.Equal(t, rows[2].ID, frame.Screen.Rows[0].ID)

	remaining, err := ts.store.All(context.Background())
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, rows[2].ID, remaining[0].ID)
}

func TestLiveList_DeleteOffsetsNeedAKnownVersion(t *testing.T) {
	ts := newTestServer(t, RouterOptions{})
	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/api/items", nil).Code)

	conn := dialLive(t, ts, "")
	readUntil(t, conn, screenWithRows(1))

	require.NoError(t, conn.WriteJSON(clientAction{Action: "delete", Offsets: []int{0}}))
	frame := readUntil(t, conn, func(f serverFrame) bool { return f.Type == "error" })
	assert.Equal(t, "Stale screen, try again", frame.Error)

	unknown := uint64(999)
	require.NoError(t, conn.WriteJSON(clientAction{Action: "delete", Offsets: []int{0}, Version: &unknown}))
	frame = readUntil(t, conn, func(f serverFrame) bool { return f.Type == "error" })
	assert.Equal(t, "Stale screen, try again", frame.Error)

	count, err := ts.store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestLiveList_AccessKey(t *testing.T) {
	ts := newTestServer(t, RouterOptions{AccessKey: "secret"})
	srv := httptest.NewServer(ts.router)
	defer srv.Close()
	base := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/items"

	_, resp, err := websocket.DefaultDialer.Dial(base, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(base+"?key=secret", nil)
	require.NoError(t, err)
	defer conn.Close()
	readUntil(t, conn, screenWithRows(0))
}

func TestLiveList_HandlerCloseEndsSession(t *testing.T) {
	ts := newTestServer(t, RouterOptions{})
	conn := dialLive(t, ts, "")
	readUntil(t, conn, screenWithRows(0))

	ts.handler.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
