package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"ItemList/internal/metrics"
	"ItemList/internal/view"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096

	// 세션당 기억하는 전송 화면 수
	sentScreens = 16
)

// Upgrade HTTP connection to WebSocket
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// 클라이언트 -> 서버 메시지
// delete는 ids, 또는 offsets + 클라이언트가 그린 화면의 version 필요
type clientAction struct {
	Action  string   `json:"action"`
	IDs     []string `json:"ids,omitempty"`
	Offsets []int    `json:"offsets,omitempty"`
	Version *uint64  `json:"version,omitempty"`
	Index   *int     `json:"index,omitempty"`
}

// liveSession remembers the last screens written to one client so row
// offsets can be resolved against the rows that client actually drew.
type liveSession struct {
	id string
	lv *view.ListView

	mu   sync.Mutex
	sent []view.Screen
}

func (s *liveSession) remember(screen view.Screen) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, screen)
	if len(s.sent) > sentScreens {
		s.sent = s.sent[len(s.sent)-sentScreens:]
	}
}

func (s *liveSession) rowsAt(version uint64) ([]view.Row, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.sent) - 1; i >= 0; i-- {
		if s.sent[i].Version == version {
			return s.sent[i].Rows, true
		}
	}
	return nil, false
}

var errStaleScreen = errors.New("stale screen")

// deleteTargets maps a delete action to item ids. Offsets without a
// version are rejected since the client's rows may lag behind the view.
func (s *liveSession) deleteTargets(action clientAction) ([]string, error) {
	ids := append([]string(nil), action.IDs...)
	if len(action.Offsets) == 0 {
		return ids, nil
	}
	if action.Version == nil {
		return nil, errStaleScreen
	}
	rows, ok := s.rowsAt(*action.Version)
	if !ok {
		return nil, errStaleScreen
	}
	for _, offset := range action.Offsets {
		if offset < 0 || offset >= len(rows) {
			continue
		}
		ids = append(ids, rows[offset].ID)
	}
	return ids, nil
}

// 서버 -> 클라이언트 메시지
type serverFrame struct {
	Type   string       `json:"type"`
	Screen *view.Screen `json:"screen,omitempty"`
	Error  string       `json:"error,omitempty"`
}

// HandleLiveList godoc
// @Summary      실시간 아이템 목록 WebSocket 연결
// @Description  연결마다 하나의 목록 화면 세션을 만들고, 저장소가 바뀔 때마다 최신 화면을 전송합니다.
// @Description  <br>
// @Description  **참고: 이것은 표준 HTTP API가 아닙니다.** `ws://` 또는 `wss://` 스킴으로 연결하세요.
// @Description  클라이언트 메시지: `{"action":"add"|"delete"|"select"|"back","ids":["..."],"offsets":[0],"version":1,"index":0}`
// @Description  delete는 ids 또는 offsets + 화면 version으로 지정합니다.
// @Description  서버 메시지: `{"type":"screen","screen":{...}}` 또는 `{"type":"error","error":"..."}`
// @Tags         WebSocket (Live)
// @Param        key  query     string  false  "접근 키 (설정된 경우)"
// @Success      101  {string}  string  "101 Switching Protocols"
// @Failure      403  {object}  handler.ErrorResponse "접근 키 오류"
// @Router       /ws/items [get]
func (h *Handler) HandleLiveList(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("HandleLiveList(): Failed to upgrade to WebSocket: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(h.sessions)
	defer cancel()
	stop := context.AfterFunc(c.Request.Context(), cancel)
	defer stop()

	// 렌더 신호는 하나로 합치고, 쓰기 시점에 최신 화면을 읽음
	dirty := make(chan struct{}, 1)
	errs := make(chan string, 8)

	lv := view.New(h.store,
		view.WithLocation(h.loc),
		view.WithClock(h.now),
		view.WithRenderFunc(func(view.Screen) {
			select {
			case dirty <- struct{}{}:
			default:
			}
		}),
	)
	session := &liveSession{id: uuid.NewString(), lv: lv}
	if err := lv.Start(ctx); err != nil {
		log.Printf("HandleLiveList(): Failed to start list view for session %s: %+v", session.id, err)
		conn.WriteJSON(serverFrame{Type: "error", Error: "Failed to load items"})
		return
	}
	defer lv.Close()

	metrics.LiveSessions.Inc()
	defer metrics.LiveSessions.Dec()
	log.Printf("HandleLiveList(): session %s started from %s", session.id, c.ClientIP())

	var wg sync.WaitGroup
	wg.Add(2)

	// Client -> Server, 읽기 전담
	go func() {
		defer wg.Done()
		defer cancel()
		h.liveReadPump(ctx, conn, session, errs)
	}()

	// Server -> Client, 쓰기 전담
	go func() {
		defer wg.Done()
		defer cancel()
		liveWritePump(ctx, conn, session, dirty, errs)
	}()

	wg.Wait()
	log.Printf("HandleLiveList(): session %s ended", session.id)
}

func (h *Handler) liveReadPump(ctx context.Context, conn *websocket.Conn, session *liveSession, errs chan<- string) {
	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("liveReadPump(): Error reading message in session %s: %v", session.id, err)
			}
			return
		}

		if messageType != websocket.TextMessage {
			log.Printf("liveReadPump(): Unsupported message type in session %s: %d", session.id, messageType)
			continue
		}

		var action clientAction
		if err := json.Unmarshal(message, &action); err != nil {
			pushError(errs, "Invalid action")
			continue
		}
		if msg := h.applyAction(ctx, session, action); msg != "" {
			pushError(errs, msg)
		}
	}
}

// applyAction runs one client action and returns the message to report back
// to the client, or "" on success.
func (h *Handler) applyAction(ctx context.Context, session *liveSession, action clientAction) string {
	lv := session.lv
	switch action.Action {
	case "add":
		if _, err := lv.Add(ctx); err != nil {
			log.Printf("[ERROR] applyAction(): add failed: %+v", err)
			return "Failed to add item"
		}
	case "delete":
		ids, err := session.deleteTargets(action)
		if err != nil {
			return "Stale screen, try again"
		}
		if _, err := lv.DeleteIDs(ctx, ids...); err != nil {
			log.Printf("[ERROR] applyAction(): delete failed: %+v", err)
			return "Failed to delete items"
		}
	case "select":
		if action.Index == nil {
			return "Invalid selection"
		}
		if err := lv.Select(*action.Index); err != nil {
			if errors.Is(err, view.ErrInvalidSelection) {
				return "Invalid selection"
			}
			return "Failed to select item"
		}
	case "back":
		lv.Back()
	default:
		return "Unknown action"
	}
	return ""
}

func pushError(errs chan<- string, msg string) {
	select {
	case errs <- msg:
	default:
	}
}

func liveWritePump(ctx context.Context, conn *websocket.Conn, session *liveSession, dirty <-chan struct{}, errs <-chan string) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	// 읽기 고루틴의 ReadMessage 블로킹 해제
	defer conn.Close()

	for {
		select {
		case <-ctx.Done():
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return

		case <-dirty:
			screen := session.lv.Screen()
			session.remember(screen)
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(serverFrame{Type: "screen", Screen: &screen}); err != nil {
				log.Printf("liveWritePump(): Error sending screen in session %s: %v", session.id, err)
				return
			}

		case msg := <-errs:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(serverFrame{Type: "error", Error: msg}); err != nil {
				log.Printf("liveWritePump(): Error sending error in session %s: %v", session.id, err)
				return
			}

		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				log.Printf("liveWritePump(): Ping failed in session %s: %v", session.id, err)
				return
			}
		}
	}
}
