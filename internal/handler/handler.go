package handler

import (
	"context"
	"time"

	"ItemList/internal/models"
)

// ItemStore is the record store as seen by the HTTP layer.
type ItemStore interface {
	Insert(ctx context.Context, item models.Item) (models.Item, error)
	Delete(ctx context.Context, ids ...string) (int, error)
	DeleteAt(ctx context.Context, offsets ...int) (int, error)
	All(ctx context.Context) ([]models.Item, error)
	Get(ctx context.Context, id string) (models.Item, error)
	Subscribe(fn func([]models.Item)) (cancel func())
}

type Handler struct {
	store ItemStore
	loc   *time.Location
	now   func() time.Time

	// 라이브 세션 전체의 부모 컨텍스트, Close()로 종료
	sessions      context.Context
	closeSessions context.CancelFunc
}

func New(store ItemStore, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.Local
	}
	sessions, closeSessions := context.WithCancel(context.Background())
	return &Handler{
		store:         store,
		loc:           loc,
		now:           time.Now,
		sessions:      sessions,
		closeSessions: closeSessions,
	}
}

// Close ends every open live session. Hijacked websocket connections are not
// tracked by http.Server.Shutdown.
func (h *Handler) Close() {
	h.closeSessions()
}

// 목록 응답의 한 행
type ItemResponse struct {
	ID        string    `json:"id" example:"3f1c2a9e-3b7a-4b8e-9d7e-1f2a3b4c5d6e"`
	Timestamp time.Time `json:"timestamp" example:"2024-04-30T09:00:00Z"`
	Label     string    `json:"label" example:"4/30/2024, 9:00:00 AM"`
}

// 목록 응답 (Wrapper)
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
}

// 디테일 응답
type ItemDetailResponse struct {
	ItemResponse
	Text string `json:"text" example:"Item at 4/30/2024, 9:00:00 AM"`
}

// /api/items/delete 요청 바디
type DeleteOffsetsRequest struct {
	Offsets []int `json:"offsets" example:"0,2"`
}

type DeleteOffsetsResponse struct {
	Deleted int `json:"deleted" example:"2"`
}

type ErrorResponse struct {
	Error string `json:"error" example:"Failed to fetch items"`
}

func (h *Handler) toResponse(item models.Item) ItemResponse {
	return ItemResponse{
		ID:        item.ID,
		Timestamp: item.Timestamp,
		Label:     item.Label(h.loc),
	}
}
