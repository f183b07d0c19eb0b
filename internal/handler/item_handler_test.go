package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"ItemList/internal/middleware"
	"ItemList/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	store   *storage.Store
	handler *Handler
	router  *gin.Engine
}

func newTestServer(t *testing.T, opts RouterOptions) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	h := New(store, time.UTC)
	var mu sync.Mutex
	next := time.Date(2024, time.April, 30, 9, 0, 0, 0, time.UTC)
	h.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		ts := next
		next = next.Add(time.Second)
		return ts
	}
	t.Cleanup(h.Close)

	return &testServer{store: store, handler: h, router: NewRouter(h, opts)}
}

func (ts *testServer) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestListItems_Empty(t *testing.T) {
	ts := newTestServer(t, RouterOptions{})

	w := ts.do(t, http.MethodGet, "/api/items", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"items":[]}`, w.Body.String())
}

func TestCreateThenList(t *testing.T) {
	ts := newTestServer(t, RouterOptions{})

	w := ts.do(t, http.MethodPost, "/api/items", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[ItemResponse](t, w)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "4/30/2024, 9:00:00 AM", created.Label)

	w = ts.do(t, http.MethodPost, "/api/items", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = ts.do(t, http.MethodGet, "/api/items", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[ItemListResponse](t, w)
	require.Len(t, list.Items, 2)
	assert.Equal(t, created.ID, list.Items[0].ID)
	assert.Equal(t, "4/30/2024, 9:00:01 AM", list.Items[1].Label)
}

func TestGetItem(t *testing.T) {
	ts := newTestServer(t, RouterOptions{})

	created := decode[ItemResponse](t, ts.do(t, http.MethodPost, "/api/items", nil))

	w := ts.do(t, http.MethodGet, "/api/items/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode[ItemDetailResponse](t, w)
	assert.Equal(t, created.ID, detail.ID)
	assert.Equal(t, "Item at 4/30/2024, 9:00:00 AM", detail.Text)

	w = ts.do(t, http.MethodGet, "/api/items/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteItem_Idempotent(t *testing.T) {
	ts := newTestServer(t, RouterOptions{})

	created := decode[ItemResponse](t, ts.do(t, http.MethodPost, "/api/items", nil))

	w := ts.do(t, http.MethodDelete, "/api/items/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = ts.do(t, http.MethodDelete, "/api/items/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	list := decode[ItemListResponse](t, ts.do(t, http.MethodGet, "/api/items", nil))
	assert.Empty(t, list.Items)
}

func TestDeleteItemsAt(t *testing.T) {
	ts := newTestServer(t, RouterOptions{})

	var created []ItemResponse
	for i := 0; i < 3; i++ {
		created = append(created, decode[ItemResponse](t, ts.do(t, http.MethodPost, "/api/items", nil)))
	}

	w := ts.do(t, http.MethodPost, "/api/items/delete", DeleteOffsetsRequest{Offsets: []int{0, 2, 5}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decode[DeleteOffsetsResponse](t, w).Deleted)

	list := decode[ItemListResponse](t, ts.do(t, http.MethodGet, "/api/items", nil))
	require.Len(t, list.Items, 1)
	assert.Equal(t, created[1].ID, list.Items[0].ID)
}

func TestDeleteItemsAt_EmptyListIsNoop(t *testing.T) {
	ts := newTestServer(t, RouterOptions{})

	w := ts.do(t, http.MethodPost, "/api/items/delete", DeleteOffsetsRequest{Offsets: []int{0}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, decode[DeleteOffsetsResponse](t, w).Deleted)
}

func TestDeleteItemsAt_InvalidBody(t *testing.T) {
	ts := newTestServer(t, RouterOptions{})

	req := httptest.NewRequest(http.MethodPost, "/api/items/delete", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAccessKeyGuardsMutations(t *testing.T) {
	ts := newTestServer(t, RouterOptions{AccessKey: "secret"})

	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/items", nil).Code)
	assert.Equal(t, http.StatusForbidden, ts.do(t, http.MethodPost, "/api/items", nil).Code)
	assert.Equal(t, http.StatusCreated,
		ts.do(t, http.MethodPost, "/api/items", nil, middleware.AccessKeyHeader, "secret").Code)
}

func TestRateLimitOnMutations(t *testing.T) {
	ts := newTestServer(t, RouterOptions{RateLimit: 0.001, RateBurst: 1})

	assert.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/api/items", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, ts.do(t, http.MethodPost, "/api/items", nil).Code)
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/items", nil).Code)
}

func TestIndexAndHealth(t *testing.T) {
	ts := newTestServer(t, RouterOptions{})

	w := ts.do(t, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "/ws/items")

	w = ts.do(t, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, RouterOptions{})

	ts.do(t, http.MethodPost, "/api/items", nil)

	w := ts.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "itemlist_items_inserted_total")
}
