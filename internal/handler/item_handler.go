package handler

import (
	"log"
	"net/http"

	"ItemList/internal/models"
	"ItemList/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// ListItems godoc
// @Summary      아이템 목록 조회
// @Description  저장된 아이템을 생성 순서대로 반환합니다.
// @Tags         Items
// @Produce      json
// @Success      200 {object} handler.ItemListResponse
// @Failure      500 {object} handler.ErrorResponse "DB 조회 실패"
// @Router       /api/items [get]
func (h *Handler) ListItems(c *gin.Context) {
	items, err := h.store.All(c.Request.Context())
	if err != nil {
		log.Printf("[ERROR] ListItems(): %+v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch items"})
		return
	}

	resp := ItemListResponse{Items: make([]ItemResponse, 0, len(items))}
	for _, item := range items {
		resp.Items = append(resp.Items, h.toResponse(item))
	}
	c.JSON(http.StatusOK, resp)
}

// GetItem godoc
// @Summary      아이템 상세 조회
// @Description  선택한 아이템의 타임스탬프를 상세 문구와 함께 반환합니다.
// @Tags         Items
// @Produce      json
// @Param        id  path      string  true  "아이템 ID"
// @Success      200 {object} handler.ItemDetailResponse
// @Failure      404 {object} handler.ErrorResponse "아이템 없음"
// @Failure      500 {object} handler.ErrorResponse "DB 조회 실패"
// @Router       /api/items/{id} [get]
func (h *Handler) GetItem(c *gin.Context) {
	item, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, storage.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
			return
		}
		log.Printf("[ERROR] GetItem(): %+v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch item"})
		return
	}

	c.JSON(http.StatusOK, ItemDetailResponse{
		ItemResponse: h.toResponse(item),
		Text:         item.DetailText(h.loc),
	})
}

// CreateItem godoc
// @Summary      아이템 추가 (Add Item)
// @Description  현재 시각으로 새 아이템을 생성합니다.
// @Tags         Items
// @Produce      json
// @Security     AccessKey
// @Success      201 {object} handler.ItemResponse
// @Failure      403 {object} handler.ErrorResponse "접근 키 오류"
// @Failure      429 {object} handler.ErrorResponse "요청 과다"
// @Failure      500 {object} handler.ErrorResponse "DB 저장 실패"
// @Router       /api/items [post]
func (h *Handler) CreateItem(c *gin.Context) {
	item, err := h.store.Insert(c.Request.Context(), models.NewItem(h.now()))
	if err != nil {
		log.Printf("[ERROR] CreateItem(): %+v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create item"})
		return
	}
	c.JSON(http.StatusCreated, h.toResponse(item))
}

// DeleteItem godoc
// @Summary      아이템 삭제
// @Description  ID로 아이템을 삭제합니다. 이미 삭제된 아이템이어도 성공합니다.
// @Tags         Items
// @Security     AccessKey
// @Param        id  path  string  true  "아이템 ID"
// @Success      204
// @Failure      403 {object} handler.ErrorResponse "접근 키 오류"
// @Failure      500 {object} handler.ErrorResponse "DB 삭제 실패"
// @Router       /api/items/{id} [delete]
func (h *Handler) DeleteItem(c *gin.Context) {
	if _, err := h.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		log.Printf("[ERROR] DeleteItem(): %+v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteItemsAt godoc
// @Summary      위치 기반 아이템 삭제
// @Description  현재 목록 순서 기준의 위치(offsets)에 있는 아이템들을 삭제합니다. 범위를 벗어난 위치는 무시됩니다.
// @Tags         Items
// @Accept       json
// @Produce      json
// @Security     AccessKey
// @Param        request body handler.DeleteOffsetsRequest true "삭제할 위치 목록"
// @Success      200 {object} handler.DeleteOffsetsResponse
// @Failure      400 {object} handler.ErrorResponse "잘못된 요청"
// @Failure      403 {object} handler.ErrorResponse "접근 키 오류"
// @Failure      500 {object} handler.ErrorResponse "DB 삭제 실패"
// @Router       /api/items/delete [post]
func (h *Handler) DeleteItemsAt(c *gin.Context) {
	var req DeleteOffsetsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	deleted, err := h.store.DeleteAt(c.Request.Context(), req.Offsets...)
	if err != nil {
		log.Printf("[ERROR] DeleteItemsAt(): %+v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete items"})
		return
	}
	c.JSON(http.StatusOK, DeleteOffsetsResponse{Deleted: deleted})
}

// Health godoc
// @Summary      헬스 체크
// @Tags         System
// @Produce      json
// @Success      200 {object} object{status=string}
// @Router       /healthz [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
