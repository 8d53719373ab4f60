package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/loopmarket/service-rental/internal/application"
	"github.com/loopmarket/service-rental/internal/platform/middleware"
	"github.com/loopmarket/service-rental/internal/platform/response"
)

// ItemHandler exposes item listing management and search over HTTP.
type ItemHandler struct {
	service *application.ItemService
	logger  *zap.Logger
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(service *application.ItemService, logger *zap.Logger) *ItemHandler {
	return &ItemHandler{service: service, logger: logger}
}

// RegisterRoutes mounts the item endpoints on the given router group.
func (h *ItemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	items := rg.Group("/items")
	{
		items.POST("", h.Create)
		items.PATCH("/:id", h.Update)
		items.DELETE("/:id", h.Delete)
		items.GET("/:id", h.GetByID)
		items.GET("", h.ListByOwner)
		items.GET("/search", h.Search)
	}
}

// Create handles POST /items.
func (h *ItemHandler) Create(c *gin.Context) {
	ownerID, ok := middleware.SharerID(c)
	if !ok {
		response.BadRequest(c, "X-Sharer-User-Id header is required")
		return
	}

	var req application.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	dto, err := h.service.Create(c.Request.Context(), ownerID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto)
}

// Update handles PATCH /items/:id.
func (h *ItemHandler) Update(c *gin.Context) {
	ownerID, ok := middleware.SharerID(c)
	if !ok {
		response.BadRequest(c, "X-Sharer-User-Id header is required")
		return
	}
	itemID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req application.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	dto, err := h.service.Update(c.Request.Context(), ownerID, itemID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}

// Delete handles DELETE /items/:id.
func (h *ItemHandler) Delete(c *gin.Context) {
	ownerID, ok := middleware.SharerID(c)
	if !ok {
		response.BadRequest(c, "X-Sharer-User-Id header is required")
		return
	}
	itemID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), ownerID, itemID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// GetByID handles GET /items/:id.
func (h *ItemHandler) GetByID(c *gin.Context) {
	requesterID, ok := middleware.SharerID(c)
	if !ok {
		response.BadRequest(c, "X-Sharer-User-Id header is required")
		return
	}
	itemID, ok := parseIDParam(c)
	if !ok {
		return
	}

	dto, err := h.service.GetByID(c.Request.Context(), requesterID, itemID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}

// ListByOwner handles GET /items?from=&size=.
func (h *ItemHandler) ListByOwner(c *gin.Context) {
	ownerID, ok := middleware.SharerID(c)
	if !ok {
		response.BadRequest(c, "X-Sharer-User-Id header is required")
		return
	}
	from, size, ok := parsePageQuery(c)
	if !ok {
		return
	}

	dtos, err := h.service.ListByOwner(c.Request.Context(), ownerID, from, size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dtos)
}

// Search handles GET /items/search?text=&from=&size=. The caller does not
// have to identify itself to search.
func (h *ItemHandler) Search(c *gin.Context) {
	from, size, ok := parsePageQuery(c)
	if !ok {
		return
	}

	dtos, err := h.service.Search(c.Request.Context(), c.Query("text"), from, size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dtos)
}

// parsePageQuery reads the from/size query parameters with their defaults.
func parsePageQuery(c *gin.Context) (int, int, bool) {
	from, err := strconv.Atoi(c.DefaultQuery("from", "0"))
	if err != nil {
		response.BadRequest(c, "from must be an integer")
		return 0, 0, false
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", "10"))
	if err != nil {
		response.BadRequest(c, "size must be an integer")
		return 0, 0, false
	}
	return from, size, true
}
