package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/loopmarket/service-rental/internal/application"
	"github.com/loopmarket/service-rental/internal/domain/booking"
	"github.com/loopmarket/service-rental/internal/platform/middleware"
	"github.com/loopmarket/service-rental/internal/platform/response"
)

// BookingHandler exposes the booking lifecycle over HTTP.
type BookingHandler struct {
	service *application.BookingService
	logger  *zap.Logger
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{service: service, logger: logger}
}

// RegisterRoutes mounts the booking endpoints on the given router group.
func (h *BookingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	bookings := rg.Group("/bookings")
	{
		bookings.POST("", h.Create)
		bookings.PATCH("/:id", h.Decide)
		bookings.GET("/:id", h.GetByID)
		bookings.GET("", h.ListByBooker)
		bookings.GET("/owner", h.ListByOwner)
	}
}

// Create handles POST /bookings.
func (h *BookingHandler) Create(c *gin.Context) {
	bookerID, ok := middleware.SharerID(c)
	if !ok {
		response.BadRequest(c, "X-Sharer-User-Id header is required")
		return
	}

	var req application.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	now := time.Now().UTC()
	if req.Start.Before(now) {
		response.BadRequest(c, "start must not be in the past")
		return
	}
	if !req.End.After(req.Start) {
		response.BadRequest(c, "end must be after start")
		return
	}

	dto, err := h.service.Create(c.Request.Context(), bookerID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto)
}

// Decide handles PATCH /bookings/:id?approved=true|false.
func (h *BookingHandler) Decide(c *gin.Context) {
	ownerID, ok := middleware.SharerID(c)
	if !ok {
		response.BadRequest(c, "X-Sharer-User-Id header is required")
		return
	}
	bookingID, ok := parseIDParam(c)
	if !ok {
		return
	}

	approved, err := strconv.ParseBool(c.Query("approved"))
	if err != nil {
		response.BadRequest(c, "approved must be true or false")
		return
	}

	dto, err := h.service.Decide(c.Request.Context(), ownerID, bookingID, approved)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}

// GetByID handles GET /bookings/:id.
func (h *BookingHandler) GetByID(c *gin.Context) {
	requesterID, ok := middleware.SharerID(c)
	if !ok {
		response.BadRequest(c, "X-Sharer-User-Id header is required")
		return
	}
	bookingID, ok := parseIDParam(c)
	if !ok {
		return
	}

	dto, err := h.service.GetByID(c.Request.Context(), requesterID, bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}

// ListByBooker handles GET /bookings?state=&from=&size=.
func (h *BookingHandler) ListByBooker(c *gin.Context) {
	bookerID, ok := middleware.SharerID(c)
	if !ok {
		response.BadRequest(c, "X-Sharer-User-Id header is required")
		return
	}
	filter, page, ok := parseListQuery(c)
	if !ok {
		return
	}

	dtos, err := h.service.ListByBooker(c.Request.Context(), bookerID, filter, page)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dtos)
}

// ListByOwner handles GET /bookings/owner?state=&from=&size=.
func (h *BookingHandler) ListByOwner(c *gin.Context) {
	ownerID, ok := middleware.SharerID(c)
	if !ok {
		response.BadRequest(c, "X-Sharer-User-Id header is required")
		return
	}
	filter, page, ok := parseListQuery(c)
	if !ok {
		return
	}

	dtos, err := h.service.ListByOwner(c.Request.Context(), ownerID, filter, page)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dtos)
}

// parseListQuery reads the shared state/from/size query parameters. It writes
// the error response itself and reports false when the input is invalid.
func parseListQuery(c *gin.Context) (booking.StateFilter, booking.Page, bool) {
	filter, err := booking.ParseStateFilter(c.Query("state"))
	if err != nil {
		response.Error(c, err)
		return "", booking.Page{}, false
	}

	from, err := strconv.Atoi(c.DefaultQuery("from", "0"))
	if err != nil {
		response.BadRequest(c, "from must be an integer")
		return "", booking.Page{}, false
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", "10"))
	if err != nil {
		response.BadRequest(c, "size must be an integer")
		return "", booking.Page{}, false
	}
	page, err := booking.NewPage(from, size)
	if err != nil {
		response.Error(c, err)
		return "", booking.Page{}, false
	}
	return filter, page, true
}

// parseIDParam reads the :id path parameter. It writes the error response
// itself and reports false when the value is not a positive integer.
func parseIDParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, "id must be a positive integer")
		return 0, false
	}
	return id, true
}
