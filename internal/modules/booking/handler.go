package booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"stayease/internal/domain"
	"stayease/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.ClaimBed)
	rg.GET("/bookings", h.ListMyBookings)
	rg.GET("/bookings/:id", h.GetBooking)
	rg.GET("/bookings/reference/:reference", h.GetBookingByReference)
	rg.PATCH("/bookings/:id/status", h.TransitionBooking)
	rg.POST("/bookings/:id/cancel", h.CancelBooking)
	rg.GET("/owner/bookings", h.ListOwnerBookings)
}

func (h *Handler) ClaimBed(c *gin.Context) {
	var req ClaimBedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	userID := c.GetInt64("user_id")
	b, err := h.service.ClaimBed(c.Request.Context(), userID, req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := toBookingResponse(b)
	response.Success(c, http.StatusCreated, gin.H{"booking": resp})
}

func (h *Handler) GetBooking(c *gin.Context) {
	bookingID, ok := paramID(c, "id")
	if !ok {
		return
	}

	b, err := h.service.GetBooking(c.Request.Context(), bookingID, c.GetInt64("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := toBookingResponse(b)
	response.Success(c, http.StatusOK, gin.H{"booking": resp})
}

func (h *Handler) GetBookingByReference(c *gin.Context) {
	b, err := h.service.GetBookingByReference(c.Request.Context(), c.Param("reference"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := toBookingResponse(b)
	response.Success(c, http.StatusOK, gin.H{"booking": resp})
}

func (h *Handler) ListMyBookings(c *gin.Context) {
	page, size := pageParams(c)
	result, err := h.service.ListBookingsForRequester(c.Request.Context(), c.GetInt64("user_id"), page, size)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": result})
}

func (h *Handler) ListOwnerBookings(c *gin.Context) {
	page, size := pageParams(c)

	var status *domain.BookingStatus
	if raw := c.Query("status"); raw != "" {
		parsed, err := ParseStatus(raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown booking status")
			return
		}
		status = &parsed
	}

	result, err := h.service.ListBookingsForProperty(c.Request.Context(), c.GetInt64("user_id"), status, page, size)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": result})
}

func (h *Handler) TransitionBooking(c *gin.Context) {
	bookingID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	target, err := ParseStatus(req.Status)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown booking status")
		return
	}

	b, err := h.service.TransitionBooking(c.Request.Context(), bookingID, c.GetInt64("user_id"), target)
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := toBookingResponse(b)
	response.Success(c, http.StatusOK, gin.H{"booking": resp})
}

func (h *Handler) CancelBooking(c *gin.Context) {
	bookingID, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.service.CancelBooking(c.Request.Context(), bookingID, c.GetInt64("user_id")); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"cancelled": true})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Resource not found")
	case errors.Is(err, ErrRelationshipMismatch):
		response.Error(c, http.StatusBadRequest, "RELATIONSHIP_MISMATCH", "Resource does not belong to the stated parent")
	case errors.Is(err, ErrBedUnavailable), errors.Is(err, ErrBedAlreadyClaimed):
		response.Error(c, http.StatusConflict, "BED_NOT_AVAILABLE", "Bed is not available for booking")
	case errors.Is(err, ErrInvalidTransition):
		response.Error(c, http.StatusBadRequest, "INVALID_TRANSITION", err.Error())
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You don't have permission for this operation")
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Operation failed")
	}
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	return page, size
}

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid identifier")
		return 0, false
	}
	return id, true
}
