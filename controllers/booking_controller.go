// controllers/booking_controller.go
package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"campus-booking-backend/middleware"
	"campus-booking-backend/models"
	"campus-booking-backend/services"
	"campus-booking-backend/utils"

	"github.com/gin-gonic/gin"
)

type createBookingPayload struct {
	RoomID    uint      `json:"room_id" binding:"required"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
	Note      string    `json:"note" binding:"omitempty,max=300"`
}

type BookingController struct {
	Bookings *services.BookingService
}

func NewBookingController(svc *services.BookingService) *BookingController {
	return &BookingController{Bookings: svc}
}

// bookingErrorStatus maps engine error kinds to HTTP statuses.
func bookingErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidTime),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrAlreadyCancelled),
		errors.Is(err, services.ErrRejectedNotCancellable):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrRoomNotFound),
		errors.Is(err, services.ErrBookingNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (bc *BookingController) CreateBooking(c *gin.Context) {
	var payload createBookingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	user := middleware.CurrentUser(c)
	booking, err := bc.Bookings.CreateBooking(user.ID, payload.RoomID, payload.StartTime, payload.EndTime, payload.Note)
	if err != nil {
		status := bookingErrorStatus(err)
		if status == http.StatusInternalServerError {
			utils.JSONError(c, status, "failed to create booking")
			return
		}
		utils.JSONError(c, status, err.Error())
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// GetBookings lists the caller's bookings with optional status/room filters
// and limit/offset pagination.
func (bc *BookingController) GetBookings(c *gin.Context) {
	user := middleware.CurrentUser(c)

	filter := services.BookingFilter{
		UserID: user.ID,
		Limit:  20,
	}

	if raw := c.Query("status"); raw != "" {
		status := models.BookingStatus(raw)
		if !status.IsValid() {
			utils.JSONError(c, http.StatusBadRequest, "unknown booking status")
			return
		}
		filter.Status = status
	}
	if raw := c.Query("room_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid room_id")
			return
		}
		filter.RoomID = uint(id)
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > 100 {
			utils.JSONError(c, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		filter.Limit = limit
	}
	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			utils.JSONError(c, http.StatusBadRequest, "invalid offset")
			return
		}
		filter.Offset = offset
	}

	bookings, err := bc.Bookings.ListForUser(filter)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to retrieve bookings")
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (bc *BookingController) GetBookingByID(c *gin.Context) {
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}

	booking, err := bc.Bookings.GetBooking(id)
	if err != nil {
		if errors.Is(err, services.ErrBookingNotFound) {
			utils.JSONError(c, http.StatusNotFound, "booking not found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to retrieve booking")
		return
	}

	user := middleware.CurrentUser(c)
	if booking.UserID != user.ID && !models.IsPrivileged(user.Role) {
		utils.JSONError(c, http.StatusForbidden, "not allowed to view this booking")
		return
	}
	c.JSON(http.StatusOK, booking)
}

// ApproveBooking performs the final overlap check and flips a PENDING booking
// to APPROVED. STAFF/ADMIN only (enforced by routing).
func (bc *BookingController) ApproveBooking(c *gin.Context) {
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}

	booking, err := bc.Bookings.ApproveBooking(id)
	if err != nil {
		utils.JSONError(c, bookingErrorStatus(err), err.Error())
		return
	}
	c.JSON(http.StatusOK, booking)
}

func (bc *BookingController) RejectBooking(c *gin.Context) {
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}

	booking, err := bc.Bookings.RejectBooking(id)
	if err != nil {
		utils.JSONError(c, bookingErrorStatus(err), err.Error())
		return
	}
	c.JSON(http.StatusOK, booking)
}

// CancelBooking cancels a PENDING or APPROVED booking. Owners can cancel
// their own bookings; STAFF/ADMIN can cancel any.
func (bc *BookingController) CancelBooking(c *gin.Context) {
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}

	booking, err := bc.Bookings.GetBooking(id)
	if err != nil {
		if errors.Is(err, services.ErrBookingNotFound) {
			utils.JSONError(c, http.StatusNotFound, "booking not found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to retrieve booking")
		return
	}

	user := middleware.CurrentUser(c)
	if booking.UserID != user.ID && !models.IsPrivileged(user.Role) {
		utils.JSONError(c, http.StatusForbidden, "not allowed to cancel this booking")
		return
	}

	booking, err = bc.Bookings.CancelBooking(id)
	if err != nil {
		utils.JSONError(c, bookingErrorStatus(err), err.Error())
		return
	}
	c.JSON(http.StatusOK, booking)
}

func bookingIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid booking id")
		return 0, false
	}
	return uint(id), true
}
