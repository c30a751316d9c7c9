package api

import (
	"net/http"

	"parking-booking/internal/handler/httperr"
	"parking-booking/internal/pkg/errs"
	"parking-booking/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

var errUnauthenticated = errs.New("missing authenticated actor")

type errorMapping struct {
	target  error
	status  int
	message string
}

// Order matters: the first matching sentinel wins.
var errorMappings = []errorMapping{
	{errs.ErrSlotNotFound, http.StatusNotFound, "Slot not found"},
	{errs.ErrBookingNotFound, http.StatusNotFound, "Booking not found"},
	{errs.ErrValidationUnavailable, http.StatusServiceUnavailable, "Slot validation service unavailable"},
	{errs.ErrSlotConflict, http.StatusConflict, "Slot is already booked for this time period"},
	{errs.ErrAlreadyPaid, http.StatusConflict, "Booking has already been paid"},
	{errs.ErrConcurrentModification, http.StatusConflict, "Booking was modified concurrently, retry"},
	{errs.ErrBookingNotOwned, http.StatusForbidden, "Access denied"},
	{errs.ErrForbidden, http.StatusForbidden, "Access denied"},
	{errs.ErrIdempotencyKeyReused, http.StatusConflict, "Idempotency key reused with a different request"},
	{errs.ErrIdempotencyInProgress, http.StatusConflict, "A request with this idempotency key is still in progress"},
	{errs.ErrDuplicateSlotNumber, http.StatusConflict, "Slot number already exists"},
	{errs.ErrSlotInUse, http.StatusConflict, "Slot has active bookings"},
	{errs.ErrNotPaid, http.StatusConflict, "Booking has not been paid"},
	{errs.ErrPassUnavailable, http.StatusConflict, "Parking pass is only available for active bookings"},
	{errs.ErrAnalyticsUnavailable, http.StatusServiceUnavailable, "Analytics service unavailable"},
	{errs.ErrAnalyticsFailed, http.StatusInternalServerError, "Analytics request failed"},
}

// respondError translates use-case errors into the public error taxonomy.
func respondError(c *gin.Context, err error) {
	var rejected *commands.ValidationRejectedError
	if errs.As(err, &rejected) {
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, rejected.Message, nil)
		return
	}
	var transition *commands.TransitionError
	if errs.As(err, &transition) {
		httperr.AbortWithError(c, http.StatusConflict, err, transition.Error(), nil)
		return
	}
	if errs.Is(err, errs.ErrInvalidInput) {
		httperr.AbortWithError(c, http.StatusBadRequest, err, err.Error(), nil)
		return
	}

	for _, m := range errorMappings {
		if errs.Is(err, m.target) {
			httperr.AbortWithError(c, m.status, err, m.message, nil)
			return
		}
	}
	httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
}

func badRequest(c *gin.Context, err error, msg string) {
	httperr.AbortWithError(c, http.StatusBadRequest, err, msg, nil)
}

func unauthenticated(c *gin.Context) {
	httperr.AbortWithError(c, http.StatusUnauthorized, errUnauthenticated, "Access token required", nil)
}
