package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"parking-booking/internal/document"
	"parking-booking/internal/domain/user"
	reqdto "parking-booking/internal/handler/dto/request"
	resdto "parking-booking/internal/handler/dto/response"
	"parking-booking/internal/handler/middleware"
	"parking-booking/internal/usecase/commands"
	"parking-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const idempotencyHeader = "Idempotency-Key"

type BookingHandler struct {
	cmds   commands.BookingCommands
	q      queries.BookingQueries
	issuer *document.Issuer
}

func NewBookingHandler(cmds commands.BookingCommands, q queries.BookingQueries, issuer *document.Issuer) *BookingHandler {
	return &BookingHandler{cmds: cmds, q: q, issuer: issuer}
}

// @Summary Create booking
// @Description Reserve a slot for a time window. Replays the stored result when Idempotency-Key is repeated.
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Idempotency key (UUID)"
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 201 {object} resdto.CreateBookingResponse
// @Success 200 {object} resdto.CreateBookingResponse "Replayed"
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		unauthenticated(c)
		return
	}

	var idempotencyKey *uuid.UUID
	if raw := c.GetHeader(idempotencyHeader); raw != "" {
		key, err := uuid.Parse(raw)
		if err != nil {
			badRequest(c, err, "Idempotency-Key must be a UUID")
			return
		}
		idempotencyKey = &key
	}

	var req reqdto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err, "Invalid request format")
		return
	}

	result, err := h.cmds.CreateBooking(c.Request.Context(), actor, req.ToParams(), idempotencyKey)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusCreated
	if result.IsReplayed {
		status = http.StatusOK
		c.Header("Idempotent-Replayed", "true")
	}
	res, err := resdto.NewCreateBookingResponse(result.Booking, result.Slot)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, res)
}

// @Summary List my bookings
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param cursor query string false "Pagination cursor"
// @Param limit query int false "Page size (max 200)"
// @Success 200 {object} resdto.BookingListResponse
// @Router /bookings/mine [get]
func (h *BookingHandler) ListMine(c *gin.Context) {
	h.list(c, h.q.ListMine)
}

// @Summary List all bookings
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param cursor query string false "Pagination cursor"
// @Param limit query int false "Page size (max 200)"
// @Success 200 {object} resdto.BookingListResponse
// @Failure 403 {object} httperr.Response
// @Router /bookings [get]
func (h *BookingHandler) ListAll(c *gin.Context) {
	h.list(c, h.q.ListAll)
}

func (h *BookingHandler) list(c *gin.Context, fetch func(context.Context, user.Actor, *queries.Cursor, int) ([]*queries.BookingView, *queries.Cursor, error)) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		unauthenticated(c)
		return
	}
	var q reqdto.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err, "Invalid query parameters")
		return
	}

	views, next, err := fetch(c.Request.Context(), actor, &queries.Cursor{After: q.Cursor}, q.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	res, err := resdto.FromBookingList(views, next)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Get booking
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings/{id} [get]
func (h *BookingHandler) Get(c *gin.Context) {
	actor, id, ok := actorAndBookingID(c)
	if !ok {
		return
	}
	view, err := h.q.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	res, err := resdto.FromBookingView(view)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Fee details
// @Description Live estimate while parked, the frozen amount after check-out
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.FeeResponse
// @Failure 404 {object} httperr.Response
// @Router /bookings/{id}/fee [get]
func (h *BookingHandler) Fee(c *gin.Context) {
	actor, id, ok := actorAndBookingID(c)
	if !ok {
		return
	}
	fee, err := h.q.FeeQuote(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromFeeView(fee))
}

// @Summary Check in
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 409 {object} httperr.Response
// @Router /bookings/{id}/check-in [post]
func (h *BookingHandler) CheckIn(c *gin.Context) {
	h.transition(c, h.cmds.CheckIn)
}

// @Summary Check out
// @Description Freezes the fee at exit time; payment stays pending
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 409 {object} httperr.Response
// @Router /bookings/{id}/check-out [post]
func (h *BookingHandler) CheckOut(c *gin.Context) {
	h.transition(c, h.cmds.CheckOut)
}

// @Summary Cancel booking
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 409 {object} httperr.Response
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(c *gin.Context) {
	h.transition(c, h.cmds.Cancel)
}

// @Summary Pay for a booking
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.PaymentRequest false "Payment method (upi, card, cash)"
// @Success 200 {object} resdto.BookingResponse
// @Failure 409 {object} httperr.Response
// @Router /bookings/{id}/payment [post]
func (h *BookingHandler) Pay(c *gin.Context) {
	actor, id, ok := actorAndBookingID(c)
	if !ok {
		return
	}
	// An empty body selects the default method.
	var req reqdto.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err, "Invalid request format")
		return
	}
	view, err := h.cmds.ProcessPayment(c.Request.Context(), actor, id, req.Method)
	if err != nil {
		respondError(c, err)
		return
	}
	res, err := resdto.FromBookingView(view)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Download receipt
// @Tags bookings
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {file} binary
// @Failure 409 {object} httperr.Response
// @Router /bookings/{id}/receipt.pdf [get]
func (h *BookingHandler) Receipt(c *gin.Context) {
	actor, id, ok := actorAndBookingID(c)
	if !ok {
		return
	}
	view, err := h.q.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	pdf, err := h.issuer.Receipt(view)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=receipt-"+id.String()+".pdf")
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// @Summary Parking pass
// @Description QR code with a signed token for gate scanners
// @Tags bookings
// @Produce image/png
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {file} binary
// @Failure 409 {object} httperr.Response
// @Router /bookings/{id}/pass.png [get]
func (h *BookingHandler) Pass(c *gin.Context) {
	actor, id, ok := actorAndBookingID(c)
	if !ok {
		return
	}
	view, err := h.q.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	png, err := h.issuer.Pass(view)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (h *BookingHandler) transition(c *gin.Context, op func(context.Context, user.Actor, uuid.UUID) (*queries.BookingView, error)) {
	actor, id, ok := actorAndBookingID(c)
	if !ok {
		return
	}
	view, err := op(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	res, err := resdto.FromBookingView(view)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func actorAndBookingID(c *gin.Context) (user.Actor, uuid.UUID, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		unauthenticated(c)
		return user.Actor{}, uuid.Nil, false
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, err, "Invalid booking ID")
		return user.Actor{}, uuid.Nil, false
	}
	return actor, id, true
}
