package api

import (
	"net/http"
	"strings"

	reqdto "parking-booking/internal/handler/dto/request"
	resdto "parking-booking/internal/handler/dto/response"
	"parking-booking/internal/handler/middleware"
	"parking-booking/internal/usecase/commands"
	"parking-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SlotHandler struct {
	cmds commands.SlotCommands
	q    queries.SlotQueries
}

func NewSlotHandler(cmds commands.SlotCommands, q queries.SlotQueries) *SlotHandler {
	return &SlotHandler{cmds: cmds, q: q}
}

// @Summary List slots
// @Tags slots
// @Produce json
// @Param city query string false "City (case-insensitive)"
// @Param available query bool false "Only available / unavailable slots"
// @Success 200 {array} resdto.SlotResponse
// @Router /slots [get]
func (h *SlotHandler) List(c *gin.Context) {
	var q reqdto.SlotListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err, "Invalid query parameters")
		return
	}

	filter := queries.SlotFilter{Available: q.Available}
	if city := strings.TrimSpace(q.City); city != "" {
		filter.City = &city
	}

	views, err := h.q.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	res, err := resdto.FromSlotViews(views)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Get slot
// @Tags slots
// @Produce json
// @Param id path string true "Slot ID"
// @Success 200 {object} resdto.SlotResponse
// @Failure 404 {object} httperr.Response
// @Router /slots/{id} [get]
func (h *SlotHandler) Get(c *gin.Context) {
	id, ok := slotID(c)
	if !ok {
		return
	}
	view, err := h.q.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	res, err := resdto.FromSlotView(view)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Create slot
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateSlotRequest true "Slot"
// @Success 201 {object} resdto.SlotResponse
// @Failure 409 {object} httperr.Response
// @Router /admin/slots [post]
func (h *SlotHandler) Create(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		unauthenticated(c)
		return
	}
	var req reqdto.CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err, "Invalid request format")
		return
	}
	view, err := h.cmds.Create(c.Request.Context(), actor, req.ToParams())
	if err != nil {
		respondError(c, err)
		return
	}
	res, err := resdto.FromSlotView(view)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// @Summary Update slot location
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Slot ID"
// @Param request body reqdto.SlotLocationRequest true "Location attributes"
// @Success 200 {object} resdto.SlotResponse
// @Failure 404 {object} httperr.Response
// @Router /admin/slots/{id} [put]
func (h *SlotHandler) Update(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		unauthenticated(c)
		return
	}
	id, ok := slotID(c)
	if !ok {
		return
	}
	var req reqdto.SlotLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err, "Invalid request format")
		return
	}
	view, err := h.cmds.Update(c.Request.Context(), actor, id, req.ToParams())
	if err != nil {
		respondError(c, err)
		return
	}
	res, err := resdto.FromSlotView(view)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Delete slot
// @Description Soft delete; refused while the slot has BOOKED bookings
// @Tags admin
// @Security BearerAuth
// @Param id path string true "Slot ID"
// @Success 204 "No Content"
// @Failure 409 {object} httperr.Response
// @Router /admin/slots/{id} [delete]
func (h *SlotHandler) Delete(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		unauthenticated(c)
		return
	}
	id, ok := slotID(c)
	if !ok {
		return
	}
	if err := h.cmds.Delete(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Release slot
// @Description Restore availability of a slot left unavailable
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Slot ID"
// @Success 200 {object} resdto.SlotResponse
// @Router /admin/slots/{id}/release [post]
func (h *SlotHandler) Release(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		unauthenticated(c)
		return
	}
	id, ok := slotID(c)
	if !ok {
		return
	}
	view, err := h.cmds.Release(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	res, err := resdto.FromSlotView(view)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func slotID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, err, "Invalid slot ID")
		return uuid.Nil, false
	}
	return id, true
}
