package handler

import (
	"github.com/gin-gonic/gin"

	appworkforce "github.com/fieldworks/backend/internal/application/workforce"
)

// TimeEntryHandler serves time tracking.
type TimeEntryHandler struct {
	BaseHandler
	entries *appworkforce.TimeEntryService
}

func NewTimeEntryHandler(entries *appworkforce.TimeEntryService) *TimeEntryHandler {
	return &TimeEntryHandler{entries: entries}
}

func (h *TimeEntryHandler) RegisterRoutes(_, authed *gin.RouterGroup) {
	g := authed.Group("/time-entries")
	g.POST("/clock-in", h.ClockIn)
	g.POST("/clock-out", h.ClockOut)
	g.GET("", h.ListBetween)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Adjust)
	g.DELETE("/:id", h.Delete)

	authed.GET("/jobs/:id/time-entries", h.ListByJob)
	authed.GET("/jobs/:id/time-summary", h.JobTimeSummary)
	authed.GET("/staff/:id/time-entries", h.ListByStaff)
}

// ClockIn starts a timer for a staff member on a job.
//
//	@Summary	Clock in
//	@Tags		time
//	@Security	BearerAuth
//	@Router		/time-entries/clock-in [post]
func (h *TimeEntryHandler) ClockIn(c *gin.Context) {
	var req appworkforce.ClockInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "invalid request body")
		return
	}
	resp, err := h.entries.ClockIn(c.Request.Context(), h.tenantID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ClockOut stops the staff member's running timer.
//
//	@Summary	Clock out
//	@Tags		time
//	@Security	BearerAuth
//	@Router		/time-entries/clock-out [post]
func (h *TimeEntryHandler) ClockOut(c *gin.Context) {
	var req appworkforce.ClockOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "invalid request body")
		return
	}
	resp, err := h.entries.ClockOut(c.Request.Context(), h.tenantID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListBetween returns entries whose start falls in [from, to].
//
//	@Summary	Time entries in a window
//	@Tags		time
//	@Security	BearerAuth
//	@Param		from	query	string	true	"RFC 3339 start"
//	@Param		to		query	string	true	"RFC 3339 end"
//	@Router		/time-entries [get]
func (h *TimeEntryHandler) ListBetween(c *gin.Context) {
	from, ok := h.bindTime(c, "from")
	if !ok {
		return
	}
	to, ok := h.bindTime(c, "to")
	if !ok {
		return
	}
	items, err := h.entries.ListBetween(c.Request.Context(), h.tenantID(c), from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// Get returns one time entry.
//
//	@Summary	Get time entry
//	@Tags		time
//	@Security	BearerAuth
//	@Router		/time-entries/{id} [get]
func (h *TimeEntryHandler) Get(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	resp, err := h.entries.GetByID(c.Request.Context(), h.tenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Adjust rewrites an entry's window after the fact.
//
//	@Summary	Adjust time entry
//	@Tags		time
//	@Security	BearerAuth
//	@Router		/time-entries/{id} [put]
func (h *TimeEntryHandler) Adjust(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var req appworkforce.AdjustTimeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "invalid request body")
		return
	}
	resp, err := h.entries.Adjust(c.Request.Context(), h.tenantID(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete removes a time entry.
//
//	@Summary	Delete time entry
//	@Tags		time
//	@Security	BearerAuth
//	@Router		/time-entries/{id} [delete]
func (h *TimeEntryHandler) Delete(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	if err := h.entries.Delete(c.Request.Context(), h.tenantID(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListByJob returns a job's time entries.
//
//	@Summary	Time entries for a job
//	@Tags		time
//	@Security	BearerAuth
//	@Router		/jobs/{id}/time-entries [get]
func (h *TimeEntryHandler) ListByJob(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var filter appworkforce.TimeEntryListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "invalid query parameters")
		return
	}
	items, err := h.entries.ListByJob(c.Request.Context(), h.tenantID(c), id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// JobTimeSummary totals hours and labor cost for a job.
//
//	@Summary	Job time summary
//	@Tags		time
//	@Security	BearerAuth
//	@Router		/jobs/{id}/time-summary [get]
func (h *TimeEntryHandler) JobTimeSummary(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	resp, err := h.entries.JobTimeSummary(c.Request.Context(), h.tenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListByStaff returns a staff member's time entries.
//
//	@Summary	Time entries for a staff member
//	@Tags		time
//	@Security	BearerAuth
//	@Router		/staff/{id}/time-entries [get]
func (h *TimeEntryHandler) ListByStaff(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var filter appworkforce.TimeEntryListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "invalid query parameters")
		return
	}
	items, err := h.entries.ListByStaff(c.Request.Context(), h.tenantID(c), id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}
