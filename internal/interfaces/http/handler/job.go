package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appjob "github.com/fieldworks/backend/internal/application/job"
)

// JobHandler serves job scheduling and lifecycle.
type JobHandler struct {
	BaseHandler
	jobs *appjob.JobService
}

func NewJobHandler(jobs *appjob.JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

func (h *JobHandler) RegisterRoutes(_, authed *gin.RouterGroup) {
	g := authed.Group("/jobs")
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/schedule", h.Schedule)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.POST("/:id/reschedule", h.Reschedule)
	g.POST("/:id/staff/:staff_id", h.AssignStaff)
	g.DELETE("/:id/staff/:staff_id", h.UnassignStaff)
	g.POST("/:id/start", h.Start)
	g.POST("/:id/complete", h.Complete)
	g.POST("/:id/cancel", h.Cancel)
	g.DELETE("/:id", h.Delete)

	authed.GET("/customers/:id/jobs", h.ListByCustomer)
	authed.GET("/staff/:id/jobs", h.ListByStaff)
}

type jobStaffURI struct {
	ID      string `uri:"id" binding:"required,uuid"`
	StaffID string `uri:"staff_id" binding:"required,uuid"`
}

// Create opens a job for a customer, optionally assigning crew.
//
//	@Summary	Create job
//	@Tags		jobs
//	@Security	BearerAuth
//	@Router		/jobs [post]
func (h *JobHandler) Create(c *gin.Context) {
	var req appjob.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "invalid request body")
		return
	}
	resp, err := h.jobs.Create(c.Request.Context(), h.tenantID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List pages jobs.
//
//	@Summary	List jobs
//	@Tags		jobs
//	@Security	BearerAuth
//	@Router		/jobs [get]
func (h *JobHandler) List(c *gin.Context) {
	var filter appjob.JobListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "invalid query parameters")
		return
	}
	items, total, err := h.jobs.List(c.Request.Context(), h.tenantID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, listMeta(filter.Page, filter.PageSize, total))
}

// Schedule returns jobs whose window overlaps [from, to].
//
//	@Summary	Job schedule
//	@Tags		jobs
//	@Security	BearerAuth
//	@Param		from	query	string	true	"RFC 3339 start"
//	@Param		to		query	string	true	"RFC 3339 end"
//	@Router		/jobs/schedule [get]
func (h *JobHandler) Schedule(c *gin.Context) {
	from, ok := h.bindTime(c, "from")
	if !ok {
		return
	}
	to, ok := h.bindTime(c, "to")
	if !ok {
		return
	}
	items, err := h.jobs.Schedule(c.Request.Context(), h.tenantID(c), from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// ListByCustomer pages one customer's jobs.
//
//	@Summary	Jobs for a customer
//	@Tags		jobs
//	@Security	BearerAuth
//	@Router		/customers/{id}/jobs [get]
func (h *JobHandler) ListByCustomer(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var filter appjob.JobListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "invalid query parameters")
		return
	}
	items, total, err := h.jobs.ListByCustomer(c.Request.Context(), h.tenantID(c), id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, listMeta(filter.Page, filter.PageSize, total))
}

// ListByStaff returns jobs a staff member is assigned to.
//
//	@Summary	Jobs for a staff member
//	@Tags		jobs
//	@Security	BearerAuth
//	@Router		/staff/{id}/jobs [get]
func (h *JobHandler) ListByStaff(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var filter appjob.JobListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "invalid query parameters")
		return
	}
	items, err := h.jobs.ListByStaff(c.Request.Context(), h.tenantID(c), id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// Get returns one job.
//
//	@Summary	Get job
//	@Tags		jobs
//	@Security	BearerAuth
//	@Router		/jobs/{id} [get]
func (h *JobHandler) Get(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	resp, err := h.jobs.GetByID(c.Request.Context(), h.tenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update edits job details while the job is open.
//
//	@Summary	Update job
//	@Tags		jobs
//	@Security	BearerAuth
//	@Router		/jobs/{id} [put]
func (h *JobHandler) Update(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var req appjob.UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "invalid request body")
		return
	}
	resp, err := h.jobs.Update(c.Request.Context(), h.tenantID(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Reschedule moves the job's planned window.
//
//	@Summary	Reschedule job
//	@Tags		jobs
//	@Security	BearerAuth
//	@Router		/jobs/{id}/reschedule [post]
func (h *JobHandler) Reschedule(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var req appjob.RescheduleJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "invalid request body")
		return
	}
	resp, err := h.jobs.Reschedule(c.Request.Context(), h.tenantID(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AssignStaff puts a staff member on the crew.
//
//	@Summary	Assign staff to job
//	@Tags		jobs
//	@Security	BearerAuth
//	@Router		/jobs/{id}/staff/{staff_id} [post]
func (h *JobHandler) AssignStaff(c *gin.Context) {
	h.staffAction(c, h.jobs.AssignStaff)
}

// UnassignStaff takes a staff member off the crew.
//
//	@Summary	Unassign staff from job
//	@Tags		jobs
//	@Security	BearerAuth
//	@Router		/jobs/{id}/staff/{staff_id} [delete]
func (h *JobHandler) UnassignStaff(c *gin.Context) {
	h.staffAction(c, h.jobs.UnassignStaff)
}

// Start moves the job to in progress.
//
//	@Summary	Start job
//	@Tags		jobs
//	@Security	BearerAuth
//	@Router		/jobs/{id}/start [post]
func (h *JobHandler) Start(c *gin.Context) {
	h.jobAction(c, h.jobs.Start)
}

// Complete finishes an in-progress job.
//
//	@Summary	Complete job
//	@Tags		jobs
//	@Security	BearerAuth
//	@Router		/jobs/{id}/complete [post]
func (h *JobHandler) Complete(c *gin.Context) {
	h.jobAction(c, h.jobs.Complete)
}

// Cancel abandons an open job with a reason.
//
//	@Summary	Cancel job
//	@Tags		jobs
//	@Security	BearerAuth
//	@Router		/jobs/{id}/cancel [post]
func (h *JobHandler) Cancel(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var req appjob.CancelJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "invalid request body")
		return
	}
	resp, err := h.jobs.Cancel(c.Request.Context(), h.tenantID(c), id, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete removes a job with no time entries.
//
//	@Summary	Delete job
//	@Tags		jobs
//	@Security	BearerAuth
//	@Router		/jobs/{id} [delete]
func (h *JobHandler) Delete(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	if err := h.jobs.Delete(c.Request.Context(), h.tenantID(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *JobHandler) jobAction(c *gin.Context, fn func(ctx context.Context, tenantID, id uuid.UUID) (*appjob.JobResponse, error)) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	resp, err := fn(c.Request.Context(), h.tenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *JobHandler) staffAction(c *gin.Context, fn func(ctx context.Context, tenantID, jobID, staffID uuid.UUID) (*appjob.JobResponse, error)) {
	var uri jobStaffURI
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "invalid id")
		return
	}
	jobID, err := uuid.Parse(uri.ID)
	if err != nil {
		h.BadRequest(c, "invalid id")
		return
	}
	staffID, err := uuid.Parse(uri.StaffID)
	if err != nil {
		h.BadRequest(c, "invalid id")
		return
	}
	resp, err := fn(c.Request.Context(), h.tenantID(c), jobID, staffID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// bindTime parses a required RFC 3339 query parameter.
func (h *BaseHandler) bindTime(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		h.BadRequest(c, name+" is required")
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		h.BadRequest(c, name+" must be RFC 3339")
		return time.Time{}, false
	}
	return t, true
}
