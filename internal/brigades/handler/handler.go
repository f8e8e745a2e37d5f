package handler

import (
	"net/http"
	"strings"

	"brigadas_backend/internal/brigades/domain"
	"brigadas_backend/internal/brigades/service"
	"brigadas_backend/internal/brigades/transport"
	"brigadas_backend/platform/apperr"
	"brigadas_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest = "invalid request"
	msgInvalidFilter  = "invalid filter"
)

// Handler handles HTTP requests for brigades.
type Handler struct {
	svc *service.Service
}

// New creates a new brigades handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers brigade routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/available", h.FindAvailable)
	rg.GET("/statistics", h.Statistics)
	rg.GET("/:id", h.GetByID)
	rg.PATCH("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.PUT("/:id/status", h.SetStatus)

	rg.POST("/:id/assignments", h.Assign)
	rg.DELETE("/:id/assignments/:reportId", h.Unassign)
	rg.POST("/:id/assignments/:reportId/complete", h.Complete)
}

// RegisterAdminRoutes registers operator-only brigade routes.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/:id/assignments/:reportId/reconcile", h.Reconcile)
}

func (h *Handler) List(c *gin.Context) {
	filter, ok := bindListFilter(c)
	if !ok {
		return
	}

	brigades, err := h.svc.List(c.Request.Context(), filter)
	httpkit.Respond(c, http.StatusOK, transport.ToBrigadeResponses(brigades), err, "")
}

func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateBrigadeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, apperr.Validation(msgInvalidRequest))
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	created, err := h.svc.Create(c.Request.Context(), req, identity.DisplayName())
	httpkit.Respond(c, http.StatusCreated, transport.ToBrigadeResponse(created), err, "brigade created")
}

func (h *Handler) GetByID(c *gin.Context) {
	brigade, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	httpkit.Respond(c, http.StatusOK, transport.ToBrigadeResponse(brigade), err, "")
}

func (h *Handler) Update(c *gin.Context) {
	var req transport.UpdateBrigadeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, apperr.Validation(msgInvalidRequest))
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), c.Param("id"), req)
	httpkit.Respond(c, http.StatusOK, transport.ToBrigadeResponse(updated), err, "brigade updated")
}

func (h *Handler) Delete(c *gin.Context) {
	err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	httpkit.Respond[any](c, http.StatusOK, nil, err, "brigade deactivated")
}

func (h *Handler) FindAvailable(c *gin.Context) {
	var req transport.AvailableBrigadesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, apperr.Validation(msgInvalidFilter))
		return
	}

	candidates, err := h.svc.FindAvailable(c.Request.Context(), req.Category, req.MaxWorkload)
	out := make([]transport.CandidateResponse, 0, len(candidates))
	for _, candidate := range candidates {
		out = append(out, transport.CandidateResponse{
			BrigadeResponse: transport.ToBrigadeResponse(candidate.Brigade),
			Workload:        candidate.Workload,
			Available:       candidate.Available,
		})
	}
	httpkit.Respond(c, http.StatusOK, out, err, "")
}

func (h *Handler) Assign(c *gin.Context) {
	var req transport.AssignReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, apperr.Validation(msgInvalidRequest))
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, message, err := h.svc.Assign(c.Request.Context(), c.Param("id"), req.ReportID, identity.DisplayName())
	httpkit.Respond(c, http.StatusOK, result, err, message)
}

func (h *Handler) Unassign(c *gin.Context) {
	err := h.svc.Unassign(c.Request.Context(), c.Param("id"), c.Param("reportId"))
	httpkit.Respond[any](c, http.StatusOK, nil, err, "report unassigned")
}

func (h *Handler) Complete(c *gin.Context) {
	err := h.svc.Complete(c.Request.Context(), c.Param("id"), c.Param("reportId"))
	httpkit.Respond[any](c, http.StatusOK, nil, err, "report completed")
}

func (h *Handler) SetStatus(c *gin.Context) {
	var req transport.SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, apperr.Validation(msgInvalidRequest))
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	updated, err := h.svc.SetStatus(c.Request.Context(), c.Param("id"), req.Status, identity.DisplayName())
	httpkit.Respond(c, http.StatusOK, transport.ToBrigadeResponse(updated), err, "brigade status updated")
}

func (h *Handler) Statistics(c *gin.Context) {
	filter, ok := bindListFilter(c)
	if !ok {
		return
	}

	summary, err := h.svc.GetStatistics(c.Request.Context(), filter)
	httpkit.Respond(c, http.StatusOK, summary, err, "")
}

func (h *Handler) Reconcile(c *gin.Context) {
	result, err := h.svc.ReconcileAssignment(c.Request.Context(), c.Param("id"), c.Param("reportId"))
	httpkit.Respond(c, http.StatusOK, result, err, "")
}

// bindListFilter parses the active, type and status query parameters. Unknown
// enum values are rejected instead of silently matching nothing.
func bindListFilter(c *gin.Context) (service.ListFilter, bool) {
	var req transport.ListBrigadesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, apperr.Validation(msgInvalidFilter))
		return service.ListFilter{}, false
	}

	filter := service.ListFilter{Active: req.Active}
	if strings.TrimSpace(req.Type) != "" {
		brigadeType, err := domain.ParseBrigadeType(req.Type)
		if err != nil {
			httpkit.Error(c, apperr.Validation(msgInvalidFilter).WithDetails(map[string]string{"type": req.Type}))
			return service.ListFilter{}, false
		}
		filter.Type = &brigadeType
	}
	if strings.TrimSpace(req.Status) != "" {
		status, err := domain.ParseStatus(req.Status)
		if err != nil {
			httpkit.Error(c, apperr.InvalidState(msgInvalidFilter).WithDetails(map[string]string{"status": req.Status}))
			return service.ListFilter{}, false
		}
		filter.Status = &status
	}
	return filter, true
}
