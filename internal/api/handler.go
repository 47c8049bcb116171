package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"reprasp/internal/models"
	"reprasp/internal/service"
)

const userIDHeader = "X-User-Id"

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Workflow is the part of service.Workflow the API needs.
type Workflow interface {
	SubmitChange(ctx context.Context, actorID int64, group, datetime string, action models.Action, source models.Source) (*service.SubmitResult, error)
	Decide(ctx context.Context, deciderID int64, requestID uint, approve bool) (*models.PendingRequest, error)
	ListSchedule(ctx context.Context) ([]models.ScheduleEntry, error)
	ListPending(ctx context.Context) ([]models.PendingRequest, error)
	IsAdmin(ctx context.Context, userID int64) (bool, error)
	FormatTime(t time.Time) string
}

// Exporter produces the schedule workbook.
type Exporter interface {
	ExportSchedule(ctx context.Context) (*bytes.Buffer, string, error)
}

// Handler serves the JSON API used by the Telegram Web App.
type Handler struct {
	wf       Workflow
	exporter Exporter
}

func NewHandler(wf Workflow, exporter Exporter) *Handler {
	return &Handler{wf: wf, exporter: exporter}
}

type entryDTO struct {
	ID        uint   `json:"id"`
	GroupName string `json:"group_name"`
	DateTime  string `json:"date_time"`
}

type requestDTO struct {
	ID          uint   `json:"id"`
	GroupName   string `json:"group_name"`
	DateTime    string `json:"date_time"`
	Action      string `json:"action"`
	RequestedBy int64  `json:"requested_by,omitempty"`
	Source      string `json:"source"`
}

type submitRequest struct {
	GroupName string `json:"group_name"`
	Datetime  string `json:"datetime"`
	Action    string `json:"action"`
}

type submitResponse struct {
	Success   bool   `json:"success"`
	Status    string `json:"status"`
	RequestID uint   `json:"request_id,omitempty"`
}

// actorID reads X-User-Id. A missing header is the anonymous user 0.
func actorID(c *gin.Context) (int64, error) {
	raw := strings.TrimSpace(c.GetHeader(userIDHeader))
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s %q: %w", userIDHeader, raw, models.ErrInvalidFormat)
	}
	return id, nil
}

// ListSchedule GET /api/schedule/list
func (h *Handler) ListSchedule(c *gin.Context) {
	entries, err := h.wf.ListSchedule(c.Request.Context())
	if err != nil {
		handleWorkflowError(c, err)
		return
	}

	data := make([]entryDTO, 0, len(entries))
	for _, e := range entries {
		data = append(data, entryDTO{ID: e.ID, GroupName: e.GroupName, DateTime: h.wf.FormatTime(e.StartTime)})
	}
	c.JSON(http.StatusOK, gin.H{"data": data})
}

// SubmitChange POST /api/schedule/add and /api/schedule/delete. The path
// supplies the default action; an explicit action that disagrees with a
// delete path is rejected.
func (h *Handler) SubmitChange(defaultAction models.Action, strict bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := actorID(c)
		if err != nil {
			handleWorkflowError(c, err)
			return
		}

		var req submitRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, http.StatusBadRequest, CodeInvalidFormat, "invalid request body")
			return
		}

		action := defaultAction
		if req.Action != "" {
			action, err = models.ParseAction(req.Action)
			if err != nil {
				handleWorkflowError(c, err)
				return
			}
			if strict && action != defaultAction {
				abortWithError(c, http.StatusBadRequest, CodeInvalidFormat,
					fmt.Sprintf("action %q does not match endpoint", req.Action))
				return
			}
		}

		res, err := h.wf.SubmitChange(c.Request.Context(), actor, req.GroupName, req.Datetime, action, models.SourceAPI)
		if err != nil {
			handleWorkflowError(c, err)
			return
		}

		resp := submitResponse{Success: true, Status: string(res.Outcome)}
		if res.Request != nil {
			resp.RequestID = res.Request.ID
		}
		c.JSON(http.StatusOK, resp)
	}
}

// CheckAdmin GET /api/admin/check
func (h *Handler) CheckAdmin(c *gin.Context) {
	actor, err := actorID(c)
	if err != nil {
		handleWorkflowError(c, err)
		return
	}
	if actor == 0 {
		c.JSON(http.StatusOK, gin.H{"is_admin": false})
		return
	}

	ok, err := h.wf.IsAdmin(c.Request.Context(), actor)
	if err != nil {
		handleWorkflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_admin": ok})
}

// ListRequests GET /api/requests/list
func (h *Handler) ListRequests(c *gin.Context) {
	reqs, err := h.wf.ListPending(c.Request.Context())
	if err != nil {
		handleWorkflowError(c, err)
		return
	}

	data := make([]requestDTO, 0, len(reqs))
	for _, r := range reqs {
		data = append(data, requestDTO{
			ID:          r.ID,
			GroupName:   r.GroupName,
			DateTime:    h.wf.FormatTime(r.TargetTime),
			Action:      string(r.Action),
			RequestedBy: r.RequestedBy,
			Source:      string(r.Source),
		})
	}
	c.JSON(http.StatusOK, gin.H{"data": data})
}

// Decide POST /api/requests/:id/approve and /reject
func (h *Handler) Decide(approve bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := actorID(c)
		if err != nil {
			handleWorkflowError(c, err)
			return
		}

		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil || id == 0 {
			abortWithError(c, http.StatusBadRequest, CodeInvalidFormat, "invalid request id")
			return
		}

		if _, err := h.wf.Decide(c.Request.Context(), actor, uint(id), approve); err != nil {
			handleWorkflowError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// ExportSchedule GET /api/schedule/export
func (h *Handler) ExportSchedule(c *gin.Context) {
	buf, filename, err := h.exporter.ExportSchedule(c.Request.Context())
	if err != nil {
		handleWorkflowError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// Health GET /healthz
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
