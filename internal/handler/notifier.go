package handler

import (
	"context"
	"errors"
	"fmt"

	"reprasp/internal/models"
	"reprasp/internal/service"
)

var _ service.Notifier = (*Handler)(nil)

// NotifyNewRequest sends the request with Accept/Reject/Edit buttons to
// every admin. It keeps going after a failed send and returns the joined
// errors.
func (h *Handler) NotifyNewRequest(ctx context.Context, adminIDs []int64, req *models.PendingRequest) error {
	key := "notify_add"
	if req.Action == models.ActionDelete {
		key = "notify_delete"
	}
	text := fmt.Sprintf(h.t(key), models.SourceLabel(h.lang, req.Source), req.GroupName, h.wf.FormatTime(req.TargetTime))
	// editing only makes sense for bookings
	markup := h.requestKeyboard(req.ID, req.Action == models.ActionAdd)

	var errs []error
	for _, adminID := range adminIDs {
		if err := h.send(ctx, adminID, text, markup); err != nil {
			errs = append(errs, fmt.Errorf("admin %d: %w", adminID, err))
		}
	}
	return errors.Join(errs...)
}

// NotifyDecision tells the requester how their request was decided.
func (h *Handler) NotifyDecision(ctx context.Context, req *models.PendingRequest, approved bool) error {
	key := "requester_rejected"
	if approved {
		key = "requester_approved"
	}
	text := fmt.Sprintf(h.t(key), req.GroupName, h.wf.FormatTime(req.TargetTime))
	return h.send(ctx, req.RequestedBy, text, nil)
}
