package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"reprasp/internal/logger"
	"reprasp/internal/models"
	"reprasp/internal/storage"
)

// Notifier delivers workflow events to people. Implementations must not
// block for long; errors are logged by the workflow and never surfaced.
type Notifier interface {
	NotifyNewRequest(ctx context.Context, adminIDs []int64, req *models.PendingRequest) error
	NotifyDecision(ctx context.Context, req *models.PendingRequest, approved bool) error
}

// Outcome tells the caller what happened to a submitted change.
type Outcome string

const (
	OutcomeCommitted Outcome = "committed"
	OutcomeQueued    Outcome = "queued"
)

// SubmitResult describes an accepted submission.
type SubmitResult struct {
	Outcome   Outcome
	Action    models.Action
	GroupName string
	Time      time.Time
	// Request is set when Outcome is OutcomeQueued.
	Request *models.PendingRequest
	// Created is false when an identical request was already pending.
	Created bool
}

// Workflow owns every rule about who may change the schedule and how.
// Front-ends translate user input into these calls and render the results.
type Workflow struct {
	repos *storage.Repositories
	loc   *time.Location
	now   func() time.Time

	mu       sync.RWMutex
	notifier Notifier
}

// NewWorkflow creates a workflow that interprets user supplied times in loc.
func NewWorkflow(repos *storage.Repositories, loc *time.Location) *Workflow {
	if loc == nil {
		loc = time.Local
	}
	return &Workflow{
		repos: repos,
		loc:   loc,
		now:   time.Now,
	}
}

// SetNotifier installs the notifier; nil disables notifications.
func (w *Workflow) SetNotifier(n Notifier) {
	w.mu.Lock()
	w.notifier = n
	w.mu.Unlock()
}

func (w *Workflow) getNotifier() Notifier {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.notifier
}

// Location is the zone user facing times are parsed and rendered in.
func (w *Workflow) Location() *time.Location {
	return w.loc
}

// FormatTime renders t as DD.MM.YYYY HH:MM in the workflow zone.
func (w *Workflow) FormatTime(t time.Time) string {
	return models.FormatDateTime(t, w.loc)
}

func (w *Workflow) validate(group, datetime string) (string, time.Time, error) {
	name, err := models.NormalizeGroupName(group)
	if err != nil {
		return "", time.Time{}, err
	}
	t, err := models.ParseDateTime(datetime, w.loc)
	if err != nil {
		return "", time.Time{}, err
	}
	return name, t, nil
}

func apply(ctx context.Context, repos *storage.Repositories, action models.Action, group string, t time.Time) error {
	switch action {
	case models.ActionAdd:
		return repos.Schedule.Add(ctx, group, t)
	case models.ActionDelete:
		_, err := repos.Schedule.Remove(ctx, group, t)
		return err
	default:
		return fmt.Errorf("action %q: %w", action, models.ErrInvalidFormat)
	}
}

// SubmitChange validates the change and either applies it at once (admin
// actor) or queues it for approval and notifies every admin.
func (w *Workflow) SubmitChange(ctx context.Context, actorID int64, group, datetime string, action models.Action, source models.Source) (*SubmitResult, error) {
	if !action.Valid() {
		return nil, fmt.Errorf("action %q: %w", action, models.ErrInvalidFormat)
	}
	name, t, err := w.validate(group, datetime)
	if err != nil {
		return nil, err
	}

	isAdmin, err := w.repos.Admins.IsAdmin(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("check admin: %w", err)
	}

	result := &SubmitResult{Action: action, GroupName: name, Time: t}

	if isAdmin {
		if err := apply(ctx, w.repos, action, name, t); err != nil {
			return nil, fmt.Errorf("apply %s: %w", action, err)
		}
		logger.Infof("Admin %d committed %s of %q at %s", actorID, action, name, w.FormatTime(t))
		result.Outcome = OutcomeCommitted
		return result, nil
	}

	req := &models.PendingRequest{
		GroupName:   name,
		TargetTime:  t,
		Action:      action,
		RequestedBy: actorID,
		Source:      source,
	}
	_, created, err := w.repos.Requests.Enqueue(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("enqueue request: %w", err)
	}
	result.Outcome = OutcomeQueued
	result.Request = req
	result.Created = created

	if created {
		logger.Infof("User %d queued request %d: %s %q at %s", actorID, req.ID, action, name, w.FormatTime(t))
		w.notifyAdmins(ctx, req)
	} else {
		logger.Debugf("User %d resubmitted pending request %d", actorID, req.ID)
	}
	return result, nil
}

func (w *Workflow) notifyAdmins(ctx context.Context, req *models.PendingRequest) {
	n := w.getNotifier()
	if n == nil {
		return
	}
	admins, err := w.repos.Admins.List(ctx)
	if err != nil {
		logger.Warningf("Cannot list admins for request %d: %v", req.ID, err)
		return
	}
	if len(admins) == 0 {
		logger.Warningf("Request %d has no admin to notify", req.ID)
		return
	}
	if err := n.NotifyNewRequest(ctx, admins, req); err != nil {
		logger.Warningf("Failed to notify admins about request %d: %v", req.ID, err)
	}
}

// Decide approves or rejects a pending request. Resolving the request and
// applying the change happen in one transaction, so a request can be acted
// on at most once. A second decision gets ErrNotFound.
func (w *Workflow) Decide(ctx context.Context, deciderID int64, requestID uint, approve bool) (*models.PendingRequest, error) {
	if err := w.requireAdmin(ctx, deciderID); err != nil {
		return nil, err
	}

	var req *models.PendingRequest
	err := w.repos.Transaction(ctx, func(tx *storage.Repositories) error {
		var err error
		req, err = tx.Requests.Resolve(ctx, requestID)
		if err != nil {
			return err
		}
		if !approve {
			return nil
		}
		return apply(ctx, tx, req.Action, req.GroupName, req.TargetTime)
	})
	if err != nil {
		return nil, err
	}

	verdict := "rejected"
	if approve {
		verdict = "approved"
	}
	logger.Infof("Admin %d %s request %d (%s %q at %s)", deciderID, verdict, req.ID, req.Action, req.GroupName, w.FormatTime(req.TargetTime))

	if n := w.getNotifier(); n != nil && req.RequestedBy != 0 {
		if err := n.NotifyDecision(ctx, req, approve); err != nil {
			logger.Warningf("Failed to notify user %d about request %d: %v", req.RequestedBy, req.ID, err)
		}
	}
	return req, nil
}

// CommitRevision is the admin "edit" path: the corrected entry is written
// directly. Any pending request it was derived from stays untouched.
func (w *Workflow) CommitRevision(ctx context.Context, actorID int64, group, datetime string) (*SubmitResult, error) {
	name, t, err := w.validate(group, datetime)
	if err != nil {
		return nil, err
	}
	if err := w.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	if err := w.repos.Schedule.Add(ctx, name, t); err != nil {
		return nil, fmt.Errorf("add revised entry: %w", err)
	}
	logger.Infof("Admin %d committed revised entry %q at %s", actorID, name, w.FormatTime(t))
	return &SubmitResult{Outcome: OutcomeCommitted, Action: models.ActionAdd, GroupName: name, Time: t}, nil
}

func (w *Workflow) requireAdmin(ctx context.Context, actorID int64) error {
	ok, err := w.repos.Admins.IsAdmin(ctx, actorID)
	if err != nil {
		return fmt.Errorf("check admin: %w", err)
	}
	if !ok {
		return fmt.Errorf("user %d is not an admin: %w", actorID, models.ErrForbidden)
	}
	return nil
}

func (w *Workflow) ListSchedule(ctx context.Context) ([]models.ScheduleEntry, error) {
	return w.repos.Schedule.List(ctx)
}

func (w *Workflow) ListPending(ctx context.Context) ([]models.PendingRequest, error) {
	return w.repos.Requests.List(ctx)
}

func (w *Workflow) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	return w.repos.Admins.IsAdmin(ctx, userID)
}

func (w *Workflow) ListAdmins(ctx context.Context) ([]int64, error) {
	return w.repos.Admins.List(ctx)
}

// AddAdmin lets an existing admin promote targetID.
func (w *Workflow) AddAdmin(ctx context.Context, actorID, targetID int64) error {
	if targetID <= 0 {
		return fmt.Errorf("user id %d: %w", targetID, models.ErrInvalidFormat)
	}
	if err := w.requireAdmin(ctx, actorID); err != nil {
		return err
	}
	if err := w.repos.Admins.Add(ctx, targetID); err != nil {
		return err
	}
	logger.Infof("Admin %d added admin %d", actorID, targetID)
	return nil
}

// RemoveAdmin lets an admin demote targetID. The primary admin cannot be
// removed by anyone.
func (w *Workflow) RemoveAdmin(ctx context.Context, actorID, targetID int64) error {
	if err := w.requireAdmin(ctx, actorID); err != nil {
		return err
	}
	if err := w.repos.Admins.Remove(ctx, targetID); err != nil {
		return err
	}
	logger.Infof("Admin %d removed admin %d", actorID, targetID)
	return nil
}

// Bootstrap designates the primary admin on a fresh store.
func (w *Workflow) Bootstrap(ctx context.Context, primaryID int64) (bool, error) {
	changed, err := w.repos.Admins.Initialize(ctx, primaryID)
	if err != nil {
		return false, err
	}
	if changed {
		logger.Infof("Primary admin set to %d", primaryID)
	}
	return changed, nil
}

// PurgePast deletes entries that already started.
func (w *Workflow) PurgePast(ctx context.Context) (int64, error) {
	return w.repos.Schedule.PurgeBefore(ctx, w.now())
}
