// Package service provides business logic between API handlers and data stores.
package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/fundforge/fundforge/internal/audit"
	"github.com/fundforge/fundforge/internal/domain"
	"github.com/fundforge/fundforge/internal/metrics"
	"github.com/fundforge/fundforge/internal/models"
	"github.com/fundforge/fundforge/internal/policy"
)

// ModerationStore is the data-access interface ModerationService depends on.
type ModerationStore interface {
	GetComment(ctx context.Context, commentID string) (*models.Comment, error)
	UpdateState(ctx context.Context, commentID string, expectVersion int64, state models.ModerationState) (*models.Comment, error)
	AddReport(ctx context.Context, commentID string, expectVersion int64, reporterID string) (*models.Comment, bool, error)
}

// Authorizer decides whether an actor may exercise a capability.
type Authorizer interface {
	Authorize(actor models.Actor, capability policy.Capability, resourceOwnerID string) policy.Decision
}

// Auditor is an alias for the canonical domain.Auditor interface.
type Auditor = domain.Auditor

// Compile-time check: *ModerationService must satisfy domain.ModerationService.
var _ domain.ModerationService = (*ModerationService)(nil)

// ModerationService drives the comment moderation state machine. Every
// transition passes through the decision engine before any mutation, commits
// under optimistic concurrency with one transparent retry, and appends its
// audit record synchronously so an audit failure can be reported to the
// caller rather than swallowed.
type ModerationService struct {
	comments ModerationStore
	auditor  Auditor
	denials  AuditEnqueuer
	engine   Authorizer
	log      *logrus.Logger
}

// NewModerationService creates a ModerationService. denials may be nil to
// disable best-effort denial records.
func NewModerationService(
	comments ModerationStore, auditor Auditor, denials AuditEnqueuer, engine Authorizer, log *logrus.Logger,
) *ModerationService {
	return &ModerationService{comments: comments, auditor: auditor, denials: denials, engine: engine, log: log}
}

// validTransition reports whether the action is defined for the given state
// and, if so, the state it leads to. Removed comments are absorbing: nothing
// here leads out of them.
func validTransition(state models.ModerationState, action models.Action) (models.ModerationState, bool) {
	if state.Terminal() {
		return "", false
	}

	switch action {
	case models.ActionReport:
		// Reporting applies to publicly visible content only.
		if state == models.StateVisible || state == models.StateReported {
			return models.StateReported, true
		}
	case models.ActionHide:
		return models.StateHidden, true
	case models.ActionRemove, models.ActionDeleteOwn:
		return models.StateRemoved, true
	case models.ActionRestore:
		if state == models.StateHidden {
			return models.StateVisible, true
		}
	}

	return "", false
}

// Report registers the acting user's report against the comment. Duplicate
// reports by the same user are a no-op: the result carries ReportAdded=false
// and no audit record is written, since nothing committed.
func (s *ModerationService) Report(
	ctx context.Context, actor models.Actor, commentID, reason string, rc *models.RequestContext,
) (*models.TransitionResult, error) {
	c, err := s.comments.GetComment(ctx, commentID)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(actor, policy.ReportComment, c, rc); err != nil {
		return nil, err
	}

	if _, ok := validTransition(c.State, models.ActionReport); !ok {
		return nil, s.invalid(c.State, models.ActionReport)
	}

	before := c.Snapshot()

	updated, added, err := s.comments.AddReport(ctx, commentID, c.Version, actor.ID)
	if errors.Is(err, models.ErrVersionConflict) {
		updated, added, before, err = s.retryReport(ctx, actor, commentID)
	}
	if err != nil {
		return nil, err
	}

	result := &models.TransitionResult{Comment: updated, ReportAdded: added}
	if !added {
		return result, nil
	}

	s.appendAudit(ctx, result, audit.Input{
		Actor:         actor,
		Action:        models.ActionReport,
		EntityType:    "comment",
		EntityID:      updated.ID,
		EntityOwnerID: updated.AuthorID,
		Before:        before,
		After:         updated.Snapshot(),
		Metadata:      reasonMetadata(reason),
		Request:       rc,
	})

	metrics.TransitionsTotal.WithLabelValues(string(models.ActionReport), "committed").Inc()

	return result, nil
}

// retryReport re-reads fresh state after a version conflict and retries the
// report exactly once.
func (s *ModerationService) retryReport(
	ctx context.Context, actor models.Actor, commentID string,
) (*models.Comment, bool, map[string]any, error) {
	fresh, err := s.comments.GetComment(ctx, commentID)
	if err != nil {
		return nil, false, nil, err
	}

	if _, ok := validTransition(fresh.State, models.ActionReport); !ok {
		return nil, false, nil, s.invalid(fresh.State, models.ActionReport)
	}

	before := fresh.Snapshot()

	updated, added, err := s.comments.AddReport(ctx, commentID, fresh.Version, actor.ID)
	if err != nil {
		if errors.Is(err, models.ErrVersionConflict) {
			metrics.TransitionsTotal.WithLabelValues(string(models.ActionReport), "conflict").Inc()
		}
		return nil, false, nil, err
	}

	return updated, added, before, nil
}

// Hide moves the comment out of public view. Moderator/admin only.
func (s *ModerationService) Hide(
	ctx context.Context, actor models.Actor, commentID, reason string, rc *models.RequestContext,
) (*models.TransitionResult, error) {
	return s.moderate(ctx, actor, commentID, models.ActionHide, policy.ModerateComment, reason, rc)
}

// Remove permanently removes the comment. Moderator/admin only; terminal.
func (s *ModerationService) Remove(
	ctx context.Context, actor models.Actor, commentID, reason string, rc *models.RequestContext,
) (*models.TransitionResult, error) {
	return s.moderate(ctx, actor, commentID, models.ActionRemove, policy.ModerateComment, reason, rc)
}

// Restore returns a hidden comment to visible. Removed comments are not
// restorable through this action.
func (s *ModerationService) Restore(
	ctx context.Context, actor models.Actor, commentID, reason string, rc *models.RequestContext,
) (*models.TransitionResult, error) {
	return s.moderate(ctx, actor, commentID, models.ActionRestore, policy.ModerateComment, reason, rc)
}

// DeleteOwn removes the comment on behalf of its author. The end state is
// identical to a moderator removal but the audit trail records the distinct
// delete_own action for provenance.
func (s *ModerationService) DeleteOwn(
	ctx context.Context, actor models.Actor, commentID string, rc *models.RequestContext,
) (*models.TransitionResult, error) {
	return s.moderate(ctx, actor, commentID, models.ActionDeleteOwn, policy.DeleteOwnComment, "", rc)
}

// moderate runs the shared transition pipeline: authorize, validate, apply
// the version-conditioned write (retrying once on conflict), then audit.
func (s *ModerationService) moderate(
	ctx context.Context, actor models.Actor, commentID string,
	action models.Action, capability policy.Capability, reason string, rc *models.RequestContext,
) (*models.TransitionResult, error) {
	c, err := s.comments.GetComment(ctx, commentID)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(actor, capability, c, rc); err != nil {
		return nil, err
	}

	target, ok := validTransition(c.State, action)
	if !ok {
		return nil, s.invalid(c.State, action)
	}

	before := c.Snapshot()

	updated, err := s.comments.UpdateState(ctx, commentID, c.Version, target)
	if errors.Is(err, models.ErrVersionConflict) {
		updated, before, err = s.retryModerate(ctx, commentID, action)
	}
	if err != nil {
		return nil, err
	}

	result := &models.TransitionResult{Comment: updated}

	in := audit.Input{
		Actor:         actor,
		Action:        action,
		EntityType:    "comment",
		EntityID:      updated.ID,
		EntityOwnerID: updated.AuthorID,
		Before:        before,
		Metadata:      reasonMetadata(reason),
		Request:       rc,
	}
	// Removals are deletions from the audit taxonomy's point of view: the
	// final snapshot is the before-image, there is no after.
	if action != models.ActionRemove && action != models.ActionDeleteOwn {
		in.After = updated.Snapshot()
	}

	s.appendAudit(ctx, result, in)

	metrics.TransitionsTotal.WithLabelValues(string(action), "committed").Inc()

	return result, nil
}

// retryModerate re-reads fresh state after a version conflict and retries
// the conditioned write exactly once. A second conflict surfaces
// models.ErrVersionConflict to the caller as a transient failure.
func (s *ModerationService) retryModerate(
	ctx context.Context, commentID string, action models.Action,
) (*models.Comment, map[string]any, error) {
	fresh, err := s.comments.GetComment(ctx, commentID)
	if err != nil {
		return nil, nil, err
	}

	target, ok := validTransition(fresh.State, action)
	if !ok {
		return nil, nil, s.invalid(fresh.State, action)
	}

	before := fresh.Snapshot()

	updated, err := s.comments.UpdateState(ctx, commentID, fresh.Version, target)
	if err != nil {
		if errors.Is(err, models.ErrVersionConflict) {
			metrics.TransitionsTotal.WithLabelValues(string(action), "conflict").Inc()
		}
		return nil, nil, err
	}

	return updated, before, nil
}

// authorize consults the decision engine and, on denial, records the attempt
// on the best-effort denial path before returning the denial verbatim.
func (s *ModerationService) authorize(
	actor models.Actor, capability policy.Capability, c *models.Comment, rc *models.RequestContext,
) error {
	decision := s.engine.Authorize(actor, capability, c.AuthorID)
	if decision.Allowed {
		return nil
	}

	metrics.AuthzDenialsTotal.WithLabelValues(string(capability), string(decision.Reason)).Inc()

	s.log.WithFields(logrus.Fields{
		"actor_id":   actor.ID,
		"actor_role": actor.Role,
		"capability": capability,
		"comment_id": c.ID,
		"reason":     decision.Reason,
	}).Info("moderation.denied")

	if s.denials != nil {
		rec := audit.Build(audit.Input{
			Actor:         actor,
			Action:        models.ActionAuthDenied,
			EntityType:    "comment",
			EntityID:      c.ID,
			EntityOwnerID: c.AuthorID,
			Metadata: map[string]any{
				"capability": string(capability),
				"reason":     string(decision.Reason),
			},
			Request: rc,
		})
		s.denials.Enqueue(&AuditJob{Record: &rec})
	}

	return decision.Err(capability)
}

// appendAudit builds and durably appends the transition's audit record. The
// primary mutation already committed: an append failure never reverts it,
// but it is surfaced on the result as a distinct reportable condition
// because silent audit loss is a compliance gap.
func (s *ModerationService) appendAudit(ctx context.Context, result *models.TransitionResult, in audit.Input) {
	rec := audit.Build(in)

	if err := s.auditor.Append(ctx, &rec); err != nil {
		metrics.AuditWriteFailuresTotal.Inc()
		s.log.WithError(err).WithFields(logrus.Fields{
			"action":    in.Action,
			"entity_id": in.EntityID,
		}).Error("audit append failed after committed transition")

		result.AuditWriteFailed = true

		return
	}

	result.Record = &rec
}

func (s *ModerationService) invalid(state models.ModerationState, action models.Action) error {
	metrics.TransitionsTotal.WithLabelValues(string(action), "invalid").Inc()
	return &models.InvalidTransitionError{State: state, Action: action}
}

func reasonMetadata(reason string) map[string]any {
	if reason == "" {
		return nil
	}
	return map[string]any{"reason": reason}
}
