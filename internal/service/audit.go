package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/fundforge/fundforge/internal/audit"
	"github.com/fundforge/fundforge/internal/domain"
	"github.com/fundforge/fundforge/internal/models"
	"github.com/fundforge/fundforge/internal/policy"
)

// AuditQueryStore is the data-access interface AuditService depends on.
type AuditQueryStore interface {
	domain.Auditor
	Query(ctx context.Context, opts models.AuditQueryOpts) ([]models.AuditRecord, bool, error)
	PurgeOldRecords(ctx context.Context, retentionDays int) (int, error)
}

// Compile-time check: *AuditService must satisfy domain.AuditService.
var _ domain.AuditService = (*AuditService)(nil)

// AuditService gates the audit query and retention surfaces behind the
// capability table. The purge path — the only delete the audit log ever
// sees — additionally writes its own audit record.
type AuditService struct {
	store  AuditQueryStore
	engine Authorizer
	log    *logrus.Logger
}

// NewAuditService creates an AuditService.
func NewAuditService(store AuditQueryStore, engine Authorizer, log *logrus.Logger) *AuditService {
	return &AuditService{store: store, engine: engine, log: log}
}

// Query returns audit records in append order, gated on view access.
func (s *AuditService) Query(
	ctx context.Context, actor models.Actor, opts models.AuditQueryOpts,
) ([]models.AuditRecord, bool, error) {
	if d := s.engine.Authorize(actor, policy.ViewAuditLog, ""); !d.Allowed {
		return nil, false, d.Err(policy.ViewAuditLog)
	}

	return s.store.Query(ctx, opts)
}

// Purge deletes audit records older than retentionDays. Admin-only; the
// purge itself is recorded in the audit log before returning.
func (s *AuditService) Purge(
	ctx context.Context, actor models.Actor, retentionDays int, rc *models.RequestContext,
) (int, error) {
	if d := s.engine.Authorize(actor, policy.PurgeAuditLog, ""); !d.Allowed {
		return 0, d.Err(policy.PurgeAuditLog)
	}

	deleted, err := s.store.PurgeOldRecords(ctx, retentionDays)
	if err != nil {
		return 0, err
	}

	s.log.WithFields(logrus.Fields{
		"actor_id":       actor.ID,
		"retention_days": retentionDays,
		"deleted":        deleted,
	}).Info("audit.purge")

	rec := audit.Build(audit.Input{
		Actor:      actor,
		Action:     models.ActionAuditPurge,
		EntityType: "audit_log",
		EntityID:   "retention",
		Metadata: map[string]any{
			"retention_days": retentionDays,
			"deleted":        deleted,
		},
		Request: rc,
	})
	if err := s.store.Append(ctx, &rec); err != nil {
		s.log.WithError(err).Warn("failed to record audit purge")
	}

	return deleted, nil
}
