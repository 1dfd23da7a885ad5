package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/fundforge/fundforge/internal/models"
)

// AuditStore provides data access for the audit_log table.
//
// The table is append-only from the core's perspective: there is no update
// path, and the only delete is the batched retention purge behind the
// admin-only purge capability. The BIGSERIAL id doubles as the append
// sequence, so per-entity history reads back in commit order.
type AuditStore struct {
	Base
}

// NewAuditStore creates an AuditStore.
func NewAuditStore(base Base) *AuditStore {
	return &AuditStore{Base: base}
}

// Append inserts one audit record and returns it with the assigned sequence
// and timestamp filled in. The write is durable on return.
func (s *AuditStore) Append(ctx context.Context, rec *models.AuditRecord) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	oldJSON, err := marshalValues(rec.OldValues, "old_values")
	if err != nil {
		return err
	}
	newJSON, err := marshalValues(rec.NewValues, "new_values")
	if err != nil {
		return err
	}
	metaJSON, err := marshalValues(rec.Metadata, "metadata")
	if err != nil {
		return err
	}

	row := s.Pool.QueryRow(ctx, `
		INSERT INTO audit_log (
			action, entity_type, entity_id, entity_owner_id,
			actor_type, actor_id, actor_role, description,
			old_values, new_values, metadata, ip_address, user_agent
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at`,
		rec.Action, rec.EntityType, rec.EntityID, nullable(rec.EntityOwnerID),
		rec.ActorType, nullable(rec.ActorID), nullable(string(rec.ActorRole)), rec.Description,
		oldJSON, newJSON, metaJSON, nullable(rec.IPAddress), nullable(rec.UserAgent),
	)

	if err := row.Scan(&rec.ID, &rec.CreatedAt); err != nil {
		return fmt.Errorf("inserting audit record: %w", err)
	}

	return nil
}

func marshalValues(m map[string]any, field string) ([]byte, error) {
	if m == nil {
		return nil, nil
	}

	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshaling audit %s: %w", field, err)
	}

	return data, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// buildAuditFilter builds WHERE clause and args from AuditQueryOpts.
func buildAuditFilter(opts models.AuditQueryOpts) (where string, args []any, nextArg int) {
	var conditions []string
	argIdx := 1

	add := func(cond string, v any) {
		conditions = append(conditions, cond+" = $"+strconv.Itoa(argIdx))
		args = append(args, v)
		argIdx++
	}

	if opts.EntityType != "" {
		add("entity_type", opts.EntityType)
	}
	if opts.EntityID != "" {
		add("entity_id", opts.EntityID)
	}
	if opts.EntityOwnerID != "" {
		add("entity_owner_id", opts.EntityOwnerID)
	}
	if opts.Action != "" {
		add("action", string(opts.Action))
	}
	if opts.ActorID != "" {
		add("actor_id", opts.ActorID)
	}
	if opts.Since != nil {
		conditions = append(conditions, "created_at >= $"+strconv.Itoa(argIdx))
		args = append(args, *opts.Since)
		argIdx++
	}

	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	return where, args, argIdx
}

// Query returns audit records matching the given filters in append order
// (ascending sequence). Returns records, hasMore flag, and any error.
func (s *AuditStore) Query(
	ctx context.Context, opts models.AuditQueryOpts,
) ([]models.AuditRecord, bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginReadTx(ctx)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback on early return.

	where, args, argIdx := buildAuditFilter(opts)

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	query := fmt.Sprintf(
		`SELECT id, action, entity_type, entity_id, entity_owner_id,
			actor_type, actor_id, actor_role, description,
			old_values, new_values, metadata, ip_address, user_agent, created_at
		FROM audit_log %s ORDER BY id ASC LIMIT $%d OFFSET $%d`,
		where, argIdx, argIdx+1,
	)
	args = append(args, limit+1, opts.Offset)

	records, err := scanAuditRows(ctx, tx, query, args, s.Log)
	if err != nil {
		return nil, false, err
	}

	hasMore := len(records) > limit
	if hasMore {
		records = records[:limit]
	}

	return records, hasMore, nil
}

// scanAuditRows executes a query and scans audit records from the result.
func scanAuditRows(ctx context.Context, tx pgx.Tx, query string, args []any, log *logrus.Logger) ([]models.AuditRecord, error) {
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying audit log: %w", err)
	}
	defer rows.Close()

	var records []models.AuditRecord
	for rows.Next() {
		var (
			r                          models.AuditRecord
			ownerID, actorID, role     *string
			ip, ua                     *string
			oldJSON, newJSON, metaJSON []byte
		)

		if err := rows.Scan(&r.ID, &r.Action, &r.EntityType, &r.EntityID, &ownerID,
			&r.ActorType, &actorID, &role, &r.Description,
			&oldJSON, &newJSON, &metaJSON, &ip, &ua, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning audit record: %w", err)
		}

		r.EntityOwnerID = deref(ownerID)
		r.ActorID = deref(actorID)
		r.ActorRole = models.Role(deref(role))
		r.IPAddress = deref(ip)
		r.UserAgent = deref(ua)

		unmarshalValues(oldJSON, &r.OldValues, "old_values", log)
		unmarshalValues(newJSON, &r.NewValues, "new_values", log)
		unmarshalValues(metaJSON, &r.Metadata, "metadata", log)

		records = append(records, r)
	}

	return records, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func unmarshalValues(data []byte, dst *map[string]any, field string, log *logrus.Logger) {
	if data == nil {
		return
	}
	if err := json.Unmarshal(data, dst); err != nil {
		log.WithError(err).WithField("field", field).Warn("failed to unmarshal audit values")
	}
}

// purgeBatchSize limits the number of rows deleted per transaction to avoid
// holding long locks on audit_log.
const purgeBatchSize = 5000

// PurgeOldRecords deletes audit records older than retentionDays in batches.
// This is the separate, explicitly privileged retention path; nothing in the
// moderation flow reaches it. Returns the number of deleted records.
func (s *AuditStore) PurgeOldRecords(ctx context.Context, retentionDays int) (int, error) {
	var totalDeleted int

	for {
		batchCtx, cancel := withTimeout(ctx)

		deleted, err := s.purgeBatch(batchCtx, retentionDays)
		cancel()

		if err != nil {
			return totalDeleted, err
		}

		totalDeleted += deleted
		if deleted < purgeBatchSize {
			break
		}
	}

	return totalDeleted, nil
}

// purgeBatch deletes a single batch of expired audit records.
func (s *AuditStore) purgeBatch(ctx context.Context, retentionDays int) (int, error) {
	tx, err := s.beginTx(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback on early return.

	tag, err := tx.Exec(ctx,
		`DELETE FROM audit_log WHERE ctid IN (
			SELECT ctid FROM audit_log
			WHERE created_at < NOW() - make_interval(days => $1)
			LIMIT $2
		)`,
		retentionDays, purgeBatchSize,
	)
	if err != nil {
		return 0, fmt.Errorf("purging audit records: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	return int(tag.RowsAffected()), nil
}
