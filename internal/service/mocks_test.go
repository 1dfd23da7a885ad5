package service

import (
	"context"
	"sync"

	"github.com/fundforge/fundforge/internal/models"
)

// mockModerationStore records calls and returns configured responses.
type mockModerationStore struct {
	mu    sync.Mutex
	calls []string

	getComment  func(ctx context.Context, commentID string) (*models.Comment, error)
	updateState func(ctx context.Context, commentID string, expectVersion int64, state models.ModerationState) (*models.Comment, error)
	addReport   func(ctx context.Context, commentID string, expectVersion int64, reporterID string) (*models.Comment, bool, error)

	createComment func(ctx context.Context, authorID string, req models.CreateCommentRequest) (*models.Comment, error)
}

func (m *mockModerationStore) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *mockModerationStore) callLog() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

func (m *mockModerationStore) GetComment(ctx context.Context, commentID string) (*models.Comment, error) {
	m.record("GetComment")
	return m.getComment(ctx, commentID)
}

func (m *mockModerationStore) UpdateState(ctx context.Context, commentID string, expectVersion int64, state models.ModerationState) (*models.Comment, error) {
	m.record("UpdateState")
	return m.updateState(ctx, commentID, expectVersion, state)
}

func (m *mockModerationStore) AddReport(ctx context.Context, commentID string, expectVersion int64, reporterID string) (*models.Comment, bool, error) {
	m.record("AddReport")
	return m.addReport(ctx, commentID, expectVersion, reporterID)
}

func (m *mockModerationStore) CreateComment(ctx context.Context, authorID string, req models.CreateCommentRequest) (*models.Comment, error) {
	m.record("CreateComment")
	return m.createComment(ctx, authorID, req)
}

// mockAuditor records appended audit records; fails when failErr is set.
type mockAuditor struct {
	mu      sync.Mutex
	records []models.AuditRecord
	failErr error
	nextID  int64
}

func (m *mockAuditor) Append(_ context.Context, rec *models.AuditRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failErr != nil {
		return m.failErr
	}

	m.nextID++
	rec.ID = m.nextID
	m.records = append(m.records, *rec)
	return nil
}

func (m *mockAuditor) getRecords() []models.AuditRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.AuditRecord, len(m.records))
	copy(out, m.records)
	return out
}

// mockAuditQueryStore extends mockAuditor with query and purge.
type mockAuditQueryStore struct {
	mockAuditor

	query func(ctx context.Context, opts models.AuditQueryOpts) ([]models.AuditRecord, bool, error)
	purge func(ctx context.Context, retentionDays int) (int, error)
}

func (m *mockAuditQueryStore) Query(ctx context.Context, opts models.AuditQueryOpts) ([]models.AuditRecord, bool, error) {
	return m.query(ctx, opts)
}

func (m *mockAuditQueryStore) PurgeOldRecords(ctx context.Context, retentionDays int) (int, error) {
	return m.purge(ctx, retentionDays)
}

// mockEnqueuer captures best-effort audit jobs synchronously.
type mockEnqueuer struct {
	mu   sync.Mutex
	jobs []*AuditJob
}

func (m *mockEnqueuer) Enqueue(job *AuditJob) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs = append(m.jobs, job)
}

func (m *mockEnqueuer) getJobs() []*AuditJob {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*AuditJob, len(m.jobs))
	copy(out, m.jobs)
	return out
}
