package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/fundforge/fundforge/internal/metrics"
	"github.com/fundforge/fundforge/internal/models"
)

// AuditJob carries one best-effort audit record for background writing.
// Only optional records travel this path (denials, CRUD breadcrumbs);
// committed moderation transitions append synchronously so failures can be
// reported to the caller.
type AuditJob struct {
	Record *models.AuditRecord
}

// AuditEnqueuer enqueues best-effort audit jobs.
type AuditEnqueuer interface {
	Enqueue(job *AuditJob)
}

// AuditWorker buffers best-effort audit records and writes them via a single
// worker goroutine.
type AuditWorker struct {
	auditor Auditor
	log     *logrus.Logger
	jobs    chan *AuditJob
}

// NewAuditWorker creates an AuditWorker with the given queue capacity.
func NewAuditWorker(auditor Auditor, log *logrus.Logger, queueSize int) *AuditWorker {
	if queueSize <= 0 {
		queueSize = 1000
	}
	return &AuditWorker{
		auditor: auditor,
		log:     log,
		jobs:    make(chan *AuditJob, queueSize),
	}
}

// Enqueue adds an audit job. Non-blocking; drops the job if the queue is full.
func (w *AuditWorker) Enqueue(job *AuditJob) {
	select {
	case w.jobs <- job:
		metrics.AuditQueueDepth.Set(float64(len(w.jobs)))
	default:
		w.log.WithField("action", job.Record.Action).Warn("audit queue full, dropping entry")
	}
}

// Run processes audit jobs until the context is cancelled, then drains remaining jobs.
func (w *AuditWorker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.drain()
			return
		case job := <-w.jobs:
			w.process(job)
		}
	}
}

func (w *AuditWorker) drain() {
	for {
		select {
		case job := <-w.jobs:
			w.process(job)
		default:
			return
		}
	}
}

func (w *AuditWorker) process(job *AuditJob) {
	if err := w.auditor.Append(context.Background(), job.Record); err != nil {
		w.log.WithError(err).WithField("action", job.Record.Action).Warn("audit record failed")
	}
}
