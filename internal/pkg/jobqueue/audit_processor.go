package jobqueue

import (
	"context"
	"fmt"
	"time"

	"github.com/arxeon/arxeon-api/internal/pkg/audit"
)

// AuditScheduler adapts the queue to the audit pipeline's scheduling
// surface.
type AuditScheduler struct {
	queue *Queue
}

// NewAuditScheduler wraps a queue for use by the audit pipeline.
func NewAuditScheduler(q *Queue) *AuditScheduler {
	return &AuditScheduler{queue: q}
}

// ScheduleReport enqueues the generation stage for immediate processing.
func (s *AuditScheduler) ScheduleReport(auditID string) error {
	_, err := s.queue.EnqueueJob(JobTypeAuditReport, AuditJobPayload{AuditID: auditID}.ToMap())
	return err
}

// ScheduleDelivery enqueues the delivery stage after the pacing delay.
func (s *AuditScheduler) ScheduleDelivery(auditID string, delay time.Duration) error {
	_, err := s.queue.EnqueueJobIn(JobTypeAuditDelivery, AuditJobPayload{AuditID: auditID}.ToMap(), delay)
	return err
}

// RegisterAuditProcessors binds the audit pipeline stages to their job
// types.
func RegisterAuditProcessors(q *Queue, pipeline *audit.Pipeline) {
	q.RegisterProcessor(JobTypeAuditReport, func(ctx context.Context, job *Job) error {
		payload, err := AuditJobPayloadFromMap(job.Payload)
		if err != nil {
			return fmt.Errorf("invalid audit report payload: %w", err)
		}
		return pipeline.RunReport(ctx, payload.AuditID)
	})

	q.RegisterProcessor(JobTypeAuditDelivery, func(ctx context.Context, job *Job) error {
		payload, err := AuditJobPayloadFromMap(job.Payload)
		if err != nil {
			return fmt.Errorf("invalid audit delivery payload: %w", err)
		}
		return pipeline.Deliver(ctx, payload.AuditID)
	})
}
