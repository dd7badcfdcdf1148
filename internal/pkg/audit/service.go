package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/arxeon/arxeon-api/app/models"
	"github.com/arxeon/arxeon-api/internal/pkg/config"
	"github.com/arxeon/arxeon-api/internal/pkg/mail"
)

// TextGenerator is the optional external text-generation capability.
// Absence or failure degrades to the templated fallback.
type TextGenerator interface {
	Generate(ctx context.Context, systemPrompt, userContent string) (string, error)
}

// Mailer is the outbound notification surface the pipeline needs. Send
// failures are logged and swallowed, never surfaced to the intake caller.
type Mailer interface {
	Send(to, subject, htmlBody string) error
	SendWithAttachment(to, subject, htmlBody string, attachment mail.Attachment) error
}

// Scheduler hands pipeline stages to the background job queue so the
// delivery pacing delay never holds a request open.
type Scheduler interface {
	ScheduleReport(auditID string) error
	ScheduleDelivery(auditID string, delay time.Duration) error
}

// IntakeInput is a lead-qualification form submission. OrderID is an
// optional correlation handle to the subscription bought alongside.
type IntakeInput struct {
	FullName        string
	Email           string
	Company         string
	Website         string
	OrderID         string
	SocialPlatforms []string
	SocialLinks     string
	HasGMB          bool
	GMBLink         string
	AdsPlatforms    []string
	MainObjective   string
	Notes           string
}

// Pipeline owns the full AuditRequest lifecycle: pending on intake, then
// completed or error from the background stages. One pipeline run per
// identity; terminal states are never re-entered.
type Pipeline struct {
	repo          Repository
	textgen       TextGenerator
	mailer        Mailer
	scheduler     Scheduler
	deliveryDelay time.Duration
}

// NewPipeline wires the audit pipeline from explicit collaborators.
func NewPipeline(repo Repository, textgen TextGenerator, mailer Mailer, scheduler Scheduler, cfg *config.Config) *Pipeline {
	return &Pipeline{
		repo:          repo,
		textgen:       textgen,
		mailer:        mailer,
		scheduler:     scheduler,
		deliveryDelay: cfg.ReportDeliveryDelay,
	}
}

// Intake persists the pending record, sends the immediate acknowledgment
// and enqueues the background stage. It returns as soon as the record is
// stored and the report job is queued.
func (p *Pipeline) Intake(ctx context.Context, in IntakeInput) (*models.AuditRequest, error) {
	_ = ctx
	req := &models.AuditRequest{
		ID:              uuid.New().String(),
		FullName:        in.FullName,
		Email:           in.Email,
		Company:         in.Company,
		Website:         in.Website,
		OrderID:         in.OrderID,
		SocialPlatforms: models.StringList(in.SocialPlatforms),
		SocialLinks:     in.SocialLinks,
		HasGMB:          in.HasGMB,
		GMBLink:         in.GMBLink,
		AdsPlatforms:    models.StringList(in.AdsPlatforms),
		MainObjective:   in.MainObjective,
		Notes:           in.Notes,
		Status:          models.AuditStatusPending,
	}
	if err := p.repo.CreateAuditRequest(req); err != nil {
		return nil, fmt.Errorf("persist audit request: %w", err)
	}

	if err := p.mailer.Send(req.Email, "Audit Arxéon - Informazioni ricevute", mail.RenderAuditAck(req.FullName, req.Company)); err != nil {
		log.Errorf("[Audit] Failed to send acknowledgment for %s: %v", req.ID, err)
	}

	if err := p.scheduler.ScheduleReport(req.ID); err != nil {
		// The record stays pending; the failure is captured so the
		// request is not silently lost.
		p.markError(req.ID, fmt.Errorf("schedule report: %w", err))
		return nil, fmt.Errorf("schedule report: %w", err)
	}

	log.Infof("[Audit] Intake accepted for %s (company=%s)", req.ID, req.Company)
	return req, nil
}

// RunReport executes the generation stage: produce an evaluation (external
// capability with templated fallback), extract score and level, persist the
// completed state and schedule the delayed delivery.
func (p *Pipeline) RunReport(ctx context.Context, auditID string) error {
	req, err := p.repo.GetAuditRequestByID(auditID)
	if err != nil {
		return fmt.Errorf("load audit request %s: %w", auditID, err)
	}
	if req.Status != models.AuditStatusPending {
		log.Warnf("[Audit] Report stage skipped for %s: status is %s", auditID, req.Status)
		return nil
	}

	evaluation, err := p.textgen.Generate(ctx, systemPrompt, BuildPrompt(req))
	if err != nil {
		log.Warnf("[Audit] Text generation unavailable for %s, using fallback: %v", auditID, err)
		evaluation = FallbackEvaluation(req)
	}

	score := ExtractScore(evaluation)
	level := ExtractLevel(evaluation)

	completedAt := time.Now()
	if err := p.repo.UpdateAuditRequest(auditID, map[string]interface{}{
		"status":         models.AuditStatusCompleted,
		"evaluation":     evaluation,
		"score":          score,
		"maturity_level": level,
		"completed_at":   &completedAt,
	}); err != nil {
		p.markError(auditID, fmt.Errorf("persist evaluation: %w", err))
		return fmt.Errorf("persist evaluation for %s: %w", auditID, err)
	}

	if err := p.scheduler.ScheduleDelivery(auditID, p.deliveryDelay); err != nil {
		p.markError(auditID, fmt.Errorf("schedule delivery: %w", err))
		return fmt.Errorf("schedule delivery for %s: %w", auditID, err)
	}

	log.Infof("[Audit] Evaluation completed for %s (score=%d, level=%s)", auditID, score, level)
	return nil
}

// Deliver renders the report artifact and sends the second notification.
// Rendering failure degrades to raw text; the delivery is never skipped.
func (p *Pipeline) Deliver(ctx context.Context, auditID string) error {
	_ = ctx
	req, err := p.repo.GetAuditRequestByID(auditID)
	if err != nil {
		return fmt.Errorf("load audit request %s: %w", auditID, err)
	}
	if req.Status != models.AuditStatusCompleted {
		log.Warnf("[Audit] Delivery skipped for %s: status is %s", auditID, req.Status)
		return nil
	}

	artifact := RenderReport(req.Company, req.Evaluation, req.Score, req.MaturityLevel)
	body := mail.RenderAuditReport(req.FullName, req.Company, req.MaturityLevel, req.Score)
	if err := p.mailer.SendWithAttachment(req.Email, "Il tuo audit digitale Arxéon", body, mail.Attachment{
		Filename:    artifact.Filename,
		ContentType: artifact.ContentType,
		Data:        artifact.Data,
	}); err != nil {
		p.markError(auditID, fmt.Errorf("deliver report: %w", err))
		return fmt.Errorf("deliver report for %s: %w", auditID, err)
	}

	log.Infof("[Audit] Report delivered for %s", auditID)
	return nil
}

// Get looks up an audit request by its opaque identity.
func (p *Pipeline) Get(id string) (*models.AuditRequest, error) {
	return p.repo.GetAuditRequestByID(id)
}

// markError records the captured failure detail. Already-completed steps
// are not rolled back.
func (p *Pipeline) markError(auditID string, cause error) {
	if err := p.repo.UpdateAuditRequest(auditID, map[string]interface{}{
		"status":       models.AuditStatusError,
		"error_detail": cause.Error(),
	}); err != nil {
		log.Errorf("[Audit] Failed to record error state for %s: %v", auditID, err)
	}
}
