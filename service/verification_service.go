package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"juscash-verifier/models"
	"juscash-verifier/repository"

	"github.com/google/uuid"
)

// Decider produces a verdict for a process record
type Decider interface {
	Decide(ctx context.Context, record *models.ProcessRecord) (*models.Verdict, error)
	Provider() string
	Model() string
}

// VerificationService runs eligibility checks and keeps an audit trail of them
type VerificationService struct {
	engine Decider
	log    repository.VerificationLog
}

// VerificationServiceOption is a functional option for VerificationService
type VerificationServiceOption func(*VerificationService)

// WithDecider sets the decision engine
func WithDecider(engine Decider) VerificationServiceOption {
	return func(s *VerificationService) {
		s.engine = engine
	}
}

// WithVerificationLog sets the audit log. Without one, verifications are not recorded.
func WithVerificationLog(log repository.VerificationLog) VerificationServiceOption {
	return func(s *VerificationService) {
		s.log = log
	}
}

// NewVerificationService creates a new verification service
func NewVerificationService(opts ...VerificationServiceOption) *VerificationService {
	s := &VerificationService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// VerifyRequest represents a request to verify a process
type VerifyRequest struct {
	Record *models.ProcessRecord
}

// VerifyResult represents the result of verifying a process. VerificationID
// is uuid.Nil when the audit entry could not be written.
type VerifyResult struct {
	Verdict        *models.Verdict
	VerificationID uuid.UUID
}

// GetVerificationRequest represents a request to get an audit entry
type GetVerificationRequest struct {
	ID uuid.UUID
}

// GetVerificationResult represents the result of getting an audit entry
type GetVerificationResult struct {
	Verification *models.Verification
}

// Verify decides the eligibility of a process and records the outcome
func (s *VerificationService) Verify(ctx context.Context, req VerifyRequest) (*VerifyResult, error) {
	if s.engine == nil {
		return nil, errors.New("decision engine not set")
	}
	if req.Record == nil {
		return nil, errors.New("process record is required")
	}

	slog.Info("analyzing process", "numero_processo", req.Record.CaseNumber)
	start := time.Now()

	verdict, err := s.engine.Decide(ctx, req.Record)
	elapsed := time.Since(start)

	entry := &models.Verification{
		ID:            uuid.New(),
		ProcessNumber: req.Record.CaseNumber,
		Provider:      s.engine.Provider(),
		Model:         s.engine.Model(),
		DurationMS:    elapsed.Milliseconds(),
		Citations:     models.Citations{},
	}
	if err != nil {
		msg := err.Error()
		entry.ErrorMessage = &msg
		slog.Error("verification failed", "numero_processo", req.Record.CaseNumber, "duration", elapsed, "error", err)
	} else {
		entry.Decision = &verdict.Decision
		entry.Rationale = &verdict.Rationale
		entry.Citations = models.Citations(verdict.Citations)
		slog.Info("verification completed", "numero_processo", req.Record.CaseNumber,
			"decision", verdict.Decision, "citacoes", verdict.Citations, "duration", elapsed)
	}

	id := s.record(ctx, entry)
	if err != nil {
		return nil, err
	}
	return &VerifyResult{Verdict: verdict, VerificationID: id}, nil
}

// record writes the audit entry. Failures are logged and never affect the verdict.
func (s *VerificationService) record(ctx context.Context, entry *models.Verification) uuid.UUID {
	if s.log == nil {
		return uuid.Nil
	}
	// the entry is written even when the caller has gone away
	if err := s.log.Create(context.WithoutCancel(ctx), entry); err != nil {
		slog.Warn("failed to record verification", "id", entry.ID, "error", err)
		return uuid.Nil
	}
	return entry.ID
}

// GetVerification retrieves an audit entry by ID
func (s *VerificationService) GetVerification(ctx context.Context, req GetVerificationRequest) (*GetVerificationResult, error) {
	if s.log == nil {
		return nil, ErrVerificationNotFound
	}

	v, err := s.log.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrVerificationNotFound
		}
		return nil, fmt.Errorf("failed to get verification: %w", err)
	}
	return &GetVerificationResult{Verification: v}, nil
}
