package face

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"presensi/internal/audit"
	id "presensi/pkg/domain"
	dErrors "presensi/pkg/domain-errors"
	"presensi/pkg/platform/sentinel"
	"presensi/pkg/requestcontext"
)

// Extractor is the slice of the remote model service the enrollment flow
// needs. The HTTP client satisfies it; tests substitute a mock.
type Extractor interface {
	ExtractForEnrollment(ctx context.Context, imageBase64 string) (EmbeddingResult, error)
}

// AuditPublisher records enrollment activity.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event)
}

// EnrollmentStatus is the read model for a user's template state.
type EnrollmentStatus struct {
	Enrolled   bool
	EnrolledAt *time.Time
	UpdatedAt  *time.Time
}

// Service owns enrollment: extracting a template from an image, enforcing
// one-face-one-account, and persisting the result.
type Service struct {
	store        IdentityStore
	extractor    Extractor
	matcher      *Matcher
	auditor      AuditPublisher
	embeddingDim int
	logger       *slog.Logger
}

func NewService(store IdentityStore, extractor Extractor, matcher *Matcher, auditor AuditPublisher, embeddingDim int, logger *slog.Logger) *Service {
	return &Service{
		store:        store,
		extractor:    extractor,
		matcher:      matcher,
		auditor:      auditor,
		embeddingDim: embeddingDim,
		logger:       logger,
	}
}

// Enroll extracts a template from the image and stores it for the user,
// rejecting templates that collide with another user's enrollment. Re-enrolling
// the same user replaces their template.
func (s *Service) Enroll(ctx context.Context, userID id.UserID, imageBase64 string) (Identity, error) {
	result, err := s.extractor.ExtractForEnrollment(ctx, imageBase64)
	if err != nil {
		s.audit(ctx, userID, audit.ActionFaceEnroll, audit.OutcomeError, "extraction_failed")
		return Identity{}, err
	}
	if len(result.Embedding) != s.embeddingDim {
		s.audit(ctx, userID, audit.ActionFaceEnroll, audit.OutcomeError, "bad_embedding_dimension")
		return Identity{}, dErrors.New(dErrors.CodeInternal, "face service returned unexpected embedding").
			WithDetails(map[string]any{"dimension": len(result.Embedding)})
	}

	enrolled, err := s.store.ListAll(ctx)
	if err != nil {
		return Identity{}, fmt.Errorf("list enrolled identities: %w", err)
	}
	if match, found := s.matcher.FindDuplicate(ctx, result.Embedding, enrolled, userID); found {
		s.logger.WarnContext(ctx, "enrollment collides with existing template",
			"user_id", userID.String(),
			"duplicate_user_id", match.UserID.String(),
			"similarity", match.Similarity)
		s.audit(ctx, userID, audit.ActionFaceEnroll, audit.OutcomeRejected, "duplicate_face")
		return Identity{}, dErrors.New(dErrors.CodeConflict, "face already enrolled for another account").
			WithDetails(map[string]any{"duplicate_user_id": match.UserID.String()})
	}

	now := requestcontext.Now(ctx)
	identity := Identity{
		UserID:     userID,
		Embedding:  result.Embedding,
		EnrolledAt: now,
		UpdatedAt:  now,
	}
	if existing, err := s.store.FindByUser(ctx, userID); err == nil {
		identity.EnrolledAt = existing.EnrolledAt
	}
	if err := s.store.Save(ctx, identity); err != nil {
		return Identity{}, fmt.Errorf("save identity: %w", err)
	}

	s.audit(ctx, userID, audit.ActionFaceEnroll, audit.OutcomeAccepted, "")
	return identity, nil
}

// Remove deletes the user's template.
func (s *Service) Remove(ctx context.Context, userID id.UserID) error {
	if err := s.store.Delete(ctx, userID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "no face enrolled")
		}
		return fmt.Errorf("delete identity: %w", err)
	}
	s.audit(ctx, userID, audit.ActionFaceRemove, audit.OutcomeAccepted, "")
	return nil
}

// Status reports whether and when the user enrolled.
func (s *Service) Status(ctx context.Context, userID id.UserID) (EnrollmentStatus, error) {
	identity, err := s.store.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return EnrollmentStatus{}, nil
		}
		return EnrollmentStatus{}, fmt.Errorf("find identity: %w", err)
	}
	return EnrollmentStatus{
		Enrolled:   true,
		EnrolledAt: &identity.EnrolledAt,
		UpdatedAt:  &identity.UpdatedAt,
	}, nil
}

func (s *Service) audit(ctx context.Context, userID id.UserID, action, outcome, reason string) {
	if s.auditor == nil {
		return
	}
	s.auditor.Emit(ctx, audit.Event{
		UserID:  userID.String(),
		Action:  action,
		Outcome: outcome,
		Reason:  reason,
	})
}
