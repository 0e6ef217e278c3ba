// Package idea coordinates the idea lifecycle: it commits the idea change
// first, then runs score recalculation, notification and the live signal as
// independent best-effort effects.
package idea

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"kaizen-ideas/internal/domain"
	"kaizen-ideas/internal/pkg/guard"
	"kaizen-ideas/internal/repository"
	"kaizen-ideas/internal/service/credit"
	"kaizen-ideas/internal/service/leaderboard"
	"kaizen-ideas/internal/service/live"
	"kaizen-ideas/internal/service/notification"
)

const (
	ReasonSubmitted = "Idea submitted"
	ReasonDeleted   = "Idea deleted"
)

func ReasonStatusChanged(status domain.IdeaStatus) string {
	return "Idea status changed to " + string(status)
}

type Service interface {
	Submit(ctx context.Context, input domain.CreateIdeaInput, images []domain.IdeaImage, submitterID uuid.UUID) (*domain.Idea, error)
	ChangeStatus(ctx context.Context, id uuid.UUID, input domain.UpdateIdeaStatusInput, reviewerID uuid.UUID) (*domain.Idea, error)
	Edit(ctx context.Context, id uuid.UUID, input domain.UpdateIdeaInput, editorID uuid.UUID) (*domain.Idea, error)
	SoftDelete(ctx context.Context, id, requesterID uuid.UUID) error

	GetByID(ctx context.Context, id uuid.UUID) (*domain.Idea, error)
	List(ctx context.Context, filter domain.IdeaFilter, params domain.PaginationParams) (domain.PaginatedResponse[domain.Idea], error)
	ListMine(ctx context.Context, userID uuid.UUID, status *domain.IdeaStatus, params domain.PaginationParams) (domain.PaginatedResponse[domain.Idea], error)
	Stats(ctx context.Context) (*domain.IdeaStats, error)
}

type service struct {
	ideaRepo    repository.IdeaRepository
	userRepo    repository.UserRepository
	creditSvc   credit.Service
	notifSvc    notification.Service
	lbSvc       leaderboard.Service
	broadcaster live.Broadcaster
	log         *zap.Logger
	now         func() time.Time
}

// NewService builds the idea service. A nil lbSvc skips leaderboard
// invalidation on edits.
func NewService(
	ideaRepo repository.IdeaRepository,
	userRepo repository.UserRepository,
	creditSvc credit.Service,
	notifSvc notification.Service,
	lbSvc leaderboard.Service,
	broadcaster live.Broadcaster,
	log *zap.Logger,
) Service {
	return &service{
		ideaRepo:    ideaRepo,
		userRepo:    userRepo,
		creditSvc:   creditSvc,
		notifSvc:    notifSvc,
		lbSvc:       lbSvc,
		broadcaster: broadcaster,
		log:         log,
		now:         time.Now,
	}
}

func (s *service) Submit(ctx context.Context, input domain.CreateIdeaInput, images []domain.IdeaImage, submitterID uuid.UUID) (*domain.Idea, error) {
	status := input.Status
	if status == "" {
		status = domain.StatusUnderReview
	}
	if !status.IsValid() {
		return nil, domain.ErrInvalidStatus
	}

	submitter, err := s.userRepo.GetByID(ctx, submitterID)
	if err != nil {
		return nil, fmt.Errorf("failed to load submitter: %w", err)
	}
	if submitter == nil {
		return nil, domain.ErrUserNotFound
	}
	if !submitter.IsActive {
		return nil, domain.ErrUserInactive
	}

	if images == nil {
		images = domain.IdeaImages{}
	}

	idea := &domain.Idea{
		ID:                        uuid.New(),
		Title:                     strings.TrimSpace(input.Title),
		Problem:                   strings.TrimSpace(input.Problem),
		Improvement:               strings.TrimSpace(input.Improvement),
		Benefit:                   input.Benefit,
		Department:                input.Department,
		EstimatedSavings:          input.EstimatedSavings,
		Tags:                      normalizeTags(input.Tags),
		Images:                    images,
		Status:                    status,
		SubmittedBy:               submitter.ID,
		SubmittedByEmployeeNumber: submitter.EmployeeNumber,
		IsActive:                  true,
	}

	if err := s.ideaRepo.Create(ctx, idea); err != nil {
		return nil, fmt.Errorf("failed to create idea: %w", err)
	}
	idea.Submitter = submitter.Summary()

	fields := ideaFields(idea)
	guard.Run(s.log, "recalculate", func() error {
		_, err := s.creditSvc.Recalculate(ctx, submitter.ID, ReasonSubmitted, &submitter.ID)
		return err
	}, fields...)
	guard.Run(s.log, "notify_submitted", func() error {
		return s.notifSvc.NotifyIdeaSubmitted(ctx, idea, submitter)
	}, fields...)
	s.broadcast(ctx, fields)

	return idea, nil
}

// ChangeStatus assigns any review status regardless of the current one.
// Submitted is an initial status and is rejected here.
func (s *service) ChangeStatus(ctx context.Context, id uuid.UUID, input domain.UpdateIdeaStatusInput, reviewerID uuid.UUID) (*domain.Idea, error) {
	if !input.Status.IsReviewStatus() {
		return nil, domain.ErrInvalidStatus
	}

	idea, err := s.ideaRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if idea == nil || !idea.IsActive {
		return nil, domain.ErrIdeaNotFound
	}

	now := s.now().UTC()
	idea.Status = input.Status
	idea.ReviewedBy = &reviewerID
	idea.ReviewedAt = &now
	if input.ReviewComments != nil {
		idea.ReviewComments = input.ReviewComments
	}
	if input.ActualSavings != nil {
		idea.ActualSavings = input.ActualSavings
	}
	if input.Status == domain.StatusImplemented {
		idea.ImplementationDate = &now
	}

	if err := s.ideaRepo.UpdateReview(ctx, idea); err != nil {
		return nil, err
	}

	fields := ideaFields(idea)
	guard.Run(s.log, "recalculate", func() error {
		_, err := s.creditSvc.Recalculate(ctx, idea.SubmittedBy, ReasonStatusChanged(input.Status), &reviewerID)
		return err
	}, fields...)
	guard.Run(s.log, "notify_status_changed", func() error {
		return s.notifSvc.NotifyStatusChanged(ctx, idea, reviewerID)
	}, fields...)
	s.broadcast(ctx, fields)

	s.populate(ctx, idea)
	return idea, nil
}

// Edit applies the editable fields. An idea that does not exist and one owned
// by someone else both yield ErrIdeaNotFound.
func (s *service) Edit(ctx context.Context, id uuid.UUID, input domain.UpdateIdeaInput, editorID uuid.UUID) (*domain.Idea, error) {
	changed := input.Fields()
	if len(changed) == 0 {
		return nil, domain.NewValidationError("body", "no editable fields provided")
	}
	if input.Tags != nil {
		tags := []string(normalizeTags(*input.Tags))
		input.Tags = &tags
	}

	idea, err := s.ideaRepo.UpdateOwned(ctx, id, editorID, input)
	if err != nil {
		return nil, err
	}
	if idea == nil {
		return nil, domain.ErrIdeaNotFound
	}

	fields := ideaFields(idea)
	if editorID != idea.SubmittedBy {
		guard.Run(s.log, "notify_updated", func() error {
			editor, err := s.userRepo.GetByID(ctx, editorID)
			if err != nil {
				return err
			}
			if editor == nil {
				return domain.ErrUserNotFound
			}
			return s.notifSvc.NotifyIdeaUpdated(ctx, idea, editor, changed)
		}, fields...)
	}
	// Department rankings aggregate savings by the idea's department.
	if s.lbSvc != nil && (input.Department != nil || input.EstimatedSavings != nil) {
		guard.Run(s.log, "invalidate_leaderboard", func() error {
			return s.lbSvc.Invalidate(ctx)
		}, fields...)
	}
	s.broadcast(ctx, fields)

	s.populate(ctx, idea)
	return idea, nil
}

func (s *service) SoftDelete(ctx context.Context, id, requesterID uuid.UUID) error {
	idea, err := s.ideaRepo.SoftDeleteOwned(ctx, id, requesterID)
	if err != nil {
		return err
	}
	if idea == nil {
		return domain.ErrIdeaNotFound
	}

	fields := ideaFields(idea)
	guard.Run(s.log, "recalculate", func() error {
		_, err := s.creditSvc.Recalculate(ctx, idea.SubmittedBy, ReasonDeleted, &requesterID)
		return err
	}, fields...)
	s.broadcast(ctx, fields)

	return nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Idea, error) {
	idea, err := s.ideaRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if idea == nil || !idea.IsActive {
		return nil, domain.ErrIdeaNotFound
	}
	s.populate(ctx, idea)
	return idea, nil
}

func (s *service) List(ctx context.Context, filter domain.IdeaFilter, params domain.PaginationParams) (domain.PaginatedResponse[domain.Idea], error) {
	params.Validate()

	ideas, total, err := s.ideaRepo.List(ctx, filter, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Idea]{}, err
	}

	users := make(map[uuid.UUID]*domain.UserSummary)
	for i := range ideas {
		ideas[i].Submitter = s.summary(ctx, users, &ideas[i].SubmittedBy)
		ideas[i].Reviewer = s.summary(ctx, users, ideas[i].ReviewedBy)
	}

	return domain.NewPaginatedResponse(ideas, params, total), nil
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID, status *domain.IdeaStatus, params domain.PaginationParams) (domain.PaginatedResponse[domain.Idea], error) {
	return s.List(ctx, domain.IdeaFilter{SubmittedBy: &userID, Status: status}, params)
}

func (s *service) Stats(ctx context.Context) (*domain.IdeaStats, error) {
	return s.ideaRepo.Stats(ctx)
}

func (s *service) broadcast(ctx context.Context, fields []zap.Field) {
	guard.Run(s.log, "broadcast", func() error {
		s.broadcaster.BroadcastIdeasChanged(ctx)
		return nil
	}, fields...)
}

// populate fills the submitter and reviewer summaries. Lookup failures leave
// them empty.
func (s *service) populate(ctx context.Context, idea *domain.Idea) {
	users := make(map[uuid.UUID]*domain.UserSummary)
	idea.Submitter = s.summary(ctx, users, &idea.SubmittedBy)
	idea.Reviewer = s.summary(ctx, users, idea.ReviewedBy)
}

func (s *service) summary(ctx context.Context, seen map[uuid.UUID]*domain.UserSummary, id *uuid.UUID) *domain.UserSummary {
	if id == nil {
		return nil
	}
	if sum, ok := seen[*id]; ok {
		return sum
	}

	user, err := s.userRepo.GetByID(ctx, *id)
	if err != nil {
		s.log.Debug("user summary lookup failed", zap.String("user_id", id.String()), zap.Error(err))
	}
	sum := user.Summary()
	seen[*id] = sum
	return sum
}

func normalizeTags(tags []string) pq.StringArray {
	out := make(pq.StringArray, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func ideaFields(idea *domain.Idea) []zap.Field {
	return []zap.Field{
		zap.String("idea_id", idea.ID.String()),
		zap.String("user_id", idea.SubmittedBy.String()),
	}
}
