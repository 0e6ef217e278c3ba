package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kaizen-ideas/internal/domain"
	"kaizen-ideas/internal/pkg/guard"
	"kaizen-ideas/internal/pkg/i18n"
	"kaizen-ideas/internal/repository"
	"kaizen-ideas/internal/service/email"
)

// ReviewerRoles are the roles told about every new submission.
var ReviewerRoles = []domain.UserRole{domain.RoleAdmin, domain.RoleReviewer}

type Service interface {
	List(ctx context.Context, recipientID uuid.UUID, isRead *bool, params domain.PaginationParams) (*domain.NotificationList, error)
	MarkAsRead(ctx context.Context, id, recipientID uuid.UUID) (*domain.Notification, error)
	MarkAllAsRead(ctx context.Context, recipientID uuid.UUID) (int64, error)
	GetUnreadCount(ctx context.Context, recipientID uuid.UUID) (int64, error)

	NotifyIdeaSubmitted(ctx context.Context, idea *domain.Idea, submitter *domain.User) error
	NotifyStatusChanged(ctx context.Context, idea *domain.Idea, reviewerID uuid.UUID) error
	NotifyIdeaUpdated(ctx context.Context, idea *domain.Idea, editor *domain.User, fields []string) error
	NotifyCreditPointsUpdated(ctx context.Context, user *domain.User, oldPoints, newPoints int, reason string, actorID *uuid.UUID) error
}

type service struct {
	notifRepo repository.NotificationRepository
	userRepo  repository.UserRepository
	emailSvc  email.Service
	log       *zap.Logger
	locale    string
}

// NewService builds the fanout. emailSvc may be nil, in which case status
// changes are only recorded in-app.
func NewService(notifRepo repository.NotificationRepository, userRepo repository.UserRepository, emailSvc email.Service, log *zap.Logger) Service {
	return &service{
		notifRepo: notifRepo,
		userRepo:  userRepo,
		emailSvc:  emailSvc,
		log:       log,
		locale:    i18n.DefaultLocale,
	}
}

func (s *service) List(ctx context.Context, recipientID uuid.UUID, isRead *bool, params domain.PaginationParams) (*domain.NotificationList, error) {
	params.Validate()

	notifications, total, err := s.notifRepo.ListByRecipient(ctx, recipientID, isRead, params)
	if err != nil {
		return nil, err
	}
	unread, err := s.notifRepo.CountUnread(ctx, recipientID)
	if err != nil {
		return nil, err
	}

	return &domain.NotificationList{
		PaginatedResponse: domain.NewPaginatedResponse(notifications, params, total),
		UnreadCount:       unread,
	}, nil
}

func (s *service) MarkAsRead(ctx context.Context, id, recipientID uuid.UUID) (*domain.Notification, error) {
	notif, err := s.notifRepo.MarkAsRead(ctx, id, recipientID)
	if err != nil {
		return nil, err
	}
	if notif == nil {
		return nil, domain.ErrNotificationNotFound
	}
	return notif, nil
}

func (s *service) MarkAllAsRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	return s.notifRepo.MarkAllAsRead(ctx, recipientID)
}

func (s *service) GetUnreadCount(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	return s.notifRepo.CountUnread(ctx, recipientID)
}

func (s *service) NotifyIdeaSubmitted(ctx context.Context, idea *domain.Idea, submitter *domain.User) error {
	recipients, err := s.userRepo.ListActiveByRoles(ctx, ReviewerRoles)
	if err != nil {
		return fmt.Errorf("failed to get reviewers: %w", err)
	}
	if len(recipients) == 0 {
		return nil
	}

	title, message := i18n.Render(s.locale, string(domain.NotifIdeaSubmitted), map[string]string{
		"submitter": submitter.Name,
		"idea":      idea.Title,
	})
	metadata := marshalMetadata(map[string]interface{}{
		"idea_title": idea.Title,
		"department": idea.Department,
		"submitter":  submitter.EmployeeNumber,
	})

	notifs := make([]*domain.Notification, 0, len(recipients))
	for i := range recipients {
		notifs = append(notifs, &domain.Notification{
			ID:                      uuid.New(),
			RecipientID:             recipients[i].ID,
			RecipientEmployeeNumber: recipients[i].EmployeeNumber,
			Type:                    domain.NotifIdeaSubmitted,
			Title:                   title,
			Message:                 message,
			RelatedIdeaID:           &idea.ID,
			RelatedUserID:           &submitter.ID,
			Metadata:                metadata,
			Priority:                domain.PriorityHigh,
		})
	}

	return s.createMany(ctx, notifs)
}

// createMany stores notifs in one batch. If the batch fails each record is
// retried on its own so one bad recipient cannot block the rest.
func (s *service) createMany(ctx context.Context, notifs []*domain.Notification) error {
	batchErr := s.notifRepo.CreateBatch(ctx, notifs)
	if batchErr == nil {
		return nil
	}
	s.log.Warn("notification batch insert failed, retrying individually",
		zap.Int("count", len(notifs)), zap.Error(batchErr))

	var errs []error
	for _, n := range notifs {
		if err := s.notifRepo.Create(ctx, n); err != nil {
			errs = append(errs, fmt.Errorf("recipient %s: %w", n.RecipientID, err))
		}
	}
	return errors.Join(errs...)
}

func (s *service) NotifyStatusChanged(ctx context.Context, idea *domain.Idea, reviewerID uuid.UUID) error {
	if !idea.Status.IsReviewStatus() {
		return domain.ErrInvalidStatus
	}

	submitter, err := s.userRepo.GetByID(ctx, idea.SubmittedBy)
	if err != nil {
		return fmt.Errorf("failed to get submitter: %w", err)
	}
	if submitter == nil {
		return domain.ErrUserNotFound
	}

	notifType := domain.StatusNotificationType(idea.Status)
	title, message := i18n.Render(s.locale, string(notifType), map[string]string{"idea": idea.Title})

	priority := domain.PriorityMedium
	if idea.Status == domain.StatusImplemented {
		priority = domain.PriorityHigh
	}

	meta := map[string]interface{}{
		"idea_title": idea.Title,
		"status":     idea.Status,
	}
	if idea.ReviewComments != nil {
		meta["review_comments"] = *idea.ReviewComments
	}

	notif := &domain.Notification{
		ID:                      uuid.New(),
		RecipientID:             submitter.ID,
		RecipientEmployeeNumber: submitter.EmployeeNumber,
		Type:                    notifType,
		Title:                   title,
		Message:                 message,
		RelatedIdeaID:           &idea.ID,
		RelatedUserID:           &reviewerID,
		Metadata:                marshalMetadata(meta),
		Priority:                priority,
	}

	if err := s.notifRepo.Create(ctx, notif); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	if s.emailSvc != nil && submitter.Email != nil && *submitter.Email != "" {
		go func(ideaCopy domain.Idea, to, name string) {
			guard.Run(s.log, "status_email", func() error {
				return s.emailSvc.SendIdeaStatusEmail(context.WithoutCancel(ctx), to, name, &ideaCopy)
			}, zap.String("idea_id", ideaCopy.ID.String()))
		}(*idea, *submitter.Email, submitter.Name)
	}

	return nil
}

func (s *service) NotifyIdeaUpdated(ctx context.Context, idea *domain.Idea, editor *domain.User, fields []string) error {
	if editor.ID == idea.SubmittedBy {
		return nil
	}

	title, message := i18n.Render(s.locale, string(domain.NotifIdeaUpdated), map[string]string{
		"idea":   idea.Title,
		"editor": editor.Name,
		"fields": strings.Join(fields, ", "),
	})

	return s.notifRepo.Create(ctx, &domain.Notification{
		ID:                      uuid.New(),
		RecipientID:             idea.SubmittedBy,
		RecipientEmployeeNumber: idea.SubmittedByEmployeeNumber,
		Type:                    domain.NotifIdeaUpdated,
		Title:                   title,
		Message:                 message,
		RelatedIdeaID:           &idea.ID,
		RelatedUserID:           &editor.ID,
		Metadata:                marshalMetadata(map[string]interface{}{"idea_title": idea.Title, "fields": fields}),
		Priority:                domain.PriorityMedium,
	})
}

func (s *service) NotifyCreditPointsUpdated(ctx context.Context, user *domain.User, oldPoints, newPoints int, reason string, actorID *uuid.UUID) error {
	key := "credit_points_increased"
	if newPoints < oldPoints {
		key = "credit_points_decreased"
	}
	title, message := i18n.Render(s.locale, key, map[string]string{
		"points": strconv.Itoa(newPoints),
		"reason": reason,
	})

	return s.notifRepo.Create(ctx, &domain.Notification{
		ID:                      uuid.New(),
		RecipientID:             user.ID,
		RecipientEmployeeNumber: user.EmployeeNumber,
		Type:                    domain.NotifCreditPointsUpdated,
		Title:                   title,
		Message:                 message,
		RelatedUserID:           actorID,
		Metadata: marshalMetadata(map[string]interface{}{
			"old_points": oldPoints,
			"new_points": newPoints,
			"difference": newPoints - oldPoints,
			"reason":     reason,
		}),
		Priority: domain.PriorityMedium,
	})
}

func marshalMetadata(m map[string]interface{}) json.RawMessage {
	data, err := json.Marshal(m)
	if err != nil {
		return nil
	}
	return data
}
