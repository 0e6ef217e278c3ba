package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"kaizen-ideas/internal/domain"
	"kaizen-ideas/internal/mocks"
)

func newTestIdea(submitter *domain.User) *domain.Idea {
	return &domain.Idea{
		ID:                        uuid.New(),
		Title:                     "Reuse pallets",
		Department:                domain.DeptManufacturing,
		Status:                    domain.StatusUnderReview,
		SubmittedBy:               submitter.ID,
		SubmittedByEmployeeNumber: submitter.EmployeeNumber,
	}
}

func newTestUser(role domain.UserRole) *domain.User {
	return &domain.User{ID: uuid.New(), EmployeeNumber: uuid.NewString()[:8], Name: "User " + string(role), Role: role, IsActive: true}
}

func TestNotifyIdeaSubmitted(t *testing.T) {
	ctx := context.Background()
	submitter := newTestUser(domain.RoleEmployee)
	idea := newTestIdea(submitter)

	t.Run("One notification per reviewer", func(t *testing.T) {
		notifRepo := new(mocks.NotificationRepository)
		userRepo := new(mocks.UserRepository)
		svc := NewService(notifRepo, userRepo, nil, zap.NewNop())

		admin, reviewer := newTestUser(domain.RoleAdmin), newTestUser(domain.RoleReviewer)
		userRepo.On("ListActiveByRoles", ctx, ReviewerRoles).Return([]domain.User{*admin, *reviewer}, nil).Once()
		notifRepo.On("CreateBatch", ctx, mock.MatchedBy(func(ns []*domain.Notification) bool {
			if len(ns) != 2 || ns[0].RecipientID != admin.ID || ns[1].RecipientID != reviewer.ID {
				return false
			}
			for _, n := range ns {
				if n.Type != domain.NotifIdeaSubmitted || n.Priority != domain.PriorityHigh || *n.RelatedIdeaID != idea.ID {
					return false
				}
			}
			return ns[0].Message == `User employee submitted a new idea: "Reuse pallets"`
		})).Return(nil).Once()

		require.NoError(t, svc.NotifyIdeaSubmitted(ctx, idea, submitter))
		notifRepo.AssertExpectations(t)
		userRepo.AssertExpectations(t)
	})

	t.Run("No reviewers is a no-op", func(t *testing.T) {
		notifRepo := new(mocks.NotificationRepository)
		userRepo := new(mocks.UserRepository)
		svc := NewService(notifRepo, userRepo, nil, zap.NewNop())

		userRepo.On("ListActiveByRoles", ctx, ReviewerRoles).Return([]domain.User{}, nil).Once()

		require.NoError(t, svc.NotifyIdeaSubmitted(ctx, idea, submitter))
		notifRepo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
	})

	t.Run("Batch failure falls back to single inserts", func(t *testing.T) {
		notifRepo := new(mocks.NotificationRepository)
		userRepo := new(mocks.UserRepository)
		svc := NewService(notifRepo, userRepo, nil, zap.NewNop())

		a, b := newTestUser(domain.RoleAdmin), newTestUser(domain.RoleAdmin)
		userRepo.On("ListActiveByRoles", ctx, ReviewerRoles).Return([]domain.User{*a, *b}, nil).Once()
		notifRepo.On("CreateBatch", ctx, mock.Anything).Return(errors.New("tx aborted")).Once()
		notifRepo.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool { return n.RecipientID == a.ID })).
			Return(errors.New("constraint")).Once()
		notifRepo.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool { return n.RecipientID == b.ID })).
			Return(nil).Once()

		err := svc.NotifyIdeaSubmitted(ctx, idea, submitter)
		assert.ErrorContains(t, err, a.ID.String())
		notifRepo.AssertExpectations(t)
	})
}

func TestNotifyStatusChanged(t *testing.T) {
	ctx := context.Background()
	submitter := newTestUser(domain.RoleEmployee)
	reviewer := newTestUser(domain.RoleReviewer)

	for _, status := range domain.ReviewStatuses {
		t.Run(string(status), func(t *testing.T) {
			notifRepo := new(mocks.NotificationRepository)
			userRepo := new(mocks.UserRepository)
			svc := NewService(notifRepo, userRepo, nil, zap.NewNop())

			idea := newTestIdea(submitter)
			idea.Status = status

			userRepo.On("GetByID", ctx, submitter.ID).Return(submitter, nil).Once()
			var created *domain.Notification
			notifRepo.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
				return n.RecipientID == submitter.ID &&
					n.Type == domain.NotificationType("idea_"+string(status)) &&
					*n.RelatedUserID == reviewer.ID
			})).Run(func(args mock.Arguments) {
				created = args.Get(1).(*domain.Notification)
			}).Return(nil).Once()

			require.NoError(t, svc.NotifyStatusChanged(ctx, idea, reviewer.ID))
			notifRepo.AssertExpectations(t)

			require.NotNil(t, created)
			assert.NotEmpty(t, created.Message)
			assert.NotContains(t, created.Title, "{")
			assert.NotContains(t, created.Message, "{")
			assert.Contains(t, created.Message, idea.Title)
		})
	}

	t.Run("Submitted is not a reviewer status", func(t *testing.T) {
		notifRepo := new(mocks.NotificationRepository)
		userRepo := new(mocks.UserRepository)
		svc := NewService(notifRepo, userRepo, nil, zap.NewNop())

		idea := newTestIdea(submitter)
		idea.Status = domain.StatusSubmitted

		err := svc.NotifyStatusChanged(ctx, idea, reviewer.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
		notifRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Sends email when an address is on file", func(t *testing.T) {
		notifRepo := new(mocks.NotificationRepository)
		userRepo := new(mocks.UserRepository)
		emailSvc := new(mocks.EmailService)
		svc := NewService(notifRepo, userRepo, emailSvc, zap.NewNop())

		addr := "emp@example.com"
		withEmail := *submitter
		withEmail.Email = &addr
		idea := newTestIdea(&withEmail)
		idea.Status = domain.StatusImplemented

		sent := make(chan struct{})
		userRepo.On("GetByID", ctx, withEmail.ID).Return(&withEmail, nil).Once()
		notifRepo.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.Priority == domain.PriorityHigh
		})).Return(nil).Once()
		emailSvc.On("SendIdeaStatusEmail", mock.Anything, addr, withEmail.Name, mock.Anything).
			Run(func(mock.Arguments) { close(sent) }).Return(nil).Once()

		require.NoError(t, svc.NotifyStatusChanged(ctx, idea, reviewer.ID))
		select {
		case <-sent:
		case <-time.After(time.Second):
			t.Fatal("status email was not sent")
		}
	})

	t.Run("Missing submitter", func(t *testing.T) {
		notifRepo := new(mocks.NotificationRepository)
		userRepo := new(mocks.UserRepository)
		svc := NewService(notifRepo, userRepo, nil, zap.NewNop())

		idea := newTestIdea(submitter)
		userRepo.On("GetByID", ctx, submitter.ID).Return(nil, nil).Once()

		assert.ErrorIs(t, svc.NotifyStatusChanged(ctx, idea, reviewer.ID), domain.ErrUserNotFound)
	})
}

func TestNotifyIdeaUpdated(t *testing.T) {
	ctx := context.Background()
	submitter := newTestUser(domain.RoleEmployee)
	idea := newTestIdea(submitter)

	t.Run("Submitter editing own idea is silent", func(t *testing.T) {
		notifRepo := new(mocks.NotificationRepository)
		svc := NewService(notifRepo, new(mocks.UserRepository), nil, zap.NewNop())

		require.NoError(t, svc.NotifyIdeaUpdated(ctx, idea, submitter, []string{"title"}))
		notifRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Other editor notifies submitter", func(t *testing.T) {
		notifRepo := new(mocks.NotificationRepository)
		svc := NewService(notifRepo, new(mocks.UserRepository), nil, zap.NewNop())
		admin := newTestUser(domain.RoleAdmin)

		notifRepo.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.RecipientID == submitter.ID && n.Type == domain.NotifIdeaUpdated &&
				n.Message == `Your idea "Reuse pallets" has been updated by User admin. Changes: title, tags`
		})).Return(nil).Once()

		require.NoError(t, svc.NotifyIdeaUpdated(ctx, idea, admin, []string{"title", "tags"}))
		notifRepo.AssertExpectations(t)
	})
}

func TestNotifyCreditPointsUpdated(t *testing.T) {
	ctx := context.Background()
	user := newTestUser(domain.RoleEmployee)
	actor := uuid.New()

	notifRepo := new(mocks.NotificationRepository)
	svc := NewService(notifRepo, new(mocks.UserRepository), nil, zap.NewNop())

	notifRepo.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.Type == domain.NotifCreditPointsUpdated &&
			n.Message == "Your credit points have been updated to 0 points. Idea deleted" &&
			string(n.Metadata) == `{"difference":-10,"new_points":0,"old_points":10,"reason":"Idea deleted"}` &&
			*n.RelatedUserID == actor
	})).Return(nil).Once()

	require.NoError(t, svc.NotifyCreditPointsUpdated(ctx, user, 10, 0, "Idea deleted", &actor))
	notifRepo.AssertExpectations(t)
}

func TestReadSide(t *testing.T) {
	ctx := context.Background()
	recipient := uuid.New()

	t.Run("List includes unread count", func(t *testing.T) {
		notifRepo := new(mocks.NotificationRepository)
		svc := NewService(notifRepo, new(mocks.UserRepository), nil, zap.NewNop())

		params := domain.PaginationParams{Page: 1, PageSize: 10}
		notifRepo.On("ListByRecipient", ctx, recipient, (*bool)(nil), params).
			Return([]domain.Notification{{ID: uuid.New()}}, int64(1), nil).Once()
		notifRepo.On("CountUnread", ctx, recipient).Return(int64(1), nil).Once()

		list, err := svc.List(ctx, recipient, nil, domain.PaginationParams{})
		require.NoError(t, err)
		assert.Len(t, list.Data, 1)
		assert.Equal(t, int64(1), list.UnreadCount)
		assert.Equal(t, 1, list.TotalPages)
	})

	t.Run("MarkAsRead on foreign notification", func(t *testing.T) {
		notifRepo := new(mocks.NotificationRepository)
		svc := NewService(notifRepo, new(mocks.UserRepository), nil, zap.NewNop())

		id := uuid.New()
		notifRepo.On("MarkAsRead", ctx, id, recipient).Return(nil, nil).Once()

		_, err := svc.MarkAsRead(ctx, id, recipient)
		assert.ErrorIs(t, err, domain.ErrNotificationNotFound)
	})
}
