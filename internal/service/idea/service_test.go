package idea

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
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"kaizen-ideas/internal/domain"
	"kaizen-ideas/internal/mocks"
)

type fixture struct {
	ideaRepo    *mocks.IdeaRepository
	userRepo    *mocks.UserRepository
	creditSvc   *mocks.CreditService
	notifSvc    *mocks.NotificationService
	lbSvc       *mocks.LeaderboardService
	broadcaster *mocks.Broadcaster
	logs        *observer.ObservedLogs
	svc         *service
}

func newFixture() *fixture {
	core, logs := observer.New(zapcore.WarnLevel)
	f := &fixture{
		ideaRepo:    new(mocks.IdeaRepository),
		userRepo:    new(mocks.UserRepository),
		creditSvc:   new(mocks.CreditService),
		notifSvc:    new(mocks.NotificationService),
		lbSvc:       new(mocks.LeaderboardService),
		broadcaster: new(mocks.Broadcaster),
		logs:        logs,
	}
	f.svc = NewService(f.ideaRepo, f.userRepo, f.creditSvc, f.notifSvc, f.lbSvc, f.broadcaster, zap.New(core)).(*service)
	return f
}

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func TestSubmit(t *testing.T) {
	ctx := context.Background()
	submitter := &domain.User{ID: uuid.New(), EmployeeNumber: "E100", Name: "Asha", IsActive: true}

	t.Run("Secondary failures do not fail the submission", func(t *testing.T) {
		f := newFixture()
		f.userRepo.On("GetByID", ctx, submitter.ID).Return(submitter, nil).Once()
		f.ideaRepo.On("Create", ctx, mock.MatchedBy(func(i *domain.Idea) bool {
			return i.Status == domain.StatusUnderReview &&
				i.SubmittedByEmployeeNumber == "E100" &&
				i.IsActive &&
				len(i.Tags) == 2 && len(i.Images) == 1
		})).Return(nil).Once()
		f.creditSvc.On("Recalculate", ctx, submitter.ID, ReasonSubmitted, &submitter.ID).Return(nil, errors.New("db timeout")).Once()
		f.notifSvc.On("NotifyIdeaSubmitted", ctx, mock.Anything, submitter).Return(errors.New("no table")).Once()
		f.broadcaster.On("BroadcastIdeasChanged", ctx).Run(func(mock.Arguments) { panic("socket closed") }).Once()

		input := draft("Reuse pallets")
		input.Tags = []string{" lean ", "lean", "5s", ""}
		images := []domain.IdeaImage{{Filename: "ideas/2026/03/x.png", MimeType: "image/png", Size: 10}}

		idea, err := f.svc.Submit(ctx, input, images, submitter.ID)
		require.NoError(t, err)
		assert.Equal(t, "Asha", idea.Submitter.Name)

		f.creditSvc.AssertExpectations(t)
		f.notifSvc.AssertExpectations(t)
		f.broadcaster.AssertExpectations(t)
		assert.Equal(t, 2, f.logs.FilterMessage("secondary effect failed").Len())
		assert.Equal(t, 1, f.logs.FilterMessage("secondary effect panicked").Len())
	})

	t.Run("Explicit initial status", func(t *testing.T) {
		f := newFixture()
		f.userRepo.On("GetByID", ctx, submitter.ID).Return(submitter, nil).Once()
		f.ideaRepo.On("Create", ctx, mock.MatchedBy(func(i *domain.Idea) bool {
			return i.Status == domain.StatusSubmitted
		})).Return(nil).Once()
		f.creditSvc.On("Recalculate", ctx, submitter.ID, ReasonSubmitted, mock.Anything).Return(&domain.RecalculationResult{}, nil).Once()
		f.notifSvc.On("NotifyIdeaSubmitted", ctx, mock.Anything, submitter).Return(nil).Once()
		f.broadcaster.On("BroadcastIdeasChanged", ctx).Once()

		input := draft("X")
		input.Status = domain.StatusSubmitted
		_, err := f.svc.Submit(ctx, input, nil, submitter.ID)
		require.NoError(t, err)
		f.ideaRepo.AssertExpectations(t)
	})

	t.Run("Primary write failure runs no effects", func(t *testing.T) {
		f := newFixture()
		f.userRepo.On("GetByID", ctx, submitter.ID).Return(submitter, nil).Once()
		f.ideaRepo.On("Create", ctx, mock.Anything).Return(errors.New("unique violation")).Once()

		_, err := f.svc.Submit(ctx, draft("X"), nil, submitter.ID)
		assert.ErrorContains(t, err, "unique violation")
		f.creditSvc.AssertNotCalled(t, "Recalculate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.broadcaster.AssertNotCalled(t, "BroadcastIdeasChanged", mock.Anything)
	})

	t.Run("Unknown submitter", func(t *testing.T) {
		f := newFixture()
		f.userRepo.On("GetByID", ctx, submitter.ID).Return(nil, nil).Once()

		_, err := f.svc.Submit(ctx, draft("X"), nil, submitter.ID)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("Invalid status", func(t *testing.T) {
		f := newFixture()
		input := draft("X")
		input.Status = "archived"

		_, err := f.svc.Submit(ctx, input, nil, submitter.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	})
}

func TestChangeStatus(t *testing.T) {
	ctx := context.Background()
	submitterID, reviewerID := uuid.New(), uuid.New()

	newIdea := func() *domain.Idea {
		return &domain.Idea{ID: uuid.New(), Title: "T", Status: domain.StatusUnderReview, SubmittedBy: submitterID, IsActive: true}
	}

	t.Run("Implemented stamps review and implementation date", func(t *testing.T) {
		f := newFixture()
		f.svc.now = func() time.Time { return fixedNow }
		idea := newIdea()
		comments := "Well done"

		f.ideaRepo.On("GetByID", ctx, idea.ID).Return(idea, nil).Once()
		f.ideaRepo.On("UpdateReview", ctx, mock.MatchedBy(func(i *domain.Idea) bool {
			return i.Status == domain.StatusImplemented &&
				*i.ReviewedBy == reviewerID &&
				i.ReviewedAt.Equal(fixedNow) &&
				i.ImplementationDate.Equal(fixedNow) &&
				*i.ReviewComments == comments
		})).Return(nil).Once()
		f.creditSvc.On("Recalculate", ctx, submitterID, "Idea status changed to implemented", &reviewerID).
			Return(&domain.RecalculationResult{}, nil).Once()
		f.notifSvc.On("NotifyStatusChanged", ctx, mock.Anything, reviewerID).Return(nil).Once()
		f.broadcaster.On("BroadcastIdeasChanged", ctx).Once()
		f.userRepo.On("GetByID", ctx, submitterID).Return(&domain.User{ID: submitterID, Name: "Sub"}, nil).Once()
		f.userRepo.On("GetByID", ctx, reviewerID).Return(&domain.User{ID: reviewerID, Name: "Rev"}, nil).Once()

		got, err := f.svc.ChangeStatus(ctx, idea.ID, domain.UpdateIdeaStatusInput{Status: domain.StatusImplemented, ReviewComments: &comments}, reviewerID)
		require.NoError(t, err)
		assert.Equal(t, "Sub", got.Submitter.Name)
		assert.Equal(t, "Rev", got.Reviewer.Name)
		f.ideaRepo.AssertExpectations(t)
		f.creditSvc.AssertExpectations(t)
		f.notifSvc.AssertExpectations(t)
	})

	t.Run("Any status may follow any other", func(t *testing.T) {
		f := newFixture()
		idea := newIdea()
		idea.Status = domain.StatusImplemented
		implementedAt := fixedNow.Add(-time.Hour)
		idea.ImplementationDate = &implementedAt

		f.ideaRepo.On("GetByID", ctx, idea.ID).Return(idea, nil).Once()
		f.ideaRepo.On("UpdateReview", ctx, mock.MatchedBy(func(i *domain.Idea) bool {
			return i.Status == domain.StatusUnderReview && i.ImplementationDate.Equal(implementedAt)
		})).Return(nil).Once()
		f.creditSvc.On("Recalculate", ctx, submitterID, mock.Anything, mock.Anything).Return(&domain.RecalculationResult{}, nil).Once()
		f.notifSvc.On("NotifyStatusChanged", ctx, mock.Anything, reviewerID).Return(nil).Once()
		f.broadcaster.On("BroadcastIdeasChanged", ctx).Once()
		f.userRepo.On("GetByID", ctx, mock.Anything).Return(nil, errors.New("lookup failed"))

		got, err := f.svc.ChangeStatus(ctx, idea.ID, domain.UpdateIdeaStatusInput{Status: domain.StatusUnderReview}, reviewerID)
		require.NoError(t, err)
		assert.Nil(t, got.Submitter)
		f.ideaRepo.AssertExpectations(t)
	})

	t.Run("Soft-deleted idea is not found", func(t *testing.T) {
		f := newFixture()
		idea := newIdea()
		idea.IsActive = false
		f.ideaRepo.On("GetByID", ctx, idea.ID).Return(idea, nil).Once()

		_, err := f.svc.ChangeStatus(ctx, idea.ID, domain.UpdateIdeaStatusInput{Status: domain.StatusApproved}, reviewerID)
		assert.ErrorIs(t, err, domain.ErrIdeaNotFound)
		f.ideaRepo.AssertNotCalled(t, "UpdateReview", mock.Anything, mock.Anything)
	})

	t.Run("Missing idea", func(t *testing.T) {
		f := newFixture()
		id := uuid.New()
		f.ideaRepo.On("GetByID", ctx, id).Return(nil, nil).Once()

		_, err := f.svc.ChangeStatus(ctx, id, domain.UpdateIdeaStatusInput{Status: domain.StatusApproved}, reviewerID)
		assert.ErrorIs(t, err, domain.ErrIdeaNotFound)
	})

	t.Run("Unknown status", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.ChangeStatus(ctx, uuid.New(), domain.UpdateIdeaStatusInput{Status: "done"}, reviewerID)
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	})

	t.Run("Submitted cannot be assigned by a reviewer", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.ChangeStatus(ctx, uuid.New(), domain.UpdateIdeaStatusInput{Status: domain.StatusSubmitted}, reviewerID)
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
		f.ideaRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
		f.ideaRepo.AssertNotCalled(t, "UpdateReview", mock.Anything, mock.Anything)
		f.notifSvc.AssertNotCalled(t, "NotifyStatusChanged", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestEdit(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("Owner edit broadcasts without recalculation or notification", func(t *testing.T) {
		f := newFixture()
		id := uuid.New()
		title := "New title"
		input := domain.UpdateIdeaInput{Title: &title}

		f.ideaRepo.On("UpdateOwned", ctx, id, ownerID, input).
			Return(&domain.Idea{ID: id, Title: title, SubmittedBy: ownerID, IsActive: true}, nil).Once()
		f.broadcaster.On("BroadcastIdeasChanged", ctx).Once()
		f.userRepo.On("GetByID", ctx, ownerID).Return(&domain.User{ID: ownerID}, nil).Once()

		got, err := f.svc.Edit(ctx, id, input, ownerID)
		require.NoError(t, err)
		assert.Equal(t, title, got.Title)
		f.broadcaster.AssertExpectations(t)
		f.creditSvc.AssertNotCalled(t, "Recalculate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.notifSvc.AssertNotCalled(t, "NotifyIdeaUpdated", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.lbSvc.AssertNotCalled(t, "Invalidate", mock.Anything)
	})

	t.Run("Department or savings change invalidates leaderboard", func(t *testing.T) {
		dept := domain.DeptQuality
		savings := 1200.0
		for name, input := range map[string]domain.UpdateIdeaInput{
			"department":        {Department: &dept},
			"estimated_savings": {EstimatedSavings: &savings},
		} {
			t.Run(name, func(t *testing.T) {
				f := newFixture()
				id := uuid.New()
				f.ideaRepo.On("UpdateOwned", ctx, id, ownerID, input).
					Return(&domain.Idea{ID: id, Department: dept, SubmittedBy: ownerID, IsActive: true}, nil).Once()
				f.lbSvc.On("Invalidate", ctx).Return(nil).Once()
				f.broadcaster.On("BroadcastIdeasChanged", ctx).Once()
				f.userRepo.On("GetByID", ctx, ownerID).Return(&domain.User{ID: ownerID}, nil).Once()

				_, err := f.svc.Edit(ctx, id, input, ownerID)
				require.NoError(t, err)
				f.lbSvc.AssertExpectations(t)
			})
		}
	})

	t.Run("Not owned or missing", func(t *testing.T) {
		f := newFixture()
		id := uuid.New()
		title := "x"
		input := domain.UpdateIdeaInput{Title: &title}
		f.ideaRepo.On("UpdateOwned", ctx, id, ownerID, input).Return(nil, nil).Once()

		_, err := f.svc.Edit(ctx, id, input, ownerID)
		assert.ErrorIs(t, err, domain.ErrIdeaNotFound)
		f.broadcaster.AssertNotCalled(t, "BroadcastIdeasChanged", mock.Anything)
	})

	t.Run("Empty update", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.Edit(ctx, uuid.New(), domain.UpdateIdeaInput{}, ownerID)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestSoftDelete(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	id := uuid.New()

	t.Run("Recalculates and broadcasts", func(t *testing.T) {
		f := newFixture()
		f.ideaRepo.On("SoftDeleteOwned", ctx, id, ownerID).Return(&domain.Idea{ID: id, SubmittedBy: ownerID}, nil).Once()
		f.creditSvc.On("Recalculate", ctx, ownerID, ReasonDeleted, &ownerID).Return(&domain.RecalculationResult{}, nil).Once()
		f.broadcaster.On("BroadcastIdeasChanged", ctx).Once()

		require.NoError(t, f.svc.SoftDelete(ctx, id, ownerID))
		f.creditSvc.AssertExpectations(t)
		f.broadcaster.AssertExpectations(t)
	})

	t.Run("Not owned or missing", func(t *testing.T) {
		f := newFixture()
		f.ideaRepo.On("SoftDeleteOwned", ctx, id, ownerID).Return(nil, nil).Once()

		assert.ErrorIs(t, f.svc.SoftDelete(ctx, id, ownerID), domain.ErrIdeaNotFound)
		f.creditSvc.AssertNotCalled(t, "Recalculate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestList(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	userID := uuid.New()
	status := domain.StatusApproved

	filter := domain.IdeaFilter{SubmittedBy: &userID, Status: &status}
	params := domain.PaginationParams{Page: 1, PageSize: 10}
	f.ideaRepo.On("List", ctx, filter, params).Return([]domain.Idea{
		{ID: uuid.New(), SubmittedBy: userID},
		{ID: uuid.New(), SubmittedBy: userID},
	}, int64(12), nil).Once()
	f.userRepo.On("GetByID", ctx, userID).Return(&domain.User{ID: userID, Name: "Asha"}, nil).Once()

	page, err := f.svc.ListMine(ctx, userID, &status, domain.PaginationParams{})
	require.NoError(t, err)
	assert.Len(t, page.Data, 2)
	assert.Equal(t, 2, page.TotalPages)
	assert.True(t, page.HasNext)
	assert.Equal(t, "Asha", page.Data[1].Submitter.Name)
	f.userRepo.AssertNumberOfCalls(t, "GetByID", 1)
}
