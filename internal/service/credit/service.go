// Package credit owns writes to a user's cached credit points.
package credit

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kaizen-ideas/internal/domain"
	"kaizen-ideas/internal/pkg/guard"
	"kaizen-ideas/internal/pkg/keylock"
	"kaizen-ideas/internal/repository"
	"kaizen-ideas/internal/service/leaderboard"
	"kaizen-ideas/internal/service/notification"
	"kaizen-ideas/internal/service/score"
)

// ReasonManual is recorded for recalculations an administrator triggers.
const ReasonManual = "Credit points recalculated by administrator"

type Service interface {
	// Recalculate serializes calls per user with an in-process lock. That
	// ordering holds for a single API instance only; replicas sharing one
	// database can interleave writes for the same user.
	Recalculate(ctx context.Context, userID uuid.UUID, reason string, actorID *uuid.UUID) (*domain.RecalculationResult, error)
	RecalculateAll(ctx context.Context, actorID *uuid.UUID) (*domain.RecalculationSummary, error)
}

type service struct {
	ideaRepo repository.IdeaRepository
	userRepo repository.UserRepository
	notifSvc notification.Service
	lbSvc    leaderboard.Service
	locks    *keylock.Locker[uuid.UUID]
	log      *zap.Logger
}

// NewService wires the recalculator. notifSvc and lbSvc may be nil, which
// skips the corresponding side effect.
func NewService(ideaRepo repository.IdeaRepository, userRepo repository.UserRepository, notifSvc notification.Service, lbSvc leaderboard.Service, log *zap.Logger) Service {
	return &service{
		ideaRepo: ideaRepo,
		userRepo: userRepo,
		notifSvc: notifSvc,
		lbSvc:    lbSvc,
		locks:    keylock.New[uuid.UUID](),
		log:      log,
	}
}

// Recalculate recomputes userID's points from their active ideas and stores
// the result even when it is unchanged. Calls for the same user run one at a
// time within this process, which assumes a single API instance. The score
// change notification is sent while the lock is held so
// notifications for one user are ordered like the writes they describe.
func (s *service) Recalculate(ctx context.Context, userID uuid.UUID, reason string, actorID *uuid.UUID) (*domain.RecalculationResult, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	ideas, err := s.ideaRepo.ListActiveBySubmitter(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ideas: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	oldPoints := user.CreditPoints
	newPoints := score.Compute(ideas)

	updated, err := s.userRepo.UpdateCreditPoints(ctx, userID, newPoints)
	if err != nil {
		return nil, fmt.Errorf("failed to store credit points: %w", err)
	}
	if updated == nil {
		return nil, domain.ErrUserNotFound
	}

	if newPoints != oldPoints {
		fields := []zap.Field{zap.String("user_id", userID.String())}
		if s.notifSvc != nil {
			guard.Run(s.log, "credit_points_notification", func() error {
				return s.notifSvc.NotifyCreditPointsUpdated(ctx, updated, oldPoints, newPoints, reason, actorID)
			}, fields...)
		}
		if s.lbSvc != nil {
			guard.Run(s.log, "leaderboard_invalidate", func() error {
				return s.lbSvc.Invalidate(ctx)
			}, fields...)
		}
	}

	return &domain.RecalculationResult{
		User:       updated,
		OldPoints:  oldPoints,
		NewPoints:  newPoints,
		Difference: newPoints - oldPoints,
	}, nil
}

func (s *service) RecalculateAll(ctx context.Context, actorID *uuid.UUID) (*domain.RecalculationSummary, error) {
	ids, err := s.userRepo.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	summary := &domain.RecalculationSummary{}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		summary.Processed++
		result, err := s.Recalculate(ctx, id, ReasonManual, actorID)
		if err != nil {
			summary.Failed++
			s.log.Warn("credit recalculation failed", zap.String("user_id", id.String()), zap.Error(err))
			continue
		}
		if result.Difference != 0 {
			summary.Changed++
		}
	}

	s.log.Info("credit points recalculated",
		zap.Int("processed", summary.Processed),
		zap.Int("changed", summary.Changed),
		zap.Int("failed", summary.Failed))

	return summary, nil
}
