package user

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kaizen-ideas/internal/domain"
	"kaizen-ideas/internal/pkg/guard"
	"kaizen-ideas/internal/repository"
	"kaizen-ideas/internal/service/leaderboard"
)

type Service interface {
	Create(ctx context.Context, input domain.CreateUserInput) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	List(ctx context.Context, filter domain.UserFilter, params domain.PaginationParams) (domain.PaginatedResponse[domain.User], error)
	Update(ctx context.Context, actor *domain.User, id uuid.UUID, input domain.UpdateUserInput) (*domain.User, error)
	Deactivate(ctx context.Context, actor *domain.User, id uuid.UUID) error
}

type service struct {
	userRepo repository.UserRepository
	lbSvc    leaderboard.Service
	log      *zap.Logger
}

// NewService builds the user service. A nil lbSvc skips leaderboard
// invalidation.
func NewService(userRepo repository.UserRepository, lbSvc leaderboard.Service, log *zap.Logger) Service {
	return &service{userRepo: userRepo, lbSvc: lbSvc, log: log}
}

func (s *service) Create(ctx context.Context, input domain.CreateUserInput) (*domain.User, error) {
	role := input.Role
	if role == "" {
		role = domain.RoleEmployee
	}

	user := &domain.User{
		ID:             uuid.New(),
		EmployeeNumber: strings.TrimSpace(input.EmployeeNumber),
		Name:           strings.TrimSpace(input.Name),
		Email:          input.Email,
		MobileNumber:   input.MobileNumber,
		Department:     input.Department,
		Designation:    strings.TrimSpace(input.Designation),
		Role:           role,
		IsActive:       true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("user created", zap.String("user_id", user.ID.String()), zap.String("employee_number", user.EmployeeNumber))
	s.invalidateLeaderboard(ctx, user.ID)
	return user, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (s *service) List(ctx context.Context, filter domain.UserFilter, params domain.PaginationParams) (domain.PaginatedResponse[domain.User], error) {
	params.Validate()

	users, total, err := s.userRepo.List(ctx, filter, params)
	if err != nil {
		return domain.PaginatedResponse[domain.User]{}, err
	}
	return domain.NewPaginatedResponse(users, params, total), nil
}

// Update changes profile fields. Credit points are never touched here.
func (s *service) Update(ctx context.Context, actor *domain.User, id uuid.UUID, input domain.UpdateUserInput) (*domain.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if actor.ID == id {
		if (input.Role != nil && *input.Role != user.Role) || (input.IsActive != nil && !*input.IsActive) {
			return nil, domain.ErrCannotModifySelf
		}
	}

	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		user.Email = input.Email
	}
	if input.MobileNumber != nil {
		user.MobileNumber = input.MobileNumber
	}
	if input.Department != nil {
		user.Department = *input.Department
	}
	if input.Designation != nil {
		user.Designation = strings.TrimSpace(*input.Designation)
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	s.invalidateLeaderboard(ctx, user.ID)
	return user, nil
}

func (s *service) Deactivate(ctx context.Context, actor *domain.User, id uuid.UUID) error {
	if actor.ID == id {
		return domain.ErrCannotModifySelf
	}
	if err := s.userRepo.Deactivate(ctx, id); err != nil {
		return err
	}

	s.log.Info("user deactivated", zap.String("user_id", id.String()), zap.String("actor_id", actor.ID.String()))
	s.invalidateLeaderboard(ctx, id)
	return nil
}

// invalidateLeaderboard drops cached rankings, which carry names,
// departments and the active flag.
func (s *service) invalidateLeaderboard(ctx context.Context, userID uuid.UUID) {
	if s.lbSvc == nil {
		return
	}
	guard.Run(s.log, "invalidate_leaderboard", func() error {
		return s.lbSvc.Invalidate(ctx)
	}, zap.String("user_id", userID.String()))
}
