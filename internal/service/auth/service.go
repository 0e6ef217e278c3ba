package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"kaizen-ideas/internal/config"
	"kaizen-ideas/internal/domain"
	"kaizen-ideas/internal/repository"
	"kaizen-ideas/internal/service/email"
)

const otpDigits = 6

var ErrInvalidToken = errors.New("invalid or expired token")

type Service interface {
	SendOTP(ctx context.Context, input domain.SendOTPInput) error
	VerifyOTP(ctx context.Context, input domain.VerifyOTPInput) (*domain.AuthToken, error)
	ValidateAccessToken(token string) (*Claims, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type Claims struct {
	UserID         uuid.UUID       `json:"user_id"`
	EmployeeNumber string          `json:"employee_number"`
	Role           domain.UserRole `json:"role"`
	jwt.RegisteredClaims
}

type service struct {
	userRepo repository.UserRepository
	otpStore OTPStore
	emailSvc email.Service
	cfg      *config.Config
	log      *zap.Logger
	now      func() time.Time
}

func NewService(userRepo repository.UserRepository, otpStore OTPStore, emailSvc email.Service, cfg *config.Config, log *zap.Logger) Service {
	return &service{
		userRepo: userRepo,
		otpStore: otpStore,
		emailSvc: emailSvc,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

func (s *service) activeUser(ctx context.Context, employeeNumber string) (*domain.User, error) {
	user, err := s.userRepo.GetByEmployeeNumber(ctx, employeeNumber)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}
	return user, nil
}

func (s *service) SendOTP(ctx context.Context, input domain.SendOTPInput) error {
	user, err := s.activeUser(ctx, input.EmployeeNumber)
	if err != nil {
		return err
	}
	if user.Email == nil || *user.Email == "" {
		return domain.NewValidationError("employee_number", "no email address on file for this employee")
	}

	code, err := generateOTP()
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.otpStore.Save(ctx, user.EmployeeNumber, string(hash), s.cfg.OTPExpiry); err != nil {
		return fmt.Errorf("failed to store OTP: %w", err)
	}

	if err := s.emailSvc.SendOTP(ctx, *user.Email, user.Name, code, s.cfg.OTPExpiry); err != nil {
		_ = s.otpStore.Delete(ctx, user.EmployeeNumber)
		return fmt.Errorf("failed to send OTP email: %w", err)
	}

	s.log.Info("otp sent", zap.String("employee_number", user.EmployeeNumber))
	return nil
}

func (s *service) VerifyOTP(ctx context.Context, input domain.VerifyOTPInput) (*domain.AuthToken, error) {
	user, err := s.activeUser(ctx, input.EmployeeNumber)
	if err != nil {
		return nil, err
	}

	hash, attempts, found, err := s.otpStore.Get(ctx, user.EmployeeNumber)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrOTPExpired
	}
	if attempts >= s.cfg.OTPMaxAttempts {
		_ = s.otpStore.Delete(ctx, user.EmployeeNumber)
		return nil, domain.ErrTooManyAttempts
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(input.OTP)) != nil {
		n, err := s.otpStore.IncrAttempts(ctx, user.EmployeeNumber)
		if err != nil {
			return nil, err
		}
		if n >= s.cfg.OTPMaxAttempts {
			_ = s.otpStore.Delete(ctx, user.EmployeeNumber)
			return nil, domain.ErrTooManyAttempts
		}
		return nil, domain.ErrInvalidOTP
	}

	if err := s.otpStore.Delete(ctx, user.EmployeeNumber); err != nil {
		s.log.Warn("failed to delete used OTP", zap.String("employee_number", user.EmployeeNumber), zap.Error(err))
	}
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.log.Warn("failed to stamp last login", zap.String("user_id", user.ID.String()), zap.Error(err))
	}

	token, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	return &domain.AuthToken{
		AccessToken: token,
		ExpiresIn:   int64(s.cfg.JWTAccessExpiry.Seconds()),
		User:        user,
	}, nil
}

func (s *service) ValidateAccessToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *service) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *service) generateAccessToken(user *domain.User) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID:         user.ID,
		EmployeeNumber: user.EmployeeNumber,
		Role:           user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTAccessExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   user.ID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func generateOTP() (string, error) {
	max := big.NewInt(1_000_000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", otpDigits, n.Int64()), nil
}
