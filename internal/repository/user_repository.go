package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"kaizen-ideas/internal/domain"
)

const userColumns = `id, employee_number, name, email, mobile_number, department, designation,
	role, is_active, credit_points, last_login_at, created_at, updated_at`

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmployeeNumber(ctx context.Context, employeeNumber string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	UpdateCreditPoints(ctx context.Context, id uuid.UUID, points int) (*domain.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
	ListActiveByRoles(ctx context.Context, roles []domain.UserRole) ([]domain.User, error)
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
	List(ctx context.Context, filter domain.UserFilter, params domain.PaginationParams) ([]domain.User, int64, error)
	Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, employee_number, name, email, mobile_number, department, designation, role, is_active, credit_points)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0)
		RETURNING credit_points, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		user.ID, user.EmployeeNumber, user.Name, user.Email, user.MobileNumber,
		user.Department, user.Designation, user.Role, user.IsActive,
	).Scan(&user.CreditPoints, &user.CreatedAt, &user.UpdatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return domain.ErrEmployeeNumberExists
	}
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *userRepository) GetByEmployeeNumber(ctx context.Context, employeeNumber string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE employee_number = $1`, employeeNumber)
}

func (r *userRepository) getOne(ctx context.Context, query string, args ...interface{}) (*domain.User, error) {
	var user domain.User
	err := r.db.GetContext(ctx, &user, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update writes the profile fields. credit_points is deliberately not part of
// the statement.
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET name = :name, email = :email, mobile_number = :mobile_number, department = :department,
			designation = :designation, role = :role, is_active = :is_active, updated_at = NOW()
		WHERE id = :id`

	res, err := r.db.NamedExecContext(ctx, query, user)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) UpdateCreditPoints(ctx context.Context, id uuid.UUID, points int) (*domain.User, error) {
	query := `UPDATE users SET credit_points = $2, updated_at = NOW() WHERE id = $1 RETURNING ` + userColumns

	var user domain.User
	err := r.db.QueryRowxContext(ctx, query, id, points).StructScan(&user)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET last_login_at = NOW() WHERE id = $1`, id)
	return err
}

func (r *userRepository) ListActiveByRoles(ctx context.Context, roles []domain.UserRole) ([]domain.User, error) {
	if len(roles) == 0 {
		return []domain.User{}, nil
	}

	roleStrings := make([]string, len(roles))
	for i, role := range roles {
		roleStrings[i] = string(role)
	}

	var users []domain.User
	query := `SELECT ` + userColumns + ` FROM users WHERE role = ANY($1) AND is_active = TRUE ORDER BY created_at`
	err := r.db.SelectContext(ctx, &users, query, pq.Array(roleStrings))
	return users, err
}

func (r *userRepository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.SelectContext(ctx, &ids, `SELECT id FROM users ORDER BY created_at`)
	return ids, err
}

func (r *userRepository) List(ctx context.Context, filter domain.UserFilter, params domain.PaginationParams) ([]domain.User, int64, error) {
	params.Validate()

	where := []string{"is_active = TRUE"}
	var args []interface{}
	if filter.Department != nil {
		args = append(args, *filter.Department)
		where = append(where, fmt.Sprintf("department = $%d", len(args)))
	}
	if filter.Role != nil {
		args = append(args, *filter.Role)
		where = append(where, fmt.Sprintf("role = $%d", len(args)))
	}
	whereSQL := strings.Join(where, " AND ")

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM users WHERE `+whereSQL, args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s ORDER BY name LIMIT $%d OFFSET $%d`,
		userColumns, whereSQL, len(args)+1, len(args)+2)

	var users []domain.User
	err := r.db.SelectContext(ctx, &users, query, append(args, params.PageSize, params.Offset())...)
	return users, total, err
}

func (r *userRepository) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	query := `
		SELECT u.id, u.name, u.employee_number, u.department, u.designation, u.credit_points,
			(SELECT COUNT(*) FROM ideas i WHERE i.submitted_by = u.id AND i.is_active = TRUE) AS ideas
		FROM users u
		WHERE u.is_active = TRUE
		ORDER BY u.credit_points DESC, u.name
		LIMIT $1`

	var entries []domain.LeaderboardEntry
	if err := r.db.SelectContext(ctx, &entries, query, limit); err != nil {
		return nil, err
	}
	return entries, nil
}
