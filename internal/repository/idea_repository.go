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

const ideaColumns = `id, title, problem, improvement, benefit, department, estimated_savings,
	actual_savings, tags, images, status, submitted_by, submitted_by_employee_number,
	reviewed_by, reviewed_at, review_comments, implementation_date, is_active,
	created_at, updated_at`

type IdeaRepository interface {
	Create(ctx context.Context, idea *domain.Idea) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Idea, error)
	ListActiveBySubmitter(ctx context.Context, userID uuid.UUID) ([]domain.Idea, error)
	UpdateReview(ctx context.Context, idea *domain.Idea) error
	UpdateOwned(ctx context.Context, id, ownerID uuid.UUID, input domain.UpdateIdeaInput) (*domain.Idea, error)
	SoftDeleteOwned(ctx context.Context, id, ownerID uuid.UUID) (*domain.Idea, error)
	List(ctx context.Context, filter domain.IdeaFilter, params domain.PaginationParams) ([]domain.Idea, int64, error)
	Stats(ctx context.Context) (*domain.IdeaStats, error)
	DepartmentLeaderboard(ctx context.Context) ([]domain.DepartmentLeaderboardEntry, error)
}

type ideaRepository struct {
	db *sqlx.DB
}

func NewIdeaRepository(db *sqlx.DB) IdeaRepository {
	return &ideaRepository{db: db}
}

func (r *ideaRepository) Create(ctx context.Context, idea *domain.Idea) error {
	query := `
		INSERT INTO ideas (id, title, problem, improvement, benefit, department, estimated_savings,
			tags, images, status, submitted_by, submitted_by_employee_number, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8::text[], '{}'), $9, $10, $11, $12, TRUE)
		RETURNING is_active, created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		idea.ID, idea.Title, idea.Problem, idea.Improvement, idea.Benefit, idea.Department,
		idea.EstimatedSavings, pq.Array([]string(idea.Tags)), idea.Images, idea.Status,
		idea.SubmittedBy, idea.SubmittedByEmployeeNumber,
	).Scan(&idea.IsActive, &idea.CreatedAt, &idea.UpdatedAt)
}

// GetByID returns the idea regardless of its active flag, or nil when the id
// does not resolve.
func (r *ideaRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Idea, error) {
	var idea domain.Idea
	query := `SELECT ` + ideaColumns + ` FROM ideas WHERE id = $1`

	err := r.db.GetContext(ctx, &idea, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &idea, nil
}

func (r *ideaRepository) ListActiveBySubmitter(ctx context.Context, userID uuid.UUID) ([]domain.Idea, error) {
	var ideas []domain.Idea
	query := `SELECT ` + ideaColumns + ` FROM ideas WHERE submitted_by = $1 AND is_active = TRUE`

	err := r.db.SelectContext(ctx, &ideas, query, userID)
	return ideas, err
}

func (r *ideaRepository) UpdateReview(ctx context.Context, idea *domain.Idea) error {
	query := `
		UPDATE ideas
		SET status = :status, reviewed_by = :reviewed_by, reviewed_at = :reviewed_at,
			review_comments = :review_comments, actual_savings = :actual_savings,
			implementation_date = :implementation_date, updated_at = NOW()
		WHERE id = :id`

	res, err := r.db.NamedExecContext(ctx, query, idea)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrIdeaNotFound
	}
	return nil
}

// UpdateOwned applies the editable fields only when the idea is active and
// owned by ownerID; otherwise it returns nil.
func (r *ideaRepository) UpdateOwned(ctx context.Context, id, ownerID uuid.UUID, input domain.UpdateIdeaInput) (*domain.Idea, error) {
	sets := []string{"updated_at = NOW()"}
	args := []interface{}{id, ownerID}
	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if input.Title != nil {
		add("title", *input.Title)
	}
	if input.Problem != nil {
		add("problem", *input.Problem)
	}
	if input.Improvement != nil {
		add("improvement", *input.Improvement)
	}
	if input.Benefit != nil {
		add("benefit", *input.Benefit)
	}
	if input.Department != nil {
		add("department", *input.Department)
	}
	if input.EstimatedSavings != nil {
		add("estimated_savings", *input.EstimatedSavings)
	}
	if input.Tags != nil {
		add("tags", pq.Array(*input.Tags))
	}

	query := `UPDATE ideas SET ` + strings.Join(sets, ", ") + `
		WHERE id = $1 AND submitted_by = $2 AND is_active = TRUE
		RETURNING ` + ideaColumns

	return r.getOne(ctx, query, args...)
}

func (r *ideaRepository) SoftDeleteOwned(ctx context.Context, id, ownerID uuid.UUID) (*domain.Idea, error) {
	query := `
		UPDATE ideas SET is_active = FALSE, updated_at = NOW()
		WHERE id = $1 AND submitted_by = $2 AND is_active = TRUE
		RETURNING ` + ideaColumns

	return r.getOne(ctx, query, id, ownerID)
}

func (r *ideaRepository) getOne(ctx context.Context, query string, args ...interface{}) (*domain.Idea, error) {
	var idea domain.Idea
	err := r.db.QueryRowxContext(ctx, query, args...).StructScan(&idea)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &idea, nil
}

func (r *ideaRepository) List(ctx context.Context, filter domain.IdeaFilter, params domain.PaginationParams) ([]domain.Idea, int64, error) {
	params.Validate()

	where := []string{"is_active = TRUE"}
	var args []interface{}
	add := func(clause string, value interface{}) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if filter.Status != nil {
		add("status = $%d", *filter.Status)
	}
	if filter.Department != nil {
		add("department = $%d", *filter.Department)
	}
	if filter.Benefit != nil {
		add("benefit = $%d", *filter.Benefit)
	}
	if filter.SubmittedBy != nil {
		add("submitted_by = $%d", *filter.SubmittedBy)
	}
	if filter.SubmittedByEmployeeNumber != "" {
		add("submitted_by_employee_number = $%d", filter.SubmittedByEmployeeNumber)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		add("(title ILIKE $%[1]d OR problem ILIKE $%[1]d OR improvement ILIKE $%[1]d)", "%"+escapeLike(s)+"%")
	}

	whereSQL := strings.Join(where, " AND ")

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM ideas WHERE `+whereSQL, args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM ideas WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		ideaColumns, whereSQL, len(args)+1, len(args)+2)

	var ideas []domain.Idea
	err := r.db.SelectContext(ctx, &ideas, query, append(args, params.PageSize, params.Offset())...)
	return ideas, total, err
}

func (r *ideaRepository) Stats(ctx context.Context) (*domain.IdeaStats, error) {
	stats := &domain.IdeaStats{}

	if err := r.db.SelectContext(ctx, &stats.Status, `
		SELECT status, COUNT(*) AS count, COALESCE(SUM(estimated_savings), 0) AS total_savings
		FROM ideas WHERE is_active = TRUE GROUP BY status ORDER BY status`); err != nil {
		return nil, err
	}
	if err := r.db.SelectContext(ctx, &stats.Department, `
		SELECT department, COUNT(*) AS count, COALESCE(SUM(estimated_savings), 0) AS total_savings
		FROM ideas WHERE is_active = TRUE GROUP BY department ORDER BY department`); err != nil {
		return nil, err
	}
	if err := r.db.SelectContext(ctx, &stats.Benefit, `
		SELECT benefit, COUNT(*) AS count
		FROM ideas WHERE is_active = TRUE GROUP BY benefit ORDER BY benefit`); err != nil {
		return nil, err
	}
	return stats, nil
}

// DepartmentLeaderboard aggregates active ideas per department. Credit points
// use the same single-tier values as per-user scoring.
func (r *ideaRepository) DepartmentLeaderboard(ctx context.Context) ([]domain.DepartmentLeaderboardEntry, error) {
	query := `
		SELECT i.department,
			COUNT(*) AS total_ideas,
			COUNT(*) FILTER (WHERE i.status = 'approved') AS approved_ideas,
			COUNT(*) FILTER (WHERE i.status = 'implemented') AS implemented_ideas,
			COALESCE(SUM(i.estimated_savings), 0) AS total_savings,
			(SELECT COUNT(*) FROM users u WHERE u.department = i.department AND u.is_active = TRUE) AS employee_count,
			SUM(CASE i.status WHEN 'implemented' THEN 30 WHEN 'approved' THEN 20 ELSE 10 END) AS total_credit_points
		FROM ideas i
		WHERE i.is_active = TRUE
		GROUP BY i.department
		ORDER BY total_credit_points DESC, i.department`

	var entries []domain.DepartmentLeaderboardEntry
	if err := r.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, err
	}
	return entries, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
