package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"kaizen-ideas/internal/domain"
)

const notificationColumns = `id, recipient_id, recipient_employee_number, type, title, message,
	related_idea_id, related_user_id, metadata, is_read, read_at, priority, created_at`

type NotificationRepository interface {
	Create(ctx context.Context, notif *domain.Notification) error
	CreateBatch(ctx context.Context, notifs []*domain.Notification) error
	ListByRecipient(ctx context.Context, recipientID uuid.UUID, isRead *bool, params domain.PaginationParams) ([]domain.Notification, int64, error)
	MarkAsRead(ctx context.Context, id, recipientID uuid.UUID) (*domain.Notification, error)
	MarkAllAsRead(ctx context.Context, recipientID uuid.UUID) (int64, error)
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error)
}

type notificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

const insertNotification = `
	INSERT INTO notifications (id, recipient_id, recipient_employee_number, type, title, message,
		related_idea_id, related_user_id, metadata, priority)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, COALESCE($9::jsonb, '{}'::jsonb), $10)
	RETURNING created_at`

type queryRower interface {
	QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
}

func insertOne(ctx context.Context, q queryRower, notif *domain.Notification) error {
	var metadata interface{}
	if len(notif.Metadata) > 0 {
		metadata = []byte(notif.Metadata)
	}
	return q.QueryRowxContext(ctx, insertNotification,
		notif.ID, notif.RecipientID, notif.RecipientEmployeeNumber, notif.Type, notif.Title, notif.Message,
		notif.RelatedIdeaID, notif.RelatedUserID, metadata, notif.Priority,
	).Scan(&notif.CreatedAt)
}

func (r *notificationRepository) Create(ctx context.Context, notif *domain.Notification) error {
	return insertOne(ctx, r.db, notif)
}

// CreateBatch inserts all notifications in one transaction: either every
// row is stored or none is.
func (r *notificationRepository) CreateBatch(ctx context.Context, notifs []*domain.Notification) error {
	if len(notifs) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, n := range notifs {
		if err := insertOne(ctx, tx, n); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID uuid.UUID, isRead *bool, params domain.PaginationParams) ([]domain.Notification, int64, error) {
	params.Validate()

	where := `recipient_id = $1`
	args := []interface{}{recipientID}
	if isRead != nil {
		where += ` AND is_read = $2`
		args = append(args, *isRead)
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM notifications WHERE `+where, args...); err != nil {
		return nil, 0, err
	}

	var query string
	if isRead != nil {
		query = `SELECT ` + notificationColumns + ` FROM notifications WHERE ` + where + ` ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	} else {
		query = `SELECT ` + notificationColumns + ` FROM notifications WHERE ` + where + ` ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	}

	var notifications []domain.Notification
	err := r.db.SelectContext(ctx, &notifications, query, append(args, params.PageSize, params.Offset())...)
	return notifications, total, err
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id, recipientID uuid.UUID) (*domain.Notification, error) {
	query := `
		UPDATE notifications SET is_read = TRUE, read_at = COALESCE(read_at, NOW())
		WHERE id = $1 AND recipient_id = $2
		RETURNING ` + notificationColumns

	var notif domain.Notification
	err := r.db.QueryRowxContext(ctx, query, id, recipientID).StructScan(&notif)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &notif, nil
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE, read_at = NOW() WHERE recipient_id = $1 AND is_read = FALSE`, recipientID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *notificationRepository) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND is_read = FALSE`, recipientID)
	return count, err
}
