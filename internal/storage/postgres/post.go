package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"xedule/internal/domain"
)

type PostStore struct {
	db *sqlx.DB
}

func NewPostStore(db *sqlx.DB) *PostStore {
	return &PostStore{db: db}
}

func (s *PostStore) Create(ctx context.Context, post *domain.Post) error {
	if err := post.Validate(); err != nil {
		return err
	}

	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	if post.Status == "" {
		post.Status = domain.PostStatusPending
	}

	query := `
		INSERT INTO posts (id, account_id, content, status, scheduled_time)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	return s.db.QueryRowContext(ctx, query,
		post.ID,
		post.AccountID,
		post.Content,
		post.Status,
		post.ScheduledTime,
	).Scan(&post.CreatedAt)
}

func (s *PostStore) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	var post domain.Post
	query := `
		SELECT id, account_id, content, status, scheduled_time, created_at,
		       published_at, external_id, last_error
		FROM posts
		WHERE id = $1`

	err := s.db.GetContext(ctx, &post, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// ListDue returns pending posts whose scheduled time has passed or was
// never set, oldest first.
func (s *PostStore) ListDue(ctx context.Context, now time.Time) ([]domain.Post, error) {
	query := `
		SELECT id, account_id, content, status, scheduled_time, created_at,
		       published_at, external_id, last_error
		FROM posts
		WHERE status = $1 AND (scheduled_time IS NULL OR scheduled_time <= $2)
		ORDER BY created_at`

	var posts []domain.Post
	err := s.db.SelectContext(ctx, &posts, query, domain.PostStatusPending, now)
	return posts, err
}

func (s *PostStore) ListByAccount(ctx context.Context, accountID string) ([]domain.Post, error) {
	query := `
		SELECT id, account_id, content, status, scheduled_time, created_at,
		       published_at, external_id, last_error
		FROM posts
		WHERE account_id = $1
		ORDER BY created_at DESC`

	var posts []domain.Post
	err := s.db.SelectContext(ctx, &posts, query, accountID)
	return posts, err
}

// MarkPublished records a successful delivery in one atomic write. The
// status guard keeps the pending->published transition one-way.
func (s *PostStore) MarkPublished(ctx context.Context, id, externalID string, publishedAt time.Time) error {
	query := `
		UPDATE posts
		SET status = $2, published_at = $3, external_id = $4, last_error = ''
		WHERE id = $1 AND status = $5`

	res, err := s.db.ExecContext(ctx, query,
		id,
		domain.PostStatusPublished,
		publishedAt,
		externalID,
		domain.PostStatusPending,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

func (s *PostStore) SetLastError(ctx context.Context, id, message string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE posts SET last_error = $2 WHERE id = $1",
		id, message,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

func (s *PostStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM posts WHERE id = $1", id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}
