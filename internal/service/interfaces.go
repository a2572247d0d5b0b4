package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"xedule/internal/domain"
)

type PostStore interface {
	ListDue(ctx context.Context, now time.Time) ([]domain.Post, error)
	MarkPublished(ctx context.Context, id, externalID string, publishedAt time.Time) error
	SetLastError(ctx context.Context, id, message string) error
}

type CredentialStore interface {
	Get(ctx context.Context, accountID string) (*domain.Credentials, error)
}

// PublishClient attempts one delivery to the external API. A returned error
// is retryable when domain.IsRetryable reports so, fatal otherwise.
type PublishClient interface {
	CreatePost(ctx context.Context, text string) (string, error)
}

// ClientFactory builds a stateless client bound to one account's
// credentials. Construction never performs network activity.
type ClientFactory interface {
	New(creds domain.Credentials) PublishClient
}

// ClientFactoryFunc adapts a plain constructor to ClientFactory.
type ClientFactoryFunc func(creds domain.Credentials) PublishClient

func (f ClientFactoryFunc) New(creds domain.Credentials) PublishClient {
	return f(creds)
}

type EventPublisher interface {
	PostPublished(ctx context.Context, post *domain.Post) error
	Close() error
}

// Clock abstracts time so retry backoff is observable in tests without
// real delays.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}
