package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"xedule/internal/config"
	"xedule/internal/domain"
)

// PublishService runs one publishing cycle: it selects due posts, groups
// them by owning account and delivers each group with its own credentials.
// One account's failure never blocks delivery for another account.
type PublishService struct {
	posts       PostStore
	credentials CredentialStore
	clients     ClientFactory
	events      EventPublisher
	clock       Clock
	logger      *slog.Logger
	config      config.PublishConfig
}

func NewPublishService(
	posts PostStore,
	credentials CredentialStore,
	clients ClientFactory,
	events EventPublisher,
	clock Clock,
	logger *slog.Logger,
	cfg config.PublishConfig,
) *PublishService {
	return &PublishService{
		posts:       posts,
		credentials: credentials,
		clients:     clients,
		events:      events,
		clock:       clock,
		logger:      logger,
		config:      cfg,
	}
}

func (s *PublishService) Run(ctx context.Context) (*domain.PublishStats, error) {
	start := s.clock.Now()

	due, err := s.posts.ListDue(ctx, start)
	if err != nil {
		return nil, fmt.Errorf("list due posts: %w", err)
	}

	stats := &domain.PublishStats{Due: len(due)}
	if len(due) == 0 {
		s.logger.Info("no posts pending")
		return stats, nil
	}

	s.logger.Info("starting publish run", "due", len(due))

	groups, order := groupByAccount(due)
	for _, accountID := range order {
		s.publishGroup(ctx, accountID, groups[accountID], stats)
	}

	stats.Duration = s.clock.Now().Sub(start)

	s.logger.Info("publish run completed",
		"published", stats.Published,
		"failed", stats.Failed,
		"skipped", stats.Skipped,
		"errors", stats.Errors,
		"duration", stats.Duration,
	)

	return stats, nil
}

// groupByAccount partitions posts by owning account in a single pass.
// Relative order within a group is preserved; the returned order slice
// lists accounts by first appearance.
func groupByAccount(posts []domain.Post) (map[string][]domain.Post, []string) {
	groups := make(map[string][]domain.Post)
	var order []string

	for _, p := range posts {
		if _, ok := groups[p.AccountID]; !ok {
			order = append(order, p.AccountID)
		}
		groups[p.AccountID] = append(groups[p.AccountID], p)
	}

	return groups, order
}

func (s *PublishService) publishGroup(ctx context.Context, accountID string, posts []domain.Post, stats *domain.PublishStats) {
	creds, err := s.credentials.Get(ctx, accountID)
	if errors.Is(err, domain.ErrCredentialsNotFound) {
		s.logger.Warn("skipping account without credentials",
			"account_id", accountID,
			"posts", len(posts),
		)

		msg := fmt.Sprintf("no publish credentials on file for account %s", accountID)
		for i := range posts {
			if saveErr := s.posts.SetLastError(ctx, posts[i].ID, msg); saveErr != nil {
				s.logger.Error("persist last error", "post_id", posts[i].ID, "error", saveErr)
			}
		}

		stats.Skipped += len(posts)
		return
	}
	if err != nil {
		s.logger.Error("resolve credentials", "account_id", accountID, "error", err)
		stats.Errors += len(posts)
		return
	}

	client := s.clients.New(*creds)

	for i := range posts {
		if s.publishPost(ctx, client, &posts[i]) {
			stats.Published++
		} else {
			stats.Failed++
		}
	}
}
