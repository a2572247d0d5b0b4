package service

import (
	"context"
	"time"

	"xedule/internal/domain"
)

type stepKind int

const (
	stepRetry stepKind = iota
	stepAbandon
)

// step is the decision after one failed attempt: retry after wait, or
// abandon the post until the next run.
type step struct {
	kind stepKind
	wait time.Duration
}

// nextStep is the pure half of the retry state machine. attempt is
// 0-indexed. Retryable failures consume the remaining budget with
// exponential backoff; fatal failures abandon immediately.
func nextStep(attempt, maxAttempts int, base, maxWait time.Duration, err error) step {
	if !domain.IsRetryable(err) {
		return step{kind: stepAbandon}
	}
	if attempt >= maxAttempts-1 {
		return step{kind: stepAbandon}
	}
	return step{kind: stepRetry, wait: backoffFor(base, maxWait, attempt)}
}

// backoffFor doubles the base for each prior attempt: base, 2·base,
// 4·base, ... capped at maxWait.
func backoffFor(base, maxWait time.Duration, attempt int) time.Duration {
	wait := base
	for i := 0; i < attempt; i++ {
		wait *= 2
	}
	if wait > maxWait {
		wait = maxWait
	}
	return wait
}

// publishPost drives the attempt sequence for one post. Every outcome is
// persisted before the next attempt starts, so an observer between
// attempts always sees a consistent snapshot. Returns whether the post
// reached published.
func (s *PublishService) publishPost(ctx context.Context, client PublishClient, post *domain.Post) bool {
	for attempt := 0; attempt < s.config.MaxAttempts; attempt++ {
		externalID, err := client.CreatePost(ctx, post.Content)
		if err == nil {
			return s.markPublished(ctx, post, externalID, attempt)
		}

		if saveErr := s.posts.SetLastError(ctx, post.ID, err.Error()); saveErr != nil {
			s.logger.Error("persist last error", "post_id", post.ID, "error", saveErr)
		}

		next := nextStep(attempt, s.config.MaxAttempts, s.config.BackoffBase, s.config.MaxBackoff, err)
		if next.kind == stepAbandon {
			s.logger.Error("post abandoned",
				"post_id", post.ID,
				"attempts", attempt+1,
				"retryable", domain.IsRetryable(err),
				"error", err,
			)
			return false
		}

		s.logger.Warn("publish attempt failed, retrying",
			"post_id", post.ID,
			"attempt", attempt+1,
			"backoff", next.wait,
			"error", err,
		)

		if err := s.clock.Sleep(ctx, next.wait); err != nil {
			s.logger.Error("run cancelled during backoff", "post_id", post.ID, "error", err)
			return false
		}
	}

	return false
}

func (s *PublishService) markPublished(ctx context.Context, post *domain.Post, externalID string, attempt int) bool {
	now := s.clock.Now()

	if err := s.posts.MarkPublished(ctx, post.ID, externalID, now); err != nil {
		s.logger.Error("persist published post", "post_id", post.ID, "error", err)
		return false
	}

	post.Status = domain.PostStatusPublished
	post.ExternalID = externalID
	post.PublishedAt = &now
	post.LastError = ""

	s.logger.Info("post published",
		"post_id", post.ID,
		"external_id", externalID,
		"attempts", attempt+1,
	)

	if s.events != nil {
		if err := s.events.PostPublished(ctx, post); err != nil {
			s.logger.Error("publish event", "post_id", post.ID, "error", err)
		}
	}

	return true
}
