package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// MaxContentLength is the publish API's hard limit on post length.
const MaxContentLength = 280

type PostStatus string

const (
	PostStatusPending   PostStatus = "pending"
	PostStatusPublished PostStatus = "published"
)

// Post is a scheduled social-media post. A post with no ScheduledTime is
// eligible for publishing immediately.
type Post struct {
	ID            string     `db:"id"`
	AccountID     string     `db:"account_id"`
	Content       string     `db:"content"`
	Status        PostStatus `db:"status"`
	ScheduledTime *time.Time `db:"scheduled_time"`
	CreatedAt     time.Time  `db:"created_at"`
	PublishedAt   *time.Time `db:"published_at"`
	ExternalID    string     `db:"external_id"`
	LastError     string     `db:"last_error"`
}

// Due reports whether the post should be picked up for publishing at now.
func (p *Post) Due(now time.Time) bool {
	if p.Status != PostStatusPending {
		return false
	}
	return p.ScheduledTime == nil || !p.ScheduledTime.After(now)
}

// Validate checks the constraints enforced at creation time.
func (p *Post) Validate() error {
	if p.AccountID == "" {
		return errors.New("post has no account")
	}
	if strings.TrimSpace(p.Content) == "" {
		return errors.New("post content is empty")
	}
	if len([]rune(p.Content)) > MaxContentLength {
		return fmt.Errorf("post content exceeds %d characters", MaxContentLength)
	}
	return nil
}

// Credentials holds one account's publish API secrets. Read-only to the
// publishing core; managed elsewhere.
type Credentials struct {
	AccountID      string
	ConsumerKey    string
	ConsumerSecret string
	AccessToken    string
	AccessSecret   string
}
