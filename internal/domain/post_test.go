package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPost_Due(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	tests := []struct {
		name string
		post Post
		want bool
	}{
		{"pending without schedule", Post{Status: PostStatusPending}, true},
		{"pending past due", Post{Status: PostStatusPending, ScheduledTime: &past}, true},
		{"pending scheduled exactly now", Post{Status: PostStatusPending, ScheduledTime: &now}, true},
		{"pending in the future", Post{Status: PostStatusPending, ScheduledTime: &future}, false},
		{"already published", Post{Status: PostStatusPublished, ScheduledTime: &past}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.post.Due(now))
		})
	}
}

func TestPost_Validate(t *testing.T) {
	valid := Post{AccountID: "acct-a", Content: "hello"}
	assert.NoError(t, valid.Validate())

	noAccount := Post{Content: "hello"}
	assert.Error(t, noAccount.Validate())

	blank := Post{AccountID: "acct-a", Content: "   "}
	assert.Error(t, blank.Validate())

	atLimit := Post{AccountID: "acct-a", Content: strings.Repeat("x", MaxContentLength)}
	assert.NoError(t, atLimit.Validate())

	overLimit := Post{AccountID: "acct-a", Content: strings.Repeat("x", MaxContentLength+1)}
	assert.Error(t, overLimit.Validate())
}
