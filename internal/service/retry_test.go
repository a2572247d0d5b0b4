package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type transientErr struct{}

func (transientErr) Error() string   { return "transient" }
func (transientErr) Retryable() bool { return true }

func TestNextStep(t *testing.T) {
	base := 2 * time.Second
	maxWait := 30 * time.Second

	tests := []struct {
		name     string
		attempt  int
		err      error
		wantKind stepKind
		wantWait time.Duration
	}{
		{
			name:     "retryable first attempt waits base",
			attempt:  0,
			err:      transientErr{},
			wantKind: stepRetry,
			wantWait: 2 * time.Second,
		},
		{
			name:     "retryable second attempt doubles",
			attempt:  1,
			err:      transientErr{},
			wantKind: stepRetry,
			wantWait: 4 * time.Second,
		},
		{
			name:     "retryable last attempt abandons",
			attempt:  2,
			err:      transientErr{},
			wantKind: stepAbandon,
		},
		{
			name:     "fatal abandons with budget left",
			attempt:  0,
			err:      errors.New("boom"),
			wantKind: stepAbandon,
		},
		{
			name:     "wrapped retryable still retries",
			attempt:  0,
			err:      errors.Join(errors.New("attempt failed"), transientErr{}),
			wantKind: stepRetry,
			wantWait: 2 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := nextStep(tt.attempt, 3, base, maxWait, tt.err)
			assert.Equal(t, tt.wantKind, got.kind)
			if tt.wantKind == stepRetry {
				assert.Equal(t, tt.wantWait, got.wait)
			}
		})
	}
}

func TestBackoffFor_CapsAtMax(t *testing.T) {
	base := 2 * time.Second

	assert.Equal(t, 2*time.Second, backoffFor(base, 30*time.Second, 0))
	assert.Equal(t, 4*time.Second, backoffFor(base, 30*time.Second, 1))
	assert.Equal(t, 16*time.Second, backoffFor(base, 30*time.Second, 3))
	assert.Equal(t, 30*time.Second, backoffFor(base, 30*time.Second, 5))
}
