package domain

import (
	"fmt"
	"time"
)

// PublishStats holds the outcome of one publishing run.
type PublishStats struct {
	Due       int
	Published int
	Failed    int
	Skipped   int
	Errors    int
	Duration  time.Duration
}

// Summary renders the one-line operator message for the run.
func (s *PublishStats) Summary() string {
	if s.Due == 0 {
		return "no posts pending"
	}
	return fmt.Sprintf("%d posts published", s.Published)
}
