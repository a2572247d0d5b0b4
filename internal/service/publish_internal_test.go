package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"xedule/internal/domain"
)

func TestGroupByAccount(t *testing.T) {
	posts := []domain.Post{
		{ID: "p1", AccountID: "a"},
		{ID: "p2", AccountID: "b"},
		{ID: "p3", AccountID: "a"},
		{ID: "p4", AccountID: "c"},
	}

	groups, order := groupByAccount(posts)

	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Len(t, groups["a"], 2)
	assert.Equal(t, "p1", groups["a"][0].ID)
	assert.Equal(t, "p3", groups["a"][1].ID)
	assert.Equal(t, "p2", groups["b"][0].ID)
	assert.Equal(t, "p4", groups["c"][0].ID)
}

func TestGroupByAccount_Empty(t *testing.T) {
	groups, order := groupByAccount(nil)

	assert.Empty(t, groups)
	assert.Empty(t, order)
}
