package synthetic

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creatorpulse/channelvault/internal/models"
)

func TestSnapshot_ShapeComplete(t *testing.T) {
	s := Snapshot("@creator")

	assert.Equal(t, "@creator", s.Account)
	assert.Equal(t, models.SourceMock, s.Source)
	assert.GreaterOrEqual(t, s.Followers, int64(1_000))
	assert.LessOrEqual(t, s.Followers, int64(100_000))
	assert.GreaterOrEqual(t, s.GrowthRate, 0.0)
	assert.LessOrEqual(t, s.GrowthRate, 10.0)
	assert.GreaterOrEqual(t, s.EngagementRate, 0.0)
	assert.LessOrEqual(t, s.EngagementRate, 8.0)
	assert.NotEmpty(t, s.LastPostTitle)

	require.Len(t, s.RecentPosts, 3)
	for _, p := range s.RecentPosts {
		assert.NotEmpty(t, p.Title)
		assert.NotEmpty(t, p.PublishedAt)
		assert.GreaterOrEqual(t, p.Impressions, int64(5_000))
		assert.GreaterOrEqual(t, p.Likes, int64(100))
		assert.GreaterOrEqual(t, p.Comments, int64(10))
	}
}

func TestSnapshot_PostsMostRecentFirst(t *testing.T) {
	s := Snapshot("x")

	require.Len(t, s.RecentPosts, 3)
	prev := time.Time{}
	for i := len(s.RecentPosts) - 1; i >= 0; i-- {
		ts, err := time.Parse(time.RFC3339, s.RecentPosts[i].PublishedAt)
		require.NoError(t, err)
		assert.True(t, ts.After(prev), "posts must be ordered most-recent-first")
		prev = ts
	}
}

func TestSnapshot_LastPostInRecentPast(t *testing.T) {
	s := Snapshot("x")

	ts, err := time.Parse(time.RFC3339, s.LastPostDate)
	require.NoError(t, err)

	age := time.Since(ts)
	assert.GreaterOrEqual(t, age, 2*time.Hour-time.Minute)
	assert.LessOrEqual(t, age, 72*time.Hour+time.Minute)
}
