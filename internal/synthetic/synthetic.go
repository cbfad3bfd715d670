// Package synthetic produces placeholder snapshots for channels whose real
// metrics cannot be fetched. Values are randomized within plausible bounds;
// the shape always matches a real snapshot so dashboards can render either
// one without special cases. Every snapshot is tagged SourceMock so it can
// never be mistaken for upstream data.
package synthetic

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/creatorpulse/channelvault/internal/models"
)

const postCount = 3

// Snapshot generates a complete mock snapshot for the given account name.
func Snapshot(accountName string) *models.Snapshot {
	lastPost := time.Now().UTC().Add(-time.Duration(randRange(2, 72)) * time.Hour)

	posts := make([]models.Post, 0, postCount)
	for i := 0; i < postCount; i++ {
		published := lastPost.Add(-time.Duration(i) * 24 * time.Hour)
		posts = append(posts, models.Post{
			Title:       fmt.Sprintf("Campaign highlight #%d", i+1),
			PublishedAt: published.Format(time.RFC3339),
			Impressions: randRange(5_000, 150_000),
			Likes:       randRange(100, 10_000),
			Comments:    randRange(10, 500),
		})
	}

	return &models.Snapshot{
		Account:        accountName,
		Followers:      randRange(1_000, 100_000),
		GrowthRate:     round2(rand.Float64() * 10),
		EngagementRate: round2(rand.Float64() * 8),
		LastPostDate:   lastPost.Format(time.RFC3339),
		LastPostTitle:  fmt.Sprintf("Performance update %s", lastPost.Format("2006-01-02")),
		RecentPosts:    posts,
		Source:         models.SourceMock,
	}
}

// randRange returns a random int64 in [min, max].
func randRange(min, max int64) int64 {
	return min + rand.Int64N(max-min+1)
}

func round2(f float64) float64 {
	return float64(int64(f*100+0.5)) / 100
}
