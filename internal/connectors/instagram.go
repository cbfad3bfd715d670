package connectors

import (
	"context"
	"net/url"

	"github.com/creatorpulse/channelvault/internal/models"
)

// InstagramConnector reads an Instagram Business account through the Graph
// API: profile (username, follower count) plus the three most recent media
// items.
type InstagramConnector struct {
	graph *graphClient
}

func NewInstagramConnector(api *apiClient) *InstagramConnector {
	return &InstagramConnector{graph: newGraphClient(api)}
}

func (c *InstagramConnector) Platform() string { return "instagram" }

type igProfile struct {
	Username       string `json:"username"`
	FollowersCount int64  `json:"followers_count"`
}

type igMedia struct {
	Data []struct {
		Caption       string `json:"caption"`
		LikeCount     int64  `json:"like_count"`
		CommentsCount int64  `json:"comments_count"`
		Timestamp     string `json:"timestamp"`
	} `json:"data"`
}

func (c *InstagramConnector) Fetch(ctx context.Context, account models.Account, cred *Credential) (*models.Snapshot, error) {
	if err := requireCredential(c.Platform(), cred, true); err != nil {
		return nil, err
	}
	businessID := cred.Meta("business_id")
	if businessID == "" {
		businessID = cred.Identifier
	}
	if businessID == "" {
		return nil, Configf("instagram business id required")
	}

	var profile igProfile
	err := c.graph.graphGet(ctx, businessID, cred.AccessToken,
		url.Values{"fields": {"username,followers_count"}}, &profile)
	if err != nil {
		return nil, err
	}

	var media igMedia
	err = c.graph.graphGet(ctx, businessID+"/media", cred.AccessToken,
		url.Values{
			"fields": {"id,caption,like_count,comments_count,timestamp"},
			"limit":  {"3"},
		}, &media)
	if err != nil {
		return nil, err
	}

	posts := make([]models.Post, 0, len(media.Data))
	for _, item := range media.Data {
		posts = append(posts, models.Post{
			Title:       truncateTitle(item.Caption, "Instagram Post"),
			PublishedAt: item.Timestamp,
			Impressions: item.LikeCount + item.CommentsCount,
			Likes:       item.LikeCount,
			Comments:    item.CommentsCount,
		})
	}

	engagement := 0.0
	if profile.FollowersCount > 0 && len(posts) > 0 {
		engagement = engagementRate(posts[0].Likes+posts[0].Comments, profile.FollowersCount)
	}

	s := &models.Snapshot{
		Account:        profile.Username,
		Followers:      profile.FollowersCount,
		GrowthRate:     cred.GrowthRate(),
		EngagementRate: engagement,
		RecentPosts:    posts,
	}
	s.Normalize(account.AccountName)
	return s, nil
}
