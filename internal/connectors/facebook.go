package connectors

import (
	"context"
	"net/url"

	"github.com/creatorpulse/channelvault/internal/models"
)

// FacebookConnector reads a Facebook page through the Graph API. The Page
// posts edge exposes no per-post metrics without extra permissions, so
// impressions/likes/comments stay zero and the engagement rate is not
// derived.
type FacebookConnector struct {
	graph *graphClient
}

func NewFacebookConnector(api *apiClient) *FacebookConnector {
	return &FacebookConnector{graph: newGraphClient(api)}
}

func (c *FacebookConnector) Platform() string { return "facebook" }

type fbPage struct {
	Name           string `json:"name"`
	FollowersCount int64  `json:"followers_count"`
	FanCount       int64  `json:"fan_count"`
}

type fbPosts struct {
	Data []struct {
		Message     string `json:"message"`
		CreatedTime string `json:"created_time"`
	} `json:"data"`
}

func (c *FacebookConnector) Fetch(ctx context.Context, account models.Account, cred *Credential) (*models.Snapshot, error) {
	if err := requireCredential(c.Platform(), cred, true); err != nil {
		return nil, err
	}
	pageID := cred.Meta("page_id")
	if pageID == "" {
		pageID = cred.Identifier
	}
	if pageID == "" {
		return nil, Configf("facebook page id required")
	}

	var page fbPage
	err := c.graph.graphGet(ctx, pageID, cred.AccessToken,
		url.Values{"fields": {"name,followers_count,fan_count"}}, &page)
	if err != nil {
		return nil, err
	}

	var posts fbPosts
	err = c.graph.graphGet(ctx, pageID+"/posts", cred.AccessToken,
		url.Values{"fields": {"message,created_time"}, "limit": {"3"}}, &posts)
	if err != nil {
		return nil, err
	}

	followers := page.FollowersCount
	if followers == 0 {
		followers = page.FanCount
	}

	recent := make([]models.Post, 0, len(posts.Data))
	for _, p := range posts.Data {
		recent = append(recent, models.Post{
			Title:       truncateTitle(p.Message, "Facebook Post"),
			PublishedAt: p.CreatedTime,
		})
	}

	s := &models.Snapshot{
		Account:     page.Name,
		Followers:   followers,
		GrowthRate:  cred.GrowthRate(),
		RecentPosts: recent,
	}
	s.Normalize(account.AccountName)
	return s, nil
}
