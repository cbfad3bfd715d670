package connectors

import (
	"context"
	"net/url"

	"github.com/creatorpulse/channelvault/internal/models"
)

// TwitterConnector reads public metrics through the Twitter v2 API using an
// app bearer token (stored as access token or secret).
type TwitterConnector struct {
	api *apiClient

	// baseURL overrides the API endpoint in tests.
	baseURL string
}

func NewTwitterConnector(api *apiClient) *TwitterConnector {
	return &TwitterConnector{api: api, baseURL: "https://api.twitter.com/2"}
}

func (c *TwitterConnector) Platform() string { return "twitter" }

type twUser struct {
	Data struct {
		ID            string `json:"id"`
		Name          string `json:"name"`
		PublicMetrics struct {
			FollowersCount int64 `json:"followers_count"`
		} `json:"public_metrics"`
	} `json:"data"`
}

type twTweets struct {
	Data []struct {
		Text          string `json:"text"`
		CreatedAt     string `json:"created_at"`
		PublicMetrics struct {
			ImpressionCount int64 `json:"impression_count"`
			RetweetCount    int64 `json:"retweet_count"`
			ReplyCount      int64 `json:"reply_count"`
			LikeCount       int64 `json:"like_count"`
		} `json:"public_metrics"`
	} `json:"data"`
}

func (c *TwitterConnector) Fetch(ctx context.Context, account models.Account, cred *Credential) (*models.Snapshot, error) {
	if err := requireCredential(c.Platform(), cred, false); err != nil {
		return nil, err
	}
	bearer := cred.AccessToken
	if bearer == "" {
		bearer = cred.Secret
	}
	if bearer == "" {
		return nil, Configf("twitter api bearer token required")
	}

	username := handle(account, cred)
	headers := map[string]string{"Authorization": "Bearer " + bearer}

	var user twUser
	err := c.api.getJSON(ctx, c.baseURL+"/users/by/username/"+username,
		url.Values{"user.fields": {"public_metrics"}}, headers, &user)
	if err != nil {
		return nil, err
	}
	followers := user.Data.PublicMetrics.FollowersCount

	var tweets twTweets
	err = c.api.getJSON(ctx, c.baseURL+"/users/"+user.Data.ID+"/tweets",
		url.Values{
			"max_results":  {"5"},
			"tweet.fields": {"created_at,public_metrics"},
		}, headers, &tweets)
	if err != nil {
		return nil, err
	}

	posts := make([]models.Post, 0, 3)
	for _, tweet := range tweets.Data {
		if len(posts) == 3 {
			break
		}
		m := tweet.PublicMetrics
		impressions := m.ImpressionCount
		if impressions == 0 {
			impressions = m.RetweetCount + m.ReplyCount + m.LikeCount
		}
		posts = append(posts, models.Post{
			Title:       truncateTitle(tweet.Text, "Tweet"),
			PublishedAt: tweet.CreatedAt,
			Impressions: impressions,
			Likes:       m.LikeCount,
			Comments:    m.ReplyCount,
		})
	}

	engagement := 0.0
	if followers > 0 && len(posts) > 0 {
		engagement = engagementRate(posts[0].Likes+posts[0].Comments, followers)
	}

	s := &models.Snapshot{
		Account:        user.Data.Name,
		Followers:      followers,
		GrowthRate:     cred.GrowthRate(),
		EngagementRate: engagement,
		RecentPosts:    posts,
	}
	s.Normalize(username)
	return s, nil
}
