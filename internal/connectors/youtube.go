package connectors

import (
	"context"
	"fmt"
	"net/url"

	"github.com/creatorpulse/channelvault/internal/models"
)

// YouTubeConnector reads channel statistics through the YouTube Data API.
// It accepts either an API key (stored as the credential secret) or an OAuth
// access token; the identifier is tried first as a legacy username, then as
// a channel id.
type YouTubeConnector struct {
	api *apiClient

	// baseURL overrides the API endpoint in tests.
	baseURL string
}

func NewYouTubeConnector(api *apiClient) *YouTubeConnector {
	return &YouTubeConnector{api: api, baseURL: "https://www.googleapis.com/youtube/v3"}
}

func (c *YouTubeConnector) Platform() string { return "youtube" }

type ytChannels struct {
	Items []struct {
		Statistics struct {
			SubscriberCount string `json:"subscriberCount"`
			ViewCount       string `json:"viewCount"`
			LikeCount       string `json:"likeCount"`
			CommentCount    string `json:"commentCount"`
		} `json:"statistics"`
		Snippet struct {
			Title            string `json:"title"`
			RelatedPlaylists struct {
				Uploads string `json:"uploads"`
			} `json:"relatedPlaylists"`
		} `json:"snippet"`
	} `json:"items"`
}

type ytPlaylistItems struct {
	Items []struct {
		Snippet struct {
			Title       string `json:"title"`
			PublishedAt string `json:"publishedAt"`
		} `json:"snippet"`
	} `json:"items"`
}

func (c *YouTubeConnector) Fetch(ctx context.Context, account models.Account, cred *Credential) (*models.Snapshot, error) {
	if err := requireCredential(c.Platform(), cred, false); err != nil {
		return nil, err
	}
	apiKey := cred.AccessToken
	if apiKey == "" {
		apiKey = cred.Secret
	}
	if apiKey == "" {
		return nil, Configf("youtube api key or oauth token required")
	}

	identifier := handle(account, cred)

	var channels ytChannels
	err := c.api.getJSON(ctx, c.baseURL+"/channels",
		url.Values{
			"part":        {"statistics,snippet"},
			"forUsername": {identifier},
			"key":         {apiKey},
		}, nil, &channels)
	if err != nil {
		return nil, err
	}

	// Legacy usernames rarely resolve these days; retry as a channel id.
	if len(channels.Items) == 0 {
		err = c.api.getJSON(ctx, c.baseURL+"/channels",
			url.Values{
				"part": {"statistics,snippet"},
				"id":   {identifier},
				"key":  {apiKey},
			}, nil, &channels)
		if err != nil {
			return nil, err
		}
	}
	if len(channels.Items) == 0 {
		return nil, fmt.Errorf("youtube channel %q not found", identifier)
	}

	channel := channels.Items[0]
	followers := parseCount(channel.Statistics.SubscriberCount)
	views := parseCount(channel.Statistics.ViewCount)

	var posts []models.Post
	if uploads := channel.Snippet.RelatedPlaylists.Uploads; uploads != "" {
		var playlist ytPlaylistItems
		err = c.api.getJSON(ctx, c.baseURL+"/playlistItems",
			url.Values{
				"part":       {"snippet,contentDetails"},
				"maxResults": {"3"},
				"playlistId": {uploads},
				"key":        {apiKey},
			}, nil, &playlist)
		if err != nil {
			return nil, err
		}
		for _, item := range playlist.Items {
			posts = append(posts, models.Post{
				Title:       truncateTitle(item.Snippet.Title, "YouTube Video"),
				PublishedAt: item.Snippet.PublishedAt,
				Impressions: views,
				Likes:       parseCount(channel.Statistics.LikeCount),
				Comments:    parseCount(channel.Statistics.CommentCount),
			})
		}
	}

	engagement := 0.0
	if followers > 0 && views > 0 {
		engagement = round2(float64(views) / float64(followers) * 100)
	}

	s := &models.Snapshot{
		Account:        channel.Snippet.Title,
		Followers:      followers,
		GrowthRate:     cred.GrowthRate(),
		EngagementRate: engagement,
		RecentPosts:    posts,
	}
	s.Normalize(identifier)
	return s, nil
}
