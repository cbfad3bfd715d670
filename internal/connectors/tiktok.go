package connectors

import (
	"context"
	"regexp"

	"github.com/creatorpulse/channelvault/internal/models"
)

// TikTokConnector scrapes the public profile page. TikTok exposes no stable
// metrics API for ordinary accounts, so follower and like counts are pulled
// out of the embedded page state with markers. A credential is optional; the
// identifier only overrides which handle is scraped.
type TikTokConnector struct {
	api *apiClient

	// baseURL overrides the profile host in tests.
	baseURL string
}

func NewTikTokConnector(api *apiClient) *TikTokConnector {
	return &TikTokConnector{api: api, baseURL: "https://www.tiktok.com"}
}

func (c *TikTokConnector) Platform() string { return "tiktok" }

var (
	tiktokFollowersRe = regexp.MustCompile(`"followerCount":(\d+)`)
	tiktokLikesRe     = regexp.MustCompile(`"diggCount":(\d+)`)
)

func (c *TikTokConnector) Fetch(ctx context.Context, account models.Account, cred *Credential) (*models.Snapshot, error) {
	username := handle(account, cred)

	html, err := c.api.getHTML(ctx, c.baseURL+"/@"+username)
	if err != nil {
		return nil, err
	}

	var followers int64
	if m := tiktokFollowersRe.FindStringSubmatch(html); m != nil {
		followers = parseCount(m[1])
	}

	var posts []models.Post
	for _, m := range tiktokLikesRe.FindAllStringSubmatch(html, 3) {
		likes := parseCount(m[1])
		posts = append(posts, models.Post{
			Title:       "TikTok Video",
			Impressions: likes,
			Likes:       likes,
		})
	}

	engagement := 0.0
	if followers > 0 && len(posts) > 0 {
		engagement = engagementRate(posts[0].Likes, followers)
	}

	s := &models.Snapshot{
		Account:        username,
		Followers:      followers,
		GrowthRate:     cred.GrowthRate(),
		EngagementRate: engagement,
		RecentPosts:    posts,
	}
	s.Normalize(username)
	return s, nil
}
