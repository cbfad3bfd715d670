package connectors

import (
	"context"
	"encoding/json"
	"regexp"
	"time"

	"github.com/creatorpulse/channelvault/internal/models"
)

// ThreadsConnector scrapes the public profile page. The follower count and
// the embedded thread_items state are extracted with markers; a broken or
// redesigned page degrades to an empty post list rather than an error. A
// credential is optional.
type ThreadsConnector struct {
	api *apiClient

	// baseURL overrides the profile host in tests.
	baseURL string
}

func NewThreadsConnector(api *apiClient) *ThreadsConnector {
	return &ThreadsConnector{api: api, baseURL: "https://www.threads.net"}
}

func (c *ThreadsConnector) Platform() string { return "threads" }

var (
	threadsFollowersRe = regexp.MustCompile(`"followers_count":(\d+)`)
	threadsItemsRe     = regexp.MustCompile(`(?s)"thread_items":(\[.*?\])`)
)

type threadsItem struct {
	Post struct {
		Caption struct {
			Text string `json:"text"`
		} `json:"caption"`
		TextPostAppInfo struct {
			ShareInfo struct {
				QuotedPostCaption string `json:"quoted_post_caption"`
			} `json:"share_info"`
		} `json:"text_post_app_info"`
		TakenAt      int64  `json:"taken_at"`
		Pk           string `json:"pk"`
		LikeCount    int64  `json:"like_count"`
		CommentCount int64  `json:"comment_count"`
	} `json:"post"`
}

func (c *ThreadsConnector) Fetch(ctx context.Context, account models.Account, cred *Credential) (*models.Snapshot, error) {
	username := handle(account, cred)

	html, err := c.api.getHTML(ctx, c.baseURL+"/@"+username)
	if err != nil {
		return nil, err
	}

	var followers int64
	if m := threadsFollowersRe.FindStringSubmatch(html); m != nil {
		followers = parseCount(m[1])
	}

	var posts []models.Post
	if m := threadsItemsRe.FindStringSubmatch(html); m != nil {
		var items []threadsItem
		// The embedded state is best-effort: a parse failure just means no
		// recent posts.
		if err := json.Unmarshal([]byte(m[1]), &items); err == nil {
			for _, item := range items {
				if len(posts) == 3 {
					break
				}
				p := item.Post
				title := p.Caption.Text
				if title == "" {
					title = p.TextPostAppInfo.ShareInfo.QuotedPostCaption
				}
				published := p.Pk
				if p.TakenAt > 0 {
					published = time.Unix(p.TakenAt, 0).UTC().Format(time.RFC3339)
				}
				posts = append(posts, models.Post{
					Title:       truncateTitle(title, "Threads Post"),
					PublishedAt: published,
					Impressions: p.LikeCount,
					Likes:       p.LikeCount,
					Comments:    p.CommentCount,
				})
			}
		}
	}

	engagement := 0.0
	if followers > 0 && len(posts) > 0 {
		engagement = engagementRate(posts[0].Likes+posts[0].Comments, followers)
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
