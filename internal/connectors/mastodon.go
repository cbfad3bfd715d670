package connectors

import (
	"context"
	"time"

	"github.com/jaytaylor/html2text"
	"github.com/mattn/go-mastodon"

	"github.com/creatorpulse/channelvault/internal/models"
)

// MastodonConnector reads the authenticated account and its recent statuses
// from any Mastodon-compatible server. It needs an access token plus the
// server base URL in the credential metadata ("server"). Status content is
// HTML; titles are flattened to plain text.
type MastodonConnector struct{}

func NewMastodonConnector() *MastodonConnector { return &MastodonConnector{} }

func (c *MastodonConnector) Platform() string { return "mastodon" }

// mastodonAPI is the slice of the go-mastodon client the connector uses;
// tests substitute a fake through newMastodonClient.
type mastodonAPI interface {
	GetAccountCurrentUser(ctx context.Context) (*mastodon.Account, error)
	GetAccountStatuses(ctx context.Context, id mastodon.ID, pg *mastodon.Pagination) ([]*mastodon.Status, error)
}

var newMastodonClient = func(server, accessToken string) mastodonAPI {
	return mastodon.NewClient(&mastodon.Config{
		Server:      server,
		AccessToken: accessToken,
	})
}

func (c *MastodonConnector) Fetch(ctx context.Context, account models.Account, cred *Credential) (*models.Snapshot, error) {
	if err := requireCredential(c.Platform(), cred, true); err != nil {
		return nil, err
	}
	server := cred.Meta("server")
	if server == "" {
		return nil, Configf("mastodon server url required")
	}

	client := newMastodonClient(server, cred.AccessToken)

	acct, err := client.GetAccountCurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	statuses, err := client.GetAccountStatuses(ctx, acct.ID, &mastodon.Pagination{Limit: 3})
	if err != nil {
		return nil, err
	}

	posts := make([]models.Post, 0, len(statuses))
	for _, status := range statuses {
		if len(posts) == 3 {
			break
		}
		interactions := status.FavouritesCount + status.ReblogsCount + status.RepliesCount
		posts = append(posts, models.Post{
			Title:       truncateTitle(statusTitle(status.Content), "Mastodon Post"),
			PublishedAt: status.CreatedAt.UTC().Format(time.RFC3339),
			Impressions: interactions,
			Likes:       status.FavouritesCount,
			Comments:    status.RepliesCount,
		})
	}

	engagement := 0.0
	if acct.FollowersCount > 0 && len(posts) > 0 {
		engagement = engagementRate(posts[0].Likes+posts[0].Comments, acct.FollowersCount)
	}

	name := acct.Acct
	if acct.DisplayName != "" {
		name = acct.DisplayName
	}

	s := &models.Snapshot{
		Account:        name,
		Followers:      acct.FollowersCount,
		GrowthRate:     cred.GrowthRate(),
		EngagementRate: engagement,
		RecentPosts:    posts,
	}
	s.Normalize(account.AccountName)
	return s, nil
}

// statusTitle flattens the HTML status body into a single line of text.
func statusTitle(content string) string {
	text, err := html2text.FromString(content, html2text.Options{TextOnly: true})
	if err != nil {
		return ""
	}
	return text
}
