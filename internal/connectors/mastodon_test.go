package connectors

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mattn/go-mastodon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creatorpulse/channelvault/internal/models"
)

type fakeMastodonAPI struct {
	account  *mastodon.Account
	statuses []*mastodon.Status

	accountErr  error
	statusesErr error

	gotServer string
	gotToken  string
}

func (f *fakeMastodonAPI) GetAccountCurrentUser(ctx context.Context) (*mastodon.Account, error) {
	if f.accountErr != nil {
		return nil, f.accountErr
	}
	return f.account, nil
}

func (f *fakeMastodonAPI) GetAccountStatuses(ctx context.Context, id mastodon.ID, pg *mastodon.Pagination) ([]*mastodon.Status, error) {
	if f.statusesErr != nil {
		return nil, f.statusesErr
	}
	return f.statuses, nil
}

func withFakeMastodon(t *testing.T, fake *fakeMastodonAPI) {
	t.Helper()
	orig := newMastodonClient
	newMastodonClient = func(server, accessToken string) mastodonAPI {
		fake.gotServer = server
		fake.gotToken = accessToken
		return fake
	}
	t.Cleanup(func() { newMastodonClient = orig })
}

func TestMastodonConnector_Fetch(t *testing.T) {
	created := time.Date(2026, 8, 24, 18, 0, 0, 0, time.UTC)
	fake := &fakeMastodonAPI{
		account: &mastodon.Account{
			ID:             "1",
			Acct:           "creator@example.social",
			DisplayName:    "Creator",
			FollowersCount: 4000,
		},
		statuses: []*mastodon.Status{
			{
				Content:         "<p>release <b>day</b></p>",
				CreatedAt:       created,
				FavouritesCount: 150,
				ReblogsCount:    30,
				RepliesCount:    20,
			},
			{
				Content:         "<p>older</p>",
				CreatedAt:       created.Add(-24 * time.Hour),
				FavouritesCount: 5,
			},
		},
	}
	withFakeMastodon(t, fake)

	c := NewMastodonConnector()
	cred := &Credential{
		AccessToken: "tok",
		Metadata:    map[string]any{"server": "https://example.social"},
	}
	s, err := c.Fetch(context.Background(), models.Account{AccountName: "@creator"}, cred)
	require.NoError(t, err)

	assert.Equal(t, "https://example.social", fake.gotServer)
	assert.Equal(t, "tok", fake.gotToken)

	assert.Equal(t, "Creator", s.Account)
	assert.Equal(t, int64(4000), s.Followers)
	require.Len(t, s.RecentPosts, 2)
	assert.Equal(t, "release day", s.RecentPosts[0].Title, "HTML content is flattened to text")
	assert.Equal(t, int64(200), s.RecentPosts[0].Impressions)
	assert.Equal(t, "2026-08-24T18:00:00Z", s.RecentPosts[0].PublishedAt)

	// (150+20)/4000*100
	assert.Equal(t, 4.25, s.EngagementRate)
}

func TestMastodonConnector_MissingPrerequisites(t *testing.T) {
	c := NewMastodonConnector()

	_, err := c.Fetch(context.Background(), models.Account{}, nil)
	assert.True(t, IsConfig(err))

	_, err = c.Fetch(context.Background(), models.Account{}, &Credential{AccessToken: "tok"})
	require.Error(t, err)
	assert.True(t, IsConfig(err))
	assert.Contains(t, err.Error(), "server url")
}

func TestMastodonConnector_UpstreamErrorIsTransient(t *testing.T) {
	fake := &fakeMastodonAPI{accountErr: errors.New("bad gateway")}
	withFakeMastodon(t, fake)

	c := NewMastodonConnector()
	cred := &Credential{AccessToken: "tok", Metadata: map[string]any{"server": "https://s"}}

	_, err := c.Fetch(context.Background(), models.Account{}, cred)
	require.Error(t, err)
	assert.False(t, IsConfig(err))
}
