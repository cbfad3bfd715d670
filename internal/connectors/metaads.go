package connectors

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/creatorpulse/channelvault/internal/models"
)

// MetaAdsConnector reads the last-7-days insights of a Meta ad account. Ad
// accounts have no audience or posts, so the snapshot reinterprets the
// fields: followers carries impressions, engagement is the click-through
// rate, and the single recent "post" summarizes the 7-day spend.
type MetaAdsConnector struct {
	graph *graphClient
}

func NewMetaAdsConnector(api *apiClient) *MetaAdsConnector {
	return &MetaAdsConnector{graph: newGraphClient(api)}
}

func (c *MetaAdsConnector) Platform() string { return "meta_ads" }

type adsInsights struct {
	Data []struct {
		Spend       string `json:"spend"`
		Impressions string `json:"impressions"`
		Clicks      string `json:"clicks"`
	} `json:"data"`
}

func (c *MetaAdsConnector) Fetch(ctx context.Context, account models.Account, cred *Credential) (*models.Snapshot, error) {
	if err := requireCredential(c.Platform(), cred, true); err != nil {
		return nil, err
	}
	adAccountID := cred.Meta("ad_account_id")
	if adAccountID == "" {
		adAccountID = cred.Identifier
	}
	if adAccountID == "" {
		return nil, Configf("meta ads account id required")
	}

	var insights adsInsights
	err := c.graph.graphGet(ctx, "act_"+adAccountID+"/insights", cred.AccessToken,
		url.Values{
			"fields":      {"spend,impressions,clicks"},
			"date_preset": {"last_7d"},
		}, &insights)
	if err != nil {
		return nil, err
	}

	var spend float64
	var impressions, clicks int64
	if len(insights.Data) > 0 {
		summary := insights.Data[0]
		spend, _ = strconv.ParseFloat(summary.Spend, 64)
		impressions = parseCount(summary.Impressions)
		clicks = parseCount(summary.Clicks)
	}

	engagement := 0.0
	if impressions > 0 {
		engagement = round2(float64(clicks) / float64(impressions) * 100)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	s := &models.Snapshot{
		Account:        adAccountID,
		Followers:      impressions,
		GrowthRate:     cred.GrowthRate(),
		EngagementRate: engagement,
		LastPostDate:   now,
		LastPostTitle:  "Last 7 days ad insights",
		RecentPosts: []models.Post{{
			Title:       "7-day ad performance",
			PublishedAt: now,
			Impressions: impressions,
			Likes:       clicks,
			Spend:       spend,
		}},
	}
	s.Normalize(account.AccountName)
	return s, nil
}

// parseCount converts the string-encoded integers the Graph and YouTube
// APIs return. Unparsable input counts as zero.
func parseCount(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}
