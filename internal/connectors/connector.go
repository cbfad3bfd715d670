// Package connectors implements the per-platform fetchers that turn one
// linked channel plus its credential into a normalized snapshot. The set of
// platforms is closed: each one is a struct implementing Connector,
// registered in the Registry. Response formats are each connector's private
// concern; everything leaving this package is a models.Snapshot or an error.
package connectors

import (
	"context"
	"strings"

	"github.com/creatorpulse/channelvault/internal/models"
)

// Connector fetches live metrics for one platform.
type Connector interface {
	// Platform returns the platform tag this connector serves.
	Platform() string

	// Fetch produces a snapshot for account using the opened credential.
	// cred may be nil when the channel has no stored credential. Errors are
	// either permanent misconfiguration (IsConfig returns true) or
	// transient upstream failures.
	Fetch(ctx context.Context, account models.Account, cred *Credential) (*models.Snapshot, error)
}

// Credential is the plaintext working set a connector operates on. It is
// produced by the credentials service for the duration of one fetch and
// never persisted or logged.
type Credential struct {
	AuthType     models.AuthType
	Identifier   string
	Secret       string
	AccessToken  string
	RefreshToken string
	Metadata     map[string]any
}

// Meta returns the string value stored under key, or "".
func (c *Credential) Meta(key string) string {
	if c == nil || c.Metadata == nil {
		return ""
	}
	if s, ok := c.Metadata[key].(string); ok {
		return s
	}
	return ""
}

// GrowthRate returns the manually recorded growth-rate override from the
// credential metadata, if any. Platforms rarely expose historical growth, so
// the value is operator-maintained.
func (c *Credential) GrowthRate() float64 {
	if c == nil || c.Metadata == nil {
		return 0
	}
	switch v := c.Metadata["growth_rate"].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

// handle picks the account handle a public-profile connector should use:
// the credential identifier when set, the account name otherwise, with any
// leading '@' stripped.
func handle(account models.Account, cred *Credential) string {
	name := account.AccountName
	if cred != nil && cred.Identifier != "" {
		name = cred.Identifier
	}
	return strings.TrimPrefix(name, "@")
}

// truncateTitle bounds post titles the way the dashboard expects.
func truncateTitle(s string, fallback string) string {
	if s == "" {
		s = fallback
	}
	runes := []rune(s)
	if len(runes) > 80 {
		return string(runes[:80])
	}
	return s
}

// engagementRate computes interactions relative to the audience, as a
// percentage rounded to two decimals. Zero followers yields zero.
func engagementRate(interactions, followers int64) float64 {
	if followers <= 0 {
		return 0
	}
	return round2(float64(interactions) / float64(followers) * 100)
}

func round2(f float64) float64 {
	if f < 0 {
		return -round2(-f)
	}
	return float64(int64(f*100+0.5)) / 100
}
