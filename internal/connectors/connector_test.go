package connectors

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/creatorpulse/channelvault/internal/models"
)

func TestRequireCredential(t *testing.T) {
	err := requireCredential("instagram", nil, false)
	assert.True(t, IsConfig(err))
	assert.Contains(t, err.Error(), "instagram")

	err = requireCredential("instagram", &Credential{}, true)
	assert.True(t, IsConfig(err))
	assert.Contains(t, err.Error(), "access token")

	assert.NoError(t, requireCredential("instagram", &Credential{AccessToken: "tok"}, true))
	assert.NoError(t, requireCredential("instagram", &Credential{}, false))
}

func TestIsConfig(t *testing.T) {
	assert.True(t, IsConfig(Configf("missing %s", "token")))
	assert.False(t, IsConfig(assert.AnError))
	assert.False(t, IsConfig(nil))
}

func TestCredential_Meta(t *testing.T) {
	var nilCred *Credential
	assert.Equal(t, "", nilCred.Meta("business_id"))

	cred := &Credential{Metadata: map[string]any{"business_id": "123", "n": 5}}
	assert.Equal(t, "123", cred.Meta("business_id"))
	assert.Equal(t, "", cred.Meta("n"), "non-string values are ignored")
	assert.Equal(t, "", cred.Meta("missing"))
}

func TestCredential_GrowthRate(t *testing.T) {
	var nilCred *Credential
	assert.Equal(t, 0.0, nilCred.GrowthRate())

	assert.Equal(t, 2.5, (&Credential{Metadata: map[string]any{"growth_rate": 2.5}}).GrowthRate())
	assert.Equal(t, 3.0, (&Credential{Metadata: map[string]any{"growth_rate": 3}}).GrowthRate())
	assert.Equal(t, 0.0, (&Credential{Metadata: map[string]any{"growth_rate": "oops"}}).GrowthRate())
}

func TestHandle(t *testing.T) {
	acct := models.Account{AccountName: "@creator"}

	assert.Equal(t, "creator", handle(acct, nil))
	assert.Equal(t, "other", handle(acct, &Credential{Identifier: "@other"}))
	assert.Equal(t, "plain", handle(models.Account{AccountName: "plain"}, &Credential{}))
}

func TestTruncateTitle(t *testing.T) {
	assert.Equal(t, "fallback", truncateTitle("", "fallback"))
	assert.Equal(t, "short", truncateTitle("short", "x"))

	long := strings.Repeat("한", 100)
	got := truncateTitle(long, "x")
	assert.Equal(t, 80, len([]rune(got)), "truncation is by runes, not bytes")
}

func TestEngagementRate(t *testing.T) {
	assert.Equal(t, 0.0, engagementRate(100, 0))
	assert.Equal(t, 5.0, engagementRate(50, 1000))
	assert.Equal(t, 3.33, engagementRate(1, 30))
}
