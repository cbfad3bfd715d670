package models

import "time"

// AuthType describes how a channel authenticates against its platform.
type AuthType string

const (
	AuthTypeAPIToken     AuthType = "api_token"
	AuthTypeUserPassword AuthType = "user_password"
	AuthTypeOAuth2       AuthType = "oauth2"
)

// Credential holds the stored authentication material for one channel.
//
// The three *Enc fields only ever contain vault envelopes (ciphertext); they
// are written through vault.Encrypt and read through credentials.Open. A nil
// value means "no secret set".
type Credential struct {
	ID        int64
	ChannelID int64
	AuthType  AuthType

	// Identifier is an optional external id or handle (page id, username).
	Identifier *string

	SecretEnc       *string
	AccessTokenEnc  *string
	RefreshTokenEnc *string

	ExpiresAt *time.Time

	// Metadata carries platform-specific extras such as business_id,
	// page_id, ad_account_id, server, or a manually recorded growth_rate
	// override.
	Metadata map[string]any
}

// HasSecret reports whether an encrypted secret is present without
// decrypting anything.
func (c *Credential) HasSecret() bool { return c != nil && c.SecretEnc != nil }

// HasAccessToken reports whether an encrypted access token is present.
func (c *Credential) HasAccessToken() bool { return c != nil && c.AccessTokenEnc != nil }

// HasRefreshToken reports whether an encrypted refresh token is present.
func (c *Credential) HasRefreshToken() bool { return c != nil && c.RefreshTokenEnc != nil }
