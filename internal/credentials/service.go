// Package credentials mediates between the encrypted credential store and
// the connectors. Stored credentials only ever hold vault envelopes; Open
// turns one into the plaintext working set a connector needs for a single
// fetch, and Seal/SaveTokens go the other way.
package credentials

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/creatorpulse/channelvault/internal/connectors"
	"github.com/creatorpulse/channelvault/internal/logging"
	"github.com/creatorpulse/channelvault/internal/models"
	"github.com/creatorpulse/channelvault/internal/vault"
)

// TokenStore persists refreshed OAuth token material for a channel.
type TokenStore interface {
	UpdateTokens(ctx context.Context, channelID int64, accessTokenEnc, refreshTokenEnc *string, expiresAt *time.Time) error
}

// Service opens and seals channel credentials against a single vault.
type Service struct {
	vault  *vault.Vault
	logger logging.Logger
}

func NewService(v *vault.Vault, logger logging.Logger) *Service {
	return &Service{vault: v, logger: logger}
}

// Open decrypts cred into the plaintext form connectors consume. A nil cred
// yields nil. An undecipherable field is treated as absent: the failure is
// logged once per field and the connector then reports the missing secret as
// a configuration error instead of the whole batch crashing.
func (s *Service) Open(ctx context.Context, cred *models.Credential) *connectors.Credential {
	if cred == nil {
		return nil
	}

	out := &connectors.Credential{
		AuthType: cred.AuthType,
		Metadata: cred.Metadata,
	}
	if cred.Identifier != nil {
		out.Identifier = *cred.Identifier
	}

	out.Secret = s.openField(ctx, cred, "secret", cred.SecretEnc)
	out.AccessToken = s.openField(ctx, cred, "access_token", cred.AccessTokenEnc)
	out.RefreshToken = s.openField(ctx, cred, "refresh_token", cred.RefreshTokenEnc)

	return out
}

func (s *Service) openField(ctx context.Context, cred *models.Credential, field string, enc *string) string {
	plain, err := s.vault.Decrypt(enc)
	if err != nil {
		s.logger.Warn(ctx, "credential field is undecipherable, treating as absent",
			"channel_id", cred.ChannelID, "field", field)
		return ""
	}
	if plain == nil {
		return ""
	}
	return *plain
}

// Seal encrypts the plaintext material in plain into a storable credential
// for channelID. Empty plaintext fields stay nil in the result. The expiry is
// derived from the access token when it carries one.
func (s *Service) Seal(channelID int64, plain *connectors.Credential) (*models.Credential, error) {
	out := &models.Credential{
		ChannelID: channelID,
		AuthType:  plain.AuthType,
		Metadata:  plain.Metadata,
	}
	if plain.Identifier != "" {
		id := plain.Identifier
		out.Identifier = &id
	}

	var err error
	if out.SecretEnc, err = s.sealField(plain.Secret); err != nil {
		return nil, err
	}
	if out.AccessTokenEnc, err = s.sealField(plain.AccessToken); err != nil {
		return nil, err
	}
	if out.RefreshTokenEnc, err = s.sealField(plain.RefreshToken); err != nil {
		return nil, err
	}

	out.ExpiresAt = tokenExpiry(plain.AccessToken)

	return out, nil
}

func (s *Service) sealField(plain string) (*string, error) {
	if plain == "" {
		return nil, nil
	}
	return s.vault.Encrypt(&plain)
}

// SaveTokens encrypts a refreshed token pair and persists it through ts.
// An empty refreshToken clears the stored one.
func (s *Service) SaveTokens(ctx context.Context, ts TokenStore, channelID int64, accessToken, refreshToken string) error {
	accessEnc, err := s.sealField(accessToken)
	if err != nil {
		return err
	}
	refreshEnc, err := s.sealField(refreshToken)
	if err != nil {
		return err
	}

	expiresAt := tokenExpiry(accessToken)

	if err := ts.UpdateTokens(ctx, channelID, accessEnc, refreshEnc, expiresAt); err != nil {
		return err
	}

	s.logger.Info(ctx, "channel tokens rotated", "channel_id", channelID, "has_expiry", expiresAt != nil)
	return nil
}

// tokenExpiry extracts the exp claim from an access token when it happens to
// be a JWT. The signature is deliberately not verified: the token belongs to
// a third-party platform and we only borrow its expiry hint.
func tokenExpiry(accessToken string) *time.Time {
	if accessToken == "" {
		return nil
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	t := exp.Time.UTC()
	return &t
}
