package credentials

import (
	"context"
	"time"

	"github.com/creatorpulse/channelvault/internal/models"
)

type Repository interface {
	GetByChannel(ctx context.Context, channelID int64) (*models.Credential, error)
	ListAll(ctx context.Context) ([]models.Credential, error)
	Upsert(ctx context.Context, cred *models.Credential) (*models.Credential, error)
	UpdateTokens(ctx context.Context, channelID int64, accessTokenEnc, refreshTokenEnc *string, expiresAt *time.Time) error
	Delete(ctx context.Context, channelID int64) error
}
