package accounts

import (
	"context"

	"github.com/creatorpulse/channelvault/internal/models"
)

type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByID(ctx context.Context, id int64) (*models.Account, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]models.Account, error)
	Delete(ctx context.Context, id int64) error
}
