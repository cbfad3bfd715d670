package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/creatorpulse/channelvault/internal/dbx"
	"github.com/creatorpulse/channelvault/internal/models"
	"github.com/creatorpulse/channelvault/internal/vault"
)

// RotateStore is the slice of the credential repository rotation needs.
type RotateStore interface {
	ListAll(ctx context.Context) ([]models.Credential, error)
	Upsert(ctx context.Context, cred *models.Credential) (*models.Credential, error)
}

// RotateMaster re-encrypts every stored credential from oldVault to newVault
// inside one transaction: either every row ends up under the new master
// secret or none does. An envelope the old vault cannot open aborts the
// rotation; silently dropping a secret here would be unrecoverable.
//
// Returns the number of rotated credentials.
func RotateMaster(ctx context.Context, db *sql.DB, store func(dbx.DBTX) RotateStore, oldVault, newVault *vault.Vault) (int, error) {
	rotated := 0

	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		rs := store(tx)

		creds, err := rs.ListAll(ctx)
		if err != nil {
			return err
		}

		for i := range creds {
			cred := &creds[i]
			if err := rotateCredential(cred, oldVault, newVault); err != nil {
				return fmt.Errorf("channel %d: %w", cred.ChannelID, err)
			}
			if _, err := rs.Upsert(ctx, cred); err != nil {
				return err
			}
			rotated++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return rotated, nil
}

func rotateCredential(cred *models.Credential, oldVault, newVault *vault.Vault) error {
	fields := []**string{&cred.SecretEnc, &cred.AccessTokenEnc, &cred.RefreshTokenEnc}
	for _, field := range fields {
		plain, err := oldVault.Decrypt(*field)
		if err != nil {
			if errors.Is(err, vault.ErrDecryptionFailed) {
				return fmt.Errorf("envelope not readable with current master secret: %w", err)
			}
			return err
		}
		sealed, err := newVault.Encrypt(plain)
		if err != nil {
			return err
		}
		*field = sealed
	}
	return nil
}
