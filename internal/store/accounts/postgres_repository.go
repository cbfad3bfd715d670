package accounts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/creatorpulse/channelvault/internal/common"
	"github.com/creatorpulse/channelvault/internal/dbx"
	"github.com/creatorpulse/channelvault/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {

	query :=
		`INSERT INTO channel_accounts (owner_id, platform, account_name)
         VALUES ($1, $2, $3)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		account.OwnerID, account.Platform, account.AccountName).Scan(&account.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

// accountRow is the joined shape every read query produces: the account
// columns plus the nullable credential columns from the 1:1 join.
const accountColumns = `
		 a.id, a.owner_id, a.platform, a.account_name,
		 c.id, c.auth_type, c.identifier,
		 c.secret_enc, c.access_token_enc, c.refresh_token_enc,
		 c.expires_at, c.metadata`

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	query :=
		`SELECT` + accountColumns + `
		 FROM channel_accounts a
		 LEFT JOIN channel_credentials c ON c.channel_id = a.id
		 WHERE a.id = $1
		 `

	account, err := scanAccount(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID int64) ([]models.Account, error) {
	query :=
		`SELECT` + accountColumns + `
		 FROM channel_accounts a
		 LEFT JOIN channel_credentials c ON c.channel_id = a.id
		 WHERE a.owner_id = $1
		 ORDER BY a.id
		 `

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM channel_accounts WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*models.Account, error) {
	var (
		account  models.Account
		credID   sql.NullInt64
		authType sql.NullString
		ident    sql.NullString
		secret   sql.NullString
		access   sql.NullString
		refresh  sql.NullString
		expires  sql.NullTime
		metadata []byte
	)

	err := row.Scan(
		&account.ID, &account.OwnerID, &account.Platform, &account.AccountName,
		&credID, &authType, &ident,
		&secret, &access, &refresh,
		&expires, &metadata,
	)
	if err != nil {
		return nil, err
	}

	if credID.Valid {
		cred := &models.Credential{
			ID:        credID.Int64,
			ChannelID: account.ID,
			AuthType:  models.AuthType(authType.String),
		}
		cred.Identifier = nullableString(ident)
		cred.SecretEnc = nullableString(secret)
		cred.AccessTokenEnc = nullableString(access)
		cred.RefreshTokenEnc = nullableString(refresh)
		if expires.Valid {
			t := expires.Time.UTC()
			cred.ExpiresAt = &t
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &cred.Metadata); err != nil {
				return nil, fmt.Errorf("credential metadata: %w", err)
			}
		}
		account.Credential = cred
	}

	return &account, nil
}

func nullableString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
