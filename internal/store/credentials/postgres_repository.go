package credentials

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

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

func (r *PostgresRepository) GetByChannel(ctx context.Context, channelID int64) (*models.Credential, error) {
	query :=
		`SELECT id, auth_type, identifier,
		        secret_enc, access_token_enc, refresh_token_enc,
		        expires_at, metadata
		 FROM channel_credentials
		 WHERE channel_id = $1
		 `

	var (
		cred     = &models.Credential{ChannelID: channelID}
		authType string
		ident    sql.NullString
		secret   sql.NullString
		access   sql.NullString
		refresh  sql.NullString
		expires  sql.NullTime
		metadata []byte
	)

	err := r.db.QueryRowContext(ctx, query, channelID).Scan(
		&cred.ID, &authType, &ident,
		&secret, &access, &refresh,
		&expires, &metadata,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	cred.AuthType = models.AuthType(authType)
	cred.Identifier = fromNull(ident)
	cred.SecretEnc = fromNull(secret)
	cred.AccessTokenEnc = fromNull(access)
	cred.RefreshTokenEnc = fromNull(refresh)
	if expires.Valid {
		t := expires.Time.UTC()
		cred.ExpiresAt = &t
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &cred.Metadata); err != nil {
			return nil, fmt.Errorf("credential metadata: %w", err)
		}
	}

	return cred, nil
}

// ListAll returns every stored credential. Used by master-secret rotation,
// which must touch each row exactly once.
func (r *PostgresRepository) ListAll(ctx context.Context) ([]models.Credential, error) {
	query :=
		`SELECT id, channel_id, auth_type, identifier,
		        secret_enc, access_token_enc, refresh_token_enc,
		        expires_at, metadata
		 FROM channel_credentials
		 ORDER BY channel_id
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.Credential
	for rows.Next() {
		var (
			cred     models.Credential
			authType string
			ident    sql.NullString
			secret   sql.NullString
			access   sql.NullString
			refresh  sql.NullString
			expires  sql.NullTime
			metadata []byte
		)
		err := rows.Scan(
			&cred.ID, &cred.ChannelID, &authType, &ident,
			&secret, &access, &refresh,
			&expires, &metadata,
		)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		cred.AuthType = models.AuthType(authType)
		cred.Identifier = fromNull(ident)
		cred.SecretEnc = fromNull(secret)
		cred.AccessTokenEnc = fromNull(access)
		cred.RefreshTokenEnc = fromNull(refresh)
		if expires.Valid {
			t := expires.Time.UTC()
			cred.ExpiresAt = &t
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &cred.Metadata); err != nil {
				return nil, fmt.Errorf("credential metadata: %w", err)
			}
		}
		result = append(result, cred)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

// Upsert writes the full credential for a channel, replacing any existing
// one. The channel_id unique constraint makes this the single write path for
// both linking and re-linking a channel.
func (r *PostgresRepository) Upsert(ctx context.Context, cred *models.Credential) (*models.Credential, error) {

	metadata, err := json.Marshal(orEmpty(cred.Metadata))
	if err != nil {
		return nil, fmt.Errorf("credential metadata: %w", err)
	}

	query :=
		`INSERT INTO channel_credentials
		     (channel_id, auth_type, identifier, secret_enc, access_token_enc, refresh_token_enc, expires_at, metadata)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (channel_id) DO UPDATE SET
		     auth_type = EXCLUDED.auth_type,
		     identifier = EXCLUDED.identifier,
		     secret_enc = EXCLUDED.secret_enc,
		     access_token_enc = EXCLUDED.access_token_enc,
		     refresh_token_enc = EXCLUDED.refresh_token_enc,
		     expires_at = EXCLUDED.expires_at,
		     metadata = EXCLUDED.metadata,
		     updated_at = now()
		 RETURNING id
		 `

	err = r.db.QueryRowContext(ctx, query,
		cred.ChannelID, string(cred.AuthType), cred.Identifier,
		cred.SecretEnc, cred.AccessTokenEnc, cred.RefreshTokenEnc,
		cred.ExpiresAt, metadata).Scan(&cred.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return cred, nil
}

// UpdateTokens replaces only the token material, leaving the secret and
// metadata untouched. This is the write path for OAuth refresh rotation.
func (r *PostgresRepository) UpdateTokens(ctx context.Context, channelID int64, accessTokenEnc, refreshTokenEnc *string, expiresAt *time.Time) error {
	query :=
		`UPDATE channel_credentials
		 SET access_token_enc = $2, refresh_token_enc = $3, expires_at = $4, updated_at = now()
		 WHERE channel_id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, channelID, accessTokenEnc, refreshTokenEnc, expiresAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, channelID int64) error {
	query := `DELETE FROM channel_credentials WHERE channel_id = $1`

	res, err := r.db.ExecContext(ctx, query, channelID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func fromNull(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func orEmpty(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
