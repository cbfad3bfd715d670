package credentials

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/creatorpulse/channelvault/internal/common"
	"github.com/creatorpulse/channelvault/internal/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock, db
}

var credColumns = []string{
	"id", "auth_type", "identifier",
	"secret_enc", "access_token_enc", "refresh_token_enc",
	"expires_at", "metadata",
}

func TestGetByChannel_Found(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	rows := sqlmock.NewRows(credColumns).AddRow(
		int64(100), "api_token", "@creator",
		"env-secret", nil, nil,
		nil, []byte(`{"growth_rate":1.5}`),
	)
	mock.ExpectQuery(`SELECT .* FROM channel_credentials\s+WHERE channel_id`).
		WithArgs(int64(10)).
		WillReturnRows(rows)

	got, err := repo.GetByChannel(context.Background(), 10)
	if err != nil {
		t.Fatalf("GetByChannel error: %v", err)
	}
	if got.ID != 100 || got.ChannelID != 10 || got.AuthType != models.AuthTypeAPIToken {
		t.Fatalf("unexpected credential: %+v", got)
	}
	if !got.HasSecret() || got.HasAccessToken() {
		t.Fatalf("unexpected secret material: %+v", got)
	}
	if got.Metadata["growth_rate"] != 1.5 {
		t.Fatalf("unexpected metadata: %v", got.Metadata)
	}
}

func TestGetByChannel_NotFound(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT .* FROM channel_credentials`).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows(credColumns))

	_, err := repo.GetByChannel(context.Background(), 404)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestUpsert_InsertsAndReturnsID(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	secret := "env-secret"
	ident := "@creator"
	mock.ExpectQuery(`INSERT INTO channel_credentials .* ON CONFLICT \(channel_id\) DO UPDATE`).
		WithArgs(int64(10), "api_token", ident, secret, nil, nil, nil, []byte(`{"server":"https://x"}`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(100)))

	cred := &models.Credential{
		ChannelID:  10,
		AuthType:   models.AuthTypeAPIToken,
		Identifier: &ident,
		SecretEnc:  &secret,
		Metadata:   map[string]any{"server": "https://x"},
	}
	got, err := repo.Upsert(context.Background(), cred)
	if err != nil {
		t.Fatalf("Upsert error: %v", err)
	}
	if got.ID != 100 {
		t.Fatalf("unexpected credential: %+v", got)
	}
}

func TestUpsert_NilMetadataBecomesEmptyObject(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(`INSERT INTO channel_credentials`).
		WithArgs(int64(10), "oauth2", nil, nil, nil, nil, nil, []byte(`{}`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(101)))

	_, err := repo.Upsert(context.Background(), &models.Credential{
		ChannelID: 10,
		AuthType:  models.AuthTypeOAuth2,
	})
	if err != nil {
		t.Fatalf("Upsert error: %v", err)
	}
}

func TestUpdateTokens_Success(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	access := "env-access"
	expires := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectExec(`UPDATE channel_credentials\s+SET access_token_enc`).
		WithArgs(int64(10), access, nil, expires).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateTokens(context.Background(), 10, &access, nil, &expires); err != nil {
		t.Fatalf("UpdateTokens error: %v", err)
	}
}

func TestUpdateTokens_NoCredential(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectExec(`UPDATE channel_credentials`).
		WithArgs(int64(404), nil, nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateTokens(context.Background(), 404, nil, nil, nil)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectExec(`DELETE FROM channel_credentials`).
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 404)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}
