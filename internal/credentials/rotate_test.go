package credentials

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creatorpulse/channelvault/internal/dbx"
	"github.com/creatorpulse/channelvault/internal/models"
	"github.com/creatorpulse/channelvault/internal/vault"
)

type fakeRotateStore struct {
	creds    []models.Credential
	listErr  error
	upserted []*models.Credential
}

func (f *fakeRotateStore) ListAll(ctx context.Context) ([]models.Credential, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.creds, nil
}

func (f *fakeRotateStore) Upsert(ctx context.Context, cred *models.Credential) (*models.Credential, error) {
	f.upserted = append(f.upserted, cred)
	return cred, nil
}

func newRotationDB(t *testing.T, commits bool) *sql.DB {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectBegin()
	if commits {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
	return db
}

func sealed(t *testing.T, v *vault.Vault, plain string) *string {
	t.Helper()
	env, err := v.EncryptString(plain)
	require.NoError(t, err)
	return &env
}

func TestRotateMaster(t *testing.T) {
	oldVault, err := vault.New("old-master")
	require.NoError(t, err)
	newVault, err := vault.New("new-master")
	require.NoError(t, err)

	store := &fakeRotateStore{creds: []models.Credential{
		{ChannelID: 1, SecretEnc: sealed(t, oldVault, "secret-1")},
		{ChannelID: 2, AccessTokenEnc: sealed(t, oldVault, "token-2"), RefreshTokenEnc: sealed(t, oldVault, "refresh-2")},
		{ChannelID: 3},
	}}

	db := newRotationDB(t, true)
	n, err := RotateMaster(context.Background(), db, func(dbx.DBTX) RotateStore { return store }, oldVault, newVault)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	require.Len(t, store.upserted, 3)

	got, err := newVault.DecryptString(*store.upserted[0].SecretEnc)
	require.NoError(t, err)
	assert.Equal(t, "secret-1", got)

	got, err = newVault.DecryptString(*store.upserted[1].RefreshTokenEnc)
	require.NoError(t, err)
	assert.Equal(t, "refresh-2", got)

	_, err = oldVault.DecryptString(*store.upserted[0].SecretEnc)
	assert.ErrorIs(t, err, vault.ErrDecryptionFailed)

	assert.Nil(t, store.upserted[2].SecretEnc, "empty fields stay empty")
}

func TestRotateMaster_AbortsOnUnreadableEnvelope(t *testing.T) {
	oldVault, err := vault.New("old-master")
	require.NoError(t, err)
	newVault, err := vault.New("new-master")
	require.NoError(t, err)
	otherVault, err := vault.New("some-third-master")
	require.NoError(t, err)

	store := &fakeRotateStore{creds: []models.Credential{
		{ChannelID: 1, SecretEnc: sealed(t, otherVault, "stray")},
	}}

	db := newRotationDB(t, false)
	_, err = RotateMaster(context.Background(), db, func(dbx.DBTX) RotateStore { return store }, oldVault, newVault)
	require.Error(t, err)
	assert.ErrorIs(t, err, vault.ErrDecryptionFailed)
	assert.Contains(t, err.Error(), "channel 1")
}

func TestRotateMaster_ListError(t *testing.T) {
	oldVault, err := vault.New("a")
	require.NoError(t, err)
	newVault, err := vault.New("b")
	require.NoError(t, err)

	store := &fakeRotateStore{listErr: errors.New("db down")}

	db := newRotationDB(t, false)
	_, err = RotateMaster(context.Background(), db, func(dbx.DBTX) RotateStore { return store }, oldVault, newVault)
	assert.EqualError(t, err, "db down")
}
