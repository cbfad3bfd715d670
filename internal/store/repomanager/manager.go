package repomanager

import (
	"context"
	"database/sql"

	"github.com/creatorpulse/channelvault/internal/dbx"
	"github.com/creatorpulse/channelvault/internal/store/accounts"
	"github.com/creatorpulse/channelvault/internal/store/credentials"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	Credentials(db dbx.DBTX) credentials.Repository
}
