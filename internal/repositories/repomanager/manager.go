package repomanager

import (
	"context"
	"database/sql"

	"github.com/karlov/authgate/internal/dbx"
	"github.com/karlov/authgate/internal/repositories/refreshtokens"
	"github.com/karlov/authgate/internal/repositories/resettokens"
	"github.com/karlov/authgate/internal/repositories/users"
	"github.com/karlov/authgate/internal/repositories/verificationtokens"
)

// RepositoryManager vends repositories bound to a DBTX, so the same
// repository code runs against *sql.DB or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	VerificationTokens(db dbx.DBTX) verificationtokens.Repository
	ResetTokens(db dbx.DBTX) resettokens.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}
