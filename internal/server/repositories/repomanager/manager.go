package repomanager

import (
	"context"
	"database/sql"

	"github.com/skorolevs/clipvault/internal/dbx"
	"github.com/skorolevs/clipvault/internal/server/repositories/users"
	"github.com/skorolevs/clipvault/internal/server/repositories/videos"
)

// RepositoryManager vends repositories bound to a DBTX, so the same
// repository code runs against *sql.DB or inside a transaction.
type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	Videos(db dbx.DBTX) videos.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
