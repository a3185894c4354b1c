package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophcollect/internal/dbx"
	"github.com/dmitrijs2005/gophcollect/internal/server/repositories/collectibles"
	"github.com/dmitrijs2005/gophcollect/internal/server/repositories/collections"
	"github.com/dmitrijs2005/gophcollect/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/gophcollect/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to either the pool or a
// transaction, so services can choose per call.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Collections(db dbx.DBTX) collections.Repository
	Collectibles(db dbx.DBTX) collectibles.Repository
}
