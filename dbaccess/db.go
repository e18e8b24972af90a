package dbaccess

import (
	"github.com/cashupol/pold/database"
	"github.com/cashupol/pold/database/ldb"
)

// leveldbCacheSizeMiB is the size of the leveldb block cache, in mebibytes.
const leveldbCacheSizeMiB = 256

// DatabaseContext represents a context in which all database queries run
type DatabaseContext struct {
	db database.Database
	*noTxContext
}

// New creates a new DatabaseContext with a database in the specified `path`
func New(path string) (*DatabaseContext, error) {
	db, err := ldb.NewLevelDB(path, leveldbCacheSizeMiB)
	if err != nil {
		return nil, err
	}

	databaseContext := &DatabaseContext{db: db}
	databaseContext.noTxContext = &noTxContext{backend: databaseContext}

	return databaseContext, nil
}

// NoTx returns an instance of dbaccess.Context without an attached
// database transaction
func (ctx *DatabaseContext) NoTx() Context {
	return ctx.noTxContext
}

// Compact compacts the database underlying this DatabaseContext. Useful
// after a large amount of data had been deleted from the database, e.g.
// after epochs had been pruned.
func (ctx *DatabaseContext) Compact() error {
	return ctx.db.Compact()
}

// Close closes the DatabaseContext's database, if it's open
func (ctx *DatabaseContext) Close() error {
	return ctx.db.Close()
}
