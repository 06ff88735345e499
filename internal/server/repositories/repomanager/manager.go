// Package repomanager wires repository constructors and database migrations
// together behind a single interface, so services do not depend on a concrete
// database engine.
package repomanager

import (
	"context"
	"database/sql"

	"wormdetector/internal/dbx"
	"wormdetector/internal/server/repositories/predictions"
	"wormdetector/internal/server/repositories/users"
)

// RepositoryManager vends repository implementations bound to a DBTX
// (either *sql.DB or an open transaction) and runs schema migrations.
type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	Predictions(db dbx.DBTX) predictions.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
