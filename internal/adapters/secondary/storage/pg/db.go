package pg

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/YusufBro01/ymastar/internal/ports/persistence"
)

// DB пул sqlx, реализует persistence.Database
type DB struct {
	Db *sqlx.DB
}

var _ persistence.Database = (*DB)(nil)

func NewDB(db *sqlx.DB) *DB {
	return &DB{Db: db}
}

func (d *DB) Get(ctx context.Context, dest any, query string, args ...any) error {
	return d.Db.GetContext(ctx, dest, query, args...)
}

func (d *DB) Select(ctx context.Context, dest any, query string, args ...any) error {
	return d.Db.SelectContext(ctx, dest, query, args...)
}

func (d *DB) Ping(ctx context.Context) error {
	return d.Db.PingContext(ctx)
}

func (d *DB) Close() error {
	return d.Db.Close()
}
