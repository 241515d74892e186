package pg

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/YusufBro01/ymastar/internal/ports/persistence"
)

// snapshot read-only транзакция, все запросы видят один и тот же снимок
type snapshot struct {
	tx *sqlx.Tx
}

var _ persistence.Querier = (*snapshot)(nil)

func (s *snapshot) Get(ctx context.Context, dest any, query string, args ...any) error {
	return s.tx.GetContext(ctx, dest, query, args...)
}

func (s *snapshot) Select(ctx context.Context, dest any, query string, args ...any) error {
	return s.tx.SelectContext(ctx, dest, query, args...)
}

// ReadSnapshot выполняет fn в транзакции REPEATABLE READ READ ONLY
func (d *DB) ReadSnapshot(ctx context.Context, fn func(context.Context, persistence.Querier) error) error {
	tx, err := d.Db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return fmt.Errorf("begin read snapshot: %w", err)
	}

	if err := fn(ctx, &snapshot{tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit read snapshot: %w", err)
	}
	return nil
}
