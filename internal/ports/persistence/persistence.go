package persistence

import "context"

// Querier чтение из БД, его реализуют и пул, и транзакция
type Querier interface {
	Get(ctx context.Context, dest any, query string, args ...any) error
	Select(ctx context.Context, dest any, query string, args ...any) error
}

// Database пул соединений; запись в приложении не нужна, поэтому транзакции только на чтение
type Database interface {
	Querier
	ReadSnapshot(ctx context.Context, fn func(ctx context.Context, q Querier) error) error
	Ping(ctx context.Context) error
}
