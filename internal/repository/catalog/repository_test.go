package catalogRepo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/YusufBro01/ymastar/internal/adapters/secondary/storage/pg"
	"github.com/YusufBro01/ymastar/internal/domain"
	"github.com/YusufBro01/ymastar/internal/pkg/logger"
)

func newTestDB(t *testing.T) *pg.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("yma_star"),
		postgres.WithUsername("yma"),
		postgres.WithPassword("yma"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	cfg := &pg.Config{DSN: dsn}
	conn, err := cfg.NewConnection(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, pg.RunMigrations(ctx, conn, logger.Nop()))
	// повторный прогон ничего не ломает
	require.NoError(t, pg.RunMigrations(ctx, conn, logger.Nop()))

	return pg.NewDB(conn)
}

func TestRepository_Load(t *testing.T) {
	db := newTestDB(t)
	repo := New(db, logger.Nop())

	catalog, err := repo.Load(context.Background())
	require.NoError(t, err)

	want := domain.DefaultCatalog()
	for _, product := range []domain.Product{domain.ProductStars, domain.ProductPremium} {
		gotRules, ok := catalog.Rules(product)
		require.True(t, ok, product)
		wantRules, _ := want.Rules(product)
		assert.Equal(t, wantRules, gotRules)
		assert.Equal(t, want.Plans(product), catalog.Plans(product))
	}

	price, ok := catalog.UnitPrice(domain.ProductPremium, 12)
	require.True(t, ok)
	assert.Equal(t, int64(2_500_000), price)
}

func TestRepository_ListPricePlansOrdered(t *testing.T) {
	db := newTestDB(t)
	repo := New(db, logger.Nop())

	plans, err := repo.ListPricePlans(context.Background(), db)
	require.NoError(t, err)
	require.Len(t, plans, 5)
	assert.Equal(t, domain.ProductPremium, plans[0].Product)
	assert.Equal(t, int64(1), plans[0].Quantity)
	assert.Equal(t, domain.ProductStars, plans[len(plans)-1].Product)
}
