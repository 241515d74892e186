package repository

import (
	"context"

	"github.com/YusufBro01/ymastar/internal/domain"
	"github.com/YusufBro01/ymastar/internal/ports/persistence"
)

// ICatalogRepo интерфейс для чтения прайс-листа из БД
type ICatalogRepo interface {
	ListProducts(ctx context.Context, db persistence.Querier) ([]domain.ProductRules, error)
	ListPricePlans(ctx context.Context, db persistence.Querier) ([]domain.PricePlan, error)
	// Load продукты и цены одним согласованным снимком
	Load(ctx context.Context) (*domain.Catalog, error)
}
