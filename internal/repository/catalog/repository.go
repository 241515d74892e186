package catalogRepo

import (
	"context"
	"fmt"

	"log/slog"

	"github.com/YusufBro01/ymastar/internal/domain"
	"github.com/YusufBro01/ymastar/internal/ports/persistence"
	ports "github.com/YusufBro01/ymastar/internal/ports/repository"
)

type productColumns struct {
	TableName    string
	Code         string
	Currency     string
	MinQuantity  string
	MaxQuantity  string
	FreeQuantity string
}

type planColumns struct {
	TableName      string
	ProductCode    string
	Quantity       string
	UnitPriceMinor string
}

type Repository struct {
	db       persistence.Database
	Log      *slog.Logger
	products productColumns
	plans    planColumns
}

// New создаёт новый репозиторий прайс-листа
func New(db persistence.Database, log *slog.Logger) ports.ICatalogRepo {
	return &Repository{
		db:  db,
		Log: log,
		products: productColumns{
			TableName:    "products",
			Code:         "code",
			Currency:     "currency",
			MinQuantity:  "min_quantity",
			MaxQuantity:  "max_quantity",
			FreeQuantity: "free_quantity",
		},
		plans: planColumns{
			TableName:      "price_plans",
			ProductCode:    "product_code",
			Quantity:       "quantity",
			UnitPriceMinor: "unit_price_minor",
		},
	}
}

// ListProducts правила всех продуктов
func (r *Repository) ListProducts(ctx context.Context, db persistence.Querier) ([]domain.ProductRules, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s, %s FROM %s ORDER BY %s`,
		r.products.Code,
		r.products.Currency,
		r.products.MinQuantity,
		r.products.MaxQuantity,
		r.products.FreeQuantity,
		r.products.TableName,
		r.products.Code,
	)

	var rules []domain.ProductRules
	if err := db.Select(ctx, &rules, query); err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	return rules, nil
}

// ListPricePlans все строки прайса
func (r *Repository) ListPricePlans(ctx context.Context, db persistence.Querier) ([]domain.PricePlan, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s FROM %s ORDER BY %s, %s`,
		r.plans.ProductCode,
		r.plans.Quantity,
		r.plans.UnitPriceMinor,
		r.plans.TableName,
		r.plans.ProductCode,
		r.plans.Quantity,
	)

	var plans []domain.PricePlan
	if err := db.Select(ctx, &plans, query); err != nil {
		return nil, fmt.Errorf("select price plans: %w", err)
	}
	return plans, nil
}

// Load читает обе таблицы в одной read-only транзакции и собирает каталог
func (r *Repository) Load(ctx context.Context) (*domain.Catalog, error) {
	var (
		rules []domain.ProductRules
		plans []domain.PricePlan
	)

	err := r.db.ReadSnapshot(ctx, func(ctx context.Context, tx persistence.Querier) error {
		var err error
		if rules, err = r.ListProducts(ctx, tx); err != nil {
			return err
		}
		plans, err = r.ListPricePlans(ctx, tx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	catalog, err := domain.NewCatalog(rules, plans)
	if err != nil {
		return nil, fmt.Errorf("build catalog: %w", err)
	}

	r.Log.Info("catalog loaded", "products", len(rules), "plans", len(plans))
	return catalog, nil
}
