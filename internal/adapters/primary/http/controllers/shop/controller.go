package shop

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/YusufBro01/ymastar/internal/domain"
	"github.com/YusufBro01/ymastar/internal/ports/service"
)

// Controller публичные ручки мини-приложения без сессии: поиск пользователя и прайс
type Controller struct {
	Directory service.IDirectoryService
	Catalog   *domain.Catalog
	Log       *slog.Logger
}

func New(directory service.IDirectoryService, catalog *domain.Catalog, log *slog.Logger) *Controller {
	return &Controller{
		Directory: directory,
		Catalog:   catalog,
		Log:       log,
	}
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		api.GET("/user/:username", c.findUser)
		api.GET("/catalog", c.catalog)
	}
}

// UserResponse формат, который ждёт мини-приложение: username без @
type UserResponse struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	Username  string `json:"username"`
	Avatar    string `json:"avatar"`
}

func (c *Controller) findUser(ctx *gin.Context) {
	identity, err := c.Directory.Lookup(ctx.Request.Context(), ctx.Param("username"))
	if err != nil {
		if !errors.Is(err, domain.ErrRecipientNotFound) {
			c.Log.Warn("user lookup failed", "username", ctx.Param("username"), "error", err)
		}
		ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	ctx.JSON(http.StatusOK, UserResponse{
		ID:        identity.ID,
		FirstName: identity.DisplayName,
		Username:  domain.NormalizeHandle(identity.Handle),
		Avatar:    identity.AvatarURL,
	})
}

// ProductResponse продукт с пакетами для экранов покупки
type ProductResponse struct {
	domain.ProductRules
	Plans []PlanResponse `json:"plans"`
}

type PlanResponse struct {
	Quantity       int64 `json:"quantity"`
	UnitPriceMinor int64 `json:"unit_price_minor"`
}

func (c *Controller) catalog(ctx *gin.Context) {
	products := lo.Map(c.Catalog.Products(), func(rules domain.ProductRules, _ int) ProductResponse {
		return ProductResponse{
			ProductRules: rules,
			Plans: lo.Map(c.Catalog.Plans(rules.Product), func(p domain.PricePlan, _ int) PlanResponse {
				return PlanResponse{Quantity: p.Quantity, UnitPriceMinor: p.UnitPriceMinor}
			}),
		}
	})

	ctx.JSON(http.StatusOK, gin.H{"products": products})
}
