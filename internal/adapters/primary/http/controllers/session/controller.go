package session

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/YusufBro01/ymastar/internal/adapters/primary/http/controllers/apierror"
	"github.com/YusufBro01/ymastar/internal/domain"
	"github.com/YusufBro01/ymastar/internal/usecases/session"
)

const (
	UserIDHeader = "X-Telegram-User-Id"

	sessionKey = "session"
)

// Controller ручки сессии покупателя, сессия определяется по Telegram id из заголовка
type Controller struct {
	Sessions *session.Registry
	Log      *slog.Logger
}

func New(sessions *session.Registry, log *slog.Logger) *Controller {
	return &Controller{
		Sessions: sessions,
		Log:      log,
	}
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/session", c.requireSession)
	{
		api.GET("", c.snapshot)

		api.POST("/search", c.search)
		api.DELETE("/search", c.cancelSearch)
		api.GET("/recipient", c.recipient)

		api.POST("/order", c.submitOrder)
		api.GET("/order", c.pendingOrder)
		api.DELETE("/order", c.cancelOrder)
		api.POST("/order/retry", c.retryDispatch)
		api.POST("/order/view", c.viewOrder)

		api.POST("/home", c.home)
		api.POST("/navigate", c.navigate)
		api.POST("/back", c.back)
	}
}

// requireSession достаёт сессию по заголовку; id не проверяется, ему доверяет мини-приложение
func (c *Controller) requireSession(ctx *gin.Context) {
	raw := ctx.GetHeader(UserIDHeader)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, apierror.Response{Error: "unauthorized", Field: UserIDHeader})
		return
	}

	ctx.Set(sessionKey, c.Sessions.Get(id))
	ctx.Next()
}

func current(ctx *gin.Context) *session.Session {
	return ctx.MustGet(sessionKey).(*session.Session)
}

func (c *Controller) snapshot(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, current(ctx).Snapshot())
}

func (c *Controller) search(ctx *gin.Context) {
	var req SearchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		apierror.Write(ctx, c.Log, domain.NewInputInvalid(domain.FieldHandle, ""))
		return
	}

	ctx.JSON(http.StatusAccepted, current(ctx).SearchRecipient(req.Handle))
}

func (c *Controller) cancelSearch(ctx *gin.Context) {
	current(ctx).CancelSearch()
	ctx.Status(http.StatusNoContent)
}

func (c *Controller) recipient(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, current(ctx).Recipient())
}

func (c *Controller) submitOrder(ctx *gin.Context) {
	var req SubmitOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		apierror.Write(ctx, c.Log, domain.NewInputInvalid(domain.FieldQuantity, domain.CodeQuantityInvalid))
		return
	}

	result, err := current(ctx).SubmitOrder(ctx.Request.Context(), req.Product, string(req.Quantity), req.PaymentMethod)
	if err != nil {
		apierror.Write(ctx, c.Log, err)
		return
	}

	ctx.JSON(http.StatusCreated, result)
}

func (c *Controller) pendingOrder(ctx *gin.Context) {
	summary, ok := current(ctx).PendingOrderSummary()
	if !ok {
		apierror.Write(ctx, c.Log, domain.NewExpired(domain.ErrNoPendingOrder))
		return
	}
	ctx.JSON(http.StatusOK, summary)
}

func (c *Controller) cancelOrder(ctx *gin.Context) {
	if !current(ctx).CancelPendingOrder() {
		apierror.Write(ctx, c.Log, domain.NewExpired(domain.ErrNoPendingOrder))
		return
	}
	ctx.JSON(http.StatusOK, CancelOrderResponse{Cancelled: true})
}

func (c *Controller) retryDispatch(ctx *gin.Context) {
	delivery, err := current(ctx).RetryDispatch(ctx.Request.Context())
	if err != nil {
		apierror.Write(ctx, c.Log, err)
		return
	}
	ctx.JSON(http.StatusOK, delivery)
}

func (c *Controller) viewOrder(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, current(ctx).ViewPendingOrder())
}

func (c *Controller) home(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, current(ctx).AbandonToHome())
}

func (c *Controller) navigate(ctx *gin.Context) {
	var req NavigateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || !req.View.IsValid() {
		apierror.Write(ctx, c.Log, domain.NewInputInvalid("view", ""))
		return
	}
	ctx.JSON(http.StatusOK, current(ctx).Navigate(req.View))
}

func (c *Controller) back(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, current(ctx).Back())
}
