package telegram

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/YusufBro01/ymastar/internal/domain"
	telegramService "github.com/YusufBro01/ymastar/internal/services/telegram"
)

const (
	WebhookPath       = "/webhook"
	secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"
)

type Controller struct {
	TgService *telegramService.Service
	Secret    string // пусто - заголовок не проверяется
	Log       *slog.Logger
}

func New(tgService *telegramService.Service, secret string, log *slog.Logger) *Controller {
	return &Controller{
		TgService: tgService,
		Secret:    secret,
		Log:       log,
	}
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	router.POST(WebhookPath, c.handleWebhook)
}

func (c *Controller) handleWebhook(ctx *gin.Context) {
	if c.Secret != "" {
		token := ctx.GetHeader(secretTokenHeader)
		if subtle.ConstantTimeCompare([]byte(token), []byte(c.Secret)) != 1 {
			c.Log.Warn("webhook request with invalid secret token", "client_ip", ctx.ClientIP())
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "invalid secret token"})
			return
		}
	}

	var update domain.Update

	if err := ctx.ShouldBindJSON(&update); err != nil {
		c.Log.Error("failed to bind webhook request", "error", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	c.Log.Debug("received webhook update", "update_id", update.UpdateID)

	if err := c.TgService.HandleUpdate(ctx.Request.Context(), &update); err != nil {
		c.Log.Error("failed to handle update",
			"error", err,
			"update_id", update.UpdateID,
		)
	}

	// Telegram ожидает 200 OK в ответ
	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}
