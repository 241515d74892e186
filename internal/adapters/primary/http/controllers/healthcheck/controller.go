package healthcheckController

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const readyTimeout = 2 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

type sessionCounter interface {
	Len() int
}

type HealthCheckController struct {
	db       pinger // nil - приложение работает без Postgres
	sessions sessionCounter
	log      *slog.Logger
}

func New(db pinger, sessions sessionCounter, log *slog.Logger) *HealthCheckController {
	return &HealthCheckController{
		db:       db,
		sessions: sessions,
		log:      log,
	}
}

func (c *HealthCheckController) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", c.health)
	r.GET("/ready", c.ready)
}

// health базовая проверка (всегда возвращает 200)
func (c *HealthCheckController) health(ctx *gin.Context) {
	resp := gin.H{
		"status":  "ok",
		"service": "yma-star",
	}
	if c.sessions != nil {
		resp["sessions"] = c.sessions.Len()
	}
	ctx.JSON(http.StatusOK, resp)
}

// ready проверка готовности (проверяет подключение к БД, если она есть)
func (c *HealthCheckController) ready(ctx *gin.Context) {
	if c.db != nil {
		pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), readyTimeout)
		defer cancel()

		if err := c.db.Ping(pingCtx); err != nil {
			c.log.Error("database not ready", "error", err)
			ctx.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
				"error":  "database unavailable",
			})
			return
		}
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}
