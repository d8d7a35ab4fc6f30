package healthcheckController

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger зависимость, без которой бот не готов принимать обновления
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingFunc функция как Pinger
type PingFunc func(ctx context.Context) error

func (f PingFunc) PingContext(ctx context.Context) error {
	return f(ctx)
}

type HealthCheckController struct {
	app  string
	deps map[string]Pinger
	log  *slog.Logger
}

func New(app string, deps map[string]Pinger, log *slog.Logger) *HealthCheckController {
	return &HealthCheckController{
		app:  app,
		deps: deps,
		log:  log,
	}
}

func (c *HealthCheckController) RegisterRoutes(r *gin.Engine) {
	r.GET("/liveness", c.liveness)
	r.GET("/health", c.health)
	r.GET("/ready", c.ready)
}

func (c *HealthCheckController) liveness(ctx *gin.Context) {
	ctx.String(http.StatusOK, "OK")
}

// health базовая проверка (всегда возвращает 200)
func (c *HealthCheckController) health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"app":    c.app,
	})
}

// ready проверяет все зависимости
func (c *HealthCheckController) ready(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	failed := make(map[string]string)
	for name, dep := range c.deps {
		if err := dep.PingContext(pingCtx); err != nil {
			c.log.Error("dependency not ready", "dependency", name, "error", err)
			failed[name] = "unavailable"
		}
	}

	if len(failed) > 0 {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"errors": failed,
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ready"})
}
