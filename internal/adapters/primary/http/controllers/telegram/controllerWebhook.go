package telegram

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/anastasia-gushchina/topdj-bot/internal/domain"
	"github.com/anastasia-gushchina/topdj-bot/internal/ports/service"
	"github.com/gin-gonic/gin"
)

const secretHeader = "X-Telegram-Bot-Api-Secret-Token"

type Controller struct {
	TgService service.ITelegramService
	Path      string
	Secret    string
	Log       *slog.Logger
}

func New(tgService service.ITelegramService, path, secret string, log *slog.Logger) *Controller {
	return &Controller{
		TgService: tgService,
		Path:      path,
		Secret:    secret,
		Log:       log,
	}
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	router.POST(c.Path, c.handleWebhook)
}

func (c *Controller) handleWebhook(ctx *gin.Context) {
	if !c.authorized(ctx.GetHeader(secretHeader)) {
		c.Log.Warn("webhook request with invalid secret token",
			"client_ip", ctx.ClientIP(),
		)
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "invalid secret token"})
		return
	}

	var update domain.Update
	if err := ctx.ShouldBindJSON(&update); err != nil {
		c.Log.Error("failed to bind webhook request", "error", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	c.Log.Debug("received webhook update", "update_id", update.UpdateID)

	// ошибку отдаём в лог, а Telegram получает 200 и не присылает update повторно
	if err := c.TgService.HandleUpdate(ctx.Request.Context(), &update); err != nil {
		if domain.IsBusinessError(err) {
			c.Log.Warn("update handled with business error",
				"error", err,
				"update_id", update.UpdateID,
			)
		} else {
			c.Log.Error("failed to handle update",
				"error", err,
				"update_id", update.UpdateID,
			)
		}
	}

	// Telegram ожидает 200 OK в ответ
	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

// authorized без настроенного секрета отклоняет всё
func (c *Controller) authorized(token string) bool {
	if c.Secret == "" || token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(c.Secret)) == 1
}
