package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/anastasia-gushchina/topdj-bot/internal/domain"
	"golang.org/x/time/rate"
)

const (
	apiTimeout      = 30 * time.Second
	uploadTimeout   = 5 * time.Minute
	bodyPreviewSize = 200
)

// Client клиент для работы с Telegram Bot API
type Client struct {
	httpClient   *http.Client
	uploadClient *http.Client // отдельный клиент для загрузки архивов
	baseURL      string
	limiter      *rate.Limiter
	log          *slog.Logger
}

// NewClient создаёт новый клиент для Telegram Bot API
func NewClient(cfg *Config, log *slog.Logger) *Client {
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = "https://api.telegram.org"
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 1
	}

	return &Client{
		httpClient:   &http.Client{Timeout: apiTimeout},
		uploadClient: &http.Client{Timeout: uploadTimeout},
		baseURL:      strings.TrimRight(apiURL, "/") + "/bot" + cfg.BotToken,
		limiter:      rate.NewLimiter(limit, burst),
		log:          log,
	}
}

// InlineKeyboardMarkup reply_markup с inline-кнопками
type InlineKeyboardMarkup struct {
	InlineKeyboard domain.InlineKeyboard `json:"inline_keyboard"`
}

func markup(keyboard domain.InlineKeyboard) *InlineKeyboardMarkup {
	if keyboard.Empty() {
		return nil
	}
	return &InlineKeyboardMarkup{InlineKeyboard: keyboard}
}

// SendMessageRequest запрос на отправку сообщения
type SendMessageRequest struct {
	ChatID          int64                 `json:"chat_id"`
	Text            string                `json:"text"`
	ParseMode       string                `json:"parse_mode,omitempty"` // "HTML", "Markdown", "MarkdownV2"
	ReplyMarkup     *InlineKeyboardMarkup `json:"reply_markup,omitempty"`
	MessageThreadID *int64                `json:"message_thread_id,omitempty"`
}

// SendMessage отправляет текстовое сообщение
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	_, err := c.SendMessageWithRequest(ctx, SendMessageRequest{ChatID: chatID, Text: text})
	return err
}

// SendMessageWithKeyboard отправляет сообщение с inline-клавиатурой
func (c *Client) SendMessageWithKeyboard(ctx context.Context, chatID int64, text string, keyboard domain.InlineKeyboard) error {
	_, err := c.SendMessageWithRequest(ctx, SendMessageRequest{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: markup(keyboard),
	})
	return err
}

// SendMessageWithRequest отправляет сообщение и возвращает message_id
func (c *Client) SendMessageWithRequest(ctx context.Context, req SendMessageRequest) (int64, error) {
	var result MessageResult
	if err := c.call(ctx, "sendMessage", req, &result); err != nil {
		return 0, fmt.Errorf("send message [chat_id=%d]: %w", req.ChatID, err)
	}

	c.log.Debug("message sent successfully",
		"chat_id", req.ChatID,
		"message_id", result.MessageID,
	)
	return result.MessageID, nil
}

// SendDocument отправляет документ: по file_id или загрузкой файла
func (c *Client) SendDocument(ctx context.Context, chatID int64, doc domain.OutgoingDocument) error {
	var result MessageResult

	if doc.FileID != "" {
		req := map[string]interface{}{
			"chat_id":         chatID,
			"document":        doc.FileID,
			"protect_content": doc.Protect,
		}
		if doc.Caption != "" {
			req["caption"] = doc.Caption
		}
		if err := c.call(ctx, "sendDocument", req, &result); err != nil {
			return fmt.Errorf("send document by file_id [chat_id=%d]: %w", chatID, err)
		}
	} else {
		if len(doc.Content) == 0 {
			return fmt.Errorf("send document [chat_id=%d]: empty content", chatID)
		}
		fields := map[string]string{
			"chat_id":         strconv.FormatInt(chatID, 10),
			"protect_content": strconv.FormatBool(doc.Protect),
		}
		if doc.Caption != "" {
			fields["caption"] = doc.Caption
		}
		if err := c.callMultipart(ctx, "sendDocument", fields, "document", doc.FileName, doc.Content, &result); err != nil {
			return fmt.Errorf("upload document %s [chat_id=%d]: %w", doc.FileName, chatID, err)
		}
	}

	c.log.Debug("document sent successfully",
		"chat_id", chatID,
		"message_id", result.MessageID,
		"by_file_id", doc.FileID != "",
		"protected", doc.Protect,
	)
	return nil
}

// BotCommand представляет команду бота
type BotCommand struct {
	Command     string `json:"command"`
	Description string `json:"description"`
}

// SetMyCommands регистрирует команды бота в меню
func (c *Client) SetMyCommands(ctx context.Context, commands []BotCommand) error {
	req := struct {
		Commands []BotCommand `json:"commands"`
	}{Commands: commands}

	if err := c.call(ctx, "setMyCommands", req, nil); err != nil {
		return err
	}
	c.log.Info("bot commands registered successfully", "commands_count", len(commands))
	return nil
}

// SetMyDescription описание бота, которое видно до /start
func (c *Client) SetMyDescription(ctx context.Context, description string) error {
	req := map[string]string{"description": description}
	if err := c.call(ctx, "setMyDescription", req, nil); err != nil {
		return err
	}
	c.log.Info("bot description updated")
	return nil
}

// call POST JSON на метод Bot API, result может быть nil
func (c *Client) call(ctx context.Context, method string, payload interface{}, result interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("telegram marshal failed [method=%s]: %w", method, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+method, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("telegram create request failed [method=%s]: %w", method, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	return c.do(ctx, c.httpClient, method, httpReq, result)
}

// callMultipart multipart/form-data запрос с одним файлом
func (c *Client) callMultipart(
	ctx context.Context,
	method string,
	fields map[string]string,
	fileField, fileName string,
	content []byte,
	result interface{},
) error {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return fmt.Errorf("failed to write %s field: %w", name, err)
		}
	}

	part, err := writer.CreateFormFile(fileField, fileName)
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return fmt.Errorf("failed to write file data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close multipart writer: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+method, &body)
	if err != nil {
		return fmt.Errorf("telegram create request failed [method=%s]: %w", method, err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	return c.do(ctx, c.uploadClient, method, httpReq, result)
}

func (c *Client) do(ctx context.Context, httpClient *http.Client, method string, httpReq *http.Request, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("telegram rate limiter [method=%s]: %w", method, err)
	}

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		c.log.Debug("telegram request failed", "error", err, "method", method)
		return fmt.Errorf("telegram request failed [method=%s]: %w", method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.Error("failed to read response body",
			"error", err,
			"method", method,
			"status_code", resp.StatusCode,
		)
		return fmt.Errorf("telegram read body failed [method=%s, status=%d]: %w", method, resp.StatusCode, err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		c.log.Error("failed to unmarshal response",
			"error", err,
			"method", method,
			"status_code", resp.StatusCode,
			"body_preview", truncateString(string(body), bodyPreviewSize),
		)
		return fmt.Errorf("telegram unmarshal failed [method=%s, status=%d]: %w", method, resp.StatusCode, err)
	}

	if !apiResp.OK {
		apiErr := &APIError{
			Method:      method,
			Code:        apiResp.ErrorCode,
			Description: apiResp.Description,
		}
		if apiResp.Parameters != nil {
			apiErr.RetryAfter = apiResp.Parameters.RetryAfter
		}
		c.log.Warn("telegram API returned error",
			"method", method,
			"error_code", apiErr.Code,
			"description", apiErr.Description,
			"status_code", resp.StatusCode,
		)
		return apiErr
	}

	if result != nil && len(apiResp.Result) > 0 {
		if err := json.Unmarshal(apiResp.Result, result); err != nil {
			return fmt.Errorf("telegram unmarshal result failed [method=%s]: %w", method, err)
		}
	}
	return nil
}
