package telegram

import (
	"encoding/json"
	"fmt"
)

// APIResponse базовая структура ответа от Telegram API
type APIResponse struct {
	OK          bool                `json:"ok"`
	Description string              `json:"description,omitempty"`
	ErrorCode   int                 `json:"error_code,omitempty"`
	Parameters  *ResponseParameters `json:"parameters,omitempty"`
	Result      json.RawMessage     `json:"result,omitempty"`
}

// ResponseParameters доп. данные ошибки
type ResponseParameters struct {
	RetryAfter int `json:"retry_after,omitempty"`
}

// APIError ошибка, которую вернул Telegram (ok=false)
type APIError struct {
	Method      string
	Code        int
	Description string
	RetryAfter  int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram API error [method=%s, code=%d]: %s", e.Method, e.Code, e.Description)
}

// ChatInfo чат в ответах API
type ChatInfo struct {
	ID int64 `json:"id"`
}

// MessageResult отправленное сообщение
type MessageResult struct {
	MessageID int64    `json:"message_id"`
	Chat      ChatInfo `json:"chat"`
	Date      int64    `json:"date"`
}

func truncateString(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
