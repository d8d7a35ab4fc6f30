package telegram

import (
	"context"
	"fmt"
)

// AnswerCallbackQueryRequest запрос на ответ callback query
type AnswerCallbackQueryRequest struct {
	CallbackQueryID string `json:"callback_query_id"`
	Text            string `json:"text,omitempty"`
	ShowAlert       bool   `json:"show_alert,omitempty"`
}

// AnswerCallbackQuery убирает "часики" на нажатой кнопке
func (c *Client) AnswerCallbackQuery(ctx context.Context, callbackID string, text string, showAlert bool) error {
	req := AnswerCallbackQueryRequest{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       showAlert,
	}
	if err := c.call(ctx, "answerCallbackQuery", req, nil); err != nil {
		return fmt.Errorf("answer callback query [id=%s]: %w", callbackID, err)
	}

	c.log.Debug("callback query answered successfully", "callback_id", callbackID)
	return nil
}
