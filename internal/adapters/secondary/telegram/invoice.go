package telegram

import (
	"context"
	"fmt"
)

// LabeledPrice представляет цену в invoice
type LabeledPrice struct {
	Label  string `json:"label"`  // название позиции
	Amount int64  `json:"amount"` // цена в минимальных единицах валюты (копейки для RUB)
}

// SendInvoiceRequest запрос на отправку invoice
// Документация: https://core.telegram.org/bots/api#sendinvoice
type SendInvoiceRequest struct {
	ChatID         int64          `json:"chat_id"`
	Title          string         `json:"title"`                     // название продукта
	Description    string         `json:"description"`               // описание продукта
	Payload        string         `json:"payload"`                   // id платежа, вернётся в pre_checkout_query и successful_payment
	ProviderToken  string         `json:"provider_token,omitempty"`  // токен платёжного провайдера
	Currency       string         `json:"currency"`                  // ISO 4217
	Prices         []LabeledPrice `json:"prices"`                    // массив цен
	StartParameter *string        `json:"start_parameter,omitempty"` // для deep linking
	NeedEmail      bool           `json:"need_email,omitempty"`
	ProtectContent bool           `json:"protect_content,omitempty"`
}

// SendInvoice отправляет invoice пользователю, возвращает message_id
func (c *Client) SendInvoice(ctx context.Context, req SendInvoiceRequest) (int64, error) {
	var result MessageResult
	if err := c.call(ctx, "sendInvoice", req, &result); err != nil {
		return 0, fmt.Errorf("send invoice [chat_id=%d]: %w", req.ChatID, err)
	}

	c.log.Debug("invoice sent successfully",
		"chat_id", req.ChatID,
		"message_id", result.MessageID,
	)
	return result.MessageID, nil
}

// AnswerPreCheckoutQueryRequest запрос на ответ pre_checkout_query
type AnswerPreCheckoutQueryRequest struct {
	PreCheckoutQueryID string  `json:"pre_checkout_query_id"`
	OK                 bool    `json:"ok"`                      // true - подтвердить, false - отклонить
	ErrorMessage       *string `json:"error_message,omitempty"` // сообщение об ошибке (если ok=false)
}

// AnswerPreCheckoutQuery отвечает на pre_checkout_query (подтверждает или отклоняет платёж)
// Документация: https://core.telegram.org/bots/api#answerprecheckoutquery
func (c *Client) AnswerPreCheckoutQuery(ctx context.Context, queryID string, ok bool, errorMessage *string) error {
	req := AnswerPreCheckoutQueryRequest{
		PreCheckoutQueryID: queryID,
		OK:                 ok,
		ErrorMessage:       errorMessage,
	}
	if err := c.call(ctx, "answerPreCheckoutQuery", req, nil); err != nil {
		return fmt.Errorf("answer pre_checkout_query [query_id=%s]: %w", queryID, err)
	}

	c.log.Debug("pre_checkout_query answered successfully",
		"query_id", queryID,
		"ok", ok,
	)
	return nil
}
