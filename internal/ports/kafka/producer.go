package kafka

import (
	"context"

	"github.com/anastasia-gushchina/topdj-bot/internal/domain"
)

// IKafkaProducer интерфейс для отправки сообщений в Kafka
type IKafkaProducer interface {
	Send(ctx context.Context, key string, value []byte) error
	Close() error
}

// IPurchasePublisher публикация событий о покупках
type IPurchasePublisher interface {
	PublishPurchase(ctx context.Context, event domain.PurchaseEvent) error
}
