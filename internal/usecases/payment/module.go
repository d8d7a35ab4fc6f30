package payment

import (
	"log/slog"
	"time"

	"github.com/anastasia-gushchina/topdj-bot/internal/domain"
	"github.com/anastasia-gushchina/topdj-bot/internal/ports/kafka"
	paymentPort "github.com/anastasia-gushchina/topdj-bot/internal/ports/payment"
	"github.com/anastasia-gushchina/topdj-bot/internal/ports/repository"
	"github.com/anastasia-gushchina/topdj-bot/internal/ports/service"
	"github.com/anastasia-gushchina/topdj-bot/internal/ports/telegram"
)

// PackResolver поиск пака по машинному имени
type PackResolver interface {
	Pack(name string) (*domain.Pack, error)
}

// Config параметры сверки платежей
type Config struct {
	AdminChatID int64  // куда отправлять пользователя при рассинхроне
	Currency    string // для событий о покупках
}

// Service сверка платежей Telegram с записями payments и выдача паков
type Service struct {
	PaymentRepo     repository.IPaymentRepo
	Catalog         PackResolver
	PaymentProvider paymentPort.IPaymentProvider
	Messenger       telegram.IClient
	Delivery        *Delivery
	Notifier        service.INotifier
	Publisher       kafka.IPurchasePublisher // может быть nil
	Log             *slog.Logger

	cfg Config
	now func() time.Time
}

func New(
	cfg Config,
	paymentRepo repository.IPaymentRepo,
	catalog PackResolver,
	paymentProvider paymentPort.IPaymentProvider,
	messenger telegram.IClient,
	delivery *Delivery,
	notifier service.INotifier,
	publisher kafka.IPurchasePublisher,
	log *slog.Logger,
) *Service {
	return &Service{
		PaymentRepo:     paymentRepo,
		Catalog:         catalog,
		PaymentProvider: paymentProvider,
		Messenger:       messenger,
		Delivery:        delivery,
		Notifier:        notifier,
		Publisher:       publisher,
		Log:             log,
		cfg:             cfg,
		now:             func() time.Time { return time.Now().UTC() },
	}
}
