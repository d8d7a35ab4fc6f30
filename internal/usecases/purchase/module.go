package purchase

import (
	"context"
	"log/slog"

	"github.com/anastasia-gushchina/topdj-bot/internal/domain"
	paymentPort "github.com/anastasia-gushchina/topdj-bot/internal/ports/payment"
	"github.com/anastasia-gushchina/topdj-bot/internal/ports/repository"
	"github.com/anastasia-gushchina/topdj-bot/internal/ports/service"
	"github.com/anastasia-gushchina/topdj-bot/internal/ports/telegram"
	"github.com/anastasia-gushchina/topdj-bot/internal/services/conversation"
	"github.com/anastasia-gushchina/topdj-bot/internal/services/selection"
)

// Состояния сценария покупки
const (
	StatePackCategory  domain.State = "pack_category"
	StatePackName      domain.State = "pack_name"
	StatePackInfo      domain.State = "pack_info"
	StateNewInvoice    domain.State = "new_invoice"
	StateCreateNewPack domain.State = "create_new_pack"
)

// BuyCallbackPrefix callback кнопки покупки, дальше машинное имя пака
const BuyCallbackPrefix = "buy_pack_"

// Catalog справочник паков
type Catalog interface {
	Categories() []string
	CategoryName(input string) (string, bool)
	PacksIn(category string) ([]domain.Pack, error)
	Pack(name string) (*domain.Pack, error)
	PriceOf(name *string) int64
}

// UserRegistrar регистрация пользователя при первом контакте
type UserRegistrar interface {
	EnsureUser(ctx context.Context, from *domain.TelegramUser, chatID int64) error
}

// Config параметры сценария
type Config struct {
	Currency string
	PageSize int
}

// Service сценарий покупки: категория -> пак -> описание -> счёт
type Service struct {
	Catalog     Catalog
	Users       UserRegistrar
	PaymentRepo repository.IPaymentRepo
	Payments    paymentPort.IPaymentProvider
	Messenger   telegram.IClient
	Notifier    service.INotifier
	Log         *slog.Logger

	cfg        Config
	categories *selection.Engine
	packs      *selection.Engine
}

func New(
	cfg Config,
	catalog Catalog,
	users UserRegistrar,
	paymentRepo repository.IPaymentRepo,
	payments paymentPort.IPaymentProvider,
	messenger telegram.IClient,
	notifier service.INotifier,
	log *slog.Logger,
) (*Service, error) {
	s := &Service{
		Catalog:     catalog,
		Users:       users,
		PaymentRepo: paymentRepo,
		Payments:    payments,
		Messenger:   messenger,
		Notifier:    notifier,
		Log:         log,
		cfg:         cfg,
	}

	var err error
	s.categories, err = selection.New(selection.Config{
		Name:       "PackCategory",
		State:      StatePackCategory,
		Header:     textGreeting,
		Buttons:    true,
		Pagination: true,
		PageSize:   cfg.PageSize,
	}, categorySource{s: s}, messenger, log)
	if err != nil {
		return nil, err
	}

	s.packs, err = selection.New(selection.Config{
		Name:       "PackName",
		State:      StatePackName,
		Buttons:    true,
		Pagination: true,
		PageSize:   cfg.PageSize,
	}, packSource{s: s}, messenger, log)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Handles true, если состояние принадлежит сценарию покупки
func (s *Service) Handles(st domain.State) bool {
	switch st {
	case StatePackCategory, StatePackName, StatePackInfo, StateNewInvoice, StateCreateNewPack:
		return true
	default:
		return false
	}
}

// Start точка входа: /start из любого состояния
func (s *Service) Start(ctx context.Context, scope *conversation.Scope) error {
	if err := s.Users.EnsureUser(ctx, scope.From, scope.ChatID); err != nil {
		return err
	}
	return s.categories.Enter(ctx, scope)
}
