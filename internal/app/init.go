package app

import (
	"context"
	"fmt"
	"net/http"

	server "github.com/anastasia-gushchina/topdj-bot/internal/adapters/primary/http"
	healthcheckController "github.com/anastasia-gushchina/topdj-bot/internal/adapters/primary/http/controllers/healthcheck"
	telegramController "github.com/anastasia-gushchina/topdj-bot/internal/adapters/primary/http/controllers/telegram"
	alerterAdapter "github.com/anastasia-gushchina/topdj-bot/internal/adapters/secondary/alerter"
	kafkaAdapter "github.com/anastasia-gushchina/topdj-bot/internal/adapters/secondary/kafka"
	"github.com/anastasia-gushchina/topdj-bot/internal/adapters/secondary/payment/telegram_invoice"
	"github.com/anastasia-gushchina/topdj-bot/internal/adapters/secondary/storage/files"
	"github.com/anastasia-gushchina/topdj-bot/internal/adapters/secondary/storage/inmemory"
	"github.com/anastasia-gushchina/topdj-bot/internal/adapters/secondary/storage/pg"
	redisAdapter "github.com/anastasia-gushchina/topdj-bot/internal/adapters/secondary/storage/redis"
	s3Adapter "github.com/anastasia-gushchina/topdj-bot/internal/adapters/secondary/storage/s3"
	tgAdapter "github.com/anastasia-gushchina/topdj-bot/internal/adapters/secondary/telegram"
	"github.com/anastasia-gushchina/topdj-bot/internal/ports/cache"
	"github.com/anastasia-gushchina/topdj-bot/internal/ports/kafka"
	"github.com/anastasia-gushchina/topdj-bot/internal/ports/repository"
	"github.com/anastasia-gushchina/topdj-bot/internal/ports/service"
	"github.com/anastasia-gushchina/topdj-bot/internal/ports/state"
	"github.com/anastasia-gushchina/topdj-bot/internal/ports/storage"
	paymentRepo "github.com/anastasia-gushchina/topdj-bot/internal/repository/payment"
	userRepo "github.com/anastasia-gushchina/topdj-bot/internal/repository/user"
	alerterService "github.com/anastasia-gushchina/topdj-bot/internal/services/alerter"
	"github.com/anastasia-gushchina/topdj-bot/internal/services/catalog"
	jobScheduler "github.com/anastasia-gushchina/topdj-bot/internal/services/jobs"
	telegramService "github.com/anastasia-gushchina/topdj-bot/internal/services/telegram"
	paymentUsecase "github.com/anastasia-gushchina/topdj-bot/internal/usecases/payment"
	purchaseUsecase "github.com/anastasia-gushchina/topdj-bot/internal/usecases/purchase"
	usersUsecase "github.com/anastasia-gushchina/topdj-bot/internal/usecases/users"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

type Dependencies struct {
	DB              *sqlx.DB
	Redis           *redis.Client // nil, если Redis недоступен
	HTTPServer      *http.Server
	TelegramService *telegramService.Service
	TelegramClient  *tgAdapter.Client
	TelegramPoller  *tgAdapter.Poller
	KafkaProducer   *kafkaAdapter.Producer
	JobScheduler    *jobScheduler.Scheduler
}

// initDependencies инициализирует все зависимости приложения
func (a *App) initDependencies(ctx context.Context) (*Dependencies, error) {
	db, err := a.initPostgres()
	if err != nil {
		return nil, fmt.Errorf("failed to init postgres: %w", err)
	}

	shop, err := catalog.Load(a.Cfg.Shop.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	a.Log.Info("catalog loaded", "packs", len(shop.Packs()), "categories", len(shop.Categories()))

	repos := a.initRepositories(db)
	redisClient, userCache, states := a.initRedis()

	tgClient := tgAdapter.NewClient(a.Cfg.Telegram, a.Log)
	notifier := a.initAlerter(tgClient)

	fileSource, err := a.initFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to init file storage: %w", err)
	}

	producer, publisher := a.initKafka()

	users := usersUsecase.New(repos.User, userCache, a.Cfg.Redis.UserCacheTTL, a.Log)
	provider := telegram_invoice.NewProvider(tgClient, a.Cfg.Telegram.PaymentsToken, a.Cfg.Shop.Currency, a.Log)

	purchase, err := purchaseUsecase.New(
		purchaseUsecase.Config{Currency: a.Cfg.Shop.Currency, PageSize: a.Cfg.Shop.PageSize},
		shop,
		users,
		repos.Payment,
		provider,
		tgClient,
		notifier,
		a.Log,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to init purchase flow: %w", err)
	}

	delivery := paymentUsecase.NewDelivery(tgClient, fileSource, notifier, a.Log)
	payments := paymentUsecase.New(
		paymentUsecase.Config{AdminChatID: a.Cfg.Shop.AdminChatID, Currency: a.Cfg.Shop.Currency},
		repos.Payment,
		shop,
		provider,
		tgClient,
		delivery,
		notifier,
		publisher, // может быть nil
		a.Log,
	)

	tgService := telegramService.New(purchase, payments, states, tgClient, a.Log)

	httpServer := a.initHTTP(db, redisClient, tgService)
	poller := a.initTelegramMode(tgService, tgClient)

	scheduler, err := a.initJobScheduler(notifier, repos.Payment)
	if err != nil {
		return nil, fmt.Errorf("failed to init jobs: %w", err)
	}

	return &Dependencies{
		DB:              db,
		Redis:           redisClient,
		HTTPServer:      httpServer,
		TelegramService: tgService,
		TelegramClient:  tgClient,
		TelegramPoller:  poller,
		KafkaProducer:   producer,
		JobScheduler:    scheduler,
	}, nil
}

// repositories содержит инициализированные репозитории
type repositories struct {
	User    repository.IUserRepo
	Payment repository.IPaymentRepo
}

// initRepositories инициализирует репозитории для работы с БД
func (a *App) initRepositories(db *sqlx.DB) *repositories {
	persistenceLayer := pg.NewDB(db)
	return &repositories{
		User:    userRepo.New(persistenceLayer, a.Log),
		Payment: paymentRepo.New(persistenceLayer, a.Log),
	}
}

// initRedis кэш пользователей и состояния диалогов.
// Без Redis работаем без кэша, диалоги в памяти процесса
func (a *App) initRedis() (*redis.Client, cache.Cache, state.Store) {
	redisClient, err := a.Cfg.Redis.NewConnection()
	if err != nil {
		a.Log.Warn("failed to init redis, continuing with in-memory state", "error", err)
		return nil, nil, inmemory.NewStateStore()
	}

	a.Log.Info("redis connected successfully")
	return redisClient, redisAdapter.NewClient(redisClient), redisAdapter.NewStateStore(redisClient, a.Cfg.stateTTL())
}

// initAlerter уведомления оператору через того же бота
func (a *App) initAlerter(tgClient *tgAdapter.Client) *alerterService.Service {
	cfg := a.Cfg.Alerter
	if cfg == nil {
		cfg = &alerterAdapter.Config{}
	}
	client := alerterAdapter.NewClient(cfg, tgClient, a.Cfg.Shop.AdminChatID, a.Log)
	return alerterService.New(client, a.Log)
}

// initFiles локальный каталог, затем S3, если настроен
func (a *App) initFiles() (storage.IFileSource, error) {
	chain := files.Chain{files.NewLocal(a.Cfg.Shop.FilesPath)}

	if a.Cfg.S3.Enabled() {
		minioClient, err := a.Cfg.S3.NewClient()
		if err != nil {
			return nil, fmt.Errorf("failed to connect to s3: %w", err)
		}
		chain = append(chain, s3Adapter.NewClient(minioClient, a.Cfg.S3.Bucket, a.Cfg.S3.Prefix, a.Log))
		a.Log.Info("s3 file source enabled", "bucket", a.Cfg.S3.Bucket)
	}

	return chain, nil
}

// initKafka producer событий о покупках, без брокеров события не публикуются
func (a *App) initKafka() (*kafkaAdapter.Producer, kafka.IPurchasePublisher) {
	if !a.Cfg.Kafka.Enabled() {
		a.Log.Info("kafka is not configured, purchase events disabled")
		return nil, nil
	}

	producer, err := kafkaAdapter.NewProducer(a.Cfg.Kafka, a.Log)
	if err != nil {
		a.Log.Warn("failed to create kafka producer, purchase events disabled", "error", err)
		return nil, nil
	}
	return producer, producer
}

// initHTTP инициализирует HTTP сервер и контроллеры
func (a *App) initHTTP(db *sqlx.DB, redisClient *redis.Client, tgService service.ITelegramService) *http.Server {
	deps := map[string]healthcheckController.Pinger{"postgres": db}
	if redisClient != nil {
		deps["redis"] = healthcheckController.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	controllers := []server.Controller{
		healthcheckController.New(a.Name, deps, a.Log),
		telegramController.New(tgService, a.Cfg.Telegram.WebhookPath, a.Cfg.Telegram.WebhookSecret, a.Log),
	}

	return server.NewHTTPServer(a.Cfg.Server, a.Log, controllers...)
}

// initTelegramMode webhook или polling
func (a *App) initTelegramMode(tgService service.ITelegramService, tgClient *tgAdapter.Client) *tgAdapter.Poller {
	a.Log.Info("telegram configuration",
		"use_webhook", a.Cfg.Telegram.IsWebhookEnabled(),
		"webhook_url", a.Cfg.Telegram.FullWebhookURL(),
	)

	if a.Cfg.Telegram.IsWebhookEnabled() {
		return nil // webhook режим, poller не нужен
	}

	a.Log.Warn("polling mode enabled - this should only be used for local development")
	return tgAdapter.NewPoller(tgClient, a.Cfg.Telegram, tgService.HandleUpdate, a.Log)
}

// initJobScheduler инициализирует планировщик джоб
func (a *App) initJobScheduler(notifier service.INotifier, payments repository.IPaymentRepo) (*jobScheduler.Scheduler, error) {
	scheduler := jobScheduler.NewScheduler(a.Log, notifier)
	if a.Cfg.Jobs == nil || !a.Cfg.Jobs.Enabled {
		return scheduler, nil
	}

	stale, err := jobScheduler.NewStalePayments(a.Cfg.Jobs.StalePaymentsConfig, payments, notifier, a.Log)
	if err != nil {
		return nil, err
	}
	scheduler.Register(stale)
	a.Log.Info("stale payments job registered", "schedule", a.Cfg.Jobs.Schedule, "after", a.Cfg.Jobs.After)

	return scheduler, nil
}

// initPostgres инициализирует подключение к PostgreSQL и запускает миграции
func (a *App) initPostgres() (*sqlx.DB, error) {
	db, err := a.Cfg.Postgres.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	a.Log.Info("postgres connected successfully")

	if err := pg.RunMigrations(a.Cfg.Postgres, a.Log); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}
