package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"

	server "github.com/YusufBro01/ymastar/internal/adapters/primary/http"
	healthcheckController "github.com/YusufBro01/ymastar/internal/adapters/primary/http/controllers/healthcheck"
	sessionController "github.com/YusufBro01/ymastar/internal/adapters/primary/http/controllers/session"
	shopController "github.com/YusufBro01/ymastar/internal/adapters/primary/http/controllers/shop"
	telegramController "github.com/YusufBro01/ymastar/internal/adapters/primary/http/controllers/telegram"
	webappController "github.com/YusufBro01/ymastar/internal/adapters/primary/http/controllers/webapp"
	alerterAdapter "github.com/YusufBro01/ymastar/internal/adapters/secondary/alerter"
	kafkaAdapter "github.com/YusufBro01/ymastar/internal/adapters/secondary/kafka"
	"github.com/YusufBro01/ymastar/internal/adapters/secondary/storage/inmemory"
	"github.com/YusufBro01/ymastar/internal/adapters/secondary/storage/pg"
	redisAdapter "github.com/YusufBro01/ymastar/internal/adapters/secondary/storage/redis"
	s3Adapter "github.com/YusufBro01/ymastar/internal/adapters/secondary/storage/s3"
	tgAdapter "github.com/YusufBro01/ymastar/internal/adapters/secondary/telegram"
	"github.com/YusufBro01/ymastar/internal/domain"
	"github.com/YusufBro01/ymastar/internal/pkg/money"
	"github.com/YusufBro01/ymastar/internal/ports/cache"
	"github.com/YusufBro01/ymastar/internal/ports/service"
	"github.com/YusufBro01/ymastar/internal/ports/storage"
	"github.com/YusufBro01/ymastar/internal/ports/telegram"
	catalogRepo "github.com/YusufBro01/ymastar/internal/repository/catalog"
	alerterService "github.com/YusufBro01/ymastar/internal/services/alerter"
	"github.com/YusufBro01/ymastar/internal/services/directory"
	jobScheduler "github.com/YusufBro01/ymastar/internal/services/jobs"
	"github.com/YusufBro01/ymastar/internal/services/notifier"
	"github.com/YusufBro01/ymastar/internal/services/orderevents"
	telegramService "github.com/YusufBro01/ymastar/internal/services/telegram"
	"github.com/YusufBro01/ymastar/internal/usecases/dispatch"
	"github.com/YusufBro01/ymastar/internal/usecases/order"
	"github.com/YusufBro01/ymastar/internal/usecases/session"
)

const registerCommandsTimeout = 10 * time.Second

type Dependencies struct {
	DB              *pg.DB // nil без Postgres
	HTTPServer      *http.Server
	TelegramClient  *tgAdapter.Client
	TelegramPoller  *tgAdapter.Poller // nil в webhook режиме
	TelegramService *telegramService.Service
	KafkaProducer   *kafkaAdapter.Producer // nil без Kafka
	Cache           cache.Cache
	Sessions        *session.Registry
	JobScheduler    *jobScheduler.Scheduler
}

// initDependencies инициализирует все зависимости приложения
func (a *App) initDependencies(ctx context.Context) (*Dependencies, error) {
	if !a.Cfg.Telegram.Enabled() {
		return nil, fmt.Errorf("telegram bot token is required")
	}

	clock := clockwork.NewRealClock()
	deps := &Dependencies{}

	db, err := a.initPostgres(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to init postgres: %w", err)
	}
	deps.DB = db

	catalog, err := a.loadCatalog(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	deps.TelegramClient = tgAdapter.NewClient(a.Cfg.Telegram.BotToken, a.Log, tgAdapter.WithAPIURL(a.Cfg.Telegram.APIURL))
	deps.TelegramService = telegramService.New(deps.TelegramClient, a.Cfg.Telegram.WebAppURL, a.Cfg.Telegram.ChannelURL, a.Log)

	alerter := alerterService.New(alerterAdapter.NewClient(a.Cfg.Alerter, a.Log), a.Name, clock)
	deps.Cache = a.initCache(ctx, clock)
	avatars := a.initS3(ctx)

	lookup := directory.New(deps.TelegramClient, deps.Cache, avatars, directory.Config{
		PlaceholderAvatar: a.Cfg.Shop.PlaceholderAvatar,
		FoundTTL:          a.Cfg.Shop.FoundCacheTTL,
		NotFoundTTL:       a.Cfg.Shop.NotFoundCacheTTL,
		AvatarURLTTL:      a.Cfg.S3.PresignTTL,
		FetchTimeout:      a.Cfg.Shop.LookupTimeout,
	}, a.Log)

	deps.KafkaProducer = a.initKafka()
	events := a.initOrderEvents(deps.KafkaProducer)

	sessions, err := a.initSessions(clock, catalog, lookup, deps.TelegramClient, alerter, events)
	if err != nil {
		return nil, fmt.Errorf("failed to init sessions: %w", err)
	}
	deps.Sessions = sessions

	deps.HTTPServer = a.initHTTP(deps, lookup, catalog)

	a.registerBotCommands(ctx, deps.TelegramClient)
	poller, err := a.initTelegramMode(ctx, deps)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram mode: %w", err)
	}
	deps.TelegramPoller = poller

	deps.JobScheduler = a.initJobScheduler(clock, alerter, sessions, deps.Cache)

	return deps, nil
}

// initPostgres без хоста каталог берётся из дефолтного прайса
func (a *App) initPostgres(ctx context.Context) (*pg.DB, error) {
	if !a.Cfg.Postgres.Enabled() {
		a.Log.Warn("postgres is not configured, using default catalog")
		return nil, nil
	}

	conn, err := a.Cfg.Postgres.NewConnection(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	a.Log.Info("postgres connected successfully")

	if err := pg.RunMigrations(ctx, conn, a.Log); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return pg.NewDB(conn), nil
}

func (a *App) loadCatalog(ctx context.Context, db *pg.DB) (*domain.Catalog, error) {
	if db == nil {
		return domain.DefaultCatalog(), nil
	}

	catalog, err := catalogRepo.New(db, a.Log).Load(ctx)
	if err != nil {
		return nil, err
	}

	a.Log.Info("catalog loaded", "products", len(catalog.Products()))
	return catalog, nil
}

// initCache Redis, если настроен и доступен, иначе in-memory
func (a *App) initCache(ctx context.Context, clock clockwork.Clock) cache.Cache {
	if a.Cfg.Redis.Enabled() {
		redisClient, err := a.Cfg.Redis.NewConnection(ctx)
		if err == nil {
			a.Log.Info("redis cache connected successfully")
			return redisAdapter.NewClient(redisClient, a.Cfg.Redis.KeyPrefix)
		}
		a.Log.Warn("failed to init redis cache, falling back to in-memory cache", "error", err)
	}

	return inmemory.NewCache(clock)
}

// initS3 без S3 аватары отдаются ссылками Telegram
func (a *App) initS3(ctx context.Context) storage.IS3Client {
	if !a.Cfg.S3.Enabled() {
		return nil
	}

	minioClient, err := a.Cfg.S3.Connect(ctx)
	if err != nil {
		a.Log.Warn("failed to init s3, avatars will not be mirrored", "error", err)
		return nil
	}

	a.Log.Info("s3 connected successfully", "bucket", a.Cfg.S3.Bucket)
	return s3Adapter.NewClient(minioClient, a.Cfg.S3.Bucket, a.Log)
}

func (a *App) initKafka() *kafkaAdapter.Producer {
	if !a.Cfg.Kafka.Enabled() {
		return nil
	}

	producer, err := kafkaAdapter.NewProducer(a.Cfg.Kafka, a.Log)
	if err != nil {
		a.Log.Warn("failed to create kafka producer, order events will only be logged", "error", err)
		return nil
	}
	return producer
}

func (a *App) initOrderEvents(producer *kafkaAdapter.Producer) *orderevents.Recorder {
	if producer == nil {
		return orderevents.New(nil, 0, a.Log)
	}
	return orderevents.New(producer, a.Cfg.Kafka.SendTimeout, a.Log)
}

func (a *App) initSessions(
	clock clockwork.Clock,
	catalog *domain.Catalog,
	lookup service.IDirectoryService,
	tgClient telegram.IClient,
	alerter service.IAlerterService,
	events service.IOrderEventRecorder,
) (*session.Registry, error) {
	shop := a.Cfg.Shop

	formatter, err := money.NewFormatter(shop.Locale, shop.Currency, shop.CurrencyScale)
	if err != nil {
		return nil, err
	}
	if err := catalog.CheckCurrency(formatter.Currency()); err != nil {
		return nil, fmt.Errorf("catalog does not match shop currency: %w", err)
	}

	orderNotifier := notifier.New(tgClient, notifier.Config{
		OrdersChatID: a.Cfg.Telegram.OrdersChatID,
		Location:     shop.Location(),
	}, a.Log)

	return session.NewRegistry(session.Deps{
		Clock:      clock,
		Directory:  lookup,
		Builder:    order.NewBuilder(catalog, formatter),
		Dispatcher: dispatch.New(orderNotifier, alerter, shop.DispatchTimeout, a.Log),
		Events:     events,
		Sequence:   order.NewSequence(clock.Now().Unix()),
		Log:        a.Log,
	}, session.Config{
		OrderTTL:       shop.OrderTTL,
		DebounceWindow: shop.DebounceWindow,
		LookupTimeout:  shop.LookupTimeout,
		IdleTTL:        shop.SessionIdleTTL,
	}), nil
}

// initHTTP инициализирует HTTP сервер и контроллеры
func (a *App) initHTTP(deps *Dependencies, lookup service.IDirectoryService, catalog *domain.Catalog) *http.Server {
	var health *healthcheckController.HealthCheckController
	if deps.DB != nil {
		health = healthcheckController.New(deps.DB, deps.Sessions, a.Log)
	} else {
		health = healthcheckController.New(nil, deps.Sessions, a.Log)
	}

	controllers := []server.Controller{
		health,
		shopController.New(lookup, catalog, a.Log),
		sessionController.New(deps.Sessions, a.Log),
		telegramController.New(deps.TelegramService, a.Cfg.Telegram.WebhookSecret, a.Log),
	}

	if a.Cfg.Server.StaticDir != "" {
		controllers = append(controllers, webappController.New(a.Cfg.Server.StaticDir))
	}

	return server.NewHTTPServer(a.Cfg.Server, a.Log, controllers...)
}

// initTelegramMode webhook (prod) или polling (локальная разработка)
func (a *App) initTelegramMode(ctx context.Context, deps *Dependencies) (*tgAdapter.Poller, error) {
	a.Log.Info("telegram configuration",
		"use_webhook", a.Cfg.Telegram.IsWebhookEnabled(),
		"webhook_url", a.Cfg.Telegram.WebhookURL,
	)

	if a.Cfg.Telegram.IsWebhookEnabled() {
		if a.Cfg.Telegram.WebhookURL == "" {
			return nil, fmt.Errorf("webhook_url is required when use_webhook is true")
		}

		webhookURL := a.Cfg.Telegram.WebhookURL + telegramController.WebhookPath
		if err := deps.TelegramClient.SetWebhook(ctx, webhookURL, a.Cfg.Telegram.WebhookSecret); err != nil {
			return nil, fmt.Errorf("failed to set webhook: %w", err)
		}
		return nil, nil
	}

	a.Log.Warn("polling mode enabled - this should only be used for local development")
	return tgAdapter.NewPoller(deps.TelegramClient, a.Cfg.Telegram.PollingTimeout, deps.TelegramService.HandleUpdate, a.Log), nil
}

// registerBotCommands меню команд; ошибка не мешает запуску
func (a *App) registerBotCommands(ctx context.Context, client *tgAdapter.Client) {
	ctx, cancel := context.WithTimeout(ctx, registerCommandsTimeout)
	defer cancel()

	if err := client.SetMyCommands(ctx, telegramService.Commands()); err != nil {
		a.Log.Warn("failed to register bot commands", "error", err)
	}
}

// initJobScheduler инициализирует планировщик джоб
func (a *App) initJobScheduler(
	clock clockwork.Clock,
	alerter service.IAlerterService,
	sessions *session.Registry,
	cacheClient cache.Cache,
) *jobScheduler.Scheduler {
	scheduler := jobScheduler.NewScheduler(clock, a.Log, alerter)

	scheduler.Register(jobScheduler.NewPendingOrderSweeper(sessions, jobScheduler.DefaultSweepInterval, a.Log))
	scheduler.Register(jobScheduler.NewSessionEvictor(sessions, jobScheduler.DefaultEvictInterval, a.Log))

	if memCache, ok := cacheClient.(*inmemory.Cache); ok {
		scheduler.Register(jobScheduler.NewCachePurger(memCache, jobScheduler.DefaultPurgeInterval, a.Log))
	}

	return scheduler
}
