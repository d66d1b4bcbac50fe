package app

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"gym-app-go/internal/config"
	"gym-app-go/internal/db"
	classesdomain "gym-app-go/internal/domain/classes"
	clientdomain "gym-app-go/internal/domain/client"
	equipmentdomain "gym-app-go/internal/domain/equipment"
	membershipdomain "gym-app-go/internal/domain/membership"
	"gym-app-go/internal/domain/report"
	staffdomain "gym-app-go/internal/domain/staff"
	"gym-app-go/internal/events"
	"gym-app-go/internal/mailer"
	"gym-app-go/internal/monitoring"
	classesrepo "gym-app-go/internal/repository/classes"
	clientrepo "gym-app-go/internal/repository/client"
	equipmentrepo "gym-app-go/internal/repository/equipment"
	membershiprepo "gym-app-go/internal/repository/membership"
	staffrepo "gym-app-go/internal/repository/staff"
	"gym-app-go/internal/search"
	"gym-app-go/internal/seed"
	"gym-app-go/internal/session"
	"gym-app-go/internal/transport/httpserver"
	"gym-app-go/internal/transport/httpserver/handler"
	authmw "gym-app-go/internal/transport/httpserver/middleware"
	"gym-app-go/pkg/logger"
)

const keySize = 32

type App struct {
	cfg        config.Config
	log        logger.Logger
	httpServer *http.Server
	db         *gorm.DB
	publisher  events.Publisher
	redis      *redis.Client
	sentry     bool
}

func New(ctx context.Context, log logger.Logger) (*App, error) {
	log = logger.OrNop(log)

	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	a := &App{cfg: cfg, log: log}
	if err := a.init(ctx); err != nil {
		if closeErr := a.Close(); closeErr != nil {
			log.Error("app: cleanup after failed init", "err", closeErr)
		}
		return nil, err
	}
	return a, nil
}

func (a *App) init(ctx context.Context) error {
	cfg, log := a.cfg, a.log

	enabled, err := monitoring.InitSentry(cfg.Sentry, cfg.Env)
	if err != nil {
		log.InternalError("app: sentry disabled", err)
	}
	a.sentry = enabled

	log.Info("app: initializing database")
	a.db, err = db.NewPostgres(cfg.DB, log)
	if err != nil {
		return err
	}
	if err := db.Migrate(a.db, log); err != nil {
		return err
	}

	a.publisher = a.newPublisher(ctx)
	index := a.newClassIndex(ctx)

	clients := clientdomain.NewService(clientrepo.NewPostgres(a.db))
	memberships := membershipdomain.NewService(membershiprepo.NewPostgres(a.db), membershipdomain.Options{
		Prices: membershipdomain.Prices{
			MonthlyCents: cfg.Pricing.MonthlyCents,
			YearlyCents:  cfg.Pricing.YearlyCents,
		},
		Publisher: a.publisher,
		Mailer:    a.newMailer(),
		Log:       log,
	})
	classOptions := classesdomain.Options{Publisher: a.publisher, Log: log}
	if index != nil {
		classOptions.Index = index
	}
	classes := classesdomain.NewService(classesrepo.NewPostgres(a.db), classOptions)
	equipment := equipmentdomain.NewService(equipmentrepo.NewPostgres(a.db), a.publisher, log)
	staff := staffdomain.NewService(staffrepo.NewPostgres(a.db), a.publisher, log)

	if cfg.SeedDemoData {
		if _, err := seed.Demo(ctx, seed.Services{Staff: staff, Classes: classes, Equipment: equipment}, time.Now(), log); err != nil {
			return err
		}
	}
	if index != nil {
		count, err := classes.Reindex(ctx)
		if err != nil {
			log.InternalError("search: reindex failed", err, "indexed", count)
		} else {
			log.Info("search: classes indexed", "count", count)
		}
	}

	store, err := a.newSessionStore(ctx)
	if err != nil {
		return err
	}
	sessionKey, err := secretKey(cfg.Session.Secret)
	if err != nil {
		return err
	}
	if cfg.Session.Secret == "" {
		log.Warn("app: SESSION_SECRET not set, sessions will not survive a restart")
	}
	csrfKey, err := secretKey(cfg.CSRF.Key)
	if err != nil {
		return err
	}
	if cfg.CSRF.Enabled && cfg.CSRF.Key == "" {
		log.Warn("app: CSRF_KEY not set, using a random key")
	}

	auth := authmw.NewSessionAuth(store, sessionKey, cfg.Session, log)
	handlers := handler.New(handler.Deps{
		Clients:     clients,
		Memberships: memberships,
		Classes:     classes,
		Equipment:   equipment,
		Staff:       staff,
		Reports:     report.NewBuilder(cfg.Reports.ServerURL, cfg.Reports.Folder),
		Sessions:    auth,
		Metrics:     monitoring.NewMetrics(),
		Ping:        func(ctx context.Context) error { return db.Ping(ctx, a.db) },
		Log:         log,
	})

	log.Info("app: initializing http server")
	a.httpServer = httpserver.New(cfg, httpserver.NewRouter(cfg, handlers, auth, csrfKey))
	return nil
}

func (a *App) newPublisher(ctx context.Context) events.Publisher {
	if len(a.cfg.Kafka.Brokers) == 0 {
		a.log.Info("events: kafka not configured, events are dropped")
		return events.NopPublisher{}
	}
	publisher, err := events.NewKafkaPublisher(ctx, a.cfg.Kafka.Brokers, a.cfg.Kafka.Topic)
	if err != nil {
		a.log.InternalError("events: kafka unavailable, events are dropped", err)
		return events.NopPublisher{}
	}
	a.log.Info("events: kafka connected", "topic", a.cfg.Kafka.Topic)
	return publisher
}

func (a *App) newMailer() mailer.Sender {
	if a.cfg.Mail.ResendAPIKey == "" {
		return mailer.NewNopSender(a.log)
	}
	return mailer.NewResendSender(a.cfg.Mail.ResendAPIKey, a.cfg.Mail.From, a.log)
}

// newClassIndex returns nil when elasticsearch is not configured or not
// reachable; class search then runs against the database.
func (a *App) newClassIndex(ctx context.Context) *search.ClassIndex {
	if a.cfg.Search.ElasticsearchURL == "" {
		return nil
	}
	index, err := search.NewClassIndex(ctx, a.cfg.Search.ElasticsearchURL, a.cfg.Search.Index)
	if err != nil {
		a.log.InternalError("search: elasticsearch unavailable, using database search", err)
		return nil
	}
	return index
}

func (a *App) newSessionStore(ctx context.Context) (session.Store, error) {
	if a.cfg.Redis.Addr == "" {
		a.log.Info("session: using in-memory store")
		return session.NewMemoryStore(a.cfg.Session.TTL), nil
	}
	client, err := session.NewRedisClient(ctx, a.cfg.Redis.Addr, a.cfg.Redis.Password, a.cfg.Redis.DB)
	if err != nil {
		return nil, err
	}
	a.redis = client
	a.log.Info("session: using redis store", "addr", a.cfg.Redis.Addr)
	return session.NewRedisStore(client, a.cfg.Session.TTL), nil
}

// secretKey turns a configured secret into a 32-byte key, or generates a
// random one when the secret is empty.
func secretKey(secret string) ([]byte, error) {
	if secret == "" {
		key := securecookie.GenerateRandomKey(keySize)
		if key == nil {
			return nil, errors.New("app: generate random key")
		}
		return key, nil
	}
	sum := sha256.Sum256([]byte(secret))
	return sum[:], nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	var errs []error
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close publisher: %w", err))
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if a.db != nil {
		if err := db.Close(a.db); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	if a.sentry {
		monitoring.FlushSentry(2 * time.Second)
	}
	return errors.Join(errs...)
}
