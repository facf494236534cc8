package app

import (
	"context"
	"fmt"

	corecmd "ticketbot/core/cmd"
	"ticketbot/core/database"
	"ticketbot/core/logger"
	coretelegram "ticketbot/core/telegram"
	"ticketbot/internal/bot"
	"ticketbot/internal/config"
	"ticketbot/internal/service"
	"ticketbot/internal/session"
	"ticketbot/internal/store"
	"log/slog"

	"github.com/jmoiron/sqlx"
)

// App holds the composed application: configuration, storage, the
// intake session manager and the ticket services, ready to be run by
// the Telegram runtime.
type App struct {
	cfg      *config.Config
	db       *sqlx.DB
	sessions *session.Manager
	notifier *bot.TelegramNotifier
	handlers *bot.Handlers
}

// LoadConfig adapts config.Load to the runner's carrier interface.
func LoadConfig(path string) (corecmd.ConfigCarrier, error) {
	return config.Load(path)
}

// Bootstrap initializes logging, storage and services from the loaded
// configuration.
func Bootstrap(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
	cfg, ok := carrier.(*config.Config)
	if !ok {
		return nil, fmt.Errorf("app: unexpected config type %T", carrier)
	}

	if err := logger.InitLogger(cfg.CoreConfig()); err != nil {
		return nil, fmt.Errorf("app: logger init: %w", err)
	}

	a := &App{cfg: cfg}

	ticketStore, err := a.buildStore()
	if err != nil {
		return nil, err
	}

	a.sessions = session.NewManager(cfg.Session.TTL())
	a.notifier = bot.NewTelegramNotifier()

	tickets := service.NewTickets(ticketStore, a.notifier, cfg.Departments)
	staff := service.NewStaff(ticketStore, a.notifier)
	a.handlers = bot.NewHandlers(cfg, a.sessions, tickets, staff)

	return a, nil
}

func (a *App) buildStore() (store.TicketStore, error) {
	driver := database.NormalizeDriver(a.cfg.Database.Driver)
	if driver == database.DriverDynamo {
		s, err := store.NewDynamoStore(context.Background())
		if err != nil {
			return nil, fmt.Errorf("app: dynamo store: %w", err)
		}
		logger.DB.Info("store ready",
			slog.String("event", "store.ready"),
			slog.String("driver", driver),
		)
		return s, nil
	}

	if err := database.RunMigrations(a.cfg.Database); err != nil {
		return nil, fmt.Errorf("app: migrations: %w", err)
	}
	db, err := database.Connect(a.cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("app: database connect: %w", err)
	}
	a.db = db

	logger.DB.Info("store ready",
		slog.String("event", "store.ready"),
		slog.String("driver", driver),
	)
	return store.NewSQLStore(db), nil
}

// TelegramRunOptions assembles the bot surface and lifecycle hooks.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := bot.BuildRegistry(a.handlers)
	routes := bot.Routes(reg, a.handlers, a.sessions)

	return coretelegram.RunOptions{
		Config:      a.cfg.CoreConfig(),
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(a.cfg.CoreConfig()),
		Routes:      routes,
		OnStart: func(ctx context.Context, rt coretelegram.Runtime) error {
			a.notifier.Bind(rt.Bot, rt.Dispatcher)
			a.sessions.Start()
			return nil
		},
		OnStop: func(ctx context.Context, rt coretelegram.Runtime) error {
			a.sessions.Stop()
			if a.db != nil {
				if err := a.db.Close(); err != nil {
					logger.DB.Warn("database close failed",
						slog.String("event", "db.close"),
						slog.String("err", err.Error()),
					)
				}
			}
			return nil
		},
	}, nil
}
