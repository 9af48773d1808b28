package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	corebootstrap "github.com/phxteam/phoenixbot/core/bootstrap"
	corecmd "github.com/phxteam/phoenixbot/core/cmd"
	coretelegram "github.com/phxteam/phoenixbot/core/telegram"
	"github.com/phxteam/phoenixbot/internal/catalog"
	"github.com/phxteam/phoenixbot/internal/counters"
	"github.com/phxteam/phoenixbot/internal/dispatch"
	"github.com/phxteam/phoenixbot/internal/handlers"
	"github.com/phxteam/phoenixbot/internal/quiz"
	"github.com/phxteam/phoenixbot/internal/routes"
	"github.com/phxteam/phoenixbot/internal/store"
	inttelegram "github.com/phxteam/phoenixbot/internal/telegram"
)

// App is the assembled bot.
type App struct {
	cfg        *Config
	db         *sqlx.DB
	dispatcher *dispatch.Dispatcher
}

// Bootstrap initializes infrastructure (logger, database, migrations),
// loads the content catalogs and wires the dispatcher. A store or
// catalog that cannot be loaded here is fatal.
func Bootstrap(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
	cfg, ok := carrier.(*Config)
	if !ok {
		return nil, fmt.Errorf("app: unexpected config type %T", carrier)
	}

	res, err := corebootstrap.Run(corebootstrap.Options{
		Config:   &cfg.Core,
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}

	reg, err := catalog.Load(cfg.Core.Catalog.Dir)
	if err != nil {
		_ = res.DB.Close()
		return nil, fmt.Errorf("app: catalog load failed: %w", err)
	}

	repo := store.NewPostgresRepo(res.DB)
	sessions := store.NewSessions(repo)
	engine := quiz.NewEngine(reg, sessions)
	svc := counters.NewService(reg, repo)
	h := handlers.New(repo, sessions, reg, svc, engine)

	return &App{
		cfg:        cfg,
		db:         res.DB,
		dispatcher: routes.NewDispatcher(h, reg, sessions),
	}, nil
}

// TelegramRunOptions exposes the bot's middleware chain and routes to
// the runner.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	return coretelegram.RunOptions{
		Config:      &a.cfg.Core,
		Middlewares: coretelegram.DefaultMiddlewares(&a.cfg.Core, nil),
		Routes:      inttelegram.Routes(a.dispatcher),
		OnStop: func(context.Context, coretelegram.Runtime) error {
			return a.db.Close()
		},
	}, nil
}
