package app

import (
	"context"
	"fmt"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/roshaa-market/hrbot/app/form"
	"github.com/roshaa-market/hrbot/app/storage"
	"github.com/roshaa-market/hrbot/core/bootstrap"
	coretelegram "github.com/roshaa-market/hrbot/core/telegram"
	"github.com/roshaa-market/hrbot/core/telegram/commands"
	tghelpers "github.com/roshaa-market/hrbot/core/telegram/helpers"
	"github.com/roshaa-market/hrbot/core/telegram/router"
)

// Callback keys for the preview's inline buttons.
const (
	callbackConfirm = "confirm"
	callbackCancel  = "cancel"
)

// App owns the bot's long-lived components.
type App struct {
	cfg       *Config
	store     *form.Store
	engine    *form.Engine
	finalizer *form.Finalizer
}

// Bootstrap initializes logging and storage and assembles the application.
// The database is optional: without one, submissions are delivered to the
// review chat but not archived.
func Bootstrap(cfg *Config) (*App, error) {
	res, err := bootstrap.Run(bootstrap.Options{
		Config:   cfg.CoreConfig(),
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}

	store := form.NewStore(time.Duration(cfg.Form.SessionTTLMinutes) * time.Minute)

	var archive form.Archive
	if res.DB != nil {
		archive = storage.NewApplicationsRepo(res.DB)
	}

	return &App{
		cfg:       cfg,
		store:     store,
		engine:    form.NewEngine(store),
		finalizer: form.NewFinalizer(store, archive),
	}, nil
}

// TelegramRunOptions assembles the registry, middleware chain, and routes.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	h := &handlers{
		engine:       a.engine,
		finalizer:    a.finalizer,
		reviewChatID: a.cfg.Review.ChatID,
	}

	reg := coretelegram.NewRegistry()
	reg.RegisterCommand("/start", commands.Command{
		Handler:     h.onStart,
		Description: "Boshlash / Начать",
	})
	reg.RegisterCommand("/stats", commands.Command{
		Handler:     a.statsHandler,
		Description: "Active session count",
		AdminOnly:   true,
	})

	if err := reg.RegisterCallback(callbackConfirm, h.onConfirm); err != nil {
		return coretelegram.RunOptions{}, err
	}
	if err := reg.RegisterCallback(callbackCancel, h.onCancel); err != nil {
		return coretelegram.RunOptions{}, err
	}

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: a.cfg.Core.Telegram.AdminID,
	})
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))
	routes = append(routes, router.MessageRoutes(router.MessageOptions{
		OnText:    h.onText,
		OnContact: h.onContact,
		OnPhoto:   h.onPhoto,
	})...)

	return coretelegram.RunOptions{
		Config:      a.cfg.CoreConfig(),
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(a.cfg.CoreConfig(), nil),
		Routes:      routes,
		OnStop: func(ctx context.Context, rt coretelegram.Runtime) error {
			a.store.Close()
			return nil
		},
	}, nil
}

func (a *App) statsHandler(c tele.Context) error {
	return tghelpers.SendText(c, fmt.Sprintf("Active sessions: %d", a.store.Len()))
}
