package app

import (
	"context"
	"time"

	coretelegram "applybot/core/telegram"
	"applybot/core/telegram/commands"
	"applybot/core/telegram/router"
)

// TelegramRunOptions assembles the registry, routes, and lifecycle hooks
// for the bot runtime.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()

	reg.RegisterCommand("/start", commands.Command{
		Handler:     a.handleStart,
		Description: "Почати спочатку",
	})
	reg.RegisterCommand("/apply", commands.Command{
		Handler:     a.handleApply,
		Description: "Подати заявку",
		Aliases:     []string{BtnApply},
	})
	reg.RegisterCommand("/about", commands.Command{
		Handler:     a.handleAbout,
		Description: "Про нас",
		Aliases:     []string{BtnAbout},
	})
	reg.RegisterCommand("/faq", commands.Command{
		Handler:     a.handleFAQ,
		Description: "Часті питання",
		Aliases:     []string{BtnFAQ},
	})
	reg.RegisterCommand("/contacts", commands.Command{
		Handler:     a.handleContacts,
		Description: "Оплата та контакти",
		Aliases:     []string{BtnContacts},
	})
	reg.RegisterCommand("/broadcast", commands.Command{
		Handler:     a.handleBroadcastAll,
		Description: "Розсилка всім респондентам",
		AdminOnly:   true,
		Hidden:      true,
	})
	reg.RegisterCommand("/broadcast_to", commands.Command{
		Handler:     a.handleBroadcastSpecific,
		Description: "Розсилка за списком ID",
		AdminOnly:   true,
		Hidden:      true,
	})

	reg.SetTextFallback(a.handleMenuFallback)

	adminID := a.cfg.Core.Telegram.AdminID
	routes := router.CommandRoutes(reg, router.CommandRouteOptions{AdminID: adminID})
	routes = append(routes, router.TextRoutes(flowDispatcher{app: a}, reg, router.TextOptions{})...)

	return coretelegram.RunOptions{
		Config:      a.cfg.CoreConfig(),
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(a.cfg.CoreConfig(), nil),
		Routes:      routes,
		OnStart: func(_ context.Context, rt coretelegram.Runtime) error {
			a.notifier.setBot(rt.Bot)
			a.confirmer.setBot(rt.Bot)
			a.health.Start()
			return nil
		},
		OnStop: func(_ context.Context, _ coretelegram.Runtime) error {
			// The run context is already canceled at this point; give the
			// listener its own drain deadline.
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := a.health.Shutdown(stopCtx); err != nil {
				return err
			}
			return a.Close()
		},
	}, nil
}
