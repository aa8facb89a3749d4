// Package app wires the application bot: configuration, session and
// respondent stores, the form flow, the broadcast controller, and the
// Telegram handlers on top of them.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	corecmd "applybot/core/cmd"
	coredatabase "applybot/core/database"
	"applybot/core/logger"
	"applybot/core/telegram/state"
	"applybot/internal/broadcast"
	"applybot/internal/form"
	"applybot/internal/health"
	"applybot/internal/store"
)

// App aggregates everything the bot runtime needs.
type App struct {
	cfg *Config

	sessions  state.Manager
	store     store.Store
	flow      *form.Flow
	bcast     *broadcast.Controller
	notifier  *operatorNotifier
	confirmer *respondentConfirmer
	health    *health.Server

	db *sqlx.DB
}

// Bootstrap initializes the logger and builds the application object graph.
func Bootstrap(cfg *Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config provided")
	}
	if err := logger.Init(cfg.CoreConfig()); err != nil {
		return nil, fmt.Errorf("app: logger init failed: %w", err)
	}

	sessions, err := buildSessions(cfg)
	if err != nil {
		return nil, err
	}

	st, db, err := buildStore(cfg)
	if err != nil {
		return nil, err
	}

	notifier := &operatorNotifier{adminID: cfg.Core.Telegram.AdminID}
	confirmer := &respondentConfirmer{groupInviteURL: cfg.GroupInviteURL}

	return &App{
		cfg:       cfg,
		sessions:  sessions,
		store:     st,
		flow:      form.NewFlow(sessions, st, notifier, confirmer),
		bcast:     broadcast.NewController(sessions, st),
		notifier:  notifier,
		confirmer: confirmer,
		health:    health.New(cfg.Health.Listen),
		db:        db,
	}, nil
}

func buildSessions(cfg *Config) (state.Manager, error) {
	switch cfg.Sessions.Backend {
	case SessionBackendRedis:
		ttl := time.Duration(cfg.Sessions.TTLMinutes) * time.Minute
		mgr, err := state.NewRedisManager(state.RedisOptions{
			Addr:     cfg.Sessions.RedisAddr,
			Password: cfg.Sessions.RedisPassword,
			DB:       cfg.Sessions.RedisDB,
			TTL:      ttl,
		})
		if err != nil {
			return nil, fmt.Errorf("app: redis sessions: %w", err)
		}
		return mgr, nil
	default:
		return state.NewMemoryManager(), nil
	}
}

func buildStore(cfg *Config) (store.Store, *sqlx.DB, error) {
	switch cfg.Store.Driver {
	case StoreDriverPostgres:
		db, err := coredatabase.Connect(cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("app: postgres store: %w", err)
		}
		if err := coredatabase.RunMigrations(cfg.Database); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("app: migrations: %w", err)
		}
		return store.NewPostgresStore(db), db, nil
	default:
		st, err := store.NewSheetsStore(context.Background(), store.SheetsOptions{
			CredentialsFile: cfg.Store.CredentialsFile,
			SpreadsheetID:   cfg.Store.SpreadsheetID,
			SheetName:       cfg.Store.SheetName,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("app: sheets store: %w", err)
		}
		return st, nil, nil
	}
}

// Close releases resources held outside the bot runtime.
func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// Main is the process entrypoint body shared with tests of the wiring.
func Main() error {
	return corecmd.Run(corecmd.Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			return LoadConfig(path)
		},
		Bootstrap: func(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			cfg, ok := carrier.(*Config)
			if !ok {
				return nil, fmt.Errorf("app: unexpected config type %T", carrier)
			}
			return Bootstrap(cfg)
		},
	})
}

var _ corecmd.TelegramApp = (*App)(nil)
