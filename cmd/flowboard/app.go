package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nhle/flowboard/internal/client"
	"github.com/nhle/flowboard/internal/credential"
	"github.com/nhle/flowboard/internal/logging"
	"github.com/nhle/flowboard/internal/model"
	"github.com/nhle/flowboard/internal/remote"
	"github.com/nhle/flowboard/internal/store"
)

// application holds everything a command needs, built once per run.
type application struct {
	cfg     *model.AppConfig
	logger  *logrus.Logger
	session credential.TokenStore
	client  *client.Client
}

// openApplication wires configuration, logging, session storage, the local
// store and the facade.
func openApplication(ctx context.Context, cfg *model.AppConfig, logOut io.Writer) (*application, error) {
	logger, err := logging.New(cfg.Log, logOut)
	if err != nil {
		return nil, err
	}

	session, err := openSession(cfg.Session)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(cfg.Mock.Driver, cfg.Mock.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("opening local store: %w", err)
	}
	if cfg.Mock.Seed {
		if err := store.Seed(ctx, st, time.Now()); err != nil {
			st.Close()
			return nil, fmt.Errorf("seeding local store: %w", err)
		}
	}

	opts := []client.Option{
		client.WithLogger(logger),
		client.WithSession(session),
		client.WithLatencyFactor(cfg.Mock.LatencyFactor),
	}
	if !cfg.MockMode() {
		api := remote.New(cfg.API.BaseURL, session,
			remote.WithLogger(logger),
			remote.WithTimeout(time.Duration(cfg.API.TimeoutSec)*time.Second),
			remote.WithLoginRoute(cfg.API.LoginRoute),
			remote.WithNavigator(func(route string) {
				logger.WithField("route", route).Warn("session expired, run 'flowboard login'")
			}),
		)
		opts = append(opts, client.WithRemote(api))
	}

	logger.WithFields(logrus.Fields{
		"mock":   cfg.MockMode(),
		"driver": cfg.Mock.Driver,
	}).Debug("application ready")

	return &application{
		cfg:     cfg,
		logger:  logger,
		session: session,
		client:  client.New(st, opts...),
	}, nil
}

func openSession(cfg model.SessionConfig) (credential.TokenStore, error) {
	switch cfg.Backend {
	case "memory":
		return credential.NewMemorySession(cfg.Key), nil
	case "", "keyring":
		return credential.Open(cfg.Key, cfg.FileDir)
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Backend)
	}
}

func (a *application) Close() error {
	return a.client.Close()
}
