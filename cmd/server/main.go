package main

import (
	"context"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ordivo/shopkit/modules/contact"
	"github.com/ordivo/shopkit/modules/order"
	"github.com/ordivo/shopkit/pkg/config"
	"github.com/ordivo/shopkit/pkg/httpserver"
	"github.com/ordivo/shopkit/pkg/logger"
	"github.com/ordivo/shopkit/pkg/mailer"
	"github.com/ordivo/shopkit/pkg/pg"
)

func main() {
	ctx := context.Background()

	var (
		logCfg  logger.Config
		pgCfg   pg.Config
		mailCfg mailer.Config
		httpCfg httpserver.Config
	)
	config.MustLoad(&logCfg)
	config.MustLoad(&pgCfg)
	config.MustLoad(&mailCfg)
	config.MustLoad(&httpCfg)

	log := logger.NewFromConfig(logCfg, logger.WithService("shopkit"))
	logger.SetAsDefault(log)

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		log.ErrorContext(ctx, "database connection failed", logger.Error(err))
		os.Exit(1)
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, pgCfg, log); err != nil {
		log.ErrorContext(ctx, "migrations failed", logger.Error(err))
		os.Exit(1)
	}

	mailSvc := mailer.MustNewService(mailCfg, log)

	contactStorage, err := contact.NewPGStorage(pool)
	if err != nil {
		log.ErrorContext(ctx, "contact storage setup failed", logger.Error(err))
		os.Exit(1)
	}
	contactSvc, err := contact.NewService(contactStorage, mailSvc, log)
	if err != nil {
		log.ErrorContext(ctx, "contact service setup failed", logger.Error(err))
		os.Exit(1)
	}

	orderStorage, err := order.NewPGStorage(pool)
	if err != nil {
		log.ErrorContext(ctx, "order storage setup failed", logger.Error(err))
		os.Exit(1)
	}
	orderSvc, err := order.NewService(orderStorage, mailSvc, log)
	if err != nil {
		log.ErrorContext(ctx, "order service setup failed", logger.Error(err))
		os.Exit(1)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Get("/health", httpserver.HealthCheckHandler(log, pg.Healthcheck(pool)))
	r.Mount("/contacts", contact.Router(contactSvc))
	r.Mount("/orders", order.Router(orderSvc))

	if err := httpserver.New(httpCfg, log).Run(ctx, r); err != nil {
		log.ErrorContext(ctx, "server exited with error", logger.Error(err))
		os.Exit(1)
	}
}
