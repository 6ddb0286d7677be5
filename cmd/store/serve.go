package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	carthttp "github.com/Skotchmaster/storefront/internal/cart/httpserver"
	cartrepo "github.com/Skotchmaster/storefront/internal/cart/repo"
	cartservice "github.com/Skotchmaster/storefront/internal/cart/service"
	cataloghttp "github.com/Skotchmaster/storefront/internal/catalog/httpserver"
	catalogrepo "github.com/Skotchmaster/storefront/internal/catalog/repo"
	catalogservice "github.com/Skotchmaster/storefront/internal/catalog/service"
	"github.com/Skotchmaster/storefront/internal/config"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/httpserver"
	"github.com/Skotchmaster/storefront/internal/media"
)

var serveFlags = map[string]cobraflags.Flag{
	envFileFlag: newEnvFileFlag(),
}

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE:  serveCommand,
	}
	cobraflags.RegisterMap(cmd, serveFlags)
	return cmd
}

func serveCommand(_ *cobra.Command, _ []string) error {
	cfg, logger, gdb, err := setup(serveFlags)
	if err != nil {
		return err
	}
	defer closeDB(logger, gdb)

	if err := config.MustNonEmptyBytes(cfg.JWTAccessSecret, "JWT_SECRET"); err != nil {
		logger.Error("config_error", "error", err)
		return err
	}

	var producer events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		p, err := events.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			logger.Error("kafka_producer_error", "error", err)
			return err
		}
		producer = p
	} else {
		logger.Warn("kafka_disabled", "reason", "KAFKA_BROKERS is empty")
	}
	defer func() {
		if err := producer.Close(); err != nil {
			logger.Error("kafka_close_error", "error", err)
		}
	}()

	storage := media.NewLocalStorage(cfg.MediaRoot, cfg.MediaURL)

	catalogSvc := &catalogservice.CatalogService{
		Repo:    &catalogrepo.GormRepo{DB: gdb},
		Deriver: &media.Deriver{Storage: storage},
	}
	cartSvc := &cartservice.CartService{Repo: &cartrepo.GormRepo{DB: gdb}}

	e := httpserver.New(logger, &httpserver.Deps{
		DB:             gdb,
		CatalogHandler: &cataloghttp.CatalogHTTP{Svc: catalogSvc, Storage: storage, Producer: producer},
		CartHandler:    &carthttp.CartHTTP{Svc: cartSvc, Storage: storage, Producer: producer},
		JWTSecret:      cfg.JWTAccessSecret,
		Media:          storage,
		MediaURL:       cfg.MediaURL,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http_listen", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-serveErr:
		logger.Error("http_listen_error", "error", err)
		return err
	case sig := <-stop:
		logger.Info("shutdown_start", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown_error", "error", err)
		return err
	}

	logger.Info("shutdown_complete")
	return nil
}
