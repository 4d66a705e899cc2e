package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/gorushbn/pharmacydash/internal/config"
	"github.com/gorushbn/pharmacydash/internal/model"
	"github.com/gorushbn/pharmacydash/internal/repository/pg"
	"github.com/gorushbn/pharmacydash/internal/repository/upstream"
	"github.com/gorushbn/pharmacydash/internal/service"
	"github.com/gorushbn/pharmacydash/pgk/logger"

	httpController "github.com/gorushbn/pharmacydash/internal/controller/http"
)

func Run(cfg config.Config, lg *zap.SugaredLogger) error {
	storage, err := pg.New(cfg.DatabaseURI)
	if err != nil {
		return err
	}

	orders := upstream.New(cfg.OrdersAPIAddress, lg)
	orders.RunHealthPinger(cfg.PingInterval)

	s := service.New(orders, storage, lg, service.Options{
		TokenSecret: cfg.SecretKey,
		TokenExp:    cfg.TokenLifetime,
		CacheTTL:    cfg.CacheTTL,
		BulkWorkers: cfg.BulkWorkers,
		KeyHashes:   accessKeyHashes(cfg),
	})

	router := chi.NewRouter()

	router.Use(logger.LoggingMiddleware(lg))
	router.Use(middleware.Recoverer)

	handlers := httpController.New(s, lg)
	router = httpController.InitRoutes(router, handlers)

	srv := &http.Server{
		Addr:    cfg.RunAddress,
		Handler: router,
	}

	signalCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lg.Infof("starting server on %s", cfg.RunAddress)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatalf("server ListenAndServe error: %v", err)
		}
	}()

	<-signalCtx.Done()
	lg.Info("shutting down server...")

	orders.StopHealthPinger()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown (server) error: %v", err)
	}

	if err := storage.Shutdown(); err != nil {
		return fmt.Errorf("shutdown (repo) error: %v", err)
	}

	lg.Info("server shutdown success")
	return nil
}

// accessKeyHashes collects the configured per-role key hashes; roles without
// a hash are left out and cannot open token sessions.
func accessKeyHashes(cfg config.Config) map[model.Role]string {
	hashes := make(map[model.Role]string, 3)
	for role, hash := range map[model.Role]string{
		model.RoleGoRush: cfg.GoRushKeyHash,
		model.RoleJPMC:   cfg.JPMCKeyHash,
		model.RoleMOH:    cfg.MOHKeyHash,
	} {
		if hash != "" {
			hashes[role] = hash
		}
	}
	return hashes
}
