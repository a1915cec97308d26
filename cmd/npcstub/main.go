package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"ggsperf/internal/bootstrap"
	npcDelivery "ggsperf/internal/delivery/npc"
)

func main() {
	logger := NewLogger()
	defer logger.Sync()

	flags := pflag.NewFlagSet("npcstub", pflag.ExitOnError)
	flags.StringP("listen", "l", ":3000", "listen address")
	flags.DurationP("delay", "d", 0, "artificial delay per move")
	cfgPath := flags.String("config", ".env", "optional config file")
	_ = flags.Parse(os.Args[1:])

	cfg, err := bootstrap.Setup(*cfgPath, flags)
	if err != nil {
		logger.Error("Failed to setup configuration", zap.Error(err))
		return
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	npcDelivery.NewNpcHandler(*cfg, logger).Router(r)

	srv := &http.Server{
		Addr:              cfg.NpcListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 3 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleShutdown(cancel, logger)
	go func() {
		<-ctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Infof("NPC stub is running on %s", cfg.NpcListenAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

func NewLogger() *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return logger.Sugar()
}

func handleShutdown(cancelFunc context.CancelFunc, log *zap.SugaredLogger) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Info("Received shutdown signal")
	cancelFunc()
}
