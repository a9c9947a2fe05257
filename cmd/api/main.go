package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RobBrazier/audiodrop/internal/server"
	"github.com/rs/zerolog/log"
)

func gracefulShutdown(ctx context.Context, srv *http.Server, done chan<- struct{}) {
	<-ctx.Done()
	log.Info().Msg("shutting down gracefully")

	// purchases in flight get the same budget as the purchase route timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exiting")
	close(done)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.NewServer(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure server")
	}

	done := make(chan struct{})
	go gracefulShutdown(ctx, srv, done)

	log.Info().Str("addr", srv.Addr).Msg("Listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server error")
	}

	<-done
	log.Info().Msg("graceful shutdown complete")
}
