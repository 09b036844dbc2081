package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/Wyydra/callrelay/internal/adapter/driven/gateway/ws"
	"github.com/Wyydra/callrelay/internal/adapter/driven/provider/openai"
	"github.com/Wyydra/callrelay/internal/adapter/driven/webhook"
	handler "github.com/Wyydra/callrelay/internal/adapter/driving/http"
	"github.com/Wyydra/callrelay/internal/config"
	"github.com/Wyydra/callrelay/internal/core/service"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := config.LoadEnv(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("Failed to load env file")
	}

	cfg, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	l := cfg.NewLogger(os.Stdout)

	verifier := webhook.NewVerifier(cfg.WebhookSecret)
	acceptor := openai.NewAcceptor(cfg.APIBase, cfg.APIKey, openai.SessionConfig{
		Model:        cfg.Model,
		Voice:        cfg.Voice,
		Instructions: cfg.Instructions,
	}, cfg.AcceptTimeout)
	dialer := ws.NewDialer(cfg.RealtimeURL, cfg.APIKey)

	hub := service.NewRelayHub(dialer, service.RelayOptions{
		Greeting:    cfg.Greeting,
		MaxDuration: cfg.RelayMaxDuration,
	})
	callService := service.NewCallService(acceptor, hub)
	h := handler.NewHandler(verifier, callService, hub)

	addr := ":" + strconv.Itoa(cfg.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: h.NewRouter(),
	}

	go func() {
		l.Info().Str("addr", addr).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	l.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		l.Error().Err(err).Msg("Server forced to shutdown")
	}

	if err := hub.Stop(ctx); err != nil {
		l.Error().Err(err).Int("running", len(hub.Sessions())).Msg("Relays did not stop in time")
	}
	l.Info().Msg("Server exited")
}
