package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"elevatorsim/api"
	"elevatorsim/config"
	"elevatorsim/elevator"
	"elevatorsim/elevio"
	"elevatorsim/engine"
	"elevatorsim/fsm"
	"elevatorsim/logger"
	"elevatorsim/network"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (defaults are used when empty)")
	httpAddr := flag.String("http", "", "HTTP listen address, overrides the config")
	kcpAddr := flag.String("kcp", "", "KCP listen address, overrides the config")
	logLevel := flag.String("loglevel", "", "log level, overrides the config")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			logger.GetLogger().Fatal().Err(err).Msg("Failed to load config")
		}
		cfg = loaded
	}
	if *httpAddr != "" {
		cfg.HTTPAddr = *httpAddr
	}
	if *kcpAddr != "" {
		cfg.KCPAddr = *kcpAddr
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	log := logger.GetLoggerConfigured(logger.ParseLevel(cfg.LogLevel))

	eng, err := engine.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start engine")
	}

	panel := elevio.NewPanel()
	eng.Subscribe(panel.Observe)
	eng.Subscribe(func(report fsm.Report, _ []elevator.Elevator) {
		if len(report.Events) > 0 && zerolog.GlobalLevel() <= zerolog.DebugLevel {
			log.Debug().Msg(panel.String())
		}
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kcpServer, err := network.Listen(cfg.KCPAddr, eng, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open KCP listener")
	}
	go func() {
		if err := kcpServer.Serve(ctx); err != nil {
			log.Error().Err(err).Msg("KCP server stopped")
		}
	}()

	httpServer := &http.Server{Addr: cfg.HTTPAddr, Handler: api.NewRouter(eng, panel, log)}
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("Serving HTTP")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("HTTP server stopped")
			stop()
		}
	}()

	if err := eng.Run(ctx); err != nil {
		log.Error().Err(err).Msg("Clock failed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	httpServer.Shutdown(shutdownCtx)
	kcpServer.Close()
	log.Info().Msg("Stopped")
}
