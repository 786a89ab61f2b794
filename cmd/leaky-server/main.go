// Command leaky-server exposes decomposition and sampling over HTTP,
// mirroring the teacher's internal/app + internal/server/router pairing
// behind a single entrypoint.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/inmzhang/leaky/internal/config"
	"github.com/inmzhang/leaky/internal/httpapi"
	"github.com/inmzhang/leaky/internal/logger"
)

func main() {
	configFile := flag.String("config", "", "optional YAML config file")
	flag.Parse()

	c := config.New()
	if *configFile != "" {
		if err := c.LoadFile(*configFile); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	log := logger.NewLogger(logger.LoggerOptions{Debug: c.Debug(), Component: "leaky-server"})
	svc := httpapi.New(httpapi.Options{Log: log})

	errCh := make(chan error, 1)
	go func() {
		errCh <- svc.Listen(c.ServerPort(), false)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("httpapi service exited")
			os.Exit(1)
		}
	case <-sigCh:
		log.Info().Msg("shutting down httpapi service")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := svc.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("httpapi shutdown failed")
			os.Exit(1)
		}
	}
}
