package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	shttp "github.com/fwojciec/scrapehub/http"
)

// shutdownTimeout bounds how long in-flight scrapes may run after a signal.
const shutdownTimeout = 30 * time.Second

// Run executes the serve command. It blocks until the context is cancelled
// or the process receives SIGINT or SIGTERM.
func (c *ServeCmd) Run(deps *Dependencies) error {
	ctx, stop := signal.NotifyContext(deps.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := shttp.NewServer(deps.Scraper, deps.Logger)
	srv.Addr = c.Addr
	if err := srv.Open(); err != nil {
		return err
	}
	deps.Logger.Info("listening", "url", srv.URL())

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	deps.Logger.Info("shutting down")
	return srv.Close(shutdownCtx)
}
