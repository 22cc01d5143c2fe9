package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/scrapehub"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
	Scraper scrapehub.Scraper
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Timeout     time.Duration `default:"30s" env:"SCRAPEHUB_TIMEOUT" help:"Per-request fetch timeout"`
	Concurrency int           `short:"c" default:"1" env:"SCRAPEHUB_CONCURRENCY" help:"Concurrent article fetch limit"`
	Retries     int           `default:"0" env:"SCRAPEHUB_RETRIES" help:"Retries per failed fetch, with exponential backoff from 1s"`
	LogLevel    string        `default:"info" enum:"debug,info,warn,error" env:"SCRAPEHUB_LOG_LEVEL" help:"Log level (debug, info, warn, error)"`
	Impersonate bool          `default:"true" negatable:"" env:"SCRAPEHUB_IMPERSONATE" help:"Present a Chrome TLS fingerprint"`

	Serve  ServeCmd  `cmd:"" help:"Serve the scrape API over HTTP"`
	Scrape ScrapeCmd `cmd:"" help:"Scrape an index page and print the results as JSON"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `default:":8000" env:"SCRAPEHUB_ADDR" help:"Listen address"`
}

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct {
	URL   string `arg:"" help:"Index page URL"`
	Debug bool   `short:"d" help:"Print the link classification report instead of articles"`
}
