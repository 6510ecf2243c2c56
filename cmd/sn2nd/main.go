package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/amberpixels/sn2n/internal/config"
	"github.com/amberpixels/sn2n/internal/httpapi"
	"github.com/amberpixels/sn2n/internal/notion"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

var in struct {
	DevMode bool `help:"Dev mode (verbose logging, stack traces on fatal errors)." env:"DEV_MODE"`
}

func main() {
	err := godotenv.Load(".env")
	if os.IsNotExist(err) {
		// having .env is optional, so we're OK here
	} else if err != nil {
		slog.Warn("failed to read .env: " + err.Error())
	}

	_ = kong.Parse(&in)

	cfg, err := config.Load()
	if err != nil {
		ExitWithError("invalid configuration", err)
	}
	if in.DevMode {
		cfg.VerboseLogging = true
	}

	logLevel := slog.LevelInfo
	if cfg.VerboseLogging {
		logLevel = slog.LevelDebug
	}
	slog.SetLogLoggerLevel(logLevel)
	logger := slog.Default()

	httpapi.Version = version

	client := notion.New(cfg.NotionToken, cfg.NotionVersion,
		notion.WithRateLimit(cfg.NotionRateLimitRPS),
		notion.WithBatchSize(cfg.NotionBatchSize),
		notion.WithLogger(logger),
	)

	handler := httpapi.NewHandler(client, cfg, logger)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpapi.NewMux(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer stop()

	go func() {
		logger.Info("sn2n: listening", "port", cfg.Port, "version", version)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			ExitWithError("server failed", err)
		}
	}()

	<-ctx.Done()
	logger.Info("sn2n: shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("sn2n: shutdown error", "err", err)
	}
}

// ExitWithError outputs an error message and exits the program with a non-zero status code.
func ExitWithError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", msg, err)
	if in.DevMode {
		_, _ = os.Stderr.Write(debug.Stack())
	}
	os.Exit(1)
}
