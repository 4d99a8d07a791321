package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/fatih/color"
	_ "github.com/joho/godotenv/autoload"
	"github.com/phsym/zeroslog"
	"github.com/rs/zerolog"

	"github.com/scoutrun/routescout/config"
	"github.com/scoutrun/routescout/internal/repl"
	"github.com/scoutrun/routescout/pkg/slogx"
	"github.com/scoutrun/routescout/scout"
)

var log zerolog.Logger

func init() {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Stamp}
	log = zerolog.New(output).With().Timestamp().Logger()
	slog.SetDefault(slog.New(
		zeroslog.NewHandler(log, &zeroslog.HandlerOptions{Level: slog.LevelDebug}),
	))
}

func main() {
	settings, err := config.FromEnv()
	if err != nil {
		slog.Error("failed to load settings", slogx.Error(err))
		os.Exit(1)
	}
	zerolog.SetGlobalLevel(settings.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	crew, err := scout.New(settings)
	if err != nil {
		slog.Error("failed to build scout", slogx.Error(err))
		os.Exit(1)
	}

	// One-shot mode: pass the query as arguments.
	if len(os.Args) > 1 {
		query := strings.Join(os.Args[1:], " ")
		if err := runOnce(ctx, crew, query); err != nil {
			slog.Error("scouting run failed", slogx.Error(err))
			os.Exit(1)
		}
		return
	}

	fmt.Println(color.GreenString("route scout") + " - where are you running today? (exit to quit)")
	if err := repl.Run(ctx, crew); err != nil {
		slog.Error("console failed", slogx.Error(err))
		os.Exit(1)
	}
}

func runOnce(ctx context.Context, crew *scout.Scout, query string) error {
	result := make(chan string, 1)
	hook := &resultHook{result: result}
	if err := crew.Run(ctx, query, hook); err != nil {
		return err
	}

	select {
	case briefing := <-result:
		fmt.Println(briefing)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
