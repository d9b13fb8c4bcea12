package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/soocke/splash-bot-go/app"
	"github.com/soocke/splash-bot-go/config"
	boterrors "github.com/soocke/splash-bot-go/domain/errors"
)

func main() {
	cfgPath := flag.String("config", "config.json", "path to JSON configuration")
	window := flag.String("window", "", "title of the game window (overrides config)")
	templates := flag.String("templates", "", "bobber template directory (overrides config)")
	debugMode := flag.Bool("debug", false, "enable debug logging and runtime stats")
	withUI := flag.Bool("ui", false, "show the status window")
	maxCycles := flag.Int("max-cycles", -1, "stop after this many cycles (0 runs forever)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		NewLogger(slog.LevelInfo).Error("config load failed, using defaults", "path", *cfgPath, "error", err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "window":
			cfg.WindowTitle = *window
		case "templates":
			cfg.TemplateDir = *templates
		case "debug":
			cfg.Debug = *debugMode
		case "ui":
			cfg.UI = *withUI
		case "max-cycles":
			cfg.MaxCycles = *maxCycles
		}
	})
	_ = cfg.Validate()

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := NewLogger(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := app.BuildContainer(cfg, logger)
	if err != nil {
		fatal(logger, "startup failed", err)
	}
	application := app.NewApp(c)
	if cfg.UI {
		err = application.RunUI(ctx)
	} else {
		err = application.Run(ctx)
	}
	if err != nil {
		fatal(logger, "bot stopped", err)
	}
	st := c.Cycle.Stats()
	logger.Info("bot finished", "cycles", st.Cycles, "catches", st.Catches, "timeouts", st.Timeouts)
}

// fatal logs err with its classification and exits non-zero.
func fatal(logger *slog.Logger, msg string, err error) {
	attrs := []any{"error", err}
	var be *boterrors.BotError
	if errors.As(err, &be) {
		attrs = append(attrs, "kind", be.Kind.String(), "stage", be.Stage)
		for k, v := range be.Metadata {
			attrs = append(attrs, k, v)
		}
	}
	logger.Error(msg, attrs...)
	os.Exit(1)
}
