package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/rankview/internal/adapters/tui"
	service "github.com/okian/rankview/internal/app"
	"github.com/okian/rankview/internal/config"
	"github.com/okian/rankview/internal/domain/model"
	"github.com/okian/rankview/pkg/logger"
)

const logFileMode = 0o600

func main() {
	var (
		channel = flag.String("type", "", "Leaderboard to open: ranked or vanilla (default from config)")
		data    = flag.String("data", "", "Dataset JSON file (overrides RANKVIEW_DATA_FILE)")
		logPath = flag.String("log", "rankview-tui.log", "File that receives logs while the terminal is in use")
	)
	flag.Parse()

	logFile, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFileMode)
	if err != nil {
		os.Stderr.WriteString("failed to open log file: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logFile.Close()

	if err := logger.InitWithWriter(logFile); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *data != "" {
		cfg.DataFile = *data
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		_ = logger.SetLevelString("info")
	}

	ch := cfg.Channel()
	if *channel != "" {
		ch, _ = model.ParseChannel(*channel)
	}

	l := logger.Get()
	svc := service.New(
		service.WithLogger(l),
		service.WithDataFile(cfg.DataFile),
		service.WithMemoSize(cfg.MemoSize),
		service.WithWarmupWorkers(cfg.WarmupWorkers),
		service.WithHotStreak(cfg.HotStreak),
		service.WithDefaultChannel(ch),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer svc.Stop()

	err = tui.Run(ctx, svc,
		tui.WithChannel(ch),
		tui.WithOverscan(cfg.Overscan),
		tui.WithSearchDebounce(time.Duration(cfg.SearchDebounceMS)*time.Millisecond),
		tui.WithLogger(l.Named("tui")),
	)
	if err != nil {
		l.Error(ctx, "terminal client failed", logger.Error(err))
		os.Stderr.WriteString(err.Error() + "\n")
	}
}
