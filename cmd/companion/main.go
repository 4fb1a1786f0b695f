package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"stock-companion/internal/interfaces"
	"stock-companion/internal/logger"
	"stock-companion/internal/report"
	"stock-companion/internal/store"
	"stock-companion/internal/watch"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	watchMode := flag.Bool("watch", false, "run the watch scheduler instead of the interactive shell")
	flag.Parse()

	must(initializeSystem())
	ctx := context.Background()
	defer func() {
		if err := logger.Shutdown(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Logger shutdown error: %v\n", err)
		}
	}()

	cfg, err := loadConfig(ctx, *configPath)
	must(err)

	adv, err := initializeAdvisor(ctx, cfg)
	must(err)

	writer, recLog := initializeReporting(ctx, cfg)

	if *watchMode {
		runWatch(ctx, cfg, adv, recLog)
		return
	}

	sh := newShell(cfg, adv, writer, recLog)
	if sym := flag.Arg(0); sym != "" {
		sh.setSymbol(sym)
	}
	sh.run(ctx)
}

func runWatch(ctx context.Context, cfg *store.Config, adv interfaces.Advisor, recLog *report.Log) {
	if len(cfg.Watch.Symbols) == 0 {
		fmt.Fprintln(os.Stderr, "Watch mode requires watch.symbols in the config")
		os.Exit(1)
	}
	s := watch.New(ctx, cfg, adv, recLog)
	must(s.Register())
	s.Start()
	waitForShutdown(ctx, s)
}

func must(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Fatal: %v\n", err)
		os.Exit(1)
	}
}

func waitForShutdown(ctx context.Context, s *watch.Scheduler) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info(ctx, "Shutdown signal received")
	s.Stop()
}
