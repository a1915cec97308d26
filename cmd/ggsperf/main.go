package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"ggsperf/internal/bootstrap"
	"ggsperf/internal/domain/match"
	"ggsperf/internal/report"
	"ggsperf/internal/repository"
	"ggsperf/internal/usecase/perf"
)

const usageExamples = `
Examples:
  ggsperf -s 19 -n 100 -o report.json http://localhost:3000
  ggsperf -s 9 -n 10 -w 4 -o test.json http://localhost:3000
  ggsperf --size 3 --games 5 --output - http://localhost:3000
`

func main() {
	os.Exit(run())
}

func run() int {
	flags := pflag.NewFlagSet("ggsperf", pflag.ContinueOnError)
	flags.IntP("size", "s", 19, "board size (e.g. 19 for 19x19)")
	flags.IntP("games", "n", 100, "number of games to play")
	flags.StringP("output", "o", "report.json", "report file, - for stdout")
	flags.IntP("workers", "w", 1, "games played concurrently")
	flags.DurationP("timeout", "t", 30*time.Second, "per-move request timeout")
	flags.BoolP("verbose", "v", false, "log every move")
	cfgPath := flags.String("config", ".env", "optional config file")
	version := flags.Bool("version", false, "print version and exit")
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ggsperf [flags] <server_url>\n\n%s%s", flags.FlagUsages(), usageExamples)
	}

	if err := flags.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		return 2
	}
	if *version {
		fmt.Printf("ggsperf v%s\n", report.Version)
		return 0
	}

	cfg, err := bootstrap.Setup(*cfgPath, flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to setup configuration: %v\n", err)
		return 2
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		flags.Usage()
		return 2
	}

	logger := NewLogger(cfg.Verbose)
	defer logger.Sync()

	logger.Infow("ggs performance tester",
		"server", cfg.ServerUrl,
		"board_size", fmt.Sprintf("%dx%d", cfg.BoardSize, cfg.BoardSize),
		"games", cfg.Games,
		"workers", cfg.Workers,
		"output", cfg.Output)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go handleShutdown(cancel, logger)

	npcRepo := repository.NewNpcRepository(cfg, logger)
	perfUC := perf.NewPerfUseCase(perf.SimulatorFactory(npcRepo, cfg.BoardSize, logger), cfg.Games, cfg.Workers, logger)

	stats := perfUC.Run(ctx)
	logSummary(logger, stats)

	rep := report.New(cfg.ServerUrl, cfg.BoardSize, cfg.Games, stats)
	if err := report.WriteFile(cfg.Output, report.JSONRenderer{Indent: "  "}, rep); err != nil {
		logger.Errorw("failed to write report", zap.Error(err))
		return 1
	}
	logger.Infow("report generated", "output", cfg.Output, "run_id", rep.RunID)

	if stats.Interrupted {
		logger.Warn("test interrupted by user")
		return 1
	}
	return 0
}

func NewLogger(verbose bool) *zap.SugaredLogger {
	newLogger := zap.NewProduction
	if verbose {
		newLogger = zap.NewDevelopment
	}
	logger, err := newLogger()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return logger.Sugar()
}

func logSummary(log *zap.SugaredLogger, stats match.Stats) {
	log.Infow("final results",
		"total_games", stats.TotalGames,
		"skipped_games", len(stats.Skipped),
		"total_moves", stats.TotalMoves,
		"average_game_time", fmt.Sprintf("%.1fs", stats.AverageGameTime/1000),
		"average_response_time", fmt.Sprintf("%.1fms", stats.AverageResponseTime),
		"p90_response_time", fmt.Sprintf("%.1fms", stats.P90ResponseTime),
		"response_time_range", fmt.Sprintf("%.0fms - %.0fms", stats.MinResponseTime, stats.MaxResponseTime),
		"game_time_range", fmt.Sprintf("%.1fs - %.1fs", stats.MinGameTime/1000, stats.MaxGameTime/1000))
}

func handleShutdown(cancelFunc context.CancelFunc, log *zap.SugaredLogger) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Info("Received shutdown signal")
	cancelFunc()
}
