package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/graeme-hill/calcstuff-go/lib"
	"github.com/rs/zerolog"
	"golang.org/x/term"
)

var (
	configFile = flag.String("config", "", "path to a YAML config file")
	expression = flag.String("e", "", "evaluate one expression, print the result and exit")
	historyDSN = flag.String("history.dsn", "", "postgres connection string for persistent history (overrides config)")
)

func main() {
	flag.Parse()
	os.Exit(calcMain())
}

// calcMain returns the process exit code so that its deferred cleanup,
// including restoring the terminal, runs before main exits.
func calcMain() int {
	cfg, err := lib.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *historyDSN != "" {
		cfg.History.DSN = *historyDSN
	}

	logger, closer, err := lib.NewLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer closer.Close()

	if *expression != "" {
		return evalOnce(logger, *expression)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = run(ctx, cfg, logger)
	if errors.Is(err, context.Canceled) {
		logger.Debug().Msg("stopped by signal")
		return 0
	}
	if err != nil {
		logger.Error().Err(err).Msg("session ended with error")
		return 1
	}
	return 0
}

func evalOnce(logger zerolog.Logger, expr string) int {
	result, err := lib.Evaluate(lib.StripWhitespace(expr))
	if err != nil {
		logger.Debug().Str("expression", expr).Err(err).Msg("evaluation failed")
		fmt.Println("Error: Invalid calculation")
		return 1
	}
	fmt.Println(lib.FormatResult(result))
	return 0
}

func run(ctx context.Context, cfg lib.Config, logger zerolog.Logger) error {
	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	previous, err := store.Load(ctx, cfg.History.Limit)
	if err != nil {
		logger.Warn().Err(err).Msg("could not load history")
		previous = nil
	}

	raw := term.IsTerminal(int(os.Stdin.Fd()))
	if raw {
		state, err := term.MakeRaw(int(os.Stdin.Fd()))
		if err != nil {
			return err
		}
		defer term.Restore(int(os.Stdin.Fd()), state)
	}

	session := lib.NewSession(os.Stdin, os.Stdout, lib.SessionOptions{
		Prompt:  cfg.Prompt,
		Raw:     raw,
		History: lib.NewHistory(previous),
		Store:   store,
		Logger:  logger,
	})
	return session.Run(ctx)
}

func openStore(ctx context.Context, cfg lib.Config, logger zerolog.Logger) (lib.HistoryStore, error) {
	if cfg.History.DSN == "" {
		return lib.NewMemoryHistoryStore(), nil
	}
	store, err := lib.OpenPostgresHistory(ctx, cfg.History.DSN)
	if err != nil {
		return nil, err
	}
	logger.Debug().Msg("using postgres history")
	return store, nil
}
