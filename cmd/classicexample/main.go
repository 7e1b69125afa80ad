package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/joho/godotenv"
	"github.com/jpillora/backoff"
	"github.com/kelseyhightower/envconfig"
	"golang.org/x/sync/errgroup"

	"github.com/parkerroan/callthrottle"
)

type Config struct {
	Throttle callthrottle.Config `envconfig:"THROTTLE"`
	Callers  int                 `envconfig:"CALLERS" default:"4"`
	Calls    int                 `envconfig:"CALLS" default:"3"`
	Retries  int                 `envconfig:"RETRIES" default:"5"`
}

func main() {
	envFile := flag.String("env", ".env", "optional dotenv file applied before reading the environment")
	flag.Parse()

	if err := loadDotEnv(*envFile); err != nil {
		log.Fatalf("Error loading %s: %v", *envFile, err)
	}

	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	thr, err := callthrottle.NewAsyncFromConfig(cfg.Throttle,
		callthrottle.WithName("classicexample"),
		callthrottle.WithLogger(logger),
	)
	if err != nil {
		log.Fatalf("Error creating throttle: %v", err)
	}

	var served int64
	call := callthrottle.WrapContext(thr, func(ctx context.Context, caller int) (int64, error) {
		return atomic.AddInt64(&served, 1), nil
	})

	g, ctx := errgroup.WithContext(context.Background())
	for i := 1; i <= cfg.Callers; i++ {
		caller := i
		g.Go(func() error {
			for j := 0; j < cfg.Calls; j++ {
				n, err := callWithRetry(ctx, call, caller, cfg.Retries)
				if err != nil {
					return fmt.Errorf("caller %d: %w", caller, err)
				}
				logger.Info("call served", "caller", caller, "n", n)
			}
			return nil
		})
	}

	start := time.Now()
	if err := g.Wait(); err != nil {
		log.Fatalf("Error calling throttled function: %v", err)
	}

	logger.Info("done", "served", atomic.LoadInt64(&served), "took", time.Since(start).String())
}

// callWithRetry retries rejected calls with an exponential backoff. The
// throttle itself never retries.
func callWithRetry(ctx context.Context, call func(context.Context, int) (int64, error), caller, retries int) (int64, error) {
	b := &backoff.Backoff{
		Min:    50 * time.Millisecond,
		Max:    2 * time.Second,
		Factor: 2,
		Jitter: true,
	}

	for {
		n, err := call(ctx, caller)
		if err == nil || !errors.Is(err, callthrottle.ErrThrottleExceeded) {
			return n, err
		}

		if int(b.Attempt()) >= retries {
			return 0, err
		}

		select {
		case <-time.After(b.Duration()):
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
}

// loadDotEnv sets the variables in path that are not set already. A missing
// file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	return nil
}
