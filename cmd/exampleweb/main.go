package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/parkerroan/callthrottle"
	"github.com/parkerroan/callthrottle/redishook"
)

type Config struct {
	Port     int                 `envconfig:"SERVER_PORT" default:"8080"`
	Throttle callthrottle.Config `envconfig:"THROTTLE"`
	RedisURL string              `envconfig:"REDIS_URL"`
	// Outbound Redis calls get their own budget.
	RedisMaxCalls int           `envconfig:"REDIS_MAX_CALLS" default:"50"`
	RedisWindow   time.Duration `envconfig:"REDIS_WINDOW" default:"1s"`
}

func main() {
	if err := loadDotEnv(".env"); err != nil {
		log.Fatalf("Error loading .env file: %v", err)
	}

	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	thr, err := callthrottle.NewAsyncFromConfig(cfg.Throttle,
		callthrottle.WithName("exampleweb"),
		callthrottle.WithLogger(logger),
	)
	if err != nil {
		log.Fatalf("Error creating throttle: %v", err)
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		redisThrottle, err := callthrottle.NewAsync(cfg.RedisMaxCalls, cfg.RedisWindow,
			callthrottle.WithName("exampleweb-redis"),
			callthrottle.WithLogger(logger),
		)
		if err != nil {
			log.Fatalf("Error creating redis throttle: %v", err)
		}

		rdb = redishook.Install(redis.NewClient(&redis.Options{
			Addr: cfg.RedisURL, // "localhost:6379"
		}), redisThrottle)
	}

	r := mux.NewRouter()

	// The access log sits outside the throttle so it sees 429s and 503s.
	r.Use(accessLog(logger, thr))
	r.Use(callthrottle.HTTPMiddleware(thr))

	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if rdb == nil {
			w.Write([]byte("Hello, World!"))
			return
		}

		hits, err := rdb.Incr(r.Context(), "exampleweb:hits").Result()
		if err != nil {
			logger.Error("counting hit", "error", err.Error())
			// A throttled Redis client surfaces as 503, anything else as 500.
			if errors.Is(err, callthrottle.ErrThrottleExceeded) || errors.Is(err, callthrottle.ErrContextEnded) {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		fmt.Fprintf(w, "Hello, World! (%d)", hits)
	})

	log.Fatal(http.ListenAndServe(fmt.Sprintf(":%d", cfg.Port), r))
}

// statusWriter remembers the status written through it.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(status int) {
	sw.status = status
	sw.ResponseWriter.WriteHeader(status)
}

// accessLog logs every request with how long it spent in the handler chain,
// which includes any time queued on thr. Throttled answers log at Warn.
func accessLog(logger *slog.Logger, thr *callthrottle.AsyncThrottle) mux.MiddlewareFunc {
	maxCalls, window := thr.LimitDetails()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()

			next.ServeHTTP(sw, r)

			level := slog.LevelInfo
			if sw.status == http.StatusTooManyRequests || sw.status == http.StatusServiceUnavailable {
				level = slog.LevelWarn
			}

			logger.Log(r.Context(), level, "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"throttle", thr.Name(),
				"policy", fmt.Sprintf("%d/%s", maxCalls, window),
				"took", time.Since(start).String(),
			)
		})
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
