// README: Smoke and load runner; checks a running voyager deployment and prints a summary.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := loadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	results := NewRunner(cfg).RunAll(ctx)

	fmt.Println("\n== Summary ==")
	counts := map[string]int{}
	for _, r := range results {
		counts[r.Status]++
	}
	fmt.Printf("PASS=%d FAIL=%d PENDING=%d SKIP=%d\n", counts[statusPass], counts[statusFail], counts[statusPending], counts[statusSkip])

	if counts[statusFail] > 0 || (cfg.Strict && counts[statusPending] > 0) {
		os.Exit(1)
	}
}

type Config struct {
	BaseURL     string
	DSN         string
	RedisAddr   string
	Token       string
	Migrate     bool
	Generate    bool
	Strict      bool
	Timeout     time.Duration
	Concurrency int
	Duration    time.Duration
}

func loadConfig() Config {
	var cfg Config
	flag.StringVar(&cfg.BaseURL, "base-url", envOrDefault("VOYAGER_BENCH_BASE_URL", "http://localhost:8080"), "API base URL")
	flag.StringVar(&cfg.DSN, "dsn", os.Getenv("VOYAGER_DB_DSN"), "Postgres DSN")
	flag.StringVar(&cfg.RedisAddr, "redis", os.Getenv("VOYAGER_REDIS_ADDR"), "Redis address")
	flag.StringVar(&cfg.Token, "token", os.Getenv("VOYAGER_BENCH_TOKEN"), "Firebase ID token for authenticated checks")
	flag.BoolVar(&cfg.Migrate, "migrate", false, "Apply embedded migrations before checking tables")
	flag.BoolVar(&cfg.Generate, "generate", false, "Run one real trip generation (spends a quota token)")
	flag.BoolVar(&cfg.Strict, "strict", false, "Fail on pending checks")
	flag.DurationVar(&cfg.Timeout, "timeout", 3*time.Minute, "Total timeout")
	flag.IntVar(&cfg.Concurrency, "concurrency", 20, "Concurrent clients for the load check")
	flag.DurationVar(&cfg.Duration, "duration", 10*time.Second, "Duration of the load check")
	flag.Parse()
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return cfg
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
