// README: Smoke checks (Postgres, Redis, migrations, HTTP auth and generation) and a /health load check.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"voyager/internal/infra"
)

const (
	statusPass    = "PASS"
	statusFail    = "FAIL"
	statusPending = "PENDING"
	statusSkip    = "SKIP"
)

var expectedTables = []string{"users", "user_preferences", "trips", "trip_events", "ai_usage"}

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
	redis *redis.Client
}

type Result struct {
	Status  string
	Latency time.Duration
	Note    string
}

type Check struct {
	Name string
	Run  func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{cfg: cfg, httpc: &http.Client{Timeout: 2 * time.Minute}}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		if db, err := infra.NewDB(ctx, r.cfg.DSN); err == nil {
			r.db = db
			defer db.Close()
		}
	}
	if r.cfg.RedisAddr != "" {
		if rc, err := infra.NewRedis(ctx, r.cfg.RedisAddr, "", 0); err == nil {
			r.redis = rc
			defer rc.Close()
		}
	}

	checks := r.checks()
	results := make([]Result, 0, len(checks))
	for _, c := range checks {
		res := c.Run(ctx, r)
		results = append(results, res)
		fmt.Printf("%-7s %s", res.Status, c.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency.Round(time.Millisecond))
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}
	return results
}

func (r *Runner) checks() []Check {
	base := r.cfg.BaseURL
	return []Check{
		{"Env: Postgres connect", func(ctx context.Context, r *Runner) Result {
			if r.db == nil {
				return Result{Status: statusSkip, Note: "no dsn or connect failed"}
			}
			ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
			defer cancel()
			if err := r.db.Ping(ctx); err != nil {
				return Result{Status: statusFail, Note: err.Error()}
			}
			return Result{Status: statusPass}
		}},
		{"Env: Redis connect", func(ctx context.Context, r *Runner) Result {
			if r.redis == nil {
				return Result{Status: statusSkip, Note: "no redis address or ping failed"}
			}
			return Result{Status: statusPass}
		}},
		{"Migration: apply", func(ctx context.Context, r *Runner) Result {
			if !r.cfg.Migrate || r.cfg.DSN == "" {
				return Result{Status: statusSkip, Note: "migrate=false"}
			}
			if err := infra.RunMigrations(r.cfg.DSN, zap.NewNop()); err != nil {
				return Result{Status: statusFail, Note: err.Error()}
			}
			return Result{Status: statusPass}
		}},
		{"Migration: tables exist", func(ctx context.Context, r *Runner) Result {
			if r.db == nil {
				return Result{Status: statusSkip, Note: "db not configured"}
			}
			for _, t := range expectedTables {
				var exists bool
				err := r.db.QueryRow(ctx,
					"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name=$1)", t,
				).Scan(&exists)
				if err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				if !exists {
					return Result{Status: statusFail, Note: "missing table: " + t}
				}
			}
			return Result{Status: statusPass}
		}},
		httpCheck("API: health", http.MethodGet, base+"/health", nil, "", []int{200}),
		httpCheck("API: trips without token -> 401", http.MethodGet, base+"/api/trips", nil, "", []int{401}),
		httpCheck("API: trips with bad token -> 401", http.MethodGet, base+"/api/trips", nil, "not-a-token", []int{401}),
		r.authedCheck("API: list trips", http.MethodGet, base+"/api/trips", nil, []int{200}),
		r.authedCheck("API: quota", http.MethodGet, base+"/api/users/me/quota", nil, []int{200}),
		r.authedCheck("API: generate invalid -> 400", http.MethodPost, base+"/api/trips/generate",
			map[string]any{"destination": ""}, []int{400}),
		{"API: generate Goa trip", func(ctx context.Context, r *Runner) Result {
			if !r.cfg.Generate || r.cfg.Token == "" {
				return Result{Status: statusSkip, Note: "generate=false or no token"}
			}
			return r.generate(ctx, base+"/api/trips/generate")
		}},
		{"Load: /health", func(ctx context.Context, r *Runner) Result {
			return r.load(ctx, base+"/health")
		}},
	}
}

func (r *Runner) authedCheck(name, method, url string, body any, ok []int) Check {
	if r.cfg.Token == "" {
		return Check{name, func(context.Context, *Runner) Result {
			return Result{Status: statusPending, Note: "no token"}
		}}
	}
	return httpCheck(name, method, url, body, r.cfg.Token, ok)
}

func httpCheck(name, method, url string, body any, token string, ok []int) Check {
	return Check{name, func(ctx context.Context, r *Runner) Result {
		code, _, latency, err := r.do(ctx, method, url, body, token)
		if err != nil {
			return Result{Status: statusFail, Note: err.Error()}
		}
		note := fmt.Sprintf("status=%d", code)
		for _, s := range ok {
			if s == code {
				return Result{Status: statusPass, Latency: latency, Note: note}
			}
		}
		return Result{Status: statusFail, Latency: latency, Note: note}
	}}
}

func (r *Runner) do(ctx context.Context, method, url string, body any, token string) (int, []byte, time.Duration, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, 0, err
		}
		reader = strings.NewReader(string(b))
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	start := time.Now()
	resp, err := r.httpc.Do(req)
	if err != nil {
		return 0, nil, 0, err
	}
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	return resp.StatusCode, out, time.Since(start), err
}

func (r *Runner) generate(ctx context.Context, url string) Result {
	code, body, latency, err := r.do(ctx, http.MethodPost, url, map[string]any{
		"destination":   "Goa",
		"numberOfDays":  3,
		"travelerCount": 2,
		"transportMode": "train",
		"budget":        map[string]any{"amount": 45000, "type": "total", "duration": "entire_trip"},
	}, r.cfg.Token)
	if err != nil {
		return Result{Status: statusFail, Note: err.Error()}
	}
	if code != http.StatusOK {
		return Result{Status: statusFail, Latency: latency, Note: fmt.Sprintf("status=%d %s", code, body)}
	}
	var plan struct {
		ID            string `json:"id"`
		Itinerary     []any  `json:"itinerary"`
		Accommodation []struct {
			Image string `json:"image"`
		} `json:"accommodation"`
	}
	if err := json.Unmarshal(body, &plan); err != nil {
		return Result{Status: statusFail, Latency: latency, Note: err.Error()}
	}
	switch {
	case plan.ID == "":
		return Result{Status: statusFail, Latency: latency, Note: "missing id"}
	case len(plan.Itinerary) != 3:
		return Result{Status: statusFail, Latency: latency, Note: fmt.Sprintf("itinerary days=%d", len(plan.Itinerary))}
	case len(plan.Accommodation) == 0 || plan.Accommodation[0].Image == "":
		return Result{Status: statusFail, Latency: latency, Note: "accommodation without image"}
	}
	return Result{Status: statusPass, Latency: latency, Note: "trip=" + plan.ID}
}

// load hammers url with Concurrency clients for Duration and reports rps and p95.
func (r *Runner) load(ctx context.Context, url string) Result {
	end := time.Now().Add(r.cfg.Duration)
	var mu sync.Mutex
	var latencies []time.Duration
	var errCount int

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < r.cfg.Concurrency; i++ {
		g.Go(func() error {
			for time.Now().Before(end) && gctx.Err() == nil {
				code, _, latency, err := r.do(gctx, http.MethodGet, url, nil, "")
				mu.Lock()
				if err != nil || code != http.StatusOK {
					errCount++
				} else {
					latencies = append(latencies, latency)
				}
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(latencies) == 0 {
		return Result{Status: statusFail, Note: "no requests completed"}
	}
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
	p95 := latencies[len(latencies)*95/100]
	rps := float64(len(latencies)) / r.cfg.Duration.Seconds()
	return Result{Status: statusPass, Note: fmt.Sprintf("rps=%.1f p95=%s errors=%d", rps, p95, errCount)}
}
