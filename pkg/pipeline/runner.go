package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/chartlayout/pkg/buildinfo"
	"github.com/matzehuels/chartlayout/pkg/cache"
	"github.com/matzehuels/chartlayout/pkg/layout/radial"
	"github.com/matzehuels/chartlayout/pkg/layout/text"
	"github.com/matzehuels/chartlayout/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache, the measurer and the logger.
// Multiple goroutines can safely use the same Runner with different requests.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Logger   *log.Logger
	Measurer text.Measurer
	Settings Settings

	// TTL is the lifetime of cached results. Zero uses DefaultTTL.
	TTL time.Duration

	// Concurrency bounds ExecuteBatch. Zero uses DefaultConcurrency.
	Concurrency int

	// Progress, when set, is called by ExecuteBatch after each chart is laid
	// out, with the number finished so far. Calls come from worker goroutines.
	Progress func(done, total int, res *Result)
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:    c,
		Keyer:    keyer,
		Logger:   logger,
		Measurer: text.Default(),
		Settings: DefaultSettings(),
	}
}

// Execute validates req, serves it from the cache when possible and otherwise
// computes and caches its layout.
func (r *Runner) Execute(ctx context.Context, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := req.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	hooks := observability.Pipeline()
	start := time.Now()
	hooks.OnLayoutStart(ctx, req.Kind, req.LabelCount())

	key, keyErr := r.cacheKey(req)
	if keyErr != nil {
		r.Logger.Debug("cache key unavailable", "error", keyErr)
	}

	if keyErr == nil && !req.Refresh {
		if res, ok := r.lookup(ctx, key, req.Kind); ok {
			res.ID = req.ID
			res.Stats.Cached = true
			res.Stats.Duration = time.Since(start)
			hooks.OnLayoutComplete(ctx, req.Kind, res.Stats.Duration, nil)
			r.Logger.Debug("layout from cache", "id", req.ID, "kind", req.Kind)
			return res, nil
		}
	}

	res := GenerateLayout(r.Measurer, r.Settings, req)
	res.Stats.Duration = time.Since(start)

	if keyErr == nil {
		r.store(ctx, key, req.Kind, res)
	}

	if res.Radial != nil && res.Radial.Overlapping {
		hooks.OnOverlap(ctx, req.ID, res.Radial.Count(radial.Outside))
		r.Logger.Warn("outside labels overlap", "id", req.ID, "labels", len(res.Radial.Labels))
	}
	hooks.OnLayoutComplete(ctx, req.Kind, res.Stats.Duration, nil)

	r.Logger.Debug("computed layout",
		"id", req.ID,
		"kind", req.Kind,
		"labels", res.Stats.Labels,
		"duration", res.Stats.Duration)
	return &res, nil
}

// ExecuteBatch lays out every request concurrently. Results keep the request
// order. The first failure cancels the remaining requests and is returned.
func (r *Runner) ExecuteBatch(ctx context.Context, reqs []Request) ([]*Result, error) {
	start := time.Now()
	results := make([]*Result, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	limit := r.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	g.SetLimit(limit)

	var finished atomic.Int64
	for i := range reqs {
		g.Go(func() error {
			res, err := r.Execute(gctx, reqs[i])
			if err != nil {
				return fmt.Errorf("chart %s: %w", chartName(reqs[i], i), err)
			}
			results[i] = res
			if r.Progress != nil {
				r.Progress(int(finished.Add(1)), len(reqs), res)
			}
			return nil
		})
	}
	err := g.Wait()

	observability.Pipeline().OnBatchComplete(ctx, len(reqs), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	r.Logger.Info("laid out charts", "count", len(reqs), "duration", time.Since(start).Round(time.Millisecond))
	return results, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// =============================================================================
// Caching
// =============================================================================

// cacheKey hashes the request together with the engine version, the font set
// and the settings, so changing any of them invalidates cached layouts.
func (r *Runner) cacheKey(req Request) (string, error) {
	req.Refresh = false
	req.ID = ""
	reqHash, err := cache.HashJSON(req)
	if err != nil {
		return "", err
	}
	settingsHash, err := cache.HashJSON(r.Settings)
	if err != nil {
		return "", err
	}
	return r.Keyer.LayoutKey(reqHash, cache.LayoutKeyOpts{
		Kind:     req.Kind,
		Engine:   buildinfo.Engine(),
		FontSet:  r.fontSet(),
		Settings: settingsHash,
	}), nil
}

// fontSet fingerprints the families a font-backed measurer knows about.
func (r *Runner) fontSet() string {
	if m, ok := r.Measurer.(*text.CachedMeasurer); ok {
		return strings.Join(m.Fonts().Families(), ",")
	}
	return ""
}

func (r *Runner) lookup(ctx context.Context, key, kind string) (*Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		observability.Cache().OnCacheError(ctx, kind, err)
		r.Logger.Warn("cache read failed", "backend", cache.BackendName(r.Cache), "error", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, kind)
		return nil, false
	}
	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		// Stale schema; fall through to recompute.
		observability.Cache().OnCacheMiss(ctx, kind)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, kind)
	return &res, true
}

func (r *Runner) store(ctx context.Context, key, kind string, res Result) {
	res.ID = ""
	res.Stats.Duration = 0
	data, err := json.Marshal(res)
	if err != nil {
		return
	}
	ttl := r.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		observability.Cache().OnCacheError(ctx, kind, err)
		r.Logger.Warn("cache write failed", "backend", cache.BackendName(r.Cache), "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, kind, len(data))
}

func chartName(req Request, i int) string {
	if req.ID != "" {
		return req.ID
	}
	return fmt.Sprintf("#%d", i)
}
