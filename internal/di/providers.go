package di

import (
	"context"
	"fmt"

	"VolDash/internal/domain/models"
	"VolDash/internal/domain/repository"
	"VolDash/internal/domain/service"
	"VolDash/internal/handler/api"
	internalrepo "VolDash/internal/repository"
	"VolDash/internal/service/export"
	"VolDash/internal/service/ratelimit"
	"VolDash/internal/service/render"
	"VolDash/internal/usecase"
	"VolDash/pkg/cache"
	"VolDash/pkg/config"
	xhttp "VolDash/pkg/http"
	applogger "VolDash/pkg/logger"
	"VolDash/pkg/metrics"
	"VolDash/pkg/server"

	"github.com/prometheus/client_golang/prometheus"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideTableStore creates the CSV-backed table store.
func ProvideTableStore(cfg *config.Config, l *applogger.Logger, m repository.Metrics) repository.TableStore {
	return internalrepo.NewCSVTableStore(func(name models.TableName) string {
		return cfg.TablePath(string(name))
	}, l, m)
}

// ProvideTables loads every table once. A missing file or column aborts
// startup.
func ProvideTables(store repository.TableStore) (*models.Tables, error) {
	tables, err := store.LoadAll(context.Background())
	if err != nil {
		return nil, fmt.Errorf("load tables: %w", err)
	}
	return tables, nil
}

func ProvideFilterIndex(tables *models.Tables) *usecase.FilterIndex {
	return usecase.NewFilterIndex(tables)
}

func ProvideSelectionResolver(tables *models.Tables) *usecase.SelectionResolver {
	return usecase.NewSelectionResolver(tables)
}

func ProvideChartBuilder(cfg *config.Config) *usecase.ChartBuilder {
	return usecase.NewChartBuilder(usecase.WithMoneynessSort(cfg.Charts.SortSmileByMoneyness))
}

// ProvideCache creates the chart cache: memory only, or memory in front of
// Redis when enabled. An unreachable Redis falls back to memory.
func ProvideCache(cfg *config.Config, l *applogger.Logger) cache.Service {
	memOpts := []cache.MemoryOption{
		cache.WithMemoryMaxSize(cfg.Cache.MemoryMaxSize),
		cache.WithMemoryDefaultTTL(cfg.Cache.TTL),
	}
	if !cfg.Cache.Redis.Enabled {
		return cache.NewMemoryCache(memOpts...)
	}

	rc, err := cache.NewRedisCache(
		cache.WithRedisAddr(cfg.Cache.Redis.Host, cfg.Cache.Redis.Port),
		cache.WithRedisAuth(cfg.Cache.Redis.Password, cfg.Cache.Redis.DB),
		cache.WithRedisPoolSize(cfg.Cache.Redis.PoolSize),
		cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
	)
	if err != nil {
		l.Warn("redis cache unavailable, using memory cache",
			applogger.String("host", cfg.Cache.Redis.Host),
			applogger.Int("port", cfg.Cache.Redis.Port),
			applogger.Error(err),
		)
		return cache.NewMemoryCache(memOpts...)
	}
	l.Info("redis cache connected", applogger.String("host", cfg.Cache.Redis.Host))
	return cache.NewLayeredCache(rc,
		cache.WithLayeredMemorySize(cfg.Cache.MemoryMaxSize),
		cache.WithLayeredMemoryTTL(cfg.Cache.TTL),
	)
}

// ProvideDashboard creates the dashboard use case with its cache, metrics
// and logger attached. Cached charts are keyed by the loaded table content.
func ProvideDashboard(
	tables *models.Tables,
	index *usecase.FilterIndex,
	resolver *usecase.SelectionResolver,
	builder *usecase.ChartBuilder,
	c cache.Service,
	m repository.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.Dashboard {
	d := usecase.NewDashboard(index, resolver, builder)
	d.SetCache(c, cfg.Cache.TTL)
	d.SetCacheGeneration(tables.Fingerprint())
	d.SetMetrics(m)
	d.SetLogger(l)
	return d
}

func ProvideImageRenderer() service.ImageRenderer {
	return render.NewPNGRenderer()
}

func ProvideExporter() service.Exporter {
	return export.NewXLSXExporter()
}

func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(cfg.RateLimit.Capacity, cfg.RateLimit.RefillPerSec)
}

// ProvideHTTPHandler combines the page and API handlers.
func ProvideHTTPHandler(
	l *applogger.Logger,
	dash *usecase.Dashboard,
	r service.ImageRenderer,
	ex service.Exporter,
	lim *ratelimit.Limiter,
) xhttp.Handler {
	return xhttp.Handlers{
		api.NewPagesHandler(l, dash),
		api.NewDashboardEchoHandler(l, dash, r, ex, lim),
	}
}

// ProvideHTTPServer creates the Echo server from config.
func ProvideHTTPServer(cfg *config.Config, l *applogger.Logger, h xhttp.Handler) (*xhttp.Server, error) {
	tmpl, err := api.NewTemplates()
	if err != nil {
		return nil, fmt.Errorf("templates: %w", err)
	}
	metricsPath := cfg.Metrics.Path
	if cfg.Metrics.Disabled {
		metricsPath = ""
	}
	return xhttp.NewServer(h,
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithSlowThreshold(cfg.Server.SlowThreshold),
		xhttp.WithCORS(!cfg.Server.DisableCORS),
		xhttp.WithMetrics(metricsPath, prometheus.DefaultRegisterer, prometheus.DefaultGatherer),
		xhttp.WithRenderer(tmpl),
		xhttp.WithLogger(l),
	), nil
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	srv *xhttp.Server,
	c cache.Service,
	lim *ratelimit.Limiter,
) *server.App {
	return server.New(cfg, l, srv, c, lim)
}
