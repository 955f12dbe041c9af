package di

import (
	"context"
	"fmt"
	"strings"

	"memebrowser/application/ports"
	querybus "memebrowser/application/queries/bus"
	queries_handlers "memebrowser/application/queries/handlers"
	"memebrowser/application/services"
	"memebrowser/infrastructure/config"
	"memebrowser/infrastructure/persistence/filesystem"
	"memebrowser/interfaces/http/rest"
	"memebrowser/pkg/observability"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg.IsProduction() {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}

	if cfg.LogLevel != "" {
		level, err := zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
		}
		zcfg.Level = zap.NewAtomicLevelAt(level)
	}

	return zcfg.Build()
}

// ProvideRecordStore creates the directory-backed meme store
func ProvideRecordStore(cfg *config.Config, logger *zap.Logger) (*filesystem.RecordStore, error) {
	return filesystem.NewRecordStore(cfg.BaseDir, logger)
}

// ProvideMemeStore exposes the record store through its port
func ProvideMemeStore(store *filesystem.RecordStore) ports.MemeStore {
	return store
}

// ProvideRecordDecoder creates the record codec
func ProvideRecordDecoder() ports.RecordDecoder {
	return filesystem.NewJSONRecordCodec()
}

// ProvideMetrics creates the metrics collector, or nil when metrics are disabled
func ProvideMetrics(cfg *config.Config) *observability.Collector {
	if !cfg.EnableMetrics {
		return nil
	}
	return observability.NewCollector("memebrowser")
}

// ProvideTracer creates the X-Ray tracer, or nil when tracing is disabled
func ProvideTracer(cfg *config.Config, logger *zap.Logger) (*observability.Tracer, error) {
	if !cfg.EnableTracing {
		return nil, nil
	}
	if err := observability.ConfigureTracing(logger); err != nil {
		return nil, fmt.Errorf("failed to configure X-Ray: %w", err)
	}
	return observability.NewTracer("memebrowser"), nil
}

// ProvideCloudWatchMetrics creates the CloudWatch publisher, or nil when it is disabled
func ProvideCloudWatchMetrics(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*observability.CloudWatchMetrics, error) {
	if !cfg.EnableCloudWatch {
		return nil, nil
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	namespace := fmt.Sprintf("MemeBrowser/%s", cfg.Environment)
	return observability.NewCloudWatchMetrics(namespace, cloudwatch.NewFromConfig(awsCfg), logger), nil
}

// ProvideSettings loads the hot-reloadable search settings and starts watching them.
// The live threshold is published as a gauge when metrics are enabled.
func ProvideSettings(cfg *config.Config, metrics *observability.Collector, logger *zap.Logger) (*config.Settings, func(), error) {
	settings, err := config.NewSettings(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	if metrics != nil {
		metrics.SetMatchThreshold(settings.MatchThreshold())
		settings.OnChange(func(next *config.DynamicConfig) {
			metrics.SetMatchThreshold(next.Search.MatchThreshold)
		})
	}
	settings.Start()
	return settings, settings.Stop, nil
}

// ProvideSearchSettings exposes the settings through their port
func ProvideSearchSettings(settings *config.Settings) ports.SearchSettings {
	return settings
}

// ProvideMemeLoader creates the meme loader
func ProvideMemeLoader(
	store ports.MemeStore,
	decoder ports.RecordDecoder,
	metrics *observability.Collector,
	cfg *config.Config,
	logger *zap.Logger,
) *services.MemeLoader {
	var skips ports.SkipRecorder
	if metrics != nil {
		skips = metrics
	}
	return services.NewMemeLoader(store, decoder, skips, cfg.LoadConcurrency, logger)
}

// ProvideQueryBus creates a query bus with registered handlers
func ProvideQueryBus(
	store ports.MemeStore,
	loader *services.MemeLoader,
	settings ports.SearchSettings,
	metrics *observability.Collector,
	tracer *observability.Tracer,
	cloudWatch *observability.CloudWatchMetrics,
	logger *zap.Logger,
) (*querybus.QueryBus, error) {
	middlewares := []querybus.Middleware{querybus.NewLoggingMiddleware(logger)}
	if tracer != nil {
		middlewares = append(middlewares, querybus.NewTracingMiddleware(tracer))
	}
	if metrics != nil {
		middlewares = append(middlewares, querybus.NewMetricsMiddleware(&metricsAdapter{metrics}))
	}
	if cloudWatch != nil {
		middlewares = append(middlewares, querybus.NewRecordingMiddleware(cloudWatch))
	}
	queryBus := querybus.NewQueryBus(middlewares...)

	listHandler := queries_handlers.NewListMemesHandler(store, loader, logger)
	if err := querybus.RegisterFunc(queryBus, listHandler.Handle); err != nil {
		return nil, err
	}

	searchHandler := queries_handlers.NewSearchMemesHandler(store, loader, settings, logger)
	if err := querybus.RegisterFunc(queryBus, searchHandler.Handle); err != nil {
		return nil, err
	}

	return queryBus, nil
}

// ProvideRouter creates the HTTP router
func ProvideRouter(
	queryBus *querybus.QueryBus,
	store *filesystem.RecordStore,
	settings *config.Settings,
	metrics *observability.Collector,
	cfg *config.Config,
	logger *zap.Logger,
) *rest.Router {
	return rest.NewRouter(queryBus, store, store, settings, metrics, rest.Options{
		EnableCORS: cfg.EnableCORS,
		StaticDir:  cfg.StaticDir,
		Debug:      cfg.IsDevelopment(),
	}, logger)
}

// metricsAdapter adapts the Prometheus collector to the query bus Metrics interface
type metricsAdapter struct {
	collector *observability.Collector
}

func (a *metricsAdapter) StartTimer(metric, label string) querybus.Timer {
	return timerFunc(a.collector.StartQueryTimer(queryLabel(label)))
}

func (a *metricsAdapter) Increment(metric, label string) {
	switch metric {
	case "query_success":
		a.collector.ObserveQuery(queryLabel(label), "success")
	case "query_errors":
		a.collector.ObserveQuery(queryLabel(label), "error")
	}
}

// queryLabel turns "SearchMemesQuery" into "search_memes"
func queryLabel(typeName string) string {
	name := strings.TrimSuffix(typeName, "Query")
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

type timerFunc func()

func (f timerFunc) Stop() { f() }
