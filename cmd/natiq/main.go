// cmd/natiq/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Parhamfakhar1/natiq/internal/core"
	"github.com/Parhamfakhar1/natiq/internal/engine"
	"github.com/Parhamfakhar1/natiq/internal/memory"
	"github.com/Parhamfakhar1/natiq/internal/model"
	"github.com/Parhamfakhar1/natiq/internal/monitoring"
	"github.com/Parhamfakhar1/natiq/internal/security"
	"github.com/Parhamfakhar1/natiq/pkg/api"
)

var (
	configFile = flag.String("config", "config/default.yaml", "Configuration file path")
	port       = flag.Int("port", 8080, "API server port")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	askFlag    = flag.String("ask", "", "Answer a single question and exit")
	batchFile  = flag.String("batch", "", "Answer every line of a file (- for stdin) as JSONL and exit")
	styleFlag  = flag.String("style", "", "Response style: formal or friendly")
	workers    = flag.Int("workers", runtime.NumCPU(), "Concurrent workers in batch mode")
)

// تعاریف انواع
type Components struct {
	Engine  *engine.Engine
	Dossier *memory.Dossier
	Store   *memory.SQLiteStore
	Archive *memory.Archive
	Cache   *memory.AnswerCache
	Metrics *monitoring.Metrics
}

type Services struct {
	Watcher   *memory.Watcher
	WebSocket *api.WebSocketServer
}

func main() {
	flag.Parse()

	// راه‌اندازی logger
	setupLogger()

	// بارگذاری تنظیمات
	config, err := loadConfig(*configFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if *styleFlag != "" {
		config.System.DefaultStyle = *styleFlag
		if err := validateConfig(config); err != nil {
			log.Fatal().Err(err).Msg("Invalid -style")
		}
	}
	logFile := configureLogging(config.Logging, *verbose || config.System.Debug)
	if logFile != nil {
		defer logFile.Close()
	}

	// ایجاد context با قابلیت cancel
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// حالت‌های خط فرمان بدون سرور
	if *askFlag != "" || *batchFile != "" {
		code := runCLI(ctx, config)
		if logFile != nil {
			logFile.Close()
		}
		os.Exit(code)
	}

	log.Info().Msg("🚀 Starting Natiq")
	log.Info().Msg("==============================")

	// مدیریت سیگنال‌های سیستم
	setupSignalHandler(cancel)

	// نمایش اطلاعات سیستم
	printSystemInfo(config)

	// راه‌اندازی کامپوننت‌ها
	components, err := setupComponents(config)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to setup components")
	}

	// راه‌اندازی سرویس‌ها
	services, err := startServices(ctx, config, components)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start services")
	}

	// راه‌اندازی API سرور
	apiServer, err := api.NewServer(config.API, api.Dependencies{
		Engine:  components.Engine,
		Metrics: components.Metrics,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create API server")
	}

	go func() {
		if err := apiServer.Start(fmt.Sprintf(":%d", *port)); err != nil {
			log.Fatal().Err(err).Msg("API server failed")
		}
	}()

	// شروع جمع‌آوری آمار
	go collectMetrics(ctx, components, config.Metrics.ReportInterval)

	log.Info().Msg("✅ Natiq is ready!")
	log.Info().Msg("==============================")

	// نگه داشتن برنامه فعال
	<-ctx.Done()

	// توقف تمیز
	shutdown(apiServer, services, components)

	log.Info().Msg("👋 Natiq shutdown complete")
}

func runCLI(ctx context.Context, config *Config) int {
	// آرشیو و متریک در حالت خط فرمان لازم نیست
	config.Memory.ArchivePath = ""
	config.Metrics.Enabled = false

	components, err := setupComponents(config)
	if err != nil {
		log.Error().Err(err).Msg("Failed to setup components")
		return 1
	}
	defer closeComponents(components)

	c := core.Context{Style: config.System.DefaultStyle, UserID: "cli"}

	if *askFlag != "" {
		printAnswer(os.Stdout, components.Engine.Answer(ctx, *askFlag, c))
		return 0
	}

	summary, err := runBatch(ctx, components.Engine, *batchFile, c, *workers, os.Stdout, os.Stderr)
	if err != nil {
		log.Error().Err(err).Msg("Batch failed")
		return 1
	}
	printSummary(os.Stderr, summary)
	return 0
}

func setupSignalHandler(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()

		// اگر بعد از 15 ثانیه هنوز اجراست، force kill
		time.Sleep(15 * time.Second)
		log.Error().Msg("Force shutdown after timeout")
		os.Exit(1)
	}()
}

func printSystemInfo(config *Config) {
	log.Info().Msgf("System: %s v%s", config.System.Name, config.System.Version)
	log.Info().Msgf("Mode: %s", config.System.Mode)
	log.Info().Msgf("Default style: %s", config.System.DefaultStyle)
	log.Info().Msgf("Cache: %d entries, ttl %s", config.Memory.CacheSize, config.Memory.CacheTTL)
	log.Info().Msgf("Rate limit: %.1f req/s, burst %d", config.API.RateLimit, config.API.RateBurst)
}

func setupComponents(config *Config) (*Components, error) {
	components := &Components{}
	guard := security.NewPrivacyGuard()

	// پرونده‌های پایه
	base := memory.DefaultRecords()
	if config.Memory.DossierPath != "" {
		records, err := memory.LoadDossierFile(config.Memory.DossierPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load dossier: %w", err)
		}
		base = records
	}

	// پرونده‌های افزوده‌شده در زمان اجرا
	var store memory.RecordStore
	if config.Memory.DatabasePath != "" {
		s, err := memory.OpenSQLiteStore(config.Memory.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open knowledge store: %w", err)
		}
		components.Store = s
		store = s
	}

	dossier, err := memory.NewDossier(base, store)
	if err != nil {
		closeComponents(components)
		return nil, fmt.Errorf("failed to create dossier: %w", err)
	}
	components.Dossier = dossier

	if components.Store != nil {
		added, err := components.Store.All(context.Background())
		if err != nil {
			closeComponents(components)
			return nil, fmt.Errorf("failed to read stored records: %w", err)
		}
		if err := dossier.Restore(added); err != nil {
			closeComponents(components)
			return nil, fmt.Errorf("failed to restore stored records: %w", err)
		}
		log.Info().Int("records", len(added)).Msg("Restored knowledge records from store")
	}

	opts := engine.Options{
		Dossier:      dossier,
		Guard:        guard,
		Scoring:      config.Scoring,
		DefaultStyle: model.Style(config.System.DefaultStyle),
	}

	if config.Memory.CacheSize > 0 {
		components.Cache = memory.NewAnswerCache(config.Memory.CacheSize, config.Memory.CacheTTL)
		opts.Cache = components.Cache
	}

	if config.Metrics.Enabled {
		metrics := monitoring.NewMetrics(config.Metrics)
		metrics.SetDossierRecords(dossier.Len())
		dossier.OnChange(func(names []string) {
			metrics.SetDossierRecords(len(names))
		})
		components.Metrics = metrics
		opts.Observer = metrics
	}

	if config.Memory.ArchivePath != "" && config.Memory.CompressionLevel > 0 {
		archive, err := memory.OpenArchive(config.Memory.ArchivePath, config.Memory.CompressionLevel, guard)
		if err != nil {
			closeComponents(components)
			return nil, err
		}
		components.Archive = archive
		opts.Recorder = archive
	}

	eng, err := engine.New(opts)
	if err != nil {
		closeComponents(components)
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}
	components.Engine = eng

	log.Info().
		Int("records", dossier.Len()).
		Bool("cache", components.Cache != nil).
		Bool("store", components.Store != nil).
		Bool("archive", components.Archive != nil).
		Bool("metrics", components.Metrics != nil).
		Msg("Components ready")

	return components, nil
}

func startServices(ctx context.Context, config *Config, components *Components) (*Services, error) {
	services := &Services{}

	// بارگذاری خودکار پرونده‌ها
	if config.Memory.WatchDossier {
		watcher, err := memory.NewWatcher(config.Memory.DossierPath, components.Dossier)
		if err != nil {
			return nil, err
		}
		go watcher.Run(ctx)
		go logReloads(ctx, watcher, components.Dossier)
		services.Watcher = watcher
	}

	// سرور WebSocket
	if config.API.WebSocketPort > 0 {
		ws, err := api.NewWebSocketServer(config.API, api.Dependencies{
			Engine:  components.Engine,
			Metrics: components.Metrics,
		})
		if err != nil {
			return nil, err
		}
		go func() {
			if err := ws.Start(fmt.Sprintf(":%d", config.API.WebSocketPort)); err != nil {
				log.Error().Err(err).Msg("WebSocket server failed")
			}
		}()
		services.WebSocket = ws
	}

	return services, nil
}

func logReloads(ctx context.Context, watcher *memory.Watcher, dossier *memory.Dossier) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-watcher.Reloads():
			log.Info().Int("records", dossier.Len()).Msg("🔄 Dossier reloaded")
		}
	}
}

func collectMetrics(ctx context.Context, components *Components, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// جمع‌آوری آمار
			stats := components.Engine.Stats()
			event := log.Debug().
				Int64("questions", stats.TotalQuestions).
				Int64("cache_hits", stats.CacheHits).
				Int64("record_errors", stats.RecordErrors).
				Int("records", components.Dossier.Len())
			if components.Cache != nil {
				event = event.Int("cached_answers", components.Cache.Len())
			}
			event.Msg("System metrics")
		}
	}
}

func shutdown(apiServer *api.Server, services *Services, components *Components) {
	log.Info().Msg("🛑 Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// توقف API سرور
	if apiServer != nil {
		if err := apiServer.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("Failed to shutdown API server gracefully")
		}
	}

	if services.WebSocket != nil {
		if err := services.WebSocket.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("Failed to shutdown WebSocket server gracefully")
		}
	}

	// بستن اتصالات
	closeComponents(components)

	log.Info().Msg("Shutdown sequence completed")
}

func closeComponents(components *Components) {
	if components.Archive != nil {
		if err := components.Archive.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to flush archive")
		}
	}
	if components.Store != nil {
		if err := components.Store.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close knowledge store")
		}
	}
}
