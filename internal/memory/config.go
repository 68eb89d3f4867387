// internal/memory/config.go
package memory

import "time"

type Config struct {
	// فایل YAML پرونده‌ها؛ خالی یعنی نسخه‌ی داخلی
	DossierPath  string `yaml:"dossier_path" env:"NATIQ_DOSSIER_PATH"`
	WatchDossier bool   `yaml:"watch_dossier" env:"NATIQ_WATCH_DOSSIER"`

	// پایگاه SQLite برای پرونده‌های افزوده‌شده در زمان اجرا
	DatabasePath string `yaml:"database_path" env:"NATIQ_DATABASE_PATH"`

	// آرشیو فشرده‌ی تعامل‌ها
	ArchivePath      string `yaml:"archive_path" env:"NATIQ_ARCHIVE_PATH"`
	CompressionLevel int    `yaml:"compression_level" env:"NATIQ_COMPRESSION_LEVEL"`

	CacheSize int           `yaml:"cache_size" env:"NATIQ_CACHE_SIZE"`
	CacheTTL  time.Duration `yaml:"cache_ttl" env:"NATIQ_CACHE_TTL"`
}

func DefaultConfig() Config {
	return Config{
		CompressionLevel: 3,
		CacheSize:        1000,
		CacheTTL:         10 * time.Minute,
	}
}
