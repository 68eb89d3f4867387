// pkg/api/config.go
package api

import "time"

type Config struct {
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"NATIQ_API_READ_TIMEOUT"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"NATIQ_API_WRITE_TIMEOUT"`
	MaxBodyBytes int           `yaml:"max_body_bytes" env:"NATIQ_API_MAX_BODY_BYTES"`
	// پرسش‌های بلندتر بریده می‌شوند
	MaxQuestionRunes int `yaml:"max_question_runes" env:"NATIQ_API_MAX_QUESTION_RUNES"`

	// محدودیت نرخ به ازای هر IP؛ صفر یعنی غیرفعال
	RateLimit     float64       `yaml:"rate_limit" env:"NATIQ_API_RATE_LIMIT"`
	RateBurst     int           `yaml:"rate_burst" env:"NATIQ_API_RATE_BURST"`
	ClientIdleTTL time.Duration `yaml:"client_idle_ttl" env:"NATIQ_API_CLIENT_IDLE_TTL"`

	AllowKnowledgeWrites bool `yaml:"allow_knowledge_writes" env:"NATIQ_API_ALLOW_KNOWLEDGE_WRITES"`

	// سرور WebSocket روی پورت جدا؛ صفر یعنی غیرفعال
	WebSocketPort     int   `yaml:"websocket_port" env:"NATIQ_API_WEBSOCKET_PORT"`
	MaxWebSocketConns int   `yaml:"max_websocket_conns" env:"NATIQ_API_MAX_WEBSOCKET_CONNS"`
	MaxMessageBytes   int64 `yaml:"max_message_bytes" env:"NATIQ_API_MAX_MESSAGE_BYTES"`
}

func DefaultConfig() Config {
	return Config{
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		MaxBodyBytes:      64 * 1024,
		MaxQuestionRunes:  2000,
		RateLimit:         5,
		RateBurst:         10,
		ClientIdleTTL:     10 * time.Minute,
		WebSocketPort:     8081,
		MaxWebSocketConns: 256,
		MaxMessageBytes:   16 * 1024,
	}
}
