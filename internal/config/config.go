package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env            string        `mapstructure:"ENV"`
	Port           string        `mapstructure:"PORT"`
	DatabaseURL    string        `mapstructure:"DATABASE_URL"`
	AutoMigrate    bool          `mapstructure:"AUTO_MIGRATE"`
	AdminKey       string        `mapstructure:"ADMIN_KEY"`
	CORSAllowed    string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`

	// Escalation scoring.
	EscalationThreshold int    `mapstructure:"ESCALATION_THRESHOLD"`
	HistoryLimit        int    `mapstructure:"HISTORY_LIMIT"`
	LexiconPath         string `mapstructure:"LEXICON_PATH"`

	// Responder notifications.
	FrontendURL       string        `mapstructure:"FRONTEND_URL"`
	NotifyTransport   string        `mapstructure:"NOTIFY_TRANSPORT"`
	NotifyTimeout     time.Duration `mapstructure:"NOTIFY_TIMEOUT"`
	NotifyConcurrency int           `mapstructure:"NOTIFY_CONCURRENCY"`
	SMTPHost          string        `mapstructure:"SMTP_HOST"`
	SMTPPort          int           `mapstructure:"SMTP_PORT"`
	SMTPUsername      string        `mapstructure:"SMTP_USERNAME"`
	SMTPPassword      string        `mapstructure:"SMTP_PASSWORD"`
	SMTPFrom          string        `mapstructure:"SMTP_FROM"`
	KafkaBrokers      string        `mapstructure:"KAFKA_BROKERS"`
	KafkaNotifyTopic  string        `mapstructure:"KAFKA_NOTIFY_TOPIC"`

	RedisURL  string        `mapstructure:"REDIS_URL"`
	DedupeTTL time.Duration `mapstructure:"DEDUPE_TTL"`

	AssistantBaseURL   string `mapstructure:"ASSISTANT_BASE_URL"`
	AssistantModel     string `mapstructure:"ASSISTANT_MODEL"`
	AssistantAPIKey    string `mapstructure:"ASSISTANT_API_KEY"`
	AssistantMaxTokens int    `mapstructure:"ASSISTANT_MAX_TOKENS"`
}

func Load() (Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("AUTO_MIGRATE", false)
	v.SetDefault("ADMIN_KEY", "")
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	v.SetDefault("ESCALATION_THRESHOLD", 50)
	v.SetDefault("HISTORY_LIMIT", 5)
	v.SetDefault("LEXICON_PATH", "")

	v.SetDefault("FRONTEND_URL", "http://localhost:5173")
	v.SetDefault("NOTIFY_TRANSPORT", "log")
	v.SetDefault("NOTIFY_TIMEOUT", "10s")
	v.SetDefault("NOTIFY_CONCURRENCY", 4)
	v.SetDefault("SMTP_HOST", "")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USERNAME", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("SMTP_FROM", "noreply@aquavo.shop")
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_NOTIFY_TOPIC", "support-notifications")

	v.SetDefault("REDIS_URL", "")
	v.SetDefault("DEDUPE_TTL", "10m")

	v.SetDefault("ASSISTANT_BASE_URL", "")
	v.SetDefault("ASSISTANT_MODEL", "")
	v.SetDefault("ASSISTANT_API_KEY", "")
	v.SetDefault("ASSISTANT_MAX_TOKENS", 512)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Brokers splits the comma-separated KAFKA_BROKERS value.
func (c Config) Brokers() []string {
	var out []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
