package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Database   DatabaseConfig   `mapstructure:"database"`
	History    HistoryConfig    `mapstructure:"history"`
	Scholar    ScholarConfig    `mapstructure:"scholar"`
	Summarizer SummarizerConfig `mapstructure:"summarizer"`
	SMTP       SMTPConfig       `mapstructure:"smtp"`
	RabbitMQ   RabbitMQConfig   `mapstructure:"rabbitmq"`
	Mailer     MailerConfig     `mapstructure:"mailer"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	CORS       CORSConfig       `mapstructure:"cors"`
}

type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxUploadSize   int64         `mapstructure:"max_upload_size"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
	Issuer    string        `mapstructure:"issuer"`
}

type StorageConfig struct {
	Backend   string      `mapstructure:"backend"` // local or minio
	BaseDir   string      `mapstructure:"base_dir"`
	UploadDir string      `mapstructure:"upload_dir"`
	ReportDir string      `mapstructure:"report_dir"`
	CorpusDir string      `mapstructure:"corpus_dir"`
	MinIO     MinIOConfig `mapstructure:"minio"`
}

type MinIOConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Timeout   int    `mapstructure:"timeout"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type HistoryConfig struct {
	Backend string `mapstructure:"backend"` // memory or postgres
}

type ScholarConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	Fields         string        `mapstructure:"fields"`
	Timeout        time.Duration `mapstructure:"timeout"`
	MaxConcurrency int           `mapstructure:"max_concurrency"`
}

type SummarizerConfig struct {
	APIKey        string        `mapstructure:"api_key"`
	Model         string        `mapstructure:"model"`
	MaxTokens     int           `mapstructure:"max_tokens"`
	Timeout       time.Duration `mapstructure:"timeout"`
	FallbackWords int           `mapstructure:"fallback_words"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	FromName string `mapstructure:"from_name"`
}

type RabbitMQConfig struct {
	URL         string `mapstructure:"url"`
	Exchange    string `mapstructure:"exchange"`
	RoutingKey  string `mapstructure:"routing_key"`
	QueueName   string `mapstructure:"queue_name"`
	ConsumerTag string `mapstructure:"consumer_tag"`
}

type MailerConfig struct {
	MaxWorkers int `mapstructure:"max_workers"`
}

type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Pretty  bool   `mapstructure:"pretty"`
	NoColor bool   `mapstructure:"no_color"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("server.read_timeout", "15s")
	viper.SetDefault("server.write_timeout", "60s")
	viper.SetDefault("server.idle_timeout", "60s")
	viper.SetDefault("server.shutdown_timeout", "10s")
	viper.SetDefault("server.max_upload_size", 32<<20)

	viper.SetDefault("auth.jwt_secret", "change-me-in-prod")
	viper.SetDefault("auth.token_ttl", "12h")
	viper.SetDefault("auth.issuer", "docu-detect")

	viper.SetDefault("storage.backend", "local")
	viper.SetDefault("storage.base_dir", "data")
	viper.SetDefault("storage.upload_dir", "uploads")
	viper.SetDefault("storage.report_dir", "reports")
	viper.SetDefault("storage.corpus_dir", "corpus")
	viper.SetDefault("storage.minio.endpoint", "localhost:9000")
	viper.SetDefault("storage.minio.access_key", "minioadmin")
	viper.SetDefault("storage.minio.secret_key", "minioadmin")
	viper.SetDefault("storage.minio.bucket", "docu-detect")
	viper.SetDefault("storage.minio.region", "us-east-1")
	viper.SetDefault("storage.minio.use_ssl", false)
	viper.SetDefault("storage.minio.timeout", 10)

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "docudetect_user")
	viper.SetDefault("database.password", "docudetect_password")
	viper.SetDefault("database.name", "docudetect_db")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", "5m")

	viper.SetDefault("history.backend", "memory")

	viper.SetDefault("scholar.base_url", "https://api.semanticscholar.org/graph/v1/paper/search")
	viper.SetDefault("scholar.fields", "title,year,authors")
	viper.SetDefault("scholar.timeout", "10s")
	viper.SetDefault("scholar.max_concurrency", 5)

	viper.SetDefault("summarizer.api_key", "")
	viper.SetDefault("summarizer.model", "claude-sonnet-4-20250514")
	viper.SetDefault("summarizer.max_tokens", 1024)
	viper.SetDefault("summarizer.timeout", "30s")
	viper.SetDefault("summarizer.fallback_words", 60)

	viper.SetDefault("smtp.host", "")
	viper.SetDefault("smtp.port", 587)
	viper.SetDefault("smtp.username", "")
	viper.SetDefault("smtp.password", "")
	viper.SetDefault("smtp.from", "noreply@docu-detect.local")
	viper.SetDefault("smtp.from_name", "DOCU-DETECT")

	viper.SetDefault("rabbitmq.url", "")
	viper.SetDefault("rabbitmq.exchange", "docudetect_exchange")
	viper.SetDefault("rabbitmq.routing_key", "report.email")
	viper.SetDefault("rabbitmq.queue_name", "report_email_queue")
	viper.SetDefault("rabbitmq.consumer_tag", "mailer-consumer")

	viper.SetDefault("mailer.max_workers", 3)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.pretty", false)
	viper.SetDefault("logging.no_color", false)

	viper.SetDefault("cors.allowed_origins", []string{"http://localhost:5173"})
	viper.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	viper.SetDefault("cors.allowed_headers", []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"})
	viper.SetDefault("cors.exposed_headers", []string{"Link", "Content-Disposition"})
	viper.SetDefault("cors.allow_credentials", true)
	viper.SetDefault("cors.max_age", 300)
}
