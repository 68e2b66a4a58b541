package config

import "time"

// Chat definition chat_service YAML structure
type Chat struct {
	Port     string `mapstructure:"port"`
	GRPCPort string `mapstructure:"grpc_port"`

	// ProfileCacheTTL redis 快取 profile 的時間
	ProfileCacheTTL time.Duration `mapstructure:"profile_cache_ttl"`
	// HistoryLimit GET /messages 預設筆數
	HistoryLimit int `mapstructure:"history_limit"`

	MongoSQL   DatabaseConfig `mapstructure:"mongo"`
	PostgreSQL DatabaseConfig `mapstructure:"pg"`
	Redis      RedisConfig    `mapstructure:"redis"`
	MinIO      MinIOConfig    `mapstructure:"minio"`
	Kafka      KafkaConfig    `mapstructure:"kafka"`
	RabbitMQ   RabbitMQConfig `mapstructure:"rabbitmq"`
}

// NotifyWorker definition notify_worker YAML structure
type NotifyWorker struct {
	Redis    RedisConfig    `mapstructure:"redis"`
	RabbitMQ RabbitMQConfig `mapstructure:"rabbitmq"`
}

// ChatClient definition chat_client YAML structure
type ChatClient struct {
	// BaseURL REST endpoint, e.g. http://localhost:8082
	BaseURL string `mapstructure:"base_url"`
	// RealtimeURL websocket endpoint, e.g. ws://localhost:8082/realtime
	RealtimeURL string `mapstructure:"realtime_url"`
	// GRPCAddr health probe address
	GRPCAddr string        `mapstructure:"grpc_addr"`
	Token    string        `mapstructure:"token"`
	Timeout  time.Duration `mapstructure:"timeout"`

	// Reconnect backoff for the realtime feed
	ReconnectInitial time.Duration `mapstructure:"reconnect_initial"`
	ReconnectMax     time.Duration `mapstructure:"reconnect_max"`
}

// RedisConfig definition redis setting
type RedisConfig struct {
	RedisDB int `mapstructure:"redis_db"`
	// Addr 直連 (無 sentinel 時使用)
	Addr string `mapstructure:"addr"`
}

// DatabaseConfig definition db setting
type DatabaseConfig struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	User          string `mapstructure:"user"`
	Password      string `mapstructure:"password"`
	Database      string `mapstructure:"database"`
	RetryInterval int    `mapstructure:"retry_interval"`
	RetryCount    int    `mapstructure:"retry_count"`
}

// MinIOConfig definition minio setting
type MinIOConfig struct {
	Host          string        `mapstructure:"host"`
	Port          int           `mapstructure:"port"`
	User          string        `mapstructure:"user"`
	Password      string        `mapstructure:"password"`
	BucketName    string        `mapstructure:"bucket_name"`
	UseSSL        bool          `mapstructure:"use_ssl"`
	PresignExpiry time.Duration `mapstructure:"presign_expiry"`
	RetryInterval time.Duration `mapstructure:"retry_interval"`
	RetryCount    int           `mapstructure:"retry_count"`
}

// KafkaConfig definition kafka setting
type KafkaConfig struct {
	Brokers       []string      `mapstructure:"brokers"`
	Topic         string        `mapstructure:"topic"`
	RetryInterval time.Duration `mapstructure:"retry_interval"`
	RetryCount    int           `mapstructure:"retry_count"`
}

// RabbitMQConfig definition rabbitmq setting
type RabbitMQConfig struct {
	IP            string        `mapstructure:"ip"`
	Port          string        `mapstructure:"port"`
	User          string        `mapstructure:"user"`
	Password      string        `mapstructure:"password"`
	Queue         string        `mapstructure:"queue"`
	RetryInterval time.Duration `mapstructure:"retry_interval"`
	RetryCount    int           `mapstructure:"retry_count"`
}
