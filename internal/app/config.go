package app

import "os"

// Config описывает настройки запуска приложения.
type Config struct {
	// HTTPAddr — адрес REST API.
	HTTPAddr string
	// MetricsAddr — адрес HTTP-сервера метрик и health checks.
	MetricsAddr string
	// DatabaseURL — DSN PostgreSQL; пустое значение включает in-memory хранилище.
	DatabaseURL string
	// KafkaBrokers — список брокеров через запятую; пустое значение отключает Kafka.
	KafkaBrokers string
}

// DefaultConfig возвращает базовые адреса сервиса.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:    ":3000",
		MetricsAddr: ":9090",
	}
}

// ConfigFromEnv формирует конфигурацию, позволяя переопределить
// значения через переменные окружения.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if v := os.Getenv("ORDENES_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.HTTPAddr = ":" + v
	}
	if v := os.Getenv("ORDENES_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.KafkaBrokers = os.Getenv("KAFKA_BROKERS")
	return cfg
}
