// Package config предоставляет структуры и функцию для парсинга и загрузки конфига.
// Все значения читаются из переменных окружения: бинарник запускается планировщиком
// без оператора, поэтому файл конфигурации не обязателен.
package config

import (
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator"
	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек.
type Config struct {
	Env string `env:"ENV" env-default:"production"`

	// Учетные данные: одна или несколько cookie-сессий, разделенных
	// переводом строки или символом "&".
	CookieBlob string `env:"GLADOS_COOKIE"`

	// Зеркала сервиса в порядке перебора.
	Mirrors      []string      `env:"GLADOS_MIRRORS" env-separator:"," env-default:"https://glados.rocks,https://glados.cloud,https://glados.network" validate:"min=1,dive,url"`
	CheckinToken string        `env:"GLADOS_CHECKIN_TOKEN" env-default:"glados.cloud"`
	Timeout      time.Duration `env:"REQUEST_TIMEOUT" env-default:"10s"`
	RequestRate  float64       `env:"REQUEST_RATE" env-default:"5" validate:"gt=0"`

	Report       ReportOptions
	Notification NotificationConfig
	Metrics      MetricsConfig
}

// ReportOptions структура для настройки внешнего вида отчета.
type ReportOptions struct {
	TierStyle     string `env:"REPORT_TIER_STYLE" env-default:"bar" validate:"oneof=bar bullet"`
	EnrichEnabled bool   `env:"ENRICH_ENABLED" env-default:"true"`
}

// NotificationConfig структура для настройки каналов уведомлений.
// Канал включен тогда и только тогда, когда задан его секрет/адрес.
type NotificationConfig struct {
	DingTalkWebhook string `env:"DINGTALK_WEBHOOK" validate:"omitempty,url"`
	DingTalkSecret  string `env:"DINGTALK_SECRET"`
	ServerChanKey   string `env:"SERVER_CHAN_SENDKEY"`
	PushPlusToken   string `env:"PUSHPLUS_TOKEN"`

	RabbitMQURL        string `env:"RABBITMQ_URL"`
	RabbitMQExchange   string `env:"RABBITMQ_EXCHANGE" env-default:"notifications"`
	RabbitMQRoutingKey string `env:"RABBITMQ_ROUTING_KEY" env-default:"checkin.report"`
}

// MetricsConfig структура для настройки пуша метрик батч-запуска.
type MetricsConfig struct {
	PushgatewayURL string `env:"PUSHGATEWAY_URL" validate:"omitempty,url"`
	JobName        string `env:"METRICS_JOB_NAME" env-default:"checkin-reporter"`
}

// MustLoad загружает конфиг из окружения и валидирует его.
// Завершает процесс, если окружение не читается или значения некорректны.
func MustLoad() *Config {
	var cfg Config

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		log.Fatalf("invalid config: %s", err)
	}
	return &cfg
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"Mirrors: %v\n"+
			"Timeout: %s\n"+
			"RequestRate: %.1f\n"+
			"Report:\n"+
			"  TierStyle: %s\n"+
			"  EnrichEnabled: %t\n"+
			"Notification:\n"+
			"  DingTalk: %t\n"+
			"  ServerChan: %t\n"+
			"  PushPlus: %t\n"+
			"  RabbitMQ: %t\n"+
			"Metrics:\n"+
			"  Pushgateway: %t\n",
		c.Env,
		c.Mirrors,
		c.Timeout,
		c.RequestRate,
		c.Report.TierStyle,
		c.Report.EnrichEnabled,
		c.Notification.DingTalkWebhook != "",
		c.Notification.ServerChanKey != "",
		c.Notification.PushPlusToken != "",
		c.Notification.RabbitMQURL != "",
		c.Metrics.PushgatewayURL != "",
	)
}
