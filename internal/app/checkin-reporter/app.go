// Package checkinreporter собирает пайплайн запуска: разбор учетных данных,
// обход аккаунтов, сборку отчета и рассылку по каналам. Единственный
// фатальный исход — отсутствие учетных данных; все остальные сбои
// отражаются в отчете и логах, но не в коде завершения.
package checkinreporter

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/checkin-reporter/internal/config"
	"github.com/magabrotheeeer/checkin-reporter/internal/glados"
	"github.com/magabrotheeeer/checkin-reporter/internal/lib/credential"
	"github.com/magabrotheeeer/checkin-reporter/internal/lib/sl"
	"github.com/magabrotheeeer/checkin-reporter/internal/metrics"
	"github.com/magabrotheeeer/checkin-reporter/internal/models"
	aggregatorservice "github.com/magabrotheeeer/checkin-reporter/internal/services/aggregator"
	dispatcherservice "github.com/magabrotheeeer/checkin-reporter/internal/services/dispatcher"
	enrichservice "github.com/magabrotheeeer/checkin-reporter/internal/services/enrich"
	reportservice "github.com/magabrotheeeer/checkin-reporter/internal/services/report"
)

// App приложение одного запуска.
type App struct {
	cfg        *config.Config
	aggregator *aggregatorservice.AggregatorService
	report     *reportservice.ReportService
	dispatcher *dispatcherservice.DispatcherService
	enrich     *enrichservice.EnrichService
	recorder   *metrics.Recorder
	logger     *slog.Logger
	now        func() time.Time
}

// New создает приложение из конфига.
func New(cfg *config.Config, logger *slog.Logger) *App {
	client := glados.New(cfg.Mirrors, cfg.Timeout, cfg.RequestRate, logger)

	return &App{
		cfg:        cfg,
		aggregator: aggregatorservice.NewAggregatorService(client, cfg.CheckinToken, logger),
		report:     reportservice.NewReportService(reportservice.Options{TierStyle: cfg.Report.TierStyle}),
		dispatcher: dispatcherservice.NewDispatcherService(logger, buildChannels(cfg)...),
		enrich:     enrichservice.NewEnrichService(logger, buildProviders(cfg)...),
		recorder:   metrics.NewRecorder(cfg.Metrics.PushgatewayURL, cfg.Metrics.JobName),
		logger:     logger,
		now:        time.Now,
	}
}

// buildChannels включает канал тогда и только тогда, когда задан его
// секрет или адрес. Отсутствие настройки выключает только этот канал.
func buildChannels(cfg *config.Config) []dispatcherservice.Channel {
	n := cfg.Notification

	var channels []dispatcherservice.Channel
	if n.DingTalkWebhook != "" {
		channels = append(channels,
			dispatcherservice.NewDingTalkChannel(n.DingTalkWebhook, n.DingTalkSecret, cfg.Timeout))
	}
	if n.ServerChanKey != "" {
		channels = append(channels,
			dispatcherservice.NewServerChanChannel(n.ServerChanKey, cfg.Timeout))
	}
	if n.PushPlusToken != "" {
		channels = append(channels,
			dispatcherservice.NewPushPlusChannel(n.PushPlusToken, cfg.Timeout))
	}
	if n.RabbitMQURL != "" {
		channels = append(channels,
			dispatcherservice.NewAMQPChannel(n.RabbitMQURL, n.RabbitMQExchange, n.RabbitMQRoutingKey))
	}
	return channels
}

func buildProviders(cfg *config.Config) []enrichservice.Provider {
	if !cfg.Report.EnrichEnabled {
		return nil
	}
	return []enrichservice.Provider{
		enrichservice.NewWallpaperProvider(cfg.Timeout),
		enrichservice.NewQuoteProvider(cfg.Timeout),
		enrichservice.NewWeatherProvider(cfg.Timeout),
	}
}

// Run прогоняет полный пайплайн и возвращает код завершения процесса.
// Ненулевой код возможен только при пустом списке учетных данных.
func (a *App) Run(ctx context.Context) int {
	cookies := credential.Parse(a.cfg.CookieBlob)
	if len(cookies) == 0 {
		a.logger.Error("no credentials configured, set GLADOS_COOKIE")
		return 1
	}
	a.logger.Info("starting run", slog.Int("accounts", len(cookies)))

	snapshots := make([]models.AccountSnapshot, 0, len(cookies))
	for _, cookie := range cookies {
		snapshot := a.aggregator.Process(ctx, cookie)
		a.recorder.ObserveAccount(snapshot.CheckinSucceeded())
		snapshots = append(snapshots, snapshot)
	}

	enrichment := a.enrich.Collect(ctx)
	title, body := a.report.Build(snapshots, enrichment, a.now())

	failures := a.dispatcher.Dispatch(ctx, title, body)
	a.recorder.ObserveChannelFailures(failures)

	if err := a.recorder.Push(); err != nil {
		a.logger.Warn("failed to push metrics", sl.Err(err))
	}

	a.logger.Info("run finished",
		slog.String("title", title),
		slog.Int("channel_failures", failures),
	)
	return 0
}
