// Package metrics собирает счетчики одного запуска и отправляет их
// в Pushgateway. Процесс завершается после каждого запуска, поэтому
// pull-модель не подходит: метрики пушатся один раз перед выходом.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Recorder счетчики запуска на собственном реестре.
type Recorder struct {
	registry *prometheus.Registry

	accountsTotal        prometheus.Counter
	checkinSuccessTotal  prometheus.Counter
	channelFailuresTotal prometheus.Counter
	lastRunTimestamp     prometheus.Gauge

	gatewayURL string
	jobName    string
}

// NewRecorder создает реестр и регистрирует счетчики.
// Пустой gatewayURL отключает отправку, счетчики при этом все равно ведутся.
func NewRecorder(gatewayURL, jobName string) *Recorder {
	r := &Recorder{
		registry:   prometheus.NewRegistry(),
		gatewayURL: gatewayURL,
		jobName:    jobName,
		accountsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "checkin_accounts_total",
			Help: "Number of accounts processed during the run.",
		}),
		checkinSuccessTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "checkin_success_total",
			Help: "Number of accounts whose check-in succeeded.",
		}),
		channelFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "checkin_channel_failures_total",
			Help: "Number of notification channels that failed to deliver.",
		}),
		lastRunTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "checkin_last_run_timestamp_seconds",
			Help: "Unix timestamp of the last completed run.",
		}),
	}

	r.registry.MustRegister(
		r.accountsTotal,
		r.checkinSuccessTotal,
		r.channelFailuresTotal,
		r.lastRunTimestamp,
	)
	return r
}

// ObserveAccount учитывает один обработанный аккаунт.
func (r *Recorder) ObserveAccount(checkinSucceeded bool) {
	r.accountsTotal.Inc()
	if checkinSucceeded {
		r.checkinSuccessTotal.Inc()
	}
}

// ObserveChannelFailures учитывает отказавшие каналы уведомлений.
func (r *Recorder) ObserveChannelFailures(n int) {
	r.channelFailuresTotal.Add(float64(n))
}

// Push отправляет собранные метрики в Pushgateway.
// Без настроенного gateway вызов — no-op.
func (r *Recorder) Push() error {
	const op = "metrics.Push"

	if r.gatewayURL == "" {
		return nil
	}

	r.lastRunTimestamp.SetToCurrentTime()

	if err := push.New(r.gatewayURL, r.jobName).Gatherer(r.registry).Push(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
