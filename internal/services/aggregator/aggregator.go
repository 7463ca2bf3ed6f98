package services

import (
	"context"
	"log/slog"
	"net/http"
	"sort"

	"github.com/magabrotheeeer/checkin-reporter/internal/lib/sl"
	"github.com/magabrotheeeer/checkin-reporter/internal/models"
)

// Эндпоинты сервиса, пути фиксированы относительно базового URL зеркала.
const (
	checkinPath = "/api/user/checkin"
	statusPath  = "/api/user/status"
	pointsPath  = "/api/user/points"
)

// networkErrorMessage сентинел для снапшота, когда чекин не дошел до сервиса.
const networkErrorMessage = "network error"

// Client интерфейс failover-клиента сервиса.
type Client interface {
	Do(ctx context.Context, method, path, cookie string, body, dst any) error
}

// AggregatorService агрегирует данные аккаунта через failover-клиент.
type AggregatorService struct {
	client       Client
	checkinToken string
	log          *slog.Logger
}

// NewAggregatorService создает новый экземпляр AggregatorService.
func NewAggregatorService(client Client, checkinToken string, log *slog.Logger) *AggregatorService {
	return &AggregatorService{
		client:       client,
		checkinToken: checkinToken,
		log:          log,
	}
}

// Process выполняет полный цикл для одного аккаунта и возвращает снапшот.
// Три операции идут последовательно, каждая со своим перебором зеркал;
// результат одной операции не переиспользуется другой.
func (s *AggregatorService) Process(ctx context.Context, cookie string) models.AccountSnapshot {
	snapshot := models.NewAccountSnapshot()

	var checkin models.CheckinResponse
	err := s.client.Do(ctx, http.MethodPost, checkinPath, cookie,
		models.CheckinRequest{Token: s.checkinToken}, &checkin)
	if err != nil {
		s.log.Warn("checkin request failed", sl.Err(err))
		snapshot.LastMessage = networkErrorMessage
	} else {
		snapshot.LastMessage = checkin.Message
	}

	var status models.StatusResponse
	if err := s.client.Do(ctx, http.MethodGet, statusPath, cookie, nil, &status); err != nil {
		s.log.Warn("status request failed", sl.Err(err))
	} else {
		if status.Data.Email != "" {
			snapshot.Email = status.Data.Email
		}
		snapshot.LeftDays = clampNonNegative(status.Data.LeftDays.Int())
	}

	var points models.PointsResponse
	if err := s.client.Do(ctx, http.MethodGet, pointsPath, cookie, nil, &points); err != nil {
		s.log.Warn("points request failed", sl.Err(err))
	} else {
		snapshot.Points = clampNonNegative(points.Points.Int())
		if len(points.History) > 0 {
			snapshot.PointsChange = models.FormatChange(float64(points.History[0].Change))
		}
	}

	snapshot.Tiers = evaluateTiers(snapshot.Points, tiersFrom(points.Plans))

	s.log.Info("account processed",
		slog.String("email", snapshot.Email),
		slog.Int("points", snapshot.Points),
		slog.Int("left_days", snapshot.LeftDays),
		slog.Bool("checkin_ok", snapshot.CheckinSucceeded()),
	)
	return snapshot
}

// tiersFrom выбирает источник уровней обмена: динамические планы из ответа
// сервиса, если они есть, иначе статические дефолты. Планы приходят
// JSON-объектом без определенного порядка, поэтому для детерминизма отчета
// они упорядочиваются по идентификатору плана. Планы с неположительным
// порогом отбрасываются; если валидных не осталось, берутся дефолты.
func tiersFrom(plans map[string]models.ExchangePlan) []models.ExchangeTier {
	if len(plans) == 0 {
		return models.DefaultExchangeTiers()
	}

	ids := make([]string, 0, len(plans))
	for id := range plans {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	tiers := make([]models.ExchangeTier, 0, len(plans))
	for _, id := range ids {
		tier := models.ExchangeTier{
			PointsRequired: plans[id].Points.Int(),
			DaysGranted:    plans[id].Days.Int(),
		}
		if tier.PointsRequired <= 0 {
			continue
		}
		tiers = append(tiers, tier)
	}
	if len(tiers) == 0 {
		return models.DefaultExchangeTiers()
	}
	return tiers
}

func evaluateTiers(points int, tiers []models.ExchangeTier) []models.ExchangeTierResult {
	results := make([]models.ExchangeTierResult, 0, len(tiers))
	for _, tier := range tiers {
		results = append(results, models.EvaluateTier(points, tier))
	}
	return results
}

func clampNonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
