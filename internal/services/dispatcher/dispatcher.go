package services

import (
	"context"
	"log/slog"

	"github.com/magabrotheeeer/checkin-reporter/internal/lib/sl"
)

// Channel один канал доставки отчета.
type Channel interface {
	Name() string
	Send(ctx context.Context, title, body string) error
}

// DispatcherService фан-аут отчета по каналам.
type DispatcherService struct {
	channels []Channel
	log      *slog.Logger
}

// NewDispatcherService создает новый экземпляр DispatcherService.
// Порядок каналов сохраняется при отправке.
func NewDispatcherService(log *slog.Logger, channels ...Channel) *DispatcherService {
	return &DispatcherService{
		channels: channels,
		log:      log,
	}
}

// Dispatch отправляет отчет во все каналы по очереди и возвращает число
// каналов, завершившихся ошибкой. Ошибки каналов наружу не поднимаются.
func (s *DispatcherService) Dispatch(ctx context.Context, title, body string) int {
	var failures int
	for _, ch := range s.channels {
		if err := ch.Send(ctx, title, body); err != nil {
			s.log.Error("notification channel failed",
				slog.String("channel", ch.Name()), sl.Err(err))
			failures++
			continue
		}
		s.log.Info("notification sent", slog.String("channel", ch.Name()))
	}
	return failures
}
