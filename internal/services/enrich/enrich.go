package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/checkin-reporter/internal/lib/sl"
)

// Provider один источник декоративного контента.
type Provider interface {
	Name() string
	Fetch(ctx context.Context) (string, error)
}

// EnrichService опрашивает источники и склеивает их строки в один блок.
type EnrichService struct {
	providers []Provider
	log       *slog.Logger
}

// NewEnrichService создает новый экземпляр EnrichService.
func NewEnrichService(log *slog.Logger, providers ...Provider) *EnrichService {
	return &EnrichService{
		providers: providers,
		log:       log,
	}
}

// Collect возвращает готовый markdown-блок или пустую строку,
// если ни один источник не ответил.
func (s *EnrichService) Collect(ctx context.Context) string {
	var lines []string
	for _, p := range s.providers {
		block, err := p.Fetch(ctx)
		if err != nil {
			s.log.Warn("enrichment provider failed",
				slog.String("provider", p.Name()), sl.Err(err))
			continue
		}
		lines = append(lines, block)
	}

	if len(lines) == 0 {
		return ""
	}
	return "#### Daily extras\n\n" + strings.Join(lines, "\n\n")
}
