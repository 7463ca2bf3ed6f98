package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/magabrotheeeer/checkin-reporter/internal/models"
)

// Стили отображения таблицы уровней обмена.
const (
	TierStyleBar    = "bar"    // текстовый прогресс-бар из блоков
	TierStyleBullet = "bullet" // простая маркированная строка
)

// lowBalanceDays порог остатка дней, ниже которого отчет помечает аккаунт.
const lowBalanceDays = 7

// barWidth ширина прогресс-бара в блоках (разрешение в восьмых долях).
const barWidth = 8

// Options настройки внешнего вида отчета.
type Options struct {
	TierStyle string         // TierStyleBar или TierStyleBullet
	Location  *time.Location // часовой пояс сервиса; по умолчанию UTC+8
}

// ReportService строит заголовок и тело отчета.
type ReportService struct {
	opts Options
}

// NewReportService создает новый экземпляр ReportService.
func NewReportService(opts Options) *ReportService {
	if opts.TierStyle == "" {
		opts.TierStyle = TierStyleBar
	}
	if opts.Location == nil {
		opts.Location = time.FixedZone("UTC+8", 8*60*60)
	}
	return &ReportService{opts: opts}
}

// Build рендерит отчет по списку снапшотов. enrichment — необязательный
// декоративный блок, добавляется как есть. now — часы вызывающего,
// передаются явно ради детерминизма.
func (s *ReportService) Build(snapshots []models.AccountSnapshot, enrichment string, now time.Time) (title, body string) {
	local := now.In(s.opts.Location)

	var succeeded int
	for _, snap := range snapshots {
		if snap.CheckinSucceeded() {
			succeeded++
		}
	}
	title = fmt.Sprintf("GLaDOS Checkin: %d of %d succeeded", succeeded, len(snapshots))

	blocks := []string{fmt.Sprintf("## %s. Your account briefing", greeting(local.Hour()))}
	for _, snap := range snapshots {
		blocks = append(blocks, s.accountBlock(snap, local))
	}

	if enrichment != "" {
		blocks = append(blocks, "---\n"+enrichment)
	}

	blocks = append(blocks, fmt.Sprintf("---\nUpdated at %s (UTC+8)", local.Format("15:04:05")))

	return title, strings.Join(blocks, "\n\n")
}

func (s *ReportService) accountBlock(snap models.AccountSnapshot, local time.Time) string {
	warning := "stocked up"
	if snap.LeftDays < lowBalanceDays {
		warning = "⚠ running low"
	}
	exhaustion := local.AddDate(0, 0, snap.LeftDays).Format("2006-01-02")

	lines := []string{
		fmt.Sprintf("#### Account: `%s`", MaskEmail(snap.Email)),
		fmt.Sprintf("> - Points: `%d` (%s)", snap.Points, snap.PointsChange),
		fmt.Sprintf("> - Days left: `%d` — %s", snap.LeftDays, warning),
		fmt.Sprintf("> - Runs out on: `%s`", exhaustion),
		fmt.Sprintf("> - Status: %s", snap.LastMessage),
	}

	if len(snap.Tiers) > 0 {
		lines = append(lines, "", "**Exchange progress:**")
		for _, tier := range snap.Tiers {
			lines = append(lines, s.tierLine(snap.Points, tier))
		}
	}

	return strings.Join(lines, "\n")
}

func (s *ReportService) tierLine(points int, result models.ExchangeTierResult) string {
	state := fmt.Sprintf("need %d more", result.Gap)
	if result.Ready {
		state = "ready to exchange"
	}

	if s.opts.TierStyle == TierStyleBullet {
		return fmt.Sprintf("- %dpt → %d days: %s",
			result.Tier.PointsRequired, result.Tier.DaysGranted, state)
	}
	return fmt.Sprintf("> %s **%d days** (%s)",
		zenBar(points, result.Tier.PointsRequired), result.Tier.DaysGranted, state)
}

// zenBar рендерит прогресс points/target как бар из восьми блоков.
// Заполнение округляется вниз до восьмой доли, выше 100% не растет.
// Неположительный порог считается достигнутым.
func zenBar(points, target int) string {
	percent := 1.0
	if target > 0 {
		percent = float64(points) / float64(target)
		if percent > 1.0 {
			percent = 1.0
		}
	}
	filled := int(percent * barWidth)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	return fmt.Sprintf("`%s` %3d%% (%d/%dpt)", bar, int(percent*100), points, target)
}

// MaskEmail маскирует локальную часть адреса: видны первые три и последние
// два символа, домен остается как есть. Без "@" значение не маскируется.
func MaskEmail(email string) string {
	parts := strings.SplitN(email, "@", 2)
	if len(parts) != 2 {
		return email
	}
	local := parts[0]

	head := local
	if len(head) > 3 {
		head = head[:3]
	}
	tail := local
	if len(tail) > 2 {
		tail = tail[len(tail)-2:]
	}
	return head + "***" + tail + "@" + parts[1]
}

func greeting(hour int) string {
	switch {
	case hour >= 5 && hour < 12:
		return "Good morning"
	case hour >= 12 && hour < 18:
		return "Good afternoon"
	default:
		return "Good evening"
	}
}
