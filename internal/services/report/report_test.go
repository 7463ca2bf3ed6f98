package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/checkin-reporter/internal/models"
)

func makeSnapshot(email string, points, leftDays int, message string) models.AccountSnapshot {
	snap := models.NewAccountSnapshot()
	snap.Email = email
	snap.Points = points
	snap.LeftDays = leftDays
	snap.LastMessage = message
	for _, tier := range models.DefaultExchangeTiers() {
		snap.Tiers = append(snap.Tiers, models.EvaluateTier(points, tier))
	}
	return snap
}

// 10:00 UTC = 18:00 UTC+8.
var fixedNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func TestBuild_TitleCountsSuccesses(t *testing.T) {
	service := NewReportService(Options{})

	snapshots := []models.AccountSnapshot{
		makeSnapshot("a@example.com", 150, 30, "Checkin! Got 1 Points"),
		makeSnapshot("b@example.com", 0, 0, "network error"),
		makeSnapshot("c@example.com", 10, 3, "Checkin Repeats! Please Try Tomorrow"),
	}

	title, _ := service.Build(snapshots, "", fixedNow)
	assert.Equal(t, "GLaDOS Checkin: 2 of 3 succeeded", title)
}

func TestBuild_BodyContents(t *testing.T) {
	service := NewReportService(Options{})

	snap := makeSnapshot("username@example.com", 150, 9, "Checkin! Got 1 Points")
	_, body := service.Build([]models.AccountSnapshot{snap}, "", fixedNow)

	assert.Contains(t, body, "Good evening")
	assert.Contains(t, body, "`use***me@example.com`")
	assert.Contains(t, body, "Points: `150` (+0)")
	assert.Contains(t, body, "Days left: `9`")
	assert.Contains(t, body, "stocked up")
	// 2024-03-15 UTC+8 плюс 9 дней.
	assert.Contains(t, body, "Runs out on: `2024-03-24`")
	assert.Contains(t, body, "Status: Checkin! Got 1 Points")
	assert.Contains(t, body, "Updated at 18:00:00 (UTC+8)")
}

func TestBuild_LowBalanceWarning(t *testing.T) {
	service := NewReportService(Options{})

	tests := []struct {
		leftDays int
		warn     bool
	}{
		{leftDays: 0, warn: true},
		{leftDays: 6, warn: true},
		{leftDays: 7, warn: false},
		{leftDays: 30, warn: false},
	}

	for _, tt := range tests {
		snap := makeSnapshot("a@example.com", 0, tt.leftDays, "")
		_, body := service.Build([]models.AccountSnapshot{snap}, "", fixedNow)
		assert.Equal(t, tt.warn, strings.Contains(body, "running low"), "leftDays=%d", tt.leftDays)
	}
}

func TestBuild_TierBarRendering(t *testing.T) {
	service := NewReportService(Options{TierStyle: TierStyleBar})

	snap := makeSnapshot("a@example.com", 150, 30, "")
	_, body := service.Build([]models.AccountSnapshot{snap}, "", fixedNow)

	// 150/100 → заполнен полностью, 150/200 → шесть восьмых, 150/500 → две.
	assert.Contains(t, body, "`████████` 100% (150/100pt) **10 days** (ready to exchange)")
	assert.Contains(t, body, "`██████░░`  75% (150/200pt) **30 days** (need 50 more)")
	assert.Contains(t, body, "`██░░░░░░`  30% (150/500pt) **100 days** (need 350 more)")
}

// Испорченный план с нулевым или отрицательным порогом не должен ронять
// рендер, такой уровень считается достигнутым.
func TestBuild_TierNonPositiveThreshold(t *testing.T) {
	service := NewReportService(Options{TierStyle: TierStyleBar})

	snap := models.NewAccountSnapshot()
	snap.Email = "a@example.com"
	snap.Tiers = []models.ExchangeTierResult{
		models.EvaluateTier(0, models.ExchangeTier{PointsRequired: 0, DaysGranted: 10}),
		models.EvaluateTier(0, models.ExchangeTier{PointsRequired: -50, DaysGranted: 30}),
	}

	var body string
	require.NotPanics(t, func() {
		_, body = service.Build([]models.AccountSnapshot{snap}, "", fixedNow)
	})
	assert.Contains(t, body, "`████████` 100% (0/0pt) **10 days** (ready to exchange)")
	assert.Contains(t, body, "`████████` 100% (0/-50pt) **30 days** (ready to exchange)")
}

func TestBuild_TierBulletRendering(t *testing.T) {
	service := NewReportService(Options{TierStyle: TierStyleBullet})

	snap := makeSnapshot("a@example.com", 150, 30, "")
	_, body := service.Build([]models.AccountSnapshot{snap}, "", fixedNow)

	assert.Contains(t, body, "- 100pt → 10 days: ready to exchange")
	assert.Contains(t, body, "- 200pt → 30 days: need 50 more")
	assert.NotContains(t, body, "░")
}

func TestBuild_EnrichmentBlock(t *testing.T) {
	service := NewReportService(Options{})
	snap := makeSnapshot("a@example.com", 0, 0, "")

	_, withBlock := service.Build([]models.AccountSnapshot{snap}, "> quote of the day", fixedNow)
	assert.Contains(t, withBlock, "> quote of the day")

	_, withoutBlock := service.Build([]models.AccountSnapshot{snap}, "", fixedNow)
	assert.NotContains(t, withoutBlock, "quote of the day")
}

func TestBuild_Deterministic(t *testing.T) {
	service := NewReportService(Options{})
	snapshots := []models.AccountSnapshot{
		makeSnapshot("a@example.com", 150, 9, "Checkin! Got 1 Points"),
		makeSnapshot("b@example.com", 20, 2, "network error"),
	}

	title1, body1 := service.Build(snapshots, "> enrichment", fixedNow)
	title2, body2 := service.Build(snapshots, "> enrichment", fixedNow)

	assert.Equal(t, title1, title2)
	assert.Equal(t, body1, body2)
}

func TestBuild_GreetingByHour(t *testing.T) {
	service := NewReportService(Options{})
	snap := makeSnapshot("a@example.com", 0, 0, "")

	tests := []struct {
		utcHour  int
		greeting string
	}{
		{utcHour: 1, greeting: "Good morning"},   // 09:00 UTC+8
		{utcHour: 6, greeting: "Good afternoon"}, // 14:00 UTC+8
		{utcHour: 14, greeting: "Good evening"},  // 22:00 UTC+8
		{utcHour: 20, greeting: "Good evening"},  // 04:00 UTC+8
	}

	for _, tt := range tests {
		now := time.Date(2024, 3, 15, tt.utcHour, 0, 0, 0, time.UTC)
		_, body := service.Build([]models.AccountSnapshot{snap}, "", now)
		assert.Contains(t, body, tt.greeting, "utcHour=%d", tt.utcHour)
	}
}

func TestMaskEmail_TableTests(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
	}{
		{
			name:  "regular address",
			email: "username@example.com",
			want:  "use***me@example.com",
		},
		{
			name:  "short local part overlaps",
			email: "ab@example.com",
			want:  "ab***ab@example.com",
		},
		{
			name:  "no at sign stays unmasked",
			email: "unknown",
			want:  "unknown",
		},
		{
			name:  "domain preserved exactly",
			email: "longlocalpart@sub.domain.example",
			want:  "lon***rt@sub.domain.example",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MaskEmail(tt.email))
		})
	}
}

// Маска не раскрывает больше первых трех и последних двух символов
// локальной части, домен не меняется.
func TestMaskEmail_Property(t *testing.T) {
	emails := []string{
		"abcdefgh@example.com",
		"user.name+tag@mail.example",
		"xy@example.com",
	}

	for _, email := range emails {
		masked := MaskEmail(email)
		require.Contains(t, masked, "@")

		origLocal := strings.SplitN(email, "@", 2)[0]
		origDomain := strings.SplitN(email, "@", 2)[1]
		maskedDomain := strings.SplitN(masked, "@", 2)[1]

		assert.Equal(t, origDomain, maskedDomain, "email=%s", email)
		if len(origLocal) > 5 {
			assert.NotContains(t, masked, origLocal, "email=%s", email)
		}
	}
}
