package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Number число из ответа сервиса. Сервис отдает числовые поля то числом,
// то строкой ("9.7" и 9.7 равнозначны), поэтому тип принимает оба варианта.
type Number float64

// UnmarshalJSON принимает число, строку с числом, null и пустую строку.
func (n *Number) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("models.Number: %w", err)
	}
	*n = Number(f)
	return nil
}

// Int отбрасывает дробную часть к нулю.
func (n Number) Int() int {
	return int(float64(n))
}

// CheckinRequest тело запроса чекина.
type CheckinRequest struct {
	Token string `json:"token"`
}

// CheckinResponse ответ на POST /api/user/checkin.
type CheckinResponse struct {
	Message string `json:"message"`
}

// StatusResponse ответ на GET /api/user/status.
type StatusResponse struct {
	Data StatusData `json:"data"`
}

// StatusData данные аккаунта внутри ответа статуса.
type StatusData struct {
	Email    string `json:"email"`
	LeftDays Number `json:"leftDays"`
}

// PointsResponse ответ на GET /api/user/points.
// Поля history и plans опциональны и могут отсутствовать.
type PointsResponse struct {
	Points  Number                  `json:"points"`
	History []PointsHistoryEntry    `json:"history"`
	Plans   map[string]ExchangePlan `json:"plans"`
}

// PointsHistoryEntry запись истории изменения баллов,
// первая запись считается самой свежей.
type PointsHistoryEntry struct {
	Change Number `json:"change"`
}

// ExchangePlan динамический план обмена из ответа сервиса.
// Порядок планов в JSON-объекте не определен — потребители не должны
// полагаться на сортировку.
type ExchangePlan struct {
	Points Number `json:"points"`
	Days   Number `json:"days"`
}
