// Package models содержит доменные структуры, описывающие состояние аккаунта
// после обхода, а также вспомогательные типы для разбора ответов внешнего
// сервиса. Ответы сервиса слабо типизированы (числа приходят то числом,
// то строкой), поэтому wire-типы отделены от доменных и декодируются только
// на границе агрегации.
package models

import (
	"fmt"
	"strconv"
	"strings"
)

// UnknownEmail значение идентификатора по умолчанию, когда сервис
// не вернул данные аккаунта.
const UnknownEmail = "unknown"

// successMarkers известные маркеры успешного или повторного чекина в тексте
// ответа сервиса. Сервис не отдает структурированный код статуса, поэтому
// сопоставление — регистрозависимый поиск подстроки. Список не расширять
// без сверки с живым словарем сервиса.
var successMarkers = []string{"Got", "Repeats"}

// AccountSnapshot итоговое состояние одного аккаунта за запуск.
// Все поля имеют безопасные значения по умолчанию: любой сбой удаленного
// вызова отражается нейтральным значением, а не ошибкой.
type AccountSnapshot struct {
	Email        string               // Идентификатор аккаунта (email)
	LeftDays     int                  // Остаток дней, неотрицательный
	Points       int                  // Баланс баллов, неотрицательный
	PointsChange string               // Последнее изменение баллов со знаком, например "+5"
	LastMessage  string               // Текст последнего ответа на чекин
	Tiers        []ExchangeTierResult // Прогресс по уровням обмена
}

// NewAccountSnapshot возвращает снапшот с дефолтными значениями.
func NewAccountSnapshot() AccountSnapshot {
	return AccountSnapshot{
		Email:        UnknownEmail,
		PointsChange: "+0",
	}
}

// CheckinSucceeded сообщает, считается ли чекин успешным по эвристике
// на тексте ответа.
func (s AccountSnapshot) CheckinSucceeded() bool {
	for _, marker := range successMarkers {
		if strings.Contains(s.LastMessage, marker) {
			return true
		}
	}
	return false
}

// ExchangeTier описывает вариант обмена: сколько баллов требуется
// и сколько дней начисляется.
type ExchangeTier struct {
	PointsRequired int
	DaysGranted    int
}

// DefaultExchangeTiers статические уровни обмена, отсортированы по возрастанию
// порога. Используются, когда сервис не вернул собственные планы.
func DefaultExchangeTiers() []ExchangeTier {
	return []ExchangeTier{
		{PointsRequired: 100, DaysGranted: 10},
		{PointsRequired: 200, DaysGranted: 30},
		{PointsRequired: 500, DaysGranted: 100},
	}
}

// ExchangeTierResult прогресс аккаунта по одному уровню обмена.
// Вычисляется на лету и нигде не хранится.
type ExchangeTierResult struct {
	Tier  ExchangeTier
	Ready bool // Баллов достаточно для обмена
	Gap   int  // Сколько баллов не хватает, 0 когда Ready
}

// EvaluateTier считает готовность и недостачу для одного уровня.
func EvaluateTier(points int, tier ExchangeTier) ExchangeTierResult {
	gap := tier.PointsRequired - points
	if gap < 0 {
		gap = 0
	}
	return ExchangeTierResult{
		Tier:  tier,
		Ready: points >= tier.PointsRequired,
		Gap:   gap,
	}
}

// FormatChange форматирует изменение баллов с явным знаком "+"
// для неотрицательных значений. Дробная часть отбрасывается к нулю.
func FormatChange(change float64) string {
	v := int(change)
	if v >= 0 {
		return fmt.Sprintf("+%d", v)
	}
	return strconv.Itoa(v)
}
