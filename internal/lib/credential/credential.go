// Package credential разбирает сырое значение GLADOS_COOKIE в список
// пригодных к использованию cookie-сессий. Пользователи вставляют значение
// в разных форматах: готовая cookie, JSON-объект из devtools или голый
// подписанный токен — все три формы приводятся к каноническому виду.
package credential

import (
	"encoding/json"
	"strings"
)

// sessionCookieKey каноническое имя сессионной cookie сервиса.
const sessionCookieKey = "koa:sess="

// minSignedTokenLen минимальная длина голого подписанного токена.
// Короткие строки с двумя точками почти наверняка не токен.
const minSignedTokenLen = 50

// Parse разбивает сырое значение на сегменты и нормализует каждый из них.
// Разделитель — перевод строки, если он встречается, иначе "&".
// Пустые сегменты отбрасываются; пустой вход дает пустой список.
func Parse(raw string) []string {
	sep := "&"
	if strings.Contains(raw, "\n") {
		sep = "\n"
	}

	var cookies []string
	for _, seg := range strings.Split(raw, sep) {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		cookies = append(cookies, normalize(seg))
	}
	return cookies
}

// normalize приводит один сегмент к канонической cookie.
// Правила применяются по порядку, срабатывает первое подходящее.
func normalize(seg string) string {
	// Уже содержит сессионную cookie — оставляем как есть.
	if strings.Contains(seg, "koa:sess") {
		return seg
	}

	// JSON-объект с полем token. Ошибка разбора не фатальна:
	// сегмент пойдет по следующим правилам.
	if strings.HasPrefix(seg, "{") {
		var payload struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal([]byte(seg), &payload); err == nil && payload.Token != "" {
			return sessionCookieKey + payload.Token
		}
	}

	// Голый подписанный токен: ровно две точки, без "=", достаточно длинный.
	if strings.Count(seg, ".") == 2 && !strings.Contains(seg, "=") && len(seg) > minSignedTokenLen {
		return sessionCookieKey + seg
	}

	return seg
}
