// Package sl содержит вспомогательные функции для работы с логгером slog.
// Основная цель — упростить формирование структурированных полей лога
// для ошибок и адресов зеркал сервиса.
package sl

import "log/slog"

// Err возвращает slog.Attr с ключом "error" и значением текста ошибки.
//
// Пример:
//
//	log.Error("failed to fetch points", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// Mirror возвращает slog.Attr с ключом "mirror" и базовым URL зеркала.
// Используется в логах цикла переключения доменов.
func Mirror(baseURL string) slog.Attr {
	return slog.Attr{
		Key:   "mirror",
		Value: slog.StringValue(baseURL),
	}
}
