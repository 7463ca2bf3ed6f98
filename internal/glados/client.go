// Package glados реализует HTTP-клиент сервиса с переключением между
// зеркальными доменами. Запрос выполняется по упорядоченному списку зеркал
// до первого ответа 200; все остальные исходы (не-200, таймаут, сетевая
// ошибка, битое тело) поглощаются, и клиент пробует следующее зеркало.
package glados

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/checkin-reporter/internal/lib/sl"
)

// ErrUnavailable возвращается, когда ни одно зеркало не ответило успешно.
// Вызывающий обязан трактовать это как сетевую ошибку, а не как пустой успех.
var ErrUnavailable = errors.New("all mirrors unavailable")

// Заголовки, без которых сервис отклоняет запрос.
const (
	userAgent   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	contentType = "application/json;charset=UTF-8"
)

// maxResponseBytes ограничение на размер читаемого тела ответа.
const maxResponseBytes = 1 << 20

// Client клиент сервиса с failover по зеркалам.
// Список зеркал фиксируется при создании и не меняется.
type Client struct {
	mirrors    []string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *slog.Logger

	// Индекс последнего успешного зеркала. Необязательная подсказка:
	// с него начинается следующий перебор, порядок остальных сохраняется.
	lastGood int
}

// New создает клиент сервиса.
func New(mirrors []string, timeout time.Duration, requestRate float64, log *slog.Logger) *Client {
	return &Client{
		mirrors:    mirrors,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(requestRate), 1),
		log:        log,
	}
}

// Do выполняет запрос с перебором зеркал и декодирует JSON-ответ в dst.
// Cookie передается как есть в заголовке Cookie. body (если не nil)
// кодируется в JSON. Возвращает ErrUnavailable, когда все зеркала отказали.
func (c *Client) Do(ctx context.Context, method, path, cookie string, body, dst any) error {
	const op = "glados.Do"

	if len(c.mirrors) == 0 {
		return fmt.Errorf("%s: %w", op, ErrUnavailable)
	}

	for _, i := range c.mirrorOrder() {
		base := c.mirrors[i]

		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		if err := c.attempt(ctx, method, base, path, cookie, body, dst); err != nil {
			c.log.Debug("mirror attempt failed", sl.Mirror(base), sl.Err(err))
			continue
		}

		c.lastGood = i
		return nil
	}

	return fmt.Errorf("%s: %w", op, ErrUnavailable)
}

// mirrorOrder возвращает индексы зеркал в порядке перебора:
// последнее успешное первым, остальные — в порядке конфигурации.
func (c *Client) mirrorOrder() []int {
	order := make([]int, 0, len(c.mirrors))
	order = append(order, c.lastGood)
	for i := range c.mirrors {
		if i != c.lastGood {
			order = append(order, i)
		}
	}
	return order
}

func (c *Client) attempt(ctx context.Context, method, base, path, cookie string, body, dst any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, base+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Cookie", cookie)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return err
	}
	if dst == nil {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("malformed body: %w", err)
	}
	return nil
}
