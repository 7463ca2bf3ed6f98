package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// pushPlusBaseURL адрес API PushPlus.
const pushPlusBaseURL = "https://www.pushplus.plus/send"

// PushPlusChannel канал с токеном: GET с параметрами запроса,
// fire-and-forget — тело ответа не разбирается.
type PushPlusChannel struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

// NewPushPlusChannel создает канал с токеном.
func NewPushPlusChannel(token string, timeout time.Duration) *PushPlusChannel {
	return &PushPlusChannel{
		token:      token,
		baseURL:    pushPlusBaseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *PushPlusChannel) Name() string { return "pushplus" }

func (c *PushPlusChannel) Send(ctx context.Context, title, body string) error {
	const op = "dispatcher.PushPlus.Send"

	query := url.Values{
		"token":    {c.token},
		"title":    {title},
		"content":  {body},
		"template": {"html"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%s: unexpected status: %s", op, resp.Status)
	}
	return nil
}
