package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// serverChanBaseURL адрес API Server酱.
const serverChanBaseURL = "https://sctapi.ftqq.com"

// ServerChanChannel канал с send-key: форма title/desp, успехом считается
// только code == 0 в теле ответа.
type ServerChanChannel struct {
	sendKey    string
	baseURL    string
	httpClient *http.Client
}

type serverChanResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewServerChanChannel создает канал с send-key.
func NewServerChanChannel(sendKey string, timeout time.Duration) *ServerChanChannel {
	return &ServerChanChannel{
		sendKey:    sendKey,
		baseURL:    serverChanBaseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *ServerChanChannel) Name() string { return "serverchan" }

func (c *ServerChanChannel) Send(ctx context.Context, title, body string) error {
	const op = "dispatcher.ServerChan.Send"

	form := url.Values{
		"title": {title},
		"desp":  {body},
	}
	target := fmt.Sprintf("%s/%s.send", c.baseURL, c.sendKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target,
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	var decoded serverChanResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return fmt.Errorf("%s: malformed response: %w", op, err)
	}
	if decoded.Code != 0 {
		return fmt.Errorf("%s: service error code %d: %s", op, decoded.Code, decoded.Message)
	}
	return nil
}
