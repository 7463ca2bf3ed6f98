package services

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// DingTalkChannel подписанный webhook-канал. Если задан секрет, к URL
// добавляются параметры timestamp и sign; без секрета URL не меняется.
type DingTalkChannel struct {
	webhook    string
	secret     string
	httpClient *http.Client
	now        func() time.Time
}

type dingTalkMessage struct {
	MsgType  string           `json:"msgtype"`
	Markdown dingTalkMarkdown `json:"markdown"`
}

type dingTalkMarkdown struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// NewDingTalkChannel создает канал с подписанным webhook.
func NewDingTalkChannel(webhook, secret string, timeout time.Duration) *DingTalkChannel {
	return &DingTalkChannel{
		webhook:    webhook,
		secret:     secret,
		httpClient: &http.Client{Timeout: timeout},
		now:        time.Now,
	}
}

func (c *DingTalkChannel) Name() string { return "dingtalk" }

// Send публикует markdown-сообщение в webhook. Метка времени считается
// заново на каждую отправку.
func (c *DingTalkChannel) Send(ctx context.Context, title, body string) error {
	const op = "dispatcher.DingTalk.Send"

	target := c.webhook
	if c.secret != "" {
		timestamp := c.now().UnixMilli()
		target = fmt.Sprintf("%s&timestamp=%d&sign=%s",
			c.webhook, timestamp, Sign(timestamp, c.secret))
	}

	payload, err := json.Marshal(dingTalkMessage{
		MsgType:  "markdown",
		Markdown: dingTalkMarkdown{Title: title, Text: body},
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

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

// Sign считает подпись webhook: HMAC-SHA256 с ключом secret над строкой
// "<timestamp>\n<secret>", base64 от дайджеста, затем percent-кодирование.
func Sign(timestamp int64, secret string) string {
	stringToSign := fmt.Sprintf("%d\n%s", timestamp, secret)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(stringToSign))
	digest := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return url.QueryEscape(digest)
}
