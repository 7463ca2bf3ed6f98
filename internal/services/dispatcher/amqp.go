package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"
)

// ReportMessage сообщение с отчетом для подписчиков очереди.
type ReportMessage struct {
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	GeneratedAt time.Time `json:"generated_at"`
}

// AMQPChannel публикует отчет в обменник RabbitMQ для сторонних
// потребителей. Соединение открывается на отправку и закрывается сразу:
// процесс живет один запуск, держать соединение незачем.
type AMQPChannel struct {
	url        string
	exchange   string
	routingKey string
	dial       func(string) (*amqp.Connection, error)
	now        func() time.Time
}

// NewAMQPChannel создает канал публикации отчета в RabbitMQ.
func NewAMQPChannel(url, exchange, routingKey string) *AMQPChannel {
	return &AMQPChannel{
		url:        url,
		exchange:   exchange,
		routingKey: routingKey,
		dial:       amqp.Dial,
		now:        time.Now,
	}
}

func (c *AMQPChannel) Name() string { return "rabbitmq" }

func (c *AMQPChannel) Send(_ context.Context, title, body string) error {
	const op = "dispatcher.AMQP.Send"

	conn, err := c.dial(c.url)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer ch.Close()

	err = ch.ExchangeDeclare(
		c.exchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	payload, err := json.Marshal(ReportMessage{
		Title:       title,
		Body:        body,
		GeneratedAt: c.now(),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = ch.Publish(
		c.exchange,
		c.routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         payload,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
