// Package rabbitmq содержит вспомогательную публикацию сообщений в брокер.
package rabbitmq

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/gym-membership/internal/models"
)

// Publisher привязывает канал к обменнику и публикует сообщения по ключу маршрутизации.
type Publisher struct {
	Ch       *amqp.Channel
	Exchange string
}

// Publish публикует сообщение в обменник паблишера.
func (p *Publisher) Publish(routingKey string, message any) error {
	return PublishMessage(p.Ch, p.Exchange, routingKey, message)
}

// OTPNotifier отправляет одноразовые коды через брокер с ключом otp.
type OTPNotifier struct {
	Publisher *Publisher
}

// PublishOTP публикует одноразовый код для последующей отправки по почте.
func (n *OTPNotifier) PublishOTP(email, code string) error {
	return n.Publisher.Publish("otp", models.OTPMessage{Email: email, Code: code})
}

// PublishMessage публикует сообщение в RabbitMQ.
func PublishMessage(ch *amqp.Channel, exchange string, routingkey string, message any) error {
	const op = "rabbitmq.PublishMessage"
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = ch.Publish(
		exchange,
		routingkey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
