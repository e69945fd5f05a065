package produce

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EmailExchange          = "email_exchange"
	EmailWelcomeRoutingKey = "email.welcome"
)

type EmailMessage struct {
	Type      string `json:"type"`
	Recipient string `json:"recipient"`
	Content   string `json:"content"`
	ActionUrl string `json:"actionUrl,omitempty"`
}

type EmailService struct {
	channel Channel
}

func InitEmailService(channel Channel) *EmailService {
	err := channel.ExchangeDeclare(
		EmailExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		panic("Failed to declare Email exchange: " + err.Error())
	}

	return &EmailService{
		channel: channel,
	}
}

// SendWelcome queues the greeting sent to a newly registered account.
func (s *EmailService) SendWelcome(ctx context.Context, email, actionUrl string) error {
	message := EmailMessage{
		Type:      "welcome",
		Recipient: email,
		Content:   "Your account has been created. You can now upload and share videos.",
		ActionUrl: actionUrl,
	}

	return s.publishEmail(ctx, EmailWelcomeRoutingKey, message)
}

func (s *EmailService) publishEmail(ctx context.Context, routingKey string, message EmailMessage) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal email message: %w", err)
	}

	err = s.channel.PublishWithContext(
		ctx,
		EmailExchange, // exchange
		routingKey,    // routing key
		false,         // mandatory
		false,         // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)

	if err != nil {
		return fmt.Errorf("failed to publish email message: %w", err)
	}

	return nil
}
