package produce

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Channel is the subset of *amqp.Channel the producers use.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type Produce struct {
	EmailService *EmailService
	VideoService *VideoService
}

var produceInstance *Produce

func InitProduce(channel Channel) *Produce {
	if produceInstance != nil {
		return produceInstance
	}
	produceInstance = NewProduce(channel)
	return produceInstance
}

func NewProduce(channel Channel) *Produce {
	emailService := InitEmailService(channel)
	if emailService == nil {
		panic("Failed to initialize Email service")
	}

	videoService := InitVideoService(channel)
	if videoService == nil {
		panic("Failed to initialize Video service")
	}

	return &Produce{
		EmailService: emailService,
		VideoService: videoService,
	}
}
