package produce

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	VideoExchange          = "video.exchange"
	VideoCreatedQueue      = "video.created"
	VideoCreatedRoutingKey = "video.created"
)

// VideoCreatedMessage announces a newly stored record to downstream consumers
// such as feed builders or thumbnail warmers.
type VideoCreatedMessage struct {
	VideoID      string `json:"video_id"`
	Title        string `json:"title"`
	VideoURL     string `json:"video_url"`
	ThumbnailURL string `json:"thumbnail_url"`
	CreatedBy    string `json:"created_by,omitempty"`
	Timestamp    int64  `json:"timestamp"`
}

type VideoService struct {
	channel Channel
}

func InitVideoService(channel Channel) *VideoService {
	err := channel.ExchangeDeclare(
		VideoExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		panic("Failed to declare Video exchange: " + err.Error())
	}

	_, err = channel.QueueDeclare(
		VideoCreatedQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		panic("Failed to declare Video Created queue: " + err.Error())
	}

	err = channel.QueueBind(
		VideoCreatedQueue,
		VideoCreatedRoutingKey,
		VideoExchange,
		false,
		nil,
	)
	if err != nil {
		panic("Failed to bind Video Created queue: " + err.Error())
	}

	return &VideoService{channel: channel}
}

func (s *VideoService) PublishVideoCreated(ctx context.Context, msg VideoCreatedMessage) error {
	msg.Timestamp = time.Now().Unix()

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal video message: %w", err)
	}

	return s.channel.PublishWithContext(
		ctx,
		VideoExchange,
		VideoCreatedRoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
}
