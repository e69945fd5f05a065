package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/tnqbao/gau-video-service/infra"
	"github.com/tnqbao/gau-video-service/infra/produce"
	"github.com/tnqbao/gau-video-service/service"
)

// Channel is the subset of *amqp.Channel the consumers use.
type Channel interface {
	Qos(prefetchCount, prefetchSize int, global bool) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type VideoWarmer interface {
	Warm(ctx context.Context, id string) error
}

// VideoConsumer writes every announced video and the refreshed listing into the shared cache.
type VideoConsumer struct {
	channel Channel
	videos  VideoWarmer
	logger  *infra.LoggerClient
}

func NewVideoConsumer(channel Channel, videos VideoWarmer, logger *infra.LoggerClient) *VideoConsumer {
	return &VideoConsumer{
		channel: channel,
		videos:  videos,
		logger:  logger,
	}
}

func (c *VideoConsumer) Start(ctx context.Context) error {
	if err := c.channel.Qos(10, 0, false); err != nil {
		return fmt.Errorf("failed to set video consumer prefetch: %w", err)
	}

	msgs, err := c.channel.Consume(
		produce.VideoCreatedQueue,
		"",
		false, // manual ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register video created consumer: %w", err)
	}

	c.logger.InfoWithContextf(ctx, "[Video Consumer] Started listening on queue: %s", produce.VideoCreatedQueue)

	go c.loop(ctx, msgs)
	return nil
}

func (c *VideoConsumer) loop(ctx context.Context, msgs <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			c.logger.InfoWithContextf(ctx, "[Video Consumer] Shutting down...")
			return
		case msg, ok := <-msgs:
			if !ok {
				c.logger.WarningWithContextf(ctx, "[Video Consumer] Channel closed")
				return
			}
			c.handleVideoCreated(ctx, msg)
		}
	}
}

func (c *VideoConsumer) handleVideoCreated(ctx context.Context, msg amqp.Delivery) {
	var payload produce.VideoCreatedMessage
	if err := json.Unmarshal(msg.Body, &payload); err != nil || payload.VideoID == "" {
		c.logger.ErrorWithContextf(ctx, err, "[Video Consumer] Dropping malformed video.created message")
		_ = msg.Nack(false, false)
		return
	}

	if err := c.videos.Warm(ctx, payload.VideoID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.logger.WarningWithContextf(ctx, "[Video Consumer] Video %s no longer exists", payload.VideoID)
			_ = msg.Nack(false, false)
			return
		}
		c.logger.ErrorWithContextf(ctx, err, "[Video Consumer] Failed to load video %s", payload.VideoID)
		_ = msg.Nack(false, true) // requeue
		return
	}

	c.logger.DebugWithContextf(ctx, "[Video Consumer] Warmed cache for video %s", payload.VideoID)
	_ = msg.Ack(false)
}
