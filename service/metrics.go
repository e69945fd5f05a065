package service

import (
	"context"
	"io"

	"github.com/tnqbao/gau-video-service/infra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/tnqbao/gau-video-service/service"

func newCounter(name, description string) metric.Int64Counter {
	counter, err := otel.Meter(meterName).Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		return nil
	}
	return counter
}

func incr(ctx context.Context, counter metric.Int64Counter) {
	if counter != nil {
		counter.Add(ctx, 1)
	}
}

func loggerOrDiscard(logger *infra.LoggerClient) *infra.LoggerClient {
	if logger == nil {
		return infra.NewLoggerClient(io.Discard, "gau-video-service")
	}
	return logger
}
