package handler

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/souktrack/souktrack/internal/platform/models"
	"github.com/souktrack/souktrack/internal/platform/rabbitmq"
	"github.com/souktrack/souktrack/pkg/v1/commander"
)

// Tracker ingests batches of product page URLs.
type Tracker interface {
	ProcessBatch(ctx context.Context, urls []string) ([]models.BatchResult, error)
}

// RMQHandler handles RMQ messages.
type RMQHandler struct {
	rmq     *rabbitmq.RabbitMQ
	tracker Tracker
	logger  *zerolog.Logger
}

// NewRMQHandler returns new RMQHandler.
func NewRMQHandler(rmq *rabbitmq.RabbitMQ, tracker Tracker, logger *zerolog.Logger) *RMQHandler {
	return &RMQHandler{
		rmq:     rmq,
		tracker: tracker,
		logger:  logger,
	}
}

// Start starts consuming and handling track commands from RMQ.
func (h *RMQHandler) Start(ctx context.Context, queue string) error {
	errorsChan, err := h.rmq.Consume(ctx, queue, func(ctx context.Context, message []byte) error {
		cmd, err := decodeMessage(message)
		if err != nil {
			return err
		}

		h.logger.Debug().
			Int("urls", len(cmd.URLs)).
			Msg("batch ingestion started")

		results, err := h.tracker.ProcessBatch(ctx, cmd.URLs)
		if err != nil {
			return fmt.Errorf("batch ingestion failed: %w", err)
		}

		for _, result := range results {
			if result.Err != nil {
				h.logger.Warn().
					Err(result.Err).
					Str("url", result.URL).
					Msg("can't ingest page")
				continue
			}
			h.logger.Debug().
				Str("url", result.URL).
				Str("outcome", result.Message).
				Msg("page ingested")
		}

		return nil
	})
	if err != nil {
		return err
	}

	go func() {
		for err := range errorsChan {
			h.logger.Error().
				Err(err).
				Msg("can't handle message")
		}
	}()

	return nil
}

func decodeMessage(msg []byte) (*commander.TrackCommand, error) {
	var cmd commander.TrackCommand
	err := json.Unmarshal(msg, &cmd)
	if err != nil {
		return nil, fmt.Errorf("can't decode track command: %w", err)
	}

	return &cmd, err
}
