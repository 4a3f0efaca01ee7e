package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/waretrack/inventory-service/internal/pkg/broker"
	"github.com/waretrack/inventory-service/internal/pkg/logger"
	"github.com/waretrack/inventory-service/internal/receiving"
	"github.com/waretrack/inventory-service/internal/receiving/dto"
	"go.uber.org/zap"
)

// PulltagListener consumes pulltag events the purchasing system publishes and
// registers the expected-receipt lines through the receiving usecase.
type PulltagListener struct {
	consumer *broker.KafkaConsumer
	uc       receiving.UseCase
	logger   logger.ZapLogger
}

func NewPulltagListener(consumer *broker.KafkaConsumer, uc receiving.UseCase, logger logger.ZapLogger) *PulltagListener {
	return &PulltagListener{
		consumer: consumer,
		uc:       uc,
		logger:   logger,
	}
}

func (l *PulltagListener) Start(ctx context.Context) {
	l.logger.Info("Starting Pulltag Kafka Listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping Pulltag Kafka Listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				// Don't log context canceled error as error
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type PulltagIssuedEvent struct {
	EventID   string         `json:"event_id"`
	EventType string         `json:"event_type"`
	Payload   PulltagPayload `json:"payload"`
	Timestamp time.Time      `json:"timestamp"`
}

type PulltagPayload struct {
	Warehouse     string               `json:"warehouse"`
	PulltagNumber string               `json:"pulltag_number"`
	JobNumber     string               `json:"job_number"`
	Lines         []PulltagLinePayload `json:"lines"`
}

type PulltagLinePayload struct {
	LineNo   int     `json:"line_no"`
	ItemCode string  `json:"item_code"`
	Quantity float64 `json:"quantity"`
}

func (l *PulltagListener) processMessage(ctx context.Context, value []byte) {
	var event PulltagIssuedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != "PulltagIssued" {
		return
	}

	l.logger.Info("Processing PulltagIssued event", zap.String("pulltag_number", event.Payload.PulltagNumber))

	lines := make([]dto.PulltagLineInput, 0, len(event.Payload.Lines))
	for _, line := range event.Payload.Lines {
		lines = append(lines, dto.PulltagLineInput{
			LineNo:   line.LineNo,
			ItemCode: line.ItemCode,
			Quantity: line.Quantity,
		})
	}

	_, err := l.uc.CreateLines(ctx, &dto.CreatePulltagsInput{
		Warehouse:     event.Payload.Warehouse,
		PulltagNumber: event.Payload.PulltagNumber,
		JobNumber:     event.Payload.JobNumber,
		Lines:         lines,
	})
	if err != nil {
		l.logger.Error("Failed to create pulltag lines from event",
			zap.String("pulltag_number", event.Payload.PulltagNumber),
			zap.Error(err),
		)
	}
}
