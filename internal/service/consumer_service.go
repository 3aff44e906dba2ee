package service

import (
	"context"
	"encoding/json"

	"cooking-coach-be/internal/dto"
	"cooking-coach-be/internal/pkg/logger"
	pktNats "cooking-coach-be/pkg/nats"
	"cooking-coach-be/pkg/pipeline"

	"github.com/google/uuid"
)

const (
	pipelineDurableName = "pipeline-orchestrator"
	pipelineMaxDeliver  = 5
)

type IConsumerService interface {
	Start(ctx context.Context) error
}

// consumerService binds the durable trigger stream to the orchestrator.
// Delivery is at-least-once; idempotency lives entirely in the orchestrator,
// so the handler just runs and reports.
type consumerService struct {
	subscriber     *pktNats.Subscriber
	triggerSubject string
	orchestrator   *pipeline.Orchestrator
	logger         logger.ILogger
}

func NewConsumerService(
	subscriber *pktNats.Subscriber,
	triggerSubject string,
	orchestrator *pipeline.Orchestrator,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber:     subscriber,
		triggerSubject: triggerSubject,
		orchestrator:   orchestrator,
		logger:         log,
	}
}

func (s *consumerService) Start(ctx context.Context) error {
	err := s.subscriber.SubscribeTrigger(s.triggerSubject, pipelineDurableName, pipelineMaxDeliver, s.handleTrigger)
	if err != nil {
		return err
	}

	// A trigger that burned all its deliveries needs a human; the failed
	// session remains retryable through the API.
	return s.subscriber.SubscribeMaxDeliveries(pipelineDurableName, func(streamSeq uint64, subject string) {
		s.logger.Error("ConsumerService", "pipeline trigger exhausted deliveries, manual intervention required", map[string]interface{}{
			"stream_seq": streamSeq,
			"subject":    subject,
		})
	})
}

func (s *consumerService) handleTrigger(ctx context.Context, data []byte) error {
	var payload dto.PipelineTriggerMessage
	if err := json.Unmarshal(data, &payload); err != nil {
		// Malformed payloads never get better; drop instead of redelivering.
		s.logger.Error("ConsumerService", "malformed trigger payload, dropping", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}
	if payload.SessionId == uuid.Nil {
		s.logger.Error("ConsumerService", "trigger without session id, dropping", nil)
		return nil
	}

	return s.orchestrator.Run(ctx, payload.SessionId)
}
