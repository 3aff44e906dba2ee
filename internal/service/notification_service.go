package service

import (
	"context"
	"encoding/json"
	"time"

	"cooking-coach-be/internal/dto"
	"cooking-coach-be/internal/entity"
	"cooking-coach-be/internal/pkg/logger"
	"cooking-coach-be/pkg/events"
	pktNats "cooking-coach-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// NotificationService is the outward half of the delivery sink. The
// orchestrator drops delivery events on the in-process bus; Start forwards
// them to the external NATS event stream so other systems (push, analytics)
// can react. Losing one of these is acceptable, the chat message is the
// durable record.
type NotificationService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	publisher IPublisherService
	natsPub   *pktNats.Publisher
	logger    logger.ILogger
}

func NewNotificationService(pubSub *gochannel.GoChannel, topicName string, natsPub *pktNats.Publisher, log logger.ILogger) *NotificationService {
	return &NotificationService{
		pubSub:    pubSub,
		topicName: topicName,
		publisher: NewPublisherService(topicName, pubSub),
		natsPub:   natsPub,
		logger:    log,
	}
}

// pipeline.Notifier implementation

func (s *NotificationService) NotifyTextReady(ctx context.Context, session *entity.CookingSession) error {
	return s.publishDelivery(ctx, events.TypeCoachingTextReady, session, "")
}

func (s *NotificationService) NotifyVideoReady(ctx context.Context, session *entity.CookingSession) error {
	return s.publishDelivery(ctx, events.TypeCoachingCompleted, session, "")
}

func (s *NotificationService) NotifyFailed(ctx context.Context, session *entity.CookingSession, detail string) error {
	return s.publishDelivery(ctx, events.TypePipelineFailed, session, detail)
}

func (s *NotificationService) publishDelivery(ctx context.Context, eventType string, session *entity.CookingSession, detail string) error {
	payload := dto.DeliveryEventMessage{
		EventType: eventType,
		SessionId: session.Id,
		UserId:    session.UserId,
		Detail:    detail,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return s.publisher.Publish(ctx, data)
}

// Start begins forwarding delivery events to NATS.
func (s *NotificationService) Start(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, s.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.forward(ctx, msg)
		}
	}()

	s.logger.Info("NotificationService", "delivery event forwarder started", map[string]interface{}{
		"topic": s.topicName,
	})
	return nil
}

func (s *NotificationService) forward(ctx context.Context, msg *message.Message) {
	var payload dto.DeliveryEventMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		s.logger.Error("NotificationService", "invalid delivery event, dropping", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack()
		return
	}

	event := events.BaseEvent{
		Type: payload.EventType,
		Data: map[string]interface{}{
			"session_id": payload.SessionId.String(),
			"user_id":    payload.UserId.String(),
			"detail":     payload.Detail,
		},
		OccurredAt: time.Now(),
	}

	if err := s.natsPub.Publish(ctx, event); err != nil {
		s.logger.Warn("NotificationService", "failed to forward delivery event", map[string]interface{}{
			"event": payload.EventType,
			"error": err.Error(),
		})
		msg.Nack()
		return
	}

	msg.Ack()
}
