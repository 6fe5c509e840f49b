package event

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jwalitptl/homecare-api/internal/model"
	"github.com/jwalitptl/homecare-api/pkg/messaging"
	"github.com/jwalitptl/homecare-api/pkg/metrics"
)

const publishTimeout = 2 * time.Second

// Publisher announces service request lifecycle changes. Implementations
// must not fail the caller: delivery problems are logged and dropped.
type Publisher interface {
	Publish(ctx context.Context, event *model.ServiceRequestEvent)
}

type EventService struct {
	broker  messaging.Broker
	prefix  string
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

func NewEventService(broker messaging.Broker, channelPrefix string, m *metrics.Metrics, logger zerolog.Logger) *EventService {
	return &EventService{
		broker:  broker,
		prefix:  channelPrefix,
		metrics: m,
		logger:  logger.With().Str("component", "events").Logger(),
	}
}

func (s *EventService) Publish(ctx context.Context, event *model.ServiceRequestEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	msg, err := messaging.NewMessage(event.Type, event.OccurredAt, event)
	if err != nil {
		s.record(event.Type, "error")
		s.logger.Error().Err(err).Str("event_type", event.Type).Msg("failed to encode event")
		return
	}

	// the request may finish before the broker answers
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	channel := messaging.Channel(s.prefix, event.Type)
	if err := s.broker.Publish(ctx, channel, msg); err != nil {
		s.record(event.Type, "error")
		s.logger.Warn().
			Err(err).
			Str("channel", channel).
			Str("service_request_id", event.ServiceRequestID).
			Msg("failed to publish event")
		return
	}

	s.record(event.Type, "ok")
	s.logger.Debug().
		Str("channel", channel).
		Str("service_request_id", event.ServiceRequestID).
		Msg("event published")
}

func (s *EventService) record(eventType, status string) {
	if s.metrics != nil {
		s.metrics.EventsPublished.WithLabelValues(eventType, status).Inc()
	}
}

// Noop discards events. It is used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, *model.ServiceRequestEvent) {}
