package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"job-board/internal/domain/event"
	"job-board/internal/logger"
	"job-board/pkg/mqtt"

	"go.uber.org/zap"
)

const qosAtLeastOnce byte = 1

// Broker is satisfied by *mqtt.Client.
type Broker interface {
	Publish(ctx context.Context, topic string, qos byte, retained bool, payload []byte) error
	Subscribe(ctx context.Context, topic string, qos byte, handler mqtt.MessageHandler) error
	Unsubscribe(ctx context.Context, topics ...string) error
}

// MQTTPublisher publishes events as JSON under <prefix>/<type>, with the dots
// of the event type turned into topic levels (job.created -> job/created).
type MQTTPublisher struct {
	broker Broker
	prefix string
}

func NewMQTTPublisher(broker Broker, prefix string) *MQTTPublisher {
	return &MQTTPublisher{
		broker: broker,
		prefix: strings.Trim(prefix, "/"),
	}
}

func (p *MQTTPublisher) Publish(ctx context.Context, evt event.Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", evt.Type, err)
	}

	if err := p.broker.Publish(ctx, p.Topic(evt.Type), qosAtLeastOnce, false, payload); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", evt.Type, err)
	}
	return nil
}

func (p *MQTTPublisher) Topic(t event.Type) string {
	topic := strings.ReplaceAll(string(t), ".", "/")
	if p.prefix == "" {
		return topic
	}
	return p.prefix + "/" + topic
}

// Relay subscribes to every job event on the broker and hands the decoded
// events to target until ctx is done. Events from all instances reach target
// this way.
func (p *MQTTPublisher) Relay(ctx context.Context, target event.Publisher) error {
	filter := p.Topic("job.#")

	err := p.broker.Subscribe(ctx, filter, qosAtLeastOnce, func(topic string, payload []byte) {
		var evt event.Event
		if err := json.Unmarshal(payload, &evt); err != nil {
			logger.Warn("Dropping undecodable event",
				zap.String("topic", topic),
				zap.Error(err),
			)
			return
		}

		if err := target.Publish(context.Background(), evt); err != nil {
			logger.Warn("Failed to relay event",
				zap.String("topic", topic),
				zap.String("type", string(evt.Type)),
				zap.Error(err),
			)
		}
	})
	if err != nil {
		return err
	}
	if ctx.Done() == nil {
		return nil
	}

	go func() {
		<-ctx.Done()
		unsubCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := p.broker.Unsubscribe(unsubCtx, filter); err != nil {
			logger.Warn("Failed to unsubscribe job feed",
				zap.String("topic", filter),
				zap.Error(err),
			)
		}
	}()
	return nil
}
