package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/careerhub/careerhub-api/internal/config"
	"github.com/careerhub/careerhub-api/pkg/logger"
)

const (
	TopicProfileEvents = "profile.events"
)

const (
	EventProfileCreated    = "profile.created"
	EventProfileUpdated    = "profile.updated"
	EventProfileDeleted    = "profile.deleted"
	EventExperienceChanged = "experience.changed"
)

// ProfileEvent is the message body published on profile.events. The
// worker consumes it to reconcile completeness scores out of band.
type ProfileEvent struct {
	Type       string    `json:"type"`
	ProfileID  string    `json:"profileId"`
	OccurredAt time.Time `json:"occurredAt"`
}

type KafkaProducerClient struct {
	ProfileEventsWriter *kafka.Writer
	logger              logger.Logger
}

func NewKafkaProducerClient(cfg config.Config, log logger.Logger) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	profileWriter := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    TopicProfileEvents,
		Balancer: &kafka.LeastBytes{},
	}

	log.Info("Initialized Kafka producers")

	return &KafkaProducerClient{
		ProfileEventsWriter: profileWriter,
		logger:              log,
	}, nil
}

// PublishProfileEvent is fire-and-forget: a broker outage must not fail
// the request that triggered the event. A nil client is a no-op so
// event publishing stays optional.
func (c *KafkaProducerClient) PublishProfileEvent(ctx context.Context, eventType, profileID string) {
	if c == nil || c.ProfileEventsWriter == nil {
		return
	}
	evt := ProfileEvent{
		Type:       eventType,
		ProfileID:  profileID,
		OccurredAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		c.logger.Error("Failed to marshal profile event", err)
		return
	}

	err = c.ProfileEventsWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(profileID),
		Value: payload,
	})
	if err != nil {
		c.logger.Error("Failed to publish profile event", err)
	}
}

func (c *KafkaProducerClient) Close() {
	if c.ProfileEventsWriter != nil {
		c.ProfileEventsWriter.Close()
	}
	c.logger.Info("Closed Kafka producers")
}
