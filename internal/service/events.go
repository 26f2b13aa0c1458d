package service

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"github.com/hrstack/onboarding-service/internal/dto"
)

// publishEvent writes a domain event to the broker with a short retry loop.
// Event delivery is not part of any service's success contract; callers log
// the returned error and move on.
func publishEvent(producer *kafka.Conn, eventType string, data interface{}) error {
	if producer == nil {
		return nil
	}

	msg := dto.KafkaMessage{
		EventType: eventType,
		Data:      data,
	}

	jsonMsg, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal Kafka message: %w", err)
	}

	maxRetries := 3
	for i := 0; i < maxRetries; i++ {
		_, err = producer.WriteMessages(kafka.Message{Value: jsonMsg})
		if err == nil {
			return nil
		}
		log.Warn().Err(err).Str("component", "publishEvent").Msgf("write attempt %d/%d failed", i+1, maxRetries)
		time.Sleep(time.Second * time.Duration(i+1))
	}

	return fmt.Errorf("failed to write Kafka message after %d attempts: %w", maxRetries, err)
}
