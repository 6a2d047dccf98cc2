package notify

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

type deliver func(ctx context.Context, msg Message) error

// Consumer hands published notification events to the delivery callback (the
// mail gateway boundary). Delivery failures are logged and the message left
// unmarked so it is retried on the next session.
type Consumer struct {
	deliverHandler deliver
	log            *zap.Logger
	ready          chan bool
}

func NewConsumer(deliver deliver, log *zap.Logger) *Consumer {
	return &Consumer{
		deliverHandler: deliver,
		log:            log.Named("consumer"),
		ready:          make(chan bool),
	}
}

func (consumer *Consumer) Setup(sarama.ConsumerGroupSession) error {
	// Mark the consumer as ready
	close(consumer.ready)
	return nil
}

// Cleanup is run at the end of a session, once all ConsumeClaim goroutines have exited.
func (consumer *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (consumer *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				consumer.log.Warn("message channel was closed")
				return nil
			}
			var msg Message
			if err := json.Unmarshal(message.Value, &msg); err != nil {
				consumer.log.Error("", zap.Error(err))
				session.MarkMessage(message, "")
				continue
			}

			if err := consumer.deliverHandler(context.Background(), msg); err != nil {
				consumer.log.Error("consumer.deliverHandler", zap.Error(err))
				continue
			}

			consumer.log.Debug("Message claimed:", zap.String("value", string(message.Value)), zap.Time("timestamp", message.Timestamp), zap.String("topic", message.Topic))
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}
