package notify

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"
	"github.com/baramej/library-system/library/internal/model"
	"github.com/baramej/library-system/pkg/breaker"
	"go.uber.org/zap"
)

type Kind string

const (
	KindDueSoon Kind = "due-soon"
	KindOverdue Kind = "overdue"
)

// Message is the notification event published for the mail worker.
type Message struct {
	Kind        Kind       `json:"kind"`
	LoanID      int        `json:"loanId"`
	Reference   string     `json:"reference"`
	MemberName  string     `json:"memberName"`
	Email       string     `json:"email"`
	BookName    string     `json:"bookName"`
	DueDate     model.Date `json:"dueDate"`
	OverdueDays int        `json:"overdueDays"`
	FineAmount  float64    `json:"fineAmount"`
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type kafkaSender struct {
	producer sarama.SyncProducer
	cb       breaker.CircuitBreaker
	topic    string
	log      *zap.Logger
}

// NewKafkaSender publishes notification events to the given topic. Sends go
// through a circuit breaker so a broker outage fails fast instead of stalling
// the reminder jobs.
func NewKafkaSender(producer sarama.SyncProducer, cb breaker.CircuitBreaker, topic string, log *zap.Logger) Sender {
	return &kafkaSender{
		producer: producer,
		cb:       cb,
		topic:    topic,
		log:      log.Named("notify"),
	}
}

func (s *kafkaSender) Send(_ context.Context, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return s.cb.Call(func() error {
		_, _, err := s.producer.SendMessage(&sarama.ProducerMessage{
			Topic: s.topic,
			Key:   sarama.StringEncoder(msg.Reference),
			Value: sarama.StringEncoder(data),
		})
		if err != nil {
			s.log.Error("send notification", zap.String("reference", msg.Reference), zap.Error(err))
		}
		return err
	})
}
