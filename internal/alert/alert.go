// Package alert raises a notification when an assessment lands in the high
// risk band.
package alert

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

const DefaultQueue = "risk.alerts"

// Alert is published as JSON for downstream consumers (care workers, paging).
type Alert struct {
	ID            string    `json:"id"`
	AssessmentID  string    `json:"assessment_id"`
	Glucose       float64   `json:"glucose"`
	BloodPressure float64   `json:"blood_pressure"`
	BMI           float64   `json:"bmi"`
	Probability   float64   `json:"probability"`
	Category      string    `json:"category"`
	RaisedAt      time.Time `json:"raised_at"`
}

func New(assessmentID string, glucose, bloodPressure, bmi, probability float64, category string) Alert {
	return Alert{
		ID:            uuid.NewString(),
		AssessmentID:  assessmentID,
		Glucose:       glucose,
		BloodPressure: bloodPressure,
		BMI:           bmi,
		Probability:   probability,
		Category:      category,
		RaisedAt:      time.Now().UTC(),
	}
}

type Notifier interface {
	Notify(ctx context.Context, a Alert) error
}

// LogNotifier writes alerts to the structured log.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, a Alert) error {
	log.Warn().
		Str("alert_id", a.ID).
		Str("assessment_id", a.AssessmentID).
		Float64("probability", a.Probability).
		Str("category", a.Category).
		Msg("ALERT: patient high risk")
	return nil
}

// AMQPPublisher publishes alerts to a durable RabbitMQ queue. A connection
// is opened per alert; alerts are rare and this keeps no broker state
// between submissions.
type AMQPPublisher struct {
	url   string
	queue string
}

func NewAMQPPublisher(url, queue string) *AMQPPublisher {
	if queue == "" {
		queue = DefaultQueue
	}
	return &AMQPPublisher{url: url, queue: queue}
}

func (p *AMQPPublisher) Queue() string {
	return p.queue
}

func (p *AMQPPublisher) Notify(ctx context.Context, a Alert) error {
	body, err := Encode(a)
	if err != nil {
		return err
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		p.queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	if err := ch.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		Publishing(a, body),
	); err != nil {
		return fmt.Errorf("rabbitmq publish: %w", err)
	}

	log.Info().Str("alert_id", a.ID).Str("queue", p.queue).Msg("high risk alert published")
	return nil
}

func Encode(a Alert) ([]byte, error) {
	body, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal alert: %w", err)
	}
	return body, nil
}

// Publishing builds the persistent AMQP message for an encoded alert.
func Publishing(a Alert, body []byte) amqp.Publishing {
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    a.ID,
		Timestamp:    a.RaisedAt,
		Body:         body,
	}
}

// FromURL picks the AMQP publisher when a broker URL is configured and the
// log notifier otherwise.
func FromURL(url, queue string) Notifier {
	if url == "" {
		return LogNotifier{}
	}
	return NewAMQPPublisher(url, queue)
}
