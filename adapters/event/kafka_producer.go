package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/khoahotran/career-planner/internal/config"
	"github.com/segmentio/kafka-go"
)

const (
	TopicImportEvents = "import.events"
	TopicPlanEvents   = "plan.events"
)

const (
	ImportEventTypeCompleted = "import.completed"
	ImportEventTypeFailed    = "import.failed"
	PlanEventTypeGenerated   = "plan.generated"
)

type ImportEventPayload struct {
	EventType      string    `json:"event_type"`
	JobID          uuid.UUID `json:"job_id"`
	OwnerID        uuid.UUID `json:"owner_id"`
	ImportType     string    `json:"import_type"`
	Outcome        string    `json:"outcome"`
	ProcessedCount int       `json:"processed_count"`
	SkippedCount   int       `json:"skipped_count"`
	ErrorCount     int       `json:"error_count"`
	OccurredAt     time.Time `json:"occurred_at"`
}

type PlanEventPayload struct {
	EventType  string    `json:"event_type"`
	PlanID     uuid.UUID `json:"plan_id"`
	OwnerID    uuid.UUID `json:"owner_id"`
	GoalID     uuid.UUID `json:"goal_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

type KafkaProducerClient struct {
	ImportEventsWriter *kafka.Writer
	PlanEventsWriter   *kafka.Writer
}

func NewKafkaProducerClient(cfg config.Config) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	// writer 'import.events'
	importWriter := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    TopicImportEvents,
		Balancer: &kafka.LeastBytes{},
	}

	// writer 'plan.events'
	planWriter := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    TopicPlanEvents,
		Balancer: &kafka.LeastBytes{},
	}

	fmt.Println("Initialize Kafka Producers successfully.")

	return &KafkaProducerClient{
		ImportEventsWriter: importWriter,
		PlanEventsWriter:   planWriter,
	}, nil
}

func (c *KafkaProducerClient) PublishImportEvent(ctx context.Context, payload ImportEventPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("cannot marshal import event payload: %w", err)
	}
	return c.ImportEventsWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(payload.OwnerID.String()),
		Value: data,
	})
}

func (c *KafkaProducerClient) PublishPlanEvent(ctx context.Context, payload PlanEventPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("cannot marshal plan event payload: %w", err)
	}
	return c.PlanEventsWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(payload.OwnerID.String()),
		Value: data,
	})
}

func (c *KafkaProducerClient) Close() {
	if c.ImportEventsWriter != nil {
		c.ImportEventsWriter.Close()
	}
	if c.PlanEventsWriter != nil {
		c.PlanEventsWriter.Close()
	}
	fmt.Println("Closed Kafka Producers")
}
