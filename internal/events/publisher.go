package events

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/voidnire/APANEsportes-sub000/internal/model"
)

// EventPublisher announces domain changes to interested workers, such as
// the analysis pipeline. Publishing always happens after the database
// commit, never inside a transaction.
type EventPublisher interface {
	PublishAthleteCreated(athlete *model.Athlete) error
	PublishEvaluationRecorded(details *model.EvaluationDetails) error
}

type NatsPublisher struct {
	conn *nats.Conn
}

func NewNatsPublisher(natsURL string) (EventPublisher, error) {
	nc, err := nats.Connect(natsURL)

	if err != nil {
		return nil, err
	}

	return &NatsPublisher{conn: nc}, nil
}

type AthleteCreatedEvent struct {
	EventType string    `json:"event_type"`
	AthleteID uuid.UUID `json:"athlete_id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
}

type EvaluationRecordedEvent struct {
	EventType   string    `json:"event_type"`
	RecordID    uuid.UUID `json:"record_id"`
	AthleteID   uuid.UUID `json:"athlete_id"`
	ModalityID  uuid.UUID `json:"modality_id"`
	Kind        string    `json:"kind"`
	RecordedAt  time.Time `json:"recorded_at"`
	ResultCount int       `json:"result_count"`
}

func (p *NatsPublisher) PublishAthleteCreated(athlete *model.Athlete) error {
	event := AthleteCreatedEvent{
		EventType: "athlete.created",
		AthleteID: athlete.ID,
		OwnerID:   athlete.OwnerID,
		FullName:  athlete.FullName,
		CreatedAt: time.Now(),
	}

	eventJSON, err := json.Marshal(event)

	if err != nil {
		log.Printf("Error marshalling event JSON: %v", err)
		return err
	}

	subject := "athlete.created"
	err = p.conn.Publish(subject, eventJSON)

	if err != nil {
		log.Printf("Error publishing to NATS: %v", err)
		return err
	}

	return nil
}

func (p *NatsPublisher) PublishEvaluationRecorded(details *model.EvaluationDetails) error {
	event := EvaluationRecordedEvent{
		EventType:   "evaluation.recorded",
		RecordID:    details.ID,
		AthleteID:   details.AthleteID,
		ModalityID:  details.ModalityID,
		Kind:        details.Kind,
		RecordedAt:  details.RecordedAt,
		ResultCount: len(details.Results),
	}

	eventJSON, err := json.Marshal(event)

	if err != nil {
		return err
	}

	subject := "evaluation.recorded"
	err = p.conn.Publish(subject, eventJSON)

	if err != nil {
		log.Printf("Error publishing to NATS: %v", err)
		return err
	}

	log.Printf("Published event to NATS on subject '%s' for record '%s'", subject, details.ID)

	return nil
}

// NoopPublisher drops events; used when the broker is not configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishAthleteCreated(*model.Athlete) error               { return nil }
func (NoopPublisher) PublishEvaluationRecorded(*model.EvaluationDetails) error { return nil }
