package events

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/voidnire/APANEsportes-sub000/internal/repository"
)

const (
	maxRetries    = 3
	retryDelaySec = 2
	dlqSubject    = "analysis.completed.failed"
)

// AnalysisCompletedEvent is emitted by the external analysis worker once it
// finishes processing an uploaded video. The payload is opaque to this
// service and persisted as-is.
type AnalysisCompletedEvent struct {
	EventType string          `json:"event_type"`
	RecordID  uuid.UUID       `json:"record_id"`
	Payload   json.RawMessage `json:"payload"`
}

type AnalysisSubscriber struct {
	natsConn       *nats.Conn
	evaluationRepo repository.EvaluationRepository
}

func NewAnalysisSubscriber(natsURL string, evaluationRepo repository.EvaluationRepository) (*AnalysisSubscriber, error) {
	nc, err := nats.Connect(natsURL)
	if err != nil {
		return nil, err
	}
	log.Println("Analysis subscriber connected to NATS.")

	subscriber := &AnalysisSubscriber{
		natsConn:       nc,
		evaluationRepo: evaluationRepo,
	}

	subscriber.subscribeToAnalysisResults()

	return subscriber, nil
}

func (s *AnalysisSubscriber) subscribeToAnalysisResults() {
	_, err := s.natsConn.Subscribe("analysis.completed", func(msg *nats.Msg) {
		var event AnalysisCompletedEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			log.Printf("Failed to unmarshal analysis event: %v", err)
			return
		}

		var saveErr error
		for attempt := 1; attempt <= maxRetries; attempt++ {
			saveErr = s.evaluationRepo.StoreAnalysisResult(context.Background(), event.RecordID, event.Payload)
			if saveErr == nil {
				return
			}
			if errors.Is(saveErr, repository.ErrNotFound) {
				// Record was deleted before the analysis finished;
				// retrying will not bring it back.
				log.Printf("Dropping analysis result for missing record %s", event.RecordID)
				return
			}

			log.Printf("Failed saving analysis result (attempt %d): %v. Retrying in %d seconds...", attempt, saveErr, retryDelaySec)
			time.Sleep(time.Second * retryDelaySec)
		}

		log.Printf("FAILED to save analysis result after %d attempts. Record: %s. Last error: %v", maxRetries, event.RecordID, saveErr)

		if err := s.natsConn.Publish(dlqSubject, msg.Data); err != nil {
			log.Printf("Failed to publish to DLQ '%s': %v", dlqSubject, err)
		}
	})
	if err != nil {
		log.Printf("Failed to subscribe to analysis events: %v", err)
	} else {
		log.Println("Analysis subscriber listening on analysis.completed")
	}
}
