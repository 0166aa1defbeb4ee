package events_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/voidnire/APANEsportes-sub000/internal/events"
	"github.com/voidnire/APANEsportes-sub000/internal/model"
)

func TestAthleteCreatedEvent_Marshal(t *testing.T) {
	a := &model.Athlete{ID: uuid.New(), OwnerID: uuid.New(), FullName: "Maria Silva"}
	ev := events.AthleteCreatedEvent{
		EventType: "athlete.created",
		AthleteID: a.ID,
		OwnerID:   a.OwnerID,
		FullName:  a.FullName,
		CreatedAt: time.Now(),
	}

	b, err := json.Marshal(ev)
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.Equal(t, "athlete.created", decoded["event_type"])
	require.Equal(t, a.ID.String(), decoded["athlete_id"])
}

func TestEvaluationRecordedEvent_Marshal(t *testing.T) {
	ev := events.EvaluationRecordedEvent{
		EventType:   "evaluation.recorded",
		RecordID:    uuid.New(),
		AthleteID:   uuid.New(),
		ModalityID:  uuid.New(),
		Kind:        model.KindPre,
		RecordedAt:  time.Now(),
		ResultCount: 2,
	}

	b, err := json.Marshal(ev)
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.Equal(t, "evaluation.recorded", decoded["event_type"])
	require.Equal(t, "PRE", decoded["kind"])
	require.Equal(t, float64(2), decoded["result_count"])
}

func TestAnalysisCompletedEvent_Unmarshal(t *testing.T) {
	recordID := uuid.New()
	raw := `{"event_type":"analysis.completed","record_id":"` + recordID.String() + `","payload":{"top_speed":9.87}}`

	var ev events.AnalysisCompletedEvent
	require.NoError(t, json.Unmarshal([]byte(raw), &ev))
	require.Equal(t, recordID, ev.RecordID)
	require.JSONEq(t, `{"top_speed":9.87}`, string(ev.Payload))
}
