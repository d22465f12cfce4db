package channel

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/desertthunder/cogniapply/internal/models"
	"github.com/desertthunder/cogniapply/internal/shared"
)

// EventType discriminates push channel messages.
type EventType string

const (
	EventStatus    EventType = "status"
	EventComplete  EventType = "complete"
	EventError     EventType = "error"
	EventHeartbeat EventType = "heartbeat"
)

// Event is one message pushed by the backend.
type Event struct {
	Type    EventType
	Message string
	Results []models.JobApplication
}

// Terminal reports whether the event ends a run.
func (e Event) Terminal() bool {
	return e.Type == EventComplete || e.Type == EventError
}

type wireEvent struct {
	Type    EventType       `json:"type"`
	Message string          `json:"message,omitempty"`
	Results json.RawMessage `json:"results,omitempty"`
}

// completeResults is the completion payload: the job list plus its totals.
type completeResults struct {
	TotalJobs    int                     `json:"totalJobs"`
	AppliedJobs  int                     `json:"appliedJobs"`
	Applications []models.JobApplication `json:"applications"`
	SuccessRate  int                     `json:"successRate"`
}

// Decode parses one channel message.
//
// The results of a completion accept a bare list, {"jobs": [...]} or {"applications": [...]}.
func Decode(data []byte) (Event, error) {
	var w wireEvent
	if err := json.Unmarshal(data, &w); err != nil {
		return Event{}, fmt.Errorf("%w: malformed event: %v", shared.ErrInvalidInput, err)
	}
	if w.Type == "" {
		return Event{}, fmt.Errorf("%w: event without type", shared.ErrInvalidInput)
	}

	e := Event{Type: w.Type, Message: w.Message}
	if w.Type != EventComplete {
		return e, nil
	}

	results, err := decodeResults(w.Results)
	if err != nil {
		return Event{}, err
	}
	e.Results = results
	return e, nil
}

func decodeResults(raw json.RawMessage) ([]models.JobApplication, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	if raw[0] == '[' {
		var list []models.JobApplication
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("%w: malformed results: %v", shared.ErrInvalidInput, err)
		}
		return list, nil
	}

	var obj struct {
		Jobs         []models.JobApplication `json:"jobs"`
		Applications []models.JobApplication `json:"applications"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("%w: malformed results: %v", shared.ErrInvalidInput, err)
	}
	if obj.Jobs != nil {
		return obj.Jobs, nil
	}
	return obj.Applications, nil
}

// Encode serializes e. Completions carry their totals alongside the job list.
func Encode(e Event) ([]byte, error) {
	w := wireEvent{Type: e.Type, Message: e.Message}

	if e.Type == EventComplete {
		apps := e.Results
		if apps == nil {
			apps = []models.JobApplication{}
		}
		summary := models.Summarize(apps)
		payload := completeResults{
			TotalJobs:    summary.TotalFound,
			AppliedJobs:  summary.TotalApplied,
			Applications: apps,
		}
		if summary.SuccessRate != nil {
			payload.SuccessRate = *summary.SuccessRate
		}

		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode results: %w", err)
		}
		w.Results = data
	}

	return json.Marshal(w)
}
