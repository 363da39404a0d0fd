package audit

import (
	"encoding/json"
	"log"

	"go-consign-pos/internal/model"
	"go-consign-pos/internal/repository"
	"go-consign-pos/internal/ws"

	"github.com/google/uuid"
)

// Recorder appends domain events ("Shop Opened", "Shop Closed", ...) to the
// activity log and fans them out to connected dashboard clients. Recording
// is best-effort: it runs after the owning transaction commits and a failed
// write never propagates back into the operation.
type Recorder interface {
	Record(event, subjectType string, subjectID uuid.UUID, causedBy string, props map[string]interface{})
}

type recorder struct {
	logs  repository.ActivityLogRepository
	wsHub *ws.Hub
}

func NewRecorder(logs repository.ActivityLogRepository, hub *ws.Hub) Recorder {
	return &recorder{logs: logs, wsHub: hub}
}

func (r *recorder) Record(event, subjectType string, subjectID uuid.UUID, causedBy string, props map[string]interface{}) {
	propsJSON := "{}"
	if props != nil {
		if b, err := json.Marshal(props); err == nil {
			propsJSON = string(b)
		}
	}

	entry := &model.ActivityLog{
		EventName:   event,
		SubjectType: subjectType,
		SubjectID:   subjectID,
		Properties:  propsJSON,
		CausedBy:    causedBy,
	}
	if err := r.logs.Append(entry); err != nil {
		log.Printf("audit: failed to append %q for %s/%s: %v", event, subjectType, subjectID, err)
	}

	if r.wsHub == nil {
		return
	}
	payload := map[string]interface{}{
		"type":       "activity",
		"event":      event,
		"subject":    subjectType,
		"subject_id": subjectID.String(),
		"properties": props,
	}
	msg, _ := json.Marshal(payload)
	r.wsHub.Broadcast <- msg
}
