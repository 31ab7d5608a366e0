package scheduler

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TaskContactSync = "ubiflow.contacts.sync"

// ContactSyncPayload starts an import. A nil Since resumes from the stored cursor.
type ContactSyncPayload struct {
	Since *time.Time `json:"since,omitempty"`
}

func NewContactSyncTask(payload ContactSyncPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskContactSync, data), nil
}

func ParseContactSyncPayload(task *asynq.Task) (ContactSyncPayload, error) {
	var payload ContactSyncPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ContactSyncPayload{}, err
	}
	return payload, nil
}
