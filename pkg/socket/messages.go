package socket

import (
	"encoding/json"

	"github.com/tidwall/gjson"

	"github.com/metadeploy/metadeploy-sdk/pkg/model"
	"github.com/metadeploy/metadeploy-sdk/pkg/store"
)

// EventType - the type field of a pushed message
type EventType string

// EventType values
const (
	UserTokenInvalid     EventType = "USER_TOKEN_INVALID"
	PreflightStarted     EventType = "PREFLIGHT_STARTED"
	PreflightCompleted   EventType = "PREFLIGHT_COMPLETED"
	PreflightFailed      EventType = "PREFLIGHT_FAILED"
	PreflightCanceled    EventType = "PREFLIGHT_CANCELED"
	PreflightInvalidated EventType = "PREFLIGHT_INVALIDATED"
	TaskCompleted        EventType = "TASK_COMPLETED"
	JobStarted           EventType = "JOB_STARTED"
	JobCompleted         EventType = "JOB_COMPLETED"
	JobFailed            EventType = "JOB_FAILED"
	JobCanceled          EventType = "JOB_CANCELED"
	OrgChanged           EventType = "ORG_CHANGED"
	ScratchOrgCreated    EventType = "SCRATCH_ORG_CREATED"
	ScratchOrgUpdated    EventType = "SCRATCH_ORG_UPDATED"
	ScratchOrgError      EventType = "SCRATCH_ORG_ERROR"
)

// Subscription models
const (
	ModelUser       = "user"
	ModelOrg        = "org"
	ModelPreflight  = "preflightrequest"
	ModelJob        = "job"
	ModelScratchOrg = "scratchorg"
)

// Subscription - asks the server to push updates for one object
type Subscription struct {
	Model string `json:"model"`
	ID    string `json:"id"`
	UUID  string `json:"uuid,omitempty"`
}

// Message - an inbound frame. Raw holds frames that were not valid JSON.
type Message struct {
	Type    EventType
	Payload json.RawMessage
	Raw     string
}

// ParseMessage never fails, malformed frames come back with only Raw set
func ParseMessage(data []byte) Message {
	if !gjson.ValidBytes(data) {
		return Message{Raw: string(data)}
	}
	msg := Message{Type: EventType(gjson.GetBytes(data, "type").String())}
	if payload := gjson.GetBytes(data, "payload"); payload.Exists() {
		msg.Payload = json.RawMessage(payload.Raw)
	}
	return msg
}

// ActionFor maps a message to the store action a fetch would dispatch for the
// same data. A nil action means the message is ignored.
func ActionFor(msg Message) (store.Action, error) {
	switch msg.Type {
	case UserTokenInvalid:
		return store.UserTokenInvalidated{}, nil
	case PreflightStarted, PreflightCompleted, PreflightFailed, PreflightCanceled, PreflightInvalidated:
		preflight := &model.Preflight{}
		if err := decodePayload(msg, preflight); err != nil {
			return nil, err
		}
		return preflightAction(msg.Type, preflight), nil
	case TaskCompleted, JobStarted, JobCompleted, JobFailed, JobCanceled:
		job := &model.Job{}
		if err := decodePayload(msg, job); err != nil {
			return nil, err
		}
		return jobAction(msg.Type, job), nil
	case OrgChanged:
		org := &model.Org{}
		if err := decodePayload(msg, org); err != nil {
			return nil, err
		}
		return store.OrgChanged{Org: org}, nil
	case ScratchOrgCreated, ScratchOrgUpdated:
		org := &model.ScratchOrg{}
		if err := decodePayload(msg, org); err != nil {
			return nil, err
		}
		if msg.Type == ScratchOrgCreated {
			return store.ScratchOrgCreated{ScratchOrg: org}, nil
		}
		return store.ScratchOrgUpdated{ScratchOrg: org}, nil
	case ScratchOrgError:
		planID := gjson.GetBytes(msg.Payload, "org.plan").String()
		if planID == "" {
			planID = gjson.GetBytes(msg.Payload, "plan").String()
		}
		if planID == "" {
			return nil, ErrInvalidPayload.FormatError(msg.Type, "missing plan")
		}
		return store.ScratchOrgError{PlanID: planID, Message: gjson.GetBytes(msg.Payload, "message").String()}, nil
	}
	return nil, nil
}

func preflightAction(t EventType, preflight *model.Preflight) store.Action {
	switch t {
	case PreflightStarted:
		return store.PreflightStarted{Preflight: preflight}
	case PreflightCompleted:
		return store.PreflightCompleted{Preflight: preflight}
	case PreflightFailed:
		return store.PreflightFailed{Preflight: preflight}
	case PreflightCanceled:
		return store.PreflightCanceled{Preflight: preflight}
	}
	return store.PreflightInvalidated{Preflight: preflight}
}

func jobAction(t EventType, job *model.Job) store.Action {
	switch t {
	case TaskCompleted:
		return store.JobStepCompleted{Job: job}
	case JobStarted:
		return store.JobStarted{Job: job}
	case JobCompleted:
		return store.JobCompleted{Job: job}
	case JobFailed:
		return store.JobFailed{Job: job}
	}
	return store.JobCanceled{Job: job}
}

func decodePayload(msg Message, out interface{}) error {
	if len(msg.Payload) == 0 {
		return ErrInvalidPayload.FormatError(msg.Type, "missing payload")
	}
	if err := json.Unmarshal(msg.Payload, out); err != nil {
		return ErrInvalidPayload.FormatError(msg.Type, err.Error())
	}
	return nil
}
