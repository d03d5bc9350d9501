package models

import "github.com/google/uuid"

type DispatchStatus string

const (
	StatusPending  DispatchStatus = "pending"
	StatusAccepted DispatchStatus = "accepted"
	StatusRejected DispatchStatus = "rejected"
)

// DispatchRecord - предложение конкретной больнице по конкретному происшествию
type DispatchRecord struct {
	IncidentID    uuid.UUID      `json:"incident_id"`
	ResponderID   int64          `json:"responder_id"`
	ResponderName string         `json:"responder_name,omitempty"`
	Email         string         `json:"-"`
	Status        DispatchStatus `json:"status"`
}
