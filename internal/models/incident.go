package models

import (
	"time"

	"github.com/google/uuid"
)

type Incident struct {
	ID        uuid.UUID `json:"id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"created_at"`
	// HandledBy выставляется один раз при принятии и больше не меняется
	HandledBy *int64 `json:"handled_by,omitempty"`
}

// IsResolved сообщает, принято ли происшествие какой-либо больницей
func (i *Incident) IsResolved() bool {
	return i.HandledBy != nil
}

// IncidentDetails - снимок происшествия вместе со всеми записями рассылки,
// прочитанный в одной транзакции
type IncidentDetails struct {
	Incident *Incident         `json:"incident"`
	Records  []*DispatchRecord `json:"records"`
	Handler  *Responder        `json:"handler,omitempty"`
}

// Resolution - результат попытки принять происшествие
type Resolution struct {
	IncidentID uuid.UUID
	HandledBy  int64
	// Transitioned равен true только для вызова, который выполнил переход
	Transitioned bool
}

// IncidentSummary - строка панели мониторинга
type IncidentSummary struct {
	ID               uuid.UUID        `json:"id"`
	Latitude         float64          `json:"latitude"`
	Longitude        float64          `json:"longitude"`
	CreatedAt        time.Time        `json:"created_at"`
	HandlerName      string           `json:"handler_name,omitempty"`
	HandlerLatitude  *float64         `json:"handler_latitude,omitempty"`
	HandlerLongitude *float64         `json:"handler_longitude,omitempty"`
	Statuses         []DispatchStatus `json:"statuses"`
}

// Status сворачивает статусы рассылки в один статус для панели:
// принято, если есть обработчик; отклонено, если никто не ждет и есть отказы.
func (s *IncidentSummary) Status() DispatchStatus {
	if s.HandlerName != "" {
		return StatusAccepted
	}
	var rejected, pending bool
	for _, st := range s.Statuses {
		switch st {
		case StatusRejected:
			rejected = true
		case StatusPending:
			pending = true
		}
	}
	if rejected && !pending {
		return StatusRejected
	}
	return StatusPending
}
