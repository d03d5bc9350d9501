package v1

import (
	"time"

	"github.com/google/uuid"
)

// ReportAccidentRequest DTO для сообщения о происшествии
// @Description DTO для сообщения о происшествии
type ReportAccidentRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,latitude"`
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
}

// ReportAccidentResponse DTO для ответа на сообщение о происшествии
// @Description DTO для ответа на сообщение о происшествии
type ReportAccidentResponse struct {
	Status     string    `json:"status"`
	Message    string    `json:"message"`
	AccidentID uuid.UUID `json:"accident_id"`
}

// AcceptForm - форма ответа больницы
type AcceptForm struct {
	Action string `form:"action" validate:"required,oneof=Accept Reject"`
}

// IncidentResponse DTO для ответа с информацией о происшествии
// @Description DTO для ответа с информацией о происшествии
type IncidentResponse struct {
	ID        uuid.UUID `json:"id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"created_at"`
	Status    string    `json:"status"`
	HandledBy *int64    `json:"handled_by,omitempty"`
}

// DispatchRecordResponse DTO для записи рассылки
// @Description DTO для записи рассылки
type DispatchRecordResponse struct {
	ResponderID   int64  `json:"responder_id"`
	ResponderName string `json:"responder_name"`
	Status        string `json:"status"`
}

// IncidentDetailsResponse DTO для снимка происшествия
// @Description DTO для снимка происшествия
type IncidentDetailsResponse struct {
	IncidentResponse
	HandlerName string                    `json:"handler_name,omitempty"`
	Dispatch    []*DispatchRecordResponse `json:"dispatch"`
}

// IncidentSummaryResponse DTO для строки панели мониторинга
// @Description DTO для строки панели мониторинга
type IncidentSummaryResponse struct {
	ID               uuid.UUID `json:"id"`
	Status           string    `json:"status"`
	Latitude         float64   `json:"latitude"`
	Longitude        float64   `json:"longitude"`
	CreatedAt        time.Time `json:"created_at"`
	HandlerName      string    `json:"handler_name,omitempty"`
	HandlerLatitude  *float64  `json:"handler_latitude,omitempty"`
	HandlerLongitude *float64  `json:"handler_longitude,omitempty"`
}

// dashboardRow - строка HTML-панели
type dashboardRow struct {
	ID       string
	Status   string
	Class    string
	Hospital string
	Time     string
	Location string
	MapURL   string
	RouteURL string
}

// pageView - данные для страниц ответа больнице
type pageView struct {
	Title   string
	Message string
	Strong  string
	Suffix  string
	Class   string
}

// acceptFormView - данные для формы принятия
type acceptFormView struct {
	Hospital  string
	Latitude  float64
	Longitude float64
	Time      string
	Resolved  bool
}
