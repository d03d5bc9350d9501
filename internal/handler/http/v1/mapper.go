package v1

import (
	"fmt"
	"strings"

	"github.com/shenikar/accident_dispatch_system/internal/models"
)

const timeLayout = "2006-01-02 15:04:05"

// ModelToIncidentResponse преобразует доменную модель в DTO для ответа
func ModelToIncidentResponse(model *models.Incident) *IncidentResponse {
	status := "unresolved"
	if model.IsResolved() {
		status = "resolved"
	}
	return &IncidentResponse{
		ID:        model.ID,
		Latitude:  model.Latitude,
		Longitude: model.Longitude,
		CreatedAt: model.CreatedAt,
		Status:    status,
		HandledBy: model.HandledBy,
	}
}

// DetailsToResponse преобразует снимок происшествия в DTO
func DetailsToResponse(details *models.IncidentDetails) *IncidentDetailsResponse {
	resp := &IncidentDetailsResponse{
		IncidentResponse: *ModelToIncidentResponse(details.Incident),
		Dispatch:         make([]*DispatchRecordResponse, len(details.Records)),
	}
	if details.Handler != nil {
		resp.HandlerName = details.Handler.Name
	}
	for i, record := range details.Records {
		resp.Dispatch[i] = &DispatchRecordResponse{
			ResponderID:   record.ResponderID,
			ResponderName: record.ResponderName,
			Status:        string(record.Status),
		}
	}
	return resp
}

// SummariesToResponses преобразует строки панели в DTO
func SummariesToResponses(summaries []*models.IncidentSummary) []*IncidentSummaryResponse {
	responses := make([]*IncidentSummaryResponse, len(summaries))
	for i, s := range summaries {
		responses[i] = &IncidentSummaryResponse{
			ID:               s.ID,
			Status:           string(s.Status()),
			Latitude:         s.Latitude,
			Longitude:        s.Longitude,
			CreatedAt:        s.CreatedAt,
			HandlerName:      s.HandlerName,
			HandlerLatitude:  s.HandlerLatitude,
			HandlerLongitude: s.HandlerLongitude,
		}
	}
	return responses
}

func summariesToDashboardRows(summaries []*models.IncidentSummary) []dashboardRow {
	rows := make([]dashboardRow, len(summaries))
	for i, s := range summaries {
		status := string(s.Status())
		row := dashboardRow{
			ID:       s.ID.String(),
			Status:   strings.ToUpper(status[:1]) + status[1:],
			Class:    status,
			Hospital: "—",
			Time:     s.CreatedAt.Format(timeLayout),
			Location: fmt.Sprintf("%v, %v", s.Latitude, s.Longitude),
			MapURL:   fmt.Sprintf("https://maps.google.com/?q=%v,%v", s.Latitude, s.Longitude),
		}
		if s.HandlerName != "" {
			row.Hospital = s.HandlerName
		}
		if s.HandlerLatitude != nil && s.HandlerLongitude != nil {
			row.RouteURL = fmt.Sprintf("https://www.google.com/maps/dir/%v,%v/%v,%v",
				s.Latitude, s.Longitude, *s.HandlerLatitude, *s.HandlerLongitude)
		}
		rows[i] = row
	}
	return rows
}
