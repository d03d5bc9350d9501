package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/accident_dispatch_system/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestMessages(t *testing.T) {
	incident := &models.Incident{
		ID:        uuid.New(),
		Latitude:  17.408,
		Longitude: 78.477,
		CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	responder := &models.Responder{ID: 2, Name: "Rainbow Hospital", Email: "rainbow@example.com"}

	alert := alertMessage(incident, responder, "http://link")
	assert.Equal(t, []string{"rainbow@example.com"}, alert.To)
	assert.Contains(t, alert.Body, "Latitude: 17.408000")
	assert.Contains(t, alert.Body, "Time: 2026-03-01 10:00:00")
	assert.Contains(t, alert.Body, "Accept Case: http://link")

	oversight := oversightMessage(incident, "guardian@example.com")
	assert.Equal(t, "Guardian Alert", oversight.Subject)
	assert.Contains(t, oversight.Body, "Lat: 17.408000, Lon: 78.477000")

	standDown := standDownMessage(nil, responder)
	assert.Empty(t, standDown.To)
	assert.Contains(t, standDown.Body, "Another hospital (Rainbow Hospital) has accepted the case.")

	reminder := reminderMessage(incident, responder, "http://link", incident.CreatedAt.Add(12*time.Minute+20*time.Second))
	assert.Contains(t, reminder.Body, "for 12m0s")
}
