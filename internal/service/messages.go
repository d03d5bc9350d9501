package service

import (
	"fmt"
	"time"

	"github.com/shenikar/accident_dispatch_system/internal/models"
	"github.com/shenikar/accident_dispatch_system/internal/notify"
)

const timestampLayout = "2006-01-02 15:04:05"

func alertMessage(incident *models.Incident, responder *models.Responder, acceptURL string) notify.Message {
	return notify.Message{
		To:      []string{responder.Email},
		Subject: "Accident Alert: Immediate Response Required",
		Body: fmt.Sprintf(`An accident was detected at:

Latitude: %f
Longitude: %f
Time: %s

Please respond using the link below:

Accept Case: %s
`, incident.Latitude, incident.Longitude, incident.CreatedAt.Format(timestampLayout), acceptURL),
	}
}

func oversightMessage(incident *models.Incident, address string) notify.Message {
	return notify.Message{
		To:      []string{address},
		Subject: "Guardian Alert",
		Body: fmt.Sprintf("An accident occurred at:\nLat: %f, Lon: %f\nTime: %s\n",
			incident.Latitude, incident.Longitude, incident.CreatedAt.Format(timestampLayout)),
	}
}

func standDownMessage(addresses []string, winner *models.Responder) notify.Message {
	return notify.Message{
		To:      addresses,
		Subject: "Stand Down: Case Accepted",
		Body: fmt.Sprintf(`Another hospital (%s) has accepted the case.
No further action is required on your end.
`, winner.Name),
	}
}

func reminderMessage(incident *models.Incident, responder *models.Responder, acceptURL string, now time.Time) notify.Message {
	waiting := now.Sub(incident.CreatedAt).Round(time.Minute)
	return notify.Message{
		To:      []string{responder.Email},
		Subject: "Reminder: Accident Still Unassigned",
		Body: fmt.Sprintf(`The accident reported at %s (Latitude: %f, Longitude: %f)
has not been accepted by any hospital for %s.

Accept Case: %s
`, incident.CreatedAt.Format(timestampLayout), incident.Latitude, incident.Longitude, waiting, acceptURL),
	}
}
