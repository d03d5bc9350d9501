package models

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrIncidentNotFound  = errors.New("incident not found")
	ErrResponderNotFound = errors.New("responder not found")
	// ErrNotEligible - больница не входит в рассылку по происшествию
	ErrNotEligible = errors.New("responder is not eligible for this incident")
)

// AlreadyResolvedError возвращается проигравшему в гонке за принятие
type AlreadyResolvedError struct {
	IncidentID uuid.UUID
	WinnerID   int64
	WinnerName string
}

func (e *AlreadyResolvedError) Error() string {
	if e.WinnerName == "" {
		return fmt.Sprintf("incident %s already accepted by responder %d", e.IncidentID, e.WinnerID)
	}
	return fmt.Sprintf("incident %s already accepted by %s", e.IncidentID, e.WinnerName)
}
