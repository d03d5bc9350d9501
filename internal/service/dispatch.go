package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/accident_dispatch_system/internal/config"
	"github.com/shenikar/accident_dispatch_system/internal/geo"
	"github.com/shenikar/accident_dispatch_system/internal/models"
	"github.com/shenikar/accident_dispatch_system/internal/notify"
	"github.com/sirupsen/logrus"
)

// ResponderRepository определяет контракт справочника больниц
type ResponderRepository interface {
	ListResponders(ctx context.Context) ([]*models.Responder, error)
	GetResponder(ctx context.Context, id int64) (*models.Responder, error)
}

// IncidentRepository определяет контракт журнала происшествий и трекера рассылки
type IncidentRepository interface {
	// CreateIncident сохраняет происшествие и открывает рассылку одной транзакцией
	CreateIncident(ctx context.Context, incident *models.Incident, responderIDs []int64) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	GetIncidentDetails(ctx context.Context, id uuid.UUID) (*models.IncidentDetails, error)
	// Resolve атомарно переводит происшествие в состояние "принято" (compare-and-swap по handled_by)
	Resolve(ctx context.Context, incidentID uuid.UUID, responderID int64) (*models.Resolution, error)
	RecordRejection(ctx context.Context, incidentID uuid.UUID, responderID int64) (bool, error)
	PendingRecipientsExcluding(ctx context.Context, incidentID uuid.UUID, responderID int64) ([]string, error)
	PendingResponders(ctx context.Context, incidentID uuid.UUID) ([]*models.Responder, error)
	ListUnresolvedBefore(ctx context.Context, cutoff time.Time) ([]*models.Incident, error)
	ListIncidentSummaries(ctx context.Context, page, pageSize int) ([]*models.IncidentSummary, error)
}

// IncidentCache определяет контракт кеша снимков происшествий
type IncidentCache interface {
	Get(ctx context.Context, id uuid.UUID) (*models.IncidentDetails, error)
	Generation(ctx context.Context, id uuid.UUID) (int64, error)
	Set(ctx context.Context, details *models.IncidentDetails, generation int64) error
	Invalidate(ctx context.Context, id uuid.UUID) error
	MarkReminded(ctx context.Context, id uuid.UUID) (bool, error)
	ClearReminded(ctx context.Context, id uuid.UUID) error
}

// LinkBuilder строит ссылки для принятия происшествия
type LinkBuilder interface {
	AcceptURL(incidentID uuid.UUID, responderID int64) string
}

// DispatchService определяет контракт бизнес-логики рассылки и принятия происшествий
type DispatchService interface {
	ReportIncident(ctx context.Context, lat, lon float64) (*models.Incident, error)
	TryAccept(ctx context.Context, incidentID uuid.UUID, responderID int64) (*models.Responder, error)
	RecordRejection(ctx context.Context, incidentID uuid.UUID, responderID int64) (*models.Responder, error)
	GetResponder(ctx context.Context, id int64) (*models.Responder, error)
	GetIncident(ctx context.Context, id uuid.UUID) (*models.IncidentDetails, error)
	Dashboard(ctx context.Context, page, pageSize int) ([]*models.IncidentSummary, error)
	RemindUnresolved(ctx context.Context, olderThan time.Duration) (int, error)
}

type dispatchService struct {
	responders ResponderRepository
	incidents  IncidentRepository
	cache      IncidentCache
	notifier   notify.Gateway
	links      LinkBuilder
	logger     *logrus.Logger
	cfg        *config.Config
	now        func() time.Time
}

func NewDispatchService(
	responders ResponderRepository,
	incidents IncidentRepository,
	cache IncidentCache,
	notifier notify.Gateway,
	links LinkBuilder,
	logger *logrus.Logger,
	cfg *config.Config,
) DispatchService {
	return &dispatchService{
		responders: responders,
		incidents:  incidents,
		cache:      cache,
		notifier:   notifier,
		links:      links,
		logger:     logger,
		cfg:        cfg,
		now:        time.Now,
	}
}

// ReportIncident регистрирует происшествие, выбирает ближайшие больницы и оповещает их.
// Происшествие и рассылка фиксируются в БД до отправки первого письма.
func (s *dispatchService) ReportIncident(ctx context.Context, lat, lon float64) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":   "dispatch",
		"method":    "ReportIncident",
		"latitude":  lat,
		"longitude": lon,
	})
	log.Info("Reporting a new incident")

	if err := validateCoordinates(lat, lon); err != nil {
		log.WithError(err).Warn("Rejected incident with invalid coordinates")
		return nil, err
	}

	directory, err := s.responders.ListResponders(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to load responder directory")
		return nil, fmt.Errorf("service: could not load responders: %w", err)
	}

	selected := geo.SelectNearest(directory, lat, lon, s.cfg.DispatchNearestLimit)
	responderIDs := make([]int64, len(selected))
	for i, r := range selected {
		responderIDs[i] = r.ID
	}

	incident := &models.Incident{
		ID:        uuid.New(),
		Latitude:  lat,
		Longitude: lon,
		CreatedAt: s.now().UTC(),
	}
	if err := s.incidents.CreateIncident(ctx, incident, responderIDs); err != nil {
		log.WithError(err).Error("Failed to persist incident and dispatch")
		return nil, fmt.Errorf("service: could not create incident: %w", err)
	}
	log = log.WithField("incident_id", incident.ID)
	log.WithField("responders", responderIDs).Info("Incident persisted and dispatch opened")

	for _, responder := range selected {
		s.send(ctx, log, alertMessage(incident, responder, s.links.AcceptURL(incident.ID, responder.ID)))
	}
	if s.cfg.OversightEmail != "" {
		s.send(ctx, log, oversightMessage(incident, s.cfg.OversightEmail))
	}

	return incident, nil
}

// TryAccept пытается закрепить происшествие за больницей. Побеждает первый принявший,
// остальные получают AlreadyResolvedError с именем победителя.
func (s *dispatchService) TryAccept(ctx context.Context, incidentID uuid.UUID, responderID int64) (*models.Responder, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":      "dispatch",
		"method":       "TryAccept",
		"incident_id":  incidentID,
		"responder_id": responderID,
	})
	log.Info("Attempting to accept incident")

	resolution, err := s.incidents.Resolve(ctx, incidentID, responderID)
	if err != nil {
		if errors.Is(err, models.ErrIncidentNotFound) || errors.Is(err, models.ErrNotEligible) {
			log.WithError(err).Warn("Accept attempt refused")
		} else {
			log.WithError(err).Error("Failed to resolve incident in repository")
		}
		return nil, fmt.Errorf("service: could not accept incident: %w", err)
	}

	if resolution.HandledBy != responderID {
		lost := &models.AlreadyResolvedError{IncidentID: incidentID, WinnerID: resolution.HandledBy}
		if winner, err := s.responders.GetResponder(ctx, resolution.HandledBy); err == nil {
			lost.WinnerName = winner.Name
		} else {
			log.WithError(err).Warn("Failed to look up winning responder")
		}
		log.WithField("winner_id", resolution.HandledBy).Info("Incident already accepted by another responder")
		return nil, lost
	}

	responder := s.lookupResponder(ctx, log, responderID)
	if !resolution.Transitioned {
		log.Info("Repeated accept by the winning responder")
		return responder, nil
	}

	log.Info("Incident accepted")
	s.invalidate(ctx, log, incidentID)

	// Получатели читаются после фиксации транзакции, победитель исключен
	recipients, err := s.incidents.PendingRecipientsExcluding(ctx, incidentID, responderID)
	if err != nil {
		log.WithError(err).Error("Failed to load stand-down recipients")
		return responder, nil
	}
	s.send(ctx, log, standDownMessage(recipients, responder))

	return responder, nil
}

// RecordRejection фиксирует отказ больницы. Отказ после принятия не меняет происшествие.
func (s *dispatchService) RecordRejection(ctx context.Context, incidentID uuid.UUID, responderID int64) (*models.Responder, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":      "dispatch",
		"method":       "RecordRejection",
		"incident_id":  incidentID,
		"responder_id": responderID,
	})
	log.Info("Recording rejection")

	changed, err := s.incidents.RecordRejection(ctx, incidentID, responderID)
	if err != nil {
		if errors.Is(err, models.ErrIncidentNotFound) || errors.Is(err, models.ErrNotEligible) {
			log.WithError(err).Warn("Rejection refused")
		} else {
			log.WithError(err).Error("Failed to record rejection in repository")
		}
		return nil, fmt.Errorf("service: could not record rejection: %w", err)
	}

	if changed {
		s.invalidate(ctx, log, incidentID)
	}
	log.WithField("changed", changed).Info("Rejection recorded")

	return s.lookupResponder(ctx, log, responderID), nil
}

// GetResponder получает больницу по ID
func (s *dispatchService) GetResponder(ctx context.Context, id int64) (*models.Responder, error) {
	responder, err := s.responders.GetResponder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: could not get responder: %w", err)
	}
	return responder, nil
}

// GetIncident получает снимок происшествия, сначала из кеша
func (s *dispatchService) GetIncident(ctx context.Context, id uuid.UUID) (*models.IncidentDetails, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "dispatch",
		"method":      "GetIncident",
		"incident_id": id,
	})
	log.Debug("Fetching incident by ID")

	cached, err := s.cache.Get(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to read incident from cache")
	}
	if cached != nil {
		return cached, nil
	}

	// Поколение читается до БД: если между чтением и записью в кеш произошла
	// инвалидация, загруженный снимок в кеш не попадет
	generation, genErr := s.cache.Generation(ctx, id)
	if genErr != nil {
		log.WithError(genErr).Warn("Failed to read incident cache generation")
	}

	details, err := s.incidents.GetIncidentDetails(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to get incident in repository")
		return nil, fmt.Errorf("service: could not get incident: %w", err)
	}

	if genErr != nil {
		return details, nil
	}
	if err := s.cache.Set(ctx, details, generation); err != nil {
		log.WithError(err).Warn("Failed to cache incident")
	}
	return details, nil
}

// Dashboard возвращает строки панели мониторинга с пагинацией
func (s *dispatchService) Dashboard(ctx context.Context, page, pageSize int) ([]*models.IncidentSummary, error) {
	if page < 1 {
		page = 1
	}

	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	log := s.logger.WithFields(logrus.Fields{
		"service":   "dispatch",
		"method":    "Dashboard",
		"page":      page,
		"page_size": pageSize,
	})

	summaries, err := s.incidents.ListIncidentSummaries(ctx, page, pageSize)
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from repository")
		return nil, fmt.Errorf("service: could not list incidents: %w", err)
	}

	log.WithField("count", len(summaries)).Debug("Dashboard listed")
	return summaries, nil
}

// RemindUnresolved повторно оповещает ожидающие больницы по происшествиям,
// которые никто не принял дольше olderThan. Каждое происшествие напоминается один раз.
func (s *dispatchService) RemindUnresolved(ctx context.Context, olderThan time.Duration) (int, error) {
	now := s.now().UTC()
	log := s.logger.WithFields(logrus.Fields{
		"service": "dispatch",
		"method":  "RemindUnresolved",
	})

	incidents, err := s.incidents.ListUnresolvedBefore(ctx, now.Add(-olderThan))
	if err != nil {
		log.WithError(err).Error("Failed to list unresolved incidents")
		return 0, fmt.Errorf("service: could not list unresolved incidents: %w", err)
	}

	reminded := 0
	for _, incident := range incidents {
		incLog := log.WithField("incident_id", incident.ID)

		first, err := s.cache.MarkReminded(ctx, incident.ID)
		if err != nil {
			incLog.WithError(err).Warn("Failed to mark incident as reminded")
			continue
		}
		if !first {
			continue
		}

		pending, err := s.incidents.PendingResponders(ctx, incident.ID)
		if err != nil {
			incLog.WithError(err).Error("Failed to load pending responders")
			if err := s.cache.ClearReminded(ctx, incident.ID); err != nil {
				incLog.WithError(err).Warn("Failed to clear reminder mark")
			}
			continue
		}
		for _, responder := range pending {
			s.send(ctx, incLog, reminderMessage(incident, responder, s.links.AcceptURL(incident.ID, responder.ID), now))
		}
		reminded++
	}

	if reminded > 0 {
		log.WithField("count", reminded).Info("Reminders sent for unresolved incidents")
	}
	return reminded, nil
}

// send отправляет сообщение с ограничением по времени. Ошибки доставки только логируются.
func (s *dispatchService) send(ctx context.Context, log *logrus.Entry, msg notify.Message) {
	sendCtx, cancel := context.WithTimeout(ctx, s.cfg.NotifyTimeout)
	defer cancel()

	if err := s.notifier.Send(sendCtx, msg); err != nil {
		var deliveryErr *notify.DeliveryError
		if errors.As(err, &deliveryErr) {
			log.WithError(err).WithField("failed_recipients", len(deliveryErr.Failures)).
				Warn("Notification partially failed")
			return
		}
		log.WithError(err).WithField("subject", msg.Subject).Warn("Notification failed")
	}
}

func (s *dispatchService) invalidate(ctx context.Context, log *logrus.Entry, id uuid.UUID) {
	if err := s.cache.Invalidate(ctx, id); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident cache")
	}
}

// lookupResponder возвращает больницу для ответа; состояние уже зафиксировано,
// поэтому ошибка справочника не превращается в ошибку запроса
func (s *dispatchService) lookupResponder(ctx context.Context, log *logrus.Entry, id int64) *models.Responder {
	responder, err := s.responders.GetResponder(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to look up responder")
		return &models.Responder{ID: id, Name: fmt.Sprintf("Hospital ID %d", id)}
	}
	return responder
}

func validateCoordinates(lat, lon float64) error {
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return fmt.Errorf("%w: latitude must be within [-90, 90]", models.ErrValidation)
	}
	if math.IsNaN(lon) || lon < -180 || lon > 180 {
		return fmt.Errorf("%w: longitude must be within [-180, 180]", models.ErrValidation)
	}
	return nil
}
