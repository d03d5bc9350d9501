// Package postgres реализует справочник больниц, журнал происшествий и трекер рассылки на PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/accident_dispatch_system/internal/models"
)

type DispatchRepository struct {
	db *pgxpool.Pool
}

func NewDispatchRepository(db *pgxpool.Pool) *DispatchRepository {
	return &DispatchRepository{
		db: db,
	}
}

// ListResponders возвращает весь справочник больниц в порядке id
func (r *DispatchRepository) ListResponders(ctx context.Context) ([]*models.Responder, error) {
	query := `
		SELECT id, name, email, latitude, longitude
		FROM responders
		ORDER BY id;
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list responders: %w", err)
	}
	defer rows.Close()

	responders := make([]*models.Responder, 0)
	for rows.Next() {
		responder := &models.Responder{}
		if err := rows.Scan(&responder.ID, &responder.Name, &responder.Email, &responder.Latitude, &responder.Longitude); err != nil {
			return nil, fmt.Errorf("failed to scan responder row: %w", err)
		}
		responders = append(responders, responder)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error responders iteration: %w", err)
	}
	return responders, nil
}

// GetResponder возвращает больницу по id
func (r *DispatchRepository) GetResponder(ctx context.Context, id int64) (*models.Responder, error) {
	responder := &models.Responder{}
	query := `
		SELECT id, name, email, latitude, longitude
		FROM responders
		WHERE id = $1;
	`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&responder.ID,
		&responder.Name,
		&responder.Email,
		&responder.Latitude,
		&responder.Longitude,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("responder %d: %w", id, models.ErrResponderNotFound)
		}
		return nil, fmt.Errorf("failed to get responder by id: %w", err)
	}
	return responder, nil
}

// CreateIncident сохраняет происшествие и записи рассылки в одной транзакции
func (r *DispatchRepository) CreateIncident(ctx context.Context, incident *models.Incident, responderIDs []int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		INSERT INTO incidents (id, latitude, longitude, created_at)
		VALUES ($1, $2, $3, $4);
	`
	if _, err := tx.Exec(ctx, query, incident.ID, incident.Latitude, incident.Longitude, incident.CreatedAt); err != nil {
		return fmt.Errorf("failed to create incident: %w", err)
	}

	if err := openDispatch(ctx, tx, incident.ID, responderIDs); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit incident: %w", err)
	}
	return nil
}

// openDispatch создает по одной ожидающей записи на больницу одним батчем
func openDispatch(ctx context.Context, tx pgx.Tx, incidentID uuid.UUID, responderIDs []int64) error {
	if len(responderIDs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, responderID := range responderIDs {
		batch.Queue(`
			INSERT INTO dispatch_records (incident_id, responder_id, status)
			VALUES ($1, $2, 'pending');
		`, incidentID, responderID)
	}

	results := tx.SendBatch(ctx, batch)
	for range responderIDs {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return fmt.Errorf("failed to open dispatch: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to open dispatch: %w", err)
	}
	return nil
}

// GetByID возвращает происшествие по его UUID
func (r *DispatchRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	return getIncident(ctx, r.db, id)
}

// GetIncidentDetails читает происшествие и его рассылку в одном снимке БД
func (r *DispatchRepository) GetIncidentDetails(ctx context.Context, id uuid.UUID) (*models.IncidentDetails, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	incident, err := getIncident(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT d.incident_id, d.responder_id, r.name, r.email, d.status
		FROM dispatch_records d
		JOIN responders r ON r.id = d.responder_id
		WHERE d.incident_id = $1
		ORDER BY d.responder_id;
	`
	rows, err := tx.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list dispatch records: %w", err)
	}
	defer rows.Close()

	details := &models.IncidentDetails{Incident: incident, Records: make([]*models.DispatchRecord, 0)}
	for rows.Next() {
		record := &models.DispatchRecord{}
		var status string
		if err := rows.Scan(&record.IncidentID, &record.ResponderID, &record.ResponderName, &record.Email, &status); err != nil {
			return nil, fmt.Errorf("failed to scan dispatch record row: %w", err)
		}
		record.Status = models.DispatchStatus(status)
		details.Records = append(details.Records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error dispatch records iteration: %w", err)
	}

	if incident.HandledBy != nil {
		handler := &models.Responder{}
		err := tx.QueryRow(ctx, `SELECT id, name, email, latitude, longitude FROM responders WHERE id = $1;`, *incident.HandledBy).
			Scan(&handler.ID, &handler.Name, &handler.Email, &handler.Latitude, &handler.Longitude)
		if err != nil {
			return nil, fmt.Errorf("failed to get handling responder: %w", err)
		}
		details.Handler = handler
	}
	return details, nil
}

// Resolve выполняет переход UNRESOLVED -> RESOLVED(responderID).
// Условная запись по handled_by IS NULL и перевод записи рассылки в accepted
// выполняются в одной транзакции, поэтому из двух конкурентных вызовов выигрывает ровно один.
func (r *DispatchRepository) Resolve(ctx context.Context, incidentID uuid.UUID, responderID int64) (*models.Resolution, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var handledBy *int64
	err = tx.QueryRow(ctx, `SELECT handled_by FROM incidents WHERE id = $1;`, incidentID).Scan(&handledBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("incident %s: %w", incidentID, models.ErrIncidentNotFound)
		}
		return nil, fmt.Errorf("failed to get incident resolution: %w", err)
	}

	var status string
	err = tx.QueryRow(ctx, `
		SELECT status FROM dispatch_records
		WHERE incident_id = $1 AND responder_id = $2;
	`, incidentID, responderID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("responder %d for incident %s: %w", responderID, incidentID, models.ErrNotEligible)
		}
		return nil, fmt.Errorf("failed to get dispatch record: %w", err)
	}

	if handledBy != nil {
		return &models.Resolution{IncidentID: incidentID, HandledBy: *handledBy}, nil
	}
	if models.DispatchStatus(status) != models.StatusPending {
		return nil, fmt.Errorf("responder %d already answered %s: %w", responderID, status, models.ErrNotEligible)
	}

	cmdTag, err := tx.Exec(ctx, `
		UPDATE incidents SET handled_by = $2
		WHERE id = $1 AND handled_by IS NULL;
	`, incidentID, responderID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve incident: %w", err)
	}

	// Конкурент успел зафиксировать принятие между чтением и записью
	if cmdTag.RowsAffected() == 0 {
		if err := tx.QueryRow(ctx, `SELECT handled_by FROM incidents WHERE id = $1;`, incidentID).Scan(&handledBy); err != nil {
			return nil, fmt.Errorf("failed to get incident resolution: %w", err)
		}
		if handledBy == nil {
			return nil, fmt.Errorf("incident %s resolution lost", incidentID)
		}
		return &models.Resolution{IncidentID: incidentID, HandledBy: *handledBy}, nil
	}

	// Отказ мог зафиксироваться после чтения статуса; тогда откат снимает и handled_by
	cmdTag, err = tx.Exec(ctx, `
		UPDATE dispatch_records SET status = 'accepted'
		WHERE incident_id = $1 AND responder_id = $2 AND status = 'pending';
	`, incidentID, responderID)
	if err != nil {
		return nil, fmt.Errorf("failed to accept dispatch record: %w", err)
	}
	if cmdTag.RowsAffected() != 1 {
		return nil, fmt.Errorf("responder %d already answered: %w", responderID, models.ErrNotEligible)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit resolution: %w", err)
	}
	return &models.Resolution{IncidentID: incidentID, HandledBy: responderID, Transitioned: true}, nil
}

// RecordRejection переводит запись рассылки в rejected, только если она еще ожидает ответа
func (r *DispatchRepository) RecordRejection(ctx context.Context, incidentID uuid.UUID, responderID int64) (bool, error) {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE dispatch_records SET status = 'rejected'
		WHERE incident_id = $1 AND responder_id = $2 AND status = 'pending';
	`, incidentID, responderID)
	if err != nil {
		return false, fmt.Errorf("failed to reject dispatch record: %w", err)
	}
	if cmdTag.RowsAffected() > 0 {
		return true, nil
	}

	var recordExists, incidentExists bool
	err = r.db.QueryRow(ctx, `
		SELECT
			EXISTS (SELECT 1 FROM dispatch_records WHERE incident_id = $1 AND responder_id = $2),
			EXISTS (SELECT 1 FROM incidents WHERE id = $1);
	`, incidentID, responderID).Scan(&recordExists, &incidentExists)
	if err != nil {
		return false, fmt.Errorf("failed to check dispatch record: %w", err)
	}
	switch {
	case recordExists:
		return false, nil
	case !incidentExists:
		return false, fmt.Errorf("incident %s: %w", incidentID, models.ErrIncidentNotFound)
	default:
		return false, fmt.Errorf("responder %d for incident %s: %w", responderID, incidentID, models.ErrNotEligible)
	}
}

// PendingRecipientsExcluding возвращает адреса ожидающих больниц, кроме указанной
func (r *DispatchRepository) PendingRecipientsExcluding(ctx context.Context, incidentID uuid.UUID, responderID int64) ([]string, error) {
	query := `
		SELECT r.email
		FROM dispatch_records d
		JOIN responders r ON r.id = d.responder_id
		WHERE d.incident_id = $1
			AND d.responder_id <> $2
			AND d.status = 'pending'
			AND r.email <> ''
		ORDER BY d.responder_id;
	`
	rows, err := r.db.Query(ctx, query, incidentID, responderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending recipients: %w", err)
	}
	defer rows.Close()

	emails := make([]string, 0)
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("failed to scan pending recipient: %w", err)
		}
		emails = append(emails, email)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error pending recipients iteration: %w", err)
	}
	return emails, nil
}

// PendingResponders возвращает больницы, которые еще не ответили на предложение
func (r *DispatchRepository) PendingResponders(ctx context.Context, incidentID uuid.UUID) ([]*models.Responder, error) {
	query := `
		SELECT r.id, r.name, r.email, r.latitude, r.longitude
		FROM dispatch_records d
		JOIN responders r ON r.id = d.responder_id
		WHERE d.incident_id = $1 AND d.status = 'pending'
		ORDER BY d.responder_id;
	`
	rows, err := r.db.Query(ctx, query, incidentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending responders: %w", err)
	}
	defer rows.Close()

	responders := make([]*models.Responder, 0)
	for rows.Next() {
		responder := &models.Responder{}
		if err := rows.Scan(&responder.ID, &responder.Name, &responder.Email, &responder.Latitude, &responder.Longitude); err != nil {
			return nil, fmt.Errorf("failed to scan pending responder: %w", err)
		}
		responders = append(responders, responder)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error pending responders iteration: %w", err)
	}
	return responders, nil
}

// ListUnresolvedBefore возвращает непринятые происшествия старше cutoff
func (r *DispatchRepository) ListUnresolvedBefore(ctx context.Context, cutoff time.Time) ([]*models.Incident, error) {
	query := `
		SELECT id, latitude, longitude, created_at, handled_by
		FROM incidents
		WHERE handled_by IS NULL AND created_at < $1
		ORDER BY created_at;
	`
	rows, err := r.db.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list unresolved incidents: %w", err)
	}
	defer rows.Close()

	incidents := make([]*models.Incident, 0)
	for rows.Next() {
		incident := &models.Incident{}
		if err := rows.Scan(&incident.ID, &incident.Latitude, &incident.Longitude, &incident.CreatedAt, &incident.HandledBy); err != nil {
			return nil, fmt.Errorf("failed to scan incident row: %w", err)
		}
		incidents = append(incidents, incident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error unresolved incidents iteration: %w", err)
	}
	return incidents, nil
}

// ListIncidentSummaries возвращает строки панели мониторинга, новые сначала.
// Все данные строки читаются одним запросом, поэтому принятое происшествие
// всегда видно вместе с accepted записью.
func (r *DispatchRepository) ListIncidentSummaries(ctx context.Context, page, pageSize int) ([]*models.IncidentSummary, error) {
	offset := (page - 1) * pageSize

	query := `
		SELECT
			i.id,
			i.latitude,
			i.longitude,
			i.created_at,
			COALESCE(r.name, ''),
			r.latitude,
			r.longitude,
			COALESCE(array_agg(d.status ORDER BY d.responder_id) FILTER (WHERE d.status IS NOT NULL), '{}')
		FROM incidents i
		LEFT JOIN responders r ON r.id = i.handled_by
		LEFT JOIN dispatch_records d ON d.incident_id = i.id
		GROUP BY i.id, r.id
		ORDER BY i.created_at DESC
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.db.Query(ctx, query, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list incident summaries: %w", err)
	}
	defer rows.Close()

	summaries := make([]*models.IncidentSummary, 0)
	for rows.Next() {
		summary := &models.IncidentSummary{}
		var statuses []string
		err := rows.Scan(
			&summary.ID,
			&summary.Latitude,
			&summary.Longitude,
			&summary.CreatedAt,
			&summary.HandlerName,
			&summary.HandlerLatitude,
			&summary.HandlerLongitude,
			&statuses,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident summary row: %w", err)
		}
		summary.Statuses = make([]models.DispatchStatus, len(statuses))
		for i, st := range statuses {
			summary.Statuses[i] = models.DispatchStatus(st)
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error incident summaries iteration: %w", err)
	}
	return summaries, nil
}

// querier - общий интерфейс пула и транзакции
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func getIncident(ctx context.Context, q querier, id uuid.UUID) (*models.Incident, error) {
	incident := &models.Incident{}
	query := `
		SELECT id, latitude, longitude, created_at, handled_by
		FROM incidents
		WHERE id = $1;
	`
	err := q.QueryRow(ctx, query, id).Scan(
		&incident.ID,
		&incident.Latitude,
		&incident.Longitude,
		&incident.CreatedAt,
		&incident.HandledBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("incident %s: %w", id, models.ErrIncidentNotFound)
		}
		return nil, fmt.Errorf("failed to get incident by id: %w", err)
	}
	return incident, nil
}
