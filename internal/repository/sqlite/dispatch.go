// Package sqlite реализует тот же контракт хранилища, что и postgres, поверх встроенной SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/accident_dispatch_system/internal/models"
)

// timeLayout фиксированной ширины, чтобы строки сравнивались как время
const timeLayout = "2006-01-02T15:04:05.000000000Z"

type DispatchRepository struct {
	db *sql.DB
}

func NewDispatchRepository(db *sql.DB) *DispatchRepository {
	return &DispatchRepository{
		db: db,
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", s, err)
	}
	return t, nil
}

// ListResponders возвращает весь справочник больниц в порядке id
func (r *DispatchRepository) ListResponders(ctx context.Context) ([]*models.Responder, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, email, latitude, longitude FROM responders ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list responders: %w", err)
	}
	defer rows.Close()
	return scanResponders(rows)
}

// GetResponder возвращает больницу по id
func (r *DispatchRepository) GetResponder(ctx context.Context, id int64) (*models.Responder, error) {
	responder := &models.Responder{}
	err := r.db.QueryRowContext(ctx, `SELECT id, name, email, latitude, longitude FROM responders WHERE id = ?`, id).
		Scan(&responder.ID, &responder.Name, &responder.Email, &responder.Latitude, &responder.Longitude)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("responder %d: %w", id, models.ErrResponderNotFound)
		}
		return nil, fmt.Errorf("failed to get responder by id: %w", err)
	}
	return responder, nil
}

// CreateIncident сохраняет происшествие и записи рассылки в одной транзакции
func (r *DispatchRepository) CreateIncident(ctx context.Context, incident *models.Incident, responderIDs []int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO incidents (id, latitude, longitude, created_at)
		VALUES (?, ?, ?, ?)`,
		incident.ID.String(), incident.Latitude, incident.Longitude, formatTime(incident.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to create incident: %w", err)
	}

	if err := openDispatch(ctx, tx, incident.ID, responderIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit incident: %w", err)
	}
	return nil
}

// openDispatch создает по одной ожидающей записи на больницу внутри транзакции
func openDispatch(ctx context.Context, tx *sql.Tx, incidentID uuid.UUID, responderIDs []int64) error {
	if len(responderIDs) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO dispatch_records (incident_id, responder_id, status)
		VALUES (?, ?, 'pending')`)
	if err != nil {
		return fmt.Errorf("failed to prepare dispatch insert: %w", err)
	}
	defer stmt.Close()

	for _, responderID := range responderIDs {
		if _, err := stmt.ExecContext(ctx, incidentID.String(), responderID); err != nil {
			return fmt.Errorf("failed to open dispatch: %w", err)
		}
	}
	return nil
}

// GetByID возвращает происшествие по его UUID
func (r *DispatchRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	return getIncident(ctx, r.db, id)
}

// GetIncidentDetails читает происшествие и его рассылку в одной транзакции
func (r *DispatchRepository) GetIncidentDetails(ctx context.Context, id uuid.UUID) (*models.IncidentDetails, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	incident, err := getIncident(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT d.incident_id, d.responder_id, r.name, r.email, d.status
		FROM dispatch_records d
		JOIN responders r ON r.id = d.responder_id
		WHERE d.incident_id = ?
		ORDER BY d.responder_id`, id.String())
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
		err := tx.QueryRowContext(ctx, `SELECT id, name, email, latitude, longitude FROM responders WHERE id = ?`, *incident.HandledBy).
			Scan(&handler.ID, &handler.Name, &handler.Email, &handler.Latitude, &handler.Longitude)
		if err != nil {
			return nil, fmt.Errorf("failed to get handling responder: %w", err)
		}
		details.Handler = handler
	}
	return details, nil
}

// Resolve выполняет переход UNRESOLVED -> RESOLVED(responderID) условной записью
// по handled_by IS NULL; запись рассылки меняется в той же транзакции.
func (r *DispatchRepository) Resolve(ctx context.Context, incidentID uuid.UUID, responderID int64) (*models.Resolution, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var handledBy *int64
	err = tx.QueryRowContext(ctx, `SELECT handled_by FROM incidents WHERE id = ?`, incidentID.String()).Scan(&handledBy)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("incident %s: %w", incidentID, models.ErrIncidentNotFound)
		}
		return nil, fmt.Errorf("failed to get incident resolution: %w", err)
	}

	var status string
	err = tx.QueryRowContext(ctx, `
		SELECT status FROM dispatch_records
		WHERE incident_id = ? AND responder_id = ?`, incidentID.String(), responderID).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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

	res, err := tx.ExecContext(ctx, `
		UPDATE incidents SET handled_by = ?
		WHERE id = ? AND handled_by IS NULL`, responderID, incidentID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve incident: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve incident: %w", err)
	}

	if affected == 0 {
		if err := tx.QueryRowContext(ctx, `SELECT handled_by FROM incidents WHERE id = ?`, incidentID.String()).Scan(&handledBy); err != nil {
			return nil, fmt.Errorf("failed to get incident resolution: %w", err)
		}
		if handledBy == nil {
			return nil, fmt.Errorf("incident %s resolution lost", incidentID)
		}
		return &models.Resolution{IncidentID: incidentID, HandledBy: *handledBy}, nil
	}

	res, err = tx.ExecContext(ctx, `
		UPDATE dispatch_records SET status = 'accepted'
		WHERE incident_id = ? AND responder_id = ? AND status = 'pending'`, incidentID.String(), responderID)
	if err != nil {
		return nil, fmt.Errorf("failed to accept dispatch record: %w", err)
	}
	if affected, err = res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("failed to accept dispatch record: %w", err)
	}
	if affected != 1 {
		return nil, fmt.Errorf("responder %d already answered: %w", responderID, models.ErrNotEligible)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit resolution: %w", err)
	}
	return &models.Resolution{IncidentID: incidentID, HandledBy: responderID, Transitioned: true}, nil
}

// RecordRejection переводит запись рассылки в rejected, только если она еще ожидает ответа
func (r *DispatchRepository) RecordRejection(ctx context.Context, incidentID uuid.UUID, responderID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE dispatch_records SET status = 'rejected'
		WHERE incident_id = ? AND responder_id = ? AND status = 'pending'`, incidentID.String(), responderID)
	if err != nil {
		return false, fmt.Errorf("failed to reject dispatch record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to reject dispatch record: %w", err)
	}
	if affected > 0 {
		return true, nil
	}

	var recordExists, incidentExists bool
	err = r.db.QueryRowContext(ctx, `
		SELECT
			EXISTS (SELECT 1 FROM dispatch_records WHERE incident_id = ? AND responder_id = ?),
			EXISTS (SELECT 1 FROM incidents WHERE id = ?)`,
		incidentID.String(), responderID, incidentID.String()).Scan(&recordExists, &incidentExists)
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
	rows, err := r.db.QueryContext(ctx, `
		SELECT r.email
		FROM dispatch_records d
		JOIN responders r ON r.id = d.responder_id
		WHERE d.incident_id = ?
			AND d.responder_id <> ?
			AND d.status = 'pending'
			AND r.email <> ''
		ORDER BY d.responder_id`, incidentID.String(), responderID)
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
	rows, err := r.db.QueryContext(ctx, `
		SELECT r.id, r.name, r.email, r.latitude, r.longitude
		FROM dispatch_records d
		JOIN responders r ON r.id = d.responder_id
		WHERE d.incident_id = ? AND d.status = 'pending'
		ORDER BY d.responder_id`, incidentID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list pending responders: %w", err)
	}
	defer rows.Close()
	return scanResponders(rows)
}

// ListUnresolvedBefore возвращает непринятые происшествия старше cutoff
func (r *DispatchRepository) ListUnresolvedBefore(ctx context.Context, cutoff time.Time) ([]*models.Incident, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, latitude, longitude, created_at, handled_by
		FROM incidents
		WHERE handled_by IS NULL AND created_at < ?
		ORDER BY created_at`, formatTime(cutoff))
	if err != nil {
		return nil, fmt.Errorf("failed to list unresolved incidents: %w", err)
	}
	defer rows.Close()

	incidents := make([]*models.Incident, 0)
	for rows.Next() {
		incident, err := scanIncident(rows)
		if err != nil {
			return nil, err
		}
		incidents = append(incidents, incident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error unresolved incidents iteration: %w", err)
	}
	return incidents, nil
}

// ListIncidentSummaries возвращает строки панели мониторинга, новые сначала
func (r *DispatchRepository) ListIncidentSummaries(ctx context.Context, page, pageSize int) ([]*models.IncidentSummary, error) {
	offset := (page - 1) * pageSize

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			i.id,
			i.latitude,
			i.longitude,
			i.created_at,
			COALESCE(r.name, ''),
			r.latitude,
			r.longitude,
			GROUP_CONCAT(d.status)
		FROM incidents i
		LEFT JOIN responders r ON r.id = i.handled_by
		LEFT JOIN dispatch_records d ON d.incident_id = i.id
		GROUP BY i.id
		ORDER BY i.created_at DESC
		LIMIT ? OFFSET ?`, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list incident summaries: %w", err)
	}
	defer rows.Close()

	summaries := make([]*models.IncidentSummary, 0)
	for rows.Next() {
		summary := &models.IncidentSummary{}
		var (
			createdAt string
			statuses  sql.NullString
		)
		err := rows.Scan(
			&summary.ID,
			&summary.Latitude,
			&summary.Longitude,
			&createdAt,
			&summary.HandlerName,
			&summary.HandlerLatitude,
			&summary.HandlerLongitude,
			&statuses,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident summary row: %w", err)
		}
		if summary.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		summary.Statuses = make([]models.DispatchStatus, 0)
		if statuses.Valid && statuses.String != "" {
			for _, st := range strings.Split(statuses.String, ",") {
				summary.Statuses = append(summary.Statuses, models.DispatchStatus(st))
			}
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error incident summaries iteration: %w", err)
	}
	return summaries, nil
}

// querier - общий интерфейс *sql.DB и *sql.Tx
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

func getIncident(ctx context.Context, q querier, id uuid.UUID) (*models.Incident, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, latitude, longitude, created_at, handled_by
		FROM incidents
		WHERE id = ?`, id.String())
	incident, err := scanIncident(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("incident %s: %w", id, models.ErrIncidentNotFound)
		}
		return nil, fmt.Errorf("failed to get incident by id: %w", err)
	}
	return incident, nil
}

func scanIncident(row scanner) (*models.Incident, error) {
	incident := &models.Incident{}
	var createdAt string
	if err := row.Scan(&incident.ID, &incident.Latitude, &incident.Longitude, &createdAt, &incident.HandledBy); err != nil {
		return nil, err
	}
	t, err := parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	incident.CreatedAt = t
	return incident, nil
}

func scanResponders(rows *sql.Rows) ([]*models.Responder, error) {
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
