package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/accident_dispatch_system/internal/config"
	"github.com/shenikar/accident_dispatch_system/internal/models"
	"github.com/shenikar/accident_dispatch_system/internal/notify"
	notify_mocks "github.com/shenikar/accident_dispatch_system/internal/notify/mocks"
	"github.com/shenikar/accident_dispatch_system/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type serviceMocks struct {
	responders *mocks.MockResponderRepository
	incidents  *mocks.MockIncidentRepository
	cache      *mocks.MockIncidentCache
	links      *mocks.MockLinkBuilder
	notifier   *notify_mocks.MockGateway
}

// newTestDispatchService - вспомогательная функция для создания инстанса сервиса с моками.
func newTestDispatchService(t *testing.T, cfg *config.Config) (*dispatchService, *serviceMocks) {
	ctrl := gomock.NewController(t)
	m := &serviceMocks{
		responders: mocks.NewMockResponderRepository(ctrl),
		incidents:  mocks.NewMockIncidentRepository(ctrl),
		cache:      mocks.NewMockIncidentCache(ctrl),
		links:      mocks.NewMockLinkBuilder(ctrl),
		notifier:   notify_mocks.NewMockGateway(ctrl),
	}

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	if cfg == nil {
		cfg = &config.Config{}
	}
	if cfg.DispatchNearestLimit == 0 {
		cfg.DispatchNearestLimit = 3
	}
	if cfg.NotifyTimeout == 0 {
		cfg.NotifyTimeout = time.Second
	}

	svc := NewDispatchService(m.responders, m.incidents, m.cache, m.notifier, m.links, logger, cfg)
	return svc.(*dispatchService), m
}

func testDirectory() []*models.Responder {
	return []*models.Responder{
		{ID: 1, Name: "Apollo Hospital", Email: "apollo@example.com", Latitude: 1, Longitude: 1},
		{ID: 2, Name: "Rainbow Hospital", Email: "rainbow@example.com", Latitude: 0.1, Longitude: 0},
		{ID: 3, Name: "KIMS Hospital", Email: "kims@example.com", Latitude: 40, Longitude: 40},
		{ID: 4, Name: "Care Hospital", Email: "care@example.com", Latitude: 0, Longitude: 0.2},
	}
}

func TestReportIncident_NotifiesNearestResponders(t *testing.T) {
	// Подготовка
	service, m := newTestDispatchService(t, &config.Config{OversightEmail: "guardian@example.com"})
	ctx := context.Background()
	createdAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return createdAt }

	var sent []notify.Message

	// Ожидания
	m.responders.EXPECT().ListResponders(ctx).Return(testDirectory(), nil).Times(1)
	m.incidents.EXPECT().
		CreateIncident(ctx, gomock.Any(), []int64{2, 4, 1}).
		DoAndReturn(func(_ context.Context, incident *models.Incident, _ []int64) error {
			assert.Equal(t, createdAt, incident.CreatedAt)
			assert.Nil(t, incident.HandledBy)
			return nil
		}).
		Times(1)
	m.links.EXPECT().
		AcceptURL(gomock.Any(), gomock.Any()).
		DoAndReturn(func(id uuid.UUID, responderID int64) string {
			return fmt.Sprintf("http://dispatch.local/accept/%s?hospital_id=%d", id, responderID)
		}).
		Times(3)
	m.notifier.EXPECT().
		Send(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msg notify.Message) error {
			sent = append(sent, msg)
			return nil
		}).
		Times(4)

	// Действие
	incident, err := service.ReportIncident(ctx, 0, 0)

	// Проверки
	require.NoError(t, err)
	require.NotNil(t, incident)
	assert.NotEqual(t, uuid.Nil, incident.ID)
	require.Len(t, sent, 4)
	assert.Equal(t, []string{"rainbow@example.com"}, sent[0].To)
	assert.Equal(t, []string{"care@example.com"}, sent[1].To)
	assert.Equal(t, []string{"apollo@example.com"}, sent[2].To)
	assert.Contains(t, sent[0].Body, fmt.Sprintf("/accept/%s?hospital_id=2", incident.ID))
	assert.Contains(t, sent[0].Body, "2026-03-01 10:00:00")
	assert.Equal(t, "Guardian Alert", sent[3].Subject)
	assert.Equal(t, []string{"guardian@example.com"}, sent[3].To)
}

func TestReportIncident_InvalidCoordinates(t *testing.T) {
	// Подготовка
	service, _ := newTestDispatchService(t, nil)

	// Действие
	_, errLat := service.ReportIncident(context.Background(), 91, 0)
	_, errLon := service.ReportIncident(context.Background(), 0, -180.5)

	// Проверки
	assert.ErrorIs(t, errLat, models.ErrValidation)
	assert.ErrorIs(t, errLon, models.ErrValidation)
}

func TestReportIncident_DirectoryError(t *testing.T) {
	// Подготовка
	service, m := newTestDispatchService(t, nil)
	ctx := context.Background()
	dbErr := errors.New("connection refused")

	// Ожидания
	m.responders.EXPECT().ListResponders(ctx).Return(nil, dbErr).Times(1)

	// Действие
	incident, err := service.ReportIncident(ctx, 17.4, 78.4)

	// Проверки
	require.Error(t, err)
	assert.ErrorIs(t, err, dbErr)
	assert.Nil(t, incident)
}

func TestReportIncident_PersistFailureSendsNothing(t *testing.T) {
	// Подготовка
	service, m := newTestDispatchService(t, &config.Config{OversightEmail: "guardian@example.com"})
	ctx := context.Background()
	dbErr := errors.New("tx aborted")

	// Ожидания
	m.responders.EXPECT().ListResponders(ctx).Return(testDirectory(), nil).Times(1)
	m.incidents.EXPECT().CreateIncident(ctx, gomock.Any(), gomock.Any()).Return(dbErr).Times(1)
	m.notifier.EXPECT().Send(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	_, err := service.ReportIncident(ctx, 0, 0)

	// Проверки
	assert.ErrorIs(t, err, dbErr)
}

func TestReportIncident_NotificationFailureDoesNotFail(t *testing.T) {
	// Подготовка
	service, m := newTestDispatchService(t, &config.Config{DispatchNearestLimit: 1})
	ctx := context.Background()

	// Ожидания
	m.responders.EXPECT().ListResponders(ctx).Return(testDirectory(), nil).Times(1)
	m.incidents.EXPECT().CreateIncident(ctx, gomock.Any(), []int64{2}).Return(nil).Times(1)
	m.links.EXPECT().AcceptURL(gomock.Any(), int64(2)).Return("http://link").Times(1)
	m.notifier.EXPECT().
		Send(gomock.Any(), gomock.Any()).
		Return(errors.New("smtp: connection reset")).
		Times(1)

	// Действие
	incident, err := service.ReportIncident(ctx, 0, 0)

	// Проверки
	require.NoError(t, err)
	assert.NotNil(t, incident)
}

func TestReportIncident_EmptyDirectory(t *testing.T) {
	// Подготовка
	service, m := newTestDispatchService(t, nil)
	ctx := context.Background()

	// Ожидания
	m.responders.EXPECT().ListResponders(ctx).Return(nil, nil).Times(1)
	m.incidents.EXPECT().CreateIncident(ctx, gomock.Any(), []int64{}).Return(nil).Times(1)

	// Действие
	incident, err := service.ReportIncident(ctx, 0, 0)

	// Проверки
	require.NoError(t, err)
	assert.NotNil(t, incident)
}

func TestTryAccept_WinnerTriggersStandDown(t *testing.T) {
	// Подготовка
	service, m := newTestDispatchService(t, nil)
	ctx := context.Background()
	incidentID := uuid.New()
	winner := &models.Responder{ID: 2, Name: "Rainbow Hospital"}

	// Ожидания
	m.incidents.EXPECT().
		Resolve(ctx, incidentID, int64(2)).
		Return(&models.Resolution{IncidentID: incidentID, HandledBy: 2, Transitioned: true}, nil).
		Times(1)
	m.responders.EXPECT().GetResponder(ctx, int64(2)).Return(winner, nil).Times(1)
	m.cache.EXPECT().Invalidate(ctx, incidentID).Return(nil).Times(1)
	m.incidents.EXPECT().
		PendingRecipientsExcluding(ctx, incidentID, int64(2)).
		Return([]string{"care@example.com", "apollo@example.com"}, nil).
		Times(1)
	m.notifier.EXPECT().
		Send(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msg notify.Message) error {
			assert.Equal(t, "Stand Down: Case Accepted", msg.Subject)
			assert.Equal(t, []string{"care@example.com", "apollo@example.com"}, msg.To)
			assert.Contains(t, msg.Body, "Another hospital (Rainbow Hospital) has accepted the case.")
			return nil
		}).
		Times(1)

	// Действие
	responder, err := service.TryAccept(ctx, incidentID, 2)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, winner, responder)
}

func TestTryAccept_StandDownPartialFailureStillSucceeds(t *testing.T) {
	// Подготовка
	service, m := newTestDispatchService(t, nil)
	ctx := context.Background()
	incidentID := uuid.New()
	winner := &models.Responder{ID: 2, Name: "Rainbow Hospital"}
	deliveryErr := &notify.DeliveryError{Failures: map[string]error{"care@example.com": errors.New("mailbox full")}}

	// Ожидания
	m.incidents.EXPECT().
		Resolve(ctx, incidentID, int64(2)).
		Return(&models.Resolution{IncidentID: incidentID, HandledBy: 2, Transitioned: true}, nil)
	m.responders.EXPECT().GetResponder(ctx, int64(2)).Return(winner, nil)
	m.cache.EXPECT().Invalidate(ctx, incidentID).Return(errors.New("redis down"))
	m.incidents.EXPECT().
		PendingRecipientsExcluding(ctx, incidentID, int64(2)).
		Return([]string{"care@example.com", "apollo@example.com"}, nil)
	m.notifier.EXPECT().Send(gomock.Any(), gomock.Any()).Return(deliveryErr)

	// Действие
	responder, err := service.TryAccept(ctx, incidentID, 2)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, "Rainbow Hospital", responder.Name)
}

func TestTryAccept_RepeatedByWinnerIsQuiet(t *testing.T) {
	// Подготовка
	service, m := newTestDispatchService(t, nil)
	ctx := context.Background()
	incidentID := uuid.New()

	// Ожидания
	m.incidents.EXPECT().
		Resolve(ctx, incidentID, int64(2)).
		Return(&models.Resolution{IncidentID: incidentID, HandledBy: 2, Transitioned: false}, nil).
		Times(1)
	m.responders.EXPECT().GetResponder(ctx, int64(2)).Return(&models.Responder{ID: 2, Name: "Rainbow Hospital"}, nil)
	m.cache.EXPECT().Invalidate(gomock.Any(), gomock.Any()).Times(0)
	m.notifier.EXPECT().Send(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	responder, err := service.TryAccept(ctx, incidentID, 2)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, int64(2), responder.ID)
}

func TestTryAccept_LoserGetsWinnerName(t *testing.T) {
	// Подготовка
	service, m := newTestDispatchService(t, nil)
	ctx := context.Background()
	incidentID := uuid.New()

	// Ожидания
	m.incidents.EXPECT().
		Resolve(ctx, incidentID, int64(3)).
		Return(&models.Resolution{IncidentID: incidentID, HandledBy: 2}, nil).
		Times(1)
	m.responders.EXPECT().GetResponder(ctx, int64(2)).Return(&models.Responder{ID: 2, Name: "Rainbow Hospital"}, nil)
	m.notifier.EXPECT().Send(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	responder, err := service.TryAccept(ctx, incidentID, 3)

	// Проверки
	require.Error(t, err)
	assert.Nil(t, responder)
	var resolved *models.AlreadyResolvedError
	require.ErrorAs(t, err, &resolved)
	assert.Equal(t, int64(2), resolved.WinnerID)
	assert.Equal(t, "Rainbow Hospital", resolved.WinnerName)
}

func TestTryAccept_RefusedByRepository(t *testing.T) {
	testCases := []struct {
		name    string
		repoErr error
	}{
		{name: "unknown incident", repoErr: models.ErrIncidentNotFound},
		{name: "not dispatched", repoErr: models.ErrNotEligible},
		{name: "storage failure", repoErr: errors.New("deadlock detected")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Подготовка
			service, m := newTestDispatchService(t, nil)
			ctx := context.Background()
			incidentID := uuid.New()

			// Ожидания
			m.incidents.EXPECT().Resolve(ctx, incidentID, int64(7)).Return(nil, tc.repoErr).Times(1)

			// Действие
			_, err := service.TryAccept(ctx, incidentID, 7)

			// Проверки
			assert.ErrorIs(t, err, tc.repoErr)
		})
	}
}

func TestTryAccept_UnknownResponderNameFallback(t *testing.T) {
	// Подготовка
	service, m := newTestDispatchService(t, nil)
	ctx := context.Background()
	incidentID := uuid.New()

	// Ожидания
	m.incidents.EXPECT().
		Resolve(ctx, incidentID, int64(9)).
		Return(&models.Resolution{IncidentID: incidentID, HandledBy: 9, Transitioned: true}, nil)
	m.responders.EXPECT().GetResponder(ctx, int64(9)).Return(nil, models.ErrResponderNotFound)
	m.cache.EXPECT().Invalidate(ctx, incidentID).Return(nil)
	m.incidents.EXPECT().PendingRecipientsExcluding(ctx, incidentID, int64(9)).Return(nil, nil)
	m.notifier.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil)

	// Действие
	responder, err := service.TryAccept(ctx, incidentID, 9)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, "Hospital ID 9", responder.Name)
}

func TestRecordRejection(t *testing.T) {
	testCases := []struct {
		name       string
		changed    bool
		invalidate int
	}{
		{name: "first rejection", changed: true, invalidate: 1},
		{name: "repeated rejection", changed: false, invalidate: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Подготовка
			service, m := newTestDispatchService(t, nil)
			ctx := context.Background()
			incidentID := uuid.New()

			// Ожидания
			m.incidents.EXPECT().RecordRejection(ctx, incidentID, int64(3)).Return(tc.changed, nil).Times(1)
			m.cache.EXPECT().Invalidate(ctx, incidentID).Return(nil).Times(tc.invalidate)
			m.responders.EXPECT().GetResponder(ctx, int64(3)).Return(&models.Responder{ID: 3, Name: "KIMS Hospital"}, nil)
			m.notifier.EXPECT().Send(gomock.Any(), gomock.Any()).Times(0)

			// Действие
			responder, err := service.RecordRejection(ctx, incidentID, 3)

			// Проверки
			require.NoError(t, err)
			assert.Equal(t, "KIMS Hospital", responder.Name)
		})
	}
}

func TestRecordRejection_NotEligible(t *testing.T) {
	// Подготовка
	service, m := newTestDispatchService(t, nil)
	ctx := context.Background()
	incidentID := uuid.New()

	// Ожидания
	m.incidents.EXPECT().RecordRejection(ctx, incidentID, int64(8)).Return(false, models.ErrNotEligible)

	// Действие
	_, err := service.RecordRejection(ctx, incidentID, 8)

	// Проверки
	assert.ErrorIs(t, err, models.ErrNotEligible)
}

func TestGetIncident_FromCache(t *testing.T) {
	// Подготовка
	service, m := newTestDispatchService(t, nil)
	ctx := context.Background()
	incidentID := uuid.New()
	cached := &models.IncidentDetails{Incident: &models.Incident{ID: incidentID}}

	// Ожидания
	m.cache.EXPECT().Get(ctx, incidentID).Return(cached, nil).Times(1)
	m.incidents.EXPECT().GetIncidentDetails(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	details, err := service.GetIncident(ctx, incidentID)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, cached, details)
}

func TestGetIncident_FromDB(t *testing.T) {
	// Подготовка
	service, m := newTestDispatchService(t, nil)
	ctx := context.Background()
	incidentID := uuid.New()
	stored := &models.IncidentDetails{Incident: &models.Incident{ID: incidentID}}

	// Ожидания
	// 1. Промах кеша (ошибка Redis не мешает чтению из БД)
	m.cache.EXPECT().Get(ctx, incidentID).Return(nil, errors.New("redis timeout")).Times(1)
	// 2. Поколение кеша читается до БД
	m.cache.EXPECT().Generation(ctx, incidentID).Return(int64(3), nil).Times(1)
	// 3. Попадание в БД
	m.incidents.EXPECT().GetIncidentDetails(ctx, incidentID).Return(stored, nil).Times(1)
	// 4. Запись в кеш с тем же поколением
	m.cache.EXPECT().Set(ctx, stored, int64(3)).Return(nil).Times(1)

	// Действие
	details, err := service.GetIncident(ctx, incidentID)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, stored, details)
}

func TestGetIncident_GenerationUnavailableSkipsCacheWrite(t *testing.T) {
	// Подготовка
	service, m := newTestDispatchService(t, nil)
	ctx := context.Background()
	incidentID := uuid.New()
	stored := &models.IncidentDetails{Incident: &models.Incident{ID: incidentID}}

	// Ожидания
	m.cache.EXPECT().Get(ctx, incidentID).Return(nil, nil)
	m.cache.EXPECT().Generation(ctx, incidentID).Return(int64(0), errors.New("redis timeout"))
	m.incidents.EXPECT().GetIncidentDetails(ctx, incidentID).Return(stored, nil)
	m.cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	// Действие
	details, err := service.GetIncident(ctx, incidentID)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, stored, details)
}

func TestGetIncident_NotFound(t *testing.T) {
	// Подготовка
	service, m := newTestDispatchService(t, nil)
	ctx := context.Background()
	incidentID := uuid.New()

	// Ожидания
	m.cache.EXPECT().Get(ctx, incidentID).Return(nil, nil)
	m.cache.EXPECT().Generation(ctx, incidentID).Return(int64(0), nil)
	m.incidents.EXPECT().GetIncidentDetails(ctx, incidentID).Return(nil, models.ErrIncidentNotFound)
	m.cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	// Действие
	_, err := service.GetIncident(ctx, incidentID)

	// Проверки
	assert.ErrorIs(t, err, models.ErrIncidentNotFound)
}

func TestDashboard_NormalizesPagination(t *testing.T) {
	// Подготовка
	service, m := newTestDispatchService(t, nil)
	ctx := context.Background()
	rows := []*models.IncidentSummary{{ID: uuid.New()}}

	// Ожидания
	m.incidents.EXPECT().ListIncidentSummaries(ctx, 1, 20).Return(rows, nil).Times(1)

	// Действие
	summaries, err := service.Dashboard(ctx, 0, 500)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, rows, summaries)
}

func TestRemindUnresolved_OncePerIncident(t *testing.T) {
	// Подготовка
	service, m := newTestDispatchService(t, nil)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return now }
	fresh := &models.Incident{ID: uuid.New(), CreatedAt: now.Add(-15 * time.Minute)}
	alreadyReminded := &models.Incident{ID: uuid.New(), CreatedAt: now.Add(-time.Hour)}
	pending := []*models.Responder{
		{ID: 1, Email: "apollo@example.com"},
		{ID: 4, Email: "care@example.com"},
	}

	// Ожидания
	m.incidents.EXPECT().
		ListUnresolvedBefore(ctx, now.Add(-10*time.Minute)).
		Return([]*models.Incident{fresh, alreadyReminded}, nil).
		Times(1)
	m.cache.EXPECT().MarkReminded(ctx, fresh.ID).Return(true, nil)
	m.cache.EXPECT().MarkReminded(ctx, alreadyReminded.ID).Return(false, nil)
	m.incidents.EXPECT().PendingResponders(ctx, fresh.ID).Return(pending, nil).Times(1)
	m.links.EXPECT().AcceptURL(fresh.ID, gomock.Any()).Return("http://link").Times(2)
	m.notifier.EXPECT().
		Send(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msg notify.Message) error {
			assert.Equal(t, "Reminder: Accident Still Unassigned", msg.Subject)
			assert.Contains(t, msg.Body, "15m0s")
			return nil
		}).
		Times(2)

	// Действие
	count, err := service.RemindUnresolved(ctx, 10*time.Minute)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRemindUnresolved_ListError(t *testing.T) {
	// Подготовка
	service, m := newTestDispatchService(t, nil)
	ctx := context.Background()
	dbErr := errors.New("connection reset")

	// Ожидания
	m.incidents.EXPECT().ListUnresolvedBefore(ctx, gomock.Any()).Return(nil, dbErr)

	// Действие
	_, err := service.RemindUnresolved(ctx, time.Minute)

	// Проверки
	assert.ErrorIs(t, err, dbErr)
}

func TestRemindUnresolved_ClearsMarkWhenPendingLoadFails(t *testing.T) {
	// Подготовка
	service, m := newTestDispatchService(t, nil)
	ctx := context.Background()
	incident := &models.Incident{ID: uuid.New(), CreatedAt: time.Now().Add(-time.Hour)}

	// Ожидания
	m.incidents.EXPECT().ListUnresolvedBefore(ctx, gomock.Any()).Return([]*models.Incident{incident}, nil)
	m.cache.EXPECT().MarkReminded(ctx, incident.ID).Return(true, nil)
	m.incidents.EXPECT().PendingResponders(ctx, incident.ID).Return(nil, errors.New("connection reset"))
	// Отметка снимается, чтобы следующий обход повторил напоминание
	m.cache.EXPECT().ClearReminded(ctx, incident.ID).Return(nil).Times(1)
	m.notifier.EXPECT().Send(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	count, err := service.RemindUnresolved(ctx, 10*time.Minute)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
