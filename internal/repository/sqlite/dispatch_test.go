package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/accident_dispatch_system/internal/models"
	"github.com/shenikar/accident_dispatch_system/migrations"
	pkgsqlite "github.com/shenikar/accident_dispatch_system/pkg/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRepository создает файл БД с миграциями и справочником из пяти больниц
func newTestRepository(t *testing.T) *DispatchRepository {
	t.Helper()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "dispatch.db")

	require.NoError(t, migrations.Up("sqlite", migrations.SQLiteURL(path)))

	db, err := pkgsqlite.NewSQLiteDB(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	hospitals := []models.Responder{
		{Name: "Apollo Hospital", Email: "apollo@example.com", Latitude: 17.3850, Longitude: 78.4867},
		{Name: "Rainbow Hospital", Email: "rainbow@example.com", Latitude: 17.4100, Longitude: 78.4786},
		{Name: "KIMS Hospital", Email: "kims@example.com", Latitude: 17.4320, Longitude: 78.4480},
		{Name: "Care Hospital", Email: "care@example.com", Latitude: 17.4000, Longitude: 78.4600},
		{Name: "Yashoda Hospital", Email: "", Latitude: 17.3700, Longitude: 78.4800},
	}
	for _, h := range hospitals {
		_, err := db.ExecContext(ctx, `INSERT INTO responders (name, email, latitude, longitude) VALUES (?, ?, ?, ?)`,
			h.Name, h.Email, h.Latitude, h.Longitude)
		require.NoError(t, err)
	}

	return NewDispatchRepository(db)
}

func createIncident(t *testing.T, repo *DispatchRepository, createdAt time.Time, responderIDs ...int64) *models.Incident {
	t.Helper()
	incident := &models.Incident{
		ID:        uuid.New(),
		Latitude:  17.41,
		Longitude: 78.47,
		CreatedAt: createdAt,
	}
	require.NoError(t, repo.CreateIncident(context.Background(), incident, responderIDs))
	return incident
}

func TestListResponders_OrderedByID(t *testing.T) {
	repo := newTestRepository(t)

	responders, err := repo.ListResponders(context.Background())

	require.NoError(t, err)
	require.Len(t, responders, 5)
	assert.Equal(t, int64(1), responders[0].ID)
	assert.Equal(t, "Apollo Hospital", responders[0].Name)
	assert.Equal(t, int64(5), responders[4].ID)
}

func TestGetResponder_NotFound(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.GetResponder(context.Background(), 42)

	assert.ErrorIs(t, err, models.ErrResponderNotFound)
}

func TestCreateIncident_OpensPendingDispatch(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	createdAt := time.Date(2026, 3, 1, 10, 0, 0, 123, time.UTC)

	incident := createIncident(t, repo, createdAt, 2, 4, 1)

	details, err := repo.GetIncidentDetails(ctx, incident.ID)
	require.NoError(t, err)
	assert.Equal(t, createdAt, details.Incident.CreatedAt)
	assert.Nil(t, details.Incident.HandledBy)
	require.Len(t, details.Records, 3)
	for _, record := range details.Records {
		assert.Equal(t, models.StatusPending, record.Status)
		assert.Equal(t, incident.ID, record.IncidentID)
	}
}

func TestCreateIncident_BatchIsAtomic(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	incident := &models.Incident{ID: uuid.New(), Latitude: 1, Longitude: 2, CreatedAt: time.Now()}

	// Больницы 999 нет в справочнике - внешний ключ валит весь батч
	err := repo.CreateIncident(ctx, incident, []int64{1, 999})
	require.Error(t, err)

	_, err = repo.GetByID(ctx, incident.ID)
	assert.ErrorIs(t, err, models.ErrIncidentNotFound)
}

func TestResolve_UnknownIncident(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.Resolve(context.Background(), uuid.New(), 1)

	assert.ErrorIs(t, err, models.ErrIncidentNotFound)
}

func TestResolve_NotEligible(t *testing.T) {
	repo := newTestRepository(t)
	incident := createIncident(t, repo, time.Now(), 1, 2, 3)

	_, err := repo.Resolve(context.Background(), incident.ID, 5)

	assert.ErrorIs(t, err, models.ErrNotEligible)
	stored, err := repo.GetByID(context.Background(), incident.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.HandledBy)
}

func TestResolve_RejectedResponderCannotAccept(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	incident := createIncident(t, repo, time.Now(), 1, 2, 3)

	changed, err := repo.RecordRejection(ctx, incident.ID, 3)
	require.NoError(t, err)
	require.True(t, changed)

	_, err = repo.Resolve(ctx, incident.ID, 3)
	assert.ErrorIs(t, err, models.ErrNotEligible)
}

func TestResolve_IdempotentForWinner(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	incident := createIncident(t, repo, time.Now(), 1, 2, 3)

	first, err := repo.Resolve(ctx, incident.ID, 2)
	require.NoError(t, err)
	second, err := repo.Resolve(ctx, incident.ID, 2)
	require.NoError(t, err)

	assert.True(t, first.Transitioned)
	assert.False(t, second.Transitioned)
	assert.Equal(t, int64(2), second.HandledBy)
}

func TestResolve_ConcurrentAcceptsHaveOneWinner(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	incident := createIncident(t, repo, time.Now(), 1, 2, 3, 4, 5)

	var (
		wg      sync.WaitGroup
		start   = make(chan struct{})
		mu      sync.Mutex
		results = make(map[int64]*models.Resolution)
	)
	for id := int64(1); id <= 5; id++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			res, err := repo.Resolve(ctx, incident.ID, id)
			assert.NoError(t, err)
			mu.Lock()
			results[id] = res
			mu.Unlock()
		}()
	}
	close(start)
	wg.Wait()

	require.Len(t, results, 5)
	var winner int64
	transitions := 0
	for id, res := range results {
		require.NotNil(t, res)
		if res.Transitioned {
			transitions++
			winner = id
		}
	}
	require.Equal(t, 1, transitions)
	for _, res := range results {
		assert.Equal(t, winner, res.HandledBy)
	}

	details, err := repo.GetIncidentDetails(ctx, incident.ID)
	require.NoError(t, err)
	require.NotNil(t, details.Incident.HandledBy)
	assert.Equal(t, winner, *details.Incident.HandledBy)
	accepted := 0
	for _, record := range details.Records {
		if record.Status == models.StatusAccepted {
			accepted++
			assert.Equal(t, winner, record.ResponderID)
		}
	}
	assert.Equal(t, 1, accepted)
	require.NotNil(t, details.Handler)
	assert.Equal(t, winner, details.Handler.ID)
}

func TestResolve_DifferentIncidentsIndependent(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	first := createIncident(t, repo, time.Now(), 1, 2)
	second := createIncident(t, repo, time.Now(), 1, 2)

	a, err := repo.Resolve(ctx, first.ID, 1)
	require.NoError(t, err)
	b, err := repo.Resolve(ctx, second.ID, 2)
	require.NoError(t, err)

	assert.True(t, a.Transitioned)
	assert.True(t, b.Transitioned)
}

func TestRecordRejection_AfterWinnerLeavesIncidentUntouched(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	incident := createIncident(t, repo, time.Now(), 1, 2, 3)

	_, err := repo.Resolve(ctx, incident.ID, 2)
	require.NoError(t, err)

	changed, err := repo.RecordRejection(ctx, incident.ID, 3)
	require.NoError(t, err)
	assert.True(t, changed)

	// Повторный отказ - no-op
	changed, err = repo.RecordRejection(ctx, incident.ID, 3)
	require.NoError(t, err)
	assert.False(t, changed)

	// Отказ победителя не меняет принятую запись
	changed, err = repo.RecordRejection(ctx, incident.ID, 2)
	require.NoError(t, err)
	assert.False(t, changed)

	details, err := repo.GetIncidentDetails(ctx, incident.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), *details.Incident.HandledBy)
	statuses := map[int64]models.DispatchStatus{}
	for _, record := range details.Records {
		statuses[record.ResponderID] = record.Status
	}
	assert.Equal(t, models.StatusPending, statuses[1])
	assert.Equal(t, models.StatusAccepted, statuses[2])
	assert.Equal(t, models.StatusRejected, statuses[3])
}

func TestRecordRejection_Errors(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	incident := createIncident(t, repo, time.Now(), 1, 2)

	_, err := repo.RecordRejection(ctx, uuid.New(), 1)
	assert.ErrorIs(t, err, models.ErrIncidentNotFound)

	_, err = repo.RecordRejection(ctx, incident.ID, 4)
	assert.ErrorIs(t, err, models.ErrNotEligible)
}

func TestPendingRecipientsExcluding(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	incident := createIncident(t, repo, time.Now(), 1, 2, 3, 5)

	_, err := repo.Resolve(ctx, incident.ID, 1)
	require.NoError(t, err)
	_, err = repo.RecordRejection(ctx, incident.ID, 3)
	require.NoError(t, err)

	emails, err := repo.PendingRecipientsExcluding(ctx, incident.ID, 1)

	// Yashoda без адреса, KIMS отказалась, Apollo - победитель
	require.NoError(t, err)
	assert.Equal(t, []string{"rainbow@example.com"}, emails)

	pending, err := repo.PendingResponders(ctx, incident.ID)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, int64(2), pending[0].ID)
	assert.Equal(t, int64(5), pending[1].ID)
}

func TestListUnresolvedBefore(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	old := createIncident(t, repo, now.Add(-time.Hour), 1, 2)
	oldResolved := createIncident(t, repo, now.Add(-time.Hour), 1, 2)
	createIncident(t, repo, now, 1, 2)

	_, err := repo.Resolve(ctx, oldResolved.ID, 1)
	require.NoError(t, err)

	incidents, err := repo.ListUnresolvedBefore(ctx, now.Add(-10*time.Minute))

	require.NoError(t, err)
	require.Len(t, incidents, 1)
	assert.Equal(t, old.ID, incidents[0].ID)
}

func TestListIncidentSummaries(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	accepted := createIncident(t, repo, now.Add(-2*time.Minute), 1, 2)
	rejected := createIncident(t, repo, now.Add(-time.Minute), 3)
	pending := createIncident(t, repo, now, 4)

	_, err := repo.Resolve(ctx, accepted.ID, 2)
	require.NoError(t, err)
	_, err = repo.RecordRejection(ctx, rejected.ID, 3)
	require.NoError(t, err)

	summaries, err := repo.ListIncidentSummaries(ctx, 1, 10)

	require.NoError(t, err)
	require.Len(t, summaries, 3)
	assert.Equal(t, pending.ID, summaries[0].ID)
	assert.Equal(t, models.StatusPending, summaries[0].Status())
	assert.Equal(t, rejected.ID, summaries[1].ID)
	assert.Equal(t, models.StatusRejected, summaries[1].Status())
	assert.Equal(t, accepted.ID, summaries[2].ID)
	assert.Equal(t, models.StatusAccepted, summaries[2].Status())
	assert.Equal(t, "Rainbow Hospital", summaries[2].HandlerName)
	require.NotNil(t, summaries[2].HandlerLatitude)
	assert.InDelta(t, 17.41, *summaries[2].HandlerLatitude, 1e-9)
	assert.ElementsMatch(t, []models.DispatchStatus{models.StatusPending, models.StatusAccepted}, summaries[2].Statuses)

	page2, err := repo.ListIncidentSummaries(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Equal(t, accepted.ID, page2[0].ID)
}

func TestGetIncidentDetails_NotFound(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.GetIncidentDetails(context.Background(), uuid.New())

	assert.True(t, errors.Is(err, models.ErrIncidentNotFound))
}

func TestResolve_RacingRejectionChangesRecordOnce(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		incident := createIncident(t, repo, time.Now().UTC(), 1, 2)

		var (
			wg       sync.WaitGroup
			start    = make(chan struct{})
			res      *models.Resolution
			resErr   error
			rejected bool
			rejErr   error
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			<-start
			res, resErr = repo.Resolve(ctx, incident.ID, 1)
		}()
		go func() {
			defer wg.Done()
			<-start
			rejected, rejErr = repo.RecordRejection(ctx, incident.ID, 1)
		}()
		close(start)
		wg.Wait()

		require.NoError(t, rejErr)
		details, err := repo.GetIncidentDetails(ctx, incident.ID)
		require.NoError(t, err)

		var status models.DispatchStatus
		for _, record := range details.Records {
			if record.ResponderID == 1 {
				status = record.Status
			}
		}

		if rejected {
			assert.ErrorIs(t, resErr, models.ErrNotEligible)
			assert.Nil(t, details.Incident.HandledBy)
			assert.Equal(t, models.StatusRejected, status)
			continue
		}
		require.NoError(t, resErr)
		assert.True(t, res.Transitioned)
		require.NotNil(t, details.Incident.HandledBy)
		assert.Equal(t, int64(1), *details.Incident.HandledBy)
		assert.Equal(t, models.StatusAccepted, status)
	}
}
