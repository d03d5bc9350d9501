package reminder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Reminder - часть сервиса рассылки, нужная планировщику
type Reminder interface {
	RemindUnresolved(ctx context.Context, olderThan time.Duration) (int, error)
}

// Sweeper по расписанию напоминает больницам о непринятых происшествиях
type Sweeper struct {
	cron     *cron.Cron
	reminder Reminder
	after    time.Duration
	logger   *logrus.Logger

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

// NewSweeper регистрирует задачу по cron-выражению (поддерживаются дескрипторы вида "@every 5m").
// Пустое расписание отключает напоминания: Start и Stop становятся no-op.
func NewSweeper(schedule string, after time.Duration, reminder Reminder, logger *logrus.Logger) (*Sweeper, error) {
	s := &Sweeper{
		reminder: reminder,
		after:    after,
		logger:   logger,
	}
	if schedule == "" {
		return s, nil
	}

	s.cron = cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := s.cron.AddFunc(schedule, s.sweep); err != nil {
		return nil, fmt.Errorf("invalid reminder schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start запускает планировщик; задачи получают контекст, отменяемый вместе с ctx
func (s *Sweeper) Start(ctx context.Context) {
	if s.cron == nil {
		s.logger.Info("Reminder sweeper disabled")
		return
	}
	s.mu.Lock()
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	s.cron.Start()
	s.logger.WithField("after", s.after.String()).Info("Reminder sweeper started")
}

// Stop останавливает планировщик и дожидается текущего прохода
func (s *Sweeper) Stop() {
	if s.cron == nil {
		return
	}
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	s.logger.Info("Reminder sweeper stopped")
}

func (s *Sweeper) sweep() {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}

	count, err := s.reminder.RemindUnresolved(ctx, s.after)
	if err != nil {
		s.logger.WithError(err).Error("Reminder sweep failed")
		return
	}
	s.logger.WithField("reminded", count).Debug("Reminder sweep finished")
}
