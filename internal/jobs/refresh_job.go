package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"design-order-bot/internal/logger"

	"github.com/robfig/cron/v3"
)

// Refresher - то, что умеет перечитать заказы
type Refresher interface {
	Refresh(ctx context.Context) error
}

// RefreshJob периодически обновляет список заказов панели.
// Расписание в формате cron с секундами, например "*/30 * * * * *" или "@every 1m".
type RefreshJob struct {
	target   Refresher
	schedule string
	timeout  time.Duration
	cron     *cron.Cron

	mu      sync.Mutex
	lastErr error
}

func NewRefreshJob(target Refresher, schedule string, timeout time.Duration) *RefreshJob {
	return &RefreshJob{
		target:   target,
		schedule: schedule,
		timeout:  timeout,
		// пропускаем запуск, если предыдущее обновление еще идет
		cron: cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
	}
}

func (j *RefreshJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.run); err != nil {
		return fmt.Errorf("refresh job schedule %q: %w", j.schedule, err)
	}

	j.cron.Start()
	logger.Info("Refresh job started:", j.schedule)
	return nil
}

// Stop дожидается завершения текущего обновления
func (j *RefreshJob) Stop() {
	<-j.cron.Stop().Done()
	logger.Info("Refresh job stopped")
}

// LastError - ошибка последнего запуска, nil если он прошел успешно
func (j *RefreshJob) LastError() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.lastErr
}

func (j *RefreshJob) run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	err := j.target.Refresh(ctx)
	if err != nil {
		logger.Warning("Refresh job failed", err)
	}

	j.mu.Lock()
	j.lastErr = err
	j.mu.Unlock()
}
