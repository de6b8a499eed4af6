package syncer

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/marchon-locator/internal/domain"
	"github.com/marchon-locator/internal/worker"
)

// Syncer - один проход синхронизации набора данных
type Syncer interface {
	Run(ctx context.Context, dataset string) (*domain.SyncReport, error)
}

// SyncWorker запускает синхронизацию сразу после старта и затем по интервалу.
// Ошибка прохода не останавливает воркер.
type SyncWorker struct {
	*worker.BaseWorker
	syncer   Syncer
	dataset  string
	interval time.Duration
	runs     atomic.Int64
}

// NewSyncWorker создает SyncWorker. interval <= 0 - один проход и выход.
func NewSyncWorker(s Syncer, dataset string, interval time.Duration, logger *zap.Logger) *SyncWorker {
	return &SyncWorker{
		BaseWorker: worker.NewBaseWorker("upstream-sync", "", logger),
		syncer:     s,
		dataset:    dataset,
		interval:   interval,
	}
}

// Start запускает воркер
func (w *SyncWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting SyncWorker",
		zap.String("dataset", w.dataset),
		zap.Duration("interval", w.interval))

	for {
		w.runOnce(ctx)

		if w.interval <= 0 {
			logger.Info("Single sync run finished")
			return nil
		}
		if !w.Wait(ctx, w.interval) {
			logger.Info("Worker stopped")
			return nil
		}
	}
}

// Runs - сколько проходов уже выполнено
func (w *SyncWorker) Runs() int64 {
	return w.runs.Load()
}

func (w *SyncWorker) runOnce(ctx context.Context) {
	w.runs.Add(1)
	report, err := w.syncer.Run(ctx, w.dataset)
	if err != nil {
		w.Logger().Error("Sync run failed", zap.String("dataset", w.dataset), zap.Error(err))
		return
	}
	w.Logger().Info("Sync run completed",
		zap.String("run_id", report.RunID.String()),
		zap.Int("total", report.Total),
		zap.Int("inserted", report.Inserted),
		zap.Int("orphans", report.Orphans))
}
