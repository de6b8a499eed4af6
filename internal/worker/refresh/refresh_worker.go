package refresh

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/marchon-locator/internal/domain"
	"github.com/marchon-locator/internal/domain/repository"
	"github.com/marchon-locator/internal/pkg/metrics"
	"github.com/marchon-locator/internal/worker"
)

const (
	defaultBatchSize = 10
	emptyQueueSleep  = 100 * time.Millisecond
	errorSleep       = time.Second
	retryBackoff     = 500 * time.Millisecond
)

// SnapshotRefresher - то, что умеет перечитать набор данных
type SnapshotRefresher interface {
	Has(dataset string) bool
	Refresh(ctx context.Context, dataset string, force bool) (*domain.FeatureSet, error)
}

// Config - параметры воркера обновления
type Config struct {
	ConsumerGroup string
	ConsumerName  string
	BatchSize     int64
	MaxRetries    int
	// пауза при пустой очереди
	IdleSleep time.Duration
	// DeleteGroupOnExit - группа принадлежит только этому процессу и удаляется при выходе
	DeleteGroupOnExit bool
}

// SnapshotRefreshWorker перечитывает снимок, когда sync-воркер публикует FeatureSetRefreshed
type SnapshotRefreshWorker struct {
	*worker.BaseWorker
	streamRepo   repository.StreamRepository
	refresher    SnapshotRefresher
	metrics      *metrics.Metrics
	consumerName string
	batchSize    int64
	maxRetries   int
	idleSleep    time.Duration
	deleteGroup  bool
}

// NewSnapshotRefreshWorker создает SnapshotRefreshWorker
func NewSnapshotRefreshWorker(
	streamRepo repository.StreamRepository,
	refresher SnapshotRefresher,
	cfg Config,
	m *metrics.Metrics,
	logger *zap.Logger,
) *SnapshotRefreshWorker {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.IdleSleep <= 0 {
		cfg.IdleSleep = emptyQueueSleep
	}

	return &SnapshotRefreshWorker{
		BaseWorker:   worker.NewBaseWorker("snapshot-refresh", cfg.ConsumerGroup, logger),
		streamRepo:   streamRepo,
		refresher:    refresher,
		metrics:      m,
		consumerName: cfg.ConsumerName,
		batchSize:    cfg.BatchSize,
		maxRetries:   cfg.MaxRetries,
		idleSleep:    cfg.IdleSleep,
		deleteGroup:  cfg.DeleteGroupOnExit,
	}
}

// Start запускает воркер
func (w *SnapshotRefreshWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting SnapshotRefreshWorker",
		zap.String("stream", domain.StreamFeaturesRefreshed),
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.consumerName))

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamFeaturesRefreshed, w.ConsumerGroup()); err != nil {
		logger.Error("Failed to create consumer group", zap.Error(err))
		return fmt.Errorf("failed to create consumer group: %w", err)
	}
	if w.deleteGroup {
		defer w.deleteConsumerGroup()
	}

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil
		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()
		default:
		}

		processed, err := w.ProcessBatch(ctx)
		if err != nil {
			logger.Error("Failed to process batch", zap.Error(err))
			if !w.Wait(ctx, errorSleep) {
				return nil
			}
			continue
		}
		if processed == 0 && !w.Wait(ctx, w.idleSleep) {
			return nil
		}
	}
}

// ProcessBatch читает пачку событий и обновляет затронутые наборы.
// Несколько событий одного набора дают одно обновление.
func (w *SnapshotRefreshWorker) ProcessBatch(ctx context.Context) (int, error) {
	logger := w.Logger()
	stream := domain.StreamFeaturesRefreshed

	messages, err := w.streamRepo.ConsumeBatch(ctx, stream, w.ConsumerGroup(), w.consumerName, w.batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to consume batch: %w", err)
	}
	if len(messages) == 0 {
		return 0, nil
	}

	ids := make([]string, 0, len(messages))
	datasets := make([]string, 0, 1)
	seen := make(map[string]struct{})

	for _, msg := range messages {
		ids = append(ids, msg.ID)

		var event domain.FeatureSetRefreshedEvent
		if err := json.Unmarshal([]byte(msg.Data), &event); err != nil || event.Dataset == "" {
			logger.Warn("Failed to parse message, skipping", zap.String("message_id", msg.ID), zap.Error(err))
			w.metrics.StreamMessage(stream, fmt.Errorf("malformed message"))
			continue
		}
		if !w.refresher.Has(event.Dataset) {
			logger.Debug("Dataset not served here, skipping", zap.String("dataset", event.Dataset))
			continue
		}
		if _, dup := seen[event.Dataset]; dup {
			continue
		}
		seen[event.Dataset] = struct{}{}
		datasets = append(datasets, event.Dataset)

		logger.Info("Refresh event received",
			zap.String("message_id", msg.ID),
			zap.String("run_id", event.RunID.String()),
			zap.String("dataset", event.Dataset),
			zap.Int("count", event.Count))
	}

	for _, ds := range datasets {
		err := w.refresh(ctx, ds)
		w.metrics.StreamMessage(stream, err)
		if err != nil {
			logger.Error("Snapshot refresh failed, keeping previous snapshot",
				zap.String("dataset", ds),
				zap.Error(err))
		}
	}

	// ack всей пачки, включая неудачные обновления
	if err := w.streamRepo.AckMessages(ctx, stream, w.ConsumerGroup(), ids); err != nil {
		logger.Error("Failed to ack messages", zap.Error(err))
	}

	return len(messages), nil
}

func (w *SnapshotRefreshWorker) deleteConsumerGroup() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := w.streamRepo.DeleteConsumerGroup(ctx, domain.StreamFeaturesRefreshed, w.ConsumerGroup()); err != nil {
		w.Logger().Warn("Failed to delete consumer group", zap.String("consumer_group", w.ConsumerGroup()), zap.Error(err))
	}
}

func (w *SnapshotRefreshWorker) refresh(ctx context.Context, dataset string) error {
	var err error
	for attempt := 0; attempt <= w.maxRetries; attempt++ {
		if attempt > 0 && !w.Wait(ctx, retryBackoff*time.Duration(attempt)) {
			return err
		}
		var set *domain.FeatureSet
		set, err = w.refresher.Refresh(ctx, dataset, true)
		if err == nil {
			w.Logger().Info("Snapshot refreshed",
				zap.String("dataset", dataset),
				zap.Int("features", set.Len()),
				zap.Int("attempt", attempt+1))
			return nil
		}
	}
	return err
}
