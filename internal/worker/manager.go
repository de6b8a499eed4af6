package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultShutdownTimeout - сколько ждать завершения воркеров при остановке
const DefaultShutdownTimeout = 30 * time.Second

// ErrNoWorkers - Start без зарегистрированных воркеров
var ErrNoWorkers = errors.New("no workers registered")

// WorkerManager запускает воркеры в отдельных горутинах и собирает их ошибки
type WorkerManager struct {
	logger          *zap.Logger
	shutdownTimeout time.Duration

	mu      sync.Mutex
	workers []Worker
	errs    []error
	wg      sync.WaitGroup
}

// NewWorkerManager создает новый WorkerManager. timeout <= 0 - DefaultShutdownTimeout.
func NewWorkerManager(logger *zap.Logger, timeout time.Duration) *WorkerManager {
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}
	return &WorkerManager{
		logger:          logger,
		shutdownTimeout: timeout,
	}
}

// Register регистрирует воркер
func (m *WorkerManager) Register(w Worker) {
	m.mu.Lock()
	m.workers = append(m.workers, w)
	m.mu.Unlock()

	m.logger.Info("Worker registered", zap.String("name", w.Name()))
}

func (m *WorkerManager) snapshot() []Worker {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Worker(nil), m.workers...)
}

// Start запускает все зарегистрированные воркеры и сразу возвращается
func (m *WorkerManager) Start(ctx context.Context) error {
	workers := m.snapshot()
	if len(workers) == 0 {
		return ErrNoWorkers
	}

	m.logger.Info("Starting workers", zap.Int("count", len(workers)))
	for _, w := range workers {
		m.wg.Add(1)
		go m.run(ctx, w)
	}
	return nil
}

func (m *WorkerManager) run(ctx context.Context, w Worker) {
	defer m.wg.Done()

	err := w.Start(ctx)
	if err == nil || errors.Is(err, context.Canceled) {
		m.logger.Info("Worker exited", zap.String("name", w.Name()))
		return
	}

	m.logger.Error("Worker failed", zap.String("name", w.Name()), zap.Error(err))
	m.mu.Lock()
	m.errs = append(m.errs, fmt.Errorf("%s: %w", w.Name(), err))
	m.mu.Unlock()
}

// Stop сигналит всем воркерам и ждёт их не дольше shutdownTimeout
func (m *WorkerManager) Stop() error {
	workers := m.snapshot()
	m.logger.Info("Stopping workers", zap.Int("count", len(workers)))

	for _, w := range workers {
		if err := w.Stop(); err != nil {
			m.logger.Error("Failed to stop worker", zap.String("name", w.Name()), zap.Error(err))
		}
	}

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	timer := time.NewTimer(m.shutdownTimeout)
	defer timer.Stop()

	select {
	case <-done:
		m.logger.Info("All workers stopped gracefully")
		return m.Err()
	case <-timer.C:
		m.logger.Warn("Workers shutdown timed out", zap.Duration("timeout", m.shutdownTimeout))
		return fmt.Errorf("workers shutdown timed out after %v", m.shutdownTimeout)
	}
}

// Err - ошибки, с которыми завершились воркеры
func (m *WorkerManager) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return errors.Join(m.errs...)
}
