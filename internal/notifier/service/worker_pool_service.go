package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/givebridge-donation-platform/internal/domain/shared"
	"github.com/panjf2000/ants/v2"
)

// WorkerPoolDeliveryService implements the DeliveryService interface by
// fanning deliveries out to a bounded worker pool
type WorkerPoolDeliveryService struct {
	baseService DeliveryService
	pool        *ants.Pool
	logger      *slog.Logger
	// Use a mutex to protect access to the results map
	mu      sync.Mutex
	results map[string]chan error
}

type WorkerPoolConfig struct {
	Size int
}

func NewWorkerPoolDeliveryService(
	baseService DeliveryService,
	config WorkerPoolConfig,
	logger *slog.Logger,
) (*WorkerPoolDeliveryService, error) {
	// Create a new worker pool with the specified size
	pool, err := ants.NewPool(config.Size)
	if err != nil {
		return nil, err
	}

	return &WorkerPoolDeliveryService{
		baseService: baseService,
		pool:        pool,
		logger:      logger,
		results:     make(map[string]chan error),
	}, nil
}

// Deliver submits a notification to the worker pool for delivery.
func (s *WorkerPoolDeliveryService) Deliver(ctx context.Context, notification *shared.Notification) error {
	logger := s.logger
	if notification.CorrelationID != "" {
		logger = s.logger.With("correlation_id", notification.CorrelationID)
	}

	logger.Info("Submitting notification to worker pool",
		"notification_id", notification.ID.String(),
		"user_id", notification.UserID.String(),
	)

	// Create a channel to receive the result of the delivery
	resultChan := make(chan error, 1)

	// Store the result channel in the result map
	notificationID := notification.ID.String()
	s.mu.Lock()
	s.results[notificationID] = resultChan
	s.mu.Unlock()

	// Create a copy of the notification to avoid data races
	notificationCopy := *notification

	// Submit the task to the worker pool
	err := s.pool.Submit(func() {
		// Deliver the notification using the base service
		err := s.baseService.Deliver(ctx, &notificationCopy)

		// Send the result to the channel
		resultChan <- err

		// Remove the result channel from the map
		s.mu.Lock()
		delete(s.results, notificationID)
		close(resultChan)
		s.mu.Unlock()
	})

	if err != nil {
		// If we couldn't submit the task to the pool, remove the result channel
		s.mu.Lock()
		delete(s.results, notificationID)
		close(resultChan)
		s.mu.Unlock()

		logger.Error("Failed to submit notification to worker pool",
			"notification_id", notification.ID.String(),
			"error", err,
		)
		return err
	}

	// Wait for the result from the worker
	return <-resultChan
}

// Shutdown gracefully shuts down the worker pool.
func (s *WorkerPoolDeliveryService) Shutdown() {
	s.logger.Info("Shutting down worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}

// Running returns the number of running workers in the pool.
func (s *WorkerPoolDeliveryService) Running() int {
	return s.pool.Running()
}

// Capacity returns the capacity of the worker pool.
func (s *WorkerPoolDeliveryService) Capacity() int {
	return s.pool.Cap()
}
