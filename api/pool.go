package api

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"actividad-api/domain"
)

// EventSenderConfig tunes the change event worker pool.
type EventSenderConfig struct {
	Workers        int
	Buffer         int
	PublishTimeout time.Duration
	HandoffTimeout time.Duration
}

// EventSenderConfigFromEnv reads EVENT_WORKERS, EVENT_BUFFER, EVENT_TIMEOUT
// and EVENT_HANDOFF_TIMEOUT.
func EventSenderConfigFromEnv() EventSenderConfig {
	return EventSenderConfig{
		Workers:        envInt("EVENT_WORKERS", 4),
		Buffer:         envInt("EVENT_BUFFER", 1024),
		PublishTimeout: envDur("EVENT_TIMEOUT", 30*time.Second),
		HandoffTimeout: envDur("EVENT_HANDOFF_TIMEOUT", 5*time.Millisecond),
	}
}

// EventSender delivers change events to a publisher from a fixed set of workers.
// Submit never blocks longer than the handoff timeout.
type EventSender struct {
	publisher EventPublisher
	logger    *log.Logger
	cfg       EventSenderConfig

	mu       sync.RWMutex
	jobs     chan domain.ChangeEvent
	closed   bool
	workerWG sync.WaitGroup
}

// NewEventSender starts the workers.
func NewEventSender(publisher EventPublisher, logger *log.Logger, cfg EventSenderConfig) *EventSender {
	if publisher == nil {
		panic("api.NewEventSender: publisher is nil")
	}
	if logger == nil {
		panic("Logger is not initialized")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Buffer < 0 {
		cfg.Buffer = 0
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = 30 * time.Second
	}

	s := &EventSender{
		publisher: publisher,
		logger:    logger,
		cfg:       cfg,
		jobs:      make(chan domain.ChangeEvent, cfg.Buffer),
	}
	for i := 0; i < cfg.Workers; i++ {
		s.workerWG.Add(1)
		go s.worker(i)
	}
	logger.Infof("event sender started, workers: %d, buffer: %d, timeout: %v, handoff: %v", cfg.Workers, cfg.Buffer, cfg.PublishTimeout, cfg.HandoffTimeout)
	return s
}

func (s *EventSender) worker(id int) {
	defer s.workerWG.Done()
	for ev := range s.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.PublishTimeout)
		err := s.publisher.PublishEvents(ctx, []domain.ChangeEvent{ev})
		cancel()

		if err != nil {
			s.logger.WithFields(log.Fields{
				"event":  ev.ID,
				"type":   ev.Type,
				"worker": id,
			}).Errorf("publish failed: %v", err)
		}
	}
}

// Submit queues ev for delivery. It returns false when the pool is saturated
// past the handoff timeout or already closed.
func (s *EventSender) Submit(ev domain.ChangeEvent) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false
	}

	select {
	case s.jobs <- ev:
		return true
	default:
	}

	if s.cfg.HandoffTimeout <= 0 {
		return false
	}
	timer := time.NewTimer(s.cfg.HandoffTimeout)
	defer timer.Stop()

	select {
	case s.jobs <- ev:
		return true
	case <-timer.C:
		return false
	}
}

// Close stops accepting events and waits for queued ones to be delivered.
func (s *EventSender) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.jobs)
	s.mu.Unlock()

	s.workerWG.Wait()
}
