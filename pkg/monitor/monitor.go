package monitor

import (
	"NutriVision/internal/entity"
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const DefaultInterval = 30 * time.Second

type HealthChecker interface {
	CheckConnection(ctx context.Context) bool
}

type IMonitor interface {
	Start(ctx context.Context)
	Stop()
	CheckNow(ctx context.Context) entity.ConnectionStatus
	Status() entity.ConnectionStatus
}

type monitor struct {
	checker  HealthChecker
	interval time.Duration
	onChange func(reachable bool)
	log      *logrus.Logger

	mu     sync.Mutex
	status entity.ConnectionStatus
	cancel context.CancelFunc
	done   chan struct{}

	checkMu sync.Mutex
}

// New builds a monitor that polls checker every interval once started.
// onChange runs after the first check and on every reachability flip.
func New(checker HealthChecker, interval time.Duration, onChange func(reachable bool), log *logrus.Logger) IMonitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &monitor{
		checker:  checker,
		interval: interval,
		onChange: onChange,
		log:      log,
	}
}

func (m *monitor) Start(ctx context.Context) {
	m.mu.Lock()
	if m.cancel != nil {
		m.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})
	done := m.done
	m.mu.Unlock()

	go m.run(ctx, done)
}

func (m *monitor) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.CheckNow(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.CheckNow(ctx)
		}
	}
}

// Stop cancels polling and waits for the loop to exit. It is safe to call
// more than once and before Start.
func (m *monitor) Stop() {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel, m.done = nil, nil
	m.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (m *monitor) CheckNow(ctx context.Context) entity.ConnectionStatus {
	m.checkMu.Lock()
	defer m.checkMu.Unlock()

	if ctx.Err() != nil {
		return m.Status()
	}

	m.mu.Lock()
	m.status.Checking = true
	m.mu.Unlock()

	reachable := m.checker.CheckConnection(ctx)

	if ctx.Err() != nil && !reachable {
		m.mu.Lock()
		m.status.Checking = false
		status := m.status
		m.mu.Unlock()
		return status
	}

	m.mu.Lock()
	previous := m.status.Reachable
	m.status.Reachable = &reachable
	m.status.Checking = false
	m.status.LastChecked = time.Now()
	status := m.status
	m.mu.Unlock()

	changed := previous == nil || *previous != reachable
	if changed {
		m.log.WithField("reachable", reachable).Info("Detection backend connectivity changed")

		if m.onChange != nil {
			m.onChange(reachable)
		}
	}

	return status
}

func (m *monitor) Status() entity.ConnectionStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	status := m.status
	if status.Reachable != nil {
		reachable := *status.Reachable
		status.Reachable = &reachable
	}
	return status
}
