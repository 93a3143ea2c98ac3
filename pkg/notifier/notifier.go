// Package notifier keeps the short-lived user notifications shown by the
// result view. Every notification owns its own timer so dismissing one never
// affects the others.
package notifier

import (
	"NutriVision/internal/entity"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	SuccessDuration = 4 * time.Second
	ErrorDuration   = 6 * time.Second
	NetworkDuration = 7 * time.Second

	subscriberBuffer = 16
)

type INotifier interface {
	Publish(kind entity.NotificationKind, message string, duration time.Duration) entity.Notification
	Success(message string) entity.Notification
	Error(message string) entity.Notification
	Network(message string) entity.Notification
	Dismiss(id string) bool
	Active() []entity.Notification
	Subscribe() (<-chan entity.NotificationEvent, func())
	SubscribeWithSnapshot() ([]entity.Notification, <-chan entity.NotificationEvent, func())
	Close()
}

type pending struct {
	notification entity.Notification
	timer        *time.Timer
}

type notifier struct {
	mu          sync.Mutex
	pending     map[string]*pending
	order       []string
	subscribers map[chan entity.NotificationEvent]struct{}
	closed      bool
	now         func() time.Time
	log         *logrus.Logger
}

func New(log *logrus.Logger) INotifier {
	return &notifier{
		pending:     make(map[string]*pending),
		subscribers: make(map[chan entity.NotificationEvent]struct{}),
		now:         time.Now,
		log:         log,
	}
}

func (n *notifier) Success(message string) entity.Notification {
	return n.Publish(entity.NotificationSuccess, message, SuccessDuration)
}

func (n *notifier) Error(message string) entity.Notification {
	return n.Publish(entity.NotificationError, message, ErrorDuration)
}

func (n *notifier) Network(message string) entity.Notification {
	return n.Publish(entity.NotificationNetwork, message, NetworkDuration)
}

// Publish adds a notification that expires after duration. A duration of
// zero or less keeps it until it is dismissed.
func (n *notifier) Publish(kind entity.NotificationKind, message string, duration time.Duration) entity.Notification {
	created := n.now()
	item := entity.Notification{
		ID:        uuid.NewString(),
		Kind:      kind,
		Message:   message,
		Duration:  duration.Milliseconds(),
		CreatedAt: created,
	}
	if duration > 0 {
		item.ExpiresAt = created.Add(duration)
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return item
	}

	p := &pending{notification: item}
	if duration > 0 {
		id := item.ID
		p.timer = time.AfterFunc(duration, func() { n.expire(id) })
	}
	n.pending[item.ID] = p
	n.order = append(n.order, item.ID)

	n.log.WithFields(logrus.Fields{
		"notification_id": item.ID,
		"type":            kind,
		"duration_ms":     item.Duration,
	}).Debug("Notification published")

	n.broadcastLocked(entity.NotificationEvent{Event: entity.NotificationAdded, Notification: item})
	return item
}

func (n *notifier) Dismiss(id string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	p, ok := n.removeLocked(id)
	if !ok {
		return false
	}
	if p.timer != nil {
		p.timer.Stop()
	}

	n.broadcastLocked(entity.NotificationEvent{Event: entity.NotificationDismissed, Notification: p.notification})
	return true
}

func (n *notifier) expire(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	p, ok := n.removeLocked(id)
	if !ok {
		return
	}

	n.broadcastLocked(entity.NotificationEvent{Event: entity.NotificationExpired, Notification: p.notification})
}

func (n *notifier) Active() []entity.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.activeLocked()
}

func (n *notifier) activeLocked() []entity.Notification {
	active := make([]entity.Notification, 0, len(n.order))
	for _, id := range n.order {
		active = append(active, n.pending[id].notification)
	}
	return active
}

// Subscribe streams notification events until the returned cancel func is
// called or the notifier is closed. Events are dropped for subscribers that
// fall behind.
func (n *notifier) Subscribe() (<-chan entity.NotificationEvent, func()) {
	_, ch, cancel := n.SubscribeWithSnapshot()
	return ch, cancel
}

// SubscribeWithSnapshot is Subscribe plus the pending notifications at the
// moment of subscribing. Anything in the snapshot is never repeated as an
// added event on the channel.
func (n *notifier) SubscribeWithSnapshot() ([]entity.Notification, <-chan entity.NotificationEvent, func()) {
	ch := make(chan entity.NotificationEvent, subscriberBuffer)

	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		close(ch)
		return []entity.Notification{}, ch, func() {}
	}
	snapshot := n.activeLocked()
	n.subscribers[ch] = struct{}{}
	n.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			if _, ok := n.subscribers[ch]; ok {
				delete(n.subscribers, ch)
				close(ch)
			}
		})
	}
	return snapshot, ch, cancel
}

func (n *notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return
	}
	n.closed = true

	for _, p := range n.pending {
		if p.timer != nil {
			p.timer.Stop()
		}
	}
	n.pending = make(map[string]*pending)
	n.order = nil

	for ch := range n.subscribers {
		close(ch)
	}
	n.subscribers = make(map[chan entity.NotificationEvent]struct{})
}

func (n *notifier) removeLocked(id string) (*pending, bool) {
	p, ok := n.pending[id]
	if !ok {
		return nil, false
	}
	delete(n.pending, id)

	for i, existing := range n.order {
		if existing == id {
			n.order = append(n.order[:i], n.order[i+1:]...)
			break
		}
	}
	return p, true
}

func (n *notifier) broadcastLocked(event entity.NotificationEvent) {
	for ch := range n.subscribers {
		select {
		case ch <- event:
		default:
			n.log.WithField("event", event.Event).Warn("Dropping notification event for slow subscriber")
		}
	}
}
