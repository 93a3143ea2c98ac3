package notifier

import (
	"NutriVision/internal/entity"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func newTestNotifier() INotifier {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return New(logger)
}

func waitForEvent(t *testing.T, ch <-chan entity.NotificationEvent, timeout time.Duration) entity.NotificationEvent {
	t.Helper()
	select {
	case ev, ok := <-ch:
		if !ok {
			t.Fatal("Subscription closed unexpectedly")
		}
		return ev
	case <-time.After(timeout):
		t.Fatal("Timed out waiting for notification event")
	}
	return entity.NotificationEvent{}
}

func TestDefaultDurations(t *testing.T) {
	n := newTestNotifier()
	defer n.Close()

	tests := []struct {
		item     entity.Notification
		kind     entity.NotificationKind
		duration time.Duration
	}{
		{n.Success("done"), entity.NotificationSuccess, SuccessDuration},
		{n.Error("failed"), entity.NotificationError, ErrorDuration},
		{n.Network("offline"), entity.NotificationNetwork, NetworkDuration},
	}

	for _, tt := range tests {
		if tt.item.Kind != tt.kind {
			t.Errorf("Expected kind %s, got %s", tt.kind, tt.item.Kind)
		}
		if tt.item.Duration != tt.duration.Milliseconds() {
			t.Errorf("Expected duration %d, got %d", tt.duration.Milliseconds(), tt.item.Duration)
		}
		if !tt.item.ExpiresAt.Equal(tt.item.CreatedAt.Add(tt.duration)) {
			t.Errorf("Unexpected expiry %v for %v", tt.item.ExpiresAt, tt.item.CreatedAt)
		}
	}

	if len(n.Active()) != 3 {
		t.Errorf("Expected 3 active notifications, got %d", len(n.Active()))
	}
}

func TestPublish_ExpiresAutomatically(t *testing.T) {
	n := newTestNotifier()
	defer n.Close()

	events, cancel := n.Subscribe()
	defer cancel()

	item := n.Publish(entity.NotificationError, "boom", 30*time.Millisecond)

	added := waitForEvent(t, events, time.Second)
	if added.Event != entity.NotificationAdded || added.Notification.ID != item.ID {
		t.Errorf("Expected added event for %s, got %+v", item.ID, added)
	}

	expired := waitForEvent(t, events, time.Second)
	if expired.Event != entity.NotificationExpired || expired.Notification.ID != item.ID {
		t.Errorf("Expected expired event for %s, got %+v", item.ID, expired)
	}

	if len(n.Active()) != 0 {
		t.Errorf("Expected no active notifications, got %d", len(n.Active()))
	}
}

func TestDismiss_DoesNotAffectOthers(t *testing.T) {
	n := newTestNotifier()
	defer n.Close()

	first := n.Publish(entity.NotificationSuccess, "first", time.Minute)
	second := n.Publish(entity.NotificationError, "second", time.Minute)
	third := n.Publish(entity.NotificationNetwork, "third", 0)

	if !n.Dismiss(second.ID) {
		t.Fatal("Expected dismiss to succeed")
	}
	if n.Dismiss(second.ID) {
		t.Error("Expected second dismiss of the same id to report false")
	}
	if n.Dismiss("unknown") {
		t.Error("Expected dismiss of unknown id to report false")
	}

	active := n.Active()
	if len(active) != 2 {
		t.Fatalf("Expected 2 active notifications, got %d", len(active))
	}
	if active[0].ID != first.ID || active[1].ID != third.ID {
		t.Errorf("Expected publish order [%s %s], got [%s %s]", first.ID, third.ID, active[0].ID, active[1].ID)
	}
}

func TestDismiss_StopsTimer(t *testing.T) {
	n := newTestNotifier()
	defer n.Close()

	short := n.Publish(entity.NotificationError, "short", 40*time.Millisecond)
	kept := n.Publish(entity.NotificationError, "kept", 80*time.Millisecond)

	events, cancel := n.Subscribe()
	defer cancel()

	n.Dismiss(short.ID)

	dismissed := waitForEvent(t, events, time.Second)
	if dismissed.Event != entity.NotificationDismissed || dismissed.Notification.ID != short.ID {
		t.Errorf("Expected dismissed event for %s, got %+v", short.ID, dismissed)
	}

	expired := waitForEvent(t, events, time.Second)
	if expired.Event != entity.NotificationExpired || expired.Notification.ID != kept.ID {
		t.Errorf("Expected only %s to expire, got %+v", kept.ID, expired)
	}

	select {
	case ev := <-events:
		t.Errorf("Unexpected event after dismissal: %+v", ev)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSubscribe_Cancel(t *testing.T) {
	n := newTestNotifier()
	defer n.Close()

	events, cancel := n.Subscribe()
	cancel()
	cancel()

	if _, ok := <-events; ok {
		t.Error("Expected channel to be closed after cancel")
	}

	n.Success("no subscribers")
}

func TestClose(t *testing.T) {
	n := newTestNotifier()
	events, _ := n.Subscribe()

	n.Publish(entity.NotificationError, "pending", 20*time.Millisecond)
	<-events

	n.Close()
	n.Close()

	if _, ok := <-events; ok {
		t.Error("Expected subscription to be closed")
	}
	if len(n.Active()) != 0 {
		t.Error("Expected no active notifications after close")
	}

	time.Sleep(50 * time.Millisecond)
	n.Success("after close")
	if len(n.Active()) != 0 {
		t.Error("Expected publish after close to be ignored")
	}

	late, _ := n.Subscribe()
	if _, ok := <-late; ok {
		t.Error("Expected subscription after close to be closed")
	}
}

func TestSubscribeWithSnapshot_NoDuplicates(t *testing.T) {
	n := newTestNotifier()
	defer n.Close()

	const total = 10
	published := make(chan string, total)
	start := make(chan struct{})
	go func() {
		<-start
		for i := 0; i < total; i++ {
			published <- n.Publish(entity.NotificationSuccess, "analysis", 0).ID
		}
		close(published)
	}()

	close(start)
	snapshot, events, cancel := n.SubscribeWithSnapshot()
	defer cancel()

	var all []string
	for id := range published {
		all = append(all, id)
	}

	seen := make(map[string]int)
	for _, item := range snapshot {
		seen[item.ID]++
	}
	for len(events) > 0 {
		ev := <-events
		if ev.Event == entity.NotificationAdded {
			seen[ev.Notification.ID]++
		}
	}

	for _, id := range all {
		if seen[id] != 1 {
			t.Errorf("Expected notification %s exactly once across snapshot and events, got %d", id, seen[id])
		}
	}
}

func TestSubscribeWithSnapshot_AfterClose(t *testing.T) {
	n := newTestNotifier()
	n.Close()

	snapshot, events, _ := n.SubscribeWithSnapshot()
	if len(snapshot) != 0 {
		t.Errorf("Expected empty snapshot, got %d", len(snapshot))
	}
	if _, ok := <-events; ok {
		t.Error("Expected closed channel after Close")
	}
}
