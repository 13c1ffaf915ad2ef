package update

import (
	"sync"
	"testing"
	"time"

	"github.com/boyuanitsm/fort/models"
)

func testApp(key string) *models.SecurityApp {
	return &models.SecurityApp{ID: 1, AppName: "demo", AppKey: key}
}

// receive pops one event or fails the test after a short wait
func receive(t *testing.T, sub *Subscription) Event {
	t.Helper()
	select {
	case event, ok := <-sub.C():
		if !ok {
			t.Fatal("subscription channel closed unexpectedly")
		}
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

func TestHub_SendRoutesByAppKey(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	subA := hub.Subscribe("app-a", 4)
	subB := hub.Subscribe("app-b", 4)

	hub.Send(OperationPost, KindSecurityGroup, testApp("app-a"))

	event := receive(t, subA)
	if event.AppKey != "app-a" {
		t.Errorf("expected appKey 'app-a', got %q", event.AppKey)
	}
	if event.Operation != OperationPost {
		t.Errorf("expected operation POST, got %q", event.Operation)
	}
	if event.Kind != KindSecurityGroup {
		t.Errorf("expected kind SECURITY_GROUP, got %q", event.Kind)
	}

	select {
	case event := <-subB.C():
		t.Errorf("subscriber of another app received event %v", event.ID)
	default:
	}
}

func TestHub_WildcardReceivesEveryApp(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	wildcard := hub.Subscribe("", 4)

	hub.Send(OperationPost, KindSecurityRole, testApp("app-a"))
	hub.Send(OperationPut, KindSecurityRole, testApp("app-b"))

	first := receive(t, wildcard)
	second := receive(t, wildcard)
	if first.AppKey != "app-a" || second.AppKey != "app-b" {
		t.Errorf("wildcard got appKeys %q, %q", first.AppKey, second.AppKey)
	}
}

func TestHub_FanOutToAllSubscribersOfOneApp(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	subs := []*Subscription{
		hub.Subscribe("app-a", 4),
		hub.Subscribe("app-a", 4),
		hub.Subscribe("", 4),
	}

	hub.Send(OperationDelete, KindSecurityUser, Tombstone{ID: 7, AppKey: "app-a"})

	for i, sub := range subs {
		event := receive(t, sub)
		if event.Operation != OperationDelete {
			t.Errorf("subscriber %d: expected DELETE, got %q", i, event.Operation)
		}
		tombstone, ok := event.Data.(Tombstone)
		if !ok {
			t.Fatalf("subscriber %d: expected Tombstone payload, got %T", i, event.Data)
		}
		if tombstone.ID != 7 {
			t.Errorf("subscriber %d: expected tombstone id 7, got %d", i, tombstone.ID)
		}
	}
}

func TestHub_DropsEventWithoutAppKey(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	wildcard := hub.Subscribe("", 4)

	// An entity whose App association was never loaded has no appKey.
	hub.Send(OperationPost, KindSecurityGroup, &models.SecurityGroup{ID: 1, Name: "admins"})
	hub.Send(OperationPost, KindSecurityGroup, nil)

	select {
	case event := <-wildcard.C():
		t.Errorf("unexpectedly received event %v", event.ID)
	default:
	}
}

func TestHub_FullBufferDropsForThatSubscriberOnly(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	slow := hub.Subscribe("app-a", 1)
	fast := hub.Subscribe("app-a", 8)

	for i := 0; i < 3; i++ {
		hub.Send(OperationPut, KindSecurityNav, testApp("app-a"))
	}

	if got := len(slow.C()); got != 1 {
		t.Errorf("slow subscriber should hold exactly its buffer, got %d", got)
	}
	if got := len(fast.C()); got != 3 {
		t.Errorf("fast subscriber should hold all 3 events, got %d", got)
	}
}

func TestHub_Unsubscribe(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	sub := hub.Subscribe("app-a", 4)
	if count := hub.SubscriberCount("app-a"); count != 1 {
		t.Fatalf("expected 1 subscriber, got %d", count)
	}

	hub.Unsubscribe(sub)
	if count := hub.SubscriberCount("app-a"); count != 0 {
		t.Errorf("expected 0 subscribers after unsubscribe, got %d", count)
	}
	if _, ok := <-sub.C(); ok {
		t.Error("channel should be closed after unsubscribe")
	}

	// Safe to call twice.
	hub.Unsubscribe(sub)

	hub.Send(OperationPost, KindSecurityGroup, testApp("app-a"))
}

func TestHub_CloseRejectsNewSubscribers(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe("app-a", 4)

	hub.Close()
	hub.Close() // idempotent

	if _, ok := <-sub.C(); ok {
		t.Error("channel should be closed after hub close")
	}

	late := hub.Subscribe("app-a", 4)
	if _, ok := <-late.C(); ok {
		t.Error("subscribe after close should return a closed subscription")
	}

	// Send on a closed hub must not panic.
	hub.Send(OperationPost, KindSecurityGroup, testApp("app-a"))
}

func TestHub_ConcurrentSendAndSubscribe(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				hub.Send(OperationPost, KindSecurityResourceEntity, testApp("app-a"))
			}
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			sub := hub.Subscribe("app-a", 2)
			hub.Unsubscribe(sub)
		}()
	}
	wg.Wait()
}

func TestEvent_Type(t *testing.T) {
	tests := []struct {
		op       Operation
		kind     ResourceKind
		expected string
	}{
		{OperationPost, KindSecurityApp, "fort.resource.security_app.post"},
		{OperationPut, KindSecurityRole, "fort.resource.security_role.put"},
		{OperationDelete, KindSecurityResourceEntity, "fort.resource.security_resource_entity.delete"},
	}

	for _, tt := range tests {
		event := NewEvent(tt.op, tt.kind, "app-a", nil)
		if got := event.Type(); got != tt.expected {
			t.Errorf("Type() = %q, expected %q", got, tt.expected)
		}
		if event.ID == "" {
			t.Error("event should carry a generated id")
		}
	}
}
