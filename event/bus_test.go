package event

import "testing"

func TestPublishFansOutInOrder(t *testing.T) {
	bus := NewBus[int]()
	var got []string
	bus.Subscribe(func(v int) { got = append(got, "a") })
	bus.Subscribe(func(v int) { got = append(got, "b") })

	bus.Publish(1)

	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("got %v", got)
	}
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	bus := NewBus[string]()
	calls := 0
	sub := bus.Subscribe(func(string) { calls++ })
	other := bus.Subscribe(func(string) {})

	sub.Unsubscribe()
	sub.Unsubscribe()
	bus.Publish("x")

	if calls != 0 {
		t.Errorf("unsubscribed handler called %d times", calls)
	}
	if bus.Len() != 1 {
		t.Errorf("Len = %d, want 1", bus.Len())
	}
	other.Unsubscribe()
	if bus.Len() != 0 {
		t.Errorf("Len = %d, want 0", bus.Len())
	}
}

func TestHandlerMayUnsubscribeItself(t *testing.T) {
	bus := NewBus[int]()
	calls := 0
	var sub *Subscription
	sub = bus.Subscribe(func(int) {
		calls++
		sub.Unsubscribe()
	})

	bus.Publish(1)
	bus.Publish(2)

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestNilSubscription(t *testing.T) {
	var sub *Subscription
	sub.Unsubscribe()
}
