package event

import (
	"errors"
	"testing"
)

func TestSubscribe(t *testing.T) {
	t.Run("UnknownEventRejected", func(t *testing.T) {
		b := NewBus()

		_, err := b.Subscribe(Name("nonsense"), func(any) {})
		if !errors.Is(err, ErrUnknownEvent) {
			t.Errorf("Subscribe() error = %v, want ErrUnknownEvent", err)
		}
	})

	t.Run("DuplicatesFireIndependently", func(t *testing.T) {
		b := NewBus()

		calls := 0
		fn := func(any) { calls++ }

		if _, err := b.Subscribe(GameStateUpdate, fn); err != nil {
			t.Fatalf("Subscribe() error = %v", err)
		}
		if _, err := b.Subscribe(GameStateUpdate, fn); err != nil {
			t.Fatalf("Subscribe() error = %v", err)
		}

		if err := b.Publish(GameStateUpdate, nil); err != nil {
			t.Fatalf("Publish() error = %v", err)
		}
		if calls != 2 {
			t.Errorf("handler fired %d times, want 2", calls)
		}
	})
}

func TestPublish(t *testing.T) {
	t.Run("RegistrationOrder", func(t *testing.T) {
		b := NewBus()

		var order []int
		for i := 1; i <= 3; i++ {
			i := i
			if _, err := b.Subscribe(Connect, func(any) { order = append(order, i) }); err != nil {
				t.Fatalf("Subscribe() error = %v", err)
			}
		}

		if err := b.Publish(Connect, nil); err != nil {
			t.Fatalf("Publish() error = %v", err)
		}

		if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
			t.Errorf("handlers fired in order %v, want [1 2 3]", order)
		}
	})

	t.Run("PayloadDelivered", func(t *testing.T) {
		b := NewBus()

		payload := map[string]any{"players": map[string]any{"a": 1, "b": 2}}
		var got any
		calls := 0
		if _, err := b.Subscribe(GameStateUpdate, func(data any) {
			got = data
			calls++
		}); err != nil {
			t.Fatalf("Subscribe() error = %v", err)
		}

		if err := b.Publish(GameStateUpdate, payload); err != nil {
			t.Fatalf("Publish() error = %v", err)
		}

		if calls != 1 {
			t.Errorf("handler fired %d times, want 1", calls)
		}
		gotMap, ok := got.(map[string]any)
		if !ok {
			t.Fatalf("handler received %T, want map", got)
		}
		if _, ok := gotMap["players"]; !ok {
			t.Error("handler payload missing players key")
		}
	})

	t.Run("PanickingHandlerIsolated", func(t *testing.T) {
		b := NewBus()

		var after bool
		if _, err := b.Subscribe(PlayerDeath, func(any) { panic("boom") }); err != nil {
			t.Fatalf("Subscribe() error = %v", err)
		}
		if _, err := b.Subscribe(PlayerDeath, func(any) { after = true }); err != nil {
			t.Fatalf("Subscribe() error = %v", err)
		}

		if err := b.Publish(PlayerDeath, nil); err != nil {
			t.Fatalf("Publish() error = %v", err)
		}
		if !after {
			t.Error("handler after a panicking handler did not run")
		}
	})

	t.Run("UnknownEventRejected", func(t *testing.T) {
		b := NewBus()

		err := b.Publish(Name("nonsense"), nil)
		if !errors.Is(err, ErrUnknownEvent) {
			t.Errorf("Publish() error = %v, want ErrUnknownEvent", err)
		}
	})
}

func TestUnsubscribe(t *testing.T) {
	t.Run("RemovesByIdentity", func(t *testing.T) {
		b := NewBus()

		var first, second int
		id1, _ := b.Subscribe(Disconnect, func(any) { first++ })
		_, _ = b.Subscribe(Disconnect, func(any) { second++ })

		b.Unsubscribe(Disconnect, id1)

		if err := b.Publish(Disconnect, nil); err != nil {
			t.Fatalf("Publish() error = %v", err)
		}
		if first != 0 {
			t.Errorf("unsubscribed handler fired %d times", first)
		}
		if second != 1 {
			t.Errorf("remaining handler fired %d times, want 1", second)
		}
	})

	t.Run("AbsentIDNoOp", func(t *testing.T) {
		b := NewBus()
		b.Unsubscribe(Disconnect, HandlerID(42)) // must not panic
	})

	t.Run("RemovesOneDuplicateOnly", func(t *testing.T) {
		b := NewBus()

		calls := 0
		fn := func(any) { calls++ }
		id1, _ := b.Subscribe(Connect, fn)
		_, _ = b.Subscribe(Connect, fn)

		b.Unsubscribe(Connect, id1)

		if err := b.Publish(Connect, nil); err != nil {
			t.Fatalf("Publish() error = %v", err)
		}
		if calls != 1 {
			t.Errorf("handler fired %d times, want 1", calls)
		}
	})
}
