package server

import (
	"encoding/json"
	"testing"
)

func TestBrokerPublishAndSendTo(t *testing.T) {
	b := NewBroker()

	ada := make(chan []byte, 4)
	bob := make(chan []byte, 4)
	subA := b.Subscribe("attic", "p-ada", ada)
	b.Subscribe("attic", "p-bob", bob)
	other := make(chan []byte, 4)
	b.Subscribe("cellar", "p-eve", other)

	b.Publish("attic", map[string]string{"type": "room_state"})
	for name, ch := range map[string]chan []byte{"ada": ada, "bob": bob} {
		select {
		case data := <-ch:
			var msg map[string]string
			json.Unmarshal(data, &msg)
			if msg["type"] != "room_state" {
				t.Errorf("%s got %v", name, msg)
			}
		default:
			t.Errorf("%s missed the broadcast", name)
		}
	}
	select {
	case <-other:
		t.Error("broadcast leaked into another room")
	default:
	}

	b.SendTo("attic", "p-ada", map[string]string{"type": "state_snapshot"})
	select {
	case <-ada:
	default:
		t.Error("direct send missed its target")
	}
	select {
	case <-bob:
		t.Error("direct send reached the wrong player")
	default:
	}

	b.Unsubscribe("attic", subA)
	b.Publish("attic", map[string]string{"type": "room_state"})
	select {
	case <-ada:
		t.Error("unsubscribed channel still receiving")
	default:
	}
}

func TestBrokerDropsWhenSubscriberSlow(t *testing.T) {
	b := NewBroker()
	full := make(chan []byte) // unbuffered, nobody reading
	b.Subscribe("attic", "p-1", full)

	done := make(chan struct{})
	go func() {
		b.Publish("attic", map[string]string{"type": "room_state"})
		close(done)
	}()
	<-done // Publish must not block on a slow subscriber
}
