package ecs

import "reflect"

// SubscriptionID identifies a single subscription for later Unsubscribe.
type SubscriptionID uint64

type subscriber struct {
	id      SubscriptionID
	handler func(any)
}

// EventBus is a typed, synchronous pub/sub used for cross-system
// communication within one tick. Publish dispatches immediately to every
// current subscriber of that event's concrete type; nothing is queued
// across a tick boundary unless a subscriber stores the event itself.
type EventBus struct {
	nextID SubscriptionID
	subs   map[reflect.Type][]subscriber
}

// NewEventBus returns an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subs: make(map[reflect.Type][]subscriber)}
}

// Subscribe registers handler for events of type T and returns an id
// that can be passed to Unsubscribe.
func Subscribe[T any](b *EventBus, handler func(T)) SubscriptionID {
	b.nextID++
	id := b.nextID
	t := reflect.TypeOf((*T)(nil)).Elem()
	b.subs[t] = append(b.subs[t], subscriber{
		id: id,
		handler: func(v any) {
			handler(v.(T))
		},
	})
	return id
}

// Unsubscribe removes a previously registered subscription. Safe to call
// with an id that is no longer registered.
func (b *EventBus) Unsubscribe(id SubscriptionID) {
	for t, list := range b.subs {
		for i, s := range list {
			if s.id == id {
				b.subs[t] = append(list[:i], list[i+1:]...)
				return
			}
		}
	}
}

// Publish dispatches event to every subscriber registered for its
// concrete type, synchronously, in subscription order.
func Publish[T any](b *EventBus, event T) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	for _, s := range b.subs[t] {
		s.handler(event)
	}
}
