package rules

import "sync"

// Listener is a callback that receives resolved events.
type Listener func(Event)

type busListener struct {
	handle    int
	eventType EventType // empty for catch-all
	once      bool
	callback  Listener
}

// EventBus is the observer surface of the dispatcher: external subscribers
// receive each event once, after its triggers have resolved. Subscriptions
// can be per event type, catch-all, or one-shot.
type EventBus struct {
	mu             sync.Mutex
	listeners      map[int]busListener
	typedListeners map[EventType][]int
	catchAll       []int
	nextHandle     int
}

// NewEventBus constructs a fresh event bus.
func NewEventBus() *EventBus {
	return &EventBus{
		listeners:      make(map[int]busListener),
		typedListeners: make(map[EventType][]int),
	}
}

// Subscribe registers a catch-all listener and returns its handle.
func (bus *EventBus) Subscribe(listener Listener) int {
	return bus.add(busListener{callback: listener})
}

// SubscribeTyped registers a listener for a specific event type.
func (bus *EventBus) SubscribeTyped(eventType EventType, listener Listener) int {
	return bus.add(busListener{eventType: eventType, callback: listener})
}

// SubscribeOnce registers a listener that is removed after its first
// delivery. An empty event type makes it a catch-all one-shot.
func (bus *EventBus) SubscribeOnce(eventType EventType, listener Listener) int {
	return bus.add(busListener{eventType: eventType, once: true, callback: listener})
}

func (bus *EventBus) add(l busListener) int {
	if l.callback == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	l.handle = bus.nextHandle
	bus.nextHandle++
	bus.listeners[l.handle] = l
	if l.eventType == "" {
		bus.catchAll = append(bus.catchAll, l.handle)
	} else {
		bus.typedListeners[l.eventType] = append(bus.typedListeners[l.eventType], l.handle)
	}
	return l.handle
}

// Unsubscribe removes the listener identified by the handle.
func (bus *EventBus) Unsubscribe(handle int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.remove(handle)
}

// remove expects the lock to be held.
func (bus *EventBus) remove(handle int) {
	l, ok := bus.listeners[handle]
	if !ok {
		return
	}
	delete(bus.listeners, handle)
	if l.eventType == "" {
		bus.catchAll = removeHandle(bus.catchAll, handle)
	} else {
		bus.typedListeners[l.eventType] = removeHandle(bus.typedListeners[l.eventType], handle)
	}
}

func removeHandle(handles []int, handle int) []int {
	for i, h := range handles {
		if h == handle {
			return append(handles[:i], handles[i+1:]...)
		}
	}
	return handles
}

// Publish delivers the event to typed then catch-all listeners. One-shot
// listeners are removed before their callback runs, so a callback may safely
// re-subscribe. Callbacks run without the bus lock held and may subscribe or
// unsubscribe reentrantly.
func (bus *EventBus) Publish(event Event) {
	bus.mu.Lock()
	delivered := append([]int(nil), bus.typedListeners[event.Type]...)
	delivered = append(delivered, bus.catchAll...)

	callbacks := make([]Listener, 0, len(delivered))
	for _, handle := range delivered {
		callbacks = append(callbacks, bus.listeners[handle].callback)
	}
	for _, handle := range delivered {
		if bus.listeners[handle].once {
			bus.remove(handle)
		}
	}
	bus.mu.Unlock()

	for _, cb := range callbacks {
		cb(event)
	}
}

// ListenerCount returns the number of registered listeners.
func (bus *EventBus) ListenerCount() int {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	return len(bus.listeners)
}
