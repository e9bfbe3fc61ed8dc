package rules

import (
	"github.com/google/uuid"

	"github.com/hearthforge/hearth-engine-go/internal/game/entity"
)

// Priority orders trigger execution for one event; lower fires first.
type Priority int

const (
	PriorityHigh   Priority = 1
	PriorityNormal Priority = 2
	PriorityLow    Priority = 3
	PriorityLowest Priority = 4
)

// Handler resolves an event on behalf of a trigger, optionally producing
// follow-up events that the dispatcher queues nested-first.
type Handler interface {
	Resolve(Event) []Event
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(Event) []Event

// Resolve implements Handler.
func (f HandlerFunc) Resolve(event Event) []Event {
	return f(event)
}

// TriggerConfig describes a trigger registration.
type TriggerConfig struct {
	Owner     *entity.Entity
	EventType EventType
	Handler   Handler
	Condition func(Event) bool // optional predicate over the event
	Priority  Priority         // zero value defaults to PriorityNormal
	OneShot   bool             // disable after the first fire
	MaxFires  int              // 0 = unlimited; exhausting disables, not destroys
}

// Trigger is a standing registration that reacts to one event type. It stays
// registered until unregistered; exhausting its fire budget only disables it.
// Destroying a trigger when its owner leaves play is the card layer's job,
// not the dispatcher's.
type Trigger struct {
	id        string
	owner     *entity.Entity
	eventType EventType
	condition func(Event) bool
	handler   Handler
	priority  Priority
	oneShot   bool
	maxFires  int
	enabled   bool
	fireCount int
}

// NewTrigger constructs a trigger from its config. The id is assigned here so
// triggers can be unregistered by identity.
func NewTrigger(cfg TriggerConfig) *Trigger {
	priority := cfg.Priority
	if priority == 0 {
		priority = PriorityNormal
	}
	return &Trigger{
		id:        uuid.NewString(),
		owner:     cfg.Owner,
		eventType: cfg.EventType,
		condition: cfg.Condition,
		handler:   cfg.Handler,
		priority:  priority,
		oneShot:   cfg.OneShot,
		maxFires:  cfg.MaxFires,
		enabled:   true,
	}
}

// ID returns the trigger's unique id.
func (t *Trigger) ID() string { return t.id }

// Owner returns the entity this trigger belongs to.
func (t *Trigger) Owner() *entity.Entity { return t.owner }

// EventType returns the single event type this trigger listens for.
func (t *Trigger) EventType() EventType { return t.eventType }

// Priority returns the trigger's priority tier.
func (t *Trigger) Priority() Priority { return t.priority }

// Enabled reports whether the trigger may fire.
func (t *Trigger) Enabled() bool { return t.enabled }

// FireCount returns how many times the trigger has fired.
func (t *Trigger) FireCount() int { return t.fireCount }

// Enable allows the trigger to fire again.
func (t *Trigger) Enable() { t.enabled = true }

// Disable stops the trigger from firing without unregistering it.
func (t *Trigger) Disable() { t.enabled = false }

// Reset clears the fire counter and re-enables the trigger.
func (t *Trigger) Reset() {
	t.fireCount = 0
	t.enabled = true
}

// eligible re-checks firing conditions at fire time: an earlier trigger in
// the same batch may have disabled this one after it was sorted.
func (t *Trigger) eligible(event Event) bool {
	if !t.enabled {
		return false
	}
	if t.eventType != event.Type {
		return false
	}
	if t.maxFires > 0 && t.fireCount >= t.maxFires {
		return false
	}
	if t.condition != nil && !t.condition(event) {
		return false
	}
	return true
}

// fire increments the counter, applies one-shot/budget auto-disable, and
// invokes the handler.
func (t *Trigger) fire(event Event) []Event {
	t.fireCount++
	if t.oneShot || (t.maxFires > 0 && t.fireCount >= t.maxFires) {
		t.enabled = false
	}
	if t.handler == nil {
		return nil
	}
	return t.handler.Resolve(event)
}

// zoneRank orders trigger owners for tie-breaking: board and secret effects
// resolve before hand effects, which resolve before deck effects.
func zoneRank(owner *entity.Entity) int {
	if owner == nil {
		return 4
	}
	switch owner.Zone {
	case entity.ZonePlay, entity.ZoneSecret:
		return 1
	case entity.ZoneHand:
		return 2
	case entity.ZoneDeck:
		return 3
	default:
		return 4
	}
}

// ownerID is the final tie-break key: ascending entity id approximates
// creation order.
func ownerID(owner *entity.Entity) entity.ID {
	if owner == nil {
		return 0
	}
	return owner.ID
}
