package rules

import (
	"time"

	"github.com/hearthforge/hearth-engine-go/internal/game/entity"
)

// EventType indicates the category of a game event.
type EventType string

const (
	// Core gameplay events
	EventDamage   EventType = "DAMAGE"
	EventHeal     EventType = "HEAL"
	EventSummon   EventType = "SUMMON"
	EventDeath    EventType = "DEATH"
	EventPlayCard EventType = "PLAY_CARD"
	EventCombat   EventType = "COMBAT"

	// Turn events
	EventTurnStart EventType = "TURN_START"
	EventTurnEnd   EventType = "TURN_END"

	// Zone events
	EventZoneMove EventType = "ZONE_MOVE"

	// Special events
	EventTransform     EventType = "TRANSFORM"
	EventControlChange EventType = "CONTROL_CHANGE"
	EventAuraUpdate    EventType = "AURA_UPDATE"

	// Game lifecycle events
	EventGameStart EventType = "GAME_START"
	EventGameEnd   EventType = "GAME_END"
)

// Event is an ephemeral record of something that happened. Events are
// created, dispatched and discarded; the dispatcher backfills ID, Timestamp,
// ParentID and Depth on intake but nothing mutates an event after resolution.
type Event struct {
	Type      EventType
	ID        string
	ParentID  string // causal chain: the event whose trigger produced this one
	Depth     int    // resolution depth stamped by the dispatcher
	Source    *entity.Entity
	Targets   []*entity.Entity
	Amount    int // numeric value (damage, healing, counters, ...)
	Timestamp time.Time
	Data      map[string]any // free-form payload
}

// NewEvent creates an event with common fields populated.
func NewEvent(eventType EventType, source *entity.Entity, targets ...*entity.Entity) Event {
	return Event{
		Type:      eventType,
		Source:    source,
		Targets:   targets,
		Timestamp: time.Now(),
		Data:      make(map[string]any),
	}
}

// NewEventWithAmount creates an event carrying a numeric value.
func NewEventWithAmount(eventType EventType, source *entity.Entity, amount int, targets ...*entity.Entity) Event {
	evt := NewEvent(eventType, source, targets...)
	evt.Amount = amount
	return evt
}

// NewDamageEvent creates a DAMAGE event.
func NewDamageEvent(source, target *entity.Entity, amount int, spellDamage, combatDamage bool) Event {
	evt := NewEventWithAmount(EventDamage, source, amount, target)
	evt.Data["isSpellDamage"] = spellDamage
	evt.Data["isCombatDamage"] = combatDamage
	return evt
}

// NewHealEvent creates a HEAL event.
func NewHealEvent(source, target *entity.Entity, amount int) Event {
	return NewEventWithAmount(EventHeal, source, amount, target)
}

// NewSummonEvent creates a SUMMON event. played distinguishes playing a card
// from an effect putting a minion into play.
func NewSummonEvent(source, summoned *entity.Entity, played bool, position int) Event {
	evt := NewEvent(EventSummon, source, summoned)
	evt.Data["isPlayed"] = played
	evt.Data["position"] = position
	return evt
}

// NewDeathEvent creates a DEATH event.
func NewDeathEvent(source, dead *entity.Entity, destroyed bool) Event {
	evt := NewEvent(EventDeath, source, dead)
	evt.Data["wasDestroyed"] = destroyed
	return evt
}

// NewZoneMoveEvent creates a ZONE_MOVE event. The zone manager never emits
// these itself; callers that want a trigger-visible move dispatch one.
func NewZoneMoveEvent(moved *entity.Entity, from, to entity.Zone) Event {
	evt := NewEvent(EventZoneMove, moved, moved)
	evt.Data["fromZone"] = string(from)
	evt.Data["toZone"] = string(to)
	return evt
}

// NewTurnEvent creates a TURN_START or TURN_END event.
func NewTurnEvent(eventType EventType, gameEntity, player *entity.Entity, turn int) Event {
	evt := NewEvent(eventType, gameEntity, player)
	evt.Data["turn"] = turn
	return evt
}
