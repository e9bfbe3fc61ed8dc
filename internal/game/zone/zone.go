// Package zone derives zone membership from entity state. There is no
// separately maintained index: a zone is exactly the set of entities whose
// own fields say they are in it, so the view can never drift from the store.
package zone

import (
	"sort"

	"go.uber.org/zap"

	"github.com/hearthforge/hearth-engine-go/internal/game/entity"
)

// MoveResult reports the outcome of a zone move.
type MoveResult int

const (
	MoveSuccess MoveResult = iota
	MoveBlocked
)

// Policy decides whether a move is allowed. The base engine permits
// everything; game-rule layers (hand-size caps, board caps) wrap or replace
// this to enforce capacity.
type Policy interface {
	CanMove(e *entity.Entity, to entity.Zone, controller entity.PlayerID) bool
}

// PolicyFunc adapts a function to the Policy interface.
type PolicyFunc func(*entity.Entity, entity.Zone, entity.PlayerID) bool

// CanMove implements Policy.
func (f PolicyFunc) CanMove(e *entity.Entity, to entity.Zone, controller entity.PlayerID) bool {
	return f(e, to, controller)
}

// ChangeObserver is notified after an entity's zone fields have been
// rewritten. The manager does not dispatch a ZONE_MOVE rules event; callers
// that want trigger-visible moves emit one themselves.
type ChangeObserver func(e *entity.Entity, from, to entity.Zone, fromController, toController entity.PlayerID)

// Manager performs zone moves and answers zone membership queries.
type Manager struct {
	store     *entity.Store
	policy    Policy
	observers []ChangeObserver
	logger    *zap.Logger
}

// NewManager creates a zone manager over the given store with a permissive
// policy.
func NewManager(store *entity.Store, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		store:  store,
		logger: logger,
	}
}

// SetPolicy installs a capacity/legality policy. A nil policy restores the
// permissive default.
func (m *Manager) SetPolicy(p Policy) {
	m.policy = p
}

// OnChange registers an observer for zone changes.
func (m *Manager) OnChange(observer ChangeObserver) {
	if observer != nil {
		m.observers = append(m.observers, observer)
	}
}

// EntitiesIn returns the entities in a (zone, controller) partition, ordered
// by zone position.
func (m *Manager) EntitiesIn(zone entity.Zone, controller entity.PlayerID) []*entity.Entity {
	matched := m.store.Query(func(e *entity.Entity) bool {
		return e.Zone == zone && e.Controller == controller
	})
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].ZonePosition != matched[j].ZonePosition {
			return matched[i].ZonePosition < matched[j].ZonePosition
		}
		return matched[i].ID < matched[j].ID
	})
	return matched
}

// CountIn returns the number of entities in a (zone, controller) partition.
func (m *Manager) CountIn(zone entity.Zone, controller entity.PlayerID) int {
	return len(m.EntitiesIn(zone, controller))
}

// CanMove consults the installed policy; the base policy always permits.
func (m *Manager) CanMove(e *entity.Entity, to entity.Zone, controller entity.PlayerID) bool {
	if m.policy == nil {
		return true
	}
	return m.policy.CanMove(e, to, controller)
}

// Move writes the new zone (and controller/position when supplied) directly
// onto the entity and notifies observers. Moving an entity to the zone it is
// already in is legal and simply rewrites its position. Pass controller 0 or
// position < 0 to leave those unchanged.
func (m *Manager) Move(e *entity.Entity, to entity.Zone, controller entity.PlayerID, position int) MoveResult {
	if e == nil {
		return MoveBlocked
	}
	if !m.CanMove(e, to, controller) {
		m.logger.Debug("zone move blocked by policy",
			zap.Int("entity", int(e.ID)),
			zap.String("to", string(to)),
		)
		return MoveBlocked
	}

	fromZone := e.Zone
	fromController := e.Controller

	e.Zone = to
	if controller.Valid() {
		e.Controller = controller
	}
	if position >= 0 {
		e.ZonePosition = position
	}
	e.Touch()

	m.logger.Debug("entity moved",
		zap.Int("entity", int(e.ID)),
		zap.String("from", string(fromZone)),
		zap.String("to", string(to)),
	)

	for _, observer := range m.observers {
		observer(e, fromZone, to, fromController, e.Controller)
	}
	return MoveSuccess
}

// Clear destroys every entity in a (zone, controller) partition through the
// store.
func (m *Manager) Clear(zone entity.Zone, controller entity.PlayerID) {
	for _, e := range m.EntitiesIn(zone, controller) {
		m.store.Destroy(e.ID)
	}
}

// Find returns every entity matching the predicate, regardless of zone.
func (m *Manager) Find(predicate func(*entity.Entity) bool) []*entity.Entity {
	return m.store.Query(predicate)
}
