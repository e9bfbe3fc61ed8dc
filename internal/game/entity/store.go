package entity

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Attributes is the optional payload handed to Store.Create. Generic fields
// apply to every type; the rest apply only where the type has a matching
// payload field and are ignored otherwise. Pointer fields distinguish "not
// supplied" from a zero value.
type Attributes struct {
	Name         string
	Controller   PlayerID
	Owner        PlayerID // defaults to Controller when unset
	Zone         Zone
	ZonePosition int
	Tags         map[Tag]TagValue

	Attack      *int
	Health      *int
	Cost        *int
	Durability  *int
	Armor       *int
	Race        Race
	SpellSchool SpellSchool
	CardID      string
	Rarity      string
	Text        string
	IsExhausted *bool
	CanAttack   *bool
	CanUse      *bool

	Turn  *int
	Step  *GameStep
	State *int
}

// Update is a partial-field merge applied by Store.Apply. Nil fields are left
// untouched; tags are merged key by key.
type Update struct {
	Name         *string
	Zone         *Zone
	ZonePosition *int
	Controller   *PlayerID
	Owner        *PlayerID
	Tags         map[Tag]TagValue
}

// Store owns the canonical table of all live entities. It is the only
// component that creates or destroys them; every other component holds
// references into this table.
type Store struct {
	mu       sync.RWMutex
	entities map[ID]*Entity
	nextID   ID
	idPool   []ID
	logger   *zap.Logger
}

// NewStore creates an empty entity store.
func NewStore(logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		entities: make(map[ID]*Entity),
		nextID:   1,
		logger:   logger,
	}
}

// Create allocates an id, constructs a zero-valued entity of the given type,
// applies the attribute payload and registers the entity. An unknown type is
// a construction error and fails immediately.
func (s *Store) Create(t Type, attrs *Attributes) (*Entity, error) {
	p, err := newPayload(t)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	e := &Entity{
		ID:         s.acquireID(),
		Type:       t,
		Zone:       ZoneSetAside,
		Controller: Player1,
		Owner:      Player1,
		Tags:       make(map[Tag]TagValue),
		CreatedAt:  now,
		UpdatedAt:  now,
		payload:    p,
	}
	applyAttributes(e, attrs)
	s.entities[e.ID] = e

	s.logger.Debug("entity created",
		zap.Int("id", int(e.ID)),
		zap.String("type", string(t)),
		zap.String("name", e.Name),
	)
	return e, nil
}

// Get returns the entity with the given id, or nil when absent.
func (s *Store) Get(id ID) *Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entities[id]
}

// Apply shallow-merges an update into the entity. Missing ids are tolerated
// silently: effect resolution routinely races against entities that earlier
// effects already removed.
func (s *Store) Apply(id ID, u Update) {
	s.mu.Lock()
	e := s.entities[id]
	s.mu.Unlock()
	if e == nil {
		return
	}

	if u.Name != nil {
		e.Name = *u.Name
	}
	if u.Zone != nil {
		e.Zone = *u.Zone
	}
	if u.ZonePosition != nil {
		e.ZonePosition = *u.ZonePosition
	}
	if u.Controller != nil {
		e.Controller = *u.Controller
	}
	if u.Owner != nil {
		e.Owner = *u.Owner
	}
	for k, v := range u.Tags {
		e.Tags[k] = v
	}
	e.Touch()
}

// Destroy removes the entity from the table and releases its id for reuse.
// The entity's enchantments are destroyed with it. Missing ids are a no-op.
func (s *Store) Destroy(id ID) {
	s.mu.Lock()
	e := s.entities[id]
	if e == nil {
		s.mu.Unlock()
		return
	}
	delete(s.entities, id)
	s.idPool = append(s.idPool, id)

	// Enchantments are owned by their host and die with it.
	enchantments := e.Enchantments
	e.Enchantments = nil
	s.mu.Unlock()

	for _, ench := range enchantments {
		s.Destroy(ench.ID)
	}

	s.logger.Debug("entity destroyed", zap.Int("id", int(id)))
}

// All returns a snapshot list of every live entity.
func (s *Store) All() []*Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]*Entity, 0, len(s.entities))
	for _, e := range s.entities {
		all = append(all, e)
	}
	return all
}

// Query returns every live entity matching the predicate.
func (s *Store) Query(predicate func(*Entity) bool) []*Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matched []*Entity
	for _, e := range s.entities {
		if predicate(e) {
			matched = append(matched, e)
		}
	}
	return matched
}

// Count returns the number of live entities.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entities)
}

// Clear removes every entity and resets id allocation.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entities = make(map[ID]*Entity)
	s.nextID = 1
	s.idPool = nil
}

// acquireID reissues a pooled id when one is available, else the next
// monotonic integer. Callers must hold the write lock.
func (s *Store) acquireID() ID {
	if n := len(s.idPool); n > 0 {
		id := s.idPool[n-1]
		s.idPool = s.idPool[:n-1]
		return id
	}
	id := s.nextID
	s.nextID++
	return id
}

func newPayload(t Type) (payload, error) {
	switch t {
	case TypeGame:
		return &GameData{}, nil
	case TypePlayer:
		return &PlayerData{}, nil
	case TypeHero:
		return &HeroData{}, nil
	case TypeMinion:
		return &MinionData{}, nil
	case TypeSpell:
		return &SpellData{}, nil
	case TypeWeapon:
		return &WeaponData{}, nil
	case TypeHeroPower:
		return &HeroPowerData{}, nil
	case TypeEnchantment:
		return &EnchantmentData{}, nil
	case TypeCard:
		return &CardData{}, nil
	default:
		return nil, fmt.Errorf("unknown entity type: %q", t)
	}
}

func applyAttributes(e *Entity, attrs *Attributes) {
	if attrs == nil {
		return
	}

	if attrs.Name != "" {
		e.Name = attrs.Name
	}
	if attrs.Controller.Valid() {
		e.Controller = attrs.Controller
		e.Owner = attrs.Controller
	}
	if attrs.Owner.Valid() {
		e.Owner = attrs.Owner
	}
	if attrs.Zone != "" {
		e.Zone = attrs.Zone
	}
	if attrs.ZonePosition != 0 {
		e.ZonePosition = attrs.ZonePosition
	}
	for k, v := range attrs.Tags {
		e.Tags[k] = v
	}

	switch e.Type {
	case TypeGame:
		applyGameAttributes(e, attrs)
	case TypePlayer:
		applyPlayerAttributes(e, attrs)
	case TypeHero:
		applyHeroAttributes(e, attrs)
	case TypeMinion:
		applyMinionAttributes(e, attrs)
	case TypeSpell:
		applySpellAttributes(e, attrs)
	case TypeWeapon:
		applyWeaponAttributes(e, attrs)
	case TypeHeroPower:
		applyHeroPowerAttributes(e, attrs)
	case TypeEnchantment:
		applyEnchantmentAttributes(e, attrs)
	case TypeCard:
		applyCardAttributes(e, attrs)
	}
}

func applyGameAttributes(e *Entity, attrs *Attributes) {
	d, _ := e.AsGame()
	if attrs.Turn != nil {
		d.Turn = *attrs.Turn
	}
	if attrs.Step != nil {
		d.Step = *attrs.Step
	}
	if attrs.State != nil {
		d.State = *attrs.State
	}
}

func applyPlayerAttributes(e *Entity, attrs *Attributes) {
	d, _ := e.AsPlayer()
	if attrs.Name != "" {
		d.Name = attrs.Name
	}
}

func applyHeroAttributes(e *Entity, attrs *Attributes) {
	d, _ := e.AsHero()
	if attrs.Health != nil {
		d.Health = *attrs.Health
		d.MaxHealth = *attrs.Health
	}
	if attrs.Armor != nil {
		d.Armor = *attrs.Armor
	}
	if attrs.Attack != nil {
		d.Attack = *attrs.Attack
		d.BaseAttack = *attrs.Attack
	}
	if attrs.IsExhausted != nil {
		d.IsExhausted = *attrs.IsExhausted
	}
	if attrs.CanAttack != nil {
		d.CanAttack = *attrs.CanAttack
	}
}

func applyMinionAttributes(e *Entity, attrs *Attributes) {
	d, _ := e.AsMinion()
	if attrs.Attack != nil {
		d.Attack = *attrs.Attack
		d.BaseAttack = *attrs.Attack
	}
	if attrs.Health != nil {
		d.Health = *attrs.Health
		d.MaxHealth = *attrs.Health
		d.BaseHealth = *attrs.Health
	}
	if attrs.Cost != nil {
		d.Cost = *attrs.Cost
	}
	if attrs.Race != "" {
		d.Race = attrs.Race
	}
}

func applySpellAttributes(e *Entity, attrs *Attributes) {
	d, _ := e.AsSpell()
	if attrs.Cost != nil {
		d.Cost = *attrs.Cost
	}
	if attrs.SpellSchool != "" {
		d.SpellSchool = attrs.SpellSchool
	}
}

func applyWeaponAttributes(e *Entity, attrs *Attributes) {
	d, _ := e.AsWeapon()
	if attrs.Attack != nil {
		d.Attack = *attrs.Attack
	}
	if attrs.Durability != nil {
		d.Durability = *attrs.Durability
		d.MaxDurability = *attrs.Durability
	}
}

func applyHeroPowerAttributes(e *Entity, attrs *Attributes) {
	d, _ := e.AsHeroPower()
	if attrs.Cost != nil {
		d.Cost = *attrs.Cost
	}
	if attrs.IsExhausted != nil {
		d.IsExhausted = *attrs.IsExhausted
	}
	if attrs.CanUse != nil {
		d.CanUse = *attrs.CanUse
	}
}

func applyEnchantmentAttributes(e *Entity, attrs *Attributes) {
	d, _ := e.AsEnchantment()
	if attrs.CardID != "" {
		d.SourceCardID = attrs.CardID
	}
	if attrs.Text != "" {
		d.Text = attrs.Text
	}
}

func applyCardAttributes(e *Entity, attrs *Attributes) {
	d, _ := e.AsCard()
	if attrs.CardID != "" {
		d.CardID = attrs.CardID
	}
	if attrs.Cost != nil {
		d.Cost = *attrs.Cost
	}
	if attrs.Rarity != "" {
		d.Rarity = attrs.Rarity
	}
	if attrs.Text != "" {
		d.Text = attrs.Text
	}
}
