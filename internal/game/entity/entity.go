package entity

import "time"

// Entity is the universal game object: players, heroes, minions, spells,
// weapons, hero powers, enchantments and cards are all entities. Shared state
// lives on the common record; subtype-specific fields live in the typed
// payload reached through the As* accessors.
type Entity struct {
	ID           ID
	Type         Type
	Name         string
	Zone         Zone
	ZonePosition int
	Controller   PlayerID
	Owner        PlayerID

	// Tags is the open-ended mutable state map. Extra is the escape hatch
	// for card-specific state that does not fit the closed tag value union.
	Tags  map[Tag]TagValue
	Extra map[string]any

	// Enchantments are owned exclusively by this entity; destroying the
	// host destroys them.
	Enchantments []*Entity

	CreatedAt time.Time
	UpdatedAt time.Time

	payload payload
}

// payload is the type-discriminated part of an entity.
type payload interface {
	entityType() Type
}

// GameData is the payload of the root game entity.
type GameData struct {
	Turn  int
	Step  GameStep
	State int
}

// PlayerData is the payload of a player entity. Hero, HeroPower, Weapon and
// the zone lists are references into the entity store, not owned copies.
// Resource counters (mana, overload) live in the entity's tag map, the
// single authoritative location, not here.
type PlayerData struct {
	Name      string
	Hero      *Entity
	HeroPower *Entity
	Weapon    *Entity
	Hand      []*Entity
	Deck      []*Entity
	Graveyard []*Entity
	Secrets   []*Entity
}

// HeroData is the payload of a hero entity.
type HeroData struct {
	Health      int
	MaxHealth   int
	Armor       int
	Attack      int
	BaseAttack  int
	IsExhausted bool
	CanAttack   bool
}

// MinionData is the payload of a minion entity.
type MinionData struct {
	Attack     int
	Health     int
	MaxHealth  int
	Cost       int
	BaseAttack int
	BaseHealth int
	Race       Race
}

// SpellData is the payload of a spell entity.
type SpellData struct {
	Cost        int
	SpellSchool SpellSchool
}

// WeaponData is the payload of a weapon entity.
type WeaponData struct {
	Attack        int
	Durability    int
	MaxDurability int
}

// HeroPowerData is the payload of a hero power entity.
type HeroPowerData struct {
	Cost        int
	IsExhausted bool
	CanUse      bool
}

// EnchantmentData is the payload of an enchantment entity.
type EnchantmentData struct {
	SourceCardID string
	Text         string
}

// CardData is the payload of a card entity (a card in a deck or hand that has
// not yet become a battlefield object).
type CardData struct {
	CardID string
	Cost   int
	Rarity string
	Text   string
}

func (*GameData) entityType() Type        { return TypeGame }
func (*PlayerData) entityType() Type      { return TypePlayer }
func (*HeroData) entityType() Type        { return TypeHero }
func (*MinionData) entityType() Type      { return TypeMinion }
func (*SpellData) entityType() Type       { return TypeSpell }
func (*WeaponData) entityType() Type      { return TypeWeapon }
func (*HeroPowerData) entityType() Type   { return TypeHeroPower }
func (*EnchantmentData) entityType() Type { return TypeEnchantment }
func (*CardData) entityType() Type        { return TypeCard }

// AsGame narrows to the game payload.
func (e *Entity) AsGame() (*GameData, bool) {
	d, ok := e.payload.(*GameData)
	return d, ok
}

// AsPlayer narrows to the player payload.
func (e *Entity) AsPlayer() (*PlayerData, bool) {
	d, ok := e.payload.(*PlayerData)
	return d, ok
}

// AsHero narrows to the hero payload.
func (e *Entity) AsHero() (*HeroData, bool) {
	d, ok := e.payload.(*HeroData)
	return d, ok
}

// AsMinion narrows to the minion payload.
func (e *Entity) AsMinion() (*MinionData, bool) {
	d, ok := e.payload.(*MinionData)
	return d, ok
}

// AsSpell narrows to the spell payload.
func (e *Entity) AsSpell() (*SpellData, bool) {
	d, ok := e.payload.(*SpellData)
	return d, ok
}

// AsWeapon narrows to the weapon payload.
func (e *Entity) AsWeapon() (*WeaponData, bool) {
	d, ok := e.payload.(*WeaponData)
	return d, ok
}

// AsHeroPower narrows to the hero power payload.
func (e *Entity) AsHeroPower() (*HeroPowerData, bool) {
	d, ok := e.payload.(*HeroPowerData)
	return d, ok
}

// AsEnchantment narrows to the enchantment payload.
func (e *Entity) AsEnchantment() (*EnchantmentData, bool) {
	d, ok := e.payload.(*EnchantmentData)
	return d, ok
}

// AsCard narrows to the card payload.
func (e *Entity) AsCard() (*CardData, bool) {
	d, ok := e.payload.(*CardData)
	return d, ok
}

// HasTag reports whether the tag is present.
func (e *Entity) HasTag(tag Tag) bool {
	_, ok := e.Tags[tag]
	return ok
}

// GetTag returns the tag value; the second result is false when absent.
func (e *Entity) GetTag(tag Tag) (TagValue, bool) {
	v, ok := e.Tags[tag]
	return v, ok
}

// TagInt returns the tag's integer value, or 0 when absent.
func (e *Entity) TagInt(tag Tag) int {
	return e.Tags[tag].Int()
}

// TagBool returns the tag's boolean value, or false when absent.
func (e *Entity) TagBool(tag Tag) bool {
	return e.Tags[tag].Bool()
}

// SetTag stores a tag value and bumps the update timestamp.
func (e *Entity) SetTag(tag Tag, value TagValue) {
	if e.Tags == nil {
		e.Tags = make(map[Tag]TagValue)
	}
	e.Tags[tag] = value
	e.Touch()
}

// RemoveTag deletes a tag and bumps the update timestamp.
func (e *Entity) RemoveTag(tag Tag) {
	delete(e.Tags, tag)
	e.Touch()
}

// Touch updates the last-modified timestamp.
func (e *Entity) Touch() {
	e.UpdatedAt = time.Now()
}

// Attach adds an enchantment to this entity. The enchantment's controller
// follows the host.
func (e *Entity) Attach(enchantment *Entity) {
	enchantment.Controller = e.Controller
	e.Enchantments = append(e.Enchantments, enchantment)
	e.Touch()
}

// Detach removes an enchantment by id and reports whether it was attached.
func (e *Entity) Detach(id ID) bool {
	for i, ench := range e.Enchantments {
		if ench.ID == id {
			e.Enchantments = append(e.Enchantments[:i], e.Enchantments[i+1:]...)
			e.Touch()
			return true
		}
	}
	return false
}

// Clone returns a shallow copy: the tag map and enchantment slice are copied,
// but enchantment entities and the payload are shared.
func (e *Entity) Clone() *Entity {
	cloned := *e
	cloned.Tags = make(map[Tag]TagValue, len(e.Tags))
	for k, v := range e.Tags {
		cloned.Tags[k] = v
	}
	cloned.Enchantments = make([]*Entity, len(e.Enchantments))
	copy(cloned.Enchantments, e.Enchantments)
	return &cloned
}

// DeepClone copies the entity and recursively clones its enchantments.
func (e *Entity) DeepClone() *Entity {
	cloned := e.Clone()
	for i, ench := range e.Enchantments {
		cloned.Enchantments[i] = ench.DeepClone()
	}
	return cloned
}
