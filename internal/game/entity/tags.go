package entity

import (
	"encoding/json"
	"fmt"
)

// Tag names a piece of mutable state on an entity.
type Tag string

const (
	// Base attributes
	TagAttack     Tag = "ATK"
	TagHealth     Tag = "HEALTH"
	TagCost       Tag = "COST"
	TagArmor      Tag = "ARMOR"
	TagDurability Tag = "DURABILITY"

	// Status tags
	TagExhausted       Tag = "EXHAUSTED"
	TagJustPlayed      Tag = "JUST_PLAYED"
	TagToBeDestroyed   Tag = "TO_BE_DESTROYED"
	TagMortallyWounded Tag = "MORTALLY_WOUNDED"

	// Keyword tags
	TagTaunt        Tag = "TAUNT"
	TagStealth      Tag = "STEALTH"
	TagDivineShield Tag = "DIVINE_SHIELD"
	TagPoisonous    Tag = "POISONOUS"
	TagLifesteal    Tag = "LIFESTEAL"
	TagCharge       Tag = "CHARGE"
	TagRush         Tag = "RUSH"
	TagWindfury     Tag = "WINDFURY"
	TagDeathrattle  Tag = "DEATHRATTLE"
	TagBattlecry    Tag = "BATTLECRY"

	// Counters
	TagNumAttacksThisTurn     Tag = "NUM_ATTACKS_THIS_TURN"
	TagNumCardsPlayedThisTurn Tag = "NUM_CARDS_PLAYED_THIS_TURN"
	TagNumTurnsInPlay         Tag = "NUM_TURNS_IN_PLAY"
	TagNumTurnsInHand         Tag = "NUM_TURNS_IN_HAND"

	// Resources
	TagMana            Tag = "MANA"
	TagMaxMana         Tag = "MAX_MANA"
	TagOverload        Tag = "OVERLOAD"
	TagPendingOverload Tag = "PENDING_OVERLOAD"

	// Game state
	TagPlayState     Tag = "PLAYSTATE"
	TagCurrentPlayer Tag = "CURRENT_PLAYER"
	TagTurn          Tag = "TURN"
	TagStep          Tag = "STEP"

	// Special effects
	TagSpellpower        Tag = "SPELLPOWER"
	TagHealingMultiplier Tag = "HEALING_MULTIPLIER"
	TagAura              Tag = "AURA"
	TagSilence           Tag = "SILENCE"

	// Control
	TagController Tag = "CONTROLLER"
	TagOwner      Tag = "OWNER"
)

// TagKind discriminates the value stored in a TagValue.
type TagKind int

const (
	TagKindInt TagKind = iota
	TagKindBool
	TagKindString
)

// TagValue is a closed union of the value kinds a tag may carry. New card
// mechanics get new Tag keys, not new value kinds; truly card-specific state
// belongs in Entity.Extra.
type TagValue struct {
	Kind TagKind
	I    int
	B    bool
	S    string
}

// TagInt wraps an integer tag value.
func TagInt(v int) TagValue { return TagValue{Kind: TagKindInt, I: v} }

// TagBool wraps a boolean tag value.
func TagBool(v bool) TagValue { return TagValue{Kind: TagKindBool, B: v} }

// TagString wraps a string tag value.
func TagString(v string) TagValue { return TagValue{Kind: TagKindString, S: v} }

// Int returns the integer value, or 0 for non-integer kinds.
func (v TagValue) Int() int {
	if v.Kind == TagKindInt {
		return v.I
	}
	return 0
}

// Bool returns the boolean value, or false for non-boolean kinds.
func (v TagValue) Bool() bool {
	if v.Kind == TagKindBool {
		return v.B
	}
	return false
}

// String returns the string value, or the rendered form of other kinds.
func (v TagValue) String() string {
	switch v.Kind {
	case TagKindString:
		return v.S
	case TagKindInt:
		return fmt.Sprintf("%d", v.I)
	case TagKindBool:
		return fmt.Sprintf("%t", v.B)
	}
	return ""
}

// Equal reports whether two tag values have the same kind and value.
func (v TagValue) Equal(other TagValue) bool {
	return v == other
}

// MarshalJSON renders the bare value, keeping snapshots free of union
// bookkeeping.
func (v TagValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case TagKindBool:
		return json.Marshal(v.B)
	case TagKindString:
		return json.Marshal(v.S)
	default:
		return json.Marshal(v.I)
	}
}

// UnmarshalJSON restores a tag value from its bare JSON form.
func (v *TagValue) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*v = TagBool(b)
		return nil
	}
	var i int
	if err := json.Unmarshal(data, &i); err == nil {
		*v = TagInt(i)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = TagString(s)
		return nil
	}
	return fmt.Errorf("tag value %s is not an int, bool or string", string(data))
}
