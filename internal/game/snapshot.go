package game

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hearthforge/hearth-engine-go/internal/game/entity"
)

// ErrRestoreNotImplemented is returned by RestoreSnapshot. Snapshots are an
// export format for debugging, spectating and analysis; rebuilding live
// trigger registrations and handler closures from data is not supported.
var ErrRestoreNotImplemented = errors.New("game: restoring from a snapshot is not implemented")

// EntitySnapshot is the serialized form of one entity. Fields common to all
// types are top-level; type-specific payload fields go in Detail.
type EntitySnapshot struct {
	ID           int                            `json:"id"`
	Type         string                         `json:"type"`
	Name         string                         `json:"name,omitempty"`
	Zone         string                         `json:"zone"`
	ZonePosition int                            `json:"zonePosition,omitempty"`
	Controller   int                            `json:"controller"`
	Owner        int                            `json:"owner"`
	Tags         map[entity.Tag]entity.TagValue `json:"tags,omitempty"`
	Extra        map[string]any                 `json:"extra,omitempty"`
	Detail       map[string]any                 `json:"detail,omitempty"`
	Enchantments []EntitySnapshot               `json:"enchantments,omitempty"`
	CreatedAt    time.Time                      `json:"createdAt"`
	UpdatedAt    time.Time                      `json:"updatedAt"`
}

// PlayerSnapshot is the serialized form of one seat: the player entity plus
// its hero, hero power and weapon snapshots and its zone contents, each
// entity recursively serialized in zone order.
type PlayerSnapshot struct {
	EntitySnapshot
	Hero      *EntitySnapshot  `json:"hero,omitempty"`
	HeroPower *EntitySnapshot  `json:"heroPower,omitempty"`
	Weapon    *EntitySnapshot  `json:"weapon,omitempty"`
	Hand      []EntitySnapshot `json:"hand"`
	Deck      []EntitySnapshot `json:"deck"`
	Graveyard []EntitySnapshot `json:"graveyard"`
	Secrets   []EntitySnapshot `json:"secrets"`
}

// Snapshot is a complete point-in-time export of a game's visible state.
// Trigger registrations, queued events and sequences are deliberately
// excluded; they hold live closures that do not serialize.
type Snapshot struct {
	ID            string           `json:"id"`
	State         string           `json:"state"`
	Turn          int              `json:"turn"`
	Step          string           `json:"step"`
	CurrentPlayer int              `json:"currentPlayer"`
	Winner        int              `json:"winner,omitempty"`
	StartTime     *time.Time       `json:"startTime,omitempty"`
	EndTime       *time.Time       `json:"endTime,omitempty"`
	GameEntity    EntitySnapshot   `json:"gameEntity"`
	Players       []PlayerSnapshot `json:"players"`
	// Entities holds what no player snapshot covers: battlefield objects
	// and set-aside or removed entities.
	Entities []EntitySnapshot `json:"entities"`
	Checksum string           `json:"checksum"`
}

// Snapshot exports the current game state. The result is self-contained and
// safe to marshal; it shares no pointers with live entities.
func (g *Game) Snapshot() *Snapshot {
	gameData, _ := g.gameEntity.AsGame()

	snap := &Snapshot{
		ID:            g.id,
		State:         g.status.String(),
		Turn:          gameData.Turn,
		Step:          gameData.Step.String(),
		CurrentPlayer: int(g.currentSeat()),
		Winner:        int(g.winner),
		GameEntity:    snapshotEntity(g.gameEntity),
	}
	if !g.startTime.IsZero() {
		start := g.startTime
		snap.StartTime = &start
	}
	if !g.endTime.IsZero() {
		end := g.endTime
		snap.EndTime = &end
	}

	for _, pid := range []entity.PlayerID{entity.Player1, entity.Player2} {
		if player := g.players[pid]; player != nil {
			snap.Players = append(snap.Players, snapshotPlayer(player, g))
		}
	}

	// Entities covered by a player snapshot (players, heroes, hero powers,
	// weapons, zone-list contents) are not repeated in the flat list.
	nested := make(map[entity.ID]bool)
	for _, player := range g.players {
		nested[player.ID] = true
		if data, ok := player.AsPlayer(); ok {
			for _, e := range []*entity.Entity{data.Hero, data.HeroPower, data.Weapon} {
				if e != nil {
					nested[e.ID] = true
				}
			}
		}
	}
	for _, e := range g.store.All() {
		switch e.Zone {
		case entity.ZoneHand, entity.ZoneDeck, entity.ZoneGraveyard, entity.ZoneSecret:
			nested[e.ID] = true
		}
	}
	for _, e := range g.store.All() {
		if e.ID == g.gameEntity.ID || nested[e.ID] {
			continue
		}
		snap.Entities = append(snap.Entities, snapshotEntity(e))
	}
	sort.Slice(snap.Entities, func(i, j int) bool {
		return snap.Entities[i].ID < snap.Entities[j].ID
	})

	snap.Checksum = checksum(snap)
	return snap
}

// MarshalSnapshot renders a snapshot as indented JSON.
func MarshalSnapshot(snap *Snapshot) ([]byte, error) {
	return json.MarshalIndent(snap, "", "  ")
}

// RestoreSnapshot would rebuild a game from an exported snapshot. It is not
// supported and always fails with ErrRestoreNotImplemented.
func RestoreSnapshot(snap *Snapshot) (*Game, error) {
	return nil, ErrRestoreNotImplemented
}

func snapshotPlayer(player *entity.Entity, g *Game) PlayerSnapshot {
	ps := PlayerSnapshot{
		EntitySnapshot: snapshotEntity(player),
		Hand:           []EntitySnapshot{},
		Deck:           []EntitySnapshot{},
		Graveyard:      []EntitySnapshot{},
		Secrets:        []EntitySnapshot{},
	}

	data, ok := player.AsPlayer()
	if !ok {
		return ps
	}
	if data.Hero != nil {
		hero := snapshotEntity(data.Hero)
		ps.Hero = &hero
	}
	if data.HeroPower != nil {
		power := snapshotEntity(data.HeroPower)
		ps.HeroPower = &power
	}
	if data.Weapon != nil {
		weapon := snapshotEntity(data.Weapon)
		ps.Weapon = &weapon
	}

	pid := player.Controller
	for zoneName, out := range map[entity.Zone]*[]EntitySnapshot{
		entity.ZoneHand:      &ps.Hand,
		entity.ZoneDeck:      &ps.Deck,
		entity.ZoneGraveyard: &ps.Graveyard,
		entity.ZoneSecret:    &ps.Secrets,
	} {
		for _, e := range g.zones.EntitiesIn(zoneName, pid) {
			*out = append(*out, snapshotEntity(e))
		}
	}
	return ps
}

func snapshotEntity(e *entity.Entity) EntitySnapshot {
	snap := EntitySnapshot{
		ID:           int(e.ID),
		Type:         string(e.Type),
		Name:         e.Name,
		Zone:         string(e.Zone),
		ZonePosition: e.ZonePosition,
		Controller:   int(e.Controller),
		Owner:        int(e.Owner),
		Detail:       snapshotDetail(e),
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
	if len(e.Tags) > 0 {
		snap.Tags = make(map[entity.Tag]entity.TagValue, len(e.Tags))
		for k, v := range e.Tags {
			snap.Tags[k] = v
		}
	}
	if len(e.Extra) > 0 {
		snap.Extra = make(map[string]any, len(e.Extra))
		for k, v := range e.Extra {
			snap.Extra[k] = v
		}
	}
	for _, ench := range e.Enchantments {
		snap.Enchantments = append(snap.Enchantments, snapshotEntity(ench))
	}
	return snap
}

func snapshotDetail(e *entity.Entity) map[string]any {
	if d, ok := e.AsGame(); ok {
		return map[string]any{"turn": d.Turn, "step": d.Step.String(), "state": d.State}
	}
	if _, ok := e.AsPlayer(); ok {
		return map[string]any{
			"mana":            e.TagInt(entity.TagMana),
			"maxMana":         e.TagInt(entity.TagMaxMana),
			"overload":        e.TagInt(entity.TagOverload),
			"pendingOverload": e.TagInt(entity.TagPendingOverload),
		}
	}
	if d, ok := e.AsHero(); ok {
		return map[string]any{
			"health":      d.Health,
			"maxHealth":   d.MaxHealth,
			"armor":       d.Armor,
			"attack":      d.Attack,
			"isExhausted": d.IsExhausted,
			"canAttack":   d.CanAttack,
		}
	}
	if d, ok := e.AsMinion(); ok {
		return map[string]any{
			"attack":    d.Attack,
			"health":    d.Health,
			"maxHealth": d.MaxHealth,
			"cost":      d.Cost,
			"race":      string(d.Race),
		}
	}
	if d, ok := e.AsSpell(); ok {
		return map[string]any{"cost": d.Cost, "school": string(d.SpellSchool)}
	}
	if d, ok := e.AsWeapon(); ok {
		return map[string]any{
			"attack":        d.Attack,
			"durability":    d.Durability,
			"maxDurability": d.MaxDurability,
		}
	}
	if d, ok := e.AsHeroPower(); ok {
		return map[string]any{"cost": d.Cost, "isExhausted": d.IsExhausted, "canUse": d.CanUse}
	}
	if d, ok := e.AsEnchantment(); ok {
		return map[string]any{"sourceCardId": d.SourceCardID, "text": d.Text}
	}
	if d, ok := e.AsCard(); ok {
		return map[string]any{
			"cardId": d.CardID,
			"cost":   d.Cost,
			"rarity": d.Rarity,
			"text":   d.Text,
		}
	}
	return nil
}

// checksum hashes a canonical rendering of the snapshot. Two snapshots of
// identical visible state hash identically regardless of when they were
// taken.
func checksum(snap *Snapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "game:%s|%s|%d|%s|%d|%d\n",
		snap.ID, snap.State, snap.Turn, snap.Step, snap.CurrentPlayer, snap.Winner)
	writeCanonicalEntity(&b, &snap.GameEntity)

	for _, p := range snap.Players {
		writeCanonicalEntity(&b, &p.EntitySnapshot)
		for _, nested := range []*EntitySnapshot{p.Hero, p.HeroPower, p.Weapon} {
			if nested != nil {
				writeCanonicalEntity(&b, nested)
			}
		}
		for _, zoneList := range [][]EntitySnapshot{p.Hand, p.Deck, p.Graveyard, p.Secrets} {
			for i := range zoneList {
				writeCanonicalEntity(&b, &zoneList[i])
			}
		}
	}
	for i := range snap.Entities {
		writeCanonicalEntity(&b, &snap.Entities[i])
	}

	sum := sha256.Sum256([]byte(b.String()))
	return fmt.Sprintf("%x", sum)
}

func writeCanonicalEntity(b *strings.Builder, snap *EntitySnapshot) {
	fmt.Fprintf(b, "entity:%d|%s|%s|%s|%d|%d|%d\n",
		snap.ID, snap.Type, snap.Name, snap.Zone, snap.ZonePosition, snap.Controller, snap.Owner)

	tagKeys := make([]string, 0, len(snap.Tags))
	for k := range snap.Tags {
		tagKeys = append(tagKeys, string(k))
	}
	sort.Strings(tagKeys)
	for _, k := range tagKeys {
		fmt.Fprintf(b, "  tag:%s=%s\n", k, snap.Tags[entity.Tag(k)].String())
	}

	detailKeys := make([]string, 0, len(snap.Detail))
	for k := range snap.Detail {
		detailKeys = append(detailKeys, k)
	}
	sort.Strings(detailKeys)
	for _, k := range detailKeys {
		fmt.Fprintf(b, "  detail:%s=%v\n", k, snap.Detail[k])
	}

	for i := range snap.Enchantments {
		writeCanonicalEntity(b, &snap.Enchantments[i])
	}
}
