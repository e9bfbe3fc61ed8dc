package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthforge/hearth-engine-go/internal/game/entity"
)

func TestSnapshotShape(t *testing.T) {
	g := newTestGame(t)
	require.NoError(t, g.Start())

	snap := g.Snapshot()

	assert.Equal(t, g.ID(), snap.ID)
	assert.Equal(t, "RUNNING", snap.State)
	assert.Equal(t, 1, snap.Turn)
	assert.Equal(t, int(entity.Player1), snap.CurrentPlayer)
	require.Len(t, snap.Players, 2)
	assert.NotEmpty(t, snap.Checksum)

	p1 := snap.Players[0]
	require.NotNil(t, p1.Hero)
	require.NotNil(t, p1.HeroPower)
	assert.Nil(t, p1.Weapon)
	assert.Len(t, p1.Deck, 5)
	assert.Empty(t, p1.Hand)
	assert.Equal(t, 30, p1.Hero.Detail["health"])
	assert.Equal(t, 2, p1.HeroPower.Detail["cost"])

	// Everything is covered by a player snapshot or the game entity, so
	// the flat list is empty for a fresh game.
	assert.Empty(t, snap.Entities)
}

func TestSnapshotNestsPlayerZoneEntities(t *testing.T) {
	g := newTestGame(t)

	snap := g.Snapshot()
	p1 := snap.Players[0]

	// Zone lists hold recursively serialized entities in zone order, not
	// bare ids, and those entities are not repeated in the flat list.
	require.Len(t, p1.Deck, 5)
	for i, card := range p1.Deck {
		assert.Equal(t, string(entity.TypeCard), card.Type)
		assert.Equal(t, i+1, card.ZonePosition)
		assert.Equal(t, "ali", card.Detail["cardId"])
	}
	for _, e := range snap.Entities {
		assert.NotEqual(t, string(entity.TypeCard), e.Type)
	}
}

func TestSnapshotFlatListKeepsBattlefieldObjects(t *testing.T) {
	g := newTestGame(t)
	minion, err := g.Store().Create(entity.TypeMinion, &entity.Attributes{
		Name:       "Wisp",
		Controller: entity.Player1,
		Zone:       entity.ZonePlay,
	})
	require.NoError(t, err)

	snap := g.Snapshot()
	require.Len(t, snap.Entities, 1)
	assert.Equal(t, int(minion.ID), snap.Entities[0].ID)
}

func TestSnapshotMarshalsToJSON(t *testing.T) {
	g := newTestGame(t)
	require.NoError(t, g.Start())

	data, err := MarshalSnapshot(g.Snapshot())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, g.ID(), decoded["id"])
	assert.Equal(t, "RUNNING", decoded["state"])
	assert.Contains(t, decoded, "players")
	assert.Contains(t, decoded, "checksum")

	// Player zone lists marshal as arrays of entity objects.
	players := decoded["players"].([]any)
	require.Len(t, players, 2)
	deck := players[0].(map[string]any)["deck"].([]any)
	require.Len(t, deck, 5)
	card, ok := deck[0].(map[string]any)
	require.True(t, ok, "deck entries must be objects, not ids")
	assert.Contains(t, card, "id")
	assert.Contains(t, card, "type")
	assert.Contains(t, card, "zone")
}

func TestSnapshotChecksumIsDeterministic(t *testing.T) {
	g := newTestGame(t)
	require.NoError(t, g.Start())

	first := g.Snapshot()
	second := g.Snapshot()
	assert.Equal(t, first.Checksum, second.Checksum, "unchanged state must hash identically")

	data, _ := g.Player(entity.Player1).AsPlayer()
	hero, _ := data.Hero.AsHero()
	hero.Health -= 3

	third := g.Snapshot()
	assert.NotEqual(t, first.Checksum, third.Checksum, "changed state must hash differently")
}

func TestSnapshotSharesNoEntityState(t *testing.T) {
	g := newTestGame(t)
	snap := g.Snapshot()

	// Mutating the snapshot must not touch the live game.
	snap.Players[0].Hero.Detail["health"] = -1
	data, _ := g.Player(entity.Player1).AsPlayer()
	hero, _ := data.Hero.AsHero()
	assert.Equal(t, 30, hero.Health)
}

func TestSnapshotTagsRoundTripThroughJSON(t *testing.T) {
	g := newTestGame(t)
	card := g.Zones().EntitiesIn(entity.ZoneDeck, entity.Player1)[0]
	card.SetTag(entity.TagCost, entity.TagInt(4))
	card.SetTag(entity.TagTaunt, entity.TagBool(true))
	card.SetTag(entity.TagOwner, entity.TagString("alice"))

	data, err := MarshalSnapshot(g.Snapshot())
	require.NoError(t, err)

	var decoded Snapshot
	require.NoError(t, json.Unmarshal(data, &decoded))

	var found *EntitySnapshot
	for i := range decoded.Players[0].Deck {
		if decoded.Players[0].Deck[i].ID == int(card.ID) {
			found = &decoded.Players[0].Deck[i]
		}
	}
	require.NotNil(t, found)
	assert.True(t, entity.TagInt(4).Equal(found.Tags[entity.TagCost]))
	assert.True(t, entity.TagBool(true).Equal(found.Tags[entity.TagTaunt]))
	assert.True(t, entity.TagString("alice").Equal(found.Tags[entity.TagOwner]))
}

func TestSnapshotCarriesLifecycleTimestamps(t *testing.T) {
	g := newTestGame(t)
	assert.Nil(t, g.Snapshot().StartTime)

	require.NoError(t, g.Start())
	require.NoError(t, g.End(entity.Player1))

	snap := g.Snapshot()
	require.NotNil(t, snap.StartTime)
	require.NotNil(t, snap.EndTime)
	assert.False(t, snap.EndTime.Before(*snap.StartTime))
	assert.Equal(t, "COMPLETE", snap.State)
	assert.Equal(t, int(entity.Player1), snap.Winner)
}

func TestPlayerDetailReadsResourceTags(t *testing.T) {
	g := newTestGame(t)
	player := g.Player(entity.Player1)
	player.SetTag(entity.TagMana, entity.TagInt(4))
	player.SetTag(entity.TagMaxMana, entity.TagInt(6))
	player.SetTag(entity.TagPendingOverload, entity.TagInt(2))

	snap := g.Snapshot()
	detail := snap.Players[0].Detail
	assert.Equal(t, 4, detail["mana"])
	assert.Equal(t, 6, detail["maxMana"])
	assert.Equal(t, 0, detail["overload"])
	assert.Equal(t, 2, detail["pendingOverload"])
}

func TestRestoreSnapshotNotImplemented(t *testing.T) {
	g := newTestGame(t)
	snap := g.Snapshot()

	restored, err := RestoreSnapshot(snap)
	assert.Nil(t, restored)
	assert.ErrorIs(t, err, ErrRestoreNotImplemented)
}
