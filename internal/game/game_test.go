package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthforge/hearth-engine-go/internal/game/entity"
	"github.com/hearthforge/hearth-engine-go/internal/game/rules"
)

func smallDeck(prefix string, n int) []CardRecord {
	deck := make([]CardRecord, 0, n)
	for i := 1; i <= n; i++ {
		deck = append(deck, CardRecord{
			CardID: prefix,
			Name:   prefix,
			Cost:   i,
		})
	}
	return deck
}

func newTestGame(t *testing.T) *Game {
	t.Helper()
	g, err := New(Config{
		Player1: PlayerConfig{Name: "Alice", Deck: smallDeck("ali", 5)},
		Player2: PlayerConfig{Name: "Bob", Deck: smallDeck("bob", 5)},
		Seed:    1,
	}, nil)
	require.NoError(t, err)
	return g
}

func TestNewGamePopulatesBothSeats(t *testing.T) {
	g := newTestGame(t)

	assert.Equal(t, StatusWaiting, g.Status())
	assert.NotEmpty(t, g.ID())
	assert.Equal(t, 1, g.Turn())

	for _, pid := range []entity.PlayerID{entity.Player1, entity.Player2} {
		player := g.Player(pid)
		require.NotNil(t, player, "seat %d", pid)

		data, ok := player.AsPlayer()
		require.True(t, ok)
		require.NotNil(t, data.Hero)
		require.NotNil(t, data.HeroPower)
		assert.Len(t, data.Deck, 5)

		hero, ok := data.Hero.AsHero()
		require.True(t, ok)
		assert.Equal(t, 30, hero.Health)
		assert.Equal(t, 30, hero.MaxHealth)
		assert.Equal(t, 0, hero.Armor)
		assert.True(t, hero.IsExhausted)
		assert.False(t, hero.CanAttack)

		power, ok := data.HeroPower.AsHeroPower()
		require.True(t, ok)
		assert.Equal(t, 2, power.Cost)
		assert.False(t, power.IsExhausted)
		assert.True(t, power.CanUse)
	}
}

func TestDeckCardsGetOneBasedPositions(t *testing.T) {
	g := newTestGame(t)

	deck := g.Zones().EntitiesIn(entity.ZoneDeck, entity.Player1)
	require.Len(t, deck, 5)
	for i, card := range deck {
		assert.Equal(t, i+1, card.ZonePosition)
	}
}

func TestStartFiresGameStart(t *testing.T) {
	g := newTestGame(t)

	var seen []rules.Event
	g.Events().SubscribeTyped(rules.EventGameStart, func(evt rules.Event) {
		seen = append(seen, evt)
	})

	require.NoError(t, g.Start())

	assert.True(t, g.IsRunning())
	require.Len(t, seen, 1)
	// The game entity is both source and target of lifecycle events.
	require.NotNil(t, seen[0].Source)
	assert.Equal(t, g.GameEntity().ID, seen[0].Source.ID)
	require.Len(t, seen[0].Targets, 1)
	assert.Equal(t, g.GameEntity().ID, seen[0].Targets[0].ID)

	assert.Error(t, g.Start(), "double start must fail")
}

func TestEndRecordsWinnerAndDuration(t *testing.T) {
	g := newTestGame(t)
	require.NoError(t, g.Start())

	var seen []rules.Event
	g.Events().SubscribeTyped(rules.EventGameEnd, func(evt rules.Event) {
		seen = append(seen, evt)
	})

	require.NoError(t, g.End(entity.Player2))

	assert.True(t, g.IsComplete())
	winner, ok := g.Winner()
	require.True(t, ok)
	assert.Equal(t, entity.Player2, winner)

	require.Len(t, seen, 1)
	assert.Equal(t, int(entity.Player2), seen[0].Data["winner"])
	assert.Contains(t, seen[0].Data, "duration")

	assert.Equal(t, entity.PlayStateWon,
		entity.PlayState(g.Player(entity.Player2).TagInt(entity.TagPlayState)))
	assert.Equal(t, entity.PlayStateLost,
		entity.PlayState(g.Player(entity.Player1).TagInt(entity.TagPlayState)))

	assert.Error(t, g.End(entity.Player1), "ending twice must fail")
}

func TestEndWithoutWinnerTies(t *testing.T) {
	g := newTestGame(t)
	require.NoError(t, g.Start())
	require.NoError(t, g.End(0))

	_, ok := g.Winner()
	assert.False(t, ok)
	assert.Equal(t, entity.PlayStateTied,
		entity.PlayState(g.Player(entity.Player1).TagInt(entity.TagPlayState)))
}

func TestSetStateIsCallerDriven(t *testing.T) {
	g := newTestGame(t)

	// SetState skips the Start/End lifecycle guards entirely.
	g.SetState(StatusRunning)
	assert.True(t, g.IsRunning())
	assert.Equal(t, "RUNNING", g.Snapshot().State)

	data, ok := g.GameEntity().AsGame()
	require.True(t, ok)
	assert.Equal(t, int(StatusRunning), data.State)

	g.SetState(StatusWaiting)
	assert.Equal(t, StatusWaiting, g.Status())
	assert.Equal(t, int(StatusWaiting), data.State)

	// A rewound game may be started normally again.
	require.NoError(t, g.Start())
}

func TestTurnRotationAdvancesCounter(t *testing.T) {
	g := newTestGame(t)
	require.NoError(t, g.Start())

	var log []string
	g.Events().Subscribe(func(evt rules.Event) {
		switch evt.Type {
		case rules.EventTurnStart, rules.EventTurnEnd:
			log = append(log, string(evt.Type))
		}
	})

	g.StartTurn(entity.Player1)
	assert.Equal(t, 1, g.Turn())
	assert.Equal(t, entity.Player1, g.CurrentPlayer().Controller)

	g.EndTurn()
	assert.Equal(t, 1, g.Turn())
	assert.Equal(t, entity.Player2, g.CurrentPlayer().Controller)
	assert.Equal(t, entity.Player1, g.Opponent().Controller)

	g.EndTurn() // marker wraps back to player 1, counter advances
	assert.Equal(t, 2, g.Turn())
	assert.Equal(t, entity.Player1, g.CurrentPlayer().Controller)

	assert.Equal(t, []string{"TURN_START", "TURN_END", "TURN_START", "TURN_END", "TURN_START"}, log)
}

func TestFacadeTriggerChain(t *testing.T) {
	g := newTestGame(t)
	require.NoError(t, g.Start())

	heroEntity := func(pid entity.PlayerID) *entity.Entity {
		data, _ := g.Player(pid).AsPlayer()
		return data.Hero
	}
	hero := heroEntity(entity.Player1)

	// Damage to the hero spawns a heal; both mutate the hero payload and
	// the heal resolves before Dispatch returns.
	g.Dispatcher().Register(rules.NewTrigger(rules.TriggerConfig{
		Owner:     hero,
		EventType: rules.EventDamage,
		Handler: rules.HandlerFunc(func(evt rules.Event) []rules.Event {
			d, _ := hero.AsHero()
			d.Health -= evt.Amount
			return []rules.Event{rules.NewHealEvent(hero, hero, 2)}
		}),
	}))
	g.Dispatcher().Register(rules.NewTrigger(rules.TriggerConfig{
		Owner:     hero,
		EventType: rules.EventHeal,
		Handler: rules.HandlerFunc(func(evt rules.Event) []rules.Event {
			d, _ := hero.AsHero()
			d.Health += evt.Amount
			return nil
		}),
	}))

	g.Dispatcher().Dispatch(rules.NewDamageEvent(heroEntity(entity.Player2), hero, 5, false, true))

	d, _ := hero.AsHero()
	assert.Equal(t, 27, d.Health)
	assert.Equal(t, 0, g.Dispatcher().PendingEvents())
}

func TestFullDeckSetupContainsAllCoreTypes(t *testing.T) {
	g, err := New(Config{
		Player1: PlayerConfig{Name: "Alice", HeroClass: "MAGE", Deck: smallDeck("ali", 30)},
		Player2: PlayerConfig{Name: "Bob", HeroClass: "WARRIOR", Deck: smallDeck("bob", 30)},
	}, nil)
	require.NoError(t, err)

	for _, pid := range []entity.PlayerID{entity.Player1, entity.Player2} {
		assert.Equal(t, 30, g.Zones().CountIn(entity.ZoneDeck, pid))
	}

	types := make(map[entity.Type]int)
	for _, e := range g.AllEntities() {
		types[e.Type]++
	}
	assert.Equal(t, 1, types[entity.TypeGame])
	assert.Equal(t, 2, types[entity.TypePlayer])
	assert.Equal(t, 2, types[entity.TypeHero])
	assert.Equal(t, 2, types[entity.TypeHeroPower])
	assert.Equal(t, 60, types[entity.TypeCard])
}

func TestDeckRecordStatsRideOnCardEntities(t *testing.T) {
	g, err := New(Config{
		Player1: PlayerConfig{Name: "Alice", Deck: []CardRecord{{
			CardID: "croc",
			Name:   "River Crocolisk",
			Cost:   2,
			Type:   entity.TypeMinion,
			Attack: 2,
			Health: 3,
			Race:   entity.RaceBeast,
		}}},
		Player2: PlayerConfig{Name: "Bob"},
	}, nil)
	require.NoError(t, err)

	card := g.Zones().EntitiesIn(entity.ZoneDeck, entity.Player1)[0]
	d, ok := card.AsCard()
	require.True(t, ok)
	assert.Equal(t, "croc", d.CardID)
	assert.Equal(t, 2, d.Cost)
	assert.Equal(t, string(entity.TypeMinion), card.Extra["becomes"])
	assert.Equal(t, 2, card.Extra["attack"])
	assert.Equal(t, 3, card.Extra["health"])
	assert.Equal(t, string(entity.RaceBeast), card.Extra["race"])
}

func TestPlayerEntitiesFiltersByController(t *testing.T) {
	g := newTestGame(t)

	p1 := g.PlayerEntities(entity.Player1)
	// player + hero + hero power + 5 deck cards
	assert.Len(t, p1, 8)
	for _, e := range p1 {
		assert.Equal(t, entity.Player1, e.Controller)
	}
}
