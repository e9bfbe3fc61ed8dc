// Package game assembles the engine components behind a single facade. The
// facade owns construction order and cross-wiring; the components themselves
// never reach around it to talk to each other.
package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hearthforge/hearth-engine-go/internal/game/entity"
	"github.com/hearthforge/hearth-engine-go/internal/game/rng"
	"github.com/hearthforge/hearth-engine-go/internal/game/rules"
	"github.com/hearthforge/hearth-engine-go/internal/game/sequence"
	"github.com/hearthforge/hearth-engine-go/internal/game/zone"
)

// Status is the coarse lifecycle state of a game.
type Status int

const (
	StatusWaiting Status = iota
	StatusRunning
	StatusComplete
)

var statusNames = map[Status]string{
	StatusWaiting:  "WAITING",
	StatusRunning:  "RUNNING",
	StatusComplete: "COMPLETE",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("STATUS_%d", int(s))
}

const (
	defaultHeroHealth    = 30
	defaultHeroPowerCost = 2
)

// CardRecord describes one card in a starting deck.
type CardRecord struct {
	CardID      string
	Name        string
	Cost        int
	Type        entity.Type // defaults to TypeCard
	Attack      int
	Health      int
	Durability  int
	SpellSchool entity.SpellSchool
	Race        entity.Race
	Rarity      string
	Text        string
}

// PlayerConfig describes one seat of a new game.
type PlayerConfig struct {
	Name       string
	HeroClass  string
	HeroName   string
	HeroHealth int // defaults to 30
	Deck       []CardRecord
}

// Options carries outer-rules settings. The engine stores but does not
// enforce them; turn clocks and turn limits belong to the layer driving the
// facade.
type Options struct {
	MaxTurns      int
	TurnTimeLimit int
	DebugMode     bool
}

// Config describes a new game.
type Config struct {
	Player1 PlayerConfig
	Player2 PlayerConfig
	Options Options
	Seed    int64 // 0 derives a seed from the clock
}

// Game is the engine facade: it builds and owns the entity store, zone
// manager, dispatcher, sequence manager and random service, and exposes the
// operations a driver needs to run a match.
type Game struct {
	id         string
	store      *entity.Store
	zones      *zone.Manager
	dispatcher *rules.Dispatcher
	sequences  *sequence.Manager
	random     *rng.Service
	logger     *zap.Logger

	gameEntity *entity.Entity
	players    map[entity.PlayerID]*entity.Entity

	options   Options
	status    Status
	startTime time.Time
	endTime   time.Time
	winner    entity.PlayerID
}

// New builds a game in the WAITING state with both seats fully populated:
// player, hero, hero power and deck entities.
func New(cfg Config, logger *zap.Logger) (*Game, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	store := entity.NewStore(logger)
	g := &Game{
		id:         uuid.NewString(),
		store:      store,
		zones:      zone.NewManager(store, logger),
		dispatcher: rules.NewDispatcher(logger),
		sequences:  sequence.NewManager(logger),
		random:     rng.NewService(seed, logger),
		logger:     logger,
		players:    make(map[entity.PlayerID]*entity.Entity),
		options:    cfg.Options,
		status:     StatusWaiting,
	}

	turn := 1
	step := entity.StepInvalid
	state := int(StatusWaiting)
	gameEntity, err := store.Create(entity.TypeGame, &entity.Attributes{
		Name: "Game",
		Zone: entity.ZonePlay,
		Tags: map[entity.Tag]entity.TagValue{
			entity.TagTurn:          entity.TagInt(turn),
			entity.TagStep:          entity.TagInt(int(step)),
			entity.TagCurrentPlayer: entity.TagInt(int(entity.Player1)),
		},
		Turn:  &turn,
		Step:  &step,
		State: &state,
	})
	if err != nil {
		return nil, fmt.Errorf("creating game entity: %w", err)
	}
	g.gameEntity = gameEntity

	if err := g.createSeat(entity.Player1, cfg.Player1); err != nil {
		return nil, err
	}
	if err := g.createSeat(entity.Player2, cfg.Player2); err != nil {
		return nil, err
	}

	logger.Info("game created",
		zap.String("game_id", g.id),
		zap.String("player1", cfg.Player1.Name),
		zap.String("player2", cfg.Player2.Name),
		zap.Int64("seed", seed),
	)
	return g, nil
}

// createSeat builds the player, hero, hero power and deck entities for one
// seat and wires them into the player payload.
func (g *Game) createSeat(pid entity.PlayerID, cfg PlayerConfig) error {
	name := cfg.Name
	if name == "" {
		name = fmt.Sprintf("Player %d", int(pid))
	}

	player, err := g.store.Create(entity.TypePlayer, &entity.Attributes{
		Name:       name,
		Controller: pid,
		Zone:       entity.ZonePlay,
		Tags: map[entity.Tag]entity.TagValue{
			entity.TagMana:            entity.TagInt(0),
			entity.TagMaxMana:         entity.TagInt(0),
			entity.TagOverload:        entity.TagInt(0),
			entity.TagPendingOverload: entity.TagInt(0),
			entity.TagPlayState:       entity.TagInt(int(entity.PlayStatePlaying)),
		},
	})
	if err != nil {
		return fmt.Errorf("creating player %d: %w", int(pid), err)
	}

	heroHealth := cfg.HeroHealth
	if heroHealth <= 0 {
		heroHealth = defaultHeroHealth
	}
	heroName := cfg.HeroName
	if heroName == "" {
		heroName = name + "'s Hero"
	}
	heroArmor := 0
	heroAttack := 0
	exhausted := true
	canAttack := false
	hero, err := g.store.Create(entity.TypeHero, &entity.Attributes{
		Name:        heroName,
		Controller:  pid,
		Zone:        entity.ZonePlay,
		Health:      &heroHealth,
		Armor:       &heroArmor,
		Attack:      &heroAttack,
		IsExhausted: &exhausted,
		CanAttack:   &canAttack,
	})
	if err != nil {
		return fmt.Errorf("creating hero for player %d: %w", int(pid), err)
	}
	if cfg.HeroClass != "" {
		hero.Extra = map[string]any{"class": cfg.HeroClass}
	}

	powerCost := defaultHeroPowerCost
	powerReady := false
	canUse := true
	heroPower, err := g.store.Create(entity.TypeHeroPower, &entity.Attributes{
		Name:        heroName + " Power",
		Controller:  pid,
		Zone:        entity.ZonePlay,
		Cost:        &powerCost,
		IsExhausted: &powerReady,
		CanUse:      &canUse,
	})
	if err != nil {
		return fmt.Errorf("creating hero power for player %d: %w", int(pid), err)
	}

	data, _ := player.AsPlayer()
	data.Hero = hero
	data.HeroPower = heroPower

	for i, record := range cfg.Deck {
		cost := record.Cost
		card, err := g.store.Create(entity.TypeCard, &entity.Attributes{
			Name:         record.Name,
			Controller:   pid,
			Zone:         entity.ZoneDeck,
			ZonePosition: i + 1,
			Cost:         &cost,
			CardID:       record.CardID,
			Rarity:       record.Rarity,
			Text:         record.Text,
		})
		if err != nil {
			return fmt.Errorf("creating deck card %q: %w", record.CardID, err)
		}
		// The record's battlefield stats ride along until the card is
		// played and becomes a minion, spell or weapon entity.
		stashCardStats(card, record)
		data.Deck = append(data.Deck, card)
	}

	g.players[pid] = player
	return nil
}

// stashCardStats copies the type-specific fields of a deck record into the
// card entity's extension payload.
func stashCardStats(card *entity.Entity, record CardRecord) {
	if card.Extra == nil {
		card.Extra = make(map[string]any)
	}
	if record.Type != "" && record.Type != entity.TypeCard {
		card.Extra["becomes"] = string(record.Type)
	}
	if record.Attack != 0 {
		card.Extra["attack"] = record.Attack
	}
	if record.Health != 0 {
		card.Extra["health"] = record.Health
	}
	if record.Durability != 0 {
		card.Extra["durability"] = record.Durability
	}
	if record.SpellSchool != "" {
		card.Extra["spellSchool"] = string(record.SpellSchool)
	}
	if record.Race != "" {
		card.Extra["race"] = string(record.Race)
	}
}

// ID returns the game's unique id.
func (g *Game) ID() string { return g.id }

// Status returns the game's lifecycle state.
func (g *Game) Status() Status { return g.status }

// Options returns the outer-rules settings the game was created with.
func (g *Game) Options() Options { return g.options }

// IsRunning reports whether the game has started and not yet ended.
func (g *Game) IsRunning() bool { return g.status == StatusRunning }

// IsComplete reports whether the game has ended.
func (g *Game) IsComplete() bool { return g.status == StatusComplete }

// Start moves the game to RUNNING and dispatches GAME_START with the game
// entity as both source and target.
func (g *Game) Start() error {
	if g.status != StatusWaiting {
		return fmt.Errorf("game %s already started", g.id)
	}
	g.status = StatusRunning
	g.startTime = time.Now()
	g.setStatusTag(StatusRunning)
	g.setStep(entity.StepBeginFirst)

	g.logger.Info("game started", zap.String("game_id", g.id))

	evt := rules.NewEvent(rules.EventGameStart, g.gameEntity, g.gameEntity)
	evt.Data["gameId"] = g.id
	g.dispatcher.Dispatch(evt)
	return nil
}

// End moves the game to COMPLETE, records the winner and dispatches GAME_END
// carrying the winner and the match duration.
func (g *Game) End(winner entity.PlayerID) error {
	if g.status != StatusRunning {
		return fmt.Errorf("game %s is not running", g.id)
	}
	g.status = StatusComplete
	g.endTime = time.Now()
	g.winner = winner
	g.setStatusTag(StatusComplete)
	g.setStep(entity.StepFinalGameover)

	if winner.Valid() {
		g.setPlayState(winner, entity.PlayStateWon)
		g.setPlayState(winner.Opponent(), entity.PlayStateLost)
	} else {
		g.setPlayState(entity.Player1, entity.PlayStateTied)
		g.setPlayState(entity.Player2, entity.PlayStateTied)
	}

	duration := g.endTime.Sub(g.startTime)
	g.logger.Info("game ended",
		zap.String("game_id", g.id),
		zap.Int("winner", int(winner)),
		zap.Duration("duration", duration),
	)

	evt := rules.NewEvent(rules.EventGameEnd, g.gameEntity, g.gameEntity)
	evt.Data["winner"] = int(winner)
	evt.Data["duration"] = duration.String()
	g.dispatcher.Dispatch(evt)
	return nil
}

// SetState performs a caller-driven lifecycle transition, bypassing the
// single-predecessor guards of Start and End. No lifecycle event is
// dispatched; drivers that want one use Start/End.
func (g *Game) SetState(s Status) {
	g.status = s
	g.setStatusTag(s)
	g.logger.Debug("game state set",
		zap.String("game_id", g.id),
		zap.String("state", s.String()),
	)
}

// Winner returns the winning seat; the second result is false for games that
// have not ended or ended in a tie.
func (g *Game) Winner() (entity.PlayerID, bool) {
	return g.winner, g.status == StatusComplete && g.winner.Valid()
}

// Duration returns the match length, or the running time for a live game.
func (g *Game) Duration() time.Duration {
	if g.startTime.IsZero() {
		return 0
	}
	if g.endTime.IsZero() {
		return time.Since(g.startTime)
	}
	return g.endTime.Sub(g.startTime)
}

// GameEntity returns the root game entity.
func (g *Game) GameEntity() *entity.Entity { return g.gameEntity }

// Player returns the player entity for a seat, or nil for an invalid seat.
func (g *Game) Player(pid entity.PlayerID) *entity.Entity {
	return g.players[pid]
}

// CurrentPlayer returns the player entity whose turn it is.
func (g *Game) CurrentPlayer() *entity.Entity {
	return g.players[g.currentSeat()]
}

// Opponent returns the player entity opposing the current player.
func (g *Game) Opponent() *entity.Entity {
	return g.players[g.currentSeat().Opponent()]
}

// SetCurrentPlayer hands the turn marker to a seat.
func (g *Game) SetCurrentPlayer(pid entity.PlayerID) {
	if !pid.Valid() {
		return
	}
	g.gameEntity.SetTag(entity.TagCurrentPlayer, entity.TagInt(int(pid)))
}

// Turn returns the current turn number.
func (g *Game) Turn() int {
	data, _ := g.gameEntity.AsGame()
	return data.Turn
}

// Entity returns any entity by id, or nil.
func (g *Game) Entity(id entity.ID) *entity.Entity {
	return g.store.Get(id)
}

// AllEntities returns every live entity.
func (g *Game) AllEntities() []*entity.Entity {
	return g.store.All()
}

// PlayerEntities returns every live entity controlled by a seat.
func (g *Game) PlayerEntities(pid entity.PlayerID) []*entity.Entity {
	return g.store.Query(func(e *entity.Entity) bool {
		return e.Controller == pid
	})
}

// StartTurn makes pid the current player, advances the turn counter when the
// marker wraps back to the first seat, and dispatches TURN_START. The whole
// thing runs as a TURN_START sequence.
func (g *Game) StartTurn(pid entity.PlayerID) {
	if !g.IsRunning() || !pid.Valid() {
		return
	}
	g.sequences.Start(sequence.NewFunc(sequence.TypeTurnStart, func() {
		data, _ := g.gameEntity.AsGame()
		if pid == entity.Player1 && g.currentSeat() == entity.Player2 {
			data.Turn++
			g.gameEntity.SetTag(entity.TagTurn, entity.TagInt(data.Turn))
		}
		g.SetCurrentPlayer(pid)
		g.setStep(entity.StepMainStart)

		g.dispatcher.Dispatch(rules.NewTurnEvent(
			rules.EventTurnStart, g.gameEntity, g.players[pid], data.Turn))
		g.setStep(entity.StepMainAction)
	}))
	g.sequences.EndCurrent()
}

// EndTurn dispatches TURN_END for the current player and starts the
// opponent's turn.
func (g *Game) EndTurn() {
	if !g.IsRunning() {
		return
	}
	current := g.currentSeat()
	g.sequences.Start(sequence.NewFunc(sequence.TypeTurnEnd, func() {
		g.setStep(entity.StepMainEnd)
		g.dispatcher.Dispatch(rules.NewTurnEvent(
			rules.EventTurnEnd, g.gameEntity, g.players[current], g.Turn()))
		g.setStep(entity.StepMainCleanup)
	}))
	g.sequences.EndCurrent()
	g.StartTurn(current.Opponent())
}

// Store returns the entity store.
func (g *Game) Store() *entity.Store { return g.store }

// Zones returns the zone manager.
func (g *Game) Zones() *zone.Manager { return g.zones }

// Dispatcher returns the trigger registry and event dispatcher.
func (g *Game) Dispatcher() *rules.Dispatcher { return g.dispatcher }

// Events returns the observer bus. Subscribers see every event exactly once,
// after its triggers have resolved; they cannot veto or reorder anything.
func (g *Game) Events() *rules.EventBus { return g.dispatcher.Bus() }

// Sequences returns the sequence manager.
func (g *Game) Sequences() *sequence.Manager { return g.sequences }

// Random returns the random service.
func (g *Game) Random() *rng.Service { return g.random }

func (g *Game) currentSeat() entity.PlayerID {
	pid := entity.PlayerID(g.gameEntity.TagInt(entity.TagCurrentPlayer))
	if !pid.Valid() {
		return entity.Player1
	}
	return pid
}

func (g *Game) setStep(step entity.GameStep) {
	data, _ := g.gameEntity.AsGame()
	data.Step = step
	g.gameEntity.SetTag(entity.TagStep, entity.TagInt(int(step)))
}

func (g *Game) setStatusTag(s Status) {
	data, _ := g.gameEntity.AsGame()
	data.State = int(s)
}

func (g *Game) setPlayState(pid entity.PlayerID, ps entity.PlayState) {
	if player := g.players[pid]; player != nil {
		player.SetTag(entity.TagPlayState, entity.TagInt(int(ps)))
	}
}
