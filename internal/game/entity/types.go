package entity

import "fmt"

// ID identifies an entity for the lifetime of the store. Released ids are
// pooled and may be reissued to later creations.
type ID int

// PlayerID identifies one of the two seats in a game.
type PlayerID int

const (
	Player1 PlayerID = 1
	Player2 PlayerID = 2
)

// Opponent returns the other seat.
func (p PlayerID) Opponent() PlayerID {
	if p == Player1 {
		return Player2
	}
	return Player1
}

// Valid reports whether the id names an actual seat.
func (p PlayerID) Valid() bool {
	return p == Player1 || p == Player2
}

// Type classifies an entity. The type is fixed at construction and never
// changes afterwards.
type Type string

const (
	TypeGame        Type = "GAME"
	TypePlayer      Type = "PLAYER"
	TypeHero        Type = "HERO"
	TypeMinion      Type = "MINION"
	TypeSpell       Type = "SPELL"
	TypeWeapon      Type = "WEAPON"
	TypeHeroPower   Type = "HERO_POWER"
	TypeEnchantment Type = "ENCHANTMENT"
	TypeCard        Type = "CARD"
)

// Zone names a partition of entities per controller.
type Zone string

const (
	ZonePlay      Zone = "PLAY"
	ZoneHand      Zone = "HAND"
	ZoneDeck      Zone = "DECK"
	ZoneGraveyard Zone = "GRAVEYARD"
	ZoneSecret    Zone = "SECRET"
	ZoneSetAside  Zone = "SETASIDE"
	ZoneRemoved   Zone = "REMOVED"
)

// GameStep enumerates the fine-grained steps of a game, stored as the STEP
// tag on the root game entity.
type GameStep int

const (
	StepInvalid GameStep = iota
	StepBeginFirst
	StepBeginShuffle
	StepBeginDraw
	StepBeginMulligan
	StepMainReady
	StepMainStartTriggers
	StepMainStart
	StepMainAction
	StepMainEnd
	StepMainCleanup
	StepMainNext
	StepFinalWrapup
	StepFinalGameover
)

var stepNames = map[GameStep]string{
	StepInvalid:           "INVALID",
	StepBeginFirst:        "BEGIN_FIRST",
	StepBeginShuffle:      "BEGIN_SHUFFLE",
	StepBeginDraw:         "BEGIN_DRAW",
	StepBeginMulligan:     "BEGIN_MULLIGAN",
	StepMainReady:         "MAIN_READY",
	StepMainStartTriggers: "MAIN_START_TRIGGERS",
	StepMainStart:         "MAIN_START",
	StepMainAction:        "MAIN_ACTION",
	StepMainEnd:           "MAIN_END",
	StepMainCleanup:       "MAIN_CLEANUP",
	StepMainNext:          "MAIN_NEXT",
	StepFinalWrapup:       "FINAL_WRAPUP",
	StepFinalGameover:     "FINAL_GAMEOVER",
}

func (s GameStep) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("STEP_%d", int(s))
}

// PlayState tracks a player's standing within the game, stored as the
// PLAYSTATE tag.
type PlayState int

const (
	PlayStateInvalid PlayState = iota
	PlayStatePlaying
	PlayStateWinning
	PlayStateLosing
	PlayStateWon
	PlayStateLost
	PlayStateTied
	PlayStateDisconnected
	PlayStateQuit
)

var playStateNames = map[PlayState]string{
	PlayStateInvalid:      "INVALID",
	PlayStatePlaying:      "PLAYING",
	PlayStateWinning:      "WINNING",
	PlayStateLosing:       "LOSING",
	PlayStateWon:          "WON",
	PlayStateLost:         "LOST",
	PlayStateTied:         "TIED",
	PlayStateDisconnected: "DISCONNECTED",
	PlayStateQuit:         "QUIT",
}

func (ps PlayState) String() string {
	if name, ok := playStateNames[ps]; ok {
		return name
	}
	return fmt.Sprintf("PLAYSTATE_%d", int(ps))
}

// Race is a minion tribe.
type Race string

const (
	RaceNone      Race = "NONE"
	RaceBeast     Race = "BEAST"
	RaceDragon    Race = "DRAGON"
	RaceDemon     Race = "DEMON"
	RaceElemental Race = "ELEMENTAL"
	RaceMech      Race = "MECH"
	RaceMurloc    Race = "MURLOC"
	RacePirate    Race = "PIRATE"
	RaceTotem     Race = "TOTEM"
	RaceAll       Race = "ALL"
)

// SpellSchool is a spell's school of magic.
type SpellSchool string

const (
	SchoolArcane   SpellSchool = "ARCANE"
	SchoolFire     SpellSchool = "FIRE"
	SchoolFrost    SpellSchool = "FROST"
	SchoolNature   SpellSchool = "NATURE"
	SchoolHoly     SpellSchool = "HOLY"
	SchoolShadow   SpellSchool = "SHADOW"
	SchoolFel      SpellSchool = "FEL"
	SchoolPhysical SpellSchool = "PHYSICAL"
	SchoolSecret   SpellSchool = "SECRET"
	SchoolQuest    SpellSchool = "QUEST"
)

// Keyword is a card mechanic keyword.
type Keyword string

const (
	KeywordTaunt        Keyword = "TAUNT"
	KeywordStealth      Keyword = "STEALTH"
	KeywordDivineShield Keyword = "DIVINE_SHIELD"
	KeywordPoisonous    Keyword = "POISONOUS"
	KeywordLifesteal    Keyword = "LIFESTEAL"
	KeywordCharge       Keyword = "CHARGE"
	KeywordRush         Keyword = "RUSH"
	KeywordWindfury     Keyword = "WINDFURY"
	KeywordDeathrattle  Keyword = "DEATHRATTLE"
	KeywordBattlecry    Keyword = "BATTLECRY"
	KeywordCombo        Keyword = "COMBO"
	KeywordChooseOne    Keyword = "CHOOSE_ONE"
	KeywordEcho         Keyword = "ECHO"
	KeywordReborn       Keyword = "REBORN"
	KeywordOverkill     Keyword = "OVERKILL"
	KeywordSpellDamage  Keyword = "SPELL_DAMAGE"
)

// VictoryType records how a game ended.
type VictoryType string

const (
	VictoryWin        VictoryType = "WIN"
	VictoryLoss       VictoryType = "LOSS"
	VictoryTie        VictoryType = "TIE"
	VictoryConcede    VictoryType = "CONCEDE"
	VictoryDisconnect VictoryType = "DISCONNECT"
)
