package battle

import (
	"github.com/KirkDiggler/blur-battle/internal/domain/progression"
	"github.com/KirkDiggler/blur-battle/internal/entities"
)

// State is the battle's position in its turn cycle
type State string

const (
	StatePlayerTurn       State = "player_turn"
	StateEnemyTurnPending State = "enemy_turn_pending"
	StateEnded            State = "ended"
)

// Outcome is how an ended battle finished
type Outcome string

const (
	OutcomeNone    Outcome = ""
	OutcomeVictory Outcome = "victory"
	OutcomeDefeat  Outcome = "defeat"
	OutcomeMercy   Outcome = "mercy"
)

// Action identifies what produced the last state change
type Action string

const (
	ActionNone        Action = "none"
	ActionAttack      Action = "attack"
	ActionDefend      Action = "defend"
	ActionUseItem     Action = "use_item"
	ActionMercy       Action = "mercy"
	ActionEnemyAttack Action = "enemy_attack"
	ActionReset       Action = "reset"
)

// ActionResult describes the most recent action
type ActionResult struct {
	Action  Action `json:"action"`
	Damage  int    `json:"damage"`
	Crit    bool   `json:"crit"`
	Heal    int    `json:"heal"`
	Refused bool   `json:"refused"`
}

// MaxLogEntries bounds the combat log carried in snapshots
const MaxLogEntries = 10

// Snapshot is an immutable copy of the battle handed to listeners
type Snapshot struct {
	BattleID      string               `json:"battle_id"`
	Sequence      uint64               `json:"sequence"` // advances once per published change
	Player        progression.Progress `json:"player"`
	Enemy         entities.Enemy       `json:"enemy"`
	Round         int                  `json:"round"`
	State         State                `json:"state"`
	Outcome       Outcome              `json:"outcome"`
	MercyEligible bool                 `json:"mercy_eligible"`
	Defending     bool                 `json:"defending"`
	LastAction    ActionResult         `json:"last_action"`
	ExpGained     int                  `json:"exp_gained"`
	LevelsGained  int                  `json:"levels_gained"`
	Log           []string             `json:"log"`
}

// IsPlayerTurn reports whether actions are currently accepted
func (s Snapshot) IsPlayerTurn() bool {
	return s.State == StatePlayerTurn
}

// IsEnded reports whether the battle is over
func (s Snapshot) IsEnded() bool {
	return s.State == StateEnded
}
