// internal/council/types.go
package council

import (
	"time"

	"github.com/google/uuid"

	"github.com/podsni/symposium/internal/llm"
)

// Role is one of the five fixed council seats.
type Role string

const (
	RoleAnalyst    Role = "analyst"
	RoleBuilder    Role = "builder"
	RoleStrategist Role = "strategist"
	RoleAuditor    Role = "auditor"
	RoleModerator  Role = "moderator"
)

// VotingRoles are the four seats that opine, propose and vote. The
// moderator only synthesizes.
var VotingRoles = []Role{RoleAnalyst, RoleBuilder, RoleStrategist, RoleAuditor}

// AllRoles lists every seat in fixed order.
var AllRoles = []Role{RoleAnalyst, RoleBuilder, RoleStrategist, RoleAuditor, RoleModerator}

// Profile is a role's immutable identity: prompt and focus dimensions.
type Profile struct {
	Role   Role
	Name   string
	Prompt string
	Focus  []string
}

var profiles = map[Role]Profile{
	RoleAnalyst: {
		Role:   RoleAnalyst,
		Name:   "Analyst",
		Prompt: "You are the council's analyst. Decompose the problem, surface the constraints and trade-offs, and reason from first principles. You care most about logical soundness.",
		Focus:  []string{"logic", "feasibility"},
	},
	RoleBuilder: {
		Role:   RoleBuilder,
		Name:   "Builder",
		Prompt: "You are the council's builder. Think in concrete implementation terms: what can actually be built, in what order, with what effort. You care most about feasibility and practical benefit.",
		Focus:  []string{"feasibility", "benefit"},
	},
	RoleStrategist: {
		Role:   RoleStrategist,
		Name:   "Strategist",
		Prompt: "You are the council's strategist. Weigh long-term consequences, second-order effects and ethical implications. You hold the ethics veto: flag anything that crosses a line.",
		Focus:  []string{"ethics", "benefit"},
	},
	RoleAuditor: {
		Role:   RoleAuditor,
		Name:   "Auditor",
		Prompt: "You are the council's auditor. Hunt for failure modes, safety hazards and hidden costs in every plan. Assume things go wrong and ask what happens then.",
		Focus:  []string{"safety", "logic"},
	},
	RoleModerator: {
		Role:   RoleModerator,
		Name:   "Moderator",
		Prompt: "You are the council's moderator. You do not advocate a position; you synthesize the council's work into a balanced final decision, honestly representing dissent.",
		Focus:  []string{},
	},
}

// ProfileFor returns a role's immutable profile.
func ProfileFor(role Role) Profile {
	return profiles[role]
}

// Mode parameterizes a council run.
type Mode string

const (
	ModeQuick        Mode = "quick"
	ModeDeliberative Mode = "deliberative"
	ModeEthical      Mode = "ethical"
	ModeBuilder      Mode = "builder"
)

// Params are the knobs a mode fixes.
type Params struct {
	MaxDebateRounds   int
	VetoEnabled       bool
	EthicsThreshold   int
	WeightStrategy    WeightStrategy
	ReflectionEnabled bool
}

// ParamsFor maps a mode to its parameters. Unknown modes behave like
// deliberative.
func ParamsFor(mode Mode) Params {
	switch mode {
	case ModeQuick:
		return Params{MaxDebateRounds: 1, VetoEnabled: false, EthicsThreshold: 5, WeightStrategy: WeightContextual, ReflectionEnabled: false}
	case ModeEthical:
		return Params{MaxDebateRounds: 2, VetoEnabled: true, EthicsThreshold: 6, WeightStrategy: WeightAdaptive, ReflectionEnabled: true}
	case ModeBuilder:
		return Params{MaxDebateRounds: 2, VetoEnabled: false, EthicsThreshold: 5, WeightStrategy: WeightContextual, ReflectionEnabled: false}
	default: // deliberative
		return Params{MaxDebateRounds: 3, VetoEnabled: true, EthicsThreshold: 5, WeightStrategy: WeightAdaptive, ReflectionEnabled: true}
	}
}

// Stage names the pipeline phases, in execution order.
type Stage string

const (
	StageOpinions   Stage = "opinions"
	StageDebate     Stage = "debate"
	StageProposals  Stage = "proposals"
	StageVoting     Stage = "voting"
	StageDecision   Stage = "decision"
	StageReflection Stage = "reflection"
)

// StageOrder is the fixed pipeline sequence.
var StageOrder = []Stage{StageOpinions, StageDebate, StageProposals, StageVoting, StageDecision, StageReflection}

// StageStatus is the explicit per-stage completion marker. Completeness
// is never inferred from collection lengths.
type StageStatus string

const (
	StageNotStarted StageStatus = "not-started"
	StageInProgress StageStatus = "in-progress"
	StageDone       StageStatus = "done"
)

// Opinion is one role's contribution: round 0 for the initial opinion
// stage, 1..N for debate rounds.
type Opinion struct {
	Role      Role   `json:"role"`
	Round     int    `json:"round"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"createdAt"`
}

// Proposal is one role's structured solution.
type Proposal struct {
	ID          string   `json:"id"`
	Role        Role     `json:"role"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Steps       []string `json:"steps"`
	Risks       []string `json:"risks"`
	Benefits    []string `json:"benefits"`
	Fallback    bool     `json:"fallback,omitempty"` // raw-text fallback was used
	CreatedAt   int64    `json:"createdAt"`
}

// DimensionScores are the five voting dimensions, each in [1,10].
type DimensionScores struct {
	Logic       int `json:"logic"`
	Feasibility int `json:"feasibility"`
	Safety      int `json:"safety"`
	Benefit     int `json:"benefit"`
	Ethics      int `json:"ethics"`
}

// Mean is the arithmetic mean of the five dimensions.
func (d DimensionScores) Mean() float64 {
	return float64(d.Logic+d.Feasibility+d.Safety+d.Benefit+d.Ethics) / 5
}

// Vote is one role's scoring of one proposal. Veto is recorded whenever
// the strategist's ethics score falls below the mode threshold; whether
// it excludes the proposal depends on the mode.
type Vote struct {
	Role       Role            `json:"role"`
	ProposalID string          `json:"proposalId"`
	Scores     DimensionScores `json:"scores"`
	Overall    float64         `json:"overall"`
	Veto       bool            `json:"veto,omitempty"`
	Reasoning  string          `json:"reasoning"`
	CreatedAt  int64           `json:"createdAt"`
}

// Decision is the moderator's synthesized outcome.
type Decision struct {
	SelectedProposalID string   `json:"selectedProposalId"`
	FinalScore         float64  `json:"finalScore"`
	Reasoning          string   `json:"reasoning"`
	Recommendations    []string `json:"recommendations"`
	Risks              []string `json:"risks"`
	Mitigations        []string `json:"mitigations"`
	Consensus          float64  `json:"consensus"` // 0-10
	MinorityNotes      []string `json:"minorityNotes,omitempty"`
}

// Reflection is the council's qualitative post-mortem.
type Reflection struct {
	WentWell          []string `json:"wentWell"`
	CouldHaveImproved []string `json:"couldHaveImproved"`
	Learnings         []string `json:"learnings"`
	Summary           string   `json:"summary"`
}

// RunState is the session's run-control state.
type RunState string

const (
	StateRunning   RunState = "running"
	StatePaused    RunState = "paused"
	StateCompleted RunState = "completed"
	StateError     RunState = "error"
)

// Session is the council aggregate root. Plain JSON-serializable data.
type Session struct {
	ID       string               `json:"id"`
	Question string               `json:"question"`
	Mode     Mode                 `json:"mode"`
	Bindings map[Role]llm.Binding `json:"bindings"`

	Opinions   []Opinion             `json:"opinions"`
	Proposals  []Proposal            `json:"proposals"`
	Votes      []Vote                `json:"votes"`
	Decision   *Decision             `json:"decision,omitempty"`
	Reflection *Reflection           `json:"reflection,omitempty"`
	Stages     map[Stage]StageStatus `json:"stages"`

	State  RunState  `json:"state"`
	Error  string    `json:"error,omitempty"`
	Tokens llm.Usage `json:"tokens"`

	CreatedAt int64 `json:"createdAt"`
	UpdatedAt int64 `json:"updatedAt"`
}

// NewSession creates a council session with every stage not started.
// bindings maps each role to its provider/model; a missing role falls
// back to the zero binding and will fail at call time.
func NewSession(question string, mode Mode, bindings map[Role]llm.Binding) *Session {
	now := time.Now().UnixMilli()
	stages := make(map[Stage]StageStatus, len(StageOrder))
	for _, st := range StageOrder {
		stages[st] = StageNotStarted
	}
	return &Session{
		ID:        uuid.NewString(),
		Question:  question,
		Mode:      mode,
		Bindings:  bindings,
		Opinions:  []Opinion{},
		Proposals: []Proposal{},
		Votes:     []Vote{},
		Stages:    stages,
		State:     StateRunning,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ProposalByID returns the proposal with the given id, or nil.
func (s *Session) ProposalByID(id string) *Proposal {
	for i := range s.Proposals {
		if s.Proposals[i].ID == id {
			return &s.Proposals[i]
		}
	}
	return nil
}

// NewProposalID mints a proposal id.
func NewProposalID() string {
	return uuid.NewString()
}
