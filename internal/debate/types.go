// internal/debate/types.go
package debate

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/podsni/symposium/internal/llm"
	"github.com/podsni/symposium/internal/voting"
)

// Format selects the shape of the round loop.
type Format string

const (
	FormatVoting     Format = "voting"
	FormatClassic    Format = "classic"
	FormatTournament Format = "tournament"
	FormatTeam       Format = "team"
	FormatPanel      Format = "panel"
)

// Status is the session lifecycle state.
type Status string

const (
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusPaused     Status = "paused"
	StatusStopped    Status = "stopped"
)

// RoundType tags what kind of round produced the arguments.
type RoundType string

const (
	RoundOpening  RoundType = "opening"
	RoundArgument RoundType = "argument"
	RoundRebuttal RoundType = "rebuttal"
	RoundVoting   RoundType = "voting"
	RoundJudge    RoundType = "judge"
)

// Debater is a persona bound to a provider/model. Trait values are fixed
// at creation; only InternalBelief is mutated, once per round, by the
// belief-update rule.
type Debater struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Icon        string      `json:"icon"`
	Binding     llm.Binding `json:"binding"`
	Perspective string      `json:"perspective"`

	// Personality traits, each in [0,1].
	BeliefPersistence float64 `json:"beliefPersistence"`
	ReasoningDepth    float64 `json:"reasoningDepth"`
	TruthSeeking      float64 `json:"truthSeeking"`

	// InternalBelief is the agent's private position in [0,1]; nil until
	// the first belief update.
	InternalBelief *float64 `json:"internalBelief,omitempty"`

	Team string `json:"team,omitempty"`
}

// Argument is one debater's contribution in one round. Immutable once
// appended.
type Argument struct {
	DebaterID string   `json:"debaterId"`
	Content   string   `json:"content"`
	CreatedAt int64    `json:"createdAt"` // milliseconds since epoch
	Belief    *float64 `json:"belief,omitempty"`
}

// Round holds one round's ordered arguments plus any votes gathered
// afterwards. Appended to the session when complete; only votes and the
// consensus flag are attached after that.
type Round struct {
	Index            int             `json:"index"`
	Type             RoundType       `json:"type"`
	Arguments        []Argument      `json:"arguments"`
	Votes            []voting.Ballot `json:"votes,omitempty"`
	ConsensusReached *bool           `json:"consensusReached,omitempty"`
}

// Team groups debaters for the team format.
type Team struct {
	Name       string   `json:"name"`
	DebaterIDs []string `json:"debaterIds"`
}

// Match is one tournament pairing. B is empty for an auto-advance.
type Match struct {
	A        string `json:"a"`
	B        string `json:"b,omitempty"`
	WinnerID string `json:"winnerId"`
}

// Bracket records the tournament structure round by round.
type Bracket struct {
	Rounds [][]Match `json:"rounds"`
}

// Session is the debate aggregate root. Plain data, JSON-serializable:
// it crosses the persistence and export boundaries.
type Session struct {
	ID                 string          `json:"id"`
	Question           string          `json:"question"`
	Format             Format          `json:"format"`
	VotingSystem       voting.System   `json:"votingSystem"`
	Debaters           []Debater       `json:"debaters"`
	Rounds             []Round         `json:"rounds"`
	ConsensusThreshold float64         `json:"consensusThreshold"`
	MaxRounds          int             `json:"maxRounds"`
	FinalDecision      string          `json:"finalDecision,omitempty"`
	WinnerID           string          `json:"winnerId,omitempty"`
	Teams              []Team          `json:"teams,omitempty"`
	Bracket            *Bracket        `json:"bracket,omitempty"`
	Analytics          json.RawMessage `json:"analytics,omitempty"`

	Status    Status   `json:"status"`
	Tags      []string `json:"tags,omitempty"`
	Notes     string   `json:"notes,omitempty"`
	Resumable bool     `json:"resumable"`
	CreatedAt int64    `json:"createdAt"`
	UpdatedAt int64    `json:"updatedAt"`
}

// NewSession creates a session in its initial state. Debaters are used in
// registration order for the whole session.
func NewSession(question string, format Format, system voting.System, debaters []Debater, threshold float64, maxRounds int) *Session {
	now := nowMillis()
	return &Session{
		ID:                 uuid.NewString(),
		Question:           question,
		Format:             format,
		VotingSystem:       system,
		Debaters:           debaters,
		Rounds:             []Round{},
		ConsensusThreshold: threshold,
		MaxRounds:          maxRounds,
		Status:             StatusInProgress,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// Debater returns the debater with the given id, or nil.
func (s *Session) Debater(id string) *Debater {
	for i := range s.Debaters {
		if s.Debaters[i].ID == id {
			return &s.Debaters[i]
		}
	}
	return nil
}

// DebaterIDs returns ids in registration order.
func (s *Session) DebaterIDs() []string {
	ids := make([]string, len(s.Debaters))
	for i, d := range s.Debaters {
		ids[i] = d.ID
	}
	return ids
}

// DebaterName resolves an id to a display name, falling back to the id.
func (s *Session) DebaterName(id string) string {
	if d := s.Debater(id); d != nil {
		return d.Name
	}
	return id
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}
