// internal/council/weights.go
package council

import "strings"

// WeightStrategy selects how per-role vote weights are chosen.
type WeightStrategy string

const (
	WeightEqual      WeightStrategy = "equal"
	WeightContextual WeightStrategy = "contextual"
	WeightAdaptive   WeightStrategy = "adaptive"
)

// Weights is the per-role coefficient vector applied to vote scores.
type Weights map[Role]float64

// adaptiveWeights is the hand-tuned default vector.
var adaptiveWeights = Weights{
	RoleAnalyst:    1.1,
	RoleBuilder:    1.0,
	RoleStrategist: 1.2,
	RoleAuditor:    1.1,
	RoleModerator:  1.0,
}

// contextualRule maps question keywords to a weight vector. Rules are
// checked in order; the first rule with any keyword appearing as a
// substring of the lowercased question wins.
type contextualRule struct {
	keywords []string
	weights  Weights
}

var contextualRules = []contextualRule{
	{
		keywords: []string{"implement", "build", "code", "develop", "deploy"},
		weights: Weights{
			RoleAnalyst:    1.2,
			RoleBuilder:    1.5,
			RoleStrategist: 0.8,
			RoleAuditor:    1.1,
			RoleModerator:  1.0,
		},
	},
	{
		keywords: []string{"security", "safety", "risk", "vulnerab"},
		weights: Weights{
			RoleAnalyst:    1.0,
			RoleBuilder:    0.9,
			RoleStrategist: 1.2,
			RoleAuditor:    1.5,
			RoleModerator:  1.0,
		},
	},
	{
		keywords: []string{"ethic", "moral", "fair", "privacy"},
		weights: Weights{
			RoleAnalyst:    1.0,
			RoleBuilder:    0.8,
			RoleStrategist: 1.6,
			RoleAuditor:    1.2,
			RoleModerator:  1.0,
		},
	},
	{
		keywords: []string{"design", "architect", "structure", "plan"},
		weights: Weights{
			RoleAnalyst:    1.5,
			RoleBuilder:    1.1,
			RoleStrategist: 1.0,
			RoleAuditor:    1.0,
			RoleModerator:  1.0,
		},
	},
}

// WeightsFor resolves the weight vector for a strategy and question.
// Contextual weighting that matches no rule falls through to the
// adaptive default.
func WeightsFor(strategy WeightStrategy, question string) Weights {
	switch strategy {
	case WeightEqual:
		w := make(Weights, len(AllRoles))
		for _, r := range AllRoles {
			w[r] = 1.0
		}
		return w
	case WeightContextual:
		lower := strings.ToLower(question)
		for _, rule := range contextualRules {
			for _, kw := range rule.keywords {
				if strings.Contains(lower, kw) {
					return rule.weights
				}
			}
		}
		return adaptiveWeights
	default: // adaptive
		return adaptiveWeights
	}
}
