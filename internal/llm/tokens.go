// internal/llm/tokens.go
package llm

// EstimateTokens approximates token count at 4 characters per token,
// rounded up. Advisory only; never used to abort a run.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	return (len(text) + 3) / 4
}

// Usage accumulates estimated token consumption across calls.
type Usage struct {
	Estimated int `json:"estimated"`
	Used      int `json:"used"`
}

// Record adds the estimated cost of one prompt+response pair.
func (u *Usage) Record(prompt, response string) {
	u.Used += EstimateTokens(prompt) + EstimateTokens(response)
}
