// Package model contains domain values passed between layers.
package model

// Outcome is the resolution of a presented pair.
type Outcome string

// Possible outcomes of a comparison.
const (
	OutcomeAWins Outcome = "a_wins"
	OutcomeBWins Outcome = "b_wins"
	OutcomeTie   Outcome = "tie"
	OutcomeSkip  Outcome = "skip"
)

// ParseOutcome validates a wire-format outcome string.
func ParseOutcome(s string) (Outcome, error) {
	switch Outcome(s) {
	case OutcomeAWins, OutcomeBWins, OutcomeTie, OutcomeSkip:
		return Outcome(s), nil
	}
	return "", ErrUnknownOutcome
}

// RatingAffecting reports whether the outcome mutates rating tables.
// A skip is recorded in the sequence but never touches scores.
func (o Outcome) RatingAffecting() bool {
	return o != OutcomeSkip
}

// Pair is an ordered pair of two distinct items offered for comparison.
// Image fields are presentation metadata filled in by the media adapter;
// the rating core never interprets them.
type Pair struct {
	ID     string `json:"pair_id"`
	A      string `json:"a"`
	B      string `json:"b"`
	ImageA string `json:"image_a,omitempty"`
	ImageB string `json:"image_b,omitempty"`
}

// Judgment couples a presented pair with its resolved outcome.
type Judgment struct {
	PairID  string
	A       string
	B       string
	Outcome Outcome
}
