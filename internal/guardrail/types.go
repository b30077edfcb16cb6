package guardrail

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rampart-ai/rampart/internal/policy"
)

// Decision is the outcome class of one guardrail evaluation.
type Decision string

const (
	// DecisionSafe means the judge found no policy violation.
	DecisionSafe Decision = "SAFE"

	// DecisionHarmful means the judge found a policy violation.
	DecisionHarmful Decision = "HARMFUL"

	// DecisionError means safety could not be determined (judge unreachable
	// or unintelligible). Callers must treat this as "could not confirm",
	// never as safe.
	DecisionError Decision = "ERROR"
)

// String returns the string representation of the Decision
func (d Decision) String() string {
	return string(d)
}

// IsValid checks if the decision is a valid value
func (d Decision) IsValid() bool {
	switch d {
	case DecisionSafe, DecisionHarmful, DecisionError:
		return true
	default:
		return false
	}
}

// MarshalJSON implements json.Marshaler
func (d Decision) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(d))
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Decision) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	decision := Decision(str)
	if !decision.IsValid() {
		return fmt.Errorf("invalid decision: %s", str)
	}

	*d = decision
	return nil
}

// Verdict is the structured outcome of one guardrail evaluation.
type Verdict struct {
	// Decision classifies the evaluated text
	Decision Decision `json:"decision"`

	// Reason is a human-readable explanation grounded in the policy context
	Reason string `json:"reason"`

	// Citations lists the IDs of policy documents the judge relied on
	Citations []string `json:"citations,omitempty"`

	// Elapsed is the wall-clock duration of the evaluation
	Elapsed time.Duration `json:"elapsed"`
}

// IsSafe returns true if the text was judged compliant.
func (v Verdict) IsSafe() bool {
	return v.Decision == DecisionSafe
}

// IsHarmful returns true if the text was judged violating.
func (v Verdict) IsHarmful() bool {
	return v.Decision == DecisionHarmful
}

// IsError returns true if safety could not be determined.
func (v Verdict) IsError() bool {
	return v.Decision == DecisionError
}

// SafeVerdict creates a SAFE verdict with the given reason.
func SafeVerdict(reason string, elapsed time.Duration) Verdict {
	return Verdict{Decision: DecisionSafe, Reason: reason, Elapsed: elapsed}
}

// HarmfulVerdict creates a HARMFUL verdict with the given reason.
func HarmfulVerdict(reason string, elapsed time.Duration) Verdict {
	return Verdict{Decision: DecisionHarmful, Reason: reason, Elapsed: elapsed}
}

// ErrorVerdict creates an ERROR verdict with the given reason.
func ErrorVerdict(reason string, elapsed time.Duration) Verdict {
	return Verdict{Decision: DecisionError, Reason: reason, Elapsed: elapsed}
}

// AssembledContext is the bounded policy context handed to the judge. It
// keeps the documents that made it into the context so verdict citations can
// be cross-checked against what the judge actually saw.
type AssembledContext struct {
	// Text is the combined policy text, within the token budget
	Text string `json:"text"`

	// Documents are the retained documents, in rank order
	Documents []policy.Document `json:"documents"`

	// EstimatedTokens is the token estimate for Text
	EstimatedTokens int `json:"estimated_tokens"`
}

// Empty returns true if no policy text survived assembly.
func (c AssembledContext) Empty() bool {
	return c.Text == ""
}
