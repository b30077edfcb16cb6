package guardrail

import (
	"strings"
	"unicode/utf8"

	"github.com/rampart-ai/rampart/internal/policy"
)

// charsPerToken is the fixed characters-per-token ratio used for token
// estimation. The estimate does not need to be exact, only deterministic and
// monotonic so that truncation is reproducible.
const charsPerToken = 3

// minTruncatedChars is the smallest truncated-document fragment worth
// including; anything shorter carries no usable policy signal.
const minTruncatedChars = 100

// Assembler builds a bounded, deterministically ordered context string from
// ranked retrieval results.
type Assembler struct {
	maxTokens int
}

// NewAssembler creates an Assembler with the given token budget.
func NewAssembler(maxTokens int) *Assembler {
	return &Assembler{maxTokens: maxTokens}
}

// EstimateTokens returns the deterministic token estimate for text.
// Longer text always estimates to equal or more tokens.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	est := len(text) / charsPerToken
	if est < 1 {
		return 1
	}
	return est
}

// Assemble walks the ranked result list in order, accumulating documents
// while the running token estimate stays within budget. It stops at the first
// document that would exceed the budget; documents are never reordered and
// never partially included, with one exception: if the very first document
// alone exceeds the budget it is included truncated to the budget, because an
// empty context is a worse failure than a truncated one.
func (a *Assembler) Assemble(results policy.RetrievalResult) AssembledContext {
	if results.Empty() {
		return AssembledContext{}
	}

	var sb strings.Builder
	kept := make([]policy.Document, 0, len(results.Documents))
	used := 0

	for i, sd := range results.Documents {
		docTokens := EstimateTokens(sd.Document.Content)

		if used+docTokens > a.maxTokens {
			if i == 0 {
				remaining := (a.maxTokens - used) * charsPerToken
				if remaining > minTruncatedChars {
					truncated := truncateToRune(sd.Document.Content, remaining)
					sb.WriteString(truncated)
					sb.WriteString("...")
					kept = append(kept, sd.Document)
					used = a.maxTokens
				}
			}
			break
		}

		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(sd.Document.Content)
		kept = append(kept, sd.Document)
		used += docTokens
	}

	return AssembledContext{
		Text:            strings.TrimSpace(sb.String()),
		Documents:       kept,
		EstimatedTokens: used,
	}
}

// truncateToRune cuts s to at most n bytes without splitting a UTF-8 rune.
func truncateToRune(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
