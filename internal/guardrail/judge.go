package guardrail

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rampart-ai/rampart/internal/llm"
)

// Well-known verdict reasons for judge failures. The stream controller and
// callers key fail-closed behavior off the ERROR decision, not these strings,
// but keeping them stable makes logs and user-facing messages predictable.
const (
	ReasonJudgeUnavailable = "judge unavailable"
	ReasonUnparseable      = "unparseable judge response"
)

// judgeSystemPrompt is the fixed persona and classification rubric. The
// judge must ground every decision exclusively in the supplied policy
// context and answer with a single raw JSON object.
const judgeSystemPrompt = `You are the Chief Compliance Officer AI for an enterprise organization, an expert in internal policy and security regulations.
Your mission is to analyze a given text and determine if it violates any internal policies provided exclusively from the context below.

Follow these steps strictly:
1. Analyze the text to be evaluated.
2. Compare the text against the policies in the provided context. Your decision MUST be based solely on this context.
3. If the text violates a specific policy from the context, make a "HARMFUL" judgment.
4. If the text does not violate any policy from the context, make a "SAFE" judgment.
5. If the context is insufficient or irrelevant to make a judgment, you must explain this in the reason and still output a "SAFE" decision, as no specific policy was violated.

Your final output MUST be a single, raw JSON object. Do not add any text before or after it.

CRITICAL RULES:
1. Grounding: your "reason" MUST directly quote or reference the specific policy text from the context.
2. Citation: you MUST populate the "source_files" list with the source label(s) from the context that justify your decision. This is not optional.
3. No outside knowledge: do not use any external knowledge. If the context does not prohibit an action, it is considered "SAFE".

Example of a BAD response (FAIL):
{
  "decision": "HARMFUL",
  "reason": "Asking for a password is not allowed.",
  "source_files": []
}
Why it is BAD: the "source_files" list is empty, even though the context contains relevant policy documents.

Example of a GOOD response (PASS):
{
  "decision": "HARMFUL",
  "reason": "The text violates the credential-handling policy by asking for an account password, which is sensitive authentication information.",
  "source_files": ["credential-handling-policy.txt"]
}
Why it is GOOD: the "source_files" list correctly cites the document used for the judgment.

Example for a safe text:
{
  "decision": "SAFE",
  "reason": "The text is a general product inquiry and does not violate any policy from the context.",
  "source_files": ["general-conduct-policy.txt"]
}`

// judgeResponse is the schema the judge model must conform to.
type judgeResponse struct {
	Decision    string   `json:"decision"`
	Reason      string   `json:"reason"`
	SourceFiles []string `json:"source_files"`
}

// Judge invokes the external judge model on candidate text plus assembled
// policy context and parses the response into a typed Verdict. It never
// returns an error: transport failures and malformed responses both surface
// as ERROR verdicts so callers have exactly one decision surface.
type Judge struct {
	provider    llm.Provider
	model       string
	temperature float64
	timeout     time.Duration
	logger      *slog.Logger
}

// NewJudge creates a Judge over the given provider. A zero timeout disables
// the per-call deadline.
func NewJudge(provider llm.Provider, model string, temperature float64, timeout time.Duration, logger *slog.Logger) *Judge {
	if logger == nil {
		logger = slog.Default()
	}
	return &Judge{
		provider:    provider,
		model:       model,
		temperature: temperature,
		timeout:     timeout,
		logger:      logger,
	}
}

// Judge classifies candidate against pctx. Wall-clock elapsed time is
// recorded on the verdict for every invocation, success or failure.
func (j *Judge) Judge(ctx context.Context, candidate string, pctx AssembledContext) Verdict {
	start := time.Now()

	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	req := llm.CompletionRequest{
		Model:       j.model,
		Temperature: j.temperature,
		Messages: []llm.Message{
			llm.NewSystemMessage(judgeSystemPrompt),
			llm.NewUserMessage(buildJudgeInput(pctx.Text, candidate)),
		},
	}

	resp, err := j.provider.Complete(ctx, req)
	if err != nil {
		j.logger.WarnContext(ctx, "judge invocation failed",
			"provider", j.provider.Name(),
			"error", err,
		)
		return ErrorVerdict(ReasonJudgeUnavailable, time.Since(start))
	}

	parsed, err := llm.ExtractJSONAs[judgeResponse](resp.Message.Content)
	if err != nil {
		j.logger.WarnContext(ctx, "judge response did not contain valid JSON",
			"provider", j.provider.Name(),
			"error", err,
		)
		return ErrorVerdict(ReasonUnparseable, time.Since(start))
	}

	decision := Decision(parsed.Decision)
	if decision != DecisionSafe && decision != DecisionHarmful {
		j.logger.WarnContext(ctx, "judge returned unknown decision",
			"decision", parsed.Decision,
		)
		return ErrorVerdict(ReasonUnparseable, time.Since(start))
	}

	return Verdict{
		Decision:  decision,
		Reason:    parsed.Reason,
		Citations: resolveCitations(parsed.SourceFiles, pctx),
		Elapsed:   time.Since(start),
	}
}

// buildJudgeInput populates the user turn with the policy context and the
// candidate text.
func buildJudgeInput(contextText, candidate string) string {
	if contextText == "" {
		contextText = "(no policy documents retrieved)"
	}
	return fmt.Sprintf(`Context from policy documents:
%s

Text to be evaluated:
%s

Final Answer (JSON object only):`, contextText, candidate)
}

// resolveCitations maps judge-cited source labels back to document IDs from
// the context the judge actually saw. Labels that match no known document
// are kept verbatim rather than dropped, so miscitations stay observable.
func resolveCitations(sourceFiles []string, pctx AssembledContext) []string {
	if len(sourceFiles) == 0 {
		return nil
	}

	bySource := make(map[string]string, len(pctx.Documents))
	for _, doc := range pctx.Documents {
		bySource[doc.Source] = doc.ID
	}

	citations := make([]string, 0, len(sourceFiles))
	for _, src := range sourceFiles {
		if id, ok := bySource[src]; ok {
			citations = append(citations, id)
			continue
		}
		citations = append(citations, src)
	}
	return citations
}
