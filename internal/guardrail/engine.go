package guardrail

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/rampart-ai/rampart/internal/policy"
)

// Retriever is the retrieval dependency of the engine. Satisfied by
// retrieval.Retriever; narrowed to an interface so tests can substitute
// failing or canned implementations.
type Retriever interface {
	Retrieve(ctx context.Context, query, role string, limit int) (policy.RetrievalResult, error)
}

// Engine orchestrates one discrete guardrail evaluation: retrieve the
// role-scoped policy context, assemble it within the token budget, and ask
// the judge for a verdict. It is the unit used for input-side checks and for
// each buffered output-side check.
//
// Engines hold no per-request state and are safe for concurrent use.
type Engine struct {
	retriever Retriever
	assembler *Assembler
	judge     *Judge
	topK      int
	logger    *slog.Logger
	tracer    trace.Tracer
}

// NewEngine creates an evaluation engine. topK bounds how many documents are
// requested from the retriever per evaluation.
func NewEngine(retriever Retriever, assembler *Assembler, judge *Judge, topK int, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		retriever: retriever,
		assembler: assembler,
		judge:     judge,
		topK:      topK,
		logger:    logger,
	}
}

// WithTracer sets the OpenTelemetry tracer for the engine.
func (e *Engine) WithTracer(tracer trace.Tracer) *Engine {
	e.tracer = tracer
	return e
}

// Evaluate classifies text for the given role. It always returns a Verdict,
// never an error: retrieval failure degrades to an empty-context judge call
// (with the degradation noted on the verdict reason), and judge failures
// surface as ERROR verdicts.
func (e *Engine) Evaluate(ctx context.Context, text, role string) Verdict {
	start := time.Now()

	var span trace.Span
	if e.tracer != nil {
		ctx, span = e.tracer.Start(ctx, "guardrail.evaluate",
			trace.WithAttributes(
				attribute.String("guardrail.role", role),
				attribute.Int("guardrail.text_length", len(text)),
			),
		)
		defer span.End()
	}

	pctx, degraded := e.gatherContext(ctx, text, role)

	verdict := e.judge.Judge(ctx, text, pctx)
	verdict.Elapsed = time.Since(start)

	if degraded {
		verdict.Reason = "retrieval degraded, judged without policy context: " + verdict.Reason
	}

	if span != nil {
		span.SetAttributes(
			attribute.String("guardrail.decision", verdict.Decision.String()),
			attribute.Bool("guardrail.retrieval_degraded", degraded),
			attribute.Int("guardrail.context_documents", len(pctx.Documents)),
		)
	}

	e.logger.InfoContext(ctx, "guardrail evaluation complete",
		"role", role,
		"decision", verdict.Decision,
		"documents", len(pctx.Documents),
		"degraded", degraded,
		"elapsed", verdict.Elapsed,
	)

	return verdict
}

// gatherContext retrieves and assembles the policy context for text. On
// retrieval failure it returns an empty context and degraded=true; the
// evaluation proceeds so a backend outage cannot fail the whole check.
func (e *Engine) gatherContext(ctx context.Context, text, role string) (AssembledContext, bool) {
	results, err := e.retriever.Retrieve(ctx, text, role, e.topK)
	if err != nil {
		e.logger.WarnContext(ctx, "retrieval failed, degrading to empty context",
			"role", role,
			"error", err,
		)
		return AssembledContext{}, true
	}

	return e.assembler.Assemble(results), false
}
