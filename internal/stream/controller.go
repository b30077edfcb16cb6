package stream

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/rampart-ai/rampart/internal/guardrail"
	"github.com/rampart-ai/rampart/internal/types"
)

// State is the controller's position in its lifecycle.
type State string

const (
	// StateAccumulating: buffering fragments until the flush threshold.
	StateAccumulating State = "accumulating"

	// StateChecking: a guardrail evaluation of the buffer is in flight.
	StateChecking State = "checking"

	// StateForwarding: the last check passed and verified text is being
	// released downstream.
	StateForwarding State = "forwarding"

	// StateBlocked: a violation or unrecoverable guardrail failure occurred.
	// Terminal.
	StateBlocked State = "blocked"

	// StateDone: the stream completed with all content verified. Terminal.
	StateDone State = "done"
)

// String returns the string representation of the State
func (s State) String() string {
	return string(s)
}

// ReasonGuardrailUnavailable is the blocked reason when a check errored
// twice in a row and the stream failed closed.
const ReasonGuardrailUnavailable = "guardrail unavailable"

// Evaluator is the decision dependency of the controller, satisfied by
// guardrail.Engine.
type Evaluator interface {
	Evaluate(ctx context.Context, text, role string) guardrail.Verdict
}

// Config holds the controller's fixed parameters.
type Config struct {
	// InitialThreshold is the buffered length (bytes) that triggers the
	// first check. Small values minimize time-to-first-detection.
	InitialThreshold int

	// MaxThreshold caps threshold growth. Each SAFE check doubles the
	// threshold up to this cap, amortizing judge round trips as the
	// stream demonstrates safe cycles.
	MaxThreshold int

	// RetryDelay is the bounded delay before the single retry of a check
	// that returned an ERROR verdict.
	RetryDelay time.Duration
}

// FeedResult is the outcome of feeding one fragment (or finishing a stream).
type FeedResult struct {
	// Forward is verified-safe text to release downstream, empty if no
	// check completed or the check did not pass.
	Forward string

	// Verdict is the verdict produced by a check triggered by this call,
	// nil if no check ran.
	Verdict *guardrail.Verdict

	// Terminal is true once the controller accepts no further fragments.
	Terminal bool
}

// Controller applies the guardrail engine incrementally to a live token
// stream. The buffer is cumulative: every check evaluates the full
// accumulated text so far, so later checks see everything earlier ones did
// and can catch violations that only emerge with more context. Text is
// released downstream only after the buffer containing it has passed a
// check; nothing is ever forwarded unchecked.
//
// A Controller belongs to exactly one streaming session and is not safe for
// concurrent use; each in-flight request owns its own instance.
type Controller struct {
	id        string
	evaluator Evaluator
	role      string
	cfg       Config

	state     State
	buf       strings.Builder
	forwarded int
	threshold int
	verdicts  []guardrail.Verdict

	cancelUpstream context.CancelFunc
	logger         *slog.Logger
}

// NewController creates a controller for one streaming session.
func NewController(evaluator Evaluator, role string, cfg Config, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		id:        uuid.New().String(),
		evaluator: evaluator,
		role:      role,
		cfg:       cfg,
		state:     StateAccumulating,
		threshold: cfg.InitialThreshold,
		logger:    logger,
	}
}

// WithUpstreamCancel registers a cancel function for the generation source.
// It is invoked on HARMFUL or unrecoverable ERROR so generation cost stops
// promptly once the stream is blocked.
func (c *Controller) WithUpstreamCancel(cancel context.CancelFunc) *Controller {
	c.cancelUpstream = cancel
	return c
}

// ID returns the session identifier.
func (c *Controller) ID() string {
	return c.id
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Terminal reports whether the controller accepts further fragments.
func (c *Controller) Terminal() bool {
	return c.state == StateBlocked || c.state == StateDone
}

// Verdicts returns a copy of all verdicts produced for this stream, in order.
func (c *Controller) Verdicts() []guardrail.Verdict {
	out := make([]guardrail.Verdict, len(c.verdicts))
	copy(out, c.verdicts)
	return out
}

// Threshold returns the current flush threshold.
func (c *Controller) Threshold() int {
	return c.threshold
}

// Feed appends one generated fragment to the buffer and, if the buffered
// length has reached the flush threshold, runs a guardrail check on the full
// accumulated text. Returns an error only for protocol misuse (feeding a
// terminal stream) or caller cancellation; guardrail outcomes are conveyed
// through the FeedResult.
func (c *Controller) Feed(ctx context.Context, fragment string) (FeedResult, error) {
	if c.Terminal() {
		return FeedResult{Terminal: true}, types.NewError(types.STREAM_TERMINAL, "stream is terminal, no further fragments accepted")
	}

	if err := ctx.Err(); err != nil {
		c.state = StateDone
		return FeedResult{Terminal: true}, types.WrapError(types.STREAM_CANCELED, "stream canceled by caller", err)
	}

	c.buf.WriteString(fragment)

	if c.buf.Len() < c.threshold {
		return FeedResult{}, nil
	}

	return c.runCheck(ctx), nil
}

// Finish handles normal upstream completion. Any unchecked trailing content
// forces one final check before the stream is allowed to complete; content
// is never forwarded unchecked.
func (c *Controller) Finish(ctx context.Context) (FeedResult, error) {
	if c.Terminal() {
		return FeedResult{Terminal: true}, types.NewError(types.STREAM_TERMINAL, "stream already terminal")
	}

	if err := ctx.Err(); err != nil {
		c.state = StateDone
		return FeedResult{Terminal: true}, types.WrapError(types.STREAM_CANCELED, "stream canceled by caller", err)
	}

	// Everything buffered has already passed a check.
	if c.buf.Len() == c.forwarded {
		c.state = StateDone
		return FeedResult{Terminal: true}, nil
	}

	result := c.runCheck(ctx)
	if c.state != StateBlocked {
		c.state = StateDone
		result.Terminal = true
	}
	return result, nil
}

// runCheck evaluates the full accumulated buffer and applies the verdict:
// SAFE releases the unforwarded suffix and grows the threshold, HARMFUL
// blocks the stream and cancels upstream, ERROR is retried once and then
// fails closed.
func (c *Controller) runCheck(ctx context.Context) FeedResult {
	c.state = StateChecking

	verdict := c.checkWithRetry(ctx)
	c.verdicts = append(c.verdicts, verdict)

	switch verdict.Decision {
	case guardrail.DecisionSafe:
		c.state = StateForwarding
		forward := c.buf.String()[c.forwarded:]
		c.forwarded = c.buf.Len()
		c.growThreshold()
		c.state = StateAccumulating
		return FeedResult{Forward: forward, Verdict: &verdict}

	case guardrail.DecisionHarmful:
		c.block(ctx)
		return FeedResult{Verdict: &verdict, Terminal: true}

	default:
		// Two consecutive ERRORs: forwarding unverified content is worse
		// than refusing service.
		blocked := guardrail.ErrorVerdict(ReasonGuardrailUnavailable, verdict.Elapsed)
		c.verdicts[len(c.verdicts)-1] = blocked
		c.block(ctx)
		return FeedResult{Verdict: &blocked, Terminal: true}
	}
}

// checkWithRetry runs one evaluation, retrying exactly once after a bounded
// delay when the verdict is ERROR.
func (c *Controller) checkWithRetry(ctx context.Context) guardrail.Verdict {
	var verdict guardrail.Verdict

	errUnverified := errors.New("guardrail check returned ERROR")
	operation := func() error {
		verdict = c.evaluator.Evaluate(ctx, c.buf.String(), c.role)
		if verdict.IsError() {
			return errUnverified
		}
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(c.cfg.RetryDelay), 1),
		ctx,
	)

	if err := backoff.Retry(operation, policy); err != nil {
		c.logger.WarnContext(ctx, "guardrail check failed after retry",
			"stream_id", c.id,
			"reason", verdict.Reason,
		)
	}
	return verdict
}

func (c *Controller) block(ctx context.Context) {
	c.state = StateBlocked
	if c.cancelUpstream != nil {
		c.cancelUpstream()
	}
	c.logger.InfoContext(ctx, "stream blocked",
		"stream_id", c.id,
		"role", c.role,
		"buffered", c.buf.Len(),
		"forwarded", c.forwarded,
	)
}

func (c *Controller) growThreshold() {
	next := c.threshold * 2
	if next > c.cfg.MaxThreshold {
		next = c.cfg.MaxThreshold
	}
	if next > c.threshold {
		c.threshold = next
	}
}
