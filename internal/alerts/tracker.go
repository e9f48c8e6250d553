package alerts

import (
	"context"
	"sync/atomic"

	"github.com/coolarec/spooling/internal/logger"
)

// RejectTracker keeps cumulative counts of submissions and rejections
// since it was created and, on every recorded rejection, asks an
// AlertEngine whether the rejection rate has crossed Rule.Threshold,
// logging a warning when it has. It is wired into
// the spool pipeline and the no-spool path to flag sustained overload
// (spec.md §7 Overload / Device busy).
type RejectTracker struct {
	engine    AlertEngine
	rule      Rule
	component string

	submitted atomic.Uint64
	rejected  atomic.Uint64
}

// NewRejectTracker builds a tracker that evaluates rule using engine,
// tagging log lines with component.
func NewRejectTracker(engine AlertEngine, rule Rule, component string) *RejectTracker {
	return &RejectTracker{engine: engine, rule: rule, component: component}
}

// RecordSubmit registers one submission attempt.
func (t *RejectTracker) RecordSubmit() {
	t.submitted.Add(1)
}

// RecordRejectAndCheck registers one rejection and evaluates the current
// rejection rate against the configured rule, logging a warning if tripped.
func (t *RejectTracker) RecordRejectAndCheck(ctx context.Context) {
	rejected := t.rejected.Add(1)
	submitted := t.submitted.Load()
	if submitted == 0 {
		return
	}

	rate := float64(rejected) / float64(submitted)
	tripped, err := t.engine.Evaluate(ctx, t.rule, rate)
	if err != nil {
		logger.WithComponent(t.component).Warn().Err(err).Msg("alert evaluation failed")
		return
	}
	if tripped {
		logger.WithComponent(t.component).Warn().
			Str("rule", t.rule.Name).
			Float64("reject_rate", rate).
			Float64("threshold", t.rule.Threshold).
			Msg("overload alert tripped")
	}
}
