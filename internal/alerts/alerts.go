// Package alerts evaluates simple threshold rules over the spooler's
// rejection rate, kept and adapted from the teacher's
// internal/alerts/alerts.go (the one stub package in the teacher that
// already carried real, if trivial, logic rather than a driver stub).
package alerts

import "context"

// Rule defines a simple threshold-based alert rule.
type Rule struct {
	Name      string
	Threshold float64
}

// AlertEngine is responsible for evaluating rules and emitting alerts.
type AlertEngine interface {
	Evaluate(ctx context.Context, rule Rule, value float64) (bool, error)
	Close() error
}

type thresholdEngine struct{}

// NewThresholdEngine returns an AlertEngine that trips whenever the
// observed value exceeds the rule's threshold.
func NewThresholdEngine() AlertEngine { return &thresholdEngine{} }

func (e *thresholdEngine) Evaluate(ctx context.Context, rule Rule, value float64) (bool, error) {
	return value > rule.Threshold, nil
}

func (e *thresholdEngine) Close() error { return nil }
