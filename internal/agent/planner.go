package agent

import (
	"context"

	"github.com/rxtech-lab/argo-agent/pkg/errors"
)

// Planner turns a turn into the next Decision.
type Planner struct {
	reasoner Reasoner
}

// NewPlanner wraps reasoner with middlewares, the first one outermost.
func NewPlanner(reasoner Reasoner, middlewares ...Middleware) *Planner {
	for i := len(middlewares) - 1; i >= 0; i-- {
		reasoner = middlewares[i](reasoner)
	}

	return &Planner{reasoner: reasoner}
}

// Plan asks the reasoner and parses what it said.
func (p *Planner) Plan(ctx context.Context, turn Turn) (Decision, error) {
	text, err := p.reasoner.Reason(ctx, turn)
	if err != nil {
		return Decision{}, err
	}

	return ParseOutput(text)
}

// PlanAsync is not supported and always fails.
func (p *Planner) PlanAsync(ctx context.Context, turn Turn) (<-chan Decision, error) {
	return nil, errors.New(errors.ErrCodeUnsupported, "planner does not support async")
}
