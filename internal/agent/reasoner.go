package agent

import (
	"context"

	"github.com/rxtech-lab/argo-agent/internal/llm"
)

// Reasoner produces the model's raw text for one turn.
type Reasoner interface {
	Reason(ctx context.Context, turn Turn) (string, error)
}

// ReasonerFunc adapts a function to Reasoner.
type ReasonerFunc func(ctx context.Context, turn Turn) (string, error)

func (f ReasonerFunc) Reason(ctx context.Context, turn Turn) (string, error) {
	return f(ctx, turn)
}

// Middleware wraps a Reasoner to post-process its output.
type Middleware func(Reasoner) Reasoner

// ZeroShotReasoner asks the model once per turn using the zero-shot prompt.
type ZeroShotReasoner struct {
	completer llm.Completer
	tools     []Tool
}

func NewZeroShotReasoner(completer llm.Completer, tools []Tool) *ZeroShotReasoner {
	return &ZeroShotReasoner{completer: completer, tools: tools}
}

func (r *ZeroShotReasoner) Reason(ctx context.Context, turn Turn) (string, error) {
	return llm.Predict(ctx, r.completer, BuildPrompt(r.tools, turn), StopSequences...)
}
