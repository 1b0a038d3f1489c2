package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/rxtech-lab/argo-agent/internal/logger"
	"go.uber.org/zap"
)

// DefaultMaxIterations bounds a run when no limit is configured.
const DefaultMaxIterations = 15

// StoppedMessage is the answer of a run that hit its iteration limit.
const StoppedMessage = "Agent stopped due to iteration limit or time limit."

// Executor loops planning and tool dispatch until the model finishes.
type Executor struct {
	planner       *Planner
	tools         []Tool
	byName        map[string]Tool
	maxIterations int
	logger        *logger.Logger
}

// ExecutorOption customizes an Executor.
type ExecutorOption func(*Executor)

// WithMaxIterations caps the number of planned actions in one run.
func WithMaxIterations(n int) ExecutorOption {
	return func(e *Executor) {
		if n > 0 {
			e.maxIterations = n
		}
	}
}

// WithLogger sets the executor's logger.
func WithLogger(log *logger.Logger) ExecutorOption {
	return func(e *Executor) {
		e.logger = log
	}
}

func NewExecutor(planner *Planner, tools []Tool, opts ...ExecutorOption) *Executor {
	e := &Executor{
		planner:       planner,
		tools:         tools,
		byName:        make(map[string]Tool, len(tools)),
		maxIterations: DefaultMaxIterations,
		logger:        logger.NewNopLogger(),
	}

	for _, t := range tools {
		e.byName[t.Name()] = t
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Run answers input. Errors are fatal: completion failures and unparseable output.
func (e *Executor) Run(ctx context.Context, input string) (string, error) {
	turn := Turn{Input: input}

	for i := 0; i < e.maxIterations; i++ {
		decision, err := e.planner.Plan(ctx, turn)
		if err != nil {
			return "", err
		}

		if decision.Finish != nil {
			e.logger.Info("agent finished", zap.Int("iterations", i+1))

			return decision.Finish.Output, nil
		}

		action := *decision.Action
		e.logger.Info("agent action", zap.String("tool", action.Tool), zap.String("input", action.Input))

		tool, ok := e.byName[action.Tool]
		if !ok {
			observation := fmt.Sprintf("%s is not a valid tool, try one of [%s].", action.Tool, strings.Join(ToolNames(e.tools), ", "))
			turn.Steps = append(turn.Steps, Step{Action: action, Observation: observation})

			continue
		}

		observation, err := tool.Run(ctx, action.Input)
		if err != nil {
			return "", err
		}

		if tool.ReturnDirect() {
			return observation, nil
		}

		turn.Steps = append(turn.Steps, Step{Action: action, Observation: observation})
	}

	e.logger.Warn("agent stopped", zap.Int("max_iterations", e.maxIterations))

	return StoppedMessage, nil
}
