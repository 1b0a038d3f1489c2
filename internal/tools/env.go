// Package tools adapts a trading session to the tools the agent dispatches to.
//
// Every adapter reports framework failures through its status text. Only completion
// failures, internal faults and cancellation are returned as errors.
package tools

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-agent/internal/console"
	"github.com/rxtech-lab/argo-agent/internal/llm"
	"github.com/rxtech-lab/argo-agent/internal/logger"
	"github.com/rxtech-lab/argo-agent/internal/session"
	"github.com/rxtech-lab/argo-agent/pkg/errors"
)

// Env is shared by pointer between the adapters of one run.
type Env struct {
	// Session is replaced when the user reconfigures the project.
	Session    session.Session
	ConfigPath string
	// ReturnDirect ends the run after any session tool, and makes tools ask for the strategy name.
	ReturnDirect bool
	// StrategyName is used without asking when ReturnDirect is off.
	StrategyName string

	Resolver  *session.Resolver
	Completer llm.Completer
	Prompter  console.Prompter
	Printer   *console.Printer
	Logger    *logger.Logger
}

// Swap replaces the session, closing the previous one when it holds resources.
func (e *Env) Swap(next session.Session) {
	if closer, ok := e.Session.(io.Closer); ok && e.Session != next {
		if err := closer.Close(); err != nil {
			e.Logger.Warn("failed to close previous session", zap.Error(err))
		}
	}

	e.Session = next
}

// Close releases the current session.
func (e *Env) Close() error {
	if closer, ok := e.Session.(io.Closer); ok {
		return closer.Close()
	}

	return nil
}

// fatal reports errors that must end the agent run.
func fatal(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	return errors.IsInternal(err) || errors.HasCode(err, errors.ErrCodeCompletionFailed)
}

// failed turns a session error into the tool's status text.
func (e *Env) failed(tool string, err error, status string) (string, error) {
	if fatal(err) {
		return "", err
	}

	e.Logger.Error("tool failed", zap.String("tool", tool), zap.Error(err))
	e.Printer.Banner(err.Error())

	return status, nil
}
