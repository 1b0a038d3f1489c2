package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-agent/internal/llm"
	"github.com/rxtech-lab/argo-agent/internal/session"
)

const (
	reconfiguringBanner = "The default configuration information is being modified. Complete the configuration step by step as prompted..."
	configured          = "The project parameters have been configured. "
	notConfigured       = "The project parameters were not configured. "
)

// CommandsTool rebuilds the project settings interactively. The model first fills the
// settings function, and its arguments become the interview defaults.
type CommandsTool struct {
	env      *Env
	function llm.FunctionDecl
}

func NewCommandsTool(env *Env, function llm.FunctionDecl) *CommandsTool {
	return &CommandsTool{env: env, function: function}
}

func (t *CommandsTool) Name() string {
	return t.function.Name
}

func (t *CommandsTool) Description() string {
	return t.function.Description
}

func (t *CommandsTool) ReturnDirect() bool {
	return t.env.ReturnDirect
}

func (t *CommandsTool) Run(ctx context.Context, _ string) (string, error) {
	t.env.Printer.Banner(reconfiguringBanner)

	call, err := llm.CallFunction(ctx, t.env.Completer, fmt.Sprintf("Please provide information about %s?", t.Name()), t.function)
	if err != nil {
		return "", err
	}

	opts := []session.ResolveOption{session.WithForceRebuild()}
	if call != nil && json.Valid([]byte(call.Arguments)) {
		t.env.Logger.Debug("configuration hints", zap.String("arguments", call.Arguments))
		opts = append(opts, session.WithHints(json.RawMessage(call.Arguments)))
	}

	sess, err := t.env.Resolver.Resolve(ctx, t.env.ConfigPath, opts...)
	if err != nil {
		return t.env.failed(t.Name(), err, notConfigured)
	}

	t.env.Swap(sess)

	return configured, nil
}
