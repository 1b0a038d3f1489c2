package tools

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/rxtech-lab/argo-agent/internal/agent"
	"github.com/rxtech-lab/argo-agent/internal/llm"
	"github.com/rxtech-lab/argo-agent/pkg/errors"
)

const (
	creationDescription = "Create quantitative trading strategies through strategy descriptions. "

	created    = "The strategy is created and saved. "
	notCreated = "The strategy was not saved. "
)

// StrategyCreationTool asks the model for strategy code and saves the first code block.
type StrategyCreationTool struct {
	env *Env
}

func NewStrategyCreationTool(env *Env) *StrategyCreationTool {
	return &StrategyCreationTool{env: env}
}

func (t *StrategyCreationTool) Name() string {
	return agent.StrategyToolName
}

func (t *StrategyCreationTool) Description() string {
	return creationDescription
}

func (t *StrategyCreationTool) ReturnDirect() bool {
	return t.env.ReturnDirect
}

// Run reports success even when the reply held no code block. The miss is only printed.
func (t *StrategyCreationTool) Run(ctx context.Context, input string) (string, error) {
	t.env.Printer.Banner(input)

	sess := t.env.Session

	reply, err := llm.Predict(ctx, t.env.Completer, sess.StrategyPrompt(input))
	if err != nil {
		return "", err
	}

	code, ok := llm.ExtractCodeBlock(reply, sess.CodeLanguage())
	if !ok {
		lang := cases.Title(language.English).String(sess.CodeLanguage())
		t.env.Printer.Printf("No %s code found.\n", lang)
		t.env.Logger.Warn("completion held no code block", zap.String("language", sess.CodeLanguage()))

		return created, nil
	}

	if err := writeStrategy(sess.StrategyFile(), input, code); err != nil {
		return t.env.failed(t.Name(), err, notCreated)
	}

	t.env.Logger.Info("strategy saved", zap.String("file", sess.StrategyFile()))

	return created, nil
}

// writeStrategy stores code after a docstring holding the request it was generated from.
func writeStrategy(path, request, code string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(errors.ErrCodeIOFailed, err, "failed to create %s", filepath.Dir(path))
	}

	content := `"""` + request + `"""` + "\n" + strings.TrimSpace(code)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return errors.Wrapf(errors.ErrCodeIOFailed, err, "failed to write %s", path)
	}

	return nil
}
