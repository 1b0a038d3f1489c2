package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-agent/internal/agent"
	"github.com/rxtech-lab/argo-agent/internal/config"
	"github.com/rxtech-lab/argo-agent/internal/console"
	"github.com/rxtech-lab/argo-agent/internal/cta"
	"github.com/rxtech-lab/argo-agent/internal/cta/strategy"
	"github.com/rxtech-lab/argo-agent/internal/freqtrade"
	"github.com/rxtech-lab/argo-agent/internal/llm"
	"github.com/rxtech-lab/argo-agent/internal/logger"
	"github.com/rxtech-lab/argo-agent/internal/session"
	"github.com/rxtech-lab/argo-agent/internal/tools"
	"github.com/rxtech-lab/argo-agent/pkg/errors"
	"github.com/rxtech-lab/argo-agent/pkg/marketdata/provider"
)

const commandPrompt = "command: "

// app holds what every subcommand shares.
type app struct {
	cfg       *config.Config
	logger    *logger.Logger
	printer   *console.Printer
	prompter  *console.LinePrompter
	completer llm.Completer
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to create logger", err)
	}

	completer := llm.NewOpenAI(llm.OpenAIConfig{
		APIKey:      cfg.OpenAIKey,
		BaseURL:     cfg.OpenAIBaseURL,
		Model:       cfg.Model,
		Temperature: config.Temperature,
		Timeout:     cfg.Timeout,
	}, log.Named("llm"))

	return &app{
		cfg:       cfg,
		logger:    log,
		printer:   console.NewPrinter(os.Stdout),
		prompter:  console.NewLinePrompter(os.Stdout),
		completer: completer,
	}, nil
}

func (a *app) close() {
	if err := a.prompter.Close(); err != nil {
		a.logger.Warn("failed to restore terminal", zap.Error(err))
	}

	_ = a.logger.Sync()
}

// project is where one framework keeps its files and what it starts with.
type project struct {
	framework    session.Framework
	configFile   string
	workspace    string
	strategyName string
}

// project resolves the project paths against the current directory. The workspace is
// created when missing.
func (a *app) project(kind session.Kind) (*project, error) {
	var p project

	switch kind {
	case session.KindFreqtrade:
		p = project{configFile: a.cfg.Freqtrade.ConfigFile, workspace: a.cfg.Freqtrade.Workspace, strategyName: freqtrade.DefaultStrategyName}
	case session.KindVnpy:
		p = project{configFile: a.cfg.Vnpy.ConfigFile, workspace: a.cfg.Vnpy.Workspace, strategyName: strategy.BuiltinName}
	default:
		return nil, errors.Newf(errors.ErrCodeInternal, "unknown framework %q", kind)
	}

	var err error

	if p.configFile, err = filepath.Abs(p.configFile); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIOFailed, "failed to resolve project file", err)
	}

	if p.workspace, err = filepath.Abs(p.workspace); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIOFailed, "failed to resolve workspace", err)
	}

	if err := os.MkdirAll(p.workspace, 0o755); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeIOFailed, err, "failed to create workspace %s", p.workspace)
	}

	switch kind {
	case session.KindFreqtrade:
		runner := freqtrade.NewExecRunner(a.cfg.Freqtrade.Binary, a.printer.Writer(), a.logger.Named("freqtrade"))
		p.framework = freqtrade.NewFramework(runner, provider.NewBinanceClient(), a.printer, a.logger.Named("freqtrade"))
	case session.KindVnpy:
		p.framework = cta.NewFramework(p.workspace, provider.NewSinaClient(), a.printer, a.logger.Named("cta"))
	}

	return &p, nil
}

// runProject resolves the session inside the workspace and runs the agent once on the
// strategy prose, or once per typed command in step mode.
func (a *app) runProject(ctx context.Context, kind session.Kind, step bool) error {
	p, err := a.project(kind)
	if err != nil {
		return err
	}

	if err := os.Chdir(p.workspace); err != nil {
		return errors.Wrapf(errors.ErrCodeIOFailed, err, "failed to enter workspace %s", p.workspace)
	}

	resolver := session.NewResolver(p.framework, a.prompter, a.printer, a.logger.Named("resolver"))

	sess, err := resolver.Resolve(ctx, p.configFile)
	if err != nil {
		return err
	}

	env := &tools.Env{
		Session:      sess,
		ConfigPath:   p.configFile,
		ReturnDirect: step,
		StrategyName: p.strategyName,
		Resolver:     resolver,
		Completer:    a.completer,
		Prompter:     a.prompter,
		Printer:      a.printer,
		Logger:       a.logger.Named("tools"),
	}
	defer func() {
		if err := env.Close(); err != nil {
			a.logger.Warn("failed to close session", zap.Error(err))
		}
	}()

	toolkit, err := tools.Assemble(env, kind)
	if err != nil {
		return err
	}

	executor := a.executor(append(toolkit, tools.NewExtractStrategyTool(env)))

	if !step {
		prose, err := strategyProse(p.configFile)
		if err != nil {
			return err
		}

		return a.answer(ctx, executor, prose)
	}

	for {
		command, err := a.prompter.Ask(commandPrompt)
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return errors.Wrap(errors.ErrCodeIOFailed, "failed to read command", err)
		}

		if command = strings.TrimSpace(command); command == "" {
			continue
		}

		if err := a.answer(ctx, executor, command); err != nil {
			return err
		}
	}
}

func (a *app) executor(toolset []agent.Tool) *agent.Executor {
	planner := agent.NewPlanner(
		agent.NewZeroShotReasoner(a.completer, toolset),
		agent.WithExtraction(a.completer),
	)

	return agent.NewExecutor(planner, toolset,
		agent.WithMaxIterations(a.cfg.MaxIterations),
		agent.WithLogger(a.logger.Named("agent")))
}

func (a *app) answer(ctx context.Context, executor *agent.Executor, input string) error {
	out, err := executor.Run(ctx, input)
	if err != nil {
		return err
	}

	a.printer.Println(out)

	return nil
}

// strategyProse is the strategy description at the top of a project file.
func strategyProse(path string) (string, error) {
	doc, err := session.LoadDocument(path)
	if err != nil {
		return "", err
	}

	prose := strings.TrimSpace(doc.Prose)
	if prose == "" {
		return "", errors.Newf(errors.ErrCodeMissingField, "project file %s describes no strategy", path)
	}

	return prose, nil
}
