package session

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/rxtech-lab/argo-agent/internal/console"
	"github.com/rxtech-lab/argo-agent/internal/logger"
	"github.com/rxtech-lab/argo-agent/pkg/errors"
	"go.uber.org/zap"
)

// IncorrectConfigMessage is shown when candidate settings could not be opened.
const IncorrectConfigMessage = "The configuration content is incorrect. Please carefully check and reconfigure it."

// Framework knows how to parse, ask for and open one framework's settings.
type Framework interface {
	Kind() Kind
	// Defaults returns a fresh pointer to the interview defaults.
	Defaults() Settings
	Parse(block string) (Settings, error)
	// Interview asks for every field in order, offering defaults.
	Interview(ctx context.Context, prompter console.Prompter, defaults Settings) (Settings, error)
	Open(ctx context.Context, settings Settings) (Session, error)
	// RetryMessage is shown when settings pass parsing but fail the validity probe.
	RetryMessage() string
}

// Resolver turns a project file into an open Session, rebuilding the settings block
// interactively whenever it is absent or unusable.
type Resolver struct {
	framework Framework
	prompter  console.Prompter
	printer   *console.Printer
	logger    *logger.Logger
}

func NewResolver(framework Framework, prompter console.Prompter, printer *console.Printer, log *logger.Logger) *Resolver {
	return &Resolver{framework: framework, prompter: prompter, printer: printer, logger: log}
}

// Framework returns the framework this resolver opens sessions for.
func (r *Resolver) Framework() Framework {
	return r.framework
}

type resolveOptions struct {
	forceRebuild bool
	hints        json.RawMessage
}

// ResolveOption tunes one Resolve call.
type ResolveOption func(*resolveOptions)

// WithForceRebuild ignores any existing settings block.
func WithForceRebuild() ResolveOption {
	return func(o *resolveOptions) {
		o.forceRebuild = true
	}
}

// WithHints overlays a JSON object onto the interview defaults.
func WithHints(hints json.RawMessage) ResolveOption {
	return func(o *resolveOptions) {
		o.hints = hints
	}
}

// LoadDocument reads and splits a project file.
func LoadDocument(path string) (Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Document{}, errors.Wrapf(errors.ErrCodeIOFailed, err, "failed to read project file %s", path)
	}

	return ParseDocument(string(content)), nil
}

// Resolve returns a validated Session for the project file at path.
//
// A usable settings block is reused without prompting and without touching the file.
// Otherwise the user is interviewed until the answers pass the validity probe, and the
// file is rewritten with the original prose and the new block.
func (r *Resolver) Resolve(ctx context.Context, path string, opts ...ResolveOption) (Session, error) {
	o := resolveOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	doc, err := LoadDocument(path)
	if err != nil {
		return nil, err
	}

	if doc.HasBlock && !o.forceRebuild {
		settings, err := r.framework.Parse(doc.Block)
		if err == nil {
			var sess Session

			sess, err = r.open(ctx, settings)
			if err == nil {
				r.logger.Info("project settings reused", zap.String("path", path), zap.String("framework", string(r.framework.Kind())))

				return sess, nil
			}
		}

		if fatal(err) {
			return nil, err
		}

		r.logger.Warn("project settings unusable, rebuilding", zap.String("path", path), zap.Error(err))
		r.printer.Println(err.Error())
	}

	return r.rebuild(ctx, path, doc, o.hints)
}

func (r *Resolver) rebuild(ctx context.Context, path string, doc Document, hints json.RawMessage) (Session, error) {
	defaults := r.framework.Defaults()

	if len(hints) > 0 {
		if err := json.Unmarshal(hints, defaults); err != nil {
			r.logger.Warn("ignoring malformed configuration hints", zap.Error(err))

			defaults = r.framework.Defaults()
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		settings, err := r.framework.Interview(ctx, r.prompter, defaults)
		if err != nil {
			return nil, err
		}

		sess, err := r.open(ctx, settings)
		if err != nil {
			if fatal(err) {
				return nil, err
			}

			r.logger.Warn("candidate settings rejected", zap.Error(err))

			if errors.HasCode(err, errors.ErrCodeProbeFailed) {
				err = r.prompter.Pause(r.framework.RetryMessage())
			} else {
				r.printer.Println(IncorrectConfigMessage)
				err = r.prompter.Pause(err.Error())
			}

			if err != nil {
				return nil, err
			}

			defaults = settings

			continue
		}

		rendered, err := doc.Render(settings)
		if err != nil {
			r.discard(sess)

			return nil, err
		}

		if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
			r.discard(sess)

			return nil, errors.Wrapf(errors.ErrCodeIOFailed, err, "failed to write project file %s", path)
		}

		r.logger.Info("project settings saved", zap.String("path", path))

		return sess, nil
	}
}

func (r *Resolver) open(ctx context.Context, settings Settings) (Session, error) {
	if err := settings.Validate(); err != nil {
		if errors.GetCode(err) == errors.ErrCodeUnknown {
			err = errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid settings", err)
		}

		return nil, err
	}

	sess, err := r.framework.Open(ctx, settings)
	if err != nil {
		return nil, err
	}

	if err := sess.Validate(ctx); err != nil {
		r.discard(sess)

		return nil, err
	}

	return sess, nil
}

// discard releases a session that will not be handed out.
func (r *Resolver) discard(sess Session) {
	closer, ok := sess.(io.Closer)
	if !ok {
		return
	}

	if err := closer.Close(); err != nil {
		r.logger.Warn("failed to close rejected session", zap.Error(err))
	}
}

// fatal reports errors that end the run instead of restarting the interview.
func fatal(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	return errors.IsInternal(err) || errors.HasCode(err, errors.ErrCodeCompletionFailed)
}
