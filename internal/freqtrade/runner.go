package freqtrade

import (
	"context"
	"io"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-agent/internal/logger"
	"github.com/rxtech-lab/argo-agent/pkg/errors"
)

// Runner executes one freqtrade subcommand and blocks until it exits.
type Runner interface {
	Run(ctx context.Context, args ...string) error
}

// ExecRunner runs the freqtrade executable with output streamed to Output.
type ExecRunner struct {
	Binary string
	Output io.Writer
	Logger *logger.Logger
}

func NewExecRunner(binary string, output io.Writer, log *logger.Logger) *ExecRunner {
	return &ExecRunner{Binary: binary, Output: output, Logger: log}
}

func (r *ExecRunner) Run(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, r.Binary, args...)
	cmd.Stdout = r.Output
	cmd.Stderr = r.Output

	r.Logger.Debug("running freqtrade", zap.String("binary", r.Binary), zap.Strings("args", args))

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if errors.Is(err, exec.ErrNotFound) {
			return errors.Wrapf(errors.ErrCodeInternal, err, "freqtrade executable %q not found", r.Binary)
		}

		return errors.Wrapf(errors.ErrCodeCommandFailed, err, "freqtrade %s failed", strings.Join(args, " "))
	}

	return nil
}
