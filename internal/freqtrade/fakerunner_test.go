package freqtrade

import (
	"context"
	"strings"
)

// fakeRunner records every command and runs an optional hook per subcommand.
type fakeRunner struct {
	calls [][]string
	hooks map[string]func(args []string) error
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{hooks: map[string]func(args []string) error{}}
}

func (r *fakeRunner) Run(_ context.Context, args ...string) error {
	r.calls = append(r.calls, args)

	if hook, ok := r.hooks[args[0]]; ok {
		return hook(args)
	}

	return nil
}

func (r *fakeRunner) commands() []string {
	out := make([]string, 0, len(r.calls))
	for _, c := range r.calls {
		out = append(out, c[0])
	}

	return out
}

func (r *fakeRunner) find(command string) []string {
	for _, c := range r.calls {
		if c[0] == command {
			return c
		}
	}

	return nil
}

func (r *fakeRunner) line(command string) string {
	return strings.Join(r.find(command), " ")
}
