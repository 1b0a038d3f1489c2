package agent

import "context"

type fakeTool struct {
	name         string
	description  string
	returnDirect bool
	output       string
	err          error
	inputs       []string
}

func (f *fakeTool) Name() string        { return f.name }
func (f *fakeTool) Description() string { return f.description }
func (f *fakeTool) ReturnDirect() bool  { return f.returnDirect }

func (f *fakeTool) Run(_ context.Context, input string) (string, error) {
	f.inputs = append(f.inputs, input)

	return f.output, f.err
}
