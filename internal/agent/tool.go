// Package agent runs a zero-shot reasoning loop that dispatches model chosen actions to tools.
package agent

import "context"

// Tool is one capability the model can pick by name.
//
// Run returns a status text for the model to observe. A non-nil error aborts the whole
// run and is reserved for completion service failures; every other failure is reported
// through the returned text.
type Tool interface {
	Name() string
	Description() string
	// ReturnDirect makes the tool's output the final answer of the run.
	ReturnDirect() bool
	Run(ctx context.Context, input string) (string, error)
}

// ToolNames lists the names of tools in order.
func ToolNames(tools []Tool) []string {
	names := make([]string, 0, len(tools))
	for _, t := range tools {
		names = append(names, t.Name())
	}

	return names
}
