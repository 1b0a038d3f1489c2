// Package marketdata exposes market data lookups to the model as callable functions.
//
// Each function has a declaration the model can pick through function calling and a
// handler that turns the decoded arguments into a Table.
package marketdata

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/rxtech-lab/argo-agent/internal/llm"
	"github.com/rxtech-lab/argo-agent/pkg/errors"
	md "github.com/rxtech-lab/argo-agent/pkg/marketdata"
)

// Table is the tabular result of a function.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Len is the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

type handler func(ctx context.Context, arguments string) (*Table, error)

type function struct {
	decl    llm.FunctionDecl
	handler handler
}

// Registry holds the callable functions in declaration order.
type Registry struct {
	functions []function
	byName    map[string]function
}

func newRegistry() *Registry {
	return &Registry{byName: map[string]function{}}
}

// register declares T as the argument type of name.
func register[T any](r *Registry, name, description string, run func(ctx context.Context, args T) (*Table, error)) error {
	decl, err := llm.DeclareFunction[T](name, description)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInternal, err, "failed to declare %s", name)
	}

	f := function{
		decl: decl,
		handler: func(ctx context.Context, arguments string) (*Table, error) {
			var args T
			if arguments != "" {
				if err := json.Unmarshal([]byte(arguments), &args); err != nil {
					return nil, errors.Wrapf(errors.ErrCodeInvalidParameter, err, "invalid arguments for %s", name)
				}
			}

			return run(ctx, args)
		},
	}

	r.functions = append(r.functions, f)
	r.byName[name] = f

	return nil
}

// Declarations lists the functions for a completion request.
func (r *Registry) Declarations() []llm.FunctionDecl {
	out := make([]llm.FunctionDecl, 0, len(r.functions))
	for _, f := range r.functions {
		out = append(out, f.decl)
	}

	return out
}

// Names lists the function names in declaration order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.functions))
	for _, f := range r.functions {
		out = append(out, f.decl.Name)
	}

	return out
}

// Call runs the function the model asked for.
func (r *Registry) Call(ctx context.Context, call llm.FunctionCall) (*Table, error) {
	f, ok := r.byName[call.Name]
	if !ok {
		return nil, errors.Newf(errors.ErrCodeFunctionNotFound, "no market data function %q", call.Name)
	}

	return f.handler(ctx, call.Arguments)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// barTable renders bars with their time in layout.
func barTable(bars []md.Bar, layout string) *Table {
	t := &Table{Columns: []string{"datetime", "open", "high", "low", "close", "volume", "hold"}}

	for _, b := range bars {
		t.Rows = append(t.Rows, []string{
			b.Time.Format(layout),
			formatFloat(b.Open),
			formatFloat(b.High),
			formatFloat(b.Low),
			formatFloat(b.Close),
			formatFloat(b.Volume),
			formatFloat(b.OpenInterest),
		})
	}

	return t
}
