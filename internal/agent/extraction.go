package agent

import (
	"context"
	"strings"

	"github.com/rxtech-lab/argo-agent/internal/llm"
)

const (
	actionMarker      = "Action:"
	actionInputMarker = "Action Input:"
)

// StrategyToolName is the tool whose input is rewritten to a bare strategy description.
const StrategyToolName = "strategy_creation"

// DataToolPrefix is the namespace of tools whose input is rewritten to a bare data request.
const DataToolPrefix = "market_data"

const extractStrategyTemplate = "Extract the trading strategy logic from the following, don't describe anything other than strategy: \n```\n{raw_input}\n```\n\nUse the following output format:\nStrategy Description: `content`\n"

const extractDataTemplate = "Extract task information related to obtaining market data from the following, don't reply to anything other than the mission objective: \n```\n{raw_input}\n```\n\nUse the following output format:\nData Description: `content`\n"

// ExtractionRule selects tools whose action input gets replaced by a second completion.
type ExtractionRule struct {
	Match    func(tool string) bool
	Template string
}

// Render fills the template with the user's request.
func (r ExtractionRule) Render(request string) string {
	return strings.ReplaceAll(r.Template, "{raw_input}", request)
}

// StrategyRule matches the strategy creation tool.
func StrategyRule() ExtractionRule {
	return ExtractionRule{
		Match:    func(tool string) bool { return tool == StrategyToolName },
		Template: extractStrategyTemplate,
	}
}

// DataRule matches every market data tool.
func DataRule() ExtractionRule {
	return ExtractionRule{
		Match:    func(tool string) bool { return strings.HasPrefix(tool, DataToolPrefix) },
		Template: extractDataTemplate,
	}
}

// DeclaredTool returns the tool name on the first line that starts with "Action:".
func DeclaredTool(text string) (string, bool) {
	for _, line := range strings.Split(text, "\n") {
		if !strings.HasPrefix(line, actionMarker) {
			continue
		}

		parts := strings.Split(line, ":")

		return strings.TrimSpace(parts[len(parts)-1]), true
	}

	return "", false
}

// SpliceInput keeps text up to the first "Action Input:" and puts input after it.
func SpliceInput(text, input string) string {
	head, _, _ := strings.Cut(text, actionInputMarker)

	return head + actionInputMarker + " " + input
}

// WithExtraction rewrites the action input of matching tools. The replacement comes from a
// separate completion over the user's request alone, never over the first completion.
// With no rules it uses StrategyRule and DataRule.
func WithExtraction(completer llm.Completer, rules ...ExtractionRule) Middleware {
	if len(rules) == 0 {
		rules = []ExtractionRule{StrategyRule(), DataRule()}
	}

	return func(next Reasoner) Reasoner {
		return ReasonerFunc(func(ctx context.Context, turn Turn) (string, error) {
			output, err := next.Reason(ctx, turn)
			if err != nil {
				return "", err
			}

			tool, ok := DeclaredTool(output)
			if !ok {
				return output, nil
			}

			for _, rule := range rules {
				if !rule.Match(tool) {
					continue
				}

				extracted, err := llm.Predict(ctx, completer, rule.Render(turn.Input))
				if err != nil {
					return "", err
				}

				return SpliceInput(output, extracted), nil
			}

			return output, nil
		})
	}
}
