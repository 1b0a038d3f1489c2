package agent

import (
	"regexp"
	"strings"

	"github.com/rxtech-lab/argo-agent/pkg/errors"
)

const finalAnswerMarker = "Final Answer:"

var (
	actionPattern      = regexp.MustCompile(`(?s)Action\s*\d*\s*:[\s]*(.*?)[\s]*Action\s*\d*\s*Input\s*\d*\s*:[\s]*(.*)`)
	actionOnlyPattern  = regexp.MustCompile(`(?s)Action\s*\d*\s*:[\s]*(.*?)`)
	actionInputPattern = regexp.MustCompile(`(?s)[\s]*Action\s*\d*\s*Input\s*\d*\s*:[\s]*(.*)`)
)

// Action is a tool call chosen by the model. Log is the full model text that produced it.
type Action struct {
	Tool  string
	Input string
	Log   string
}

// Finish ends a run with Output as the answer.
type Finish struct {
	Output string
	Log    string
}

// Decision holds exactly one of Action or Finish.
type Decision struct {
	Action *Action
	Finish *Finish
}

// ParseOutput turns raw model text into a Decision.
func ParseOutput(text string) (Decision, error) {
	includesAnswer := strings.Contains(text, finalAnswerMarker)

	if match := actionPattern.FindStringSubmatch(text); match != nil {
		if includesAnswer {
			return Decision{}, errors.Newf(errors.ErrCodeOutputParse, "parsing model output produced both a final answer and a parse-able action: %s", text)
		}

		input := strings.Trim(strings.TrimSpace(match[2]), `"`)

		return Decision{Action: &Action{
			Tool:  strings.TrimSpace(match[1]),
			Input: input,
			Log:   text,
		}}, nil
	}

	if includesAnswer {
		parts := strings.Split(text, finalAnswerMarker)

		return Decision{Finish: &Finish{
			Output: strings.TrimSpace(parts[len(parts)-1]),
			Log:    text,
		}}, nil
	}

	switch {
	case !actionOnlyPattern.MatchString(text):
		return Decision{}, errors.Newf(errors.ErrCodeOutputParse, "could not parse model output, missing 'Action:' after 'Thought:': %s", text)
	case !actionInputPattern.MatchString(text):
		return Decision{}, errors.Newf(errors.ErrCodeOutputParse, "could not parse model output, missing 'Action Input:' after 'Action:': %s", text)
	default:
		return Decision{}, errors.Newf(errors.ErrCodeOutputParse, "could not parse model output: %s", text)
	}
}
