package agent

import (
	"strings"
)

const (
	promptPrefix = `Answer the following questions as best you can. You have access to the following tools:`

	promptFormatInstructions = `Use the following format:

Question: the input question you must answer
Thought: you should always think about what to do
Action: the action to take, should be one of [{tool_names}]
Action Input: the input to the action
Observation: the result of the action
... (this Thought/Action/Action Input/Observation can repeat N times)
Thought: I now know the final answer
Final Answer: the final answer to the original input question`

	promptSuffix = `Begin!

Question: {input}
Thought:{agent_scratchpad}`
)

// StopSequences end a completion before the model invents an observation.
var StopSequences = []string{"\nObservation:", "\n\tObservation:"}

// Step is one executed action and what the tool returned.
type Step struct {
	Action      Action
	Observation string
}

// Turn is everything the model sees when deciding the next action.
type Turn struct {
	Input string
	Steps []Step
}

// Scratchpad renders previous steps the way the model is told to write them.
func Scratchpad(steps []Step) string {
	var b strings.Builder
	for _, s := range steps {
		b.WriteString(s.Action.Log)
		b.WriteString("\nObservation: ")
		b.WriteString(s.Observation)
		b.WriteString("\nThought: ")
	}

	return b.String()
}

// BuildPrompt renders the zero-shot prompt for tools and turn.
func BuildPrompt(tools []Tool, turn Turn) string {
	descriptions := make([]string, 0, len(tools))
	for _, t := range tools {
		descriptions = append(descriptions, t.Name()+": "+t.Description())
	}

	format := strings.Replace(promptFormatInstructions, "{tool_names}", strings.Join(ToolNames(tools), ", "), 1)
	suffix := strings.NewReplacer(
		"{input}", turn.Input,
		"{agent_scratchpad}", Scratchpad(turn.Steps),
	).Replace(promptSuffix)

	return strings.Join([]string{promptPrefix, strings.Join(descriptions, "\n"), format, suffix}, "\n\n")
}
