package llm

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/invopop/jsonschema"
)

// SchemaFor reflects T into an inline JSON schema suitable for function parameters.
func SchemaFor[T any]() (json.RawMessage, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = true
	r.Anonymous = true

	var zero T

	schema := r.Reflect(zero)
	schema.Version = ""

	return json.Marshal(schema)
}

// DeclareFunction builds a FunctionDecl whose parameters are the fields of T.
func DeclareFunction[T any](name, description string) (FunctionDecl, error) {
	params, err := SchemaFor[T]()
	if err != nil {
		return FunctionDecl{}, err
	}

	return FunctionDecl{Name: name, Description: description, Parameters: params}, nil
}

// ExtractCodeBlock returns the body of the first ```lang fenced block in text.
func ExtractCodeBlock(text, lang string) (string, bool) {
	re := regexp.MustCompile("(?s)```" + regexp.QuoteMeta(lang) + "(.+?)```")

	match := re.FindStringSubmatch(text)
	if match == nil {
		return "", false
	}

	return match[1], true
}

const functionsPrompt = "Don't make assumptions about what values to plug into functions. Ask for clarification if a user request is ambiguous.\n\nHuman: {input}\nChatbot:"

// CallFunction offers functions to the model for input. The call is nil when the model
// answered with text instead.
func CallFunction(ctx context.Context, c Completer, input string, functions ...FunctionDecl) (*FunctionCall, error) {
	resp, err := c.Complete(ctx, Request{
		Messages:  []Message{{Role: RoleUser, Content: strings.ReplaceAll(functionsPrompt, "{input}", input)}},
		Functions: functions,
	})
	if err != nil {
		return nil, err
	}

	return resp.FunctionCall, nil
}
