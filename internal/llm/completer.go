// Package llm talks to a chat completion service.
package llm

import (
	"context"
	"encoding/json"
)

// Role names a chat message author.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one chat turn.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// FunctionDecl describes a function the model may ask to call.
type FunctionDecl struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

// FunctionCall is the model's request to call one declared function.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// Request is a single completion request.
type Request struct {
	Model       string
	Messages    []Message
	Temperature float64
	Stop        []string
	Functions   []FunctionDecl
}

// Response is the first choice of a completion.
type Response struct {
	Text         string
	FunctionCall *FunctionCall
}

// Completer produces completions. Errors carry ErrCodeCompletionFailed.
type Completer interface {
	Complete(ctx context.Context, req Request) (*Response, error)
}

// Predict sends prompt as a single user message and returns the text reply.
func Predict(ctx context.Context, c Completer, prompt string, stop ...string) (string, error) {
	resp, err := c.Complete(ctx, Request{
		Messages: []Message{{Role: RoleUser, Content: prompt}},
		Stop:     stop,
	})
	if err != nil {
		return "", err
	}

	return resp.Text, nil
}
