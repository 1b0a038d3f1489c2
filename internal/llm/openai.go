package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rxtech-lab/argo-agent/internal/logger"
	"github.com/rxtech-lab/argo-agent/pkg/errors"
	"go.uber.org/zap"
)

// OpenAIConfig configures the chat completions client.
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// OpenAI is a Completer for any OpenAI compatible /chat/completions endpoint.
type OpenAI struct {
	config OpenAIConfig
	http   *resty.Client
	logger *logger.Logger
}

var _ Completer = (*OpenAI)(nil)

func NewOpenAI(config OpenAIConfig, log *logger.Logger) *OpenAI {
	return &OpenAI{
		config: config,
		http: resty.New().
			SetBaseURL(strings.TrimRight(config.BaseURL, "/")).
			SetTimeout(config.Timeout).
			SetAuthToken(config.APIKey).
			SetHeader("Content-Type", "application/json"),
		logger: log,
	}
}

type chatTool struct {
	Type     string       `json:"type"`
	Function FunctionDecl `json:"function"`
}

type chatRequest struct {
	Model       string     `json:"model"`
	Messages    []Message  `json:"messages"`
	Temperature float64    `json:"temperature"`
	Stop        []string   `json:"stop,omitempty"`
	Tools       []chatTool `json:"tools,omitempty"`
	ToolChoice  string     `json:"tool_choice,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content      string        `json:"content"`
			FunctionCall *FunctionCall `json:"function_call"`
			ToolCalls    []struct {
				Type     string       `json:"type"`
				Function FunctionCall `json:"function"`
			} `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
}

type chatError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Complete sends req and returns the first choice.
func (o *OpenAI) Complete(ctx context.Context, req Request) (*Response, error) {
	model := req.Model
	if model == "" {
		model = o.config.Model
	}

	body := chatRequest{
		Model:       model,
		Messages:    req.Messages,
		Temperature: o.config.Temperature,
		Stop:        req.Stop,
	}

	if req.Temperature != 0 {
		body.Temperature = req.Temperature
	}

	for _, fn := range req.Functions {
		body.Tools = append(body.Tools, chatTool{Type: "function", Function: fn})
	}

	if len(body.Tools) > 0 {
		body.ToolChoice = "auto"
	}

	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to encode completion request", err)
	}

	o.logger.Debug("completion request", zap.String("model", model), zap.Int("messages", len(req.Messages)), zap.Int("functions", len(req.Functions)))

	resp, err := o.http.R().
		SetContext(ctx).
		SetBody(bodyBytes).
		Post("/chat/completions")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCompletionFailed, "completion service unreachable", err)
	}

	respBytes := resp.Body()

	if resp.IsError() {
		var apiErr chatError
		if jsonErr := json.Unmarshal(respBytes, &apiErr); jsonErr == nil && apiErr.Error.Message != "" {
			return nil, errors.Newf(errors.ErrCodeCompletionFailed, "completion service returned %d: %s", resp.StatusCode(), apiErr.Error.Message)
		}

		return nil, errors.Newf(errors.ErrCodeCompletionFailed, "completion service returned %d: %s", resp.StatusCode(), strings.TrimSpace(string(respBytes)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBytes, &parsed); err != nil {
		return nil, errors.Wrap(errors.ErrCodeCompletionFailed, "malformed completion response", err)
	}

	if len(parsed.Choices) == 0 {
		return nil, errors.New(errors.ErrCodeCompletionFailed, "completion response has no choices")
	}

	msg := parsed.Choices[0].Message
	out := &Response{Text: msg.Content}

	switch {
	case len(msg.ToolCalls) > 0:
		call := msg.ToolCalls[0].Function
		out.FunctionCall = &call
	case msg.FunctionCall != nil:
		out.FunctionCall = msg.FunctionCall
	}

	if out.FunctionCall != nil {
		o.logger.Debug("completion function call", zap.String("function", out.FunctionCall.Name))
	}

	return out, nil
}

// String identifies the client in logs.
func (o *OpenAI) String() string {
	return fmt.Sprintf("openai(%s)", o.config.Model)
}
