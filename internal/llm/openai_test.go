package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-agent/internal/logger"
	"github.com/rxtech-lab/argo-agent/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type OpenAITestSuite struct {
	suite.Suite
	server  *httptest.Server
	handler http.HandlerFunc
	client  *OpenAI
}

func TestOpenAISuite(t *testing.T) {
	suite.Run(t, new(OpenAITestSuite))
}

func (suite *OpenAITestSuite) SetupTest() {
	suite.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		suite.handler(w, r)
	}))
	suite.client = NewOpenAI(OpenAIConfig{
		APIKey:  "sk-test",
		BaseURL: suite.server.URL + "/v1/",
		Model:   "gpt-3.5-turbo-0613",
		Timeout: 5 * time.Second,
	}, logger.NewNopLogger())
}

func (suite *OpenAITestSuite) TearDownTest() {
	suite.server.Close()
}

func (suite *OpenAITestSuite) TestCompleteText() {
	var captured map[string]any

	suite.handler = func(w http.ResponseWriter, r *http.Request) {
		suite.Equal("/v1/chat/completions", r.URL.Path)
		suite.Equal("Bearer sk-test", r.Header.Get("Authorization"))

		body, _ := io.ReadAll(r.Body)
		suite.Require().NoError(json.Unmarshal(body, &captured))

		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Thought: done"}}]}`))
	}

	resp, err := suite.client.Complete(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
		Stop:     []string{"\nObservation:"},
	})
	suite.Require().NoError(err)
	suite.Equal("Thought: done", resp.Text)
	suite.Nil(resp.FunctionCall)

	suite.Equal("gpt-3.5-turbo-0613", captured["model"])
	suite.Equal(float64(0), captured["temperature"])
	suite.Equal([]any{"\nObservation:"}, captured["stop"])
	suite.NotContains(captured, "tools")
}

func (suite *OpenAITestSuite) TestCompleteToolCall() {
	var captured chatRequest

	suite.handler = func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		suite.Require().NoError(json.Unmarshal(body, &captured))

		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":null,"tool_calls":[{"id":"c1","type":"function","function":{"name":"futures_comm_info","arguments":"{\"exchange\":\"SHFE\"}"}}]}}]}`))
	}

	resp, err := suite.client.Complete(context.Background(), Request{
		Messages:  []Message{{Role: RoleUser, Content: "fees on SHFE"}},
		Functions: []FunctionDecl{{Name: "futures_comm_info", Description: "fees", Parameters: json.RawMessage(`{"type":"object"}`)}},
	})
	suite.Require().NoError(err)
	suite.Require().NotNil(resp.FunctionCall)
	suite.Equal("futures_comm_info", resp.FunctionCall.Name)
	suite.JSONEq(`{"exchange":"SHFE"}`, resp.FunctionCall.Arguments)

	suite.Equal("auto", captured.ToolChoice)
	suite.Require().Len(captured.Tools, 1)
	suite.Equal("function", captured.Tools[0].Type)
}

func (suite *OpenAITestSuite) TestCompleteLegacyFunctionCall() {
	suite.handler = func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"","function_call":{"name":"configure","arguments":"{}"}}}]}`))
	}

	resp, err := suite.client.Complete(context.Background(), Request{})
	suite.Require().NoError(err)
	suite.Equal("configure", resp.FunctionCall.Name)
}

func (suite *OpenAITestSuite) TestCompleteErrors() {
	tests := []struct {
		name     string
		status   int
		body     string
		contains string
	}{
		{"api error", http.StatusUnauthorized, `{"error":{"message":"bad key","type":"invalid_request_error"}}`, "bad key"},
		{"plain error", http.StatusBadGateway, `upstream down`, "upstream down"},
		{"no choices", http.StatusOK, `{"choices":[]}`, "no choices"},
		{"malformed", http.StatusOK, `{`, "malformed"},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.handler = func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}

			_, err := suite.client.Complete(context.Background(), Request{})
			suite.Error(err)
			suite.True(errors.HasCode(err, errors.ErrCodeCompletionFailed))
			suite.Contains(err.Error(), tc.contains)
		})
	}
}

func (suite *OpenAITestSuite) TestPredict() {
	suite.handler = func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest

		body, _ := io.ReadAll(r.Body)
		suite.Require().NoError(json.Unmarshal(body, &req))
		suite.Require().Len(req.Messages, 1)
		suite.Equal(RoleUser, req.Messages[0].Role)

		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"echo: ` + req.Messages[0].Content + `"}}]}`))
	}

	text, err := Predict(context.Background(), suite.client, "ping")
	suite.NoError(err)
	suite.Equal("echo: ping", text)
}
