package tools

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/mock/gomock"

	"github.com/rxtech-lab/argo-agent/internal/console"
	"github.com/rxtech-lab/argo-agent/internal/llm"
	"github.com/rxtech-lab/argo-agent/internal/session"
	"github.com/rxtech-lab/argo-agent/mocks"
	"github.com/rxtech-lab/argo-agent/pkg/errors"
)

type symbolSettings struct {
	Symbol   string `json:"symbol" jsonschema_description:"Contract with exchange."`
	Interval string `json:"interval"`
}

func (s *symbolSettings) Validate() error {
	if s.Symbol == "" {
		return errors.New(errors.ErrCodeMissingField, "symbol is required")
	}

	return nil
}

// symbolFramework asks for the symbol only and opens sessions that pass the probe.
type symbolFramework struct {
	ctrl    *gomock.Controller
	opened  []*mocks.MockSession
	openErr error
}

func (f *symbolFramework) Kind() session.Kind { return session.KindVnpy }

func (f *symbolFramework) Defaults() session.Settings {
	return &symbolSettings{Symbol: "IF2309.CFFEX", Interval: "1m"}
}

func (f *symbolFramework) Parse(block string) (session.Settings, error) {
	s := &symbolSettings{}
	if err := json.Unmarshal([]byte(block), s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "bad block", err)
	}

	return s, nil
}

func (f *symbolFramework) Interview(_ context.Context, p console.Prompter, defaults session.Settings) (session.Settings, error) {
	d := defaults.(*symbolSettings)

	answer, err := p.Ask("1. symbol(default: " + d.Symbol + "): ")
	if err != nil {
		return nil, err
	}

	if answer = strings.TrimSpace(answer); answer == "" {
		answer = d.Symbol
	}

	return &symbolSettings{Symbol: answer, Interval: d.Interval}, nil
}

func (f *symbolFramework) Open(_ context.Context, settings session.Settings) (session.Session, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}

	sess := mocks.NewMockSession(f.ctrl)
	sess.EXPECT().Settings().Return(settings).AnyTimes()
	sess.EXPECT().Validate(gomock.Any()).Return(nil)
	f.opened = append(f.opened, sess)

	return sess, nil
}

func (f *symbolFramework) RetryMessage() string { return "check the symbol" }

func (suite *ToolsTestSuite) commandsTool(framework *symbolFramework, answers ...string) *CommandsTool {
	suite.answers(answers...)

	path := filepath.Join(suite.T().TempDir(), "trader_vnpy.txt")
	suite.Require().NoError(os.WriteFile(path, []byte("Buy when RSI<30."), 0o644))

	suite.env.ConfigPath = path
	suite.env.Resolver = session.NewResolver(framework, suite.env.Prompter, suite.env.Printer, suite.env.Logger)

	decl, err := llm.DeclareFunction[symbolSettings]("vnpy_commands", "Modify project parameters.")
	suite.Require().NoError(err)

	return NewCommandsTool(suite.env, decl)
}

func (suite *ToolsTestSuite) TestCommandsUsesHintsAsDefaults() {
	framework := &symbolFramework{ctrl: suite.ctrl}
	tool := suite.commandsTool(framework, "")

	suite.Equal("vnpy_commands", tool.Name())
	suite.Equal("Modify project parameters.", tool.Description())

	suite.completer.EXPECT().Complete(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req llm.Request) (*llm.Response, error) {
			suite.Require().Len(req.Functions, 1)
			suite.Equal("vnpy_commands", req.Functions[0].Name)
			suite.Contains(req.Messages[0].Content, "Human: Please provide information about vnpy_commands?\nChatbot:")

			return &llm.Response{FunctionCall: &llm.FunctionCall{
				Name:      "vnpy_commands",
				Arguments: `{"symbol": "rb2310.SHFE", "interval": "5m"}`,
			}}, nil
		})

	out, err := tool.Run(context.Background(), "switch to rebar")
	suite.Require().NoError(err)
	suite.Equal("The project parameters have been configured. ", out)

	suite.Contains(suite.out.String(), "The default configuration information is being modified.")
	suite.Contains(suite.out.String(), "1. symbol(default: rb2310.SHFE): ")

	suite.Require().Len(framework.opened, 1)
	suite.Same(framework.opened[0], suite.env.Session)

	content, err := os.ReadFile(suite.env.ConfigPath)
	suite.Require().NoError(err)
	suite.True(strings.HasPrefix(string(content), "Buy when RSI<30.\n\n---\n\nStrategy Config:"))
	suite.Contains(string(content), `"symbol": "rb2310.SHFE"`)
}

func (suite *ToolsTestSuite) TestCommandsWithoutFunctionCall() {
	framework := &symbolFramework{ctrl: suite.ctrl}
	tool := suite.commandsTool(framework, "")

	suite.completer.EXPECT().Complete(gomock.Any(), gomock.Any()).
		Return(&llm.Response{Text: "Which contract?"}, nil)

	out, err := tool.Run(context.Background(), "")
	suite.Require().NoError(err)
	suite.Equal("The project parameters have been configured. ", out)
	suite.Contains(suite.out.String(), "1. symbol(default: IF2309.CFFEX): ")
}

func (suite *ToolsTestSuite) TestCommandsInterviewAborted() {
	framework := &symbolFramework{ctrl: suite.ctrl}
	tool := suite.commandsTool(framework)
	suite.env.Prompter = console.NewReaderPrompter(strings.NewReader(""), suite.out)
	suite.env.Resolver = session.NewResolver(framework, suite.env.Prompter, suite.env.Printer, suite.env.Logger)

	suite.completer.EXPECT().Complete(gomock.Any(), gomock.Any()).Return(&llm.Response{}, nil)

	out, err := tool.Run(context.Background(), "")
	suite.Require().NoError(err)
	suite.Equal("The project parameters were not configured. ", out)
	suite.Same(suite.session, suite.env.Session)
}

func (suite *ToolsTestSuite) TestCommandsInternalFault() {
	framework := &symbolFramework{ctrl: suite.ctrl, openErr: errors.New(errors.ErrCodeInternal, "database closed")}
	tool := suite.commandsTool(framework, "")

	suite.completer.EXPECT().Complete(gomock.Any(), gomock.Any()).Return(&llm.Response{}, nil)

	_, err := tool.Run(context.Background(), "")
	suite.True(errors.HasCode(err, errors.ErrCodeInternal))
}
