package agent

import (
	"context"
	"testing"

	"github.com/rxtech-lab/argo-agent/internal/llm"
	"github.com/rxtech-lab/argo-agent/mocks"
	"github.com/rxtech-lab/argo-agent/pkg/errors"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ExtractionTestSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	completer *mocks.MockCompleter
}

func TestExtractionSuite(t *testing.T) {
	suite.Run(t, new(ExtractionTestSuite))
}

func (suite *ExtractionTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.completer = mocks.NewMockCompleter(suite.ctrl)
}

func (suite *ExtractionTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func fixed(text string) Reasoner {
	return ReasonerFunc(func(context.Context, Turn) (string, error) {
		return text, nil
	})
}

func (suite *ExtractionTestSuite) TestPatchesStrategyCreation() {
	first := "Thought: create it\nAction: strategy_creation\nAction Input: blah\n"

	suite.completer.EXPECT().Complete(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req llm.Request) (*llm.Response, error) {
			suite.Require().Len(req.Messages, 1)
			prompt := req.Messages[0].Content
			suite.Contains(prompt, "```\ngo long on breakout\n```")
			// the first completion is never shown to the extraction prompt
			suite.NotContains(prompt, "blah")

			return &llm.Response{Text: "Strategy Description: `buy breakouts`"}, nil
		})

	reasoner := WithExtraction(suite.completer)(fixed(first))

	out, err := reasoner.Reason(context.Background(), Turn{Input: "go long on breakout"})
	suite.Require().NoError(err)
	suite.Equal("Thought: create it\nAction: strategy_creation\nAction Input: Strategy Description: `buy breakouts`", out)

	decision, err := ParseOutput(out)
	suite.Require().NoError(err)
	suite.Equal("Strategy Description: `buy breakouts`", decision.Action.Input)
}

func (suite *ExtractionTestSuite) TestPatchesDataNamespace() {
	suite.completer.EXPECT().Complete(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req llm.Request) (*llm.Response, error) {
			suite.Contains(req.Messages[0].Content, "Data Description:")

			return &llm.Response{Text: "rebar minute bars"}, nil
		})

	reasoner := WithExtraction(suite.completer)(fixed("Action: market_data_futures\nAction Input: please get me\n"))

	out, err := reasoner.Reason(context.Background(), Turn{Input: "rb0 minute data"})
	suite.Require().NoError(err)
	suite.Equal("Action: market_data_futures\nAction Input: rebar minute bars", out)
}

func (suite *ExtractionTestSuite) TestOtherToolsPassThrough() {
	texts := []string{
		"Action: strategy_backtest\nAction Input: blah\n",
		"Action: data_download\nAction Input: market_data\n",
		"Action: strategy_creation_v2\nAction Input: x",
		"Final Answer: nothing to do",
		"  Action: strategy_creation\nAction Input: indented marker is not a declaration",
	}

	for _, text := range texts {
		// no completion is expected; gomock fails the test on any call
		out, err := WithExtraction(suite.completer)(fixed(text)).Reason(context.Background(), Turn{Input: "q"})
		suite.NoError(err)
		suite.Equal(text, out)
	}
}

func (suite *ExtractionTestSuite) TestMissingInputMarkerAppends() {
	suite.completer.EXPECT().Complete(gomock.Any(), gomock.Any()).Return(&llm.Response{Text: "clean"}, nil)

	out, err := WithExtraction(suite.completer)(fixed("Action: strategy_creation")).Reason(context.Background(), Turn{Input: "q"})
	suite.NoError(err)
	suite.Equal("Action: strategy_creation"+"Action Input: clean", out)
}

func (suite *ExtractionTestSuite) TestCompletionFailurePropagates() {
	suite.completer.EXPECT().Complete(gomock.Any(), gomock.Any()).
		Return(nil, errors.New(errors.ErrCodeCompletionFailed, "rate limited"))

	_, err := WithExtraction(suite.completer)(fixed("Action: strategy_creation\nAction Input: x")).Reason(context.Background(), Turn{Input: "q"})
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeCompletionFailed))
}

func (suite *ExtractionTestSuite) TestCustomRule() {
	rule := ExtractionRule{
		Match:    func(tool string) bool { return tool == "extract_strategy" },
		Template: "URL only: {raw_input}",
	}

	suite.completer.EXPECT().Complete(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req llm.Request) (*llm.Response, error) {
			suite.Equal("URL only: see https://example.com", req.Messages[0].Content)

			return &llm.Response{Text: "https://example.com"}, nil
		})

	// default rules are replaced, so strategy_creation is left alone
	out, err := WithExtraction(suite.completer, rule)(fixed("Action: extract_strategy\nAction Input: x")).
		Reason(context.Background(), Turn{Input: "see https://example.com"})
	suite.NoError(err)
	suite.Equal("Action: extract_strategy\nAction Input: https://example.com", out)
}

func (suite *ExtractionTestSuite) TestDeclaredTool() {
	name, ok := DeclaredTool("Thought: x\nAction: strategy_creation \nAction Input: y")
	suite.True(ok)
	suite.Equal("strategy_creation", name)

	_, ok = DeclaredTool("Thought: nothing")
	suite.False(ok)
}
