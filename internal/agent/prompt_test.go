package agent

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

type PromptTestSuite struct {
	suite.Suite
}

func TestPromptSuite(t *testing.T) {
	suite.Run(t, new(PromptTestSuite))
}

func (suite *PromptTestSuite) TestBuildPrompt() {
	tools := []Tool{
		&fakeTool{name: "data_download", description: "Download data."},
		&fakeTool{name: "strategy_backtest", description: "Backtest."},
	}

	prompt := BuildPrompt(tools, Turn{Input: "backtest my strategy"})

	suite.True(strings.HasPrefix(prompt, promptPrefix+"\n\ndata_download: Download data.\nstrategy_backtest: Backtest.\n\n"))
	suite.Contains(prompt, "should be one of [data_download, strategy_backtest]")
	suite.True(strings.HasSuffix(prompt, "Begin!\n\nQuestion: backtest my strategy\nThought:"))
}

func (suite *PromptTestSuite) TestScratchpad() {
	steps := []Step{
		{Action: Action{Log: " I need data\nAction: data_download\nAction Input: x"}, Observation: "Data download is complete. "},
		{Action: Action{Log: "Action: strategy_backtest\nAction Input: y"}, Observation: "ok"},
	}

	suite.Equal(
		" I need data\nAction: data_download\nAction Input: x\nObservation: Data download is complete. \nThought: "+
			"Action: strategy_backtest\nAction Input: y\nObservation: ok\nThought: ",
		Scratchpad(steps),
	)

	prompt := BuildPrompt(nil, Turn{Input: "q", Steps: steps[:1]})
	suite.True(strings.HasSuffix(prompt, "Question: q\nThought: I need data\nAction: data_download\nAction Input: x\nObservation: Data download is complete. \nThought: "))
}
