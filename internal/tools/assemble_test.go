package tools

import (
	"context"

	"go.uber.org/mock/gomock"

	"github.com/rxtech-lab/argo-agent/internal/agent"
	"github.com/rxtech-lab/argo-agent/internal/session"
)

func (suite *ToolsTestSuite) TestAssembleOrder() {
	tests := []struct {
		kind     session.Kind
		commands string
	}{
		{session.KindFreqtrade, "freqtrade_commands"},
		{session.KindVnpy, "vnpy_commands"},
	}

	for _, tc := range tests {
		suite.Run(string(tc.kind), func() {
			tools, err := Assemble(suite.env, tc.kind)
			suite.Require().NoError(err)

			suite.Equal([]string{
				tc.commands,
				"data_download",
				"strategy_backtest",
				"strategy_optimization",
				"strategy_creation",
			}, agent.ToolNames(tools))

			for _, t := range tools {
				suite.NotEmpty(t.Description())
				suite.False(t.ReturnDirect())
			}
		})
	}
}

func (suite *ToolsTestSuite) TestAssembleSharesEnv() {
	suite.env.ReturnDirect = true

	tools, err := Assemble(suite.env, session.KindVnpy)
	suite.Require().NoError(err)

	for _, t := range tools {
		suite.True(t.ReturnDirect(), t.Name())
	}
}

func (suite *ToolsTestSuite) TestAssembleUnknownFramework() {
	_, err := Assemble(suite.env, session.Kind("qlib"))
	suite.Error(err)
}

func (suite *ToolsTestSuite) TestAssembledToolsPrintResults() {
	suite.session.EXPECT().ListStrategies(gomock.Any()).Return([]session.StrategyInfo{{Name: "AutoStrategy"}}, nil).AnyTimes()

	suite.Run("freqtrade shows the hyperopt ranking", func() {
		tools, err := Assemble(suite.env, session.KindFreqtrade)
		suite.Require().NoError(err)

		suite.session.EXPECT().Backtest(gomock.Any(), "AutoStrategy").Return(nil)
		_, err = tools[2].Run(context.Background(), "")
		suite.Require().NoError(err)

		suite.session.EXPECT().Optimize(gomock.Any(), "AutoStrategy").Return(nil)
		suite.session.EXPECT().ShowOptimization(gomock.Any()).Return(nil)
		_, err = tools[3].Run(context.Background(), "")
		suite.Require().NoError(err)
	})

	suite.Run("vnpy shows the backtest statistics", func() {
		tools, err := Assemble(suite.env, session.KindVnpy)
		suite.Require().NoError(err)

		suite.session.EXPECT().Backtest(gomock.Any(), "AutoStrategy").Return(nil)
		suite.session.EXPECT().ShowBacktest(gomock.Any()).Return(nil)
		_, err = tools[2].Run(context.Background(), "")
		suite.Require().NoError(err)

		suite.session.EXPECT().Optimize(gomock.Any(), "AutoStrategy").Return(nil)
		_, err = tools[3].Run(context.Background(), "")
		suite.Require().NoError(err)
	})
}
