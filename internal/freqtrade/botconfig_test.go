package freqtrade

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
)

type BotConfigTestSuite struct {
	suite.Suite
}

func TestBotConfigSuite(t *testing.T) {
	suite.Run(t, new(BotConfigTestSuite))
}

func (suite *BotConfigTestSuite) TestTemplateFields() {
	s := DefaultSettings()
	s.Pairs = "BTC/USDT:USDT, ETH/USDT:USDT"
	s.AddTimeframes = "15m"

	cfg := NewBotConfig(s)

	suite.Equal([]string{"BTC/USDT:USDT", "ETH/USDT:USDT"}, cfg.Exchange.PairWhitelist)
	suite.Equal(cfg.Exchange.PairWhitelist, cfg.Pairs)
	suite.Equal([]string{"15m", "5m"}, cfg.Timeframes)
	suite.Equal("sqlite:///user_data/tradesv3.dryrun.sqlite", cfg.DBURL)
	suite.Equal("user_data/strategies", cfg.StrategyPath)
	suite.Equal("user_data/data/binance", cfg.DataDir)
	suite.Equal("user_data/backtest_results", cfg.ExportFilename)
	suite.Equal("isolated", cfg.MarginMode)
	suite.Equal("json", cfg.DataFormatOHLCV)
	suite.Equal([]PairList{{Method: "StaticPairList"}}, cfg.PairLists)
	suite.NotEqual(cfg.APIServer.JWTSecretKey, cfg.APIServer.WSToken)
}

func (suite *BotConfigTestSuite) TestLiveSpot() {
	s := DefaultSettings()
	s.DryRun = false
	s.TradingMode = TradingModeSpot

	cfg := NewBotConfig(s)
	suite.Equal("sqlite:///user_data/tradesv3.sqlite", cfg.DBURL)
	suite.Empty(cfg.MarginMode)
}

func (suite *BotConfigTestSuite) TestWrite() {
	s := DefaultSettings()
	s.UserDataDir = filepath.Join(suite.T().TempDir(), "ud")

	suite.Require().NoError(WriteBotConfig(s))

	content, err := os.ReadFile(filepath.Join(s.UserDataDir, "config.json"))
	suite.Require().NoError(err)

	var decoded map[string]any
	suite.Require().NoError(json.Unmarshal(content, &decoded))
	suite.Equal("20230101-", decoded["timerange"])
	suite.Equal("binance", decoded["exchange"].(map[string]any)["name"])
	suite.Equal(true, decoded["dry_run"])
}
