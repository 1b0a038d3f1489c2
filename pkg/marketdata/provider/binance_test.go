package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/rxtech-lab/argo-agent/pkg/errors"
)

type BinanceClientTestSuite struct {
	suite.Suite
	server *httptest.Server
	client *BinanceClient
}

func TestBinanceClientSuite(t *testing.T) {
	suite.Run(t, new(BinanceClientTestSuite))
}

func (suite *BinanceClientTestSuite) SetupTest() {
	suite.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/api/v3/exchangeInfo":
			_, _ = w.Write([]byte(`{"timezone":"UTC","symbols":[
				{"symbol":"ETHUSDT","status":"TRADING","baseAsset":"ETH","quoteAsset":"USDT"},
				{"symbol":"BTCUSDT","status":"TRADING","baseAsset":"BTC","quoteAsset":"USDT"},
				{"symbol":"LUNAUSDT","status":"BREAK","baseAsset":"LUNA","quoteAsset":"USDT"}]}`))
		case "/fapi/v1/exchangeInfo":
			_, _ = w.Write([]byte(`{"timezone":"UTC","symbols":[
				{"symbol":"BTCUSDT","pair":"BTCUSDT","contractType":"PERPETUAL","status":"TRADING","baseAsset":"BTC","quoteAsset":"USDT","marginAsset":"USDT"},
				{"symbol":"BTCUSDT_231229","pair":"BTCUSDT","contractType":"CURRENT_QUARTER","status":"TRADING","baseAsset":"BTC","quoteAsset":"USDT","marginAsset":"USDT"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"code":-1,"msg":"not found"}`))
		}
	}))

	suite.client = NewBinanceClient().WithBaseURLs(suite.server.URL, suite.server.URL)
}

func (suite *BinanceClientTestSuite) TearDownTest() {
	suite.server.Close()
}

func (suite *BinanceClientTestSuite) TestSpotMarkets() {
	markets, err := suite.client.Markets(context.Background(), false)
	suite.Require().NoError(err)
	suite.Require().Len(markets, 3)

	suite.Equal("BTC/USDT", markets[0].Symbol)
	suite.Equal("spot", markets[0].Type)
	suite.True(markets[0].Active)
	suite.Equal("LUNA/USDT", markets[2].Symbol)
	suite.False(markets[2].Active)
}

func (suite *BinanceClientTestSuite) TestFuturesMarkets() {
	markets, err := suite.client.Markets(context.Background(), true)
	suite.Require().NoError(err)
	suite.Require().Len(markets, 2)

	suite.Equal("BTC/USDT:USDT", markets[0].Symbol)
	suite.Equal("PERPETUAL", markets[0].Contract)
	suite.Equal("USDT", markets[0].Settle)
	suite.Equal("BTCUSDT_231229", markets[1].Symbol)
}

func (suite *BinanceClientTestSuite) TestFetchFailure() {
	client := NewBinanceClient().WithBaseURLs(suite.server.URL+"/down", suite.server.URL+"/down")

	_, err := client.Markets(context.Background(), false)
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeMarketDataFetchFailed))
}
