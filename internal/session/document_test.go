package session

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

type DocumentTestSuite struct {
	suite.Suite
}

func TestDocumentSuite(t *testing.T) {
	suite.Run(t, new(DocumentTestSuite))
}

type blockSettings struct {
	Pairs     string `json:"pairs"`
	Timeframe string `json:"timeframe"`
}

func (b *blockSettings) Validate() error { return nil }

func (suite *DocumentTestSuite) TestParseDocument() {
	tests := []struct {
		name     string
		text     string
		prose    string
		block    string
		hasBlock bool
	}{
		{"prose only", "Buy when RSI<30.\n", "Buy when RSI<30.", "", false},
		{"with block", "Buy when RSI<30.\n\n---\n\nStrategy Config:\n\n{\"pairs\": \"BTC/USDT\"}\n", "Buy when RSI<30.", "{\"pairs\": \"BTC/USDT\"}", true},
		{"block without header", "Buy.\n---\n{\"a\": 1}", "Buy.", "{\"a\": 1}", true},
		{"prose has its own rule", "Part one\n---\nPart two\n\n---\n\nStrategy Config:\n{}", "Part one\n---\nPart two", "{}", true},
		{"empty block", "Buy.\n---\n", "Buy.", "", true},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			doc := ParseDocument(tc.text)
			suite.Equal(tc.prose, doc.Prose)
			suite.Equal(tc.block, doc.Block)
			suite.Equal(tc.hasBlock, doc.HasBlock)
		})
	}
}

func (suite *DocumentTestSuite) TestRender() {
	doc := ParseDocument("Buy when RSI<30.")

	rendered, err := doc.Render(&blockSettings{Pairs: "BTC/USDT:USDT", Timeframe: "5m"})
	suite.Require().NoError(err)
	suite.Equal("Buy when RSI<30.\n\n---\n\nStrategy Config:\n\n{\n    \"pairs\": \"BTC/USDT:USDT\",\n    \"timeframe\": \"5m\"\n}", rendered)

	again := ParseDocument(rendered)
	suite.Equal(doc.Prose, again.Prose)
	suite.True(again.HasBlock)
	suite.JSONEq(`{"pairs":"BTC/USDT:USDT","timeframe":"5m"}`, again.Block)
}

func (suite *DocumentTestSuite) TestRenderKeepsProseBytes() {
	settings := &blockSettings{Pairs: "BTC/USDT:USDT", Timeframe: "5m"}

	for _, text := range []string{
		"Buy.\n\n\n",
		"  Buy when RSI<30.  \r\n\tSell when RSI>70.\n",
		"Part one\n---\nPart two\n",
	} {
		rendered, err := ParseDocument(text).Render(settings)
		suite.Require().NoError(err)
		suite.True(strings.HasPrefix(rendered, text+"\n\n---\n\nStrategy Config:\n\n"), "%q", rendered)

		again, err := ParseDocument(rendered).Render(&blockSettings{Pairs: "ETH/USDT:USDT", Timeframe: "5m"})
		suite.Require().NoError(err)
		suite.True(strings.HasPrefix(again, text+"\n\n---\n\nStrategy Config:\n\n"), "%q", again)

		third, err := ParseDocument(rendered).Render(settings)
		suite.Require().NoError(err)
		suite.Equal(rendered, third)
	}
}

func (suite *DocumentTestSuite) TestRenderNormalisesPadding() {
	rendered, err := ParseDocument("Buy.\n---\n{}").Render(&blockSettings{})
	suite.Require().NoError(err)
	suite.True(strings.HasPrefix(rendered, "Buy.\n\n---\n\nStrategy Config:"), "%q", rendered)
}

func (suite *DocumentTestSuite) TestCovers() {
	listing := []Coverage{
		{Pair: "BTC/USDT:USDT", Timeframe: "5m", Type: "futures"},
		{Pair: "ETH/USDT:USDT", Timeframe: "5m", Type: "futures"},
		{Pair: "ETH/USDT:USDT", Timeframe: "15m", Type: "futures"},
	}

	suite.True(Covers(listing, []string{"BTC/USDT:USDT", "ETH/USDT:USDT"}, "5m", "futures"))
	suite.False(Covers(listing, []string{"BTC/USDT:USDT"}, "15m", "futures"))
	suite.False(Covers(listing, []string{"BTC/USDT:USDT"}, "5m", "spot"))
	suite.False(Covers(listing, []string{"SOL/USDT:USDT"}, "5m", "futures"))
	suite.False(Covers(nil, []string{"BTC/USDT:USDT"}, "5m", "futures"))
	suite.True(Covers(listing, nil, "5m", "futures"))
}
