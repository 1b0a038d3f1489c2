package indicator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/suite"
)

type IndicatorTestSuite struct {
	suite.Suite
}

func TestIndicatorSuite(t *testing.T) {
	suite.Run(t, new(IndicatorTestSuite))
}

func (suite *IndicatorTestSuite) inDelta(expected, actual []float64) {
	suite.Require().Len(actual, len(expected))

	for i := range expected {
		suite.InDelta(expected[i], actual[i], 1e-9, "index %d", i)
	}
}

func (suite *IndicatorTestSuite) TestSMA() {
	suite.inDelta([]float64{2, 3, 4}, SMA([]float64{1, 2, 3, 4, 5}, 3))
	suite.Nil(SMA([]float64{1, 2}, 3))
	suite.Nil(SMA([]float64{1, 2}, 0))
}

func (suite *IndicatorTestSuite) TestEMA() {
	suite.inDelta([]float64{2, 3, 4}, EMA([]float64{1, 2, 3, 4, 5}, 3))
	suite.inDelta([]float64{1.5, 2.5, 3.5, 4.5}, EMA([]float64{1, 2, 3, 4, 5}, 2))
	suite.Nil(EMA(nil, 3))
}

func (suite *IndicatorTestSuite) TestRSI() {
	suite.inDelta([]float64{100}, RSI([]float64{1, 2, 3, 4}, 3))
	suite.inDelta([]float64{50, 75, 37.5}, RSI([]float64{1, 2, 1, 2, 1}, 2))
	suite.Nil(RSI([]float64{1, 2, 3}, 3))
}

func (suite *IndicatorTestSuite) TestATR() {
	high := []float64{10, 12}
	low := []float64{8, 11}
	closes := []float64{9, 11.5}

	suite.inDelta([]float64{2, 3}, TrueRange(high, low, closes))
	suite.inDelta([]float64{2.5}, ATR(high, low, closes, 2))
	suite.Nil(ATR(high, low, closes, 3))
}

func (suite *IndicatorTestSuite) TestBollingerBands() {
	upper, middle, lower := BollingerBands([]float64{1, 2, 3}, 3, 2)
	sd := math.Sqrt(2.0 / 3.0)

	suite.inDelta([]float64{2}, middle)
	suite.inDelta([]float64{2 + 2*sd}, upper)
	suite.inDelta([]float64{2 - 2*sd}, lower)

	upper, middle, lower = BollingerBands([]float64{1}, 3, 2)
	suite.Nil(upper)
	suite.Nil(middle)
	suite.Nil(lower)
}

func (suite *IndicatorTestSuite) TestMACD() {
	line, signal, hist := MACD([]float64{1, 2, 3, 4, 5}, 2, 3, 2)

	suite.inDelta([]float64{0.5, 0.5}, line)
	suite.inDelta([]float64{0.5, 0.5}, signal)
	suite.inDelta([]float64{0, 0}, hist)

	line, _, _ = MACD([]float64{1, 2, 3}, 3, 2, 2)
	suite.Nil(line)
}
