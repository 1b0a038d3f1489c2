package provider

import (
	"testing"
	"time"

	"github.com/polygon-io/client-go/rest/models"
	"github.com/stretchr/testify/suite"

	"github.com/rxtech-lab/argo-agent/pkg/errors"
	"github.com/rxtech-lab/argo-agent/pkg/marketdata"
)

type PolygonClientTestSuite struct {
	suite.Suite
}

func TestPolygonClientSuite(t *testing.T) {
	suite.Run(t, new(PolygonClientTestSuite))
}

func (suite *PolygonClientTestSuite) TestRequiresAPIKey() {
	_, err := NewPolygonClient("")
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))

	client, err := NewPolygonClient("key")
	suite.Require().NoError(err)
	suite.NotNil(client)
}

func (suite *PolygonClientTestSuite) TestParamsOpenRange() {
	r, err := marketdata.ParseTimerange("20240101-")
	suite.Require().NoError(err)

	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	params := Params("AAPL", marketdata.TimespanFifteenMinutes, r, now)

	suite.Equal("AAPL", params.Ticker)
	suite.Equal(15, params.Multiplier)
	suite.Equal(models.Minute, params.Timespan)
	suite.Equal(models.Millis(r.Start), params.From)
	suite.Equal(models.Millis(now), params.To)
}

func (suite *PolygonClientTestSuite) TestParamsClosedRange() {
	r, err := marketdata.ParseTimerange("20240101-20240131")
	suite.Require().NoError(err)

	params := Params("MSFT", marketdata.TimespanOneDay, r, time.Now())
	suite.Equal(models.Day, params.Timespan)
	suite.Equal(models.Millis(r.End.Unwrap()), params.To)
}
