package provider

import (
	"context"
	"fmt"
	"io"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/schollz/progressbar/v3"

	"github.com/rxtech-lab/argo-agent/pkg/errors"
	"github.com/rxtech-lab/argo-agent/pkg/marketdata"
)

type PolygonClient struct {
	client   *polygon.Client
	progress io.Writer
}

func NewPolygonClient(apiKey string) (*PolygonClient, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "polygon api key is required")
	}

	return &PolygonClient{client: polygon.New(apiKey), progress: io.Discard}, nil
}

// WithProgress renders a day-based progress bar on w while aggregates stream in.
func (c *PolygonClient) WithProgress(w io.Writer) *PolygonClient {
	c.progress = w

	return c
}

// Params builds the aggregate query for ticker over r. An open range ends at now.
func Params(ticker string, timespan marketdata.Timespan, r marketdata.Range, now time.Time) *models.ListAggsParams {
	//nolint:exhaustruct // third-party struct with many optional fields
	return models.ListAggsParams{
		Ticker:     ticker,
		Multiplier: timespan.Multiplier(),
		Timespan:   timespan.Timespan(),
		From:       models.Millis(r.Start),
		To:         models.Millis(r.EndOr(now)),
	}.WithLimit(50000)
}

// Aggregates collects every aggregate bar for ticker over r.
func (c *PolygonClient) Aggregates(ctx context.Context, ticker string, timespan marketdata.Timespan, r marketdata.Range) ([]marketdata.Bar, error) {
	end := r.EndOr(time.Now())
	totalDays := int(end.Sub(r.Start).Hours()/24) + 1

	bar := progressbar.NewOptions(totalDays,
		progressbar.OptionSetWriter(c.progress),
		progressbar.OptionSetDescription(fmt.Sprintf("Downloading %s", ticker)),
		progressbar.OptionShowCount(),
	)

	iter := c.client.ListAggs(ctx, Params(ticker, timespan, r, end))

	var bars []marketdata.Bar

	for iter.Next() {
		agg := iter.Item()
		ts := time.Time(agg.Timestamp)

		bars = append(bars, marketdata.Bar{
			Symbol:   ticker,
			Interval: timespan,
			Time:     ts,
			Open:     agg.Open,
			High:     agg.High,
			Low:      agg.Low,
			Close:    agg.Close,
			Volume:   agg.Volume,
		})

		if len(bars)%1000 == 0 {
			_ = bar.Set(int(ts.Sub(r.Start).Hours() / 24))
		}
	}

	if err := iter.Err(); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "error iterating polygon aggregates for %s", ticker)
	}

	_ = bar.Finish()

	return bars, nil
}
