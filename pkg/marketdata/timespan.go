package marketdata

import (
	"strings"
	"time"

	"github.com/polygon-io/client-go/rest/models"

	"github.com/rxtech-lab/argo-agent/pkg/errors"
)

// Timespan is a bar width in the "<n><unit>" notation shared by freqtrade and the cta engine.
type Timespan string

const (
	TimespanOneMinute      Timespan = "1m"
	TimespanThreeMinutes   Timespan = "3m"
	TimespanFiveMinutes    Timespan = "5m"
	TimespanFifteenMinutes Timespan = "15m"
	TimespanThirtyMinutes  Timespan = "30m"
	TimespanOneHour        Timespan = "1h"
	TimespanTwoHours       Timespan = "2h"
	TimespanFourHours      Timespan = "4h"
	TimespanSixHours       Timespan = "6h"
	TimespanEightHours     Timespan = "8h"
	TimespanTwelveHours    Timespan = "12h"
	TimespanOneDay         Timespan = "1d"
	TimespanThreeDays      Timespan = "3d"
	TimespanOneWeek        Timespan = "1w"
	TimespanOneMonth       Timespan = "1M"
)

var timespans = []Timespan{
	TimespanOneMinute, TimespanThreeMinutes, TimespanFiveMinutes, TimespanFifteenMinutes,
	TimespanThirtyMinutes, TimespanOneHour, TimespanTwoHours, TimespanFourHours, TimespanSixHours,
	TimespanEightHours, TimespanTwelveHours, TimespanOneDay, TimespanThreeDays, TimespanOneWeek,
	TimespanOneMonth,
}

// Timespans lists every known timespan, shortest first.
func Timespans() []Timespan {
	out := make([]Timespan, len(timespans))
	copy(out, timespans)

	return out
}

// ParseTimespan accepts a known timespan, ignoring surrounding whitespace.
func ParseTimespan(s string) (Timespan, error) {
	t := Timespan(strings.TrimSpace(s))
	for _, known := range timespans {
		if known == t {
			return t, nil
		}
	}

	return "", errors.Newf(errors.ErrCodeInvalidInterval, "unsupported timespan %q", s)
}

func (t Timespan) String() string {
	return string(t)
}

func (t Timespan) Multiplier() int {
	switch t {
	case TimespanThreeMinutes, TimespanThreeDays:
		return 3
	case TimespanFiveMinutes:
		return 5
	case TimespanFifteenMinutes:
		return 15
	case TimespanThirtyMinutes:
		return 30
	case TimespanTwoHours:
		return 2
	case TimespanFourHours:
		return 4
	case TimespanSixHours:
		return 6
	case TimespanEightHours:
		return 8
	case TimespanTwelveHours:
		return 12
	default:
		return 1
	}
}

// Timespan maps the width onto the polygon aggregate unit.
func (t Timespan) Timespan() models.Timespan {
	switch t {
	case TimespanOneMinute, TimespanThreeMinutes, TimespanFiveMinutes, TimespanFifteenMinutes, TimespanThirtyMinutes:
		return models.Minute
	case TimespanOneHour, TimespanTwoHours, TimespanFourHours, TimespanSixHours, TimespanEightHours, TimespanTwelveHours:
		return models.Hour
	case TimespanOneWeek:
		return models.Week
	case TimespanOneMonth:
		return models.Month
	default:
		return models.Day
	}
}

// Duration is the nominal bar width. A month counts as 30 days.
func (t Timespan) Duration() time.Duration {
	m := time.Duration(t.Multiplier())

	switch t.Timespan() {
	case models.Minute:
		return m * time.Minute
	case models.Hour:
		return m * time.Hour
	case models.Week:
		return m * 7 * 24 * time.Hour
	case models.Month:
		return m * 30 * 24 * time.Hour
	default:
		return m * 24 * time.Hour
	}
}

// Intraday reports whether bars are narrower than one trading day.
func (t Timespan) Intraday() bool {
	return t.Duration() < 24*time.Hour
}
