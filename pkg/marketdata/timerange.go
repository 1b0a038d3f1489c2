package marketdata

import (
	"strings"
	"time"

	"github.com/moznion/go-optional"

	"github.com/rxtech-lab/argo-agent/pkg/errors"
)

const timerangeLayout = "20060102"

// Range is a "YYYYMMDD-[YYYYMMDD]" window. An empty End means "up to now".
type Range struct {
	Start time.Time
	End   optional.Option[time.Time]
}

// ParseTimerange parses the freqtrade timerange notation. The start date is required.
func ParseTimerange(s string) (Range, error) {
	s = strings.TrimSpace(s)

	start, end, found := strings.Cut(s, "-")
	if !found {
		return Range{}, errors.Newf(errors.ErrCodeInvalidTimerange, "timerange %q must look like YYYYMMDD-[YYYYMMDD]", s)
	}

	from, err := time.ParseInLocation(timerangeLayout, start, time.UTC)
	if err != nil {
		return Range{}, errors.Wrapf(errors.ErrCodeInvalidTimerange, err, "invalid timerange start %q", start)
	}

	r := Range{Start: from, End: optional.None[time.Time]()}
	if end == "" {
		return r, nil
	}

	to, err := time.ParseInLocation(timerangeLayout, end, time.UTC)
	if err != nil {
		return Range{}, errors.Wrapf(errors.ErrCodeInvalidTimerange, err, "invalid timerange end %q", end)
	}

	if to.Before(from) {
		return Range{}, errors.Newf(errors.ErrCodeInvalidTimerange, "timerange %q ends before it starts", s)
	}

	r.End = optional.Some(to)

	return r, nil
}

// EndOr resolves an open end to the given instant.
func (r Range) EndOr(now time.Time) time.Time {
	return r.End.TakeOr(now)
}

// Contains reports whether t falls inside the range. A closed end includes the whole end day.
func (r Range) Contains(t time.Time) bool {
	if t.Before(r.Start) {
		return false
	}

	if r.End.IsNone() {
		return true
	}

	return t.Before(r.End.Unwrap().AddDate(0, 0, 1))
}

func (r Range) String() string {
	if r.End.IsNone() {
		return r.Start.Format(timerangeLayout) + "-"
	}

	return r.Start.Format(timerangeLayout) + "-" + r.End.Unwrap().Format(timerangeLayout)
}
