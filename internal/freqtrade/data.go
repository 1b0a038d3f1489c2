package freqtrade

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/rxtech-lab/argo-agent/internal/session"
	"github.com/rxtech-lab/argo-agent/pkg/errors"
	"github.com/rxtech-lab/argo-agent/pkg/marketdata"
)

const datetimePrintFormat = "2006-01-02 15:04:05"

var (
	ohlcvFilePattern = regexp.MustCompile(`^([a-zA-Z_\d-]+)-(\d+[a-zA-Z]{1,2})-?([a-zA-Z_]*)\.json$`)
	pairPrefix       = regexp.MustCompile(`^([A-Za-z\d]{1,10}|[A-Za-z\-]{1,6})_`)
)

// PairFromFilename reverses freqtrade's pair to file name mapping:
// BTC_USDT becomes BTC/USDT and BTC_USDT_USDT becomes BTC/USDT:USDT.
func PairFromFilename(name string) string {
	pair := pairPrefix.ReplaceAllString(name, "$1/")

	return strings.Replace(pair, "_", ":", 1)
}

// ScanData lists the json candle files under datadir for the trading mode.
// Futures candles live under datadir/futures. Only pairs in filter are kept when it is not empty.
func ScanData(datadir, tradingMode string, filter []string) ([]session.Coverage, error) {
	dir := datadir
	if tradingMode == TradingModeFutures {
		dir = filepath.Join(datadir, "futures")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, errors.Wrapf(errors.ErrCodeIOFailed, err, "failed to read data directory %s", dir)
	}

	keep := make(map[string]bool, len(filter))
	for _, p := range filter {
		keep[p] = true
	}

	var listing []session.Coverage

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		m := ohlcvFilePattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}

		pair := PairFromFilename(m[1])
		if len(keep) > 0 && !keep[pair] {
			continue
		}

		kind := m[3]
		if kind == "" {
			kind = TradingModeSpot
		}

		from, to, err := candleSpan(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}

		listing = append(listing, session.Coverage{Pair: pair, Timeframe: m[2], Type: kind, From: from, To: to})
	}

	sort.Slice(listing, func(i, j int) bool {
		a, b := listing[i], listing[j]
		if a.Pair != b.Pair {
			return a.Pair < b.Pair
		}

		if da, db := timeframeWidth(a.Timeframe), timeframeWidth(b.Timeframe); da != db {
			return da < db
		}

		return a.Type < b.Type
	})

	return listing, nil
}

// candleSpan reads the first and last candle open times of a json candle file.
func candleSpan(path string) (time.Time, time.Time, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return time.Time{}, time.Time{}, errors.Wrapf(errors.ErrCodeIOFailed, err, "failed to read %s", path)
	}

	var candles [][]float64
	if err := json.Unmarshal(content, &candles); err != nil {
		return time.Time{}, time.Time{}, errors.Wrapf(errors.ErrCodeDataNotFound, err, "malformed candle file %s", path)
	}

	if len(candles) == 0 || len(candles[0]) == 0 || len(candles[len(candles)-1]) == 0 {
		return time.Time{}, time.Time{}, nil
	}

	first := time.UnixMilli(int64(candles[0][0])).UTC()
	last := time.UnixMilli(int64(candles[len(candles)-1][0])).UTC()

	return first, last, nil
}

func timeframeWidth(tf string) time.Duration {
	t, err := marketdata.ParseTimespan(tf)
	if err != nil {
		return 0
	}

	return t.Duration()
}

// CoverageRows renders a listing for the console table.
func CoverageRows(listing []session.Coverage) [][]string {
	rows := make([][]string, 0, len(listing))

	for _, c := range listing {
		rows = append(rows, []string{
			c.Pair, c.Timeframe, c.Type,
			c.From.Format(datetimePrintFormat), c.To.Format(datetimePrintFormat),
		})
	}

	return rows
}
