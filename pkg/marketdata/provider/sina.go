package provider

import (
	"context"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/text/encoding/simplifiedchinese"

	"github.com/rxtech-lab/argo-agent/pkg/errors"
	"github.com/rxtech-lab/argo-agent/pkg/marketdata"
)

const (
	sinaHistoryURL = "https://stock2.finance.sina.com.cn/futures/api/jsonp.php/=/InnerFuturesNewService"
	sinaQuoteURL   = "https://hq.sinajs.cn"
	sinaReferer    = "https://finance.sina.com.cn/"
	sinaUserAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

var quoteLinePattern = regexp.MustCompile(`var hq_str_(\w+)="([^"]*)"`)

// SinaClient reads domestic futures bars and quotes from Sina Finance.
type SinaClient struct {
	http       *resty.Client
	historyURL string
	quoteURL   string
}

type SinaOption func(*SinaClient)

// WithSinaEndpoints points the client at other hosts, mostly for tests.
func WithSinaEndpoints(historyURL, quoteURL string) SinaOption {
	return func(c *SinaClient) {
		c.historyURL = strings.TrimRight(historyURL, "/")
		c.quoteURL = strings.TrimRight(quoteURL, "/")
	}
}

func NewSinaClient(opts ...SinaOption) *SinaClient {
	c := &SinaClient{
		http: resty.New().
			SetTimeout(30*time.Second).
			SetHeader("Referer", sinaReferer).
			SetHeader("User-Agent", sinaUserAgent),
		historyURL: sinaHistoryURL,
		quoteURL:   sinaQuoteURL,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Quote is a realtime snapshot of one contract.
type Quote struct {
	Code         string
	Name         string
	Open         float64
	High         float64
	Low          float64
	Price        float64
	Bid          float64
	Ask          float64
	PreSettle    float64
	Volume       float64
	OpenInterest float64
	Date         string
	Time         string
}

type sinaBar struct {
	Date   string `json:"d"`
	Open   string `json:"o"`
	High   string `json:"h"`
	Low    string `json:"l"`
	Close  string `json:"c"`
	Volume string `json:"v"`
	Hold   string `json:"p"`
}

// SinaPeriod maps a timespan onto the minute periods the history endpoint serves.
func SinaPeriod(t marketdata.Timespan) (string, error) {
	switch t {
	case marketdata.TimespanOneMinute:
		return "1", nil
	case marketdata.TimespanFiveMinutes:
		return "5", nil
	case marketdata.TimespanFifteenMinutes:
		return "15", nil
	case marketdata.TimespanThirtyMinutes:
		return "30", nil
	case marketdata.TimespanOneHour:
		return "60", nil
	default:
		return "", errors.Newf(errors.ErrCodeInvalidTimespan, "sina has no minute period for %s", t)
	}
}

// Bars returns the history the endpoint keeps for symbol, oldest first.
// Intraday timespans use the minute-line service, 1d the daily k-line service.
func (c *SinaClient) Bars(ctx context.Context, symbol string, interval marketdata.Timespan) ([]marketdata.Bar, error) {
	if interval == marketdata.TimespanOneDay {
		return c.DailyBars(ctx, symbol)
	}

	period, err := SinaPeriod(interval)
	if err != nil {
		return nil, err
	}

	raw, err := c.history(ctx, "getFewMinLine", map[string]string{"symbol": symbol, "type": period})
	if err != nil {
		return nil, err
	}

	return decodeSinaBars(raw, symbol, interval, "2006-01-02 15:04:05")
}

// DailyBars returns the daily k-line history for symbol.
func (c *SinaClient) DailyBars(ctx context.Context, symbol string) ([]marketdata.Bar, error) {
	raw, err := c.history(ctx, "getDailyKLine", map[string]string{
		"symbol": symbol,
		"_":      time.Now().Format("2006_1_2"),
	})
	if err != nil {
		return nil, err
	}

	return decodeSinaBars(raw, symbol, marketdata.TimespanOneDay, "2006-01-02")
}

// Quotes fetches realtime quotes for Sina codes such as nf_RB2310 or CFF_RE_IF2309.
func (c *SinaClient) Quotes(ctx context.Context, codes []string) ([]Quote, error) {
	if len(codes) == 0 {
		return nil, nil
	}

	resp, err := c.http.R().SetContext(ctx).Get(c.quoteURL + "/list=" + strings.Join(codes, ","))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "failed to request sina quotes", err)
	}

	if resp.IsError() {
		return nil, errors.Newf(errors.ErrCodeMarketDataFetchFailed, "sina quotes returned %s", resp.Status())
	}

	body, err := simplifiedchinese.GBK.NewDecoder().Bytes(resp.Body())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMarketDataParseFailed, "failed to decode sina quotes", err)
	}

	return parseQuotes(string(body)), nil
}

// QuoteCode builds the realtime code for a symbol listed on exchange.
func QuoteCode(symbol, exchange string) string {
	if strings.EqualFold(exchange, "CFFEX") {
		return "CFF_RE_" + strings.ToUpper(symbol)
	}

	return "nf_" + strings.ToUpper(symbol)
}

func (c *SinaClient) history(ctx context.Context, method string, query map[string]string) ([]byte, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(query).
		Get(c.historyURL + "." + method)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "failed to request sina %s", method)
	}

	if resp.IsError() {
		return nil, errors.Newf(errors.ErrCodeMarketDataFetchFailed, "sina %s returned %s", method, resp.Status())
	}

	return unwrapJSONP(resp.Body())
}

// unwrapJSONP returns the payload between the first "(" and the last ")".
func unwrapJSONP(body []byte) ([]byte, error) {
	text := string(body)

	open := strings.Index(text, "(")
	closing := strings.LastIndex(text, ")")

	if open < 0 || closing <= open {
		return nil, errors.New(errors.ErrCodeMarketDataParseFailed, "sina response is not a jsonp payload")
	}

	return []byte(text[open+1 : closing]), nil
}

func decodeSinaBars(raw []byte, symbol string, interval marketdata.Timespan, layout string) ([]marketdata.Bar, error) {
	payload := strings.TrimSpace(string(raw))
	if payload == "" || payload == "null" {
		return nil, nil
	}

	var rows []sinaBar
	if err := json.Unmarshal([]byte(payload), &rows); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMarketDataParseFailed, "failed to decode sina bars", err)
	}

	bars := make([]marketdata.Bar, 0, len(rows))

	for _, row := range rows {
		ts, err := time.ParseInLocation(layout, row.Date, chinaTime)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "invalid bar time %q", row.Date)
		}

		bars = append(bars, marketdata.Bar{
			Symbol:       symbol,
			Interval:     interval,
			Time:         ts,
			Open:         parseFloat(row.Open),
			High:         parseFloat(row.High),
			Low:          parseFloat(row.Low),
			Close:        parseFloat(row.Close),
			Volume:       parseFloat(row.Volume),
			OpenInterest: parseFloat(row.Hold),
		})
	}

	return bars, nil
}

// parseQuotes handles both layouts: index futures start with a number, commodities with the name.
func parseQuotes(body string) []Quote {
	var quotes []Quote

	for _, match := range quoteLinePattern.FindAllStringSubmatch(body, -1) {
		fields := strings.Split(match[2], ",")
		if len(fields) < 15 {
			continue
		}

		quote := Quote{Code: match[1]}

		if _, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64); err == nil {
			quote.Name = fields[len(fields)-1]
			quote.Open = parseFloat(fields[0])
			quote.High = parseFloat(fields[1])
			quote.Low = parseFloat(fields[2])
			quote.Price = parseFloat(fields[3])
			quote.Volume = parseFloat(fields[4])
			quote.OpenInterest = parseFloat(fields[6])
			quote.PreSettle = parseFloat(fields[9])

			if len(fields) > 38 {
				quote.Date = fields[37]
				quote.Time = fields[38]
			}
		} else {
			quote.Name = fields[0]
			quote.Open = parseFloat(fields[2])
			quote.High = parseFloat(fields[3])
			quote.Low = parseFloat(fields[4])
			quote.Bid = parseFloat(fields[6])
			quote.Ask = parseFloat(fields[7])
			quote.Price = parseFloat(fields[8])
			quote.PreSettle = parseFloat(fields[10])
			quote.Volume = parseFloat(fields[13])
			quote.OpenInterest = parseFloat(fields[14])

			if len(fields) > 17 {
				quote.Date = fields[17]
			}
		}

		quotes = append(quotes, quote)
	}

	return quotes
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)

	return v
}
