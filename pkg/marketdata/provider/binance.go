package provider

import (
	"context"
	"sort"

	binance "github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/futures"

	"github.com/rxtech-lab/argo-agent/pkg/errors"
)

const binanceTrading = "TRADING"

// BinanceClient lists the markets Binance offers, in freqtrade's pair notation.
type BinanceClient struct {
	spot    *binance.Client
	futures *futures.Client
}

// NewBinanceClient needs no credentials; exchange info is public.
func NewBinanceClient() *BinanceClient {
	return &BinanceClient{
		spot:    binance.NewClient("", ""),
		futures: binance.NewFuturesClient("", ""),
	}
}

// WithBaseURLs overrides the spot and USDⓈ-M futures hosts.
func (c *BinanceClient) WithBaseURLs(spotURL, futuresURL string) *BinanceClient {
	c.spot.BaseURL = spotURL
	c.futures.BaseURL = futuresURL

	return c
}

// Markets returns spot pairs (BTC/USDT) or USDⓈ-M perpetuals (BTC/USDT:USDT), sorted by symbol.
func (c *BinanceClient) Markets(ctx context.Context, futuresMarkets bool) ([]Market, error) {
	var (
		markets []Market
		err     error
	)

	if futuresMarkets {
		markets, err = c.futuresMarkets(ctx)
	} else {
		markets, err = c.spotMarkets(ctx)
	}

	if err != nil {
		return nil, err
	}

	sort.Slice(markets, func(i, j int) bool { return markets[i].Symbol < markets[j].Symbol })

	return markets, nil
}

func (c *BinanceClient) spotMarkets(ctx context.Context) ([]Market, error) {
	info, err := c.spot.NewExchangeInfoService().Do(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "failed to fetch binance spot exchange info", err)
	}

	markets := make([]Market, 0, len(info.Symbols))

	for _, s := range info.Symbols {
		markets = append(markets, Market{
			Symbol: s.BaseAsset + "/" + s.QuoteAsset,
			Base:   s.BaseAsset,
			Quote:  s.QuoteAsset,
			Type:   "spot",
			Active: s.Status == binanceTrading,
		})
	}

	return markets, nil
}

func (c *BinanceClient) futuresMarkets(ctx context.Context) ([]Market, error) {
	info, err := c.futures.NewExchangeInfoService().Do(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "failed to fetch binance futures exchange info", err)
	}

	markets := make([]Market, 0, len(info.Symbols))

	for _, s := range info.Symbols {
		symbol := s.BaseAsset + "/" + s.QuoteAsset + ":" + s.MarginAsset
		if s.ContractType != futures.ContractTypePerpetual {
			// dated contracts carry the delivery date in the exchange symbol
			symbol = s.Symbol
		}

		markets = append(markets, Market{
			Symbol:   symbol,
			Base:     s.BaseAsset,
			Quote:    s.QuoteAsset,
			Settle:   s.MarginAsset,
			Type:     "future",
			Contract: string(s.ContractType),
			Active:   s.Status == binanceTrading,
		})
	}

	return markets, nil
}
