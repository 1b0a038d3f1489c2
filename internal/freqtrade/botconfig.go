package freqtrade

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/rxtech-lab/argo-agent/pkg/errors"
)

// BotConfig is the config.json freqtrade reads for every subcommand.
type BotConfig struct {
	Schema               string          `json:"$schema"`
	MaxOpenTrades        int             `json:"max_open_trades"`
	StakeCurrency        string          `json:"stake_currency"`
	StakeAmount          string          `json:"stake_amount"`
	TradableBalanceRatio float64         `json:"tradable_balance_ratio"`
	FiatDisplayCurrency  string          `json:"fiat_display_currency"`
	Timeframe            string          `json:"timeframe"`
	DryRun               bool            `json:"dry_run"`
	DryRunWallet         float64         `json:"dry_run_wallet"`
	CancelOpenOnExit     bool            `json:"cancel_open_orders_on_exit"`
	TradingMode          string          `json:"trading_mode"`
	MarginMode           string          `json:"margin_mode,omitempty"`
	UnfilledTimeout      UnfilledTimeout `json:"unfilledtimeout"`
	EntryPricing         Pricing         `json:"entry_pricing"`
	ExitPricing          Pricing         `json:"exit_pricing"`
	Exchange             ExchangeConfig  `json:"exchange"`
	PairLists            []PairList      `json:"pairlists"`
	Telegram             Telegram        `json:"telegram"`
	APIServer            APIServer       `json:"api_server"`
	BotName              string          `json:"bot_name"`
	InitialState         string          `json:"initial_state"`
	ForceEntryEnable     bool            `json:"force_entry_enable"`
	Internals            Internals       `json:"internals"`

	Pairs            []string `json:"pairs"`
	Timerange        string   `json:"timerange"`
	Timeframes       []string `json:"timeframes"`
	DataFormatOHLCV  string   `json:"dataformat_ohlcv"`
	DataFormatTrades string   `json:"dataformat_trades"`
	DBURL            string   `json:"db_url"`
	UserDataDir      string   `json:"user_data_dir"`
	StrategyPath     string   `json:"strategy_path"`
	DataDir          string   `json:"datadir"`
	ExportFilename   string   `json:"exportfilename"`
}

type UnfilledTimeout struct {
	Entry            int    `json:"entry"`
	Exit             int    `json:"exit"`
	ExitTimeoutCount int    `json:"exit_timeout_count"`
	Unit             string `json:"unit"`
}

type Pricing struct {
	PriceSide        string  `json:"price_side"`
	UseOrderBook     bool    `json:"use_order_book"`
	OrderBookTop     int     `json:"order_book_top"`
	PriceLastBalance float64 `json:"price_last_balance,omitempty"`
}

type ExchangeConfig struct {
	Name          string         `json:"name"`
	Key           string         `json:"key"`
	Secret        string         `json:"secret"`
	CCXTConfig    map[string]any `json:"ccxt_config"`
	CCXTAsync     map[string]any `json:"ccxt_async_config"`
	PairWhitelist []string       `json:"pair_whitelist"`
	PairBlacklist []string       `json:"pair_blacklist"`
}

type PairList struct {
	Method string `json:"method"`
}

type Telegram struct {
	Enabled bool   `json:"enabled"`
	Token   string `json:"token"`
	ChatID  string `json:"chat_id"`
}

type APIServer struct {
	Enabled         bool     `json:"enabled"`
	ListenIPAddress string   `json:"listen_ip_address"`
	ListenPort      int      `json:"listen_port"`
	Verbosity       string   `json:"verbosity"`
	EnableOpenAPI   bool     `json:"enable_openapi"`
	JWTSecretKey    string   `json:"jwt_secret_key"`
	WSToken         string   `json:"ws_token"`
	CORSOrigins     []string `json:"CORS_origins"`
	Username        string   `json:"username"`
	Password        string   `json:"password"`
}

type Internals struct {
	ProcessThrottleSecs int `json:"process_throttle_secs"`
}

// NewBotConfig fills the freqtrade template from the project settings.
func NewBotConfig(s *Settings) BotConfig {
	ud := s.UserDataDir
	pairs := s.PairList()

	dbURL := "sqlite:///" + ud + "/tradesv3.sqlite"
	if s.DryRun {
		dbURL = "sqlite:///" + ud + "/tradesv3.dryrun.sqlite"
	}

	cfg := BotConfig{
		Schema:               "https://schema.freqtrade.io/schema.json",
		MaxOpenTrades:        3,
		StakeCurrency:        "USDT",
		StakeAmount:          "unlimited",
		TradableBalanceRatio: 0.99,
		FiatDisplayCurrency:  "USD",
		Timeframe:            s.Timeframe,
		DryRun:               s.DryRun,
		DryRunWallet:         1000,
		TradingMode:          s.TradingMode,
		UnfilledTimeout:      UnfilledTimeout{Entry: 10, Exit: 10, Unit: "minutes"},
		EntryPricing:         Pricing{PriceSide: "same", UseOrderBook: true, OrderBookTop: 1},
		ExitPricing:          Pricing{PriceSide: "same", UseOrderBook: true, OrderBookTop: 1},
		Exchange: ExchangeConfig{
			Name:          s.Exchange,
			CCXTConfig:    map[string]any{},
			CCXTAsync:     map[string]any{},
			PairWhitelist: pairs,
			PairBlacklist: []string{},
		},
		PairLists: []PairList{{Method: "StaticPairList"}},
		APIServer: APIServer{
			ListenIPAddress: "127.0.0.1",
			ListenPort:      8080,
			Verbosity:       "error",
			JWTSecretKey:    uuid.NewString(),
			WSToken:         uuid.NewString(),
			CORSOrigins:     []string{},
			Username:        "freqtrader",
			Password:        "freqtrader",
		},
		BotName:      "freqtrade",
		InitialState: "running",
		Internals:    Internals{ProcessThrottleSecs: 5},

		Pairs:            pairs,
		Timerange:        s.Timerange,
		Timeframes:       s.Timeframes(),
		DataFormatOHLCV:  "json",
		DataFormatTrades: "json",
		DBURL:            dbURL,
		UserDataDir:      ud,
		StrategyPath:     ud + "/strategies",
		DataDir:          ud + "/data/" + s.Exchange,
		ExportFilename:   ud + "/backtest_results",
	}

	if s.TradingMode == TradingModeFutures {
		cfg.MarginMode = "isolated"
	}

	return cfg
}

// ConfigPath is where the bot config of s lives.
func ConfigPath(s *Settings) string {
	return filepath.Join(s.UserDataDir, "config.json")
}

// WriteBotConfig renders the bot config for s into its user data directory.
func WriteBotConfig(s *Settings) error {
	data, err := json.MarshalIndent(NewBotConfig(s), "", "    ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to encode bot config", err)
	}

	if err := os.MkdirAll(s.UserDataDir, 0o755); err != nil {
		return errors.Wrapf(errors.ErrCodeIOFailed, err, "failed to create %s", s.UserDataDir)
	}

	if err := os.WriteFile(ConfigPath(s), data, 0o644); err != nil {
		return errors.Wrapf(errors.ErrCodeIOFailed, err, "failed to write %s", ConfigPath(s))
	}

	return nil
}
