// Package freqtrade drives a freqtrade installation through its command line.
package freqtrade

import (
	"encoding/json"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rxtech-lab/argo-agent/internal/llm"
	"github.com/rxtech-lab/argo-agent/internal/session"
	"github.com/rxtech-lab/argo-agent/pkg/errors"
	"github.com/rxtech-lab/argo-agent/pkg/marketdata"
)

const (
	TradingModeSpot    = "spot"
	TradingModeFutures = "futures"
)

// Settings is the persisted project block. Pairs and AddTimeframes keep the
// comma separated form the user typed.
type Settings struct {
	UserDataDir   string `json:"user_data_dir" validate:"required" jsonschema_description:"Project working directory."`
	Exchange      string `json:"exchange" validate:"required" jsonschema_description:"Which cryptocurrency exchange to trade on."`
	TradingMode   string `json:"trading_mode" validate:"required,oneof=spot futures" jsonschema:"enum=spot,enum=futures" jsonschema_description:"Choosing a trading mode allows, You can short in futures mode."`
	Pairs         string `json:"pairs" validate:"required" jsonschema_description:"Which currency pairs to trade, different currency pairs are separated by , and can be expressed using regex. (eg: BTC/USDT:USDT, ETH/USDT, .*/USDT)"`
	Timeframe     string `json:"timeframe" validate:"required" jsonschema:"enum=1m,enum=5m,enum=15m,enum=30m,enum=1h,enum=4h,enum=8h" jsonschema_description:"Which timeframe to trade. (eg: 5m)"`
	Timerange     string `json:"timerange" validate:"required" jsonschema_description:"Which time range to use for historical data. (eg: 20230101-, 20200201-20230501)"`
	DryRun        bool   `json:"dry_run" jsonschema_description:"Whether to enable simulated transaction mode."`
	AddTimeframes string `json:"add_timeframes" jsonschema_description:"Additional timeframes separated by , which multi-cycle trading strategies need. (eg: 15m, 30m)"`
}

// CommandsFunctionName is the reconfigure tool and the function it offers the model.
const CommandsFunctionName = "freqtrade_commands"

// CommandsFunction declares the settings as a function whose arguments seed the interview.
func CommandsFunction() (llm.FunctionDecl, error) {
	return llm.DeclareFunction[Settings](CommandsFunctionName, "Modify project parameters and configurations on the basic of Freqtrade.")
}

var requiredKeys = []string{
	"user_data_dir", "exchange", "trading_mode", "pairs",
	"timeframe", "timerange", "dry_run", "add_timeframes",
}

var validate = validator.New()

// DefaultSettings are the answers offered by the interview.
func DefaultSettings() *Settings {
	return &Settings{
		UserDataDir: "user_data",
		Exchange:    "binance",
		TradingMode: TradingModeFutures,
		Pairs:       "BTC/USDT:USDT",
		Timeframe:   "5m",
		Timerange:   "20230101-",
		DryRun:      true,
	}
}

// ParseSettings decodes a settings block. Every key must be present.
func ParseSettings(block string) (*Settings, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal([]byte(block), &keys); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "settings block is not a JSON object", err)
	}

	for _, key := range requiredKeys {
		if _, ok := keys[key]; !ok {
			return nil, errors.Newf(errors.ErrCodeMissingField, "settings block is missing %q", key)
		}
	}

	var s Settings
	if err := json.Unmarshal([]byte(block), &s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "settings block has a field of the wrong type", err)
	}

	return &s, nil
}

// Validate checks field shapes. Whether the exchange actually serves the pairs is
// left to the validity probe.
func (s *Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid freqtrade settings", err)
	}

	if _, err := marketdata.ParseTimespan(s.Timeframe); err != nil {
		return err
	}

	for _, tf := range s.AddTimeframeList() {
		if _, err := marketdata.ParseTimespan(tf); err != nil {
			return err
		}
	}

	if _, err := marketdata.ParseTimerange(s.Timerange); err != nil {
		return err
	}

	return nil
}

// PairList splits Pairs on commas.
func (s *Settings) PairList() []string {
	return splitList(s.Pairs)
}

// AddTimeframeList splits AddTimeframes on commas.
func (s *Settings) AddTimeframeList() []string {
	return splitList(s.AddTimeframes)
}

// Timeframes is every timeframe to download, the main one last unless already listed.
func (s *Settings) Timeframes() []string {
	tfs := s.AddTimeframeList()
	for _, tf := range tfs {
		if tf == s.Timeframe {
			return tfs
		}
	}

	return append(tfs, s.Timeframe)
}

// CanShort is true for futures.
func (s *Settings) CanShort() bool {
	return s.TradingMode == TradingModeFutures
}

func splitList(s string) []string {
	var out []string

	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}

var _ session.Settings = (*Settings)(nil)
