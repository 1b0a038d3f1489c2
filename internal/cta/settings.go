// Package cta runs domestic futures strategies on the built-in bar backtester.
package cta

import (
	"encoding/json"
	"slices"

	"github.com/go-playground/validator/v10"

	"github.com/rxtech-lab/argo-agent/internal/cta/contracts"
	"github.com/rxtech-lab/argo-agent/internal/llm"
	"github.com/rxtech-lab/argo-agent/internal/session"
	"github.com/rxtech-lab/argo-agent/pkg/errors"
	"github.com/rxtech-lab/argo-agent/pkg/marketdata"
)

// Intervals are the bar widths the history source serves.
var Intervals = []marketdata.Timespan{
	marketdata.TimespanOneMinute,
	marketdata.TimespanFiveMinutes,
	marketdata.TimespanFifteenMinutes,
	marketdata.TimespanThirtyMinutes,
	marketdata.TimespanOneHour,
	marketdata.TimespanOneDay,
}

// Settings is the persisted project block.
type Settings struct {
	VtSymbol  string `json:"vt_symbol" validate:"required" jsonschema_description:"Futures contract with exchange name, eg: IF2309.CFFEX, rb2310.SHFE."`
	Interval  string `json:"interval" validate:"required,oneof=1m 5m 15m 30m 1h 1d" jsonschema:"enum=1m,enum=5m,enum=15m,enum=30m,enum=1h,enum=1d" jsonschema_description:"Which interval to trade. (eg: 1m)"`
	Timerange string `json:"timerange" validate:"required" jsonschema_description:"Which time range to use for historical data. (eg: 20230101-, 20200201-20230501)"`
	DryRun    bool   `json:"dry_run" jsonschema_description:"Whether to enable simulated transaction mode."`
}

// CommandsFunctionName is the reconfigure tool and the function it offers the model.
const CommandsFunctionName = "vnpy_commands"

// CommandsFunction declares the settings as a function whose arguments seed the interview.
func CommandsFunction() (llm.FunctionDecl, error) {
	return llm.DeclareFunction[Settings](CommandsFunctionName, "Modify project parameters and configurations on the basic of vnpy.")
}

var requiredKeys = []string{"vt_symbol", "interval", "timerange", "dry_run"}

var validate = validator.New()

func DefaultSettings() *Settings {
	return &Settings{
		VtSymbol:  "IF2309.CFFEX",
		Interval:  string(marketdata.TimespanOneMinute),
		Timerange: "20230101-",
		DryRun:    true,
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

// Validate checks the symbol against the contract table and the field shapes.
func (s *Settings) Validate() error {
	if _, err := s.Contract(); err != nil {
		return err
	}

	interval, err := marketdata.ParseTimespan(s.Interval)
	if err != nil {
		return err
	}

	if !slices.Contains(Intervals, interval) {
		return errors.Newf(errors.ErrCodeInvalidInterval, "interval %s is not served, use one of %v", interval, Intervals)
	}

	if err := validate.Struct(s); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid vnpy settings", err)
	}

	if _, err := marketdata.ParseTimerange(s.Timerange); err != nil {
		return err
	}

	return nil
}

// Symbol parses VtSymbol.
func (s *Settings) Symbol() (contracts.Symbol, error) {
	return contracts.ParseVtSymbol(s.VtSymbol)
}

// Contract looks the product of VtSymbol up in the built-in table.
func (s *Settings) Contract() (contracts.Contract, error) {
	_, c, err := contracts.Default().Lookup(s.VtSymbol)

	return c, err
}

func (s *Settings) Timespan() marketdata.Timespan {
	return marketdata.Timespan(s.Interval)
}

func (s *Settings) Range() (marketdata.Range, error) {
	return marketdata.ParseTimerange(s.Timerange)
}

var _ session.Settings = (*Settings)(nil)
