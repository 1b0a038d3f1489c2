package marketdata

import (
	"context"

	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-agent/internal/agent"
	"github.com/rxtech-lab/argo-agent/internal/llm"
	"github.com/rxtech-lab/argo-agent/internal/logger"
	"github.com/rxtech-lab/argo-agent/pkg/errors"
)

// FuturesToolName sits in the namespace the data extraction rule matches.
const FuturesToolName = agent.DataToolPrefix + "_futures"

const (
	futuresDescription = "Access to financial data related to futures through function calls, including minute bars, main contract daily bars, realtime quotes, contract details and exchange commission rates. Input should be the complete data description."

	acquired    = "Data acquisition complete. "
	notAcquired = "Data acquisition did not complete. "
)

// FuturesTool lets the model fetch futures data by function calling.
type FuturesTool struct {
	completer llm.Completer
	registry  *Registry
	store     *Store
	logger    *logger.Logger
}

var _ agent.Tool = (*FuturesTool)(nil)

func NewFuturesTool(completer llm.Completer, registry *Registry, store *Store, log *logger.Logger) *FuturesTool {
	return &FuturesTool{completer: completer, registry: registry, store: store, logger: log}
}

func (t *FuturesTool) Name() string {
	return FuturesToolName
}

func (t *FuturesTool) Description() string {
	return futuresDescription
}

func (t *FuturesTool) ReturnDirect() bool {
	return true
}

// Run stores the fetched table under DataKey. Fetch failures become a status; completion
// failures, program faults and cancellation are returned as errors.
func (t *FuturesTool) Run(ctx context.Context, input string) (string, error) {
	call, err := llm.CallFunction(ctx, t.completer, input, t.registry.Declarations()...)
	if err != nil {
		return "", err
	}

	if call == nil {
		t.logger.Warn("model picked no market data function", zap.String("input", input))

		return notAcquired, nil
	}

	table, err := t.registry.Call(ctx, *call)
	if err != nil {
		if fatal(err) {
			return "", err
		}

		if ctx.Err() != nil {
			return "", errors.Wrap(errors.ErrCodeMarketDataFetchFailed, err.Error(), ctx.Err())
		}

		t.logger.Error("market data function failed",
			zap.String("tool", t.Name()),
			zap.String("function", call.Name),
			zap.Error(err))

		return notAcquired, nil
	}

	t.store.Set(DataKey, table)
	t.logger.Debug("market data stored", zap.String("function", call.Name), zap.Int("rows", table.Len()))

	return acquired, nil
}

// fatal reports errors that must end the agent run.
func fatal(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	return errors.IsInternal(err) || errors.HasCode(err, errors.ErrCodeCompletionFailed)
}
