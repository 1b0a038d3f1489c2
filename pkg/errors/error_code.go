package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown          ErrorCode = 1
	ErrCodeInvalidParameter ErrorCode = 2
	ErrCodeIOFailed         ErrorCode = 3

	// Configuration errors (100-199)
	ErrCodeInvalidConfiguration ErrorCode = 100
	ErrCodeMissingConfigBlock   ErrorCode = 101
	ErrCodeMissingField         ErrorCode = 102
	ErrCodeProbeFailed          ErrorCode = 103
	ErrCodeInvalidTimerange     ErrorCode = 104
	ErrCodeInvalidSymbol        ErrorCode = 105
	ErrCodeInvalidInterval      ErrorCode = 106
	ErrCodeInvalidTradingMode   ErrorCode = 107
	ErrCodeInvalidExchange      ErrorCode = 108

	// Framework errors (200-299)
	ErrCodeCommandFailed      ErrorCode = 200
	ErrCodeDataNotFound       ErrorCode = 201
	ErrCodeDownloadFailed     ErrorCode = 202
	ErrCodeBacktestFailed     ErrorCode = 203
	ErrCodeOptimizationFailed ErrorCode = 204
	ErrCodeResultNotFound     ErrorCode = 205
	ErrCodeQueryFailed        ErrorCode = 206

	// Strategy errors (300-399)
	ErrCodeNoStrategies       ErrorCode = 300
	ErrCodeStrategyNotFound   ErrorCode = 301
	ErrCodeStrategyLoadFailed ErrorCode = 302
	ErrCodeStrategyRuntime    ErrorCode = 303

	// Agent and completion errors (400-499)
	ErrCodeCompletionFailed ErrorCode = 400
	ErrCodeOutputParse      ErrorCode = 401
	ErrCodeUnsupported      ErrorCode = 402
	ErrCodeToolNotFound     ErrorCode = 403
	ErrCodeFunctionNotFound ErrorCode = 404

	// Market data errors (500-599)
	ErrCodeMarketDataFetchFailed ErrorCode = 500
	ErrCodeMarketDataParseFailed ErrorCode = 501
	ErrCodeInvalidTimespan       ErrorCode = 502

	// Internal faults (900-999)
	ErrCodeInternal ErrorCode = 900
)

// IsConfigurationError reports whether err means the user supplied settings are wrong
// and should be asked for again.
func IsConfigurationError(err error) bool {
	code := GetCode(err)

	return (code >= 100 && code < 200) || code == ErrCodeInvalidParameter
}

// IsInternal reports whether any *Error in err's chain is an unrecoverable program fault.
func IsInternal(err error) bool {
	var e *Error
	for As(err, &e) {
		if e.Code >= 900 && e.Code < 1000 {
			return true
		}

		err = e.Cause
	}

	return false
}
