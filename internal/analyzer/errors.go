package analyzer

import "errors"

// Analysis errors.
var (
	// ErrInvalidAddress is returned when the input is not a valid Solana
	// wallet address.
	ErrInvalidAddress = errors.New("invalid wallet address")

	// ErrUpstreamUnavailable is returned when the RPC upstream failed after
	// retries and no profile could be produced.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrAnalysisTimeout is returned when the analysis exceeded its
	// wall-clock budget.
	ErrAnalysisTimeout = errors.New("analysis timed out")
)
