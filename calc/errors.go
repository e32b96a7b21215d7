package calc

import "errors"

var (
	// ErrInvalidInput is returned for an absent or malformed price sequence.
	ErrInvalidInput = errors.New("invalid price input")
	// ErrNoData is returned when statistics are requested over no prices at all.
	ErrNoData = errors.New("no price data")
	// ErrInsufficientData is returned when a window is longer than the price sequence.
	ErrInsufficientData = errors.New("insufficient price data")
)
