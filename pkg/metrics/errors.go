package metrics

import (
	"errors"
)

// Sentinel kinds for metrics errors.
var (
	ErrUnknownKind = errors.New("metrics: unknown error kind")
)
