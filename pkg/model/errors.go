package model

import "errors"

// Sentinel kinds for model decoding errors.
var (
	ErrDecode = errors.New("decode error")
)
