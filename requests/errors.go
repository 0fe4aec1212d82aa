package requests

import "errors"

var (
	ErrUnknownOp     = errors.New("unknown op")
	ErrMissingTarget = errors.New("op needs an id or a path")
)
