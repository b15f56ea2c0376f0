package types

import "errors"

var (
	ErrCauseNotFound      = errors.New("CAUSE_NOT_FOUND")
	ErrCauseStatusUnknown = errors.New("CAUSE_STATUS_UNKNOWN")
)
