package leave

import "errors"

var (
	ErrLeaveNotFound         = errors.New("leave request not found")
	ErrBalanceNotFound       = errors.New("leave balance not found")
	ErrInsufficientBalance   = errors.New("insufficient leave balance")
	ErrLeaveAlreadyProcessed = errors.New("leave request already processed")
)
