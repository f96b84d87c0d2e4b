package errors

import "errors"

var (
	ErrSessionNotFound  = errors.New("wizard session not found")
	ErrFunctionNotFound = errors.New("selected function not found")
	ErrAddonNotFound    = errors.New("video addon not found")
	ErrStoreClosed      = errors.New("draft store is closed")
)
