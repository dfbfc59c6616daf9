package session

import (
	"errors"
	"fmt"
)

var (
	ErrClosed            = errors.New("session closed")
	ErrLoading           = errors.New("session is still loading")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrInvalidEvent      = errors.New("invalid event")
)

// ValidationError 表示生成的数据不满足会话结构
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid session: " + e.Reason
	}
	return fmt.Sprintf("invalid session: %s: %s", e.Field, e.Reason)
}

func invalidEvent(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidEvent, fmt.Sprintf(format, args...))
}

func containsOption(options []string, option string) bool {
	for _, o := range options {
		if o == option {
			return true
		}
	}
	return false
}
