package health

import (
	"errors"
	"sync/atomic"
)

// StartupCompleteChecker reports unhealthy until MarkComplete is called.
type StartupCompleteChecker struct {
	complete atomic.Bool
}

func NewStartupCompleteChecker() *StartupCompleteChecker {
	return &StartupCompleteChecker{}
}

func (checker *StartupCompleteChecker) Check() error {
	if checker.complete.Load() {
		return nil
	}
	return errors.New("startup not complete")
}

func (checker *StartupCompleteChecker) MarkComplete() {
	checker.complete.Store(true)
}
