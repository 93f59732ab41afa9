package store

import (
	"errors"

	"github.com/directshell/core/internal/models"
)

// RecoverableError is an alias for models.RecoverableError, retained so
// callers can reference store.RecoverableError without importing models
// directly.
type RecoverableError = models.RecoverableError

// ErrDumpGuardHeld is matched by the *DumpGuardHeldError that walker.Dump
// returns when a walker worker already holds the dump-guard.
var ErrDumpGuardHeld = errors.New("dump guard already held")

// DumpGuardHeldError enriches ErrDumpGuardHeld with structured context.
type DumpGuardHeldError struct {
	AppName string
}

func (e *DumpGuardHeldError) Error() string      { return "dump guard already held" }
func (e *DumpGuardHeldError) ErrorCode() string  { return "DUMP_GUARD_HELD" }
func (e *DumpGuardHeldError) Context() map[string]string {
	return map[string]string{"app_name": e.AppName}
}
func (e *DumpGuardHeldError) SuggestedAction() string {
	return "skip silently; the previous cycle is still running"
}
func (e *DumpGuardHeldError) Is(target error) bool { return target == ErrDumpGuardHeld }

// ErrResolveMiss is returned when no element matches an action's target name.
var ErrResolveMiss = errors.New("no element matches target")

// ResolveMissError enriches ErrResolveMiss with structured context.
type ResolveMissError struct {
	ActionID int64
	Target   string
}

func (e *ResolveMissError) Error() string     { return "no element matches target" }
func (e *ResolveMissError) ErrorCode() string  { return "RESOLVE_MISS" }
func (e *ResolveMissError) Context() map[string]string {
	return map[string]string{"target": e.Target}
}
func (e *ResolveMissError) SuggestedAction() string {
	return "wait for the next dump and retry; the row has been reset to done=0"
}
func (e *ResolveMissError) Is(target error) bool { return target == ErrResolveMiss }

// ErrPatternReject names a value-pattern write rejected by the target
// element. The dispatch path does not return it: a rejected write surfaces
// as platform.ErrPatternUnavailable, which triggers the per-character
// injection fallback.
var ErrPatternReject = errors.New("value pattern set rejected")

// ErrTargetGone is returned when the target window handle is no longer a
// valid window.
var ErrTargetGone = errors.New("target window no longer valid")
