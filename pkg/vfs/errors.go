package vfs

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// Category sentinels. Every typed error in this package matches exactly one
// of these through errors.Is, so callers can branch on the category without
// caring about the concrete type.
var (
	ErrNotFound             = errors.New("file not found")
	ErrAccessControl        = errors.New("access denied")
	ErrResourceAccessDenied = errors.New("resource access denied")
	ErrInvalidPath          = errors.New("invalid path")
	ErrInvalidOperation     = errors.New("invalid operation")
	ErrConflict             = errors.New("file already exists")
	ErrBatchFailed          = errors.New("batch operation failed")
)

// NotFoundError reports that a path does not exist, is the wrong kind of
// node, or is hidden from the caller by access control. The three cases are
// deliberately indistinguishable so an unauthorized caller cannot probe for
// the existence of files it may not see.
type NotFoundError struct {
	Path Path
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("file not found: %s", e.Path)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// AccessControlError reports that the caller may not perform the operation
// at all.
type AccessControlError struct {
	Op string
}

func (e *AccessControlError) Error() string {
	if e.Op == "" {
		return "access denied"
	}
	return fmt.Sprintf("access denied: %s", e.Op)
}

func (e *AccessControlError) Is(target error) bool { return target == ErrAccessControl }

// ResourceAccessDeniedError reports that the caller may know the path
// exists but may not access its content.
type ResourceAccessDeniedError struct {
	Path Path
}

func (e *ResourceAccessDeniedError) Error() string {
	return fmt.Sprintf("access to resource denied: %s", e.Path)
}

func (e *ResourceAccessDeniedError) Is(target error) bool { return target == ErrResourceAccessDenied }

// InvalidPathError reports malformed path syntax or a structurally invalid
// target, such as a bad new name during rename.
type InvalidPathError struct {
	Input  string
	Reason string
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("invalid path %q: %s", e.Input, e.Reason)
}

func (e *InvalidPathError) Is(target error) bool { return target == ErrInvalidPath }

// InvalidOperationError reports an operation that is not meaningful for the
// path or its current state, including copy/move requests whose source and
// destination resolve to different providers.
type InvalidOperationError struct {
	Path   Path
	Reason string
}

func (e *InvalidOperationError) Error() string {
	return fmt.Sprintf("invalid operation on %s: %s", e.Path, e.Reason)
}

func (e *InvalidOperationError) Is(target error) bool { return target == ErrInvalidOperation }

// ConflictError reports that the target of a copy, move or rename already
// exists.
type ConflictError struct {
	Path Path
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("file already exists: %s", e.Path)
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// BatchFailure pairs one failed path of a batch operation with its cause.
type BatchFailure struct {
	Path Path
	Err  error
}

// BatchError is raised by the batch entry points when at least one path
// failed. Failures preserve the order the paths were submitted in;
// successfully processed paths are not listed. The individual causes are
// reachable through errors.Is / errors.As on the BatchError itself.
type BatchError struct {
	Op       string
	Failures []BatchFailure

	combined error
}

// NewBatchError builds a BatchError for op from an ordered failure list.
func NewBatchError(op string, failures []BatchFailure) *BatchError {
	var combined error
	for _, f := range failures {
		combined = multierr.Append(combined, f.Err)
	}
	return &BatchError{Op: op, Failures: failures, combined: combined}
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("%s: %d of the requested paths failed", e.Op, len(e.Failures))
}

func (e *BatchError) Is(target error) bool { return target == ErrBatchFailed }

// Unwrap exposes the combined per-path causes.
func (e *BatchError) Unwrap() error { return e.combined }

// FailureFor returns the recorded cause for p, or nil if p succeeded.
func (e *BatchError) FailureFor(p Path) error {
	for _, f := range e.Failures {
		if f.Path.Equals(p) {
			return f.Err
		}
	}
	return nil
}
