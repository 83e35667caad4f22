package vfs

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorCategories(t *testing.T) {
	p := MustParse("/repo/file.txt")

	tests := []struct {
		err      error
		sentinel error
	}{
		{&NotFoundError{Path: p}, ErrNotFound},
		{&AccessControlError{Op: "delete"}, ErrAccessControl},
		{&ResourceAccessDeniedError{Path: p}, ErrResourceAccessDenied},
		{&InvalidPathError{Input: "??", Reason: "nope"}, ErrInvalidPath},
		{&InvalidOperationError{Path: p, Reason: "nope"}, ErrInvalidOperation},
		{&ConflictError{Path: p}, ErrConflict},
		{NewBatchError("delete_files", []BatchFailure{{Path: p, Err: errors.New("boom")}}), ErrBatchFailed},
	}

	for _, tt := range tests {
		if !errors.Is(tt.err, tt.sentinel) {
			t.Errorf("%T should match its sentinel %v", tt.err, tt.sentinel)
		}
		for _, other := range tests {
			if other.sentinel != tt.sentinel && errors.Is(tt.err, other.sentinel) {
				t.Errorf("%T must not match sentinel %v", tt.err, other.sentinel)
			}
		}
	}
}

func TestErrorWrappingSurvivesCategories(t *testing.T) {
	p := MustParse("/repo/file.txt")
	wrapped := fmt.Errorf("during dispatch: %w", &NotFoundError{Path: p})

	if !errors.Is(wrapped, ErrNotFound) {
		t.Error("wrapped NotFoundError should still match ErrNotFound")
	}
	var nf *NotFoundError
	if !errors.As(wrapped, &nf) {
		t.Fatal("errors.As should extract *NotFoundError")
	}
	if !nf.Path.Equals(p) {
		t.Errorf("extracted path = %v, want %v", nf.Path, p)
	}
}

func TestBatchErrorCarriesOrderedFailures(t *testing.T) {
	p1 := MustParse("/repo/a")
	p2 := MustParse("/repo/b")
	cause1 := &NotFoundError{Path: p1}
	cause2 := &ConflictError{Path: p2}

	batch := NewBatchError("move_files", []BatchFailure{
		{Path: p1, Err: cause1},
		{Path: p2, Err: cause2},
	})

	if len(batch.Failures) != 2 {
		t.Fatalf("got %d failures, want 2", len(batch.Failures))
	}
	if !batch.Failures[0].Path.Equals(p1) || !batch.Failures[1].Path.Equals(p2) {
		t.Error("failures must keep submission order")
	}

	// Suppressed causes stay reachable through the standard helpers.
	if !errors.Is(batch, ErrNotFound) || !errors.Is(batch, ErrConflict) {
		t.Error("errors.Is should see every suppressed cause")
	}
	var conflict *ConflictError
	if !errors.As(batch, &conflict) {
		t.Error("errors.As should see suppressed causes")
	}

	if got := batch.FailureFor(p2); got != cause2 {
		t.Errorf("FailureFor(p2) = %v, want %v", got, cause2)
	}
	if got := batch.FailureFor(MustParse("/repo/untouched")); got != nil {
		t.Errorf("FailureFor(untouched) = %v, want nil", got)
	}
}
