package vfs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteFilesPartialFailure(t *testing.T) {
	repo := newFakeProvider("repo", "repo")
	svc, err := NewGenericFileService([]Provider{repo, newFakeProvider("cloud", "cloud")})
	require.NoError(t, err)

	owned := MustParse("/repo/doc.txt")
	unowned := MustParse("/elsewhere/doc.txt")

	err = svc.DeleteFiles(context.Background(), []Path{owned, unowned})

	var batch *BatchError
	require.ErrorAs(t, err, &batch)
	require.Len(t, batch.Failures, 1)
	assert.True(t, batch.Failures[0].Path.Equals(unowned))
	assert.ErrorIs(t, batch.Failures[0].Err, ErrNotFound)

	// The owned path was still processed despite the later failure.
	assert.Equal(t, []string{"DeleteFile /repo/doc.txt"}, repo.calls)
}

func TestBatchSucceedsSilently(t *testing.T) {
	repo := newFakeProvider("repo", "repo")
	svc, err := NewGenericFileService([]Provider{repo, newFakeProvider("cloud", "cloud")})
	require.NoError(t, err)

	err = svc.RestoreFiles(context.Background(), []Path{
		MustParse("/repo/a"),
		MustParse("/repo/b"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"RestoreFile /repo/a", "RestoreFile /repo/b"}, repo.calls)
}

func TestBatchKeepsSubmissionOrder(t *testing.T) {
	repo := newFakeProvider("repo", "repo")
	repo.err = errors.New("backend down")
	svc, err := NewGenericFileService([]Provider{repo, newFakeProvider("cloud", "cloud")})
	require.NoError(t, err)

	paths := []Path{
		MustParse("/repo/first"),
		MustParse("/repo/second"),
		MustParse("/repo/third"),
	}
	err = svc.DeleteFilesPermanently(context.Background(), paths)

	var batch *BatchError
	require.ErrorAs(t, err, &batch)
	require.Len(t, batch.Failures, 3)
	for i, p := range paths {
		assert.True(t, batch.Failures[i].Path.Equals(p), "failure order must follow submission order")
	}
}

func TestBatchErrorExposesSuppressedCauses(t *testing.T) {
	repo := newFakeProvider("repo", "repo")
	repo.err = &ConflictError{Path: MustParse("/repo/taken")}
	svc, err := NewGenericFileService([]Provider{repo, newFakeProvider("cloud", "cloud")})
	require.NoError(t, err)

	err = svc.MoveFiles(context.Background(), []Path{MustParse("/repo/doc.txt")}, MustParse("/repo/folder"))
	assert.ErrorIs(t, err, ErrBatchFailed)
	assert.ErrorIs(t, err, ErrConflict, "suppressed causes stay reachable")
}

func TestCopyFilesRecordsCrossProviderItemsPerItem(t *testing.T) {
	repo := newFakeProvider("repo", "repo")
	cloud := newFakeProvider("cloud", "cloud")
	svc, err := NewGenericFileService([]Provider{repo, cloud})
	require.NoError(t, err)

	dest := MustParse("/repo/folder")
	sameProvider := MustParse("/repo/doc.txt")
	crossProvider := MustParse("/cloud/doc.txt")

	err = svc.CopyFiles(context.Background(), []Path{sameProvider, crossProvider}, dest)

	// The cross-provider item lands in the failure map; the batch is not
	// aborted and the valid item is still copied.
	var batch *BatchError
	require.ErrorAs(t, err, &batch)
	require.Len(t, batch.Failures, 1)
	assert.True(t, batch.Failures[0].Path.Equals(crossProvider))
	assert.ErrorIs(t, batch.Failures[0].Err, ErrInvalidOperation)

	assert.Equal(t, []string{"CopyFile /repo/doc.txt /repo/folder"}, repo.calls)
	assert.Empty(t, cloud.calls)
}

func TestMoveFilesUnownedDestination(t *testing.T) {
	repo := newFakeProvider("repo", "repo")
	svc, err := NewGenericFileService([]Provider{repo, newFakeProvider("cloud", "cloud")})
	require.NoError(t, err)

	err = svc.MoveFiles(context.Background(), []Path{MustParse("/repo/doc.txt")}, MustParse("/elsewhere/folder"))

	var batch *BatchError
	require.ErrorAs(t, err, &batch)
	require.Len(t, batch.Failures, 1)
	assert.ErrorIs(t, batch.Failures[0].Err, ErrNotFound)
	assert.Empty(t, repo.calls)
}

func TestBatchWithNoPathsIsANoOp(t *testing.T) {
	repo := newFakeProvider("repo", "repo")
	svc, err := NewGenericFileService([]Provider{repo, newFakeProvider("cloud", "cloud")})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteFiles(context.Background(), nil))
	assert.Empty(t, repo.calls)
}
