package vfs

import (
	"context"

	"github.com/fedfs/fedfs/internal/metrics"
)

// Batch operations process their paths sequentially in call order, routing
// each path through the same dispatch as the single-path variant. A
// failing path is recorded and the batch moves on; an unowned path records
// a NotFoundError like any other failure and never short-circuits the
// batch. If anything failed, one BatchError carrying the ordered failures
// is returned; otherwise the batch succeeds silently.
//
// No cross-provider transactionality is provided: a batch spanning
// providers can partially succeed, and the BatchError is the only record
// of which paths did not.

// DeleteFiles moves each path to its provider's trash.
func (s *GenericFileService) DeleteFiles(ctx context.Context, paths []Path) error {
	return s.batch(ctx, "delete_files", paths, func(ctx context.Context, provider Provider, p Path) error {
		return provider.DeleteFile(ctx, p)
	})
}

// DeleteFilesPermanently removes each path without passing through the
// trash.
func (s *GenericFileService) DeleteFilesPermanently(ctx context.Context, paths []Path) error {
	return s.batch(ctx, "delete_files_permanently", paths, func(ctx context.Context, provider Provider, p Path) error {
		return provider.DeleteFilePermanently(ctx, p)
	})
}

// RestoreFiles restores each trashed path to its original location.
func (s *GenericFileService) RestoreFiles(ctx context.Context, paths []Path) error {
	return s.batch(ctx, "restore_files", paths, func(ctx context.Context, provider Provider, p Path) error {
		return provider.RestoreFile(ctx, p)
	})
}

// CopyFiles copies each path into destFolder. An item whose source and
// destination resolve to different providers fails with an
// InvalidOperationError recorded in the batch map; it does not abort the
// batch.
func (s *GenericFileService) CopyFiles(ctx context.Context, paths []Path, destFolder Path) error {
	return s.batchTransfer(ctx, "copy_files", paths, destFolder, Provider.CopyFile)
}

// MoveFiles moves each path into destFolder, under the same per-item
// provider constraint as CopyFiles.
func (s *GenericFileService) MoveFiles(ctx context.Context, paths []Path, destFolder Path) error {
	return s.batchTransfer(ctx, "move_files", paths, destFolder, Provider.MoveFile)
}

func (s *GenericFileService) batch(ctx context.Context, op string, paths []Path, fn func(context.Context, Provider, Path) error) (err error) {
	defer func() { metrics.ObserveOperation(op, err) }()
	metrics.ObserveBatchSize(len(paths))

	var failures []BatchFailure
	for _, p := range paths {
		provider, resolveErr := s.resolve(p)
		if resolveErr != nil {
			failures = append(failures, BatchFailure{Path: p, Err: resolveErr})
			continue
		}
		if opErr := fn(ctx, provider, p); opErr != nil {
			failures = append(failures, BatchFailure{Path: p, Err: opErr})
		}
	}
	if len(failures) > 0 {
		return NewBatchError(op, failures)
	}
	return nil
}

func (s *GenericFileService) batchTransfer(ctx context.Context, op string, paths []Path, destFolder Path, fn func(Provider, context.Context, Path, Path) error) (err error) {
	defer func() { metrics.ObserveOperation(op, err) }()
	metrics.ObserveBatchSize(len(paths))

	var failures []BatchFailure
	for _, p := range paths {
		provider, resolveErr := s.resolveTransfer(p, destFolder)
		if resolveErr != nil {
			failures = append(failures, BatchFailure{Path: p, Err: resolveErr})
			continue
		}
		if opErr := fn(provider, ctx, p, destFolder); opErr != nil {
			failures = append(failures, BatchFailure{Path: p, Err: opErr})
		}
	}
	if len(failures) > 0 {
		return NewBatchError(op, failures)
	}
	return nil
}
