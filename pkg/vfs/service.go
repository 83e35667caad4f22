package vfs

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"

	"github.com/fedfs/fedfs/internal/logging"
	"github.com/fedfs/fedfs/internal/metrics"
)

// AggregateProviderType tags the synthetic root node assembled when a tree
// is requested without a base path and more than one provider is
// registered.
const AggregateProviderType = "combined"

// aggregateRootName is the fixed display name of the synthetic root. The
// node is not addressable: it carries the zero Path and no provider will
// ever own it.
const aggregateRootName = "root"

// FileService is the caller boundary of the federation layer: every file
// operation over the combined path space of all registered providers.
// Decorators receive it so they can fetch auxiliary data during
// enrichment.
type FileService interface {
	GetTree(ctx context.Context, opts GetTreeOptions) (*Tree, error)
	GetRootTrees(ctx context.Context, opts GetTreeOptions) ([]*Tree, error)
	GetFile(ctx context.Context, p Path, opts GetFileOptions) (*File, error)
	GetFileContent(ctx context.Context, p Path) (io.ReadCloser, error)

	CreateFolder(ctx context.Context, p Path) error
	CreateFile(ctx context.Context, p Path, content io.Reader) error

	DeleteFile(ctx context.Context, p Path) error
	DeleteFiles(ctx context.Context, paths []Path) error
	DeleteFilePermanently(ctx context.Context, p Path) error
	DeleteFilesPermanently(ctx context.Context, paths []Path) error
	RestoreFile(ctx context.Context, p Path) error
	RestoreFiles(ctx context.Context, paths []Path) error
	GetDeletedFiles(ctx context.Context) ([]*File, error)

	RenameFile(ctx context.Context, p Path, newName string) error
	CopyFile(ctx context.Context, p Path, destFolder Path) error
	MoveFile(ctx context.Context, p Path, destFolder Path) error
	CopyFiles(ctx context.Context, paths []Path, destFolder Path) error
	MoveFiles(ctx context.Context, paths []Path, destFolder Path) error

	GetFileMetadata(ctx context.Context, p Path) (map[string]string, error)
	SetFileMetadata(ctx context.Context, p Path, metadata map[string]string) error

	HasAccess(ctx context.Context, p Path, perm Permission) (bool, error)
	DoesFolderExist(ctx context.Context, p Path) (bool, error)

	ClearTreeCache()
}

// GenericFileService federates independent providers into one logical file
// service. It owns no storage and keeps no mutable state: routing works
// over an immutable, ordered provider list fixed at construction, so the
// service is safe for concurrent use as long as the providers are.
//
// Dispatch rules:
//
//   - Path-scoped calls go to the first provider in registration order
//     whose Owns returns true; with exactly one provider registered the
//     check is skipped and the sole provider always serves the call.
//   - A path no provider owns fails with a NotFoundError. That this is the
//     same error an owning provider reports for a missing file is
//     deliberate; see NotFoundError.
//   - Aggregating calls (root trees, deleted files, tree without a base
//     path) consult every provider and skip individual failures.
type GenericFileService struct {
	providers []Provider
	decorator Decorator
}

var _ FileService = (*GenericFileService)(nil)

// ServiceOption configures a GenericFileService.
type ServiceOption func(*GenericFileService)

// WithDecorator installs the decoration pipeline invoked after successful
// retrievals. Compose multiple decorators with NewCompositeDecorator.
func WithDecorator(d Decorator) ServiceOption {
	return func(s *GenericFileService) {
		if d != nil {
			s.decorator = d
		}
	}
}

// NewGenericFileService builds the federation over an ordered provider
// list. At least one provider is required.
func NewGenericFileService(providers []Provider, opts ...ServiceOption) (*GenericFileService, error) {
	if len(providers) == 0 {
		return nil, errors.New("at least one provider is required")
	}
	s := &GenericFileService{
		providers: append([]Provider(nil), providers...),
		decorator: NopDecorator{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Providers returns the registered providers in registration order.
func (s *GenericFileService) Providers() []Provider {
	return append([]Provider(nil), s.providers...)
}

// resolve selects the provider serving p.
func (s *GenericFileService) resolve(p Path) (Provider, error) {
	if len(s.providers) == 1 {
		metrics.SingleProviderBypass()
		return s.providers[0], nil
	}
	for _, provider := range s.providers {
		if provider.Owns(p) {
			return provider, nil
		}
	}
	metrics.OwnershipMiss()
	return nil, &NotFoundError{Path: p}
}

// GetTree returns a tree of the federated path space. Without a base path
// and with multiple providers registered, every provider's tree is
// gathered under a synthetic root; providers that fail are skipped unless
// all of them fail, in which case the first failure in registration order
// is returned. With a base path the call is delegated entirely to the
// owning provider.
func (s *GenericFileService) GetTree(ctx context.Context, opts GetTreeOptions) (tree *Tree, err error) {
	defer func() { metrics.ObserveOperation("get_tree", err) }()

	if opts.BasePath == nil {
		tree, err = s.aggregateTrees(ctx, opts)
	} else {
		var provider Provider
		provider, err = s.resolve(*opts.BasePath)
		if err != nil {
			return nil, err
		}
		tree, err = provider.GetTree(ctx, opts)
	}
	if err != nil {
		return nil, err
	}
	s.decorateTree(ctx, tree, opts)
	return tree, nil
}

func (s *GenericFileService) aggregateTrees(ctx context.Context, opts GetTreeOptions) (*Tree, error) {
	if len(s.providers) == 1 {
		return s.providers[0].GetTree(ctx, opts)
	}

	children := make([]*Tree, 0, len(s.providers))
	var firstErr error
	for _, provider := range s.providers {
		tree, err := provider.GetTree(ctx, opts)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			metrics.ProviderFailure(provider.Type(), "get_tree")
			logging.Warn("provider skipped during tree aggregation",
				zap.String("provider", provider.Type()),
				zap.Error(err))
			continue
		}
		children = append(children, tree)
	}
	if len(children) == 0 && firstErr != nil {
		return nil, firstErr
	}
	return &Tree{File: newAggregateRoot(), Children: children}, nil
}

// newAggregateRoot builds the non-addressable folder node representing the
// federation itself. Fresh per call so decorators never see a shared
// instance.
func newAggregateRoot() *File {
	return &File{
		Name:     aggregateRootName,
		Type:     TypeFolder,
		Provider: AggregateProviderType,
	}
}

// GetRootTrees aggregates every provider's real root trees, regardless of
// how many providers are registered and ignoring any base path in opts.
// Per-provider failures are skipped and never abort the aggregation. The
// result preserves provider registration order and, within a provider, the
// order the provider returned.
func (s *GenericFileService) GetRootTrees(ctx context.Context, opts GetTreeOptions) (trees []*Tree, err error) {
	defer func() { metrics.ObserveOperation("get_root_trees", err) }()

	opts.BasePath = nil
	var all []*Tree
	for _, provider := range s.providers {
		roots, rootErr := provider.GetRootTrees(ctx, opts)
		if rootErr != nil {
			metrics.ProviderFailure(provider.Type(), "get_root_trees")
			logging.Warn("provider skipped during root tree aggregation",
				zap.String("provider", provider.Type()),
				zap.Error(rootErr))
			continue
		}
		all = append(all, roots...)
	}
	for _, tree := range all {
		s.decorateTree(ctx, tree, opts)
	}
	return all, nil
}

// GetFile retrieves a single file or folder.
func (s *GenericFileService) GetFile(ctx context.Context, p Path, opts GetFileOptions) (f *File, err error) {
	defer func() { metrics.ObserveOperation("get_file", err) }()

	provider, err := s.resolve(p)
	if err != nil {
		return nil, err
	}
	f, err = provider.GetFile(ctx, p, opts)
	if err != nil {
		return nil, err
	}
	s.decorateFile(ctx, f, opts)
	return f, nil
}

// GetFileContent opens the content of a file for reading. The caller owns
// the returned reader and must close it.
func (s *GenericFileService) GetFileContent(ctx context.Context, p Path) (rc io.ReadCloser, err error) {
	defer func() { metrics.ObserveOperation("get_file_content", err) }()

	provider, err := s.resolve(p)
	if err != nil {
		return nil, err
	}
	return provider.GetFileContent(ctx, p)
}

// CreateFolder creates a folder at p under its owning provider.
func (s *GenericFileService) CreateFolder(ctx context.Context, p Path) (err error) {
	defer func() { metrics.ObserveOperation("create_folder", err) }()

	provider, err := s.resolve(p)
	if err != nil {
		return err
	}
	return provider.CreateFolder(ctx, p)
}

// CreateFile creates a file at p with the given content.
func (s *GenericFileService) CreateFile(ctx context.Context, p Path, content io.Reader) (err error) {
	defer func() { metrics.ObserveOperation("create_file", err) }()

	provider, err := s.resolve(p)
	if err != nil {
		return err
	}
	return provider.CreateFile(ctx, p, content)
}

// DeleteFile moves a single file to its provider's trash.
func (s *GenericFileService) DeleteFile(ctx context.Context, p Path) (err error) {
	defer func() { metrics.ObserveOperation("delete_file", err) }()

	provider, err := s.resolve(p)
	if err != nil {
		return err
	}
	return provider.DeleteFile(ctx, p)
}

// DeleteFilePermanently removes a single file without passing through the
// trash.
func (s *GenericFileService) DeleteFilePermanently(ctx context.Context, p Path) (err error) {
	defer func() { metrics.ObserveOperation("delete_file_permanently", err) }()

	provider, err := s.resolve(p)
	if err != nil {
		return err
	}
	return provider.DeleteFilePermanently(ctx, p)
}

// RestoreFile restores a single trashed file to its original location.
func (s *GenericFileService) RestoreFile(ctx context.Context, p Path) (err error) {
	defer func() { metrics.ObserveOperation("restore_file", err) }()

	provider, err := s.resolve(p)
	if err != nil {
		return err
	}
	return provider.RestoreFile(ctx, p)
}

// GetDeletedFiles lists trashed files across all providers, skipping
// providers that fail and concatenating successes in registration order.
func (s *GenericFileService) GetDeletedFiles(ctx context.Context) (files []*File, err error) {
	defer func() { metrics.ObserveOperation("get_deleted_files", err) }()

	var all []*File
	for _, provider := range s.providers {
		deleted, delErr := provider.GetDeletedFiles(ctx)
		if delErr != nil {
			metrics.ProviderFailure(provider.Type(), "get_deleted_files")
			logging.Warn("provider skipped while listing deleted files",
				zap.String("provider", provider.Type()),
				zap.Error(delErr))
			continue
		}
		all = append(all, deleted...)
	}
	return all, nil
}

// RenameFile renames p in place. The new name must be a valid single
// segment.
func (s *GenericFileService) RenameFile(ctx context.Context, p Path, newName string) (err error) {
	defer func() { metrics.ObserveOperation("rename_file", err) }()

	if err = ValidateName(newName); err != nil {
		return err
	}
	provider, err := s.resolve(p)
	if err != nil {
		return err
	}
	return provider.RenameFile(ctx, p, newName)
}

// CopyFile copies p into destFolder, keeping its name. Source and
// destination must resolve to the same provider; copies across providers
// are not supported and fail with an InvalidOperationError.
func (s *GenericFileService) CopyFile(ctx context.Context, p Path, destFolder Path) (err error) {
	defer func() { metrics.ObserveOperation("copy_file", err) }()

	provider, err := s.resolveTransfer(p, destFolder)
	if err != nil {
		return err
	}
	return provider.CopyFile(ctx, p, destFolder)
}

// MoveFile moves p into destFolder, keeping its name. Same provider
// constraint as CopyFile.
func (s *GenericFileService) MoveFile(ctx context.Context, p Path, destFolder Path) (err error) {
	defer func() { metrics.ObserveOperation("move_file", err) }()

	provider, err := s.resolveTransfer(p, destFolder)
	if err != nil {
		return err
	}
	return provider.MoveFile(ctx, p, destFolder)
}

// resolveTransfer resolves source and destination of a copy/move and
// enforces that both land on the same provider.
func (s *GenericFileService) resolveTransfer(src, destFolder Path) (Provider, error) {
	srcProvider, err := s.resolve(src)
	if err != nil {
		return nil, err
	}
	dstProvider, err := s.resolve(destFolder)
	if err != nil {
		return nil, err
	}
	if srcProvider != dstProvider {
		return nil, &InvalidOperationError{
			Path:   src,
			Reason: "source and destination belong to different providers",
		}
	}
	return srcProvider, nil
}

// GetFileMetadata returns the metadata map of p.
func (s *GenericFileService) GetFileMetadata(ctx context.Context, p Path) (md map[string]string, err error) {
	defer func() { metrics.ObserveOperation("get_file_metadata", err) }()

	provider, err := s.resolve(p)
	if err != nil {
		return nil, err
	}
	md, err = provider.GetFileMetadata(ctx, p)
	if err != nil {
		return nil, err
	}
	s.decorateFileMetadata(ctx, p, md)
	return md, nil
}

// SetFileMetadata replaces the metadata map of p.
func (s *GenericFileService) SetFileMetadata(ctx context.Context, p Path, metadata map[string]string) (err error) {
	defer func() { metrics.ObserveOperation("set_file_metadata", err) }()

	provider, err := s.resolve(p)
	if err != nil {
		return err
	}
	return provider.SetFileMetadata(ctx, p, metadata)
}

// HasAccess relays the owning provider's access decision for p. The
// federation layer holds no policy of its own.
func (s *GenericFileService) HasAccess(ctx context.Context, p Path, perm Permission) (ok bool, err error) {
	defer func() { metrics.ObserveOperation("has_access", err) }()

	provider, err := s.resolve(p)
	if err != nil {
		return false, err
	}
	return provider.HasAccess(ctx, p, perm)
}

// DoesFolderExist reports whether p exists and is a folder.
func (s *GenericFileService) DoesFolderExist(ctx context.Context, p Path) (ok bool, err error) {
	defer func() { metrics.ObserveOperation("does_folder_exist", err) }()

	provider, err := s.resolve(p)
	if err != nil {
		return false, err
	}
	return provider.DoesFolderExist(ctx, p)
}

// ClearTreeCache drops the session tree cache of every provider.
func (s *GenericFileService) ClearTreeCache() {
	for _, provider := range s.providers {
		provider.ClearTreeCache()
	}
}

// decoration plumbing. Decorator outcomes never reach the caller of the
// primary operation.

func (s *GenericFileService) decorateFile(ctx context.Context, f *File, opts GetFileOptions) {
	invokeDecorator("file", func() error {
		return s.decorator.DecorateFile(ctx, f, opts, s)
	})
}

func (s *GenericFileService) decorateTree(ctx context.Context, t *Tree, opts GetTreeOptions) {
	invokeDecorator("tree", func() error {
		return s.decorator.DecorateTree(ctx, t, opts, s)
	})
}

func (s *GenericFileService) decorateFileMetadata(ctx context.Context, p Path, metadata map[string]string) {
	invokeDecorator("file_metadata", func() error {
		return s.decorator.DecorateFileMetadata(ctx, p, metadata, s)
	})
}
