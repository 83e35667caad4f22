package vfs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"sync"
)

// Permission is the access kind checked by HasAccess.
type Permission string

const (
	PermissionRead   Permission = "read"
	PermissionWrite  Permission = "write"
	PermissionDelete Permission = "delete"
)

// Provider is the contract every storage backend satisfies. A provider owns
// a disjoint subset of the path space, discriminated purely by a path's
// first segment (tree-backed stores) or scheme (connection-backed stores):
// Owns must be a pure function of the path and must not touch the backend.
//
// Operations are synchronous, blocking calls. The federation layer passes
// its caller's context through unchanged and imposes no timeout of its own;
// serializing access to shared backend state (such as a session tree cache)
// is the provider's responsibility.
type Provider interface {
	// Type returns the stable backend type identifier.
	Type() string

	// Name returns the display name of this provider instance.
	Name() string

	// Owns reports whether this provider serves the given path.
	Owns(p Path) bool

	GetTree(ctx context.Context, opts GetTreeOptions) (*Tree, error)
	GetRootTrees(ctx context.Context, opts GetTreeOptions) ([]*Tree, error)
	GetFile(ctx context.Context, p Path, opts GetFileOptions) (*File, error)
	GetFileContent(ctx context.Context, p Path) (io.ReadCloser, error)

	CreateFolder(ctx context.Context, p Path) error
	CreateFile(ctx context.Context, p Path, content io.Reader) error

	DeleteFile(ctx context.Context, p Path) error
	DeleteFilePermanently(ctx context.Context, p Path) error
	RestoreFile(ctx context.Context, p Path) error
	GetDeletedFiles(ctx context.Context) ([]*File, error)

	RenameFile(ctx context.Context, p Path, newName string) error

	// CopyFile and MoveFile place the source under destFolder, keeping
	// the source's name. Both paths are guaranteed by the caller to be
	// owned by this provider.
	CopyFile(ctx context.Context, p Path, destFolder Path) error
	MoveFile(ctx context.Context, p Path, destFolder Path) error

	GetFileMetadata(ctx context.Context, p Path) (map[string]string, error)
	SetFileMetadata(ctx context.Context, p Path, metadata map[string]string) error

	HasAccess(ctx context.Context, p Path, perm Permission) (bool, error)
	DoesFolderExist(ctx context.Context, p Path) (bool, error)

	// ClearTreeCache drops any session-scoped tree cache the provider
	// keeps.
	ClearTreeCache()
}

// ProviderFactory builds a provider instance from raw JSON configuration.
type ProviderFactory func(ctx context.Context, config json.RawMessage) (Provider, error)

var (
	factoryMu sync.RWMutex
	factories = make(map[string]ProviderFactory)
)

// RegisterProviderFactory registers a factory under a backend type string.
// Provider packages call this from init, so loading the package is enough
// to make its type constructible through NewProviderFromConfig.
func RegisterProviderFactory(providerType string, factory ProviderFactory) {
	factoryMu.Lock()
	defer factoryMu.Unlock()
	factories[providerType] = factory
}

// NewProviderFromConfig creates a provider from a backend type string and
// JSON config.
func NewProviderFromConfig(ctx context.Context, providerType string, config json.RawMessage) (Provider, error) {
	factoryMu.RLock()
	factory, ok := factories[providerType]
	factoryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown provider type: %s", providerType)
	}
	return factory(ctx, config)
}

// RegisteredProviderTypes returns the known backend type strings, sorted.
func RegisteredProviderTypes() []string {
	factoryMu.RLock()
	defer factoryMu.RUnlock()
	types := make([]string, 0, len(factories))
	for t := range factories {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
