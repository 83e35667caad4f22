// Package memory provides an in-memory provider for the federation layer.
// It implements the full provider contract, including the session tree
// cache and the trash, and serves both as the reference implementation for
// provider authors and as the fixture backend in tests.
package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fedfs/fedfs/pkg/vfs"
)

// ProviderType is the backend type identifier of this provider.
const ProviderType = "memory"

func init() {
	vfs.RegisterProviderFactory(ProviderType, func(_ context.Context, config json.RawMessage) (vfs.Provider, error) {
		return NewFromJSON(config)
	})
}

// Config holds memory provider settings.
type Config struct {
	// Name is the display name of the provider instance.
	Name string `json:"name"`

	// Root is the path segment this provider owns, without slashes
	// ("local" makes the provider serve /local/...).
	Root string `json:"root"`

	// Scheme, if set, makes the provider own every path with that
	// scheme instead of matching on the first segment. The root node is
	// then addressed as scheme://root.
	Scheme string `json:"scheme"`

	// Owner is recorded as owner and deleting user on nodes.
	Owner string `json:"owner"`

	// ReadOnly rejects every mutating operation with an access error.
	ReadOnly bool `json:"read_only"`
}

type node struct {
	fileType   vfs.FileType
	size       int64
	createdAt  time.Time
	modifiedAt time.Time
	owner      string
	metadata   map[string]string
	content    []byte
}

type trashEntry struct {
	id           string
	originalPath vfs.Path
	deletedAt    time.Time
	deletedBy    string

	// Detached subtree, keyed by original path key.
	nodes    map[string]*node
	children map[string][]string
}

// Provider is an in-memory implementation of vfs.Provider. All state lives
// behind one mutex, so a single instance is safe for concurrent use.
type Provider struct {
	cfg      Config
	rootPath vfs.Path

	mu         sync.RWMutex
	nodes      map[string]*node
	children   map[string][]string // parent key -> ordered child names
	trash      map[string]*trashEntry
	trashOrder []string
	cache      map[string]*vfs.Tree
	now        func() time.Time
}

// New creates a memory provider with an empty root folder.
func New(cfg Config) (*Provider, error) {
	if cfg.Root == "" {
		return nil, fmt.Errorf("root is required")
	}
	if strings.Contains(cfg.Root, "/") {
		return nil, fmt.Errorf("root must be a single segment")
	}
	if cfg.Name == "" {
		cfg.Name = cfg.Root
	}

	rootStr := "/" + cfg.Root
	if cfg.Scheme != "" {
		rootStr = cfg.Scheme + "://" + cfg.Root
	}
	rootPath, err := vfs.Parse(rootStr)
	if err != nil {
		return nil, fmt.Errorf("build root path: %w", err)
	}

	p := &Provider{
		cfg:      cfg,
		rootPath: rootPath,
		nodes:    make(map[string]*node),
		children: make(map[string][]string),
		trash:    make(map[string]*trashEntry),
		cache:    make(map[string]*vfs.Tree),
		now:      time.Now,
	}
	now := p.now()
	p.nodes[rootPath.Key()] = &node{
		fileType:   vfs.TypeFolder,
		createdAt:  now,
		modifiedAt: now,
		owner:      cfg.Owner,
	}
	return p, nil
}

// NewFromJSON creates a memory provider from raw JSON config.
func NewFromJSON(raw json.RawMessage) (*Provider, error) {
	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse memory config: %w", err)
	}
	return New(cfg)
}

// Type returns "memory".
func (p *Provider) Type() string { return ProviderType }

// Name returns the configured display name.
func (p *Provider) Name() string { return p.cfg.Name }

// RootPath returns the path of the provider's root folder.
func (p *Provider) RootPath() vfs.Path { return p.rootPath }

// Owns matches on the configured scheme, or on the first path segment for
// absolute paths.
func (p *Provider) Owns(path vfs.Path) bool {
	if p.cfg.Scheme != "" {
		return path.Scheme() == p.cfg.Scheme
	}
	return path.Scheme() == "" && path.FirstSegment() == p.cfg.Root
}

// GetFile builds a fresh File for the given path.
func (p *Provider) GetFile(_ context.Context, path vfs.Path, opts vfs.GetFileOptions) (*vfs.File, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	n, ok := p.nodes[path.Key()]
	if !ok {
		return nil, &vfs.NotFoundError{Path: path}
	}
	return p.buildFile(path, n, opts.IncludeMetadata), nil
}

// GetFileContent returns a reader over a file's content. Requesting the
// content of a folder is not meaningful.
func (p *Provider) GetFileContent(_ context.Context, path vfs.Path) (io.ReadCloser, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	n, ok := p.nodes[path.Key()]
	if !ok {
		return nil, &vfs.NotFoundError{Path: path}
	}
	if n.fileType == vfs.TypeFolder {
		return nil, &vfs.InvalidOperationError{Path: path, Reason: "folders have no content"}
	}
	content := append([]byte(nil), n.content...)
	return io.NopCloser(bytes.NewReader(content)), nil
}

// GetTree builds a tree rooted at the base path (the provider root when no
// base is given), serving the session cache unless the options bypass it.
// Cached trees are cloned on the way out so callers and decorators always
// mutate their own copy.
func (p *Provider) GetTree(_ context.Context, opts vfs.GetTreeOptions) (*vfs.Tree, error) {
	base := p.rootPath
	if opts.BasePath != nil {
		base = *opts.BasePath
	}

	key := treeCacheKey(base, opts)

	if !opts.BypassCache {
		p.mu.RLock()
		cached, ok := p.cache[key]
		p.mu.RUnlock()
		if ok {
			return cloneTree(cached), nil
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	n, ok := p.nodes[base.Key()]
	if !ok {
		return nil, &vfs.NotFoundError{Path: base}
	}
	tree := p.buildTree(base, n, opts, 0)
	p.cache[key] = tree
	return cloneTree(tree), nil
}

// GetRootTrees returns the provider's single real root tree. Any base path
// in the options is ignored.
func (p *Provider) GetRootTrees(ctx context.Context, opts vfs.GetTreeOptions) ([]*vfs.Tree, error) {
	opts.BasePath = nil
	tree, err := p.GetTree(ctx, opts)
	if err != nil {
		return nil, err
	}
	return []*vfs.Tree{tree}, nil
}

// CreateFolder creates an empty folder. The parent must already exist and
// be a folder.
func (p *Provider) CreateFolder(_ context.Context, path vfs.Path) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.checkWritable(); err != nil {
		return err
	}
	if err := p.checkCreatable(path); err != nil {
		return err
	}
	now := p.now()
	p.attach(path, &node{
		fileType:   vfs.TypeFolder,
		createdAt:  now,
		modifiedAt: now,
		owner:      p.cfg.Owner,
	})
	p.invalidateCache()
	return nil
}

// CreateFile creates a file with the given content.
func (p *Provider) CreateFile(_ context.Context, path vfs.Path, content io.Reader) error {
	data, err := io.ReadAll(content)
	if err != nil {
		return fmt.Errorf("read content for %s: %w", path, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.checkWritable(); err != nil {
		return err
	}
	if err := p.checkCreatable(path); err != nil {
		return err
	}
	now := p.now()
	p.attach(path, &node{
		fileType:   vfs.TypeFile,
		size:       int64(len(data)),
		createdAt:  now,
		modifiedAt: now,
		owner:      p.cfg.Owner,
		content:    data,
	})
	p.invalidateCache()
	return nil
}

// DeleteFile detaches the subtree at path into the trash, recording the
// original location and deleting user.
func (p *Provider) DeleteFile(_ context.Context, path vfs.Path) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.checkWritable(); err != nil {
		return err
	}
	if _, ok := p.nodes[path.Key()]; !ok {
		return &vfs.NotFoundError{Path: path}
	}
	if path.Equals(p.rootPath) {
		return &vfs.InvalidOperationError{Path: path, Reason: "provider root cannot be deleted"}
	}

	// A re-created file deleted again replaces its older trash entry.
	if _, exists := p.trash[path.Key()]; exists {
		p.dropTrashEntry(path.Key())
	}

	entry := &trashEntry{
		id:           uuid.NewString(),
		originalPath: path,
		deletedAt:    p.now(),
		deletedBy:    p.cfg.Owner,
		nodes:        make(map[string]*node),
		children:     make(map[string][]string),
	}
	p.detachSubtree(path, entry)
	p.trash[path.Key()] = entry
	p.trashOrder = append(p.trashOrder, path.Key())
	p.invalidateCache()
	return nil
}

// DeleteFilePermanently removes path outright: a live subtree is discarded
// without passing through the trash, and a trashed entry is purged.
func (p *Provider) DeleteFilePermanently(_ context.Context, path vfs.Path) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.checkWritable(); err != nil {
		return err
	}

	if _, ok := p.nodes[path.Key()]; ok {
		if path.Equals(p.rootPath) {
			return &vfs.InvalidOperationError{Path: path, Reason: "provider root cannot be deleted"}
		}
		discard := &trashEntry{nodes: make(map[string]*node), children: make(map[string][]string)}
		p.detachSubtree(path, discard)
		p.invalidateCache()
		return nil
	}

	if _, ok := p.trash[path.Key()]; ok {
		p.dropTrashEntry(path.Key())
		return nil
	}
	return &vfs.NotFoundError{Path: path}
}

// RestoreFile reattaches a trashed subtree at its original location,
// recreating missing parent folders.
func (p *Provider) RestoreFile(_ context.Context, path vfs.Path) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.checkWritable(); err != nil {
		return err
	}
	entry, ok := p.trash[path.Key()]
	if !ok {
		return &vfs.NotFoundError{Path: path}
	}
	if _, exists := p.nodes[path.Key()]; exists {
		return &vfs.ConflictError{Path: path}
	}

	if parent, hasParent := path.Parent(); hasParent {
		if err := p.ensureFolders(parent); err != nil {
			return err
		}
	}
	for key, n := range entry.nodes {
		p.nodes[key] = n
	}
	for key, names := range entry.children {
		p.children[key] = names
	}
	p.appendChild(path)
	p.dropTrashEntry(path.Key())
	p.invalidateCache()
	return nil
}

// GetDeletedFiles lists the trash in deletion order. Entries carry the
// original location chain and the deleting user.
func (p *Provider) GetDeletedFiles(_ context.Context) ([]*vfs.File, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	files := make([]*vfs.File, 0, len(p.trashOrder))
	for _, key := range p.trashOrder {
		entry := p.trash[key]
		n := entry.nodes[key]
		f := p.buildFile(entry.originalPath, n, false)
		f.Metadata = map[string]string{"trash_item_id": entry.id}
		deletedAt := entry.deletedAt
		f.DeletedAt = &deletedAt
		f.DeletedBy = entry.deletedBy
		original := entry.originalPath
		f.OriginalLocation = &original
		files = append(files, f)
	}
	return files, nil
}

// RenameFile renames path in place.
func (p *Provider) RenameFile(_ context.Context, path vfs.Path, newName string) error {
	if err := vfs.ValidateName(newName); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.checkWritable(); err != nil {
		return err
	}
	if _, ok := p.nodes[path.Key()]; !ok {
		return &vfs.NotFoundError{Path: path}
	}
	parent, hasParent := path.Parent()
	if !hasParent {
		return &vfs.InvalidOperationError{Path: path, Reason: "provider root cannot be renamed"}
	}
	newPath, err := parent.Child(newName)
	if err != nil {
		return err
	}
	if newPath.Equals(path) {
		return nil
	}
	if _, exists := p.nodes[newPath.Key()]; exists {
		return &vfs.ConflictError{Path: newPath}
	}

	p.rekeySubtree(path, newPath)
	p.renameChild(parent.Key(), path.Name(), newName)
	p.invalidateCache()
	return nil
}

// CopyFile deep-copies the subtree at path into destFolder, keeping the
// source's name.
func (p *Provider) CopyFile(_ context.Context, path vfs.Path, destFolder vfs.Path) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.checkWritable(); err != nil {
		return err
	}
	newPath, err := p.checkTransfer(path, destFolder)
	if err != nil {
		return err
	}

	p.copySubtree(path, newPath)
	p.appendChild(newPath)
	p.invalidateCache()
	return nil
}

// MoveFile moves the subtree at path into destFolder, keeping the source's
// name.
func (p *Provider) MoveFile(_ context.Context, path vfs.Path, destFolder vfs.Path) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.checkWritable(); err != nil {
		return err
	}
	newPath, err := p.checkTransfer(path, destFolder)
	if err != nil {
		return err
	}
	if path.Equals(p.rootPath) {
		return &vfs.InvalidOperationError{Path: path, Reason: "provider root cannot be moved"}
	}
	if path.Equals(destFolder) || path.IsAncestorOf(destFolder) {
		return &vfs.InvalidOperationError{Path: path, Reason: "cannot move a folder into itself"}
	}

	p.rekeySubtree(path, newPath)
	if parent, hasParent := path.Parent(); hasParent {
		p.removeChild(parent.Key(), path.Name())
	}
	p.appendChild(newPath)
	p.invalidateCache()
	return nil
}

// GetFileMetadata returns a copy of the metadata map of path.
func (p *Provider) GetFileMetadata(_ context.Context, path vfs.Path) (map[string]string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	n, ok := p.nodes[path.Key()]
	if !ok {
		return nil, &vfs.NotFoundError{Path: path}
	}
	return copyMetadata(n.metadata), nil
}

// SetFileMetadata replaces the metadata map of path.
func (p *Provider) SetFileMetadata(_ context.Context, path vfs.Path, metadata map[string]string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.checkWritable(); err != nil {
		return err
	}
	n, ok := p.nodes[path.Key()]
	if !ok {
		return &vfs.NotFoundError{Path: path}
	}
	n.metadata = copyMetadata(metadata)
	n.modifiedAt = p.now()
	p.invalidateCache()
	return nil
}

// HasAccess reports this provider's access decision. Reads are always
// allowed on existing paths; writes and deletes require the provider not
// to be read-only. A missing path yields false without an error.
func (p *Provider) HasAccess(_ context.Context, path vfs.Path, perm vfs.Permission) (bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if _, ok := p.nodes[path.Key()]; !ok {
		return false, nil
	}
	switch perm {
	case vfs.PermissionRead:
		return true, nil
	case vfs.PermissionWrite, vfs.PermissionDelete:
		return !p.cfg.ReadOnly, nil
	default:
		return false, nil
	}
}

// DoesFolderExist reports whether path exists and is a folder.
func (p *Provider) DoesFolderExist(_ context.Context, path vfs.Path) (bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	n, ok := p.nodes[path.Key()]
	return ok && n.fileType == vfs.TypeFolder, nil
}

// ClearTreeCache drops the session tree cache.
func (p *Provider) ClearTreeCache() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.invalidateCache()
}

// internals. All helpers below expect p.mu to be held.

func (p *Provider) checkWritable() error {
	if p.cfg.ReadOnly {
		return &vfs.AccessControlError{Op: "write to read-only provider " + p.cfg.Name}
	}
	return nil
}

func (p *Provider) checkCreatable(path vfs.Path) error {
	if !p.Owns(path) {
		return &vfs.InvalidOperationError{Path: path, Reason: "path is outside this provider"}
	}
	if _, exists := p.nodes[path.Key()]; exists {
		return &vfs.ConflictError{Path: path}
	}
	parent, hasParent := path.Parent()
	if !hasParent {
		return &vfs.InvalidOperationError{Path: path, Reason: "cannot create a provider root"}
	}
	parentNode, ok := p.nodes[parent.Key()]
	if !ok {
		return &vfs.NotFoundError{Path: parent}
	}
	if parentNode.fileType != vfs.TypeFolder {
		return &vfs.InvalidOperationError{Path: parent, Reason: "parent is not a folder"}
	}
	return nil
}

func (p *Provider) checkTransfer(path, destFolder vfs.Path) (vfs.Path, error) {
	if _, ok := p.nodes[path.Key()]; !ok {
		return vfs.Path{}, &vfs.NotFoundError{Path: path}
	}
	destNode, ok := p.nodes[destFolder.Key()]
	if !ok {
		return vfs.Path{}, &vfs.NotFoundError{Path: destFolder}
	}
	if destNode.fileType != vfs.TypeFolder {
		return vfs.Path{}, &vfs.InvalidOperationError{Path: destFolder, Reason: "destination is not a folder"}
	}
	newPath, err := destFolder.Child(path.Name())
	if err != nil {
		return vfs.Path{}, err
	}
	if _, exists := p.nodes[newPath.Key()]; exists {
		return vfs.Path{}, &vfs.ConflictError{Path: newPath}
	}
	return newPath, nil
}

// attach inserts a node and links it into its parent's child list.
func (p *Provider) attach(path vfs.Path, n *node) {
	p.nodes[path.Key()] = n
	p.appendChild(path)
}

func (p *Provider) appendChild(path vfs.Path) {
	parent, hasParent := path.Parent()
	if !hasParent {
		return
	}
	p.children[parent.Key()] = append(p.children[parent.Key()], path.Name())
}

func (p *Provider) removeChild(parentKey, name string) {
	names := p.children[parentKey]
	for i, existing := range names {
		if existing == name {
			p.children[parentKey] = append(names[:i], names[i+1:]...)
			return
		}
	}
}

func (p *Provider) renameChild(parentKey, oldName, newName string) {
	for i, existing := range p.children[parentKey] {
		if existing == oldName {
			p.children[parentKey][i] = newName
			return
		}
	}
}

// detachSubtree moves the subtree rooted at path out of the live maps into
// the given entry and unlinks it from its parent.
func (p *Provider) detachSubtree(path vfs.Path, entry *trashEntry) {
	p.walkSubtree(path, func(childPath vfs.Path) {
		key := childPath.Key()
		entry.nodes[key] = p.nodes[key]
		if names, ok := p.children[key]; ok {
			entry.children[key] = names
		}
		delete(p.nodes, key)
		delete(p.children, key)
	})
	if parent, hasParent := path.Parent(); hasParent {
		p.removeChild(parent.Key(), path.Name())
	}
}

// copySubtree deep-copies the subtree at src to dst.
func (p *Provider) copySubtree(src, dst vfs.Path) {
	n := p.nodes[src.Key()]
	p.nodes[dst.Key()] = cloneNode(n, p.now())
	for _, name := range p.children[src.Key()] {
		srcChild, _ := src.Child(name)
		dstChild, _ := dst.Child(name)
		p.children[dst.Key()] = append(p.children[dst.Key()], name)
		p.copySubtree(srcChild, dstChild)
	}
}

// rekeySubtree moves every node of the subtree at src to the corresponding
// key under dst.
func (p *Provider) rekeySubtree(src, dst vfs.Path) {
	names := p.children[src.Key()]
	n := p.nodes[src.Key()]
	delete(p.nodes, src.Key())
	delete(p.children, src.Key())
	p.nodes[dst.Key()] = n
	if names != nil {
		p.children[dst.Key()] = names
	}
	for _, name := range names {
		srcChild, _ := src.Child(name)
		dstChild, _ := dst.Child(name)
		p.rekeySubtree(srcChild, dstChild)
	}
}

// ensureFolders creates any missing folders on the way down to path.
func (p *Provider) ensureFolders(path vfs.Path) error {
	if existing, ok := p.nodes[path.Key()]; ok {
		if existing.fileType != vfs.TypeFolder {
			return &vfs.InvalidOperationError{Path: path, Reason: "parent is not a folder"}
		}
		return nil
	}
	if parent, hasParent := path.Parent(); hasParent {
		if err := p.ensureFolders(parent); err != nil {
			return err
		}
	}
	now := p.now()
	p.attach(path, &node{
		fileType:   vfs.TypeFolder,
		createdAt:  now,
		modifiedAt: now,
		owner:      p.cfg.Owner,
	})
	return nil
}

func (p *Provider) walkSubtree(path vfs.Path, fn func(vfs.Path)) {
	fn(path)
	for _, name := range p.children[path.Key()] {
		child, _ := path.Child(name)
		p.walkSubtree(child, fn)
	}
}

func (p *Provider) dropTrashEntry(key string) {
	delete(p.trash, key)
	for i, existing := range p.trashOrder {
		if existing == key {
			p.trashOrder = append(p.trashOrder[:i], p.trashOrder[i+1:]...)
			return
		}
	}
}

func (p *Provider) invalidateCache() {
	p.cache = make(map[string]*vfs.Tree)
}

func (p *Provider) buildFile(path vfs.Path, n *node, includeMetadata bool) *vfs.File {
	isRoot := path.Equals(p.rootPath)
	f := &vfs.File{
		Name:           path.Name(),
		Path:           path,
		Type:           n.fileType,
		Size:           n.size,
		CreatedAt:      n.createdAt,
		ModifiedAt:     n.modifiedAt,
		Owner:          n.owner,
		CanEdit:        !p.cfg.ReadOnly && !isRoot,
		CanDelete:      !p.cfg.ReadOnly && !isRoot,
		CanAddChildren: n.fileType == vfs.TypeFolder && !p.cfg.ReadOnly,
		Provider:       ProviderType,
	}
	if parent, hasParent := path.Parent(); hasParent {
		f.ParentPath = &parent
	}
	if includeMetadata {
		f.Metadata = copyMetadata(n.metadata)
		if f.Metadata == nil {
			f.Metadata = make(map[string]string)
		}
	}
	return f
}

func (p *Provider) buildTree(path vfs.Path, n *node, opts vfs.GetTreeOptions, depth int) *vfs.Tree {
	tree := &vfs.Tree{File: p.buildFile(path, n, opts.IncludeMetadata)}
	if n.fileType != vfs.TypeFolder {
		return tree
	}
	if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
		// Children exist but were not fetched.
		return tree
	}

	tree.Children = []*vfs.Tree{}
	for _, name := range p.children[path.Key()] {
		if !opts.IncludeHidden && strings.HasPrefix(name, ".") {
			continue
		}
		childPath, _ := path.Child(name)
		childNode := p.nodes[childPath.Key()]
		if childNode == nil {
			continue
		}
		if opts.Filter == vfs.FilterFolders && childNode.fileType != vfs.TypeFolder {
			continue
		}
		child := p.buildTree(childPath, childNode, opts, depth+1)
		if opts.Filter == vfs.FilterFiles && childNode.fileType == vfs.TypeFolder && !subtreeHasFiles(child) {
			continue
		}
		tree.Children = append(tree.Children, child)
	}
	return tree
}

// subtreeHasFiles reports whether a built subtree contains at least one
// file. Folders cut off by the depth limit report unfetched children and
// are kept, since their contents are unknown.
func subtreeHasFiles(t *vfs.Tree) bool {
	if t.File.Type == vfs.TypeFile {
		return true
	}
	if t.Children == nil {
		return true
	}
	for _, child := range t.Children {
		if subtreeHasFiles(child) {
			return true
		}
	}
	return false
}

func treeCacheKey(base vfs.Path, opts vfs.GetTreeOptions) string {
	return fmt.Sprintf("%s|%s|%d|%t|%t", base.Key(), opts.Filter, opts.MaxDepth, opts.IncludeHidden, opts.IncludeMetadata)
}

func cloneNode(n *node, now time.Time) *node {
	return &node{
		fileType:   n.fileType,
		size:       n.size,
		createdAt:  now,
		modifiedAt: now,
		owner:      n.owner,
		metadata:   copyMetadata(n.metadata),
		content:    append([]byte(nil), n.content...),
	}
}

func cloneTree(t *vfs.Tree) *vfs.Tree {
	if t == nil {
		return nil
	}
	clone := &vfs.Tree{}
	if t.File != nil {
		f := *t.File
		f.Metadata = copyMetadata(t.File.Metadata)
		clone.File = &f
	}
	if t.Children != nil {
		clone.Children = make([]*vfs.Tree, 0, len(t.Children))
		for _, child := range t.Children {
			clone.Children = append(clone.Children, cloneTree(child))
		}
	}
	return clone
}

func copyMetadata(md map[string]string) map[string]string {
	if md == nil {
		return nil
	}
	out := make(map[string]string, len(md))
	for k, v := range md {
		out[k] = v
	}
	return out
}
