package vfs

import "time"

// FileType distinguishes files from folders.
type FileType string

const (
	TypeFile   FileType = "file"
	TypeFolder FileType = "folder"
)

// File describes a file or folder as produced by a provider. Providers
// build a fresh File on every retrieval; only trees are ever cached, and
// that caching is owned by the provider.
type File struct {
	Name       string
	Path       Path
	ParentPath *Path // nil for provider roots and the aggregate root
	Type       FileType
	Size       int64
	CreatedAt  time.Time
	ModifiedAt time.Time
	Owner      string

	CanEdit        bool
	CanDelete      bool
	CanAddChildren bool

	// Metadata is populated only when the retrieval options asked for it.
	Metadata map[string]string

	// Provider is the Type() of the provider that produced this file.
	Provider string

	// Trash bookkeeping, set only for entries returned by GetDeletedFiles.
	DeletedAt        *time.Time
	DeletedBy        string
	OriginalLocation *Path
}

// IsFolder reports whether the file is a folder.
func (f *File) IsFolder() bool { return f.Type == TypeFolder }

// AcceptsChildren reports whether new children may currently be created
// under this file.
func (f *File) AcceptsChildren() bool {
	return f.Type == TypeFolder && f.CanAddChildren
}

// Tree is a File together with its fetched children. A nil Children slice
// means the children were not fetched (depth cut-off); an empty non-nil
// slice means the node was expanded and has none.
type Tree struct {
	File     *File
	Children []*Tree
}

// TreeFilter selects which node kinds a tree retrieval returns.
type TreeFilter string

const (
	// FilterAll returns files and folders.
	FilterAll TreeFilter = "all"
	// FilterFiles returns files; folders are kept only as connective
	// structure, and folder subtrees containing no files are pruned.
	FilterFiles TreeFilter = "files"
	// FilterFolders returns folders only.
	FilterFolders TreeFilter = "folders"
)

// GetTreeOptions configures a tree retrieval. The zero value requests the
// full federated tree: no base path, unlimited depth, all node kinds,
// hidden files excluded.
type GetTreeOptions struct {
	// BasePath roots the retrieval at a specific folder. Nil requests
	// root aggregation across every provider.
	BasePath *Path

	// MaxDepth limits expansion below the base; zero or negative means
	// unlimited.
	MaxDepth int

	Filter          TreeFilter
	IncludeHidden   bool
	IncludeMetadata bool

	// BypassCache forces providers to rebuild rather than serve their
	// session tree cache.
	BypassCache bool
}

// GetFileOptions configures a single-file retrieval.
type GetFileOptions struct {
	IncludeMetadata bool
}
