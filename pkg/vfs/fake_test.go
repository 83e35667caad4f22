package vfs

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"testing"

	"go.uber.org/zap"

	"github.com/fedfs/fedfs/internal/logging"
)

func TestMain(m *testing.M) {
	logging.SetLogger(zap.NewNop())
	os.Exit(m.Run())
}

// fakeProvider is a scriptable Provider for routing tests. Every call is
// recorded; err, when set, is returned by every operation.
type fakeProvider struct {
	typ  string
	root string
	err  error

	tree      *Tree
	rootTrees []*Tree
	file      *File
	metadata  map[string]string
	deleted   []*File

	calls []string
}

func newFakeProvider(typ, root string) *fakeProvider {
	return &fakeProvider{typ: typ, root: root}
}

func (f *fakeProvider) record(op string, args ...any) {
	call := op
	for _, arg := range args {
		call += fmt.Sprintf(" %v", arg)
	}
	f.calls = append(f.calls, call)
}

func (f *fakeProvider) Type() string { return f.typ }
func (f *fakeProvider) Name() string { return f.typ }

func (f *fakeProvider) Owns(p Path) bool {
	return p.Scheme() == "" && p.FirstSegment() == f.root
}

func (f *fakeProvider) GetTree(_ context.Context, opts GetTreeOptions) (*Tree, error) {
	f.record("GetTree")
	if f.err != nil {
		return nil, f.err
	}
	if f.tree != nil {
		return f.tree, nil
	}
	return &Tree{File: &File{
		Name:     f.root,
		Path:     MustParse("/" + f.root),
		Type:     TypeFolder,
		Provider: f.typ,
	}}, nil
}

func (f *fakeProvider) GetRootTrees(_ context.Context, _ GetTreeOptions) ([]*Tree, error) {
	f.record("GetRootTrees")
	if f.err != nil {
		return nil, f.err
	}
	return f.rootTrees, nil
}

func (f *fakeProvider) GetFile(_ context.Context, p Path, _ GetFileOptions) (*File, error) {
	f.record("GetFile", p)
	if f.err != nil {
		return nil, f.err
	}
	if f.file != nil {
		return f.file, nil
	}
	return &File{Name: p.Name(), Path: p, Type: TypeFile, Provider: f.typ}, nil
}

func (f *fakeProvider) GetFileContent(_ context.Context, p Path) (io.ReadCloser, error) {
	f.record("GetFileContent", p)
	if f.err != nil {
		return nil, f.err
	}
	return io.NopCloser(bytes.NewReader(nil)), nil
}

func (f *fakeProvider) CreateFolder(_ context.Context, p Path) error {
	f.record("CreateFolder", p)
	return f.err
}

func (f *fakeProvider) CreateFile(_ context.Context, p Path, _ io.Reader) error {
	f.record("CreateFile", p)
	return f.err
}

func (f *fakeProvider) DeleteFile(_ context.Context, p Path) error {
	f.record("DeleteFile", p)
	return f.err
}

func (f *fakeProvider) DeleteFilePermanently(_ context.Context, p Path) error {
	f.record("DeleteFilePermanently", p)
	return f.err
}

func (f *fakeProvider) RestoreFile(_ context.Context, p Path) error {
	f.record("RestoreFile", p)
	return f.err
}

func (f *fakeProvider) GetDeletedFiles(_ context.Context) ([]*File, error) {
	f.record("GetDeletedFiles")
	if f.err != nil {
		return nil, f.err
	}
	return f.deleted, nil
}

func (f *fakeProvider) RenameFile(_ context.Context, p Path, newName string) error {
	f.record("RenameFile", p, newName)
	return f.err
}

func (f *fakeProvider) CopyFile(_ context.Context, p Path, destFolder Path) error {
	f.record("CopyFile", p, destFolder)
	return f.err
}

func (f *fakeProvider) MoveFile(_ context.Context, p Path, destFolder Path) error {
	f.record("MoveFile", p, destFolder)
	return f.err
}

func (f *fakeProvider) GetFileMetadata(_ context.Context, p Path) (map[string]string, error) {
	f.record("GetFileMetadata", p)
	if f.err != nil {
		return nil, f.err
	}
	return f.metadata, nil
}

func (f *fakeProvider) SetFileMetadata(_ context.Context, p Path, _ map[string]string) error {
	f.record("SetFileMetadata", p)
	return f.err
}

func (f *fakeProvider) HasAccess(_ context.Context, p Path, _ Permission) (bool, error) {
	f.record("HasAccess", p)
	if f.err != nil {
		return false, f.err
	}
	return true, nil
}

func (f *fakeProvider) DoesFolderExist(_ context.Context, p Path) (bool, error) {
	f.record("DoesFolderExist", p)
	if f.err != nil {
		return false, f.err
	}
	return true, nil
}

func (f *fakeProvider) ClearTreeCache() {
	f.record("ClearTreeCache")
}

var _ Provider = (*fakeProvider)(nil)
