package vfs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNopDecoratorToleratesNil(t *testing.T) {
	d := NopDecorator{}
	ctx := context.Background()

	require.NoError(t, d.DecorateFileMetadata(ctx, Path{}, nil, nil))
	require.NoError(t, d.DecorateFile(ctx, nil, GetFileOptions{}, nil))
	require.NoError(t, d.DecorateTree(ctx, nil, GetTreeOptions{}, nil))
}

func TestCompositeRequiresChildren(t *testing.T) {
	_, err := NewCompositeDecorator()
	require.Error(t, err)

	c, err := NewCompositeDecorator(NopDecorator{})
	require.NoError(t, err)
	require.NotNil(t, c)
}

func TestCompositeIsolatesFailingChild(t *testing.T) {
	failing := &BaseDecorator{
		FileHook: func(context.Context, *File, FileService) error {
			return errors.New("broken decorator")
		},
	}
	succeeding := &BaseDecorator{
		FileHook: func(_ context.Context, f *File, _ FileService) error {
			f.Owner = "second decorator ran"
			return nil
		},
	}
	composite, err := NewCompositeDecorator(failing, succeeding)
	require.NoError(t, err)

	f := &File{Name: "doc.txt", Path: MustParse("/repo/doc.txt"), Type: TypeFile}
	require.NoError(t, composite.DecorateFile(context.Background(), f, GetFileOptions{}, nil))
	assert.Equal(t, "second decorator ran", f.Owner, "one decorator's failure must not block another's")
}

func TestCompositeIsolatesPanickingChild(t *testing.T) {
	panicking := &BaseDecorator{
		FileHook: func(context.Context, *File, FileService) error {
			panic("decorator bug")
		},
	}
	var ran bool
	succeeding := &BaseDecorator{
		FileHook: func(context.Context, *File, FileService) error {
			ran = true
			return nil
		},
	}
	composite, err := NewCompositeDecorator(panicking, succeeding)
	require.NoError(t, err)

	f := &File{Name: "doc.txt", Path: MustParse("/repo/doc.txt")}
	require.NoError(t, composite.DecorateFile(context.Background(), f, GetFileOptions{}, nil))
	assert.True(t, ran)
}

func TestCompositeRunsChildrenInRegistrationOrder(t *testing.T) {
	var order []string
	mk := func(name string) Decorator {
		return &BaseDecorator{
			FileHook: func(context.Context, *File, FileService) error {
				order = append(order, name)
				return nil
			},
		}
	}
	composite, err := NewCompositeDecorator(mk("first"), mk("second"), mk("third"))
	require.NoError(t, err)

	f := &File{Name: "doc.txt", Path: MustParse("/repo/doc.txt")}
	require.NoError(t, composite.DecorateFile(context.Background(), f, GetFileOptions{}, nil))
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestBaseDecorateFileRunsMetadataHookOnlyWhenRequested(t *testing.T) {
	var metadataRuns int
	d := &BaseDecorator{
		MetadataHook: func(_ context.Context, _ Path, md map[string]string, _ FileService) error {
			metadataRuns++
			md["enriched"] = "yes"
			return nil
		},
	}
	ctx := context.Background()

	plain := &File{Name: "doc.txt", Path: MustParse("/repo/doc.txt")}
	require.NoError(t, d.DecorateFile(ctx, plain, GetFileOptions{}, nil))
	assert.Zero(t, metadataRuns, "metadata hook must not run unless requested")

	withMD := &File{
		Name:     "doc.txt",
		Path:     MustParse("/repo/doc.txt"),
		Metadata: map[string]string{},
	}
	require.NoError(t, d.DecorateFile(ctx, withMD, GetFileOptions{IncludeMetadata: true}, nil))
	assert.Equal(t, 1, metadataRuns)
	assert.Equal(t, "yes", withMD.Metadata["enriched"])
}

func TestBaseDecorateTreePreOrder(t *testing.T) {
	var visited []string
	d := &BaseDecorator{
		FileHook: func(_ context.Context, f *File, _ FileService) error {
			visited = append(visited, f.Name)
			return nil
		},
	}

	require.NoError(t, d.DecorateTree(context.Background(), testTree(), GetTreeOptions{}, nil))
	assert.Equal(t, []string{"repo", "a.txt", "dir", "b.txt"}, visited)
}

func TestBaseDecorateTreeNodeErrorAbortsTraversal(t *testing.T) {
	boom := errors.New("node decoration failed")
	var visited []string
	d := &BaseDecorator{
		FileHook: func(_ context.Context, f *File, _ FileService) error {
			visited = append(visited, f.Name)
			if f.Name == "dir" {
				return boom
			}
			return nil
		},
	}

	err := d.DecorateTree(context.Background(), testTree(), GetTreeOptions{}, nil)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"repo", "a.txt", "dir"}, visited,
		"remaining children must be abandoned once a node fails")
}
