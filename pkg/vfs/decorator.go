package vfs

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/fedfs/fedfs/internal/logging"
	"github.com/fedfs/fedfs/internal/metrics"
)

// Decorator enriches already-produced results in place after a successful
// retrieval. Decorators may consult the FileService they are handed to
// fetch auxiliary data, but they are best-effort: the federation layer
// catches and logs anything a decorator returns or panics with, and the
// primary operation still succeeds. Decorated values are always freshly
// built, never cached or shared instances.
type Decorator interface {
	DecorateFileMetadata(ctx context.Context, p Path, metadata map[string]string, svc FileService) error
	DecorateFile(ctx context.Context, f *File, opts GetFileOptions, svc FileService) error
	DecorateTree(ctx context.Context, t *Tree, opts GetTreeOptions, svc FileService) error
}

// NopDecorator does nothing. It tolerates nil arguments and is the default
// when no enrichment is configured.
type NopDecorator struct{}

func (NopDecorator) DecorateFileMetadata(context.Context, Path, map[string]string, FileService) error {
	return nil
}

func (NopDecorator) DecorateFile(context.Context, *File, GetFileOptions, FileService) error {
	return nil
}

func (NopDecorator) DecorateTree(context.Context, *Tree, GetTreeOptions, FileService) error {
	return nil
}

// CompositeDecorator fans every hook out to its children in registration
// order. A failing child is caught and logged, and the remaining children
// still run; one decorator's failure never blocks another's.
type CompositeDecorator struct {
	children []Decorator
}

// NewCompositeDecorator builds a composite over one or more children.
func NewCompositeDecorator(children ...Decorator) (*CompositeDecorator, error) {
	if len(children) == 0 {
		return nil, errors.New("composite decorator requires at least one child")
	}
	return &CompositeDecorator{children: append([]Decorator(nil), children...)}, nil
}

func (c *CompositeDecorator) DecorateFileMetadata(ctx context.Context, p Path, metadata map[string]string, svc FileService) error {
	for _, child := range c.children {
		invokeDecorator("file_metadata", func() error {
			return child.DecorateFileMetadata(ctx, p, metadata, svc)
		})
	}
	return nil
}

func (c *CompositeDecorator) DecorateFile(ctx context.Context, f *File, opts GetFileOptions, svc FileService) error {
	for _, child := range c.children {
		invokeDecorator("file", func() error {
			return child.DecorateFile(ctx, f, opts, svc)
		})
	}
	return nil
}

func (c *CompositeDecorator) DecorateTree(ctx context.Context, t *Tree, opts GetTreeOptions, svc FileService) error {
	for _, child := range c.children {
		invokeDecorator("tree", func() error {
			return child.DecorateTree(ctx, t, opts, svc)
		})
	}
	return nil
}

// invokeDecorator runs one decorator hook, containing errors and panics so
// sibling decorators and the primary operation are unaffected.
func invokeDecorator(hook string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			metrics.DecoratorFailure(hook)
			logging.Error("decorator panicked",
				zap.String("hook", hook),
				zap.Any("panic", r))
		}
	}()
	if err := fn(); err != nil {
		metrics.DecoratorFailure(hook)
		logging.Error("decorator failed",
			zap.String("hook", hook),
			zap.Error(err))
	}
}

// BaseDecorator is the extensible building block for custom decorators.
// Behavior is attached through the hook fields; unset hooks are no-ops.
//
// DecorateFile runs FileHook first and then, only when the retrieval
// options asked for metadata, runs MetadataHook against the file's own
// metadata map. DecorateTree decorates nodes in pre-order; if a node's
// decoration fails, the remaining children of that node are abandoned and
// the error propagates out of DecorateTree. That is deliberate: fault
// isolation across decorators belongs to CompositeDecorator, not to the
// traversal within a single decorator.
type BaseDecorator struct {
	FileHook     func(ctx context.Context, f *File, svc FileService) error
	MetadataHook func(ctx context.Context, p Path, metadata map[string]string, svc FileService) error
}

func (b *BaseDecorator) DecorateFileMetadata(ctx context.Context, p Path, metadata map[string]string, svc FileService) error {
	if b.MetadataHook == nil || metadata == nil {
		return nil
	}
	return b.MetadataHook(ctx, p, metadata, svc)
}

func (b *BaseDecorator) DecorateFile(ctx context.Context, f *File, opts GetFileOptions, svc FileService) error {
	if f == nil {
		return nil
	}
	if b.FileHook != nil {
		if err := b.FileHook(ctx, f, svc); err != nil {
			return err
		}
	}
	if opts.IncludeMetadata {
		if err := b.DecorateFileMetadata(ctx, f.Path, f.Metadata, svc); err != nil {
			return fmt.Errorf("decorate metadata of %s: %w", f.Path, err)
		}
	}
	return nil
}

func (b *BaseDecorator) DecorateTree(ctx context.Context, t *Tree, opts GetTreeOptions, svc FileService) error {
	return Walk(t, func(node *Tree) error {
		return b.DecorateFile(ctx, node.File, GetFileOptions{IncludeMetadata: opts.IncludeMetadata}, svc)
	})
}
