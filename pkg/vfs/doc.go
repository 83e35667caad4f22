// Package vfs federates independent storage backends into one hierarchical,
// path-addressable virtual file system.
//
// Callers see a single tree, a single path syntax and a single error
// taxonomy; the actual storage work is delegated to whichever Provider owns
// a given path. Ownership is decided purely from a path's first segment
// (tree-backed stores) or scheme (connection-backed stores), with at most
// one provider owning any path in a well-formed registry.
//
// The GenericFileService is the entry point:
//
//	docs, _ := memory.New(memory.Config{Root: "docs"})
//	archive, _ := memory.New(memory.Config{Root: "archive", ReadOnly: true})
//
//	svc, err := vfs.NewGenericFileService([]vfs.Provider{docs, archive})
//	if err != nil {
//		// no providers registered
//	}
//
//	p, _ := vfs.Parse("/docs/reports/q3.csv")
//	f, err := svc.GetFile(ctx, p, vfs.GetFileOptions{IncludeMetadata: true})
//
// Batch operations (DeleteFiles, CopyFiles, ...) process each path
// independently and report partial failure through a single *BatchError
// keyed by path, rather than aborting on the first error. There is no
// cross-provider transactionality.
//
// Retrieval results can be enriched through the Decorator pipeline,
// configured at construction with WithDecorator. Decoration is best-effort:
// a failing decorator is logged and the primary operation still succeeds.
package vfs
