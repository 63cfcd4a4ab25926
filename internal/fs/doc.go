// Package fs abstracts the file system operations used by the local blob
// store so tests can inject write, sync and close failures.
//
// Production code uses [Default] ([LocalFS]); tests wrap it in [FaultyFS]:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule(".tmp", fs.Fault{FailOnSync: true})
//	store := blobstore.NewLocalStore(dir, blobstore.WithFileSystem(ffs))
package fs
