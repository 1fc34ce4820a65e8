package dirindex

import "os"

// FS is the read-only filesystem collaborator used to inspect physical paths.
// Paths are physical (already joined with the configured root).
//
// billy.Filesystem implementations satisfy this interface.
type FS interface {
	// Stat returns metadata for name, following symlinks
	Stat(name string) (os.FileInfo, error)

	// ReadDir enumerates the entries of the directory at path in no particular order
	ReadDir(path string) ([]os.FileInfo, error)
}
