package mocks

import (
	"io/fs"
	"time"
)

// FileInfo is a static os.FileInfo for feeding MockFS expectations
type FileInfo struct {
	FileName string
	Dir      bool
}

func (f FileInfo) Name() string { return f.FileName }
func (f FileInfo) Size() int64  { return 0 }
func (f FileInfo) Mode() fs.FileMode {
	if f.Dir {
		return fs.ModeDir | 0o755
	}
	return 0o644
}
func (f FileInfo) ModTime() time.Time { return time.Time{} }
func (f FileInfo) IsDir() bool        { return f.Dir }
func (f FileInfo) Sys() any           { return nil }
