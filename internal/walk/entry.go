package walk

import (
	"io/fs"
	"time"
)

// FileType classifies a filesystem object.
type FileType int

const (
	TypeFile FileType = iota
	TypeDir
	TypeSymlink
	TypeOther
)

func (t FileType) String() string {
	switch t {
	case TypeFile:
		return "file"
	case TypeDir:
		return "directory"
	case TypeSymlink:
		return "symlink"
	default:
		return "other"
	}
}

func typeOf(mode fs.FileMode) FileType {
	switch {
	case mode.IsRegular():
		return TypeFile
	case mode.IsDir():
		return TypeDir
	case mode&fs.ModeSymlink != 0:
		return TypeSymlink
	default:
		return TypeOther
	}
}

// Entry is a single filesystem object discovered during a walk. Entries are
// built by the walk worker and never modified afterwards.
type Entry struct {
	// Path is the entry's location relative to the walk root.
	Path RelPath
	// Type is the object's file type (of the link target when symlinks
	// are followed, of the link itself otherwise).
	Type FileType
	// Size is the byte length; only meaningful for regular files.
	Size int64
	// ModTime is the modification time. The zero value means the
	// filesystem did not report one.
	ModTime time.Time
	// CreateTime is the creation time on platforms that record one,
	// and the zero value everywhere else.
	CreateTime time.Time
}

// IsDir reports whether the entry is a directory.
func (e *Entry) IsDir() bool { return e.Type == TypeDir }

// IsFile reports whether the entry is a regular file.
func (e *Entry) IsFile() bool { return e.Type == TypeFile }

func newEntry(path RelPath, info fs.FileInfo) *Entry {
	return &Entry{
		Path:       path,
		Type:       typeOf(info.Mode()),
		Size:       info.Size(),
		ModTime:    info.ModTime(),
		CreateTime: createTime(info),
	}
}
