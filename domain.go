package searchdir

import "io/fs"

// EntryKind classifies a directory entry
type EntryKind uint8

const (
	KindOther EntryKind = iota
	KindFile
	KindDirectory
	KindSymlink
)

func (k EntryKind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDirectory:
		return "directory"
	case KindSymlink:
		return "symlink"
	}
	return "other"
}

// kindOf maps file mode type bits onto an EntryKind
func kindOf(mode fs.FileMode) EntryKind {
	switch {
	case mode&fs.ModeSymlink != 0:
		return KindSymlink
	case mode.IsDir():
		return KindDirectory
	case mode.IsRegular():
		return KindFile
	}
	return KindOther
}

// DirectoryEntry is one child yielded while listing a directory
type DirectoryEntry struct {
	Name string
	Path string
	Kind EntryKind
}

// SearchResult is the outcome delivered by FindItemAsync
type SearchResult struct {
	Path string
	Err  error
}

// request is one search query rooted at dir. Branches copy it with a new
// directory; name and itemType never change.
type request struct {
	root     string
	dir      string
	name     string
	itemType ItemType
	depth    int

	// resolved path of dir and of every directory above it, tracked only
	// while following symlinks
	real      string
	ancestors []string
}

func (r request) in(dir string) request {
	r.dir = dir
	r.depth++
	return r
}

// via is in for a branch whose resolved location is known
func (r request) via(dir, resolved string) request {
	r.ancestors = append(r.ancestors[:len(r.ancestors):len(r.ancestors)], r.real)
	r.real = resolved
	return r.in(dir)
}

// visited reports whether resolved is dir itself or one of its ancestors
func (r request) visited(resolved string) bool {
	if resolved == r.real {
		return true
	}
	for _, ancestor := range r.ancestors {
		if ancestor == resolved {
			return true
		}
	}
	return false
}
