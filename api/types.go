package api

import "fmt"

// NodeType tags the variant of a node record.
type NodeType uint8

const (
	TypeFile NodeType = iota + 1
	TypeDir
	TypeSymlink
)

func (t NodeType) String() string {
	switch t {
	case TypeFile:
		return "file"
	case TypeDir:
		return "dir"
	case TypeSymlink:
		return "link"
	default:
		return "unknown"
	}
}

// ParseNodeType maps the external type filter strings ("file", "dir",
// "link") to a NodeType. Returns false for anything else.
func ParseNodeType(s string) (NodeType, bool) {
	switch s {
	case "file":
		return TypeFile, true
	case "dir":
		return TypeDir, true
	case "link":
		return TypeSymlink, true
	default:
		return 0, false
	}
}

// GrepMatch is one matching line from a content search. Line is 1-indexed.
type GrepMatch struct {
	Path string
	Line int
	Text string
}

// String renders the conventional path:line:text record.
func (m GrepMatch) String() string {
	return fmt.Sprintf("%s:%d:%s", m.Path, m.Line, m.Text)
}

// Stats aggregates usage for one volume. Dirs includes the root directory;
// Nodes is the total record count (Files + Dirs + Symlinks).
type Stats struct {
	Key        string
	InstanceID string
	Files      int
	Dirs       int
	Symlinks   int
	Nodes      int
	Bytes      int64
}

// String renders the stats as key/value lines for text surfaces.
func (s Stats) String() string {
	return fmt.Sprintf(
		"key: %s\ninstance: %s\nfiles: %d\ndirs: %d\nlinks: %d\nnodes: %d\nbytes: %d",
		s.Key, s.InstanceID, s.Files, s.Dirs, s.Symlinks, s.Nodes, s.Bytes,
	)
}
