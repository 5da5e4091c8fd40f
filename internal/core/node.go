package core

import (
	"maps"
	"slices"
	"time"

	"github.com/linefs/linefs/api"
)

// Node is an immutable snapshot of one filesystem entry. Mutations never
// modify a published record; they build a successor (version bumped by one)
// and install it with a compare-and-set, which is what makes every operation
// a single atomic read-modify-write against the key space.
type Node struct {
	path     string
	parent   string // canonical parent path; "" for the root
	typ      api.NodeType
	version  uint64
	children map[string]struct{} // directories only; copy-on-write
	content  *LineContent        // files only
	target   string              // symlinks only
	created  time.Time
	modified time.Time
}

func newDirNode(path, parent string) *Node {
	now := time.Now()
	return &Node{
		path:     path,
		parent:   parent,
		typ:      api.TypeDir,
		version:  1,
		created:  now,
		modified: now,
	}
}

func newFileNode(path, parent string, content *LineContent) *Node {
	now := time.Now()
	return &Node{
		path:     path,
		parent:   parent,
		typ:      api.TypeFile,
		version:  1,
		content:  content,
		created:  now,
		modified: now,
	}
}

func newSymlinkNode(path, parent, target string) *Node {
	now := time.Now()
	return &Node{
		path:     path,
		parent:   parent,
		typ:      api.TypeSymlink,
		version:  1,
		target:   target,
		created:  now,
		modified: now,
	}
}

// Path returns the node's canonical path.
func (n *Node) Path() string { return n.path }

// Type returns the node's variant tag.
func (n *Node) Type() api.NodeType { return n.typ }

// Version returns the per-node mutation counter.
func (n *Node) Version() uint64 { return n.version }

// Target returns the symlink target (empty for other types).
func (n *Node) Target() string { return n.target }

// Content returns the file body (nil for other types).
func (n *Node) Content() *LineContent { return n.content }

// Modified returns the last mutation time of the node or its content.
func (n *Node) Modified() time.Time { return n.modified }

// NumChildren returns the child count of a directory node.
func (n *Node) NumChildren() int { return len(n.children) }

// ChildNames returns the directory's child names in sorted order, regardless
// of storage order.
func (n *Node) ChildNames() []string {
	if len(n.children) == 0 {
		return nil
	}
	return slices.Sorted(maps.Keys(n.children))
}

// clone copies the record with the version bumped and modification time
// refreshed. The child set is shared; callers that change it must replace it.
func (n *Node) clone() *Node {
	next := *n
	next.version++
	next.modified = time.Now()
	return &next
}

// withContent returns a successor record carrying the new file body.
func (n *Node) withContent(c *LineContent) *Node {
	next := n.clone()
	next.content = c
	return next
}

// withChildAdded returns a successor directory record including name.
func (n *Node) withChildAdded(name string) *Node {
	next := n.clone()
	next.children = make(map[string]struct{}, len(n.children)+1)
	maps.Copy(next.children, n.children)
	next.children[name] = struct{}{}
	return next
}

// withChildRemoved returns a successor directory record without name.
func (n *Node) withChildRemoved(name string) *Node {
	next := n.clone()
	next.children = make(map[string]struct{}, len(n.children))
	maps.Copy(next.children, n.children)
	delete(next.children, name)
	return next
}
