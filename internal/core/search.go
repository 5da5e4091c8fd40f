package core

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/linefs/linefs/api"
)

// Ls lists the immediate children of the directory at path as name strings
// in sorted order — never descendants.
func (v *Volume) Ls(path string) ([]string, error) {
	p, err := NormalizePath(path)
	if err != nil {
		return nil, err
	}
	n, ok := v.store.get(p)
	if !ok {
		return nil, api.Errf(api.KindNotFound, p, "no such directory")
	}
	if n.typ != api.TypeDir {
		return nil, api.Errf(api.KindNotADirectory, p, "not a directory (%s)", n.typ)
	}
	return v.liveChildren(n), nil
}

// Find recursively descends from path and returns the canonical paths of
// descendants whose name (or, with opts.FullPath, path relative to the
// search root) matches the glob pattern. Results come back in deterministic
// lexicographic depth-first order.
func (v *Volume) Find(path, pattern string, opts api.FindOptions) ([]string, error) {
	p, root, err := v.searchRoot(path, pattern)
	if err != nil {
		return nil, err
	}

	var out []string
	v.walk(root, func(n *Node) {
		if n.path == p {
			return // match descendants, not the search root itself
		}
		if opts.Type != 0 && n.typ != opts.Type {
			return
		}
		subject := BaseName(n.path)
		if opts.FullPath {
			subject = RelativeTo(n.path, p)
		}
		if matched, _ := doublestar.Match(pattern, subject); matched {
			out = append(out, n.path)
		}
	})
	return out, nil
}

// Grep recursively visits files under path and returns every line whose
// whole text matches the glob pattern. Lines are flat text rather than
// paths, so * and ? match any character including '/'. opts.NoCase folds
// both pattern and content to lower case. Results are ordered by file
// path, then ascending line number.
func (v *Volume) Grep(path, pattern string, opts api.GrepOptions) ([]api.GrepMatch, error) {
	_, root, err := v.searchRoot(path, pattern)
	if err != nil {
		return nil, err
	}

	pat := pattern
	if opts.NoCase {
		pat = strings.ToLower(pat)
	}

	var out []api.GrepMatch
	v.walk(root, func(n *Node) {
		if n.typ != api.TypeFile {
			return
		}
		fileMatches := 0
		for i, line := range n.content.Lines() {
			subject := line
			if opts.NoCase {
				subject = strings.ToLower(line)
			}
			if !globLine(pat, subject) {
				continue
			}
			out = append(out, api.GrepMatch{Path: n.path, Line: i + 1, Text: line})
			fileMatches++
			if v.cfg.MaxGrepMatches > 0 && fileMatches >= v.cfg.MaxGrepMatches {
				break
			}
		}
	})
	return out, nil
}

// Stats walks the live tree and aggregates per-volume usage. The walk
// observes a consistent record per node visited, so counts always reflect
// some recent state of the tree — never stale caches.
func (v *Volume) Stats() api.Stats {
	st := api.Stats{Key: v.key, InstanceID: v.instanceID}
	root, ok := v.store.get(RootPath)
	if !ok {
		return st
	}
	v.walk(root, func(n *Node) {
		st.Nodes++
		switch n.typ {
		case api.TypeFile:
			st.Files++
			st.Bytes += n.content.Size()
		case api.TypeDir:
			st.Dirs++
		case api.TypeSymlink:
			st.Symlinks++
		}
	})
	return st
}

// globLine matches the whole line against the glob pattern. Both sides trade
// the path separator for a byte that never appears in text first, so
// wildcards cross '/' like any other character.
func globLine(pattern, line string) bool {
	matched, _ := doublestar.Match(flattenSeps(pattern), flattenSeps(line))
	return matched
}

func flattenSeps(s string) string {
	return strings.ReplaceAll(s, "/", "\x00")
}

// searchRoot validates the pattern and resolves the node the search starts
// from.
func (v *Volume) searchRoot(path, pattern string) (string, *Node, error) {
	p, err := NormalizePath(path)
	if err != nil {
		return "", nil, err
	}
	if !doublestar.ValidatePattern(pattern) {
		return "", nil, api.Errf(api.KindInvalidPattern, p, "malformed glob %q", pattern)
	}
	root, ok := v.store.get(p)
	if !ok {
		return "", nil, api.Errf(api.KindNotFound, p, "no such node")
	}
	return p, root, nil
}

// walk visits n and its descendants depth-first, children in sorted name
// order, which yields lexicographic path order for canonical paths. The
// traversal tolerates concurrent structural changes: it re-resolves each
// child from the store and skips ones that vanished.
func (v *Volume) walk(n *Node, visit func(*Node)) {
	visit(n)
	if n.typ != api.TypeDir {
		return
	}
	for _, name := range n.ChildNames() {
		if child, ok := v.store.get(JoinChild(n.path, name)); ok {
			v.walk(child, visit)
		}
	}
}
