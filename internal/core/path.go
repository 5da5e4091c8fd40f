package core

import (
	"strings"

	"github.com/linefs/linefs/api"
)

// RootPath is the canonical path of every volume's root directory.
const RootPath = "/"

// NormalizePath canonicalizes raw into an absolute, slash-separated,
// dot-free path: repeated separators collapse, "." segments drop, ".."
// segments resolve within the tree, and any trailing slash is stripped
// (except for the root itself).
//
// Fails with an invalid-path error when raw is empty, not slash-rooted, or
// escapes the root via "..". Pure function, no side effects.
func NormalizePath(raw string) (string, error) {
	if raw == "" {
		return "", api.Errf(api.KindInvalidPath, raw, "empty path")
	}
	if raw[0] != '/' {
		return "", api.Errf(api.KindInvalidPath, raw, "path must be absolute")
	}

	segs := make([]string, 0, 8)
	for seg := range strings.SplitSeq(raw, "/") {
		switch seg {
		case "", ".":
			// collapsed separator or no-op segment
		case "..":
			if len(segs) == 0 {
				return "", api.Errf(api.KindInvalidPath, raw, "path escapes the root")
			}
			segs = segs[:len(segs)-1]
		default:
			segs = append(segs, seg)
		}
	}

	if len(segs) == 0 {
		return RootPath, nil
	}
	return "/" + strings.Join(segs, "/"), nil
}

// ParentPath returns the canonical parent of a canonical path.
// The root has no parent and returns "".
func ParentPath(p string) string {
	if p == RootPath {
		return ""
	}
	idx := strings.LastIndexByte(p, '/')
	if idx == 0 {
		return RootPath
	}
	return p[:idx]
}

// BaseName returns the final segment of a canonical path ("/" for the root).
func BaseName(p string) string {
	if p == RootPath {
		return RootPath
	}
	return p[strings.LastIndexByte(p, '/')+1:]
}

// JoinChild appends a child name to a canonical directory path.
func JoinChild(dir, name string) string {
	if dir == RootPath {
		return RootPath + name
	}
	return dir + "/" + name
}

// Ancestors returns every proper ancestor of a canonical path in
// root-to-leaf order, excluding the root itself. Returns nil for the root
// and for direct children of the root.
func Ancestors(p string) []string {
	if p == RootPath {
		return nil
	}
	var out []string
	for i := 1; i < len(p); i++ {
		if p[i] == '/' {
			out = append(out, p[:i])
		}
	}
	return out
}

// RelativeTo returns p relative to the directory root ("" when equal).
// Assumes p is root itself or a descendant of it.
func RelativeTo(p, root string) string {
	if p == root {
		return ""
	}
	if root == RootPath {
		return p[1:]
	}
	return strings.TrimPrefix(p, root+"/")
}
