package core

import (
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/linefs/linefs/api"
	"github.com/linefs/linefs/config"
	"github.com/linefs/linefs/internal/util"
)

// Volume is one isolated namespace: a root directory plus every node beneath
// it, keyed by canonical path in a flat key space. Volumes never share nodes.
//
// Every mutating operation is a single read-compute-CAS transaction retried
// up to Config.MaxRetries times, which makes same-path operations
// linearizable without holding locks across the read-modify-write span.
type Volume struct {
	key        string
	instanceID string
	cfg        *config.Config
	store      *store
	log        zerolog.Logger
}

func newVolume(key string, cfg *config.Config) *Volume {
	return &Volume{
		key:        key,
		instanceID: uuid.NewString(),
		cfg:        cfg,
		store:      newStore(),
		log:        util.GetLogger("volume").With().Str("volume", key).Logger(),
	}
}

// Key returns the opaque volume key this namespace was resolved with.
func (v *Volume) Key() string { return v.key }

// InstanceID returns the uuid assigned when the volume was provisioned.
func (v *Volume) InstanceID() string { return v.instanceID }

// errRetry signals a lost CAS race; the operation re-reads and recomputes.
var errRetry = errors.New("cas race lost")

// casRetry runs op until it succeeds, fails terminally, or the retry budget
// is spent, at which point the caller sees a version-conflict error.
func (v *Volume) casRetry(path string, op func() error) error {
	for i := 0; i <= v.cfg.MaxRetries; i++ {
		err := op()
		if !errors.Is(err, errRetry) {
			return err
		}
	}
	v.log.Warn().Str("path", path).Int("retries", v.cfg.MaxRetries).Msg("CAS retry budget exhausted")
	return api.Errf(api.KindVersionConflict, path,
		"lost the version race %d times", v.cfg.MaxRetries)
}

/* Reads */

// Read returns the full text of the file at path.
// Missing files are an error, never silently empty.
func (v *Volume) Read(path string) (string, error) {
	n, err := v.fileNode(path)
	if err != nil {
		return "", err
	}
	return n.content.Text(), nil
}

// Lines returns the text of the 1-indexed inclusive line range [start, end];
// end == -1 means through end of file.
func (v *Volume) Lines(path string, start, end int) (string, error) {
	n, err := v.fileNode(path)
	if err != nil {
		return "", err
	}
	text, err := n.content.Range(start, end)
	if err != nil {
		return "", withPath(err, n.path)
	}
	return text, nil
}

// Readlink returns the stored target of the symlink at path. Targets are
// never resolved.
func (v *Volume) Readlink(path string) (string, error) {
	p, err := NormalizePath(path)
	if err != nil {
		return "", err
	}
	n, ok := v.store.get(p)
	if !ok {
		return "", api.Errf(api.KindNotFound, p, "no such node")
	}
	if n.typ != api.TypeSymlink {
		return "", api.Errf(api.KindPathConflict, p, "not a symlink (%s)", n.typ)
	}
	return n.target, nil
}

/* Mutations */

// Write creates or overwrites the file at path, replacing its entire
// content. Missing ancestor directories are created implicitly (unlike
// Mkdir, which requires parents=true).
func (v *Volume) Write(path, content string) error {
	p, err := NormalizePath(path)
	if err != nil {
		return err
	}
	if p == RootPath {
		return api.Errf(api.KindPathConflict, p, "cannot write to the root directory")
	}
	return v.casRetry(p, func() error {
		cur, ok := v.store.get(p)
		if ok {
			if cur.typ != api.TypeFile {
				return api.Errf(api.KindPathConflict, p, "existing %s in the way", cur.typ)
			}
			if !v.store.compareAndPut(cur, cur.withContent(newLineContent(content))) {
				return errRetry
			}
			return nil
		}
		if err := v.ensureDirs(ParentPath(p)); err != nil {
			return err
		}
		return v.createChild(newFileNode(p, ParentPath(p), newLineContent(content)))
	})
}

// Append appends lines derived from content to the end of an existing file.
func (v *Volume) Append(path, content string) error {
	p, err := NormalizePath(path)
	if err != nil {
		return err
	}
	return v.casRetry(p, func() error {
		cur, err := v.currentFile(p)
		if err != nil {
			return err
		}
		if !v.store.compareAndPut(cur, cur.withContent(cur.content.Append(content))) {
			return errRetry
		}
		return nil
	})
}

// Replace substitutes literal occurrences of old with new in the file at
// path, optionally constrained by opts, and returns the replacement count.
// Zero replacements is a success, not an error.
func (v *Volume) Replace(path, old, new string, opts api.ReplaceOptions) (int, error) {
	p, err := NormalizePath(path)
	if err != nil {
		return 0, err
	}
	count := 0
	err = v.casRetry(p, func() error {
		cur, err := v.currentFile(p)
		if err != nil {
			return err
		}
		next, n := cur.content.Replace(old, new, opts)
		count = n
		if n == 0 {
			return nil // nothing to write
		}
		if !v.store.compareAndPut(cur, cur.withContent(next)) {
			return errRetry
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Insert inserts content (possibly multi-line, as one contiguous block)
// after the given 1-indexed line; 0 prepends, -1 appends.
func (v *Volume) Insert(path string, line int, content string) error {
	p, err := NormalizePath(path)
	if err != nil {
		return err
	}
	return v.casRetry(p, func() error {
		cur, err := v.currentFile(p)
		if err != nil {
			return err
		}
		next, err := cur.content.InsertAfter(line, content)
		if err != nil {
			return withPath(err, p)
		}
		if !v.store.compareAndPut(cur, cur.withContent(next)) {
			return errRetry
		}
		return nil
	})
}

// DeleteLines removes the 1-indexed inclusive line range [start, end] and
// returns the count of lines removed.
func (v *Volume) DeleteLines(path string, start, end int) (int, error) {
	p, err := NormalizePath(path)
	if err != nil {
		return 0, err
	}
	count := 0
	err = v.casRetry(p, func() error {
		cur, err := v.currentFile(p)
		if err != nil {
			return err
		}
		next, n, err := cur.content.DeleteRange(start, end)
		if err != nil {
			return withPath(err, p)
		}
		if !v.store.compareAndPut(cur, cur.withContent(next)) {
			return errRetry
		}
		count = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Mkdir creates a directory at path. Without parents every ancestor must
// already exist; with parents missing ancestors are created and an existing
// directory at path is a no-op.
func (v *Volume) Mkdir(path string, parents bool) error {
	p, err := NormalizePath(path)
	if err != nil {
		return err
	}
	if p == RootPath {
		if parents {
			return nil
		}
		return api.Errf(api.KindPathConflict, p, "root directory always exists")
	}
	return v.casRetry(p, func() error {
		if cur, ok := v.store.get(p); ok {
			if parents && cur.typ == api.TypeDir {
				return nil
			}
			return api.Errf(api.KindPathConflict, p, "%s already exists", cur.typ)
		}
		parentPath := ParentPath(p)
		if parents {
			if err := v.ensureDirs(parentPath); err != nil {
				return err
			}
		} else if err := v.requireDir(parentPath); err != nil {
			return err
		}
		return v.createChild(newDirNode(p, parentPath))
	})
}

// Symlink creates a symbolic link at path holding target as an opaque path
// string. The parent directory must already exist.
func (v *Volume) Symlink(path, target string) error {
	p, err := NormalizePath(path)
	if err != nil {
		return err
	}
	if p == RootPath {
		return api.Errf(api.KindPathConflict, p, "cannot replace the root directory")
	}
	return v.casRetry(p, func() error {
		if cur, ok := v.store.get(p); ok {
			return api.Errf(api.KindPathConflict, p, "%s already exists", cur.typ)
		}
		parentPath := ParentPath(p)
		if err := v.requireDir(parentPath); err != nil {
			return err
		}
		return v.createChild(newSymlinkNode(p, parentPath, target))
	})
}

// Rm removes the node at path. Populated directories require recursive,
// which tears down the whole subtree bottom-up. The root is never removable.
func (v *Volume) Rm(path string, recursive bool) error {
	p, err := NormalizePath(path)
	if err != nil {
		return err
	}
	if p == RootPath {
		return api.Errf(api.KindInvalidPath, p, "cannot remove the root directory")
	}
	return v.casRetry(p, func() error {
		cur, ok := v.store.get(p)
		if !ok {
			return api.Errf(api.KindNotFound, p, "no such node")
		}
		if cur.typ == api.TypeDir {
			if live := v.liveChildren(cur); len(live) > 0 {
				if !recursive {
					return api.Errf(api.KindNotEmpty, p, "directory has %d entries", len(live))
				}
				v.removeSubtree(cur)
			}
		}
		if !v.store.compareAndDelete(cur) {
			return errRetry
		}
		v.unlinkFromParent(cur)
		return nil
	})
}

/* Internal helpers */

// fileNode normalizes path and resolves it to an existing file record.
func (v *Volume) fileNode(path string) (*Node, error) {
	p, err := NormalizePath(path)
	if err != nil {
		return nil, err
	}
	return v.currentFile(p)
}

// currentFile resolves an already-canonical path to an existing file record.
func (v *Volume) currentFile(p string) (*Node, error) {
	n, ok := v.store.get(p)
	if !ok {
		return nil, api.Errf(api.KindNotFound, p, "no such file")
	}
	if n.typ != api.TypeFile {
		return nil, api.Errf(api.KindNotAFile, p, "not a regular file (%s)", n.typ)
	}
	return n, nil
}

// requireDir fails unless an existing directory sits at the canonical path p.
func (v *Volume) requireDir(p string) error {
	n, ok := v.store.get(p)
	if !ok {
		return api.Errf(api.KindNotFound, p, "parent directory does not exist")
	}
	if n.typ != api.TypeDir {
		return api.Errf(api.KindPathConflict, p, "ancestor exists as %s", n.typ)
	}
	return nil
}

// ensureDirs creates every missing directory from the root down to dir,
// failing if any existing ancestor is not a directory.
func (v *Volume) ensureDirs(dir string) error {
	if dir == "" || dir == RootPath {
		return nil
	}
	for _, p := range append(Ancestors(dir), dir) {
		cur, ok := v.store.get(p)
		if ok {
			if cur.typ != api.TypeDir {
				return api.Errf(api.KindPathConflict, p, "ancestor exists as %s", cur.typ)
			}
			continue
		}
		if err := v.createChild(newDirNode(p, ParentPath(p))); err != nil {
			return err
		}
	}
	return nil
}

// createChild installs rec into the key space and links its name into the
// parent's child set. The two steps use independent CAS writes; losing
// either race retries the whole enclosing operation.
func (v *Volume) createChild(rec *Node) error {
	parent, ok := v.store.get(rec.parent)
	if !ok {
		return errRetry // parent vanished since validation; recompute
	}
	if parent.typ != api.TypeDir {
		return api.Errf(api.KindPathConflict, rec.parent, "ancestor exists as %s", parent.typ)
	}
	if !v.store.putIfAbsent(rec) {
		return errRetry
	}
	if !v.store.compareAndPut(parent, parent.withChildAdded(BaseName(rec.path))) {
		// Roll the orphan record back; nothing else can have linked it yet.
		v.store.remove(rec.path)
		return errRetry
	}
	return nil
}

// liveChildren filters a directory's child names down to ones whose records
// still exist. A lost parent unlink can leave a stale name in the child set;
// a stale name must never hold the directory hostage or surface in listings.
func (v *Volume) liveChildren(n *Node) []string {
	names := n.ChildNames()
	out := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := v.store.get(JoinChild(n.path, name)); ok {
			out = append(out, name)
		}
	}
	return out
}

// removeSubtree drops every descendant record of a doomed directory,
// bottom-up. Parent child sets inside the subtree are not rewritten; the
// records themselves are about to disappear.
func (v *Volume) removeSubtree(n *Node) {
	for _, name := range n.ChildNames() {
		childPath := JoinChild(n.path, name)
		child, ok := v.store.get(childPath)
		if !ok {
			continue
		}
		if child.typ == api.TypeDir {
			v.removeSubtree(child)
		}
		v.store.remove(childPath)
	}
}

// unlinkFromParent drops the node's name from its parent's child set,
// retrying its own small CAS race. The node record itself is already gone.
func (v *Volume) unlinkFromParent(n *Node) {
	name := BaseName(n.path)
	for range v.cfg.MaxRetries + 1 {
		parent, ok := v.store.get(n.parent)
		if !ok {
			return
		}
		if v.store.compareAndPut(parent, parent.withChildRemoved(name)) {
			return
		}
	}
	v.log.Warn().Str("path", n.path).Msg("Could not unlink removed node from parent child set")
}

// withPath fills the path on a line-range error produced below the volume
// layer, which does not know the canonical path.
func withPath(err error, p string) error {
	var e *api.Error
	if errors.As(err, &e) && e.Path == "" {
		return api.Errf(e.Kind, p, "%s", e.Msg)
	}
	return err
}
