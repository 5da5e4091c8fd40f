package core

import "github.com/puzpuzpuz/xsync/v4"

// store is the flat key space backing one volume: canonical path -> current
// node record. The compare-and-set primitives below are what give the
// mutation engine its optimistic versioning — no lock is ever held across a
// read-modify-write span, so same-path contention shows up as retries
// instead of blocking.
type store struct {
	nodes *xsync.Map[string, *Node]
}

func newStore() *store {
	s := &store{nodes: xsync.NewMap[string, *Node]()}
	s.nodes.Store(RootPath, newDirNode(RootPath, ""))
	return s
}

func (s *store) get(path string) (*Node, bool) {
	return s.nodes.Load(path)
}

// putIfAbsent installs rec only when no record exists at its path.
func (s *store) putIfAbsent(rec *Node) bool {
	_, loaded := s.nodes.LoadOrStore(rec.path, rec)
	return !loaded
}

// compareAndPut swaps in rec only if cur is still the current record at
// rec.path. Reports whether the swap happened.
func (s *store) compareAndPut(cur, rec *Node) bool {
	swapped := false
	s.nodes.Compute(rec.path, func(old *Node, loaded bool) (*Node, xsync.ComputeOp) {
		if !loaded || old != cur {
			return old, xsync.CancelOp
		}
		swapped = true
		return rec, xsync.UpdateOp
	})
	return swapped
}

// compareAndDelete removes the record at cur's path only if cur is still
// current. Reports whether the delete happened.
func (s *store) compareAndDelete(cur *Node) bool {
	deleted := false
	s.nodes.Compute(cur.path, func(old *Node, loaded bool) (*Node, xsync.ComputeOp) {
		if !loaded || old != cur {
			return old, xsync.CancelOp
		}
		deleted = true
		return nil, xsync.DeleteOp
	})
	return deleted
}

// remove unconditionally drops the record at path. Used only for subtree
// teardown where the whole branch is already doomed.
func (s *store) remove(path string) {
	s.nodes.Delete(path)
}
