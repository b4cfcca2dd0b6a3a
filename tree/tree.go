// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package tree

import (
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/retree/internal/invariants"
	"github.com/cockroachdb/swiss"
)

// Tree is a rooted tree together with an index from label to the first node
// (in pre-order) carrying that label.
//
// A Tree is not safe for concurrent mutation. Concurrent readers are safe as
// long as no mutation is in progress.
type Tree struct {
	root *Node
	// index maps each label to its first occurrence in pre-order. It is
	// rebuilt from scratch after every structural mutation.
	index swiss.Map[string, *Node]
	// len is the number of nodes; depth is the maximum node depth.
	len   int
	depth int
	// consumed is set once the tree has been grafted into another tree.
	consumed invariants.Consumed
}

func newTree(root *Node) *Tree {
	t := &Tree{root: root}
	t.reindex()
	return t
}

// reindex rebuilds the label index and the size statistics.
func (t *Tree) reindex() {
	t.index.Init(16)
	t.len, t.depth = 0, 0
	t.root.Walk(func(n *Node, depth int) bool {
		if _, ok := t.index.Get(n.label); !ok {
			t.index.Put(n.label, n)
		}
		t.len++
		t.depth = max(t.depth, depth)
		return true
	})
	if invariants.Enabled {
		t.check()
	}
}

// check panics if the parent pointers, child lists and index disagree.
func (t *Tree) check() {
	if t.root.parent != nil {
		panic(errors.AssertionFailedf("root %q has a parent", t.root.label))
	}
	seen := make(map[*Node]struct{}, t.len)
	t.root.Walk(func(n *Node, _ int) bool {
		if _, ok := seen[n]; ok {
			panic(errors.AssertionFailedf("node %q reachable twice", n.label))
		}
		seen[n] = struct{}{}
		for _, c := range n.children {
			if c.parent != n {
				panic(errors.AssertionFailedf("child %q of %q has parent %p", c.label, n.label, c.parent))
			}
		}
		if idx, ok := t.index.Get(n.label); !ok {
			panic(errors.AssertionFailedf("label %q missing from index", n.label))
		} else if _, ok := seen[idx]; !ok {
			panic(errors.AssertionFailedf("index entry for %q is not the first occurrence", n.label))
		}
		return true
	})
	if len(seen) != t.len || t.index.Len() > t.len {
		panic(errors.AssertionFailedf("tree has %d nodes, recorded %d (index %d)",
			len(seen), t.len, t.index.Len()))
	}
}

// Root returns the root node.
func (t *Tree) Root() *Node {
	return t.root
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	return t.len
}

// Depth returns the depth of the deepest node; a single node tree has depth
// 0.
func (t *Tree) Depth() int {
	return t.depth
}

// Find returns the first node in pre-order carrying label. It returns an
// error marked with ErrNodeNotFound if there is none.
func (t *Tree) Find(label string) (*Node, error) {
	t.consumed.AssertLive()
	if n, ok := t.index.Get(label); ok {
		return n, nil
	}
	return nil, nodeNotFound(label)
}

// Clone returns a deep copy of the tree.
func (t *Tree) Clone() *Tree {
	t.consumed.AssertLive()
	return newTree(t.root.clone())
}

// Subtree returns a copy of the subtree rooted at the node labeled label.
func (t *Tree) Subtree(label string) (*Tree, error) {
	n, err := t.Find(label)
	if err != nil {
		return nil, err
	}
	return newTree(n.clone()), nil
}

// Children returns the labels of the direct children of the node labeled
// label.
func (t *Tree) Children(label string) ([]string, error) {
	n, err := t.Find(label)
	if err != nil {
		return nil, err
	}
	return n.Children(), nil
}

// Father returns the label of the parent of the node labeled label. It
// returns an error marked with ErrRootHasNoFather for the root.
func (t *Tree) Father(label string) (string, error) {
	n, err := t.Find(label)
	if err != nil {
		return "", err
	}
	if n.parent == nil {
		return "", rootHasNoFather(label)
	}
	return n.parent.label, nil
}

// Ancestors returns the labels of the ancestors of the node labeled label,
// nearest first.
func (t *Tree) Ancestors(label string) ([]string, error) {
	n, err := t.Find(label)
	if err != nil {
		return nil, err
	}
	return n.Ancestors(), nil
}

// Descendants returns the labels of the subtree rooted at the node labeled
// label, in level order and including the node itself.
func (t *Tree) Descendants(label string) ([]string, error) {
	n, err := t.Find(label)
	if err != nil {
		return nil, err
	}
	return n.Descendants(), nil
}

// SetSubtree replaces the children of the node labeled label with a single
// child: the root of sub. The node's own label and its ancestors are left
// untouched. sub is consumed and must not be used afterwards.
func (t *Tree) SetSubtree(label string, sub *Tree) error {
	if sub == t {
		return errors.AssertionFailedf("cannot graft a tree into itself")
	}
	sub.consumed.AssertLive()
	n, err := t.Find(label)
	if err != nil {
		return err
	}
	for _, c := range n.children {
		c.parent = nil
	}
	sub.root.parent = n
	n.children = []*Node{sub.root}
	sub.root, sub.len, sub.depth = nil, 0, 0
	sub.index.Init(0)
	sub.consumed.Consume("SetSubtree")
	t.reindex()
	return nil
}

// DetachSubtree removes the node labeled label and its descendants from the
// tree and returns them as a tree of their own. The root cannot be detached.
func (t *Tree) DetachSubtree(label string) (*Tree, error) {
	n, err := t.Find(label)
	if err != nil {
		return nil, err
	}
	p := n.parent
	if p == nil {
		return nil, errors.Mark(errors.Newf("retree: cannot detach the root %q", label), ErrRootDetach)
	}
	i := slices.Index(p.children, n)
	p.children = slices.Delete(p.children, i, i+1)
	n.parent = nil
	t.reindex()
	return newTree(n), nil
}

// Equal returns true if a and b have the same shape and labels.
func Equal(a, b *Tree) bool {
	if a.len != b.len {
		return false
	}
	stack := [][2]*Node{{a.root, b.root}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := p[0], p[1]
		if x.label != y.label || len(x.children) != len(y.children) {
			return false
		}
		for i := range x.children {
			stack = append(stack, [2]*Node{x.children[i], y.children[i]})
		}
	}
	return true
}
