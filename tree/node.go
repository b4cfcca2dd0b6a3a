// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package tree

// Node is a labeled tree node. A node owns its children; the parent pointer
// is a back-reference used for ancestor walks and is nil only for the root of
// a tree.
type Node struct {
	label    string
	parent   *Node
	children []*Node
}

// Label returns the node's label.
func (n *Node) Label() string {
	return n.label
}

// Parent returns the node's parent, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Child returns the i'th child.
func (n *Node) Child(i int) *Node {
	return n.children[i]
}

// Children returns the labels of the node's direct children, in order.
func (n *Node) Children() []string {
	labels := make([]string, len(n.children))
	for i, c := range n.children {
		labels[i] = c.label
	}
	return labels
}

// Ancestors returns the labels on the path from the node's parent up to the
// root, nearest first. It is empty for a root.
func (n *Node) Ancestors() []string {
	var labels []string
	for p := n.parent; p != nil; p = p.parent {
		labels = append(labels, p.label)
	}
	return labels
}

// Depth returns the number of edges between the node and the root.
func (n *Node) Depth() int {
	d := 0
	for p := n.parent; p != nil; p = p.parent {
		d++
	}
	return d
}

// Descendants returns the labels of the subtree rooted at n in level order,
// starting with n itself. Siblings are visited left to right.
func (n *Node) Descendants() []string {
	var labels []string
	queue := []*Node{n}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		labels = append(labels, c.label)
		queue = append(queue, c.children...)
	}
	return labels
}

// Walk calls fn for every node of the subtree rooted at n in pre-order,
// passing each node's depth relative to n. Walk stops early if fn returns
// false.
func (n *Node) Walk(fn func(n *Node, depth int) bool) {
	type frame struct {
		n     *Node
		depth int
	}
	stack := []frame{{n: n}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(f.n, f.depth) {
			return
		}
		for i := len(f.n.children) - 1; i >= 0; i-- {
			stack = append(stack, frame{n: f.n.children[i], depth: f.depth + 1})
		}
	}
}

// clone returns a deep copy of the subtree rooted at n. The copy's root has no
// parent.
func (n *Node) clone() *Node {
	type frame struct {
		src, dst *Node
	}
	root := &Node{label: n.label}
	stack := []frame{{src: n, dst: root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if len(f.src.children) == 0 {
			continue
		}
		f.dst.children = make([]*Node, len(f.src.children))
		for i, c := range f.src.children {
			d := &Node{label: c.label, parent: f.dst}
			f.dst.children[i] = d
			stack = append(stack, frame{src: c, dst: d})
		}
	}
	return root
}
