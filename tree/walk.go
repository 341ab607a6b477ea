// Copyright (c) 2020, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

const (
	// Continue = true can be returned from tree iteration functions to continue
	// processing down the tree, as compared to Break = false which stops this branch.
	Continue = true

	// Break = false can be returned from tree iteration functions to stop processing
	// this branch of the tree.
	Break = false
)

// OwnedNodes returns the nodes held by the node shaped properties
// of n, in field order and then stored order.
func (n *Node) OwnedNodes() []*Node {
	var nodes []*Node
	for _, p := range n.props {
		if h, ok := p.(nodeHolder); ok {
			nodes = append(nodes, h.nodes()...)
		}
	}
	return nodes
}

// WalkDown calls the given function on the node and all of its owned
// nodes in depth-first order, in field order. It stops walking the
// current branch of the tree if the function returns [Break] and keeps
// walking if it returns [Continue].
func (n *Node) WalkDown(fun func(k *Node) bool) {
	if !fun(n) {
		return
	}
	for _, k := range n.OwnedNodes() {
		k.WalkDown(fun)
	}
}

// WalkDownPost calls the given function on all owned nodes of the node
// and then on the node itself, so deeper nodes are visited first.
func (n *Node) WalkDownPost(fun func(k *Node)) {
	for _, k := range n.OwnedNodes() {
		k.WalkDownPost(fun)
	}
	fun(n)
}

// WalkUp calls the given function on the node and all of its parents,
// sequentially in the current goroutine (generally necessary for going up,
// which is typically quite fast anyway). It stops walking if the function
// returns [Break] and keeps walking if it returns [Continue]. It returns
// whether walking was finished (false if it was aborted with [Break]).
func (n *Node) WalkUp(fun func(k *Node) bool) bool {
	for cur := n; cur != nil; cur = cur.parent {
		if !fun(cur) {
			return false
		}
	}
	return true
}
