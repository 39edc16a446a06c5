package thicket

// RefreshDrawCache rebuilds the group's draw cache: every leaf descendant in
// depth-first pre-order, with intermediate groups traversed but not stored.
// The cache is never refreshed automatically; after any change to the
// subtree it is stale until the next refresh (or recursive Sort).
// No-op on a leaf.
func (n *Node) RefreshDrawCache() {
	if n.Type != NodeTypeGroup {
		return
	}
	// Reuse the backing array; clear stale pointers first so leaves removed
	// from the tree are not retained.
	clear(n.drawCache)
	n.drawCache = appendLeaves(n.drawCache[:0], n.children)
}

// DrawCache returns the flattened leaf list built by the last refresh. The
// returned slice MUST NOT be mutated by the caller.
func (n *Node) DrawCache() []*Node {
	return n.drawCache
}

// RendersFromCache reports whether Render iterates the draw cache (true) or
// the direct children (false). It is true iff the last effective Sort on
// this group was recursive.
func (n *Node) RendersFromCache() bool {
	return n.renderFromCache
}

// appendLeaves appends the leaves of children, recursing into groups.
func appendLeaves(dst []*Node, children []*Node) []*Node {
	for _, child := range children {
		if child.Type == NodeTypeGroup {
			dst = appendLeaves(dst, child.children)
			continue
		}
		dst = append(dst, child)
	}
	return dst
}

// hasAtLeastLeaves reports whether children holds at least want leaves,
// stopping the walk as soon as the answer is known.
func hasAtLeastLeaves(children []*Node, want int) bool {
	return leavesUpTo(children, want) >= want
}

func leavesUpTo(children []*Node, limit int) int {
	count := 0
	for _, child := range children {
		if child.Type == NodeTypeGroup {
			count += leavesUpTo(child.children, limit-count)
		} else {
			count++
		}
		if count >= limit {
			return count
		}
	}
	return count
}
