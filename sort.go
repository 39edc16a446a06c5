package thicket

import (
	"cmp"
	"math"
	"slices"
)

// DefaultSortKey is the key used when Sort is called with an empty key.
const DefaultSortKey = "z"

// sortKeyFunc is recorded as the active sort key after SortFunc.
const sortKeyFunc = "func"

// insertionSortMax is the largest list sorted with insertion sort. Per-frame
// depth sorts are usually nearly sorted, where insertion sort is O(n) and
// allocation free.
const insertionSortMax = 64

// Sort reorders the group by the named key.
//
// With recursive set, the draw cache is refreshed from the whole subtree,
// sorted, and used as the render source from then on. Otherwise the direct
// children are sorted and rendering reverts to them; a previously built draw
// cache is left as is (stale) until the next recursive sort.
//
// Equal keys keep their relative order. Built-in keys are "z", "x", "y",
// "alpha" and "id"; any other key is read from Props. A node missing the key
// sorts as negative infinity: first when ascending, last when descending.
//
// Sorting a list of fewer than two nodes is a no-op: neither the render
// source, the draw cache nor the active key changes. Sort on a leaf is a no-op.
func (n *Node) Sort(key string, order SortOrder, recursive bool) {
	if key == "" {
		key = DefaultSortKey
	}
	n.sortWith(key, keyComparator(key, order), recursive)
}

// SortFunc is like Sort but orders nodes with an arbitrary comparison
// function, which returns a negative number when a sorts before b, a
// positive number when after, and zero to keep the input order.
func (n *Node) SortFunc(compare func(a, b *Node) int, recursive bool) {
	n.sortWith(sortKeyFunc, compare, recursive)
}

// ActiveSortKey returns the key of the last effective sort, "func" after
// SortFunc, or "" if the group was never sorted.
func (n *Node) ActiveSortKey() string {
	return n.activeSortKey
}

func (n *Node) sortWith(key string, compare func(a, b *Node) int, recursive bool) {
	if n.Type != NodeTypeGroup {
		return
	}

	var list []*Node
	if recursive {
		if !hasAtLeastLeaves(n.children, 2) {
			return
		}
		n.RefreshDrawCache()
		n.renderFromCache = true
		list = n.drawCache
	} else {
		if len(n.children) < 2 {
			return
		}
		n.renderFromCache = false
		list = n.children
	}

	stableSort(list, compare)

	n.activeSortKey = key
	for i, node := range list {
		node.renderIndex = i
	}
}

// keyComparator builds a comparator over the named key. cmp.Compare orders
// NaN before every other value, so the order stays total.
func keyComparator(key string, order SortOrder) func(a, b *Node) int {
	if order == SortDescending {
		return func(a, b *Node) int {
			return cmp.Compare(sortValue(b, key), sortValue(a, key))
		}
	}
	return func(a, b *Node) int {
		return cmp.Compare(sortValue(a, key), sortValue(b, key))
	}
}

// sortValue reads the named key from n. Missing keys read as -Inf.
func sortValue(n *Node, key string) float64 {
	switch key {
	case "z":
		return n.Z
	case "x":
		return n.X
	case "y":
		return n.Y
	case "alpha":
		return n.Alpha
	case "id":
		return float64(n.ID)
	}
	if v, ok := n.Props[key]; ok {
		return v
	}
	return math.Inf(-1)
}

// stableSort sorts list in place, keeping equal elements in input order.
func stableSort(list []*Node, compare func(a, b *Node) int) {
	if len(list) > insertionSortMax {
		slices.SortStableFunc(list, compare)
		return
	}
	for i := 1; i < len(list); i++ {
		key := list[i]
		j := i - 1
		for j >= 0 && compare(list[j], key) > 0 {
			list[j+1] = list[j]
			j--
		}
		list[j+1] = key
	}
}
