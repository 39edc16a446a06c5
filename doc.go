// Package thicket is a depth-sorted scene graph for [Ebitengine].
//
// Every visual element is a [Node]: either a group, which owns an ordered
// list of children, or a sprite leaf, which draws an image. Groups nest to
// any depth.
//
// # Sorting
//
// [Node.Sort] reorders a group by a named key ("z" by default) in ascending
// or descending order. The sort is stable, so equal keys keep their input
// order and re-sorting a nearly sorted scene every frame stays cheap.
//
//	world.Sort("y", thicket.SortAscending, false) // direct children only
//	world.Sort("y", thicket.SortAscending, true)  // the whole subtree
//
// A recursive sort flattens the group's subtree into its draw cache: every
// leaf descendant in depth-first order, with the nested groups themselves
// left out. The cache is sorted and becomes the group's render source, so a
// sprite inside a nested group can be drawn between two sprites of another
// group. The cache is rebuilt only by the next recursive sort (or
// [Node.RefreshDrawCache]); a non-recursive sort switches the group back to
// rendering its direct children.
//
// # Rendering
//
// [Node.Render] draws a node through a [RenderContext]. The context carries
// the collaborators: a [LeafRenderer] for leaves, and optionally a [Batcher],
// a [MaskStack], a [FilterStack] and a [BitmapCache]. [NewEbitenContext]
// wires all of them for Ebitengine; [NewImmediateContext] draws leaf by leaf
// with masks only.
//
// The simplest way to get started is [Run]:
//
//	scene := thicket.NewScene()
//	scene.AutoSort = thicket.AutoSort{Enabled: true, Key: "y", Recursive: true}
//	// ... add nodes ...
//	thicket.Run(scene, thicket.RunConfig{Title: "My Game", Width: 640, Height: 480})
//
// Groups do not propagate transforms or alpha: each leaf is drawn at its own
// X and Y. Everything is single-threaded, like Ebitengine's game loop.
//
// [Ebitengine]: https://ebitengine.org
package thicket
