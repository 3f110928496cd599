// hittest.go - Tree-walking hit test with masking.
package display

// HitTest walks root's subtree in depth order, accumulating the
// world-space matrix, and reports the topmost (highest-depth) node whose
// hit shape contains (x, y) and which is not currently excluded by an
// active mask.
func HitTest(root *Node, x, y float64) *Node {
	var found *Node
	walkHitTest(root, Identity, x, y, nil, &found)
	return found
}

// maskSpan brackets an active masker: children at depths within
// [depth, throughDepth] are tested against the masker's shape instead of
// their own, and nested maskers replace (never stack with) the enclosing
// one, per the documented "flatten to a single active region".
type maskSpan struct {
	masker *Node
	worldMatrix Matrix
}

func walkHitTest(n *Node, parentWorld Matrix, x, y float64, mask *maskSpan, found **Node) {
	if n == nil || !n.Visible {
 return
	}
	world := parentWorld.Concat(n.Matrix)

	children := n.Children()
	var activeMask *maskSpan
	children.InOrder(func(depth int, child *Node) {
 if child.ClipDepth != 0 {
 // Bracket: this child is a masker covering siblings at
 // depths up to ClipDepth. It is never itself hit-tested.
 activeMask = &maskSpan{masker: child, worldMatrix: world.Concat(child.Matrix)}
 return
 }
 effectiveMask := mask
 if activeMask != nil && depth <= activeMask.masker.ClipDepth {
 effectiveMask = activeMask
 } else if activeMask != nil && depth > activeMask.masker.ClipDepth {
 activeMask = nil
 }
 walkHitTest(child, world, x, y, effectiveMask, found)
	})

	if n.HitShape == nil {
 return
	}
	localX, localY := world.Invert().TransformPoint(x, y)
	if !n.HitShape.Contains(localX, localY) {
 return
	}
	if mask != nil {
 mlx, mly := mask.worldMatrix.Invert().TransformPoint(x, y)
 if mask.masker.HitShape == nil || !mask.masker.HitShape.Contains(mlx, mly) {
 return
 }
	}
	*found = n
}
