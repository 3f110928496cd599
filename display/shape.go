// shape.go - Edge-list hit-testing for shape characters.
package display

// Edges is a closed polygon in local (twip) space. Real shape characters
// carry curve edges flattened by the renderer's own tessellation; the
// core only needs the flattened point list to answer hit-test queries.
type Edges struct {
	Points [][2]float64
	NonZero bool // winding rule: false = even-odd (default), true = non-zero
}

// Contains reports whether (x, y) falls inside the polygon, honoring the
// configured fill winding rule.
func (e Edges) Contains(x, y float64) bool {
	if len(e.Points) < 3 {
 return false
	}
	if e.NonZero {
 return windingNumber(e.Points, x, y) != 0
	}
	return evenOdd(e.Points, x, y)
}

func evenOdd(pts [][2]float64, x, y float64) bool {
	inside := false
	n := len(pts)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
 xi, yi := pts[i][0], pts[i][1]
 xj, yj := pts[j][0], pts[j][1]
 if (yi > y) != (yj > y) {
 xCross := xj + (y-yj)/(yi-yj)*(xi-xj)
 if x < xCross {
 inside = !inside
 }
 }
	}
	return inside
}

func windingNumber(pts [][2]float64, x, y float64) int {
	wn := 0
	n := len(pts)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
 xi, yi := pts[i][0], pts[i][1]
 xj, yj := pts[j][0], pts[j][1]
 if yj <= y {
 if yi > y && isLeft(xj, yj, xi, yi, x, y) > 0 {
 wn++
 }
 } else {
 if yi <= y && isLeft(xj, yj, xi, yi, x, y) < 0 {
 wn--
 }
 }
	}
	return wn
}

func isLeft(x0, y0, x1, y1, x, y float64) float64 {
	return (x1-x0)*(y-y0) - (x-x0)*(y1-y0)
}
