package drag

// Point is a pointer position in the presentation layer's coordinate space.
type Point struct {
	X int
	Y int
}

// Add offsets p by d.
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// Rect is a column drop region. All four edges are inclusive.
type Rect struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X <= r.Right && p.Y >= r.Top && p.Y <= r.Bottom
}

// ColumnRect binds a drop region to its column id.
type ColumnRect struct {
	ColumnID string
	Rect     Rect
}

// Layout supplies the current column drop regions on demand.
type Layout interface {
	ColumnRects() []ColumnRect
}

// LayoutFunc adapts a plain function to Layout.
type LayoutFunc func() []ColumnRect

// ColumnRects implements Layout.
func (f LayoutFunc) ColumnRects() []ColumnRect {
	if f == nil {
		return nil
	}
	return f()
}

// ColumnAt returns the first column whose region contains p.
func ColumnAt(layout Layout, p Point) (string, bool) {
	if layout == nil {
		return "", false
	}
	for _, cr := range layout.ColumnRects() {
		if cr.Rect.Contains(p) {
			return cr.ColumnID, true
		}
	}
	return "", false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
