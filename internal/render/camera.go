package render

// Camera translates between tile coordinates and screen coordinates on the
// first two axes. Tile X is multiplied by 2 because emoji occupy 2 terminal
// columns.
type Camera struct {
	OffsetX    int
	OffsetY    int
	ViewWidth  int // in terminal columns
	ViewHeight int // in terminal rows
}

// NewCamera creates a camera centered on (cx, cy).
func NewCamera(cx, cy, viewW, viewH int) *Camera {
	c := &Camera{ViewWidth: viewW, ViewHeight: viewH}
	c.Center(cx, cy)
	return c
}

// Center repositions the camera so that tile (cx, cy) is in the middle.
func (c *Camera) Center(cx, cy int) {
	// ViewWidth is in columns; each tile is 2 columns wide.
	c.OffsetX = cx - (c.ViewWidth/2)/2
	c.OffsetY = cy - c.ViewHeight/2
}

// Follow scrolls just enough to keep (x, y) at least margin tiles inside
// the viewport.
func (c *Camera) Follow(x, y, margin int) {
	cols := c.ViewWidth / 2
	margin = max(0, min(margin, (cols-1)/2, (c.ViewHeight-1)/2))
	if x < c.OffsetX+margin {
		c.OffsetX = x - margin
	} else if x > c.OffsetX+cols-1-margin {
		c.OffsetX = x - cols + 1 + margin
	}
	if y < c.OffsetY+margin {
		c.OffsetY = y - margin
	} else if y > c.OffsetY+c.ViewHeight-1-margin {
		c.OffsetY = y - c.ViewHeight + 1 + margin
	}
}

// Resize changes the viewport while keeping its center tile.
func (c *Camera) Resize(viewW, viewH int) {
	cx, cy := c.ScreenToWorld(c.ViewWidth/2, c.ViewHeight/2)
	c.ViewWidth, c.ViewHeight = viewW, viewH
	c.Center(cx, cy)
}

// WorldToScreen converts tile (wx, wy) to screen (sx, sy).
// visible is false when the result falls outside the viewport.
func (c *Camera) WorldToScreen(wx, wy int) (sx, sy int, visible bool) {
	sx = (wx - c.OffsetX) * 2
	sy = wy - c.OffsetY
	visible = sx >= 0 && sx+1 < c.ViewWidth && sy >= 0 && sy < c.ViewHeight
	return
}

// ScreenToWorld converts screen (sx, sy) to tile coordinates.
func (c *Camera) ScreenToWorld(sx, sy int) (int, int) {
	return sx/2 + c.OffsetX, sy + c.OffsetY
}

// Bounds returns the lowest and highest tile visible on each axis.
func (c *Camera) Bounds() (x1, y1, x2, y2 int) {
	x1, y1 = c.OffsetX, c.OffsetY
	return x1, y1, x1 + max(c.ViewWidth/2, 1) - 1, y1 + max(c.ViewHeight, 1) - 1
}
