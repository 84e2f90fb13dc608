package viz

import "strings"

// Canvas is a braille-dot drawing surface. Each character cell packs a
// 2x4 dot grid, so a width x height canvas addresses 2*width by 4*height
// dots.
type Canvas struct {
	Width  int // character cells
	Height int
	Grid   [][]rune
}

func NewCanvas(width, height int) *Canvas {
	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = make([]rune, width)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}
	return &Canvas{Width: width, Height: height, Grid: grid}
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = ' '
		}
	}
}

// brailleBits maps the (dx, dy) sub-cell position to its bit in the
// braille pattern block.
var brailleBits = [4][2]int{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Set lights the dot at dot coordinates (x, y); out-of-range is ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 || x >= c.Width*2 || y >= c.Height*4 {
		return
	}
	col, row := x/2, y/4
	bit := brailleBits[y%4][x%2]
	r := c.Grid[row][col]
	if r < 0x2800 {
		r = 0x2800
	}
	c.Grid[row][col] = r | rune(bit)
}

// DrawLine lights the dots on the segment between two dot coordinates.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for i, row := range c.Grid {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(row))
	}
	return b.String()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
