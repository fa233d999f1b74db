package board

// Component is a maximal 4-connected monochrome region of a color grid.
type Component struct {
	Color Cell
	Cells []Pos
}

var neighbors4 = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

// ComponentsByColor flood-fills a color grid (4-neighborhood) and returns
// every maximal monochrome component. Components come out in scan order of
// their first-visited seed (y-major, then x-major), and the cells inside a
// component are in BFS visit order from that seed.
func ComponentsByColor(cells [][]Cell) []Component {
	h := len(cells)
	if h == 0 {
		return nil
	}
	w := len(cells[0])
	seen := make([][]bool, h)
	for y := range seen {
		seen[y] = make([]bool, w)
	}
	var out []Component
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := cells[y][x]
			if c == Empty || seen[y][x] {
				continue
			}
			pts := floodFrom(x, y, w, h, seen, func(nx, ny int) bool {
				return cells[ny][nx] == c
			})
			out = append(out, Component{Color: c, Cells: pts})
		}
	}
	return out
}

// MaskComponents returns the foreground components of a boolean mask,
// in the same deterministic order as ComponentsByColor.
func MaskComponents(m Mask) [][]Pos {
	w, h := m.Dims()
	if h == 0 {
		return nil
	}
	seen := make([][]bool, h)
	for y := range seen {
		seen[y] = make([]bool, w)
	}
	var out [][]Pos
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !m[y][x] || seen[y][x] {
				continue
			}
			out = append(out, floodFrom(x, y, w, h, seen, func(nx, ny int) bool {
				return m[ny][nx]
			}))
		}
	}
	return out
}

// ConnectedComponentAt returns the monochrome component containing (x0,y0),
// or nil if the cell is out of bounds or empty.
func ConnectedComponentAt(cells [][]Cell, x0, y0 int) []Pos {
	h := len(cells)
	if h == 0 {
		return nil
	}
	w := len(cells[0])
	if x0 < 0 || x0 >= w || y0 < 0 || y0 >= h || cells[y0][x0] == Empty {
		return nil
	}
	c := cells[y0][x0]
	seen := make([][]bool, h)
	for y := range seen {
		seen[y] = make([]bool, w)
	}
	return floodFrom(x0, y0, w, h, seen, func(nx, ny int) bool {
		return cells[ny][nx] == c
	})
}

// floodFrom runs a BFS flood fill from (x0,y0) over cells accepted by same,
// marking seen as it goes. The caller guarantees (x0,y0) is acceptable.
func floodFrom(x0, y0, w, h int, seen [][]bool, same func(x, y int) bool) []Pos {
	queue := []Pos{{X: x0, Y: y0}}
	seen[y0][x0] = true
	var pts []Pos
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		pts = append(pts, p)
		for _, d := range neighbors4 {
			nx, ny := p.X+d[0], p.Y+d[1]
			if nx >= 0 && nx < w && ny >= 0 && ny < h && !seen[ny][nx] && same(nx, ny) {
				seen[ny][nx] = true
				queue = append(queue, Pos{X: nx, Y: ny})
			}
		}
	}
	return pts
}
