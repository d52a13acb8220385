package matrix

// Pattern is one 5x5 RGB bitmap, indexed [row][col][channel], row 0 at the top.
type Pattern [Height][Width][3]uint8

// NumPatterns is the size of the gallery.
const NumPatterns = 10

var (
	red   = [3]uint8{255, 0, 0}
	green = [3]uint8{0, 255, 0}
	blue  = [3]uint8{0, 0, 255}
)

// Digit glyphs 0..9; '#' is lit.
var glyphs = [NumPatterns][Height]string{
	{".###.", "#...#", "#...#", "#...#", ".###."},
	{"...#.", "..##.", ".#.#.", "...#.", "...#."},
	{".###.", "...#.", ".###.", ".#...", ".###."},
	{".###.", "...#.", ".###.", "...#.", ".###."},
	{".#.#.", ".#.#.", ".###.", "...#.", "...#."},
	{".###.", ".#...", ".###.", "...#.", ".###."},
	{".###.", ".#...", ".###.", ".#.#.", ".###."},
	{".###.", "...#.", "...#.", "...#.", "...#."},
	{".###.", ".#.#.", ".###.", ".#.#.", ".###."},
	{".###.", ".#.#.", ".###.", "...#.", ".###."},
}

// Gallery holds the digit patterns; colours cycle red, green, blue.
var Gallery = buildGallery()

func buildGallery() [NumPatterns]Pattern {
	colors := [3][3]uint8{red, green, blue}
	var g [NumPatterns]Pattern
	for i, glyph := range glyphs {
		c := colors[i%len(colors)]
		for row, line := range glyph {
			for col := 0; col < Width; col++ {
				if line[col] == '#' {
					g[i][row][col] = c
				}
			}
		}
	}
	return g
}

// ASCII renders pattern index as text, one row per line.
func ASCII(index int) string {
	if index < 0 || index >= NumPatterns {
		return ""
	}
	b := make([]byte, 0, Height*(Width+1))
	for _, line := range glyphs[index] {
		b = append(b, line...)
		b = append(b, '\n')
	}
	return string(b)
}
