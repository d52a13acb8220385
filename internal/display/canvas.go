package display

import (
	"image"
	"image/color"

	"periph.io/x/devices/v3/ssd1306/image1bit"
	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// Font is the face used for labels.
var Font = &proggy.TinySZ8pt7b

var white = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

var _ drivers.Displayer = (*Canvas)(nil)

// Canvas is a 1-bit off-screen buffer in the SSD1306 memory layout. It
// satisfies tinygo's drivers.Displayer so tinyfont can draw into it.
type Canvas struct {
	img *image1bit.VerticalLSB
}

// NewCanvas allocates a blank w x h canvas.
func NewCanvas(w, h int) *Canvas {
	return &Canvas{img: image1bit.NewVerticalLSB(image.Rect(0, 0, w, h))}
}

// Size returns the canvas dimensions.
func (c *Canvas) Size() (x, y int16) {
	b := c.img.Bounds()
	return int16(b.Dx()), int16(b.Dy())
}

// SetPixel lights the pixel for any non-black colour. Out-of-bounds writes
// are dropped.
func (c *Canvas) SetPixel(x, y int16, col color.RGBA) {
	if !(image.Point{X: int(x), Y: int(y)}).In(c.img.Bounds()) {
		return
	}
	bit := image1bit.Off
	if col.R|col.G|col.B != 0 {
		bit = image1bit.On
	}
	c.img.SetBit(int(x), int(y), bit)
}

// Display is a no-op; the owning device flushes the buffer.
func (c *Canvas) Display() error {
	return nil
}

// Clear turns every pixel off.
func (c *Canvas) Clear() {
	for i := range c.img.Pix {
		c.img.Pix[i] = 0
	}
}

// DrawText draws text in Font with its baseline at y.
func (c *Canvas) DrawText(text string, x, y int) {
	tinyfont.WriteLine(c, Font, int16(x), int16(y), text, white)
}

// Lit reports whether the pixel at (x, y) is on.
func (c *Canvas) Lit(x, y int) bool {
	return c.img.BitAt(x, y) == image1bit.On
}

// Image returns the backing image.
func (c *Canvas) Image() image.Image {
	return c.img
}
