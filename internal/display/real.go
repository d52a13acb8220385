package display

import (
	"fmt"
	"image"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/host/v3"
)

// RealDisplay drives an SSD1306 OLED on an I2C bus.
type RealDisplay struct {
	bus    i2c.BusCloser
	dev    *ssd1306.Dev
	canvas *Canvas
}

// NewRealDisplay opens the named I2C bus ("" for the first available) and
// initialises the panel blank.
func NewRealDisplay(busName string) (*RealDisplay, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init host: %w", err)
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", busName, err)
	}

	opts := ssd1306.DefaultOpts
	opts.W = Width
	opts.H = Height
	dev, err := ssd1306.NewI2C(bus, &opts)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("init ssd1306: %w", err)
	}

	d := &RealDisplay{bus: bus, dev: dev, canvas: NewCanvas(Width, Height)}
	if err := d.Flush(); err != nil {
		d.Close()
		return nil, err
	}
	return d, nil
}

// Clear blanks the off-screen buffer.
func (d *RealDisplay) Clear() error {
	d.canvas.Clear()
	return nil
}

// DrawText draws into the off-screen buffer.
func (d *RealDisplay) DrawText(text string, x, y int) error {
	d.canvas.DrawText(text, x, y)
	return nil
}

// Flush sends the buffer to the panel.
func (d *RealDisplay) Flush() error {
	if err := d.dev.Draw(d.dev.Bounds(), d.canvas.Image(), image.Point{}); err != nil {
		return fmt.Errorf("flush display: %w", err)
	}
	return nil
}

// Close turns the panel off and closes the bus.
func (d *RealDisplay) Close() error {
	var errs []error
	if err := d.dev.Halt(); err != nil {
		errs = append(errs, fmt.Errorf("halt display: %w", err))
	}
	if err := d.bus.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close i2c bus: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
