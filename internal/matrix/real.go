package matrix

import (
	"fmt"

	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/host/v3"
)

// RealMatrix pushes frames to a WS2812 strip driven as an NRZ stream over SPI.
type RealMatrix struct {
	port spi.PortCloser
	dev  *nrzled.Dev
}

// NewRealMatrix opens the named SPI port ("" for the first available).
func NewRealMatrix(spiPort string) (*RealMatrix, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init host: %w", err)
	}
	port, err := spireg.Open(spiPort)
	if err != nil {
		return nil, fmt.Errorf("open spi port %q: %w", spiPort, err)
	}

	opts := nrzled.DefaultOpts
	opts.NumPixels = NumPixels
	opts.Channels = 3
	dev, err := nrzled.NewSPI(port, &opts)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("init led strip: %w", err)
	}
	return &RealMatrix{port: port, dev: dev}, nil
}

// DrawPattern writes one frame. A bus error leaves the previous frame lit.
func (m *RealMatrix) DrawPattern(index int, r, g, b float32) error {
	frame, err := Frame(index, r, g, b)
	if err != nil {
		return err
	}
	if _, err := m.dev.Write(frame); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// Close blanks the strip and closes the port.
func (m *RealMatrix) Close() error {
	var errs []error
	if err := m.dev.Halt(); err != nil {
		errs = append(errs, fmt.Errorf("halt strip: %w", err))
	}
	if err := m.port.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close spi port: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
