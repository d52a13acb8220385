package gpio

import (
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
)

// SimOutputs stands in for the LED lines when no hardware is attached. It
// logs level changes.
type SimOutputs struct {
	mu     sync.Mutex
	levels [OutputBlue + 1]bool
}

// NewSimOutputs creates SimOutputs with every LED off.
func NewSimOutputs() *SimOutputs {
	return &SimOutputs{}
}

// Set records the level and logs it when it changes.
func (s *SimOutputs) Set(out Output, on bool) error {
	if out > OutputBlue {
		return fmt.Errorf("set %s: unknown output", out)
	}
	s.mu.Lock()
	changed := s.levels[out] != on
	s.levels[out] = on
	s.mu.Unlock()
	if changed {
		log.Infof("gpio: %s led %s", out, onOff(on))
	}
	return nil
}

// Close turns every LED off.
func (s *SimOutputs) Close() error {
	s.mu.Lock()
	s.levels = [OutputBlue + 1]bool{}
	s.mu.Unlock()
	return nil
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
