// Package sim provides an in-memory stand-in for the radio module,
// usable wherever a hal.Port is expected.
package sim

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Al-ze/ISM43362-M3G-L44-Driver/pkg/hal"
)

// Wire behavior of the simulated firmware.
const (
	padTx        = '\n'
	padRx   byte = 0x15
	powerUp      = "\x15\x15\r\n> "

	defaultReply = "OK\r"
)

type moduleState int

const (
	stateReady      moduleState = iota // accepting a command
	stateResponding                    // reply queued or draining
)

// Module simulates one es-WiFi module behind a hal.Port.
//
// A fresh Module behaves as if bring-up already happened and accepts
// commands immediately; Reset queues the power-up announcement the way
// the firmware does. The zero value is not usable, use New.
type Module struct {
	// PowerUp is the raw byte sequence queued by Reset.
	PowerUp []byte

	mu       sync.Mutex
	state    moduleState
	selected bool
	inbound  []byte // words collected while selected
	pending  []byte // reply bytes not yet read back
	replies  map[string]string
	fallback func(cmd string) (string, bool)
	commands []string
}

// New creates a Module ready to accept commands.
func New() *Module {
	return &Module{
		PowerUp: []byte(powerUp),
		replies: make(map[string]string),
	}
}

// Respond registers an exact-match reply for one command line, keyed
// without the trailing carriage return. It returns the Module for
// chaining.
func (m *Module) Respond(cmd, rsp string) *Module {
	m.mu.Lock()
	m.replies[cmd] = rsp
	m.mu.Unlock()
	return m
}

// RespondFunc registers a fallback consulted when no exact match
// exists. Returning false falls through to the default reply.
func (m *Module) RespondFunc(fn func(cmd string) (string, bool)) *Module {
	m.mu.Lock()
	m.fallback = fn
	m.mu.Unlock()
	return m
}

// Commands lists the command lines received so far, without padding or
// the trailing carriage return.
func (m *Module) Commands() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.commands...)
}

// Reset implements hal.Port: any in-flight exchange is dropped and the
// power-up announcement is queued.
func (m *Module) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inbound = nil
	m.pending = append([]byte(nil), m.PowerUp...)
	m.state = stateResponding
	return nil
}

// Select implements hal.Port.
func (m *Module) Select() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selected = true
	return nil
}

// Deselect implements hal.Port. Deselecting after a command was
// written makes the module process the line and queue its reply;
// deselecting once the reply drained rearms it for the next command.
func (m *Module) Deselect() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selected = false
	if len(m.inbound) > 0 {
		m.dispatchLocked()
		return nil
	}
	if m.state == stateResponding && len(m.pending) == 0 {
		m.state = stateReady
	}
	return nil
}

// DataReady implements hal.Port: asserted while reply bytes are
// pending, and while the module is ready to accept a command.
func (m *Module) DataReady() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == stateResponding {
		return len(m.pending) > 0, nil
	}
	return true, nil
}

// ReadWord implements hal.Port.
func (m *Module) ReadWord(p []byte) error {
	if len(p) != hal.WordSize {
		return fmt.Errorf("read %d bytes, want %d", len(p), hal.WordSize)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.selected {
		return errors.New("read while deselected")
	}
	if len(m.pending) < hal.WordSize {
		return errors.New("read with no data pending")
	}
	copy(p, m.pending[:hal.WordSize])
	m.pending = m.pending[hal.WordSize:]
	return nil
}

// WriteWords implements hal.Port.
func (m *Module) WriteWords(p []byte) error {
	if len(p)%hal.WordSize != 0 {
		return fmt.Errorf("write %d bytes, not word aligned", len(p))
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.selected {
		return errors.New("write while deselected")
	}
	if len(m.pending) > 0 {
		return errors.New("write while reply pending")
	}
	m.inbound = append(m.inbound, p...)
	return nil
}

// dispatchLocked consumes the collected command line and queues the
// registered reply, padded to a whole number of words with the
// alignment filler.
func (m *Module) dispatchLocked() {
	line := string(m.inbound)
	m.inbound = nil
	line = strings.TrimSuffix(line, string(padTx))
	line = strings.TrimSuffix(line, "\r")
	m.commands = append(m.commands, line)

	rsp, ok := m.replies[line]
	if !ok && m.fallback != nil {
		rsp, ok = m.fallback(line)
	}
	if !ok {
		rsp = defaultReply
	}
	out := []byte(rsp)
	if len(out)%hal.WordSize != 0 {
		out = append(out, padRx)
	}
	m.pending = out
	m.state = stateResponding
}
