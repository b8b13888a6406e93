package ism43362

import (
	"context"
	"time"

	"github.com/Al-ze/ISM43362-M3G-L44-Driver/pkg/hal"
)

// Framing constants of the es-WiFi SPI protocol.
const (
	// TxPadding is appended to odd-length payloads before transmit.
	TxPadding byte = '\n'
	// RxPadding is the filler the module uses to align its responses.
	RxPadding byte = 0x15
	// MsgPowerUp is the announcement the module makes after reset,
	// once the alignment filler is trimmed.
	MsgPowerUp = "\r\n> "
)

const (
	// DefaultRxBufferSize is the response capacity used by Do.
	DefaultRxBufferSize = 128
	// DefaultPollInterval is the idle delay between readiness polls.
	DefaultPollInterval = time.Millisecond
)

// Device is the handle of one radio module on a bus port.
//
// The session fields configure the provisioning flows and are never
// touched by the transport itself. At most one transaction may be in
// flight per Device.
type Device struct {
	Port hal.Port
	// PollInterval is the idle delay between data-ready polls while
	// waiting for the module.
	PollInterval time.Duration

	// Access point session settings, consumed by CreateNetwork.
	Security   SecurityMode
	Passphrase string
	SSID       string
	// Server socket settings, consumed by ConfigureServer.
	Protocol  Protocol
	LocalPort int
	// IPAddress is the address the module reports once CreateNetwork
	// succeeds.
	IPAddress string
}

// NewDevice creates a Device over port.
func NewDevice(port hal.Port) *Device {
	return &Device{Port: port, PollInterval: DefaultPollInterval}
}

// waitReady polls the data-ready line until it is asserted, the
// context expires, or the port fails.
func (d *Device) waitReady(ctx context.Context) error {
	interval := d.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		ready, err := d.Port.DataReady()
		if err != nil {
			return &PortError{Op: "ready", Err: err}
		}
		if ready {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
