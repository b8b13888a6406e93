package ism43362

import (
	"context"
	"fmt"
	"strings"
)

// SecurityMode selects the access point security setting.
type SecurityMode int

// Security modes accepted by the module.
const (
	SecurityOpen SecurityMode = iota
	SecurityWEP
	SecurityWPA
	SecurityWPA2
	SecurityWPAWPA2
)

// Protocol selects the transport protocol of the module's server
// socket.
type Protocol int

// Server socket protocols.
const (
	ProtocolTCP Protocol = iota
	ProtocolUDP
)

// CreateNetwork provisions a soft access point from the session fields
// and records the address the module reports in IPAddress.
func (d *Device) CreateNetwork(ctx context.Context) error {
	steps := []string{
		fmt.Sprintf("A1=%d\r", d.Security),
		fmt.Sprintf("A2=%s\r", d.Passphrase),
		fmt.Sprintf("AS=0,%s\r", d.SSID),
		"AD\r",
	}
	for _, cmd := range steps {
		if _, err := d.Do(ctx, cmd); err != nil {
			return err
		}
	}
	rsp, err := d.Do(ctx, "A?\r")
	if err != nil {
		return err
	}
	// The settings dump is comma separated with the address second.
	fields := strings.Split(rsp, ",")
	if len(fields) < 3 {
		return &ResponseError{Command: "A?", Response: rsp}
	}
	d.IPAddress = fields[1]
	return nil
}

// ConfigureServer prepares the module's server socket with the session
// protocol and port.
func (d *Device) ConfigureServer(ctx context.Context) error {
	steps := []string{
		"P0=0\r",
		fmt.Sprintf("P1=%d\r", d.Protocol),
		fmt.Sprintf("P2=%d\r", d.LocalPort),
	}
	for _, cmd := range steps {
		if _, err := d.Do(ctx, cmd); err != nil {
			return err
		}
	}
	return nil
}
