package ism43362

import "context"

// Init resets the module and validates its power-up announcement. The
// announcement is collected with the same readiness and chip-select
// discipline as a transaction's receive phase, except that the module
// is selected before the first readiness poll and nothing is
// transmitted first.
func (d *Device) Init(ctx context.Context) error {
	if err := d.Port.Reset(); err != nil {
		return &PortError{Op: "reset", Err: err}
	}
	if err := d.Port.Select(); err != nil {
		return &PortError{Op: "select", Err: err}
	}
	buf := make([]byte, DefaultRxBufferSize)
	var n int
	err := d.waitReady(ctx)
	if err == nil {
		n, err = d.Receive(buf)
	}
	if derr := d.Port.Deselect(); err == nil && derr != nil {
		err = &PortError{Op: "deselect", Err: derr}
	}
	if err != nil {
		return err
	}
	if got := string(buf[:n]); got != MsgPowerUp {
		return &HandshakeError{Greeting: got}
	}
	return nil
}
