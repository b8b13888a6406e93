package ism43362

import "context"

// Transact performs one request/response exchange: cmd is transmitted,
// then the reply is collected into rsp, both phases gated by the
// data-ready line and bracketed by chip select. It returns the reply
// length after the alignment filler is trimmed.
//
// There is exactly one attempt per call. Readiness still asserted once
// the receive completes means the reply did not fit in rsp; that case
// returns ErrOverrun.
func (d *Device) Transact(ctx context.Context, cmd, rsp []byte) (int, error) {
	if err := d.send(ctx, cmd); err != nil {
		return 0, err
	}
	return d.recv(ctx, rsp)
}

// Do formats one command line, runs the exchange with a buffer of
// DefaultRxBufferSize and returns the trimmed response text.
func (d *Device) Do(ctx context.Context, cmd string) (string, error) {
	rsp := make([]byte, DefaultRxBufferSize)
	n, err := d.Transact(ctx, []byte(cmd), rsp)
	if err != nil {
		return "", err
	}
	return string(rsp[:n]), nil
}

func (d *Device) send(ctx context.Context, cmd []byte) error {
	if err := d.waitReady(ctx); err != nil {
		return err
	}
	if err := d.Port.Select(); err != nil {
		return &PortError{Op: "select", Err: err}
	}
	err := d.Transmit(cmd)
	if derr := d.Port.Deselect(); err == nil && derr != nil {
		err = &PortError{Op: "deselect", Err: derr}
	}
	return err
}

func (d *Device) recv(ctx context.Context, rsp []byte) (int, error) {
	if err := d.waitReady(ctx); err != nil {
		return 0, err
	}
	if err := d.Port.Select(); err != nil {
		return 0, &PortError{Op: "select", Err: err}
	}
	n, err := d.Receive(rsp)
	if err == nil {
		var ready bool
		if ready, err = d.Port.DataReady(); err != nil {
			err = &PortError{Op: "ready", Err: err}
		} else if ready {
			err = ErrOverrun
		}
	}
	if derr := d.Port.Deselect(); err == nil && derr != nil {
		err = &PortError{Op: "deselect", Err: derr}
	}
	return n, err
}
