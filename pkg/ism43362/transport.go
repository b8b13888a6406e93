package ism43362

import "github.com/Al-ze/ISM43362-M3G-L44-Driver/pkg/hal"

// Receive drains one framed response from the module into buf and
// returns the content length. The buffer is zeroed first so unwritten
// bytes stay distinguishable from content; words are then read while
// the data-ready line stays asserted, advancing the byte cursor one
// word at a time, and the alignment filler is trimmed from both ends.
//
// One byte of buf is reserved for the zero terminator. A response that
// would not leave it free returns ErrOverrun with the bytes collected
// so far still in buf.
func (d *Device) Receive(buf []byte) (int, error) {
	if len(buf) < hal.WordSize {
		return 0, ErrBufferTooSmall
	}
	for i := range buf {
		buf[i] = 0
	}
	cnt := 0
	for {
		ready, err := d.Port.DataReady()
		if err != nil {
			return cnt, &PortError{Op: "ready", Err: err}
		}
		if !ready {
			break
		}
		if cnt+hal.WordSize > len(buf)-1 {
			return cnt, ErrOverrun
		}
		if err := d.Port.ReadWord(buf[cnt : cnt+hal.WordSize]); err != nil {
			return cnt, &PortError{Op: "read", Err: err}
		}
		cnt += hal.WordSize
	}
	return Trim(buf, RxPadding), nil
}

// Transmit sends p to the module as whole bus words, appending one
// TxPadding byte when the content length is not word aligned. p itself
// is never modified.
func (d *Device) Transmit(p []byte) error {
	if len(p) == 0 {
		return ErrEmptyPayload
	}
	buf := make([]byte, len(p), len(p)+1)
	copy(buf, p)
	if len(buf)%hal.WordSize != 0 {
		buf = append(buf, TxPadding)
	}
	if err := d.Port.WriteWords(buf); err != nil {
		return &PortError{Op: "write", Err: err}
	}
	return nil
}
