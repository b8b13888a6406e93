package ism43362

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Al-ze/ISM43362-M3G-L44-Driver/pkg/hal"
)

// recordPort hands out canned module bytes one word per ReadWord while
// any remain, and records every write burst.
type recordPort struct {
	t  *testing.T
	rx []byte

	reads  int
	writes [][]byte

	readyErr error
	readErr  error
	writeErr error
}

func (p *recordPort) ReadWord(b []byte) error {
	require.Len(p.t, b, hal.WordSize)
	if p.readErr != nil {
		return p.readErr
	}
	require.GreaterOrEqual(p.t, len(p.rx), hal.WordSize)
	copy(b, p.rx[:hal.WordSize])
	p.rx = p.rx[hal.WordSize:]
	p.reads++
	return nil
}

func (p *recordPort) WriteWords(b []byte) error {
	if p.writeErr != nil {
		return p.writeErr
	}
	require.Zerof(p.t, len(b)%hal.WordSize, "write of %d bytes not word aligned", len(b))
	w := make([]byte, len(b))
	copy(w, b)
	p.writes = append(p.writes, w)
	return nil
}

func (p *recordPort) DataReady() (bool, error) {
	if p.readyErr != nil {
		return false, p.readyErr
	}
	return len(p.rx) > 0, nil
}

func (p *recordPort) Select() error   { return nil }
func (p *recordPort) Deselect() error { return nil }
func (p *recordPort) Reset() error    { return nil }

func TestReceive(t *testing.T) {
	testCases := []struct {
		name   string
		module string // raw bytes pending on the module side
		size   int
		expect string
		words  int
	}{
		{"power-up greeting", "\x15\x15\r\n> ", 16, "\r\n> ", 3},
		{"odd response padded", "0,10.0.0.5,1\r\x15", 32, "0,10.0.0.5,1\r", 7},
		{"nothing pending", "", 8, "", 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			port := &recordPort{t: t, rx: []byte(tc.module)}
			dev := NewDevice(port)
			buf := make([]byte, tc.size)
			n, err := dev.Receive(buf)
			require.NoError(t, err)
			require.Equal(t, tc.expect, string(buf[:n]))
			require.Equalf(t, tc.words, port.reads, "%s word count mismatch", tc.name)
		})
	}
}

func TestReceiveStride(t *testing.T) {
	// The byte cursor advances exactly one word per read.
	port := &recordPort{t: t, rx: []byte("ABCDEF")}
	dev := NewDevice(port)
	buf := make([]byte, 16)
	n, err := dev.Receive(buf)
	require.NoError(t, err)
	require.Equal(t, 3, port.reads)
	require.Equal(t, 3*hal.WordSize, n)
	require.Equal(t, "ABCDEF", string(buf[:n]))
}

func TestReceiveClearsBuffer(t *testing.T) {
	port := &recordPort{t: t, rx: []byte("AB")}
	dev := NewDevice(port)
	buf := bytes.Repeat([]byte{'z'}, 8)
	n, err := dev.Receive(buf)
	require.NoError(t, err)
	require.Equal(t, "AB", string(buf[:n]))
	for i, b := range buf[n:] {
		require.Zerof(t, b, "stale byte at %d", n+i)
	}
}

func TestReceiveOverrun(t *testing.T) {
	// An 8-byte buffer holds three words: the fourth would eat the
	// terminator byte.
	port := &recordPort{t: t, rx: []byte("0123456789")}
	dev := NewDevice(port)
	n, err := dev.Receive(make([]byte, 8))
	require.ErrorIs(t, err, ErrOverrun)
	require.Equal(t, 6, n)
	require.Equal(t, 3, port.reads)
}

func TestReceiveTinyBuffer(t *testing.T) {
	dev := NewDevice(&recordPort{t: t})
	_, err := dev.Receive(make([]byte, hal.WordSize-1))
	require.ErrorIs(t, err, ErrBufferTooSmall)
}

func TestReceivePortError(t *testing.T) {
	boom := errors.New("bus fault")
	port := &recordPort{t: t, rx: []byte("ABCD"), readErr: boom}
	dev := NewDevice(port)
	_, err := dev.Receive(make([]byte, 8))
	var perr *PortError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, "read", perr.Op)
	require.ErrorIs(t, err, boom)
}

func TestTransmit(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		wire string
	}{
		{"odd content padded", "A?\r", "A?\r\n"},
		{"even content unchanged", "AS=0,net1\r", "AS=0,net1\r"},
		{"single byte", "A", "A\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			port := &recordPort{t: t}
			dev := NewDevice(port)
			payload := []byte(tc.in)
			require.NoError(t, dev.Transmit(payload))
			require.Len(t, port.writes, 1)

			wire := port.writes[0]
			require.Equalf(t, tc.wire, string(wire), "%s wire mismatch", tc.name)
			require.Zero(t, len(wire)%hal.WordSize, "wire length must be even")
			require.Equal(t, tc.in, string(payload), "caller slice must stay intact")
		})
	}
}

func TestTransmitEmpty(t *testing.T) {
	dev := NewDevice(&recordPort{t: t})
	require.ErrorIs(t, dev.Transmit(nil), ErrEmptyPayload)
}

func TestTransmitPortError(t *testing.T) {
	boom := errors.New("bus fault")
	dev := NewDevice(&recordPort{t: t, writeErr: boom})
	err := dev.Transmit([]byte("A?\r"))
	var perr *PortError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, "write", perr.Op)
	require.ErrorIs(t, err, boom)
}

func TestPaddingRoundTrip(t *testing.T) {
	// Odd payloads gain exactly one filler byte on the wire; trimming
	// it restores the original content with no interior byte touched.
	port := &recordPort{t: t}
	dev := NewDevice(port)
	payloads := []string{"C?\r", "MR\r", "Z"}
	for _, payload := range payloads {
		require.NoError(t, dev.Transmit([]byte(payload)))
	}
	for i, payload := range payloads {
		wire := port.writes[i]
		require.Len(t, wire, len(payload)+1)
		n := Trim(wire, TxPadding)
		require.Equal(t, payload, string(wire[:n]))
	}
}
