package ism43362

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTrim(t *testing.T) {
	testCases := []struct {
		name   string
		in     string
		pad    byte
		expect string
	}{
		{"both ends", "\x15\x15\r\n> ", 0x15, "\r\n> "},
		{"interior preserved", "ppXppYpp", 'p', "XppY"},
		{"leading only", "ppX", 'p', "X"},
		{"trailing only", "X\r\npp", 'p', "X\r\n"},
		{"no padding", "ABCD", 'p', "ABCD"},
		{"all padding", "pppppp", 'p', ""},
		{"empty", "", 'p', ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buf := make([]byte, len(tc.in)+4)
			copy(buf, tc.in)

			n := Trim(buf, tc.pad)
			require.Equalf(t, tc.expect, string(buf[:n]), "%s content mismatch", tc.name)

			again := Trim(buf, tc.pad)
			require.Equalf(t, n, again, "%s must be stable on retrim", tc.name)
			require.Equal(t, tc.expect, string(buf[:again]))
		})
	}
}

func TestTrimFullBuffer(t *testing.T) {
	// No zero terminator anywhere: the content spans the whole buffer.
	buf := []byte("pXYp")
	n := Trim(buf, 'p')
	require.Equal(t, "XY", string(buf[:n]))
}

func TestTrimCompactsInPlace(t *testing.T) {
	buf := []byte("pXp\x00stale")
	n := Trim(buf, 'p')
	require.Equal(t, 1, n)
	require.Equal(t, byte('X'), buf[0])
	require.Equal(t, byte(0), buf[1], "compacted content must stay terminated")

	require.Equal(t, n, Trim(buf, 'p'))
}
