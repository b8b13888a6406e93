package sim

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Al-ze/ISM43362-M3G-L44-Driver/pkg/hal"
)

// drain reads pending reply bytes the way a host would: select, read
// words while data is ready, deselect.
func drain(t *testing.T, m *Module) []byte {
	t.Helper()
	require.NoError(t, m.Select())
	var out []byte
	word := make([]byte, hal.WordSize)
	for {
		ready, err := m.DataReady()
		require.NoError(t, err)
		if !ready {
			break
		}
		require.NoError(t, m.ReadWord(word))
		out = append(out, word...)
	}
	require.NoError(t, m.Deselect())
	return out
}

func TestModuleExchange(t *testing.T) {
	m := New().Respond("A?", "0,10.0.0.5,1\r")

	require.NoError(t, m.Select())
	require.NoError(t, m.WriteWords([]byte("A?\r\n")))
	require.NoError(t, m.Deselect())

	ready, err := m.DataReady()
	require.NoError(t, err)
	require.True(t, ready, "reply must be pending after dispatch")

	got := drain(t, m)
	require.Equal(t, "0,10.0.0.5,1\r"+string(padRx), string(got),
		"odd reply must carry one alignment byte")

	ready, err = m.DataReady()
	require.NoError(t, err)
	require.True(t, ready, "module must rearm for the next command")
	require.Equal(t, []string{"A?"}, m.Commands())
}

func TestModuleDefaultReply(t *testing.T) {
	m := New()
	require.NoError(t, m.Select())
	require.NoError(t, m.WriteWords([]byte("AD\r\n")))
	require.NoError(t, m.Deselect())
	require.Equal(t, defaultReply+string(padRx), string(drain(t, m)))
}

func TestModuleFallback(t *testing.T) {
	m := New().RespondFunc(func(cmd string) (string, bool) {
		if cmd == "MR" {
			return "ER\r\n", true
		}
		return "", false
	})

	require.NoError(t, m.Select())
	require.NoError(t, m.WriteWords([]byte("MR\r\n")))
	require.NoError(t, m.Deselect())
	require.Equal(t, "ER\r\n", string(drain(t, m)), "even reply stays unpadded")

	require.NoError(t, m.Select())
	require.NoError(t, m.WriteWords([]byte("ZZ\r\n")))
	require.NoError(t, m.Deselect())
	require.Equal(t, defaultReply+string(padRx), string(drain(t, m)))
}

func TestModulePowerUp(t *testing.T) {
	m := New()
	require.NoError(t, m.Reset())
	require.Equal(t, powerUp, string(drain(t, m)))

	ready, err := m.DataReady()
	require.NoError(t, err)
	require.True(t, ready, "module must accept commands after bring-up")
}

func TestModulePortContract(t *testing.T) {
	m := New()
	require.Error(t, m.ReadWord(make([]byte, hal.WordSize-1)), "short read buffer")
	require.Error(t, m.WriteWords(make([]byte, hal.WordSize+1)), "unaligned write")
	require.Error(t, m.ReadWord(make([]byte, hal.WordSize)), "read while deselected")
	require.Error(t, m.WriteWords(make([]byte, hal.WordSize)), "write while deselected")

	require.NoError(t, m.Reset())
	require.NoError(t, m.Select())
	require.Error(t, m.WriteWords([]byte("A?\r\n")), "write while reply pending")
}
