package ism43362

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Al-ze/ISM43362-M3G-L44-Driver/pkg/sim"
)

func TestCreateNetwork(t *testing.T) {
	mod := sim.New().Respond("A?", "0,10.0.0.5,1\r")
	dev := NewDevice(mod)
	dev.Security = SecurityWPA2
	dev.Passphrase = "hunter22"
	dev.SSID = "bench"

	require.NoError(t, dev.CreateNetwork(testCtx(t)))
	require.Equal(t, "10.0.0.5", dev.IPAddress)
	require.Equal(t,
		[]string{"A1=3", "A2=hunter22", "AS=0,bench", "AD", "A?"},
		mod.Commands())
}

func TestCreateNetworkMalformed(t *testing.T) {
	mod := sim.New().Respond("A?", "nope\r")
	dev := NewDevice(mod)

	err := dev.CreateNetwork(testCtx(t))
	var rerr *ResponseError
	require.ErrorAs(t, err, &rerr)
	require.Equal(t, "A?", rerr.Command)
	require.Empty(t, dev.IPAddress)
}

func TestConfigureServer(t *testing.T) {
	mod := sim.New()
	dev := NewDevice(mod)
	dev.Protocol = ProtocolUDP
	dev.LocalPort = 8080

	require.NoError(t, dev.ConfigureServer(testCtx(t)))
	require.Equal(t, []string{"P0=0", "P1=1", "P2=8080"}, mod.Commands())
}
