// Package env provides process-level configuration for the bridge
// daemon and the operator shell.
package env

import (
	"flag"
	"os"

	"github.com/denisbrodbeck/machineid"

	"github.com/Al-ze/ISM43362-M3G-L44-Driver/pkg/hal"
)

// Config collects the options shared by the commands.
type Config struct {
	// ServerURL is the MQTT endpoint with topic prefix, in the form
	// mqtt://host:port/prefix.
	ServerURL string
	// Device is the node name under the topic prefix.
	Device string

	// Bus selects the hardware binding of the module.
	Bus hal.Config
	// Sim replaces the hardware with the simulated module.
	Sim bool

	// Access point provisioning; an empty SSID skips it.
	SSID       string
	Passphrase string
	Security   int

	// Server socket setup; port 0 skips it.
	Protocol int
	Port     int

	// WSAddr enables the WebSocket endpoint when non-empty.
	WSAddr string
}

var defaultConfig = Config{
	ServerURL: "mqtt://localhost:1883/eswifi/",
	Bus: hal.Config{
		Device:   "/dev/spidev0.0",
		Speed:    10000000,
		ReadyPin: 24,
		ResetPin: 23,
		CSPin:    25,
	},
	Security: 3,
	Port:     80,
}

func init() {
	if uri := os.Getenv("WIFI_MQTT_URL"); uri != "" {
		defaultConfig.ServerURL = uri
	}
	defaultConfig.Device = MachineID()
}

// SetupDaemonFlags sets up command line flags for the bridge daemon.
func SetupDaemonFlags() {
	flag.StringVar(&defaultConfig.ServerURL, "mqtt", defaultConfig.ServerURL, "MQTT broker URL, mqtt://host:port/prefix")
	flag.StringVar(&defaultConfig.Device, "name", defaultConfig.Device, "Device name under the topic prefix")
	flag.StringVar(&defaultConfig.Bus.Device, "spi-dev", defaultConfig.Bus.Device, "SPI device node")
	flag.Int64Var(&defaultConfig.Bus.Speed, "spi-speed", defaultConfig.Bus.Speed, "SPI clock in Hz")
	flag.IntVar(&defaultConfig.Bus.ReadyPin, "gpio-ready", defaultConfig.Bus.ReadyPin, "Data-ready GPIO number")
	flag.IntVar(&defaultConfig.Bus.ResetPin, "gpio-reset", defaultConfig.Bus.ResetPin, "Reset GPIO number")
	flag.IntVar(&defaultConfig.Bus.CSPin, "gpio-cs", defaultConfig.Bus.CSPin, "Chip-select GPIO number")
	flag.BoolVar(&defaultConfig.Sim, "sim", defaultConfig.Sim, "Use the simulated module instead of hardware")
	flag.StringVar(&defaultConfig.SSID, "ssid", defaultConfig.SSID, "Access point SSID, empty skips provisioning")
	flag.StringVar(&defaultConfig.Passphrase, "pass", defaultConfig.Passphrase, "Access point passphrase")
	flag.IntVar(&defaultConfig.Security, "security", defaultConfig.Security, "Security mode (0 open, 1 WEP, 2 WPA, 3 WPA2, 4 WPA+WPA2)")
	flag.IntVar(&defaultConfig.Protocol, "proto", defaultConfig.Protocol, "Server protocol (0 TCP, 1 UDP)")
	flag.IntVar(&defaultConfig.Port, "port", defaultConfig.Port, "Server port, 0 skips server setup")
	flag.StringVar(&defaultConfig.WSAddr, "ws", defaultConfig.WSAddr, "WebSocket listen address, empty disables")
}

// SetupShellFlags sets up command line flags for the operator shell.
func SetupShellFlags() {
	defaultConfig.Device = ""
	flag.StringVar(&defaultConfig.ServerURL, "mqtt", defaultConfig.ServerURL, "MQTT broker URL, mqtt://host:port/prefix")
	flag.StringVar(&defaultConfig.Device, "connect", defaultConfig.Device, "Device to connect on start")
}

// NewConfig creates a config from the defaults and parsed flags.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// MachineID returns the unique identity of the local machine.
func MachineID() string {
	id, err := machineid.ID()
	if err != nil {
		panic(err)
	}
	return id
}
