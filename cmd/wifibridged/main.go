package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"
	"io"
	"log"
	"strings"
	"time"

	"github.com/Al-ze/ISM43362-M3G-L44-Driver/pkg/bridge"
	"github.com/Al-ze/ISM43362-M3G-L44-Driver/pkg/env"
	"github.com/Al-ze/ISM43362-M3G-L44-Driver/pkg/framework"
	"github.com/Al-ze/ISM43362-M3G-L44-Driver/pkg/hal"
	"github.com/Al-ze/ISM43362-M3G-L44-Driver/pkg/ism43362"
	"github.com/Al-ze/ISM43362-M3G-L44-Driver/pkg/sim"
)

const bringUpTimeout = time.Minute

func init() {
	env.SetupDaemonFlags()
}

func main() {
	flag.Parse()

	conf := env.NewConfig()
	port, closer, err := openPort(conf)
	if err != nil {
		log.Fatalln(err)
	}
	if closer != nil {
		defer closer.Close()
	}

	dev := ism43362.NewDevice(port)
	dev.Security = ism43362.SecurityMode(conf.Security)
	dev.Passphrase = conf.Passphrase
	dev.SSID = conf.SSID
	dev.Protocol = ism43362.Protocol(conf.Protocol)
	dev.LocalPort = conf.Port
	if err = bringUp(dev, conf); err != nil {
		log.Fatalln(err)
	}

	ex := &bridge.Exchanger{Dev: dev, Timeout: bridge.DefaultExchangeTimeout}
	svc, err := bridge.NewService(conf.ServerURL, conf.Device, ex)
	if err != nil {
		log.Fatalln(err)
	}
	svc.Meta = bridge.Meta{
		Description: "es-WiFi bridge",
		SSID:        dev.SSID,
		Address:     dev.IPAddress,
	}

	runner := framework.NewRunner().HandleSignals()
	runner.Go(framework.NamedRun("mqtt", svc))
	if conf.WSAddr != "" {
		runner.Go(framework.NamedRun("websocket", &bridge.WSServer{Addr: conf.WSAddr, Dev: ex}))
	}
	if err = runner.Wait(); err != nil {
		log.Fatalln(err)
	}
}

func bringUp(dev *ism43362.Device, conf *env.Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), bringUpTimeout)
	defer cancel()
	if err := dev.Init(ctx); err != nil {
		return err
	}
	if conf.SSID != "" {
		if err := dev.CreateNetwork(ctx); err != nil {
			return err
		}
		log.Printf("network %q up at %s", dev.SSID, dev.IPAddress)
	}
	if conf.Port != 0 {
		if err := dev.ConfigureServer(ctx); err != nil {
			return err
		}
	}
	return nil
}

func openPort(conf *env.Config) (hal.Port, io.Closer, error) {
	if conf.Sim {
		return benchModule(), nil, nil
	}
	bus, err := hal.Open(conf.Bus)
	if err != nil {
		return nil, nil, err
	}
	return bus, bus, nil
}

// benchModule fakes enough of the firmware to run the daemon with no
// module attached.
func benchModule() *sim.Module {
	return sim.New().RespondFunc(func(cmd string) (string, bool) {
		switch {
		case cmd == "A?":
			return "0,10.0.0.5,1\r", true
		case strings.HasPrefix(cmd, "A"), strings.HasPrefix(cmd, "P"):
			return "OK\r", true
		}
		return "", false
	})
}
