// Package sh provides the interactive operator shell over the bridge.
package sh

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/Al-ze/ISM43362-M3G-L44-Driver/pkg/bridge"
	"github.com/Al-ze/ISM43362-M3G-L44-Driver/pkg/env"
)

// Shell provides the ishell backed interactive shell, bound to at most
// one bridged device.
type Shell struct {
	Interactive bool
	OutputJSON  bool
	AutoConnect bool

	Shell  *ishell.Shell
	Config *env.Config
	Client *bridge.Client
}

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "
)

// CommandTimeout bounds one remote exchange issued from the shell.
const CommandTimeout = 5 * time.Second

var (
	// flags

	evalOnly   bool
	outputJSON bool

	// commands
	commands = []*ishell.Cmd{
		&DiscoverCmd,
		&ConnectCmd,
		&DisconnectCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// AddCmds is used by other command providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *env.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell:  ishell.New(),
		Config: conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeConnected wraps command func requires a connection.
func MustBeConnected(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).Client == nil {
			c.Err(fmt.Errorf("not connected"))
			return
		}
		fn(c)
	}
}

// FormatInfo prints DeviceInfo into a friendly string for display.
func FormatInfo(info bridge.DeviceInfo) string {
	out := info.Name
	if info.Meta.Description != "" {
		out += ": " + info.Meta.Description
	}
	if info.Meta.SSID != "" {
		out += " ssid=" + info.Meta.SSID
	}
	if info.Meta.Address != "" {
		out += " [" + info.Meta.Address + "]"
	}
	return out
}

// Do runs one command exchange on the connected device and waits for
// the result.
func Do(c *ishell.Context, cmd string) (string, error) {
	s := ShellFrom(c)
	if s.Client == nil {
		err := fmt.Errorf("not connected")
		c.Err(err)
		return "", err
	}
	ctx, cancel := context.WithTimeout(context.Background(), CommandTimeout)
	defer cancel()
	rsp, err := s.Client.Do(ctx, cmd)
	if err != nil {
		c.Err(err)
		return "", err
	}
	return rsp, nil
}

// WithAutoConnect sets AutoConnect.
func (s *Shell) WithAutoConnect(en bool) *Shell {
	s.AutoConnect = en
	return s
}

// Discover lists the devices announced on the queue.
func (s *Shell) Discover() ([]bridge.DeviceInfo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), CommandTimeout)
	defer cancel()
	return bridge.Discover(ctx, s.Config.ServerURL, 0)
}

// SelectDevice discovers devices and asks for a choice when more than
// one is announced.
func (s *Shell) SelectDevice() (*bridge.DeviceInfo, error) {
	infos, err := s.Discover()
	if err != nil {
		return nil, err
	}
	if len(infos) == 0 {
		return nil, nil
	}
	var index int
	if len(infos) > 1 {
		if !s.Interactive {
			return nil, fmt.Errorf("more than 1 device discovered in non-interactive mode")
		}
		items := make([]string, len(infos))
		for n, info := range infos {
			items[n] = FormatInfo(info)
		}
		index = s.Shell.MultiChoice(items, "Which one to connect?")
	}
	return &infos[index], nil
}

// Connect connects the device with name.
func (s *Shell) Connect(name string) error {
	client, err := bridge.NewClient(s.Config.ServerURL, name)
	if err != nil {
		return err
	}
	if err = client.Connect(); err != nil {
		return err
	}
	s.Disconnect()
	s.Client = client
	s.Shell.SetPrompt(fmt.Sprintf("%s > ", name))
	return nil
}

// Disconnect disconnects the current device.
func (s *Shell) Disconnect() {
	if s.Client != nil {
		s.Client.Close()
		s.Client = nil
		s.Shell.SetPrompt(unconnectedPrompt)
	}
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if s.AutoConnect && s.Config.Device != "" {
		if s.Interactive {
			s.Shell.Printf("Connecting %s ...\n", s.Config.Device)
		}
		if err := s.Connect(s.Config.Device); err != nil {
			log.Fatalf("connect %q failed: %v", s.Config.Device, err)
		}
	}
	defer s.Disconnect()

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

var (
	// DiscoverCmd discovers devices.
	DiscoverCmd = ishell.Cmd{
		Name:    "discover",
		Aliases: []string{"list", "l"},
		Help:    "",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			infos, err := s.Discover()
			if err != nil {
				c.Err(err)
				return
			}
			if s.OutputJSON {
				if len(infos) == 0 {
					// in case infos is nil, make it an empty slice.
					infos = []bridge.DeviceInfo{}
				}
				out, err := json.Marshal(infos)
				if err != nil {
					c.Err(err)
					return
				}
				c.Println(string(out))
				return
			}
			if len(infos) == 0 {
				c.Println("No devices found")
				return
			}
			for _, info := range infos {
				c.Println(FormatInfo(info))
			}
		},
	}

	// ConnectCmd connects a device.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"c"},
		Help:    "NAME",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			var name string
			if len(c.Args) >= 1 {
				name = c.Args[0]
			} else {
				info, err := s.SelectDevice()
				if err != nil {
					c.Err(err)
					return
				}
				if info == nil {
					c.Err(fmt.Errorf("no device discovered"))
					return
				}
				name = info.Name
			}
			if err := s.Connect(name); err != nil {
				c.Err(err)
				return
			}
		},
	}

	// DisconnectCmd disconnects the current device.
	DisconnectCmd = ishell.Cmd{
		Name:    "disconnect",
		Aliases: []string{"d"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Disconnect()
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New(env.NewConfig()).WithAutoConnect(true).Run(flag.Args()...)
}
