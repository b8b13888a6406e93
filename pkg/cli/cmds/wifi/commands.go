// Package wifi provides module commands for the operator shell.
package wifi

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/Al-ze/ISM43362-M3G-L44-Driver/pkg/cli/sh"
)

var (
	// ATCmd sends one raw command line, appending the carriage return.
	ATCmd = ishell.Cmd{
		Name:    "at",
		Aliases: []string{"cmd"},
		Help:    "COMMAND [ARGS...]",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) == 0 {
				c.Err(fmt.Errorf("command expected"))
				return
			}
			rsp, err := sh.Do(c, strings.Join(c.Args, " ")+"\r")
			if err != nil {
				return
			}
			c.Println(strings.TrimRight(rsp, "\r\n"))
		}),
	}

	// JoinCmd provisions the soft access point.
	JoinCmd = ishell.Cmd{
		Name: "join",
		Help: "SSID PASSPHRASE [SECURITY]",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("ssid and passphrase expected"))
				return
			}
			security := 3
			if len(c.Args) > 2 {
				v, err := strconv.Atoi(c.Args[2])
				if err != nil {
					c.Err(err)
					return
				}
				security = v
			}
			steps := []string{
				fmt.Sprintf("A1=%d\r", security),
				fmt.Sprintf("A2=%s\r", c.Args[1]),
				fmt.Sprintf("AS=0,%s\r", c.Args[0]),
				"AD\r",
			}
			for _, cmd := range steps {
				if _, err := sh.Do(c, cmd); err != nil {
					return
				}
			}
			rsp, err := sh.Do(c, "A?\r")
			if err != nil {
				return
			}
			fields := strings.Split(rsp, ",")
			if len(fields) < 3 {
				c.Err(fmt.Errorf("malformed response %q", rsp))
				return
			}
			c.Printf("address %s\n", fields[1])
		}),
	}

	// ServerCmd configures the module's server socket.
	ServerCmd = ishell.Cmd{
		Name: "server",
		Help: "PORT [PROTO] (0 TCP, 1 UDP)",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) == 0 {
				c.Err(fmt.Errorf("port expected"))
				return
			}
			port, err := strconv.Atoi(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			proto := 0
			if len(c.Args) > 1 {
				if proto, err = strconv.Atoi(c.Args[1]); err != nil {
					c.Err(err)
					return
				}
			}
			steps := []string{
				"P0=0\r",
				fmt.Sprintf("P1=%d\r", proto),
				fmt.Sprintf("P2=%d\r", port),
			}
			for _, cmd := range steps {
				if _, err := sh.Do(c, cmd); err != nil {
					return
				}
			}
			c.Println("OK")
		}),
	}

	// StatusCmd shows the announced metadata of the connected device.
	StatusCmd = ishell.Cmd{
		Name: "status",
		Help: "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			s := sh.ShellFrom(c)
			infos, err := s.Discover()
			if err != nil {
				c.Err(err)
				return
			}
			for _, info := range infos {
				if info.Name == s.Client.Name {
					c.Println(sh.FormatInfo(info))
					return
				}
			}
			c.Println("not announced")
		}),
	}
)

func init() {
	sh.AddCmds(&ATCmd, &JoinCmd, &ServerCmd, &StatusCmd)
}
