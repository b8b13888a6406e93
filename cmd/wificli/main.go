package main

import (
	"github.com/Al-ze/ISM43362-M3G-L44-Driver/pkg/cli/sh"
	"github.com/Al-ze/ISM43362-M3G-L44-Driver/pkg/env"

	_ "github.com/Al-ze/ISM43362-M3G-L44-Driver/pkg/cli/cmds/wifi"
)

//go-build: CGO_ENABLED=0

func init() {
	env.SetupShellFlags()
}

func main() {
	sh.Main()
}
