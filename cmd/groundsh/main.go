package main

import (
	"github.com/tuppersat/r2d1.go/pkg/cli/sh"
	"github.com/tuppersat/r2d1.go/pkg/radio"

	_ "github.com/tuppersat/r2d1.go/pkg/cli/cmds/all"
)

//go-build: CGO_ENABLED=0

func init() {
	radio.SetupFlags()
}

func main() {
	sh.Main()
}
