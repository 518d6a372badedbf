// Package all registers all shell commands.
package all

import (
	_ "github.com/tuppersat/r2d1.go/pkg/cli/cmds/frame"
	_ "github.com/tuppersat/r2d1.go/pkg/cli/cmds/link"
)
