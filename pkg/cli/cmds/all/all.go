// Package all registers all shell commands.
package all

import (
	// shell commands
	_ "github.com/robotalks/dcsbios.go/pkg/cli/cmds/decode"
)
