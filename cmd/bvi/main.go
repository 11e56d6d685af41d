// Command bvi is a terminal inbox for beads issues with removable label
// filter chips.
package main

import (
	"os"

	"github.com/Dicklesworthstone/beads_inbox/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
