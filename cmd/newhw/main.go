// Command newhw scaffolds a homework directory:
//
//	newhw <assignment-name> [org/repo]
package main

import (
	"os"

	"github.com/dyluth/pygrader/cmd/pygrader/commands"
)

func main() {
	if err := commands.NewHWCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
