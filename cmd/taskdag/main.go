// Command taskdag prunes task dependency graphs and renders them as DOT.
package main

import (
	"os"

	"github.com/AbdelazizMoustafa10m/taskdag/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
