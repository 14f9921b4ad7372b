package main

import (
	"os"

	"github.com/Maccraft123/bootmgr/pkg/cli"
)

func main() {
	os.Exit(cli.RunCommandLineTool())
}
