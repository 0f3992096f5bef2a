package main

import (
	"os"

	"fortio.org/tpick/pick/cli"
)

func main() {
	os.Exit(cli.Main())
}
