package main

import (
	"os"

	"github.com/zahedbri/e107/cmd/e107ctl/cmd"
)

// version is set via ldflags at build time.
var version = "dev"

func main() {
	cmd.Version = version
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
