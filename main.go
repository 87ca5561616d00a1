package main

import (
	"github.com/scan-io-git/trackersync/cmd"
)

func main() {
	cmd.Execute()
}
