// Command ignite-client is a CLI client for ignite-server.
package main

import (
	"fmt"
	"os"

	"github.com/ignitekv/ignite/internal/cli"
)

func main() {
	if err := cli.NewClientCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
