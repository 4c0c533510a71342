// Command ignite-server runs the ignite TCP key-value server.
package main

import (
	"fmt"
	"os"

	"github.com/ignitekv/ignite/internal/cli"
)

func main() {
	if err := cli.NewServerCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
