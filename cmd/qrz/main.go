// Command qrz looks up amateur radio callsigns and DXCC entities on QRZ.com
// from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/usestring/qrz-mcp/internal/cli/command"
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
