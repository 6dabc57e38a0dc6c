// Command viewport inspects and changes the persisted viewport state of a
// convos client.
package main

import (
	"fmt"
	"os"

	"github.com/khalidelboray/convos/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
