// Command uibridge converts UI prefabs between Cocos Creator, NGUI and UGUI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/uibridge/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		// Flag and argument errors never reach a command's formatter.
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitCommandError)
	}
}
