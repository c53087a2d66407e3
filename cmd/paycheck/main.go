// Command paycheck is the command-line client for the budget engine. It
// works directly on the configured store, no server needed.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}
