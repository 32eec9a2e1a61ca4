// Command boardsim brings the Korvo-1 board up against simulated hardware.
package main

import (
	"fmt"
	"os"

	"audioboard-go/cmd/boardsim/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
