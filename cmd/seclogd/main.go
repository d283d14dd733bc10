// Command seclogd is the host-resident security event pipeline daemon:
// it tails well-known log files, normalizes matching lines into events,
// stores them, and periodically evaluates a detection rule catalog over
// recent events to raise alerts.
package main

import (
	"fmt"
	"os"

	"github.com/hostwatch/seclogd/cmd/seclogd/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
