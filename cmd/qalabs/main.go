// Command qalabs serves and drives the manual QA labs: a catalog
// of deliberately fragile forms in which learners hunt for edge
// cases.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "qalabs: %v\n", err)
		os.Exit(1)
	}
}
