// Command progressctl is the operator CLI for the progress pipeline: schema
// migration, rubric seeding and tier inspection.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
