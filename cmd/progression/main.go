// Package main is the entry point for the progression CLI
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(&app{}).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
