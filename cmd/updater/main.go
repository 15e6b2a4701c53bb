package main

import (
	"fmt"
	"os"

	"stockdata/internal/cli"
	"stockdata/internal/infrastructure"
)

func main() {
	rootCmd := cli.NewRootCmd()

	err := rootCmd.Execute()
	if closeErr := infrastructure.CloseLogFile(); closeErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", closeErr)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
