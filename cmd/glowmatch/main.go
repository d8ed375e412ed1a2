package main

import (
	"fmt"
	"os"

	"github.com/glowmatch/backend/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "glowmatch: %v\n", err)
		os.Exit(1)
	}
}
