package main

import (
	"os"

	"agenthub/cmd/agenthub"
)

func main() {
	if err := agenthub.Execute(); err != nil {
		os.Exit(1)
	}
}
