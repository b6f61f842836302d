package main

import (
	"os"

	"thinking-of-you-backend/cmd"
)

func main() {
	if err := cmd.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
