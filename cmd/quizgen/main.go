package main

import (
	"os"

	"docquiz/cmd/quizgen/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
