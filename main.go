package main

import (
	"os"

	"github.com/interviewlens/interviewlens/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
