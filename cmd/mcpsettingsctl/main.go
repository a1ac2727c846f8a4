package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		var exitErr exitError
		if !errors.As(err, &exitErr) {
			exitErr = exitFromError(err)
		}
		if !exitErr.silent && exitErr.message != "" {
			fmt.Fprintln(os.Stderr, exitErr.message)
		}
		os.Exit(exitErr.code)
	}
}
