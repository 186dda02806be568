package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/tensorir/go-tir/cmd/tir/commands"
)

func main() {
	if err := commands.Root().Execute(); err != nil {
		if errors.Is(err, commands.ErrTreesDiffer) {
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "tir:", err)
		os.Exit(2)
	}
}
