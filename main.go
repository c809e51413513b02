package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/kubev2v/search-query/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.New(color.FgRed, color.Bold).Sprint("error: ")+err.Error())
		os.Exit(1)
	}
}
