package main

import (
	"os"
	_ "time/tzdata"

	"github.com/fatih/color"
	"github.com/jonboulle/clockwork"
)

func main() {
	if err := newRootCmd(clockwork.NewRealClock()).Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
