// Package main is the entry point for the onboarding CLI.
//
// Commands: serve, wizard, tax, version.
package main

import (
	"log"

	"github.com/goliatone/go-onboarding/cmd/onboarding/commands"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		log.Fatalf("onboarding: %v", err)
	}
}
