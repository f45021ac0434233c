// Package main is the entry point for the IssueBridge sync server.
package main

import (
	"os"

	"github.com/issuebridge/issuebridge-server/cmd/issuebridge/app"
)

func main() {
	if err := app.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
