// Package main is the entry point for the service router.
package main

import (
	"os"

	"github.com/transformhub/service-router/cmd/router-api/app"
	"github.com/transformhub/service-router/internal/logging"
)

func main() {
	logging.Setup()

	if err := app.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
