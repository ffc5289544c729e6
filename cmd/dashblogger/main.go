// Package main is the dashblogger admin console.
//
// @title                       dashblogger admin console API
// @version                     1.0
// @description                 Administration console for the dashblogger user base.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev" // set by the linker

func main() {
	if err := newRootCmd().Execute(); err != nil {
		// cobra already printed the error
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Tests build a fresh tree per case.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "dashblogger",
		Short:        "Admin console for the dashblogger user base",
		Version:      version,
		SilenceUsage: true,
	}
	cmd.AddCommand(newServeCmd(), newExportCmd(), newStrengthCmd())
	return cmd
}
