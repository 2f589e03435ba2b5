package main

import (
	"journald/internal/di"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server and the daily digest scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := di.InitApp(&flags)
		if err != nil {
			return err
		}
		return app.Run()
	},
}
