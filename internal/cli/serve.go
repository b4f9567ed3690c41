package cli

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/oblipix/viagemimpacta/internal/app"
	"github.com/oblipix/viagemimpacta/internal/logger"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the availability HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(logger.New(log.Default()))
		},
	}
}
