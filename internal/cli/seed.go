package cli

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/oblipix/viagemimpacta/internal/app"
	"github.com/oblipix/viagemimpacta/internal/logger"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Apply the demo seed against the configured store and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Seed(cmd.Context(), logger.New(log.Default()))
		},
	}
}
