package main

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dashblogger/admin-console/internal/core/export"
	"github.com/dashblogger/admin-console/internal/core/view"
	"github.com/dashblogger/admin-console/internal/infrastructure/config"
	mongodb "github.com/dashblogger/admin-console/internal/infrastructure/db/mongo"
)

func newExportCmd() *cobra.Command {
	var f view.Filter
	var status string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the users collection as CSV to stdout",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f.Status = view.StatusFilter(status)
			if !f.Status.Valid() {
				return view.ErrInvalidStatus
			}

			ctx := cmd.Context()
			cfg, err := config.Load(ctx)
			if err != nil {
				return err
			}
			client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
			if err != nil {
				return err
			}
			defer mongodb.Disconnect(client)

			users, err := mongodb.NewUserStore(db, zerolog.Nop()).List(ctx, 0)
			if err != nil {
				return err
			}
			return export.WriteCSV(cmd.OutOrStdout(), view.Apply(users, f, time.Now()))
		},
	}
	cmd.Flags().StringVarP(&f.Query, "query", "q", "", "only users whose name or email contains this text")
	cmd.Flags().StringVar(&status, "status", "", "premium, free or expired")
	return cmd
}
