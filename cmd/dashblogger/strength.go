package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dashblogger/admin-console/internal/core/password"
)

func newStrengthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "strength <password>",
		Short: "Score a password the way the sign-up form does",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := password.Estimate(args[0])
			level := string(s.Level)
			if level == "" {
				level = "none"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "score: %d\nlevel: %s\n", s.Score, level)
			if len(s.Missing) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "missing: %s\n", strings.Join(s.Missing, ", "))
			}
			return nil
		},
	}
}
