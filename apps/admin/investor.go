package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/startupsl/backend/core/investor"
)

func (cli *commandLine) investorStatusCmd() *cobra.Command {
	var sc investor.StatusChange
	var actor string

	cmd := &cobra.Command{
		Use:   "status INVESTOR_ID ACTION",
		Short: "Apply a moderation action (pending, approved, rejected, suspended, deleted) to an investor",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc.Action = args[1]
			if err := sc.Validate(); err != nil {
				return err
			}
			inv, err := cli.invSvc.ApplyStatus(cmd.Context(), args[0], actor, sc)
			if err != nil {
				return err
			}
			fmt.Fprintf(cli.out, "investor %s (%s) is now %s\n", inv.ID, inv.Name, inv.Status)
			return nil
		},
	}
	cmd.Flags().StringVar(&sc.Reason, "reason", "", "reason shared with the investor")
	cmd.Flags().StringVar(&actor, "actor", "admin-cli", "user id recorded in the status history")
	return cmd
}
