package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func (cli *commandLine) printJSON(v interface{}) error {
	enc := json.NewEncoder(cli.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (cli *commandLine) statsDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Print the admin dashboard statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := cli.statsSvc.Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			return cli.printJSON(d)
		},
	}
}

func (cli *commandLine) statsSectorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sectors",
		Short: "Print the sector distribution",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := cli.statsSvc.Sectors(cmd.Context())
			if err != nil {
				return err
			}
			return cli.printJSON(d)
		},
	}
}
